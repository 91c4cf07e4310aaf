package telebotConverter

import (
	"fmt"
	"strings"

	"github.com/KotFed0t/invest_dashboard/internal/model"
	"github.com/KotFed0t/invest_dashboard/internal/model/tg"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

const defaultCurrency = "₽"

// Profit - прибыль позиции целиком: (текущая - средняя) * кол-во
func Profit(h model.Holding) decimal.Decimal {
	return h.CurrentPrice.Sub(h.AvgPrice).Mul(decimal.NewFromInt(h.Quantity))
}

// ProfitPercent - доходность позиции в процентах с двумя знаками, "0.00" при нулевой средней цене
func ProfitPercent(h model.Holding) string {
	if h.AvgPrice.IsZero() {
		return "0.00"
	}
	return h.CurrentPrice.Div(h.AvgPrice).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).StringFixed(2)
}

// ValueRub - стоимость позиции в рублях, долларовые позиции из сидов пересчитываются по курсу
func ValueRub(h model.Holding, usdRate decimal.Decimal) decimal.Decimal {
	value := h.CurrentPrice.Mul(decimal.NewFromInt(h.Quantity))
	if model.CurrencyCode(h.Currency) == model.CurrencyUsd {
		return value.Mul(usdRate)
	}
	return value
}

func HoldingsResponse(holdings []model.Holding, usdRate decimal.Decimal, isLoading bool) (text string, markup *tele.ReplyMarkup) {
	var sb strings.Builder

	sb.WriteString("📊 Портфель\n")
	sb.WriteString(fmt.Sprintf("💵 Курс USD: %s ₽\n", usdRate.StringFixed(2)))
	if isLoading {
		sb.WriteString("⏳ обновляется...\n")
	}
	sb.WriteString("\n")

	total := decimal.Zero
	for i, h := range holdings {
		currency := h.Currency
		if currency == "" {
			currency = defaultCurrency
		}

		total = total.Add(ValueRub(h, usdRate))

		sb.WriteString(fmt.Sprintf("%d. %s", i+1, h.Ticker))
		if h.Name != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", h.Name))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("   ▸ Кол-во: %d шт.\n", h.Quantity))
		sb.WriteString(fmt.Sprintf("   ▸ Цена: %s %s (средняя %s)\n", h.CurrentPrice.StringFixed(2), currency, h.AvgPrice.StringFixed(2)))
		sb.WriteString(fmt.Sprintf("   ▸ Прибыль: %s %s (%s%%)\n", Profit(h).StringFixed(2), currency, ProfitPercent(h)))
		sb.WriteString(fmt.Sprintf("   ▸ За день: %s %s\n\n", h.DailyProfit.StringFixed(2), currency))
	}

	if len(holdings) == 0 {
		sb.WriteString("Портфель пуст, нажмите «Обновить»\n")
	} else {
		sb.WriteString(fmt.Sprintf("💰 Стоимость: %s %s\n", total.StringFixed(2), defaultCurrency))
	}

	return sb.String(), RefreshMarkup()
}

func ReferencesResponse(entries []model.ReferenceEntry) (text string, markup *tele.ReplyMarkup) {
	var sb strings.Builder

	sb.WriteString("📋 Справочник\n\n")

	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("• %s — %s", e.Ticker, e.Name))
		if e.CurrentPrice.Valid {
			sb.WriteString(fmt.Sprintf(": %s", e.CurrentPrice.Decimal.String()))
		}
		if e.DailyProfit.Valid {
			sb.WriteString(fmt.Sprintf(" (%s за день)", signed(e.DailyProfit.Decimal)))
		}
		sb.WriteString("\n")
	}

	return sb.String(), RefreshMarkup()
}

func RefreshMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	markup.Inline(
		markup.Row(markup.Data("🔄 Обновить всё", tg.RefreshAll)),
		markup.Row(
			markup.Data("Портфель", tg.RefreshHoldings),
			markup.Data("Акции", tg.RefreshShares),
			markup.Data("Фонды", tg.RefreshEtfs),
		),
		markup.Row(
			markup.Data("Валюты", tg.RefreshCurrencies),
			markup.Data("Крипта", tg.RefreshCrypto),
		),
	)

	return markup
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.String()
	}
	return d.String()
}
