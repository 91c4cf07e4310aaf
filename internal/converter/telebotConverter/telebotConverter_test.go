package telebotConverter

import (
	"testing"

	"github.com/KotFed0t/invest_dashboard/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProfit(t *testing.T) {
	h := model.Holding{Quantity: 3, AvgPrice: decimal.NewFromInt(100), CurrentPrice: decimal.RequireFromString("110.5")}

	assert.Equal(t, "31.5", Profit(h).String())
	assert.Equal(t, "10.50", ProfitPercent(h))
	assert.Equal(t, "0.00", ProfitPercent(model.Holding{Quantity: 1, CurrentPrice: decimal.NewFromInt(5)}))
}

func TestHoldingsResponse(t *testing.T) {
	holdings := []model.Holding{
		{Ticker: "TECH", Name: "Технологии", Quantity: 1, AvgPrice: decimal.NewFromInt(500), CurrentPrice: decimal.NewFromInt(480)},
		{Ticker: "BTC", Quantity: 2, AvgPrice: decimal.NewFromInt(30000), CurrentPrice: decimal.NewFromInt(60000), Currency: "$"},
	}

	text, markup := HoldingsResponse(holdings, decimal.RequireFromString("90.5"), true)

	assert.Contains(t, text, "Курс USD: 90.50 ₽")
	assert.Contains(t, text, "обновляется")
	assert.Contains(t, text, "1. TECH (Технологии)")
	assert.Contains(t, text, "Прибыль: -20.00 ₽ (-4.00%)")
	assert.Contains(t, text, "Прибыль: 60000.00 $ (100.00%)")
	// 480 + 2 * 60000 * 90.5
	assert.Contains(t, text, "Стоимость: 10860480.00 ₽")
	assert.NotNil(t, markup)
	assert.Len(t, markup.InlineKeyboard, 3)
}

func TestValueRub(t *testing.T) {
	rate := decimal.NewFromInt(90)

	live := model.Holding{Ticker: "AAPL", Quantity: 1, CurrentPrice: decimal.NewFromInt(9000)}
	seedRub := model.Holding{Ticker: "POLY", Quantity: 10, CurrentPrice: decimal.NewFromInt(450), Currency: "₽"}
	seedUsd := model.Holding{Ticker: "BTC", Quantity: 1, CurrentPrice: decimal.NewFromInt(65000), Currency: "$"}

	assert.Equal(t, "9000", ValueRub(live, rate).String())
	assert.Equal(t, "4500", ValueRub(seedRub, rate).String())
	assert.Equal(t, "5850000", ValueRub(seedUsd, rate).String())
}

func TestHoldingsResponse_MixedCurrencyTotal(t *testing.T) {
	holdings := []model.Holding{
		{Ticker: "AAPL", Quantity: 1, AvgPrice: decimal.NewFromInt(8000), CurrentPrice: decimal.NewFromInt(9000)},
		{Ticker: "BTC", Quantity: 1, AvgPrice: decimal.NewFromInt(30000), CurrentPrice: decimal.NewFromInt(65000), Currency: "$"},
	}

	text, _ := HoldingsResponse(holdings, decimal.NewFromInt(90), false)

	assert.Contains(t, text, "Стоимость: 5859000.00 ₽")
	assert.NotContains(t, text, "74000.00")
}

func TestHoldingsResponse_Empty(t *testing.T) {
	text, _ := HoldingsResponse(nil, decimal.Zero, false)

	assert.Contains(t, text, "Портфель пуст")
	assert.NotContains(t, text, "обновляется")
}

func TestReferencesResponse(t *testing.T) {
	entries := []model.ReferenceEntry{
		{Ticker: "TECH", Name: "Технологии"},
		{
			Ticker:       "SBER",
			Name:         "Сбер Банк",
			CurrentPrice: decimal.NewNullDecimal(decimal.RequireFromString("10.5")),
			DailyProfit:  decimal.NewNullDecimal(decimal.NewFromInt(1)),
		},
	}

	text, _ := ReferencesResponse(entries)

	assert.Contains(t, text, "• TECH — Технологии\n")
	assert.Contains(t, text, "• SBER — Сбер Банк: 10.5 (+1 за день)")
}
