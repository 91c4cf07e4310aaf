package reconciler

import (
	"fmt"
	"strings"

	"github.com/KotFed0t/invest_dashboard/internal/converter/tinvestConverter"
	"github.com/KotFed0t/invest_dashboard/internal/model"
	"github.com/KotFed0t/invest_dashboard/internal/model/binanceModel"
	"github.com/KotFed0t/invest_dashboard/internal/model/tinvestModel"
	"github.com/shopspring/decimal"
)

const QuoteAsset = "USDT"

// SkipFn получает инструменты, которые не удалось применить
type SkipFn func(key string, err error)

// UIDs - непустые uid в порядке следования записей
func UIDs(entries []model.ReferenceEntry) []string {
	res := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.UID != "" {
			res = append(res, e.UID)
		}
	}
	return res
}

func CryptoSymbols(tickers []string) []string {
	res := make([]string, 0, len(tickers))
	for _, t := range tickers {
		res = append(res, t+QuoteAsset)
	}
	return res
}

// EnrichByUID проставляет current_price по последней цене и daily_profit как разницу
// последней цены и цены закрытия. Обновляется только первая запись с таким uid.
// Возвращает количество обновлённых записей.
func EnrichByUID(entries []model.ReferenceEntry, instruments []tinvestModel.InstrumentValues, onSkip SkipFn) int {
	one := decimal.NewFromInt(1)
	updated := 0

	for _, instrument := range instruments {
		idx := indexByUID(entries, instrument.InstrumentUID)
		if idx < 0 {
			continue
		}

		last := findValue(instrument.Values, tinvestModel.InstrumentValueLastPrice)
		if last == nil {
			continue
		}

		lastPrice, err := tinvestConverter.Decode(last, one)
		if err != nil {
			skip(onSkip, instrument.InstrumentUID, fmt.Errorf("last price: %w", err))
			continue
		}

		entries[idx].CurrentPrice = decimal.NewNullDecimal(lastPrice)
		updated++

		// битая цена закрытия не отменяет последнюю цену, пропускается только дневная разница
		closeValue := findValue(instrument.Values, tinvestModel.InstrumentValueClosePrice)
		if closeValue == nil {
			continue
		}
		closePrice, err := tinvestConverter.Decode(closeValue, one)
		if err != nil {
			skip(onSkip, instrument.InstrumentUID, fmt.Errorf("close price: %w", err))
			continue
		}
		entries[idx].DailyProfit = decimal.NewNullDecimal(lastPrice.Sub(closePrice))
	}

	return updated
}

// EnrichBySymbol ищет запись по символу без суффикса USDT и ставит цену как есть, без конвертации
func EnrichBySymbol(entries []model.ReferenceEntry, prices []binanceModel.TickerPrice, onSkip SkipFn) int {
	updated := 0

	for _, p := range prices {
		ticker := strings.TrimSuffix(p.Symbol, QuoteAsset)
		idx := indexByTicker(entries, ticker)
		if idx < 0 {
			continue
		}

		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			skip(onSkip, p.Symbol, fmt.Errorf("price %q: %w", p.Price, err))
			continue
		}

		entries[idx].CurrentPrice = decimal.NewNullDecimal(price)
		updated++
	}

	return updated
}

func indexByUID(entries []model.ReferenceEntry, uid string) int {
	if uid == "" {
		return -1
	}
	for i := range entries {
		if entries[i].UID == uid {
			return i
		}
	}
	return -1
}

func indexByTicker(entries []model.ReferenceEntry, ticker string) int {
	for i := range entries {
		if entries[i].Ticker == ticker {
			return i
		}
	}
	return -1
}

func findValue(values []tinvestModel.MarketValue, valueType string) *tinvestModel.MoneyValue {
	for _, v := range values {
		if v.Type == valueType && v.Value != nil {
			return v.Value
		}
	}
	return nil
}

func skip(onSkip SkipFn, key string, err error) {
	if onSkip != nil {
		onSkip(key, err)
	}
}
