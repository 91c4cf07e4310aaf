package reconciler

import (
	"github.com/KotFed0t/invest_dashboard/internal/model"
	"github.com/shopspring/decimal"
)

// PriceHoldings подставляет в позиции из сидов цены справочника.
// Берётся первая запись с ценой, тем же тикером (без -RM) и той же валютой.
// Живые позиции брокера не трогаются: у них нет тега валюты и цена уже в рублях.
// Исходный срез не меняется.
func PriceHoldings(holdings []model.Holding, entries []model.ReferenceEntry) []model.Holding {
	res := make([]model.Holding, len(holdings))
	copy(res, holdings)

	for i, h := range res {
		if h.Currency == "" {
			continue
		}

		idx := indexPricedEntry(entries, model.BaseTicker(h.Ticker), model.CurrencyCode(h.Currency))
		if idx < 0 {
			continue
		}

		res[i].CurrentPrice = entries[idx].CurrentPrice.Decimal
		if entries[idx].DailyProfit.Valid {
			res[i].DailyProfit = entries[idx].DailyProfit.Decimal.Mul(decimal.NewFromInt(h.Quantity))
		}
	}

	return res
}

func indexPricedEntry(entries []model.ReferenceEntry, ticker, currency string) int {
	for i, e := range entries {
		if e.Ticker == ticker && e.CurrentPrice.Valid && model.CurrencyCode(e.Currency) == currency {
			return i
		}
	}
	return -1
}
