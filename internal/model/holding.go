package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CurrencyRub = "rub"
	CurrencyUsd = "usd"
)

// Holding - позиция портфеля. Живые позиции брокера уже в рублях и без тега валюты,
// у позиций из сидов цена в валюте тега.
type Holding struct {
	Ticker       string          `json:"ticker"`
	Figi         string          `json:"figi,omitempty"`
	Isin         string          `json:"isin,omitempty"`
	Name         string          `json:"name,omitempty"`
	Quantity     int64           `json:"quantity"`
	AvgPrice     decimal.Decimal `json:"avg_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	DailyProfit  decimal.Decimal `json:"daily_profit"`
	Currency     string          `json:"currency,omitempty"`
}

// CurrencyCode приводит тег валюты из сидов и ответов брокера к коду: "", "₽" -> rub, "$" -> usd
func CurrencyCode(tag string) string {
	switch t := strings.ToLower(tag); t {
	case "", "₽", CurrencyRub:
		return CurrencyRub
	case "$", CurrencyUsd:
		return CurrencyUsd
	default:
		return t
	}
}
