package model

import "github.com/shopspring/decimal"

// ReferenceEntry описывает инструмент, который не обязательно есть в портфеле.
// Цены заполняются только после обогащения.
type ReferenceEntry struct {
	Ticker       string              `json:"ticker"`
	Name         string              `json:"name"`
	UID          string              `json:"uid,omitempty"`
	Figi         string              `json:"figi,omitempty"`
	Currency     string              `json:"currency,omitempty"`
	CurrentPrice decimal.NullDecimal `json:"current_price"`
	DailyProfit  decimal.NullDecimal `json:"daily_profit"`
}
