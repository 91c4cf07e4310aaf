package reconciler

import (
	"encoding/json"
	"testing"

	"github.com/KotFed0t/invest_dashboard/internal/model"
	"github.com/KotFed0t/invest_dashboard/internal/model/binanceModel"
	"github.com/KotFed0t/invest_dashboard/internal/model/tinvestModel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(valueType, units string, nano int32) tinvestModel.MarketValue {
	return tinvestModel.MarketValue{
		Type:  valueType,
		Value: &tinvestModel.MoneyValue{Units: json.Number(units), Nano: nano},
	}
}

func TestUIDs(t *testing.T) {
	entries := []model.ReferenceEntry{
		{Ticker: "TECH"},
		{Ticker: "SBER", UID: "uid-sber"},
		{Ticker: "META"},
		{Ticker: "GAZP", UID: "uid-gazp"},
	}
	assert.Equal(t, []string{"uid-sber", "uid-gazp"}, UIDs(entries))
	assert.Empty(t, UIDs(nil))
}

func TestCryptoSymbols(t *testing.T) {
	assert.Equal(t, []string{"BTCUSDT", "TONUSDT"}, CryptoSymbols([]string{"BTC", "TON"}))
}

func TestEnrichByUID_LastAndClose(t *testing.T) {
	entries := []model.ReferenceEntry{{Ticker: "X", UID: "X"}}
	instruments := []tinvestModel.InstrumentValues{{
		InstrumentUID: "X",
		Values: []tinvestModel.MarketValue{
			value(tinvestModel.InstrumentValueLastPrice, "10", 5),
			value(tinvestModel.InstrumentValueClosePrice, "9", 50),
		},
	}}

	updated := EnrichByUID(entries, instruments, nil)

	require.Equal(t, 1, updated)
	require.True(t, entries[0].CurrentPrice.Valid)
	require.True(t, entries[0].DailyProfit.Valid)
	assert.Equal(t, "10.5", entries[0].CurrentPrice.Decimal.String())
	// 10.5 - 9.50, десятичная арифметика без погрешности
	assert.True(t, decimal.NewFromInt(1).Equal(entries[0].DailyProfit.Decimal))
}

func TestEnrichByUID_OnlyLast(t *testing.T) {
	entries := []model.ReferenceEntry{{Ticker: "X", UID: "X"}}
	instruments := []tinvestModel.InstrumentValues{{
		InstrumentUID: "X",
		Values:        []tinvestModel.MarketValue{value(tinvestModel.InstrumentValueLastPrice, "100", 25)},
	}}

	EnrichByUID(entries, instruments, nil)

	assert.Equal(t, "100.25", entries[0].CurrentPrice.Decimal.String())
	assert.False(t, entries[0].DailyProfit.Valid)
}

func TestEnrichByUID_OnlyCloseIsIgnored(t *testing.T) {
	entries := []model.ReferenceEntry{{Ticker: "X", UID: "X"}}
	instruments := []tinvestModel.InstrumentValues{{
		InstrumentUID: "X",
		Values:        []tinvestModel.MarketValue{value(tinvestModel.InstrumentValueClosePrice, "9", 0)},
	}}

	updated := EnrichByUID(entries, instruments, nil)

	assert.Zero(t, updated)
	assert.False(t, entries[0].CurrentPrice.Valid)
	assert.False(t, entries[0].DailyProfit.Valid)
}

func TestEnrichByUID_UnmatchedAndFirstMatch(t *testing.T) {
	entries := []model.ReferenceEntry{
		{Ticker: "SBER", UID: "uid-sber"},
		{Ticker: "SBER", UID: "uid-sber"},
		{Ticker: "GAZP", UID: "uid-gazp"},
	}
	instruments := []tinvestModel.InstrumentValues{
		{InstrumentUID: "uid-sber", Values: []tinvestModel.MarketValue{value(tinvestModel.InstrumentValueLastPrice, "300", 0)}},
		{InstrumentUID: "uid-unknown", Values: []tinvestModel.MarketValue{value(tinvestModel.InstrumentValueLastPrice, "1", 0)}},
	}

	updated := EnrichByUID(entries, instruments, nil)

	assert.Equal(t, 1, updated)
	assert.Equal(t, "300", entries[0].CurrentPrice.Decimal.String())
	assert.False(t, entries[1].CurrentPrice.Valid, "only the first entry with the uid is updated")
	assert.False(t, entries[2].CurrentPrice.Valid)
}

func TestEnrichByUID_MalformedValueSkipped(t *testing.T) {
	entries := []model.ReferenceEntry{{Ticker: "A", UID: "a"}, {Ticker: "B", UID: "b"}}
	instruments := []tinvestModel.InstrumentValues{
		{InstrumentUID: "a", Values: []tinvestModel.MarketValue{value(tinvestModel.InstrumentValueLastPrice, "-1", -5)}},
		{InstrumentUID: "b", Values: []tinvestModel.MarketValue{value(tinvestModel.InstrumentValueLastPrice, "2", 0)}},
	}

	var skipped []string
	updated := EnrichByUID(entries, instruments, func(key string, err error) {
		skipped = append(skipped, key)
		assert.Error(t, err)
	})

	assert.Equal(t, 1, updated)
	assert.Equal(t, []string{"a"}, skipped)
	assert.False(t, entries[0].CurrentPrice.Valid)
	assert.Equal(t, "2", entries[1].CurrentPrice.Decimal.String())
}

func TestEnrichByUID_MalformedCloseKeepsLastPrice(t *testing.T) {
	entries := []model.ReferenceEntry{{Ticker: "X", UID: "X", DailyProfit: decimal.NewNullDecimal(decimal.NewFromInt(3))}}
	instruments := []tinvestModel.InstrumentValues{{
		InstrumentUID: "X",
		Values: []tinvestModel.MarketValue{
			value(tinvestModel.InstrumentValueLastPrice, "10", 5),
			value(tinvestModel.InstrumentValueClosePrice, "-1", -5),
		},
	}}

	var skipped []string
	updated := EnrichByUID(entries, instruments, func(key string, err error) {
		skipped = append(skipped, key)
	})

	assert.Equal(t, 1, updated)
	assert.Equal(t, []string{"X"}, skipped)
	require.True(t, entries[0].CurrentPrice.Valid)
	assert.Equal(t, "10.5", entries[0].CurrentPrice.Decimal.String())
	// прошлая дневная разница не перезаписывается
	assert.Equal(t, "3", entries[0].DailyProfit.Decimal.String())
}

func TestEnrichByUID_EmptyUIDNeverMatches(t *testing.T) {
	entries := []model.ReferenceEntry{{Ticker: "TECH"}}
	instruments := []tinvestModel.InstrumentValues{
		{InstrumentUID: "", Values: []tinvestModel.MarketValue{value(tinvestModel.InstrumentValueLastPrice, "1", 0)}},
	}

	assert.Zero(t, EnrichByUID(entries, instruments, nil))
	assert.False(t, entries[0].CurrentPrice.Valid)
}

func TestEnrichBySymbol(t *testing.T) {
	eth := decimal.NewNullDecimal(decimal.NewFromInt(3000))
	entries := []model.ReferenceEntry{
		{Ticker: "BTC", Name: "Bitcoin"},
		{Ticker: "ETH", Name: "Ethereum", CurrentPrice: eth},
	}
	prices := []binanceModel.TickerPrice{{Symbol: "BTCUSDT", Price: "65000.12"}}

	updated := EnrichBySymbol(entries, prices, nil)

	assert.Equal(t, 1, updated)
	assert.True(t, decimal.RequireFromString("65000.12").Equal(entries[0].CurrentPrice.Decimal))
	assert.Equal(t, eth, entries[1].CurrentPrice, "entry without returned symbol is left unchanged")
}

func TestEnrichBySymbol_BadPrice(t *testing.T) {
	entries := []model.ReferenceEntry{{Ticker: "BTC"}}
	prices := []binanceModel.TickerPrice{{Symbol: "BTCUSDT", Price: "n/a"}}

	var skipErr error
	updated := EnrichBySymbol(entries, prices, func(_ string, err error) { skipErr = err })

	assert.Zero(t, updated)
	assert.Error(t, skipErr)
	assert.False(t, entries[0].CurrentPrice.Valid)
}
