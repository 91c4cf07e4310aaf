package tinvestConverter

import (
	"encoding/json"
	"testing"

	"github.com/KotFed0t/invest_dashboard/internal/model/tinvestModel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mv(units string, nano int32, currency string) *tinvestModel.MoneyValue {
	return &tinvestModel.MoneyValue{Units: json.Number(units), Nano: nano, Currency: currency}
}

func position(ticker string, price *tinvestModel.MoneyValue, yield *tinvestModel.MoneyValue) tinvestModel.Position {
	return tinvestModel.Position{
		Ticker:               ticker,
		Figi:                 "FIGI_" + ticker,
		Quantity:             mv("3", 0, ""),
		AveragePositionPrice: price,
		CurrentPrice:         price,
		DailyYield:           yield,
	}
}

func TestDecodeMoneyValue(t *testing.T) {
	one := decimal.NewFromInt(1)

	cases := []struct {
		name       string
		units      string
		nano       int32
		multiplier decimal.Decimal
		want       string
	}{
		{"plain", "10", 5, one, "10.5"},
		{"nano is not zero padded", "9", 50, one, "9.50"},
		{"full nano", "95", 120000000, one, "95.12"},
		{"zero", "0", 0, one, "0"},
		{"negative units", "-4", 0, one, "-4"},
		{"with multiplier", "2", 5, decimal.RequireFromString("90.5"), "226.25"},
		{"empty units", "", 7, one, "0.7"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeMoneyValue(tc.units, tc.nano, tc.multiplier)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s, want %s", got, tc.want)
		})
	}
}

func TestDecodeMoneyValue_NegativeNano(t *testing.T) {
	_, err := DecodeMoneyValue("-1", -500000000, decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrMalformedMoneyValue)
}

func TestDecode_Nil(t *testing.T) {
	_, err := Decode(nil, decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrMissingField)
}

func TestMoneyValue_UnitsAsStringOrNumber(t *testing.T) {
	var fromString, fromNumber tinvestModel.MoneyValue
	require.NoError(t, json.Unmarshal([]byte(`{"units":"12","nano":3,"currency":"rub"}`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`{"units":12,"nano":3,"currency":"rub"}`), &fromNumber))

	a, err := Decode(&fromString, decimal.NewFromInt(1))
	require.NoError(t, err)
	b, err := Decode(&fromNumber, decimal.NewFromInt(1))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, "12.3", a.String())
}

func TestUsdMultiplier(t *testing.T) {
	rate := decimal.RequireFromString("90.5")
	assert.True(t, rate.Equal(UsdMultiplier("usd", rate)))
	assert.True(t, decimal.NewFromInt(1).Equal(UsdMultiplier("rub", rate)))
	assert.True(t, decimal.NewFromInt(1).Equal(UsdMultiplier("", rate)))
}

func TestExtractUsdRate(t *testing.T) {
	positions := []tinvestModel.Position{
		position("SBER", mv("300", 1, "rub"), mv("5", 0, "rub")),
		position(UsdTicker, mv("90", 5, "rub"), mv("0", 0, "rub")),
	}

	rate, err := ExtractUsdRate(positions)
	require.NoError(t, err)
	assert.Equal(t, "90.5", rate.String())
}

func TestExtractUsdRate_NotFound(t *testing.T) {
	_, err := ExtractUsdRate([]tinvestModel.Position{position("SBER", mv("1", 0, "rub"), mv("0", 0, "rub"))})
	require.ErrorIs(t, err, ErrUsdRateNotFound)

	noPrice := position(UsdTicker, nil, mv("0", 0, "rub"))
	_, err = ExtractUsdRate([]tinvestModel.Position{noPrice})
	require.ErrorIs(t, err, ErrUsdRateNotFound)
}

func TestNormalizePositions_DropsFiat(t *testing.T) {
	positions := []tinvestModel.Position{
		position("USD000UTSTOM", mv("90", 0, "rub"), mv("0", 0, "rub")),
		position("SBER", mv("300", 0, "rub"), mv("1", 0, "rub")),
		position("RUB000UTSTOM", mv("1", 0, "rub"), mv("0", 0, "rub")),
		position("TRYRUB_TOM_CETS", mv("2", 0, "rub"), mv("0", 0, "rub")),
	}

	holdings, err := NormalizePositions(positions, decimal.NewFromInt(90))
	require.NoError(t, err)
	require.Len(t, holdings, 1)

	for _, h := range holdings {
		assert.False(t, IsFiat(h.Ticker), "fiat ticker %s leaked", h.Ticker)
	}
}

func TestNormalizePositions_PreservesOrder(t *testing.T) {
	positions := []tinvestModel.Position{
		position("YNDX", mv("1", 0, "rub"), mv("0", 0, "rub")),
		position("RUB000UTSTOM", mv("1", 0, "rub"), mv("0", 0, "rub")),
		position("AAPL", mv("1", 0, "usd"), mv("0", 0, "usd")),
		position("GAZP", mv("1", 0, "rub"), mv("0", 0, "rub")),
	}

	holdings, err := NormalizePositions(positions, decimal.NewFromInt(90))
	require.NoError(t, err)

	tickers := make([]string, 0, len(holdings))
	for _, h := range holdings {
		tickers = append(tickers, h.Ticker)
	}
	assert.Equal(t, []string{"YNDX", "AAPL", "GAZP"}, tickers)
}

func TestNormalizePositions_UsdConversion(t *testing.T) {
	rate := decimal.RequireFromString("90.5")
	p := tinvestModel.Position{
		Ticker:               "AAPL",
		Figi:                 "BBG000B9XRY4",
		Quantity:             mv("2", 0, ""),
		AveragePositionPrice: mv("150", 5, "usd"),
		CurrentPrice:         mv("170", 25, "usd"),
		DailyYield:           mv("3", 990000000, "usd"),
	}

	holdings, err := NormalizePositions([]tinvestModel.Position{p}, rate)
	require.NoError(t, err)
	require.Len(t, holdings, 1)

	h := holdings[0]
	assert.Equal(t, "AAPL", h.Ticker)
	assert.Equal(t, "BBG000B9XRY4", h.Figi)
	assert.Equal(t, int64(2), h.Quantity)
	assert.True(t, decimal.RequireFromString("150.5").Mul(rate).Equal(h.AvgPrice))
	assert.True(t, decimal.RequireFromString("170.25").Mul(rate).Equal(h.CurrentPrice))
	// nano доходности игнорируется
	assert.True(t, decimal.NewFromInt(3).Mul(rate).Equal(h.DailyProfit))
}

func TestNormalizePositions_RubIgnoresRate(t *testing.T) {
	p := position("SBER", mv("300", 5, "rub"), mv("-7", 500000000, "rub"))

	holdings, err := NormalizePositions([]tinvestModel.Position{p}, decimal.NewFromInt(90))
	require.NoError(t, err)
	require.Len(t, holdings, 1)

	assert.Equal(t, "300.5", holdings[0].CurrentPrice.String())
	assert.Equal(t, "-7", holdings[0].DailyProfit.String())
}

func TestNormalizePositions_MissingPrice(t *testing.T) {
	p := position("SBER", nil, mv("1", 0, "rub"))

	_, err := NormalizePositions([]tinvestModel.Position{p}, decimal.NewFromInt(90))
	require.ErrorIs(t, err, ErrMissingField)
}

func TestInstrumentToReference(t *testing.T) {
	ref := InstrumentToReference(tinvestModel.Instrument{
		Ticker:   "SBER",
		Name:     "Сбер Банк",
		UID:      "e6123145-9665-43e0-8413-cd61b8aa9b13",
		Figi:     "BBG004730N88",
		Currency: "rub",
	})

	assert.Equal(t, "SBER", ref.Ticker)
	assert.Equal(t, "Сбер Банк", ref.Name)
	assert.Equal(t, "e6123145-9665-43e0-8413-cd61b8aa9b13", ref.UID)
	assert.False(t, ref.CurrentPrice.Valid)
	assert.False(t, ref.DailyProfit.Valid)
}
