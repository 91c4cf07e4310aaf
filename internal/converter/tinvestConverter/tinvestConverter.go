package tinvestConverter

import (
	"errors"
	"fmt"

	"github.com/KotFed0t/invest_dashboard/internal/model"
	"github.com/KotFed0t/invest_dashboard/internal/model/tinvestModel"
	"github.com/shopspring/decimal"
)

const (
	UsdTicker   = "USD000UTSTOM"
	usdCurrency = "usd"
)

var (
	ErrMalformedMoneyValue = errors.New("malformed money value")
	ErrUsdRateNotFound     = errors.New("usd rate not found in portfolio")
	ErrMissingField        = errors.New("missing position field")
)

// фиатные псевдо-позиции в портфель не попадают
var fiatTickers = map[string]struct{}{
	"USD000UTSTOM":    {},
	"RUB000UTSTOM":    {},
	"TRYRUB_TOM_CETS": {},
}

func IsFiat(ticker string) bool {
	_, ok := fiatTickers[ticker]
	return ok
}

// DecodeMoneyValue склеивает units и nano через точку и парсит как десятичное число.
// nano не дополняется нулями: (9, 50) -> 9.50, (10, 5) -> 10.5.
// Так считает брокерский фронт, поведение сохраняем.
func DecodeMoneyValue(units string, nano int32, multiplier decimal.Decimal) (decimal.Decimal, error) {
	if units == "" {
		units = "0"
	}
	if nano < 0 {
		return decimal.Zero, fmt.Errorf("%w: negative nano %d", ErrMalformedMoneyValue, nano)
	}

	raw := fmt.Sprintf("%s.%d", units, nano)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrMalformedMoneyValue, raw, err)
	}

	return d.Mul(multiplier), nil
}

func Decode(mv *tinvestModel.MoneyValue, multiplier decimal.Decimal) (decimal.Decimal, error) {
	if mv == nil {
		return decimal.Zero, ErrMissingField
	}
	return DecodeMoneyValue(mv.Units.String(), mv.Nano, multiplier)
}

// UsdMultiplier возвращает курс, если тег валюты usd, иначе 1
func UsdMultiplier(currency string, usdRate decimal.Decimal) decimal.Decimal {
	if currency == usdCurrency {
		return usdRate
	}
	return decimal.NewFromInt(1)
}

// ExtractUsdRate берёт текущую цену доллара из того же ответа портфеля
func ExtractUsdRate(positions []tinvestModel.Position) (decimal.Decimal, error) {
	for _, p := range positions {
		if p.Ticker != UsdTicker {
			continue
		}
		if p.CurrentPrice == nil {
			return decimal.Zero, fmt.Errorf("%w: %s has no currentPrice", ErrUsdRateNotFound, UsdTicker)
		}
		return Decode(p.CurrentPrice, decimal.NewFromInt(1))
	}
	return decimal.Zero, ErrUsdRateNotFound
}

// NormalizePositions переводит позиции брокера в Holding с сохранением порядка.
// daily_profit считается только по units доходности, nano отбрасывается.
func NormalizePositions(positions []tinvestModel.Position, usdRate decimal.Decimal) ([]model.Holding, error) {
	res := make([]model.Holding, 0, len(positions))

	for _, p := range positions {
		if IsFiat(p.Ticker) {
			continue
		}

		h, err := normalizePosition(p, usdRate)
		if err != nil {
			return nil, fmt.Errorf("position %s: %w", p.Ticker, err)
		}
		res = append(res, h)
	}

	return res, nil
}

func normalizePosition(p tinvestModel.Position, usdRate decimal.Decimal) (model.Holding, error) {
	if p.Ticker == "" {
		return model.Holding{}, fmt.Errorf("%w: ticker", ErrMissingField)
	}
	if p.DailyYield == nil || p.Quantity == nil {
		return model.Holding{}, fmt.Errorf("%w: dailyYield or quantity", ErrMissingField)
	}

	multiplier := UsdMultiplier(p.DailyYield.Currency, usdRate)

	avgPrice, err := Decode(p.AveragePositionPrice, multiplier)
	if err != nil {
		return model.Holding{}, fmt.Errorf("averagePositionPrice: %w", err)
	}

	currentPrice, err := Decode(p.CurrentPrice, multiplier)
	if err != nil {
		return model.Holding{}, fmt.Errorf("currentPrice: %w", err)
	}

	yieldUnits, err := units(p.DailyYield)
	if err != nil {
		return model.Holding{}, fmt.Errorf("dailyYield: %w", err)
	}

	quantity, err := units(p.Quantity)
	if err != nil {
		return model.Holding{}, fmt.Errorf("quantity: %w", err)
	}

	return model.Holding{
		Ticker:       p.Ticker,
		Figi:         p.Figi,
		Quantity:     quantity,
		AvgPrice:     avgPrice,
		CurrentPrice: currentPrice,
		DailyProfit:  decimal.NewFromInt(yieldUnits).Mul(multiplier),
	}, nil
}

func units(mv *tinvestModel.MoneyValue) (int64, error) {
	if mv.Units == "" {
		return 0, nil
	}
	n, err := mv.Units.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: units %q", ErrMalformedMoneyValue, mv.Units)
	}
	return n, nil
}

func InstrumentToReference(i tinvestModel.Instrument) model.ReferenceEntry {
	return model.ReferenceEntry{
		Ticker:   i.Ticker,
		Name:     i.Name,
		UID:      i.UID,
		Figi:     i.Figi,
		Currency: i.Currency,
	}
}
