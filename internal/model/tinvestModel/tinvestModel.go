package tinvestModel

import "encoding/json"

const (
	InstrumentValueLastPrice   = "INSTRUMENT_VALUE_LAST_PRICE"
	InstrumentValueClosePrice  = "INSTRUMENT_VALUE_CLOSE_PRICE"
	InstrumentValueUnspecified = "INSTRUMENT_VALUE_UNSPECIFIED"

	InstrumentStatusUnspecified   = "INSTRUMENT_STATUS_UNSPECIFIED"
	InstrumentExchangeUnspecified = "INSTRUMENT_EXCHANGE_UNSPECIFIED"
)

// MoneyValue - формат брокера: целая часть + дробная в nano.
// REST отдаёт int64 строкой, поэтому units - json.Number.
type MoneyValue struct {
	Units    json.Number `json:"units"`
	Nano     int32       `json:"nano"`
	Currency string      `json:"currency,omitempty"`
}

type PortfolioRequest struct {
	AccountID string `json:"accountId"`
	Currency  string `json:"currency"`
}

type PortfolioResponse struct {
	Positions []Position `json:"positions"`
}

type Position struct {
	Ticker               string      `json:"ticker"`
	Figi                 string      `json:"figi"`
	InstrumentUID        string      `json:"instrumentUid"`
	InstrumentType       string      `json:"instrumentType"`
	Quantity             *MoneyValue `json:"quantity"`
	AveragePositionPrice *MoneyValue `json:"averagePositionPrice"`
	CurrentPrice         *MoneyValue `json:"currentPrice"`
	DailyYield           *MoneyValue `json:"dailyYield"`
}

type InstrumentsRequest struct {
	InstrumentStatus   string `json:"instrumentStatus"`
	InstrumentExchange string `json:"instrumentExchange"`
}

type InstrumentsResponse struct {
	Instruments []Instrument `json:"instruments"`
}

type Instrument struct {
	Ticker    string `json:"ticker"`
	Name      string `json:"name"`
	UID       string `json:"uid"`
	Figi      string `json:"figi"`
	Isin      string `json:"isin"`
	ClassCode string `json:"classCode"`
	Currency  string `json:"currency"`
}

type MarketValuesRequest struct {
	InstrumentID []string `json:"instrumentId"`
	Values       []string `json:"values"`
}

type MarketValuesResponse struct {
	Instruments []InstrumentValues `json:"instruments"`
}

type InstrumentValues struct {
	InstrumentUID string        `json:"instrumentUid"`
	Ticker        string        `json:"ticker"`
	Values        []MarketValue `json:"values"`
}

type MarketValue struct {
	Type  string      `json:"type"`
	Value *MoneyValue `json:"value"`
}
