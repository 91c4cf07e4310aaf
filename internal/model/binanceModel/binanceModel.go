package binanceModel

type TickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}
