package model

import "strings"

// KnownTickerSet - тикеры, по которым имеет смысл тянуть справочные данные.
// Только растёт.
type KnownTickerSet map[string]struct{}

func NewKnownTickerSet(tickers ...string) KnownTickerSet {
	s := make(KnownTickerSet, len(tickers))
	for _, t := range tickers {
		s.Add(t)
	}
	return s
}

func (s KnownTickerSet) Add(ticker string) {
	s[ticker] = struct{}{}
}

func (s KnownTickerSet) Has(ticker string) bool {
	_, ok := s[ticker]
	return ok
}

func (s KnownTickerSet) Clone() KnownTickerSet {
	res := make(KnownTickerSet, len(s))
	for t := range s {
		res[t] = struct{}{}
	}
	return res
}

const rmSuffix = "-RM"

// BaseTicker отрезает суффикс -RM заблокированных бумаг
func BaseTicker(ticker string) string {
	return strings.TrimSuffix(ticker, rmSuffix)
}
