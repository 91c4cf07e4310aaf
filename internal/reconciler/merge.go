package reconciler

import (
	"github.com/KotFed0t/invest_dashboard/internal/converter/tinvestConverter"
	"github.com/KotFed0t/invest_dashboard/internal/model"
	"github.com/KotFed0t/invest_dashboard/internal/model/tinvestModel"
)

// MergeCatalog дописывает в конец entries инструменты каталога, тикеры которых есть в known
// и отсутствуют в excluded. Это append, а не upsert: повторный вызов даст дубли.
func MergeCatalog(
	entries []model.ReferenceEntry,
	catalog []tinvestModel.Instrument,
	known model.KnownTickerSet,
	excluded ...string,
) []model.ReferenceEntry {
	res := make([]model.ReferenceEntry, len(entries), len(entries)+len(catalog))
	copy(res, entries)

	for _, instrument := range catalog {
		if !known.Has(instrument.Ticker) || isExcluded(instrument.Ticker, excluded) {
			continue
		}
		res = append(res, tinvestConverter.InstrumentToReference(instrument))
	}

	return res
}

func isExcluded(ticker string, excluded []string) bool {
	for _, e := range excluded {
		if e == ticker {
			return true
		}
	}
	return false
}
