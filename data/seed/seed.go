package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/KotFed0t/invest_dashboard/internal/model"
)

var ErrEmptyTicker = errors.New("seed entry with empty ticker")

// Data - статичные позиции, которых нет в брокерском портфеле
// (заблокированные и делистнутые активы, крипта вручную) и справочник без публичного каталога.
type Data struct {
	Holdings   []model.Holding        `json:"holdings"`
	Crypto     []model.Holding        `json:"crypto"`
	References []model.ReferenceEntry `json:"references"`
}

func LoadFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

func Load(r io.Reader) (Data, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Data{}, fmt.Errorf("decode seed: %w", err)
	}

	if err := d.validate(); err != nil {
		return Data{}, err
	}

	return d, nil
}

func (d Data) validate() error {
	for _, h := range append(append([]model.Holding{}, d.Holdings...), d.Crypto...) {
		if h.Ticker == "" {
			return ErrEmptyTicker
		}
	}
	for _, r := range d.References {
		if r.Ticker == "" {
			return ErrEmptyTicker
		}
	}
	return nil
}

// KnownTickers - тикеры сидов; у заблокированных бумаг отрезается суффикс -RM
func (d Data) KnownTickers() model.KnownTickerSet {
	known := model.NewKnownTickerSet()
	for _, h := range d.Holdings {
		known.Add(model.BaseTicker(h.Ticker))
	}
	for _, h := range d.Crypto {
		known.Add(h.Ticker)
	}
	return known
}

func (d Data) CryptoTickers() []string {
	res := make([]string, 0, len(d.Crypto))
	for _, h := range d.Crypto {
		res = append(res, h.Ticker)
	}
	return res
}
