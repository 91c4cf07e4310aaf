package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Snapshot struct {
	Holdings         []Holding        `json:"holdings"`
	ReferenceEntries []ReferenceEntry `json:"reference_entries"`
	UsdRate          decimal.Decimal  `json:"usd_rate"`
	IsLoading        bool             `json:"is_loading"`
	TakenAt          time.Time        `json:"taken_at"`
}
