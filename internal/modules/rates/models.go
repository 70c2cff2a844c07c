package rates

import (
	"time"
)

// Metal identifies a buyback metal variant
type Metal string

const (
	MetalGold24 Metal = "gold24"
	MetalGold22 Metal = "gold22"
	MetalSilver Metal = "silver"
)

// AllMetals lists the supported metals in display order
var AllMetals = []Metal{MetalGold22, MetalGold24, MetalSilver}

// Valid reports whether m is a supported metal
func (m Metal) Valid() bool {
	switch m {
	case MetalGold24, MetalGold22, MetalSilver:
		return true
	}
	return false
}

// Label returns the user-facing name of the metal
func (m Metal) Label() string {
	switch m {
	case MetalGold24:
		return "24K Gold"
	case MetalGold22:
		return "22K Gold"
	case MetalSilver:
		return "Silver"
	}
	return string(m)
}

// DefaultPurity returns the purity preset (%) shown for a metal:
// 91.6 for 22K, 99.9 for 24K, 100 for silver.
func (m Metal) DefaultPurity() float64 {
	switch m {
	case MetalGold24:
		return 99.9
	case MetalGold22:
		return 91.6
	case MetalSilver:
		return 100
	}
	return 0
}

// RateSnapshot is one normalized rate observation for a single metal
type RateSnapshot struct {
	ID             int       `json:"id,omitempty"`
	Metal          Metal     `json:"metal"`
	RatePerGram    float64   `json:"rate_per_gram"`
	Source         string    `json:"source"` // upstream source name, "Manual" or "Default"
	EffectiveDate  time.Time `json:"effective_date"`
	FetchedAt      time.Time `json:"fetched_at"`
	ScaleCorrected bool      `json:"scale_corrected"`
}

// Stats summarizes recent rate movement for one metal
type Stats struct {
	Metal         Metal    `json:"metal"`
	Latest        float64  `json:"latest"`
	Previous      *float64 `json:"previous,omitempty"`
	ChangeAmount  *float64 `json:"change_amount,omitempty"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
	Mean          float64  `json:"mean"`
	StdDev        float64  `json:"std_dev"`
	SMA7          *float64 `json:"sma_7,omitempty"`
	Samples       int      `json:"samples"`
}
