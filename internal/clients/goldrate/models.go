package goldrate

import "time"

// RateGroup is one upstream-reported snapshot of metal rates at a given
// effective date. Gold payloads carry rate24/rate22/rate18; silver payloads
// have been observed with rate24, ratePerGram or rate depending on the
// backend version.
type RateGroup struct {
	Rate24        float64 `json:"rate24"`
	Rate22        float64 `json:"rate22"`
	Rate18        float64 `json:"rate18"`
	RatePerGram   float64 `json:"ratePerGram"`
	Rate          float64 `json:"rate"`
	MarketPrice   float64 `json:"marketPrice"`
	Source        string  `json:"source"`
	EffectiveDate string  `json:"effectiveDate"`
}

// GoldRates is the reconciled, per-gram gold quote from the latest rate group
type GoldRates struct {
	Rate24         float64
	Rate22         float64
	Rate18         float64
	MarketPrice    float64
	Source         string
	EffectiveDate  time.Time
	ScaleCorrected bool
}

// SilverRates is the reconciled, per-gram silver quote
type SilverRates struct {
	RatePerGram   float64
	MarketPrice   float64
	Source        string
	EffectiveDate time.Time
}
