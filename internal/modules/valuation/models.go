package valuation

import (
	"github.com/thiaworld/buyback-go/internal/modules/rates"
)

// Request is the user-declared item submitted for one estimate.
// Wastage and making charges are optional and default to 0.
type Request struct {
	Metal               rates.Metal `json:"metal"`
	WeightGrams         float64     `json:"weight_grams"`
	PurityPercent       float64     `json:"purity_percent"`
	WastagePercent      float64     `json:"wastage_percent"`
	MakingChargePerGram float64     `json:"making_charge_per_gram"`
}

// Result is the structured breakdown of one estimate. It is derived entirely
// from the request and the rate snapshot active at calculation time, and is
// never mutated after creation.
type Result struct {
	Metal                 rates.Metal `json:"metal"`
	RatePerGram           float64     `json:"rate_per_gram"`
	RateSource            string      `json:"rate_source"`
	WeightGrams           float64     `json:"weight_grams"`
	PurityPercent         float64     `json:"purity_percent"`
	EffectiveWeightGrams  float64     `json:"effective_weight_grams"`
	GrossValue            float64     `json:"gross_value"`
	WastageDeduction      float64     `json:"wastage_deduction"`
	MakingChargeDeduction float64     `json:"making_charge_deduction"`
	FinalValue            float64     `json:"final_value"`
	WasClamped            bool        `json:"was_clamped"`
}
