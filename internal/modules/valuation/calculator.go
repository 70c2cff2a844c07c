package valuation

import (
	"math"

	"github.com/thiaworld/buyback-go/internal/modules/rates"
	"github.com/thiaworld/buyback-go/pkg/money"
)

// RateLookup provides the cached rate snapshot for a metal. Implemented by
// *rates.Cache.
type RateLookup interface {
	Get(m rates.Metal) (rates.RateSnapshot, bool)
}

// Calculate produces the estimate breakdown for one request against the
// current rate cache. It is a pure function of its inputs: identical request
// and cache state yield an identical result.
//
// Pipeline, in order: effective weight, gross value, wastage deduction,
// making-charge deduction, final rounding. Rounding happens at the final
// step only; the breakdown fields carry display-rounded figures computed
// from the unrounded intermediates.
func Calculate(req Request, lookup RateLookup) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	snap, ok := lookup.Get(req.Metal)
	if !ok || snap.RatePerGram <= 0 || math.IsInf(snap.RatePerGram, 0) || math.IsNaN(snap.RatePerGram) {
		return nil, &RateUnavailableError{Metal: req.Metal}
	}

	purityDecimal := req.PurityPercent / 100
	effectiveWeight := req.WeightGrams * purityDecimal
	gross := effectiveWeight * snap.RatePerGram

	// Wastage applies to gross value; making charges apply to the declared
	// weight, not the purity-adjusted weight. Store policy: making is a
	// handling fee independent of purity.
	wastage := req.WastagePercent / 100 * gross
	makingCharges := req.MakingChargePerGram * req.WeightGrams

	net := gross - wastage - makingCharges
	finalValue := math.Max(0, math.Round(net))

	return &Result{
		Metal:                 req.Metal,
		RatePerGram:           money.Round2(snap.RatePerGram),
		RateSource:            snap.Source,
		WeightGrams:           req.WeightGrams,
		PurityPercent:         req.PurityPercent,
		EffectiveWeightGrams:  money.Round3(effectiveWeight),
		GrossValue:            money.RoundRupees(gross),
		WastageDeduction:      money.RoundRupees(wastage),
		MakingChargeDeduction: money.RoundRupees(makingCharges),
		FinalValue:            finalValue,
		WasClamped:            net < 0,
	}, nil
}

// validate checks request fields in order; the first failure wins
func validate(req Request) error {
	if !req.Metal.Valid() {
		return &ValidationError{
			Field:   "metal",
			Message: "select gold24, gold22 or silver",
		}
	}

	if !isFinite(req.WeightGrams) || req.WeightGrams <= 0 {
		return &ValidationError{
			Field:   "weight_grams",
			Message: "enter a valid weight in grams (e.g., 5.0)",
		}
	}

	if !isFinite(req.PurityPercent) || req.PurityPercent <= 0 || req.PurityPercent > 100 {
		return &ValidationError{
			Field:   "purity_percent",
			Message: "enter a purity percentage between 0 and 100 (e.g., 91.6 for 22K)",
		}
	}

	if !isFinite(req.WastagePercent) || req.WastagePercent < 0 {
		return &ValidationError{
			Field:   "wastage_percent",
			Message: "wastage percentage cannot be negative",
		}
	}

	if !isFinite(req.MakingChargePerGram) || req.MakingChargePerGram < 0 {
		return &ValidationError{
			Field:   "making_charge_per_gram",
			Message: "making charges cannot be negative",
		}
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
