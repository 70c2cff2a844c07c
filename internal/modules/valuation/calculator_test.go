package valuation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiaworld/buyback-go/internal/modules/rates"
)

// fakeLookup serves fixed snapshots for tests
type fakeLookup map[rates.Metal]float64

func (f fakeLookup) Get(m rates.Metal) (rates.RateSnapshot, bool) {
	rate, ok := f[m]
	if !ok {
		return rates.RateSnapshot{}, false
	}
	return rates.RateSnapshot{
		Metal:         m,
		RatePerGram:   rate,
		Source:        "Test",
		EffectiveDate: time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC),
	}, true
}

func TestCalculate_Breakdown(t *testing.T) {
	lookup := fakeLookup{rates.MetalGold22: 6500}

	result, err := Calculate(Request{
		Metal:          rates.MetalGold22,
		WeightGrams:    5,
		PurityPercent:  91.6,
		WastagePercent: 2.5,
	}, lookup)
	require.NoError(t, err)

	assert.Equal(t, 6500.0, result.RatePerGram)
	assert.Equal(t, 4.58, result.EffectiveWeightGrams)
	assert.Equal(t, 29770.0, result.GrossValue)
	assert.Equal(t, 744.0, result.WastageDeduction)
	assert.Equal(t, 0.0, result.MakingChargeDeduction)
	// Rounding happens at the final step only: round(29770 - 744.25) = 29026
	assert.Equal(t, 29026.0, result.FinalValue)
	assert.False(t, result.WasClamped)
	assert.Equal(t, "Test", result.RateSource)
}

func TestCalculate_PurityBoundary(t *testing.T) {
	lookup := fakeLookup{rates.MetalSilver: 76}

	result, err := Calculate(Request{
		Metal:         rates.MetalSilver,
		WeightGrams:   12.5,
		PurityPercent: 100,
	}, lookup)
	require.NoError(t, err)

	// purity=100, wastage=0, making=0 => final = round(weight * rate)
	assert.Equal(t, 950.0, result.FinalValue)
	assert.Equal(t, 12.5, result.EffectiveWeightGrams)
}

func TestCalculate_MakingChargesUseDeclaredWeight(t *testing.T) {
	lookup := fakeLookup{rates.MetalGold22: 6000}

	result, err := Calculate(Request{
		Metal:               rates.MetalGold22,
		WeightGrams:         10,
		PurityPercent:       91.6,
		MakingChargePerGram: 100,
	}, lookup)
	require.NoError(t, err)

	// 100/g on 10g declared, not on the 9.16g effective weight
	assert.Equal(t, 1000.0, result.MakingChargeDeduction)
	assert.Equal(t, 53960.0, result.FinalValue) // round(54960 - 1000)
}

func TestCalculate_ClampsNegativePayout(t *testing.T) {
	lookup := fakeLookup{rates.MetalSilver: 76}

	result, err := Calculate(Request{
		Metal:               rates.MetalSilver,
		WeightGrams:         1,
		PurityPercent:       100,
		MakingChargePerGram: 500,
	}, lookup)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.FinalValue)
	assert.True(t, result.WasClamped)
}

func TestCalculate_Idempotent(t *testing.T) {
	lookup := fakeLookup{rates.MetalGold24: 7123.45}

	req := Request{
		Metal:               rates.MetalGold24,
		WeightGrams:         3.33,
		PurityPercent:       99.9,
		WastagePercent:      1.25,
		MakingChargePerGram: 42,
	}

	first, err := Calculate(req, lookup)
	require.NoError(t, err)
	second, err := Calculate(req, lookup)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculate_ValidationOrder(t *testing.T) {
	lookup := fakeLookup{rates.MetalGold22: 6500}

	tests := []struct {
		name      string
		req       Request
		wantField string
	}{
		{
			name:      "invalid metal",
			req:       Request{Metal: "platinum", WeightGrams: 5, PurityPercent: 91.6},
			wantField: "metal",
		},
		{
			name:      "missing weight",
			req:       Request{Metal: rates.MetalGold22, PurityPercent: 91.6},
			wantField: "weight_grams",
		},
		{
			name:      "negative weight",
			req:       Request{Metal: rates.MetalGold22, WeightGrams: -2, PurityPercent: 91.6},
			wantField: "weight_grams",
		},
		{
			// weight fails before purity: first failure wins
			name:      "weight checked before purity",
			req:       Request{Metal: rates.MetalGold22, WeightGrams: 0, PurityPercent: 500},
			wantField: "weight_grams",
		},
		{
			name:      "zero purity",
			req:       Request{Metal: rates.MetalGold22, WeightGrams: 5},
			wantField: "purity_percent",
		},
		{
			name:      "purity above 100",
			req:       Request{Metal: rates.MetalGold22, WeightGrams: 5, PurityPercent: 100.1},
			wantField: "purity_percent",
		},
		{
			name:      "negative wastage",
			req:       Request{Metal: rates.MetalGold22, WeightGrams: 5, PurityPercent: 91.6, WastagePercent: -1},
			wantField: "wastage_percent",
		},
		{
			name:      "negative making charges",
			req:       Request{Metal: rates.MetalGold22, WeightGrams: 5, PurityPercent: 91.6, MakingChargePerGram: -1},
			wantField: "making_charge_per_gram",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.req, lookup)
			require.Error(t, err)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "expected ValidationError, got %T", err)
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}

func TestCalculate_RateUnavailable(t *testing.T) {
	// Only gold rates cached; silver missing entirely
	lookup := fakeLookup{
		rates.MetalGold24: 7000,
		rates.MetalGold22: 6500,
	}

	_, err := Calculate(Request{
		Metal:         rates.MetalSilver,
		WeightGrams:   5,
		PurityPercent: 100,
	}, lookup)
	require.Error(t, err)

	var rateErr *RateUnavailableError
	require.True(t, errors.As(err, &rateErr))
	assert.Equal(t, rates.MetalSilver, rateErr.Metal)
	assert.Contains(t, rateErr.Error(), "Silver")

	// Gold stays calculable
	result, err := Calculate(Request{
		Metal:         rates.MetalGold24,
		WeightGrams:   1,
		PurityPercent: 99.9,
	}, lookup)
	require.NoError(t, err)
	assert.Greater(t, result.FinalValue, 0.0)
}

func TestCalculate_ZeroRateBlocked(t *testing.T) {
	lookup := fakeLookup{rates.MetalGold22: 0}

	_, err := Calculate(Request{
		Metal:         rates.MetalGold22,
		WeightGrams:   5,
		PurityPercent: 91.6,
	}, lookup)

	var rateErr *RateUnavailableError
	require.True(t, errors.As(err, &rateErr))
}
