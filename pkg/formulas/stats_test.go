package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 6500.0, Mean([]float64{6400, 6500, 6600}))
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{6500, 6500, 6500}))
	assert.InDelta(t, 100.0, StdDev([]float64{6400, 6500, 6600}), 1e-9)
}

func TestCalculateReturns(t *testing.T) {
	assert.Empty(t, CalculateReturns([]float64{6500}))

	returns := CalculateReturns([]float64{100, 110, 99})
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.10, returns[1], 1e-9)

	// A zero sample yields a zero return rather than a division blowup
	returns = CalculateReturns([]float64{0, 100})
	require.Len(t, returns, 1)
	assert.Equal(t, 0.0, returns[0])
}

func TestSMA(t *testing.T) {
	assert.Nil(t, SMA([]float64{1, 2, 3}, 7))
	assert.Nil(t, SMA(nil, 7))

	sma := SMA([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 7)
	require.NotNil(t, sma)
	assert.InDelta(t, 7.0, *sma, 1e-9)

	flat := SMA([]float64{76, 76, 76, 76, 76, 76, 76}, 7)
	require.NotNil(t, flat)
	assert.InDelta(t, 76.0, *flat, 1e-9)
}
