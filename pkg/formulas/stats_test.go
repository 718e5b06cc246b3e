package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReturns(t *testing.T) {
	prices := []float64{100, 110, 99}
	returns := Returns(prices)

	assert.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.10, returns[1], 1e-9)
}

func TestReturns_ShortSeries(t *testing.T) {
	assert.Empty(t, Returns([]float64{100}))
	assert.Empty(t, Returns(nil))
}

func TestVolatility_ConstantSeriesIsZero(t *testing.T) {
	prices := []float64{50, 50, 50, 50}
	assert.Equal(t, 0.0, Volatility(prices))
}

func TestVWAP(t *testing.T) {
	closes := []float64{10, 20}
	volumes := []float64{100, 300}

	// (10*100 + 20*300) / 400 = 17.5
	assert.InDelta(t, 17.5, VWAP(closes, volumes), 1e-9)
}

func TestVWAP_NoVolume(t *testing.T) {
	assert.Equal(t, 0.0, VWAP([]float64{10}, []float64{0}))
	assert.Equal(t, 0.0, VWAP(nil, nil))
}

func TestMeanAndStdDev_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{1}))
}
