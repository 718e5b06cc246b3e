package analysis

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketmind/advisor/internal/marketdata"
)

func dailyCandles(closes ...float64) []marketdata.Candle {
	candles := make([]marketdata.Candle, len(closes))
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		candles[i] = marketdata.Candle{
			Date:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000 + int64(i),
		}
	}
	return candles
}

func TestAnalyze_ReturnAndPotential(t *testing.T) {
	an := NewAnalyzer(zerolog.Nop())

	analysis, err := an.Analyze("RELIANCE.NS", dailyCandles(100, 105, 110))
	require.NoError(t, err)

	assert.Equal(t, "RELIANCE.NS", analysis.Symbol)
	assert.Equal(t, 110.0, analysis.CurrentPrice)
	assert.InDelta(t, 10.0, analysis.PercentReturn, 1e-9)
	assert.InDelta(t, 12.0, analysis.FuturePotentialPct, 1e-9)
	assert.Equal(t, TrendUpward, analysis.Trend)
}

func TestAnalyze_DownwardTrend(t *testing.T) {
	an := NewAnalyzer(zerolog.Nop())

	analysis, err := an.Analyze("X", dailyCandles(110, 100, 90))
	require.NoError(t, err)

	assert.Equal(t, TrendDownward, analysis.Trend)
	assert.Less(t, analysis.FuturePotentialPct, 0.0)
}

func TestAnalyze_ShortSeriesNullsIndicators(t *testing.T) {
	an := NewAnalyzer(zerolog.Nop())

	analysis, err := an.Analyze("X", dailyCandles(100, 101, 103))
	require.NoError(t, err)

	assert.Nil(t, analysis.RSI)
	assert.Nil(t, analysis.SMA50)
	assert.Nil(t, analysis.MACDSignal)
	assert.Nil(t, analysis.BBUpper)
	assert.Nil(t, analysis.BBLower)
}

func TestAnalyze_LongSeriesComputesIndicators(t *testing.T) {
	an := NewAnalyzer(zerolog.Nop())

	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + float64(i%7) + float64(i)*0.1
	}

	analysis, err := an.Analyze("X", dailyCandles(closes...))
	require.NoError(t, err)

	require.NotNil(t, analysis.RSI)
	assert.GreaterOrEqual(t, *analysis.RSI, 0.0)
	assert.LessOrEqual(t, *analysis.RSI, 100.0)
	require.NotNil(t, analysis.SMA50)
	assert.NotNil(t, analysis.MACDSignal)
	require.NotNil(t, analysis.BBUpper)
	require.NotNil(t, analysis.BBLower)
	assert.Greater(t, *analysis.BBUpper, *analysis.BBLower)
}

func TestAnalyze_InsufficientData(t *testing.T) {
	an := NewAnalyzer(zerolog.Nop())

	_, err := an.Analyze("X", nil)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = an.Analyze("X", dailyCandles(100))
	assert.ErrorIs(t, err, ErrInsufficientData)

	// A zero first close makes the window return undefined.
	_, err = an.Analyze("X", dailyCandles(0, 100))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestAnalysis_ScoredAsset(t *testing.T) {
	analysis := Analysis{Symbol: "TCS.NS", CurrentPrice: 3500, FuturePotentialPct: 8.4}

	asset := analysis.ScoredAsset()
	assert.Equal(t, "TCS.NS", asset.Symbol)
	assert.Equal(t, 3500.0, asset.CurrentPrice)
	assert.Equal(t, 8.4, asset.FuturePotentialPct)
}
