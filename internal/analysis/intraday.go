package analysis

import (
	"sort"

	"github.com/marketmind/advisor/internal/marketdata"
	"github.com/marketmind/advisor/pkg/formulas"
)

// IntradayAnalysis summarizes a single session of intraday bars for
// day-trading queries.
type IntradayAnalysis struct {
	Symbol           string    `json:"symbol"`
	CurrentPrice     float64   `json:"current_price"`
	VWAP             float64   `json:"vwap"`
	Momentum         float64   `json:"momentum"`          // mean bar-over-bar change, percent
	VolumeTrend      float64   `json:"volume_trend"`      // fraction of bars above average volume
	PriceVolatility  float64   `json:"price_volatility"`  // stddev of bar returns, percent
	ResistanceLevels []float64 `json:"resistance_levels"` // top session highs, descending
	SupportLevels    []float64 `json:"support_levels"`    // bottom session lows, ascending
}

const extremeLevels = 3

// AnalyzeIntraday summarizes a session of intraday candles.
func (an *Analyzer) AnalyzeIntraday(symbol string, candles []marketdata.Candle) (*IntradayAnalysis, error) {
	if len(candles) < 2 {
		return nil, ErrInsufficientData
	}

	closes := marketdata.Closes(candles)
	volumes := marketdata.Volumes(candles)

	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(highs)))
	sort.Float64s(lows)

	avgVolume := formulas.Mean(volumes)
	aboveAvg := 0
	for _, v := range volumes {
		if v > avgVolume {
			aboveAvg++
		}
	}

	returns := formulas.Returns(closes)

	return &IntradayAnalysis{
		Symbol:           symbol,
		CurrentPrice:     closes[len(closes)-1],
		VWAP:             formulas.VWAP(closes, volumes),
		Momentum:         formulas.Mean(returns) * 100,
		VolumeTrend:      float64(aboveAvg) / float64(len(candles)),
		PriceVolatility:  formulas.StdDev(returns) * 100,
		ResistanceLevels: topN(highs, extremeLevels),
		SupportLevels:    topN(lows, extremeLevels),
	}, nil
}

func topN(sorted []float64, n int) []float64 {
	if len(sorted) < n {
		n = len(sorted)
	}
	out := make([]float64, n)
	copy(out, sorted[:n])
	return out
}
