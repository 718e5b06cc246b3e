package analysis

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/marketmind/advisor/internal/allocation"
	"github.com/marketmind/advisor/internal/marketdata"
	"github.com/marketmind/advisor/pkg/formulas"
)

// ErrInsufficientData is returned when a series is too short or malformed
// to evaluate at all. Individual indicators degrade to nil instead.
var ErrInsufficientData = errors.New("insufficient price data")

// Trend is the coarse price direction over the evaluated window.
type Trend string

const (
	TrendUpward   Trend = "Upward"
	TrendDownward Trend = "Downward"
)

// Analysis is one evaluation of a symbol over a lookback window.
// Indicator fields are nil when the window is too short to compute them.
type Analysis struct {
	Symbol             string   `json:"symbol"`
	CurrentPrice       float64  `json:"current_price"`
	PercentReturn      float64  `json:"percent_return"`
	FuturePotentialPct float64  `json:"future_potential_pct"`
	RSI                *float64 `json:"rsi,omitempty"`
	SMA50              *float64 `json:"sma_50,omitempty"`
	MACDSignal         *float64 `json:"macd_signal,omitempty"`
	BBUpper            *float64 `json:"bb_upper,omitempty"`
	BBLower            *float64 `json:"bb_lower,omitempty"`
	Volatility         float64  `json:"volatility"`
	AvgVolume          float64  `json:"avg_volume"`
	Trend              Trend    `json:"price_trend"`
}

// ScoredAsset converts an analysis to the allocator's input record.
func (a Analysis) ScoredAsset() allocation.ScoredAsset {
	return allocation.ScoredAsset{
		Symbol:             a.Symbol,
		CurrentPrice:       a.CurrentPrice,
		FuturePotentialPct: a.FuturePotentialPct,
	}
}

// potentialMultiplier extrapolates the observed window return into the
// future-potential estimate.
const potentialMultiplier = 1.2

const (
	rsiPeriod = 14
	smaWindow = 50
)

// Analyzer scores symbols from daily candle series.
type Analyzer struct {
	log zerolog.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(log zerolog.Logger) *Analyzer {
	return &Analyzer{
		log: log.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze evaluates a candle series. The series must hold at least two bars
// with a positive first close; shorter windows only null out indicators.
func (an *Analyzer) Analyze(symbol string, candles []marketdata.Candle) (*Analysis, error) {
	if len(candles) < 2 {
		return nil, ErrInsufficientData
	}

	closes := marketdata.Closes(candles)
	volumes := marketdata.Volumes(candles)

	initial := closes[0]
	current := closes[len(closes)-1]
	if initial <= 0 {
		return nil, ErrInsufficientData
	}

	percentReturn := (current - initial) / initial * 100

	upper, lower := formulas.BollingerBands(closes)

	analysis := &Analysis{
		Symbol:             symbol,
		CurrentPrice:       current,
		PercentReturn:      percentReturn,
		FuturePotentialPct: percentReturn * potentialMultiplier,
		RSI:                formulas.RSI(closes, rsiPeriod),
		SMA50:              formulas.SMA(closes, smaWindow),
		MACDSignal:         formulas.MACDSignal(closes),
		BBUpper:            upper,
		BBLower:            lower,
		Volatility:         formulas.Volatility(closes),
		AvgVolume:          formulas.Mean(volumes),
	}

	if current > formulas.Mean(closes) {
		analysis.Trend = TrendUpward
	} else {
		analysis.Trend = TrendDownward
	}

	an.log.Debug().
		Str("symbol", symbol).
		Float64("current_price", current).
		Float64("future_potential_pct", analysis.FuturePotentialPct).
		Msg("Analyzed symbol")

	return analysis, nil
}
