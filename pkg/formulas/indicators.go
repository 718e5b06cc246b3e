package formulas

import (
	"github.com/markcheno/go-talib"
)

// RSI returns the current Relative Strength Index over the given period,
// or nil when the series is too short.
//
// RSI = 100 - (100 / (1 + RS)), RS = Average Gain / Average Loss over N periods
func RSI(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}

	values := talib.Rsi(closes, period)
	return lastValid(values)
}

// SMA returns the current simple moving average over the given window,
// or nil when the series is too short.
func SMA(closes []float64, window int) *float64 {
	if len(closes) < window {
		return nil
	}

	values := talib.Sma(closes, window)
	return lastValid(values)
}

// MACDSignal returns the current MACD signal line value using the standard
// 12/26/9 parameters, or nil when the series is too short.
func MACDSignal(closes []float64) *float64 {
	// talib needs at least slow period + signal period bars
	if len(closes) < 26+9 {
		return nil
	}

	_, signal, _ := talib.Macd(closes, 12, 26, 9)
	return lastValid(signal)
}

// BollingerBands returns the current upper and lower Bollinger Bands
// (20-period, 2 standard deviations), or nils when the series is too short.
func BollingerBands(closes []float64) (upper, lower *float64) {
	if len(closes) < 20 {
		return nil, nil
	}

	up, _, low := talib.BBands(closes, 20, 2, 2, talib.SMA)
	return lastValid(up), lastValid(low)
}

// lastValid returns a pointer to the last non-NaN value of a series.
func lastValid(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	v := values[len(values)-1]
	if v != v { // NaN
		return nil
	}
	return &v
}
