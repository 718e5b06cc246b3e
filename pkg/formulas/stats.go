package formulas

import (
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Returns converts prices to fractional period-over-period returns
// Returns[i] = (Price[i] - Price[i-1]) / Price[i-1]
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// Volatility calculates the standard deviation of fractional returns of a
// price series. Matches the pct_change().std() convention: not annualized.
func Volatility(prices []float64) float64 {
	return StdDev(Returns(prices))
}

// VWAP calculates the volume-weighted average price of a session.
// VWAP = sum(close * volume) / sum(volume); zero when no volume traded.
func VWAP(closes []float64, volumes []float64) float64 {
	if len(closes) == 0 || len(closes) != len(volumes) {
		return 0
	}

	var weighted, total float64
	for i := range closes {
		weighted += closes[i] * volumes[i]
		total += volumes[i]
	}

	if total == 0 {
		return 0
	}
	return weighted / total
}
