package marketdata

import (
	"context"

	"github.com/rs/zerolog"
)

// rangeBars caps how many stored daily bars stand in for each range.
var rangeBars = map[Range]int{
	Range1D:  2,
	Range5D:  7,
	Range1Mo: 31,
	Range3Mo: 93,
	Range6Mo: 186,
	Range1Y:  366,
	Range5Y:  1830,
}

// FallbackProvider serves daily history from the on-disk store when the
// live provider fails, so analysis keeps working through upstream outages.
// Intraday requests have no stored counterpart and fail through unchanged.
type FallbackProvider struct {
	live  Provider
	store *HistoryStore
	log   zerolog.Logger
}

// NewFallbackProvider wraps a live provider with the history store.
func NewFallbackProvider(live Provider, store *HistoryStore, log zerolog.Logger) *FallbackProvider {
	return &FallbackProvider{
		live:  live,
		store: store,
		log:   log.With().Str("component", "marketdata_fallback").Logger(),
	}
}

// History fetches from the live provider first, then the local store.
func (p *FallbackProvider) History(ctx context.Context, symbol string, rng Range, interval Interval) ([]Candle, error) {
	candles, liveErr := p.live.History(ctx, symbol, rng, interval)
	if liveErr == nil {
		return candles, nil
	}

	if interval != IntervalDaily {
		return nil, liveErr
	}

	limit, ok := rangeBars[rng]
	if !ok {
		return nil, liveErr
	}

	stored, err := p.store.GetDailyPrices(symbol, limit)
	if err != nil || len(stored) == 0 {
		return nil, liveErr
	}

	p.log.Warn().
		Err(liveErr).
		Str("symbol", symbol).
		Int("bars", len(stored)).
		Msg("Live fetch failed, serving stored history")

	return stored, nil
}
