package allocation

import (
	"errors"
	"math"
	"sort"

	"github.com/rs/zerolog"
)

// ErrInvalidBudget is returned when a non-positive budget reaches the
// allocator. Data-quality problems in individual asset records never produce
// an error; bad records are skipped.
var ErrInvalidBudget = errors.New("budget must be positive")

// EfficiencyFunc orders greedy candidates. It returns the ranking value for
// an asset and false when the asset must be excluded from consideration.
type EfficiencyFunc func(ScoredAsset) (float64, bool)

// Option configures an Allocator.
type Option func(*Allocator)

// WithEfficiencyFunc replaces the default return-per-currency-unit ordering.
func WithEfficiencyFunc(fn EfficiencyFunc) Option {
	return func(a *Allocator) {
		a.efficiency = fn
	}
}

// Allocator plans budget-constrained buys over a universe of scored assets.
// It is stateless and safe for concurrent use; every call only reads its
// arguments and allocates fresh results.
type Allocator struct {
	efficiency EfficiencyFunc
	log        zerolog.Logger
}

// New creates an allocator with the default efficiency ordering.
func New(log zerolog.Logger, opts ...Option) *Allocator {
	a := &Allocator{
		efficiency: ScoredAsset.Efficiency,
		log:        log.With().Str("component", "allocator").Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RankSingle returns the assets affordable as a single buy (price within
// budget), ordered by future potential descending. Ties keep input order.
// An empty result means no affordable single asset and is not an error.
func (a *Allocator) RankSingle(assets []ScoredAsset, budget float64) ([]ScoredAsset, error) {
	if budget <= 0 {
		return nil, ErrInvalidBudget
	}

	var affordable []ScoredAsset
	for _, asset := range assets {
		if asset.CurrentPrice <= 0 {
			a.log.Debug().Str("symbol", asset.Symbol).Msg("Skipping asset with non-positive price")
			continue
		}
		if asset.CurrentPrice <= budget {
			affordable = append(affordable, asset)
		}
	}

	sort.SliceStable(affordable, func(i, j int) bool {
		return affordable[i].FuturePotentialPct > affordable[j].FuturePotentialPct
	})

	return affordable, nil
}

// OptimizePortfolio builds a portfolio by greedy efficiency fill: candidates
// are ranked by expected return per currency unit, then visited once in
// order, each buying as many whole shares as the remaining budget allows.
// There is no backtracking; the result approximates, not solves, the
// underlying knapsack problem. Duplicate input records are processed
// per-record, never deduplicated.
func (a *Allocator) OptimizePortfolio(assets []ScoredAsset, budget float64) (Portfolio, error) {
	if budget <= 0 {
		return Portfolio{}, ErrInvalidBudget
	}

	type candidate struct {
		asset      ScoredAsset
		efficiency float64
	}

	var candidates []candidate
	for _, asset := range assets {
		eff, ok := a.efficiency(asset)
		if !ok {
			a.log.Debug().Str("symbol", asset.Symbol).Msg("Skipping asset with undefined efficiency")
			continue
		}
		candidates = append(candidates, candidate{asset: asset, efficiency: eff})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].efficiency > candidates[j].efficiency
	})

	portfolio := Portfolio{}
	remaining := budget

	for _, c := range candidates {
		if remaining < c.asset.CurrentPrice {
			continue
		}

		shares := int(math.Floor(remaining / c.asset.CurrentPrice))
		if shares < 1 {
			continue
		}

		cost := float64(shares) * c.asset.CurrentPrice
		line := AllocationLine{
			Symbol:          c.asset.Symbol,
			Shares:          shares,
			Cost:            cost,
			PotentialReturn: cost * c.asset.FuturePotentialPct / 100,
		}
		portfolio.Lines = append(portfolio.Lines, line)
		remaining -= cost
	}

	a.log.Debug().
		Float64("budget", budget).
		Float64("remaining", remaining).
		Int("lines", len(portfolio.Lines)).
		Msg("Greedy allocation complete")

	return portfolio, nil
}
