package allocation

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAllocator(opts ...Option) *Allocator {
	return New(zerolog.Nop(), opts...)
}

func TestOptimizePortfolio_GreedyPicksEfficiencyOrder(t *testing.T) {
	// B has lower potential but higher potential-per-rupee, so the greedy
	// fill commits to B before A.
	assets := []ScoredAsset{
		{Symbol: "A", CurrentPrice: 100, FuturePotentialPct: 20}, // efficiency 0.2
		{Symbol: "B", CurrentPrice: 50, FuturePotentialPct: 15},  // efficiency 0.3
	}

	portfolio, err := newTestAllocator().OptimizePortfolio(assets, 120)
	require.NoError(t, err)

	require.Len(t, portfolio.Lines, 1)
	line := portfolio.Lines[0]
	assert.Equal(t, "B", line.Symbol)
	assert.Equal(t, 2, line.Shares)
	assert.Equal(t, 100.0, line.Cost)
	// The return is a percentage of invested cost, not of the share count:
	// 100 * 15 / 100 = 15. Writing 2 * 15 = 30 here is a tempting slip.
	assert.Equal(t, 15.0, line.PotentialReturn)
	assert.Equal(t, 100.0, portfolio.TotalCost())
	assert.Equal(t, 15.0, portfolio.TotalPotentialReturn())
}

func TestOptimizePortfolio_NothingAffordable(t *testing.T) {
	assets := []ScoredAsset{
		{Symbol: "A", CurrentPrice: 100, FuturePotentialPct: 20},
		{Symbol: "B", CurrentPrice: 50, FuturePotentialPct: 15},
	}

	portfolio, err := newTestAllocator().OptimizePortfolio(assets, 40)
	require.NoError(t, err)
	assert.True(t, portfolio.IsEmpty())
	assert.Equal(t, 0.0, portfolio.TotalCost())
}

func TestOptimizePortfolio_SpendsRemainderOnCheaperAssets(t *testing.T) {
	assets := []ScoredAsset{
		{Symbol: "X", CurrentPrice: 70, FuturePotentialPct: 35}, // efficiency 0.5
		{Symbol: "Y", CurrentPrice: 20, FuturePotentialPct: 8},  // efficiency 0.4
	}

	portfolio, err := newTestAllocator().OptimizePortfolio(assets, 100)
	require.NoError(t, err)

	// X: 1 share (70), remaining 30. Y: 1 share (20), remaining 10.
	require.Len(t, portfolio.Lines, 2)
	assert.Equal(t, "X", portfolio.Lines[0].Symbol)
	assert.Equal(t, 1, portfolio.Lines[0].Shares)
	assert.Equal(t, "Y", portfolio.Lines[1].Symbol)
	assert.Equal(t, 1, portfolio.Lines[1].Shares)
	assert.Equal(t, 90.0, portfolio.TotalCost())
}

func TestOptimizePortfolio_NeverOverspends(t *testing.T) {
	assets := []ScoredAsset{
		{Symbol: "A", CurrentPrice: 33.33, FuturePotentialPct: 12},
		{Symbol: "B", CurrentPrice: 7.77, FuturePotentialPct: 4},
		{Symbol: "C", CurrentPrice: 150.5, FuturePotentialPct: 60},
		{Symbol: "D", CurrentPrice: 2.5, FuturePotentialPct: -1},
	}

	budgets := []float64{1, 9.99, 50, 123.45, 1000, 99999}
	for _, budget := range budgets {
		portfolio, err := newTestAllocator().OptimizePortfolio(assets, budget)
		require.NoError(t, err)

		assert.LessOrEqual(t, portfolio.TotalCost(), budget, "budget %.2f overspent", budget)
		for _, line := range portfolio.Lines {
			assert.GreaterOrEqual(t, line.Shares, 1)
			assert.LessOrEqual(t, line.Cost, budget)
		}
	}
}

func TestOptimizePortfolio_Deterministic(t *testing.T) {
	assets := []ScoredAsset{
		{Symbol: "A", CurrentPrice: 10, FuturePotentialPct: 5},
		{Symbol: "B", CurrentPrice: 20, FuturePotentialPct: 10}, // same efficiency as A
		{Symbol: "C", CurrentPrice: 40, FuturePotentialPct: 20}, // same efficiency again
	}

	first, err := newTestAllocator().OptimizePortfolio(assets, 100)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := newTestAllocator().OptimizePortfolio(assets, 100)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// Equal efficiencies keep input order: A is visited first.
	require.NotEmpty(t, first.Lines)
	assert.Equal(t, "A", first.Lines[0].Symbol)
}

func TestOptimizePortfolio_SkipsNonPositivePrices(t *testing.T) {
	assets := []ScoredAsset{
		{Symbol: "ZERO", CurrentPrice: 0, FuturePotentialPct: 50},
		{Symbol: "NEG", CurrentPrice: -5, FuturePotentialPct: 50},
		{Symbol: "OK", CurrentPrice: 10, FuturePotentialPct: 5},
	}

	portfolio, err := newTestAllocator().OptimizePortfolio(assets, 100)
	require.NoError(t, err)

	require.Len(t, portfolio.Lines, 1)
	assert.Equal(t, "OK", portfolio.Lines[0].Symbol)
}

func TestOptimizePortfolio_DuplicateSymbolsPassThrough(t *testing.T) {
	// Upstream does not promise deduplicated universes. Each record is
	// considered independently; at equal prices the first fill drains the
	// budget below the duplicate's price, so the symbol appears once.
	equal := []ScoredAsset{
		{Symbol: "X", CurrentPrice: 30, FuturePotentialPct: 15},
		{Symbol: "X", CurrentPrice: 30, FuturePotentialPct: 15},
	}

	portfolio, err := newTestAllocator().OptimizePortfolio(equal, 100)
	require.NoError(t, err)
	require.Len(t, portfolio.Lines, 1)
	assert.Equal(t, 3, portfolio.Lines[0].Shares)

	// At different prices both records can be filled; the allocator makes no
	// attempt to merge them.
	differing := []ScoredAsset{
		{Symbol: "X", CurrentPrice: 40, FuturePotentialPct: 20}, // efficiency 0.5
		{Symbol: "X", CurrentPrice: 15, FuturePotentialPct: 3},  // efficiency 0.2
	}

	portfolio, err = newTestAllocator().OptimizePortfolio(differing, 100)
	require.NoError(t, err)
	require.Len(t, portfolio.Lines, 2)
	assert.Equal(t, "X", portfolio.Lines[0].Symbol)
	assert.Equal(t, "X", portfolio.Lines[1].Symbol)
	assert.LessOrEqual(t, portfolio.TotalCost(), 100.0)
}

func TestOptimizePortfolio_EmptyUniverse(t *testing.T) {
	portfolio, err := newTestAllocator().OptimizePortfolio(nil, 100)
	require.NoError(t, err)
	assert.True(t, portfolio.IsEmpty())
}

func TestOptimizePortfolio_InvalidBudget(t *testing.T) {
	assets := []ScoredAsset{{Symbol: "A", CurrentPrice: 10, FuturePotentialPct: 5}}

	for _, budget := range []float64{0, -1, -0.01} {
		_, err := newTestAllocator().OptimizePortfolio(assets, budget)
		assert.ErrorIs(t, err, ErrInvalidBudget)
	}
}

func TestOptimizePortfolio_CustomEfficiencyFunc(t *testing.T) {
	// Rank by raw potential instead of potential-per-unit.
	byPotential := func(a ScoredAsset) (float64, bool) {
		if a.CurrentPrice <= 0 {
			return 0, false
		}
		return a.FuturePotentialPct, true
	}

	assets := []ScoredAsset{
		{Symbol: "A", CurrentPrice: 100, FuturePotentialPct: 20},
		{Symbol: "B", CurrentPrice: 50, FuturePotentialPct: 15},
	}

	portfolio, err := newTestAllocator(WithEfficiencyFunc(byPotential)).OptimizePortfolio(assets, 120)
	require.NoError(t, err)

	// A now ranks first: 1 share (100), remaining 20, B unaffordable.
	require.Len(t, portfolio.Lines, 1)
	assert.Equal(t, "A", portfolio.Lines[0].Symbol)
}

func TestRankSingle(t *testing.T) {
	assets := []ScoredAsset{
		{Symbol: "A", CurrentPrice: 100, FuturePotentialPct: 20},
		{Symbol: "B", CurrentPrice: 50, FuturePotentialPct: 15},
	}

	tests := []struct {
		name    string
		budget  float64
		want    []string
		wantErr error
	}{
		{name: "both affordable, ranked by potential", budget: 120, want: []string{"A", "B"}},
		{name: "only cheaper one affordable", budget: 60, want: []string{"B"}},
		{name: "none affordable", budget: 40, want: nil},
		{name: "zero budget rejected", budget: 0, wantErr: ErrInvalidBudget},
		{name: "negative budget rejected", budget: -10, wantErr: ErrInvalidBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked, err := newTestAllocator().RankSingle(assets, tt.budget)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			var symbols []string
			for _, asset := range ranked {
				symbols = append(symbols, asset.Symbol)
			}
			assert.Equal(t, tt.want, symbols)
		})
	}
}

func TestRankSingle_StableTies(t *testing.T) {
	assets := []ScoredAsset{
		{Symbol: "FIRST", CurrentPrice: 10, FuturePotentialPct: 7},
		{Symbol: "SECOND", CurrentPrice: 20, FuturePotentialPct: 7},
		{Symbol: "THIRD", CurrentPrice: 30, FuturePotentialPct: 7},
	}

	ranked, err := newTestAllocator().RankSingle(assets, 100)
	require.NoError(t, err)

	require.Len(t, ranked, 3)
	assert.Equal(t, "FIRST", ranked[0].Symbol)
	assert.Equal(t, "SECOND", ranked[1].Symbol)
	assert.Equal(t, "THIRD", ranked[2].Symbol)
}

func TestRankSingle_SkipsMalformedRecords(t *testing.T) {
	assets := []ScoredAsset{
		{Symbol: "ZERO", CurrentPrice: 0, FuturePotentialPct: 99},
		{Symbol: "OK", CurrentPrice: 10, FuturePotentialPct: 5},
	}

	ranked, err := newTestAllocator().RankSingle(assets, 100)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "OK", ranked[0].Symbol)
}

func TestRankSingle_EmptyUniverse(t *testing.T) {
	ranked, err := newTestAllocator().RankSingle(nil, 100)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestScoredAsset_Efficiency(t *testing.T) {
	eff, ok := ScoredAsset{Symbol: "A", CurrentPrice: 50, FuturePotentialPct: 15}.Efficiency()
	assert.True(t, ok)
	assert.InDelta(t, 0.3, eff, 1e-9)

	_, ok = ScoredAsset{Symbol: "Z", CurrentPrice: 0, FuturePotentialPct: 15}.Efficiency()
	assert.False(t, ok)
}
