package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketmind/advisor/internal/allocation"
	"github.com/marketmind/advisor/internal/analysis"
	"github.com/marketmind/advisor/internal/marketdata"
	"github.com/marketmind/advisor/internal/universe"
)

type fakeLister struct {
	companies []universe.Company
	err       error
}

func (f *fakeLister) GetAllActive() ([]universe.Company, error) {
	return f.companies, f.err
}

type fakeProvider struct {
	series map[string][]marketdata.Candle
	calls  int
}

func (f *fakeProvider) History(_ context.Context, symbol string, _ marketdata.Range, _ marketdata.Interval) ([]marketdata.Candle, error) {
	f.calls++
	candles, ok := f.series[symbol]
	if !ok {
		return nil, marketdata.ErrNoData
	}
	return candles, nil
}

func series(closes ...float64) []marketdata.Candle {
	base := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	candles := make([]marketdata.Candle, len(closes))
	for i, c := range closes {
		candles[i] = marketdata.Candle{
			Date:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return candles
}

func newTestService(t *testing.T, lister CompanyLister, provider marketdata.Provider) *Service {
	t.Helper()
	log := zerolog.Nop()
	return New(DefaultConfig(), lister, provider, analysis.NewAnalyzer(log), allocation.New(log), log)
}

func testUniverse() *fakeLister {
	return &fakeLister{companies: []universe.Company{
		{Symbol: "ALPHA", Name: "Alpha Industries", YahooSymbol: "ALPHA.NS", Active: true},
		{Symbol: "BETA", Name: "Beta Power", YahooSymbol: "BETA.NS", Active: true},
		{Symbol: "GAMMA", Name: "Gamma Steel", YahooSymbol: "GAMMA.NS", Active: true},
	}}
}

func testProvider() *fakeProvider {
	return &fakeProvider{series: map[string][]marketdata.Candle{
		// +10% window return, +12% potential, price 110
		"ALPHA.NS": series(100, 104, 110),
		// -20% window return, -24% potential, price 40
		"BETA.NS": series(50, 44, 40),
		// GAMMA.NS missing: the provider fails for it
	}}
}

func TestEvaluateUniverse_SkipsFailedSymbols(t *testing.T) {
	svc := newTestService(t, testUniverse(), testProvider())

	batch, err := svc.EvaluateUniverse(context.Background(), marketdata.Range3Mo)
	require.NoError(t, err)

	assert.NotEmpty(t, batch.ID)
	assert.Equal(t, 1, batch.Skipped)
	require.Len(t, batch.Analyses, 2)
	assert.Equal(t, "ALPHA", batch.Analyses[0].Symbol)
	assert.Equal(t, "BETA", batch.Analyses[1].Symbol)
}

func TestEvaluateUniverse_ListerError(t *testing.T) {
	svc := newTestService(t, &fakeLister{err: errors.New("db closed")}, testProvider())

	_, err := svc.EvaluateUniverse(context.Background(), marketdata.Range3Mo)
	assert.Error(t, err)
}

func TestRecommend_RanksByPotential(t *testing.T) {
	svc := newTestService(t, testUniverse(), testProvider())

	analyses, err := svc.Recommend(context.Background(), 5, marketdata.Range3Mo)
	require.NoError(t, err)

	require.Len(t, analyses, 2)
	assert.Equal(t, "ALPHA", analyses[0].Symbol)
	assert.InDelta(t, 12.0, analyses[0].FuturePotentialPct, 1e-9)
	assert.Equal(t, "BETA", analyses[1].Symbol)
}

func TestRecommend_TruncatesToN(t *testing.T) {
	svc := newTestService(t, testUniverse(), testProvider())

	analyses, err := svc.Recommend(context.Background(), 1, marketdata.Range3Mo)
	require.NoError(t, err)

	require.Len(t, analyses, 1)
	assert.Equal(t, "ALPHA", analyses[0].Symbol)
}

func TestPlanBudget(t *testing.T) {
	svc := newTestService(t, testUniverse(), testProvider())

	plan, err := svc.PlanBudget(context.Background(), 500, marketdata.Range3Mo)
	require.NoError(t, err)

	require.Len(t, plan.SingleOptions, 2)
	first := plan.SingleOptions[0]
	assert.Equal(t, "ALPHA", first.Symbol)
	assert.Equal(t, 4, first.Shares)
	assert.InDelta(t, 440.0, first.Cost, 1e-9)
	assert.InDelta(t, 52.8, first.PotentialProfit, 1e-9)

	// Greedy fill: 4x ALPHA at 110, then 1x BETA at 40 from the remainder.
	require.Len(t, plan.Portfolio.Lines, 2)
	assert.Equal(t, "ALPHA", plan.Portfolio.Lines[0].Symbol)
	assert.Equal(t, 4, plan.Portfolio.Lines[0].Shares)
	assert.Equal(t, "BETA", plan.Portfolio.Lines[1].Symbol)
	assert.Equal(t, 1, plan.Portfolio.Lines[1].Shares)
	assert.InDelta(t, 480.0, plan.Portfolio.TotalCost(), 1e-9)
}

func TestPlanBudget_InvalidBudget(t *testing.T) {
	svc := newTestService(t, testUniverse(), testProvider())

	_, err := svc.PlanBudget(context.Background(), 0, marketdata.Range3Mo)
	assert.ErrorIs(t, err, allocation.ErrInvalidBudget)

	_, err = svc.PlanBudget(context.Background(), -100, marketdata.Range3Mo)
	assert.ErrorIs(t, err, allocation.ErrInvalidBudget)
}

func TestPlanBudget_NothingAffordable(t *testing.T) {
	svc := newTestService(t, testUniverse(), testProvider())

	plan, err := svc.PlanBudget(context.Background(), 10, marketdata.Range3Mo)
	require.NoError(t, err)

	assert.Empty(t, plan.SingleOptions)
	assert.True(t, plan.Portfolio.IsEmpty())
}

func TestAnswer_BudgetQuery(t *testing.T) {
	svc := newTestService(t, testUniverse(), testProvider())

	reply, err := svc.Answer(context.Background(), "what should I buy with ₹500")
	require.NoError(t, err)

	assert.Contains(t, reply, "Budget plan for ₹500.00")
	assert.Contains(t, reply, "ALPHA")
}

func TestAnswer_PriceQuery(t *testing.T) {
	svc := newTestService(t, testUniverse(), testProvider())

	reply, err := svc.Answer(context.Background(), "what is the price of alpha industries")
	require.NoError(t, err)

	assert.Contains(t, reply, "ALPHA is trading at ₹110.00")
}

func TestAnswer_UnknownCompanyFallsBackToRecommendations(t *testing.T) {
	svc := newTestService(t, testUniverse(), testProvider())

	reply, err := svc.Answer(context.Background(), "hello there")
	require.NoError(t, err)

	assert.Contains(t, reply, "Top recommendations")
}
