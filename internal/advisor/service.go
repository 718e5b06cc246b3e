package advisor

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/marketmind/advisor/internal/allocation"
	"github.com/marketmind/advisor/internal/analysis"
	"github.com/marketmind/advisor/internal/marketdata"
	"github.com/marketmind/advisor/internal/universe"
)

// CompanyLister supplies the active investment universe.
type CompanyLister interface {
	GetAllActive() ([]universe.Company, error)
}

// Config holds service tunables.
type Config struct {
	CurrencySymbol         string
	DefaultRecommendations int
	MaxSingleOptions       int
}

// DefaultConfig returns the settings used in production.
func DefaultConfig() Config {
	return Config{
		CurrencySymbol:         "₹",
		DefaultRecommendations: 5,
		MaxSingleOptions:       3,
	}
}

// Service composes the universe, market data, analysis, and allocation
// layers into the operations the API and CLI expose.
type Service struct {
	cfg       Config
	companies CompanyLister
	provider  marketdata.Provider
	analyzer  *analysis.Analyzer
	allocator *allocation.Allocator
	log       zerolog.Logger
}

// New creates an advisor service.
func New(
	cfg Config,
	companies CompanyLister,
	provider marketdata.Provider,
	analyzer *analysis.Analyzer,
	allocator *allocation.Allocator,
	log zerolog.Logger,
) *Service {
	return &Service{
		cfg:       cfg,
		companies: companies,
		provider:  provider,
		analyzer:  analyzer,
		allocator: allocator,
		log:       log.With().Str("component", "advisor").Logger(),
	}
}

// EvaluationBatch is one sweep of the universe.
type EvaluationBatch struct {
	ID       string              `json:"id"`
	Range    marketdata.Range    `json:"range"`
	Analyses []analysis.Analysis `json:"analyses"`
	Skipped  int                 `json:"skipped"`
}

// EvaluateUniverse analyzes every active company over the given range.
// Symbols that fail to fetch or analyze are skipped and counted, never
// fatal: downstream consumers must work with a partial universe.
func (s *Service) EvaluateUniverse(ctx context.Context, rng marketdata.Range) (*EvaluationBatch, error) {
	companies, err := s.companies.GetAllActive()
	if err != nil {
		return nil, err
	}

	batch := &EvaluationBatch{
		ID:    uuid.NewString(),
		Range: rng,
	}

	for _, company := range companies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candles, err := s.provider.History(ctx, company.YahooSymbol, rng, marketdata.IntervalDaily)
		if err != nil {
			s.log.Warn().
				Err(err).
				Str("symbol", company.Symbol).
				Msg("History fetch failed, skipping symbol")
			batch.Skipped++
			continue
		}

		result, err := s.analyzer.Analyze(company.Symbol, candles)
		if err != nil {
			s.log.Warn().
				Err(err).
				Str("symbol", company.Symbol).
				Msg("Analysis failed, skipping symbol")
			batch.Skipped++
			continue
		}

		batch.Analyses = append(batch.Analyses, *result)
	}

	s.log.Info().
		Str("batch_id", batch.ID).
		Int("analyzed", len(batch.Analyses)).
		Int("skipped", batch.Skipped).
		Msg("Universe evaluation complete")

	return batch, nil
}

// Recommend returns the top-n analyses by future potential, descending.
func (s *Service) Recommend(ctx context.Context, n int, rng marketdata.Range) ([]analysis.Analysis, error) {
	if n < 1 {
		n = s.cfg.DefaultRecommendations
	}

	batch, err := s.EvaluateUniverse(ctx, rng)
	if err != nil {
		return nil, err
	}

	ranked := make([]analysis.Analysis, len(batch.Analyses))
	copy(ranked, batch.Analyses)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FuturePotentialPct > ranked[j].FuturePotentialPct
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// SingleOption is one all-in single-asset purchase within the budget.
type SingleOption struct {
	Symbol             string  `json:"symbol"`
	Price              float64 `json:"price"`
	Shares             int     `json:"shares"`
	Cost               float64 `json:"cost"`
	FuturePotentialPct float64 `json:"future_potential_pct"`
	PotentialProfit    float64 `json:"potential_profit"`
}

// BudgetPlan pairs the single-asset options with the diversified greedy
// portfolio for one budget.
type BudgetPlan struct {
	ID            string               `json:"id"`
	Budget        float64              `json:"budget"`
	Range         marketdata.Range     `json:"range"`
	SingleOptions []SingleOption       `json:"single_options"`
	Portfolio     allocation.Portfolio `json:"portfolio"`
}

// PlanBudget evaluates the universe and produces both allocation views.
// The budget must be positive; an empty plan is a valid result.
func (s *Service) PlanBudget(ctx context.Context, budget float64, rng marketdata.Range) (*BudgetPlan, error) {
	if budget <= 0 {
		return nil, allocation.ErrInvalidBudget
	}

	batch, err := s.EvaluateUniverse(ctx, rng)
	if err != nil {
		return nil, err
	}

	assets := make([]allocation.ScoredAsset, 0, len(batch.Analyses))
	for _, a := range batch.Analyses {
		assets = append(assets, a.ScoredAsset())
	}

	ranked, err := s.allocator.RankSingle(assets, budget)
	if err != nil {
		return nil, err
	}

	plan := &BudgetPlan{
		ID:     batch.ID,
		Budget: budget,
		Range:  rng,
	}

	limit := s.cfg.MaxSingleOptions
	if limit < 1 {
		limit = len(ranked)
	}
	for i, asset := range ranked {
		if i >= limit {
			break
		}
		shares := int(budget / asset.CurrentPrice)
		cost := float64(shares) * asset.CurrentPrice
		plan.SingleOptions = append(plan.SingleOptions, SingleOption{
			Symbol:             asset.Symbol,
			Price:              asset.CurrentPrice,
			Shares:             shares,
			Cost:               cost,
			FuturePotentialPct: asset.FuturePotentialPct,
			PotentialProfit:    cost * asset.FuturePotentialPct / 100,
		})
	}

	plan.Portfolio, err = s.allocator.OptimizePortfolio(assets, budget)
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// AnalyzeSymbol fetches and analyzes one symbol over the given range.
func (s *Service) AnalyzeSymbol(ctx context.Context, symbol, yahooSymbol string, rng marketdata.Range) (*analysis.Analysis, error) {
	candles, err := s.provider.History(ctx, yahooSymbol, rng, marketdata.IntervalDaily)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Analyze(symbol, candles)
}

// IntradaySymbol fetches a 5-minute session and summarizes it.
func (s *Service) IntradaySymbol(ctx context.Context, symbol, yahooSymbol string) (*analysis.IntradayAnalysis, error) {
	candles, err := s.provider.History(ctx, yahooSymbol, marketdata.Range1D, marketdata.Interval5Min)
	if err != nil {
		return nil, err
	}
	return s.analyzer.AnalyzeIntraday(symbol, candles)
}

// Resolver builds a company resolver over the current active universe.
func (s *Service) Resolver() (*universe.Resolver, error) {
	companies, err := s.companies.GetAllActive()
	if err != nil {
		return nil, err
	}
	return universe.NewResolver(companies, s.log), nil
}
