package advisor

import (
	"context"
	"fmt"

	"github.com/marketmind/advisor/internal/marketdata"
	"github.com/marketmind/advisor/internal/query"
	"github.com/marketmind/advisor/internal/universe"
)

// Answer handles one free-form question end to end: classify the intent,
// pull out any budget or horizon, resolve the company when one is named,
// and run the matching operation.
func (s *Service) Answer(ctx context.Context, q string) (string, error) {
	intent := query.Primary(q)
	rng := query.ParseRange(q, query.DetectTemporalContext(q))

	s.log.Debug().
		Str("intent", intent.String()).
		Str("range", string(rng)).
		Msg("Answering query")

	if budget, ok := query.ExtractBudget(q); ok {
		plan, err := s.PlanBudget(ctx, budget, rng)
		if err != nil {
			return "", err
		}
		return s.FormatBudgetPlan(plan), nil
	}

	switch intent {
	case query.IntentDayTrading:
		company, err := s.resolveCompany(q)
		if err != nil {
			return "", err
		}
		ia, err := s.IntradaySymbol(ctx, company.Symbol, company.YahooSymbol)
		if err != nil {
			return "", err
		}
		return s.FormatIntraday(ia), nil

	case query.IntentPrice:
		company, err := s.resolveCompany(q)
		if err != nil {
			return "", err
		}
		a, err := s.AnalyzeSymbol(ctx, company.Symbol, company.YahooSymbol, marketdata.Range5D)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s is trading at %s%.2f.\n", a.Symbol, s.cfg.CurrencySymbol, a.CurrentPrice), nil

	case query.IntentTechnical:
		company, err := s.resolveCompany(q)
		if err != nil {
			return "", err
		}
		a, err := s.AnalyzeSymbol(ctx, company.Symbol, company.YahooSymbol, rng)
		if err != nil {
			return "", err
		}
		return s.FormatTechnical(a), nil

	case query.IntentRisk:
		company, err := s.resolveCompany(q)
		if err != nil {
			return "", err
		}
		a, err := s.AnalyzeSymbol(ctx, company.Symbol, company.YahooSymbol, rng)
		if err != nil {
			return "", err
		}
		return s.FormatRisk(a), nil

	case query.IntentCompany:
		company, err := s.resolveCompany(q)
		if err != nil {
			return "", err
		}
		a, err := s.AnalyzeSymbol(ctx, company.Symbol, company.YahooSymbol, rng)
		if err != nil {
			return "", err
		}
		return s.FormatAnalysis(a), nil

	case query.IntentLongTerm:
		n := query.ExtractCount(q, s.cfg.DefaultRecommendations)
		analyses, err := s.Recommend(ctx, n, marketdata.Range1Y)
		if err != nil {
			return "", err
		}
		return s.FormatRecommendations(analyses), nil

	default:
		// A query that names a company gets the detailed view even
		// without a recognized keyword.
		if company, err := s.resolveCompany(q); err == nil {
			a, err := s.AnalyzeSymbol(ctx, company.Symbol, company.YahooSymbol, rng)
			if err != nil {
				return "", err
			}
			return s.FormatAnalysis(a), nil
		}

		n := query.ExtractCount(q, s.cfg.DefaultRecommendations)
		analyses, err := s.Recommend(ctx, n, rng)
		if err != nil {
			return "", err
		}
		return s.FormatRecommendations(analyses), nil
	}
}

// ErrCompanyNotFound wraps the original question for the caller.
type ErrCompanyNotFound struct {
	Query string
}

func (e *ErrCompanyNotFound) Error() string {
	return fmt.Sprintf("no company recognized in %q", e.Query)
}

func (s *Service) resolveCompany(q string) (*universe.Company, error) {
	resolver, err := s.Resolver()
	if err != nil {
		return nil, err
	}
	company, ok := resolver.Resolve(q)
	if !ok {
		return nil, &ErrCompanyNotFound{Query: q}
	}
	return company, nil
}
