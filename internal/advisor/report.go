package advisor

import (
	"fmt"
	"strings"

	"github.com/marketmind/advisor/internal/analysis"
)

// FormatRecommendations renders a ranked recommendation list.
func (s *Service) FormatRecommendations(analyses []analysis.Analysis) string {
	if len(analyses) == 0 {
		return "No companies could be analyzed right now. Try again in a few minutes."
	}

	var b strings.Builder
	b.WriteString("Top recommendations by growth potential:\n")
	for i, a := range analyses {
		fmt.Fprintf(&b, "%d. %s — price %s%.2f, potential %+.2f%%, trend %s\n",
			i+1, a.Symbol, s.cfg.CurrencySymbol, a.CurrentPrice, a.FuturePotentialPct, a.Trend)
	}
	return b.String()
}

// FormatBudgetPlan renders both allocation views of a budget plan.
func (s *Service) FormatBudgetPlan(plan *BudgetPlan) string {
	cur := s.cfg.CurrencySymbol

	var b strings.Builder
	fmt.Fprintf(&b, "Budget plan for %s%.2f:\n\n", cur, plan.Budget)

	if len(plan.SingleOptions) == 0 {
		b.WriteString("No single stock fits within this budget.\n")
	} else {
		b.WriteString("Single-stock options:\n")
		for i, opt := range plan.SingleOptions {
			fmt.Fprintf(&b, "%d. %s — %d shares at %s%.2f (cost %s%.2f, est. profit %s%.2f)\n",
				i+1, opt.Symbol, opt.Shares, cur, opt.Price, cur, opt.Cost, cur, opt.PotentialProfit)
		}
	}

	b.WriteString("\nDiversified portfolio:\n")
	if plan.Portfolio.IsEmpty() {
		b.WriteString("Nothing affordable in the current universe.\n")
		return b.String()
	}

	for _, line := range plan.Portfolio.Lines {
		fmt.Fprintf(&b, "- %s: %d shares, cost %s%.2f, est. return %s%.2f\n",
			line.Symbol, line.Shares, cur, line.Cost, cur, line.PotentialReturn)
	}
	fmt.Fprintf(&b, "Total invested: %s%.2f of %s%.2f, est. return %s%.2f\n",
		cur, plan.Portfolio.TotalCost(), cur, plan.Budget, cur, plan.Portfolio.TotalPotentialReturn())

	return b.String()
}

// FormatAnalysis renders a detailed single-symbol report.
func (s *Service) FormatAnalysis(a *analysis.Analysis) string {
	cur := s.cfg.CurrencySymbol

	var b strings.Builder
	fmt.Fprintf(&b, "Analysis for %s:\n", a.Symbol)
	fmt.Fprintf(&b, "- Current price: %s%.2f\n", cur, a.CurrentPrice)
	fmt.Fprintf(&b, "- Window return: %+.2f%%\n", a.PercentReturn)
	fmt.Fprintf(&b, "- Growth potential: %+.2f%%\n", a.FuturePotentialPct)
	fmt.Fprintf(&b, "- Trend: %s\n", a.Trend)
	fmt.Fprintf(&b, "- Volatility: %.4f\n", a.Volatility)
	return b.String()
}

// FormatTechnical renders the indicator view of an analysis. Indicators
// the window was too short to compute are reported as unavailable.
func (s *Service) FormatTechnical(a *analysis.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Technical indicators for %s:\n", a.Symbol)
	b.WriteString(formatIndicator("RSI (14)", a.RSI))
	b.WriteString(formatIndicator("SMA (50)", a.SMA50))
	b.WriteString(formatIndicator("MACD signal", a.MACDSignal))
	b.WriteString(formatIndicator("Bollinger upper", a.BBUpper))
	b.WriteString(formatIndicator("Bollinger lower", a.BBLower))

	if a.RSI != nil {
		switch {
		case *a.RSI > 70:
			b.WriteString("RSI suggests the stock is overbought.\n")
		case *a.RSI < 30:
			b.WriteString("RSI suggests the stock is oversold.\n")
		}
	}
	return b.String()
}

func formatIndicator(name string, v *float64) string {
	if v == nil {
		return fmt.Sprintf("- %s: not enough history\n", name)
	}
	return fmt.Sprintf("- %s: %.2f\n", name, *v)
}

// FormatRisk renders a risk assessment.
func (s *Service) FormatRisk(a *analysis.Analysis) string {
	assessment := analysis.AssessRisk(a)

	var b strings.Builder
	fmt.Fprintf(&b, "Risk assessment for %s: %s\n", a.Symbol, assessment.Overall)
	fmt.Fprintf(&b, "- Volatility: %s (%.4f)\n", assessment.Volatility.Level, assessment.Volatility.Value)
	if a.RSI != nil {
		fmt.Fprintf(&b, "- RSI: %s (%.2f)\n", assessment.RSI.Level, assessment.RSI.Value)
	} else {
		fmt.Fprintf(&b, "- RSI: %s (no reading)\n", assessment.RSI.Level)
	}
	fmt.Fprintf(&b, "- Trend: %s (%s)\n", assessment.Trend.Level, a.Trend)
	return b.String()
}

// FormatIntraday renders a day-trading session summary.
func (s *Service) FormatIntraday(ia *analysis.IntradayAnalysis) string {
	cur := s.cfg.CurrencySymbol

	var b strings.Builder
	fmt.Fprintf(&b, "Intraday view for %s:\n", ia.Symbol)
	fmt.Fprintf(&b, "- Current price: %s%.2f\n", cur, ia.CurrentPrice)
	fmt.Fprintf(&b, "- VWAP: %s%.2f\n", cur, ia.VWAP)
	fmt.Fprintf(&b, "- Momentum: %+.4f%%\n", ia.Momentum)
	fmt.Fprintf(&b, "- Volume trend: %+.2f\n", ia.VolumeTrend)
	fmt.Fprintf(&b, "- Resistance: %s\n", formatLevels(cur, ia.ResistanceLevels))
	fmt.Fprintf(&b, "- Support: %s\n", formatLevels(cur, ia.SupportLevels))
	return b.String()
}

func formatLevels(cur string, levels []float64) string {
	if len(levels) == 0 {
		return "none identified"
	}
	parts := make([]string, len(levels))
	for i, v := range levels {
		parts[i] = fmt.Sprintf("%s%.2f", cur, v)
	}
	return strings.Join(parts, ", ")
}
