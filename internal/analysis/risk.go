package analysis

// RiskLevel grades a risk factor or an overall assessment.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// Volatility thresholds (stddev of daily returns) separating risk bands.
const (
	volatilityLowMax  = 0.15
	volatilityHighMin = 0.25
)

// RiskFactor is one graded component of a risk assessment.
type RiskFactor struct {
	Level RiskLevel `json:"level"`
	Value float64   `json:"value"`
}

// RiskAssessment is the composite risk view of one analysis.
type RiskAssessment struct {
	Overall    RiskLevel  `json:"overall"`
	Volatility RiskFactor `json:"volatility"`
	RSI        RiskFactor `json:"rsi"`
	Trend      RiskFactor `json:"trend"`
}

var riskScores = map[RiskLevel]int{
	RiskLow:      1,
	RiskModerate: 2,
	RiskHigh:     3,
}

// AssessRisk grades volatility, RSI positioning, and price trend, then
// combines them into an overall level. A missing RSI reads as Moderate.
func AssessRisk(a *Analysis) RiskAssessment {
	assessment := RiskAssessment{
		Volatility: gradeVolatility(a.Volatility),
		RSI:        gradeRSI(a.RSI),
		Trend:      gradeTrend(a.Trend),
	}

	total := riskScores[assessment.Volatility.Level] +
		riskScores[assessment.RSI.Level] +
		riskScores[assessment.Trend.Level]

	switch {
	case total <= 4:
		assessment.Overall = RiskLow
	case total >= 7:
		assessment.Overall = RiskHigh
	default:
		assessment.Overall = RiskModerate
	}

	return assessment
}

func gradeVolatility(volatility float64) RiskFactor {
	factor := RiskFactor{Value: volatility * 100}
	switch {
	case volatility < volatilityLowMax:
		factor.Level = RiskLow
	case volatility > volatilityHighMin:
		factor.Level = RiskHigh
	default:
		factor.Level = RiskModerate
	}
	return factor
}

func gradeRSI(rsi *float64) RiskFactor {
	if rsi == nil {
		return RiskFactor{Level: RiskModerate}
	}

	factor := RiskFactor{Value: *rsi}
	switch {
	case *rsi > 70 || *rsi < 30:
		factor.Level = RiskHigh
	case *rsi > 60 || *rsi < 40:
		factor.Level = RiskModerate
	default:
		factor.Level = RiskLow
	}
	return factor
}

func gradeTrend(trend Trend) RiskFactor {
	if trend == TrendDownward {
		return RiskFactor{Level: RiskHigh}
	}
	return RiskFactor{Level: RiskLow}
}
