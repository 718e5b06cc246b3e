package query

import (
	"regexp"
	"strings"
)

// Intent is a recognized query intent. The classifier produces tagged
// variants; downstream code switches on them instead of inspecting text.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentRecommend
	IntentLongTerm
	IntentRisk
	IntentPrice
	IntentTechnical
	IntentCompany
	IntentDayTrading
)

// String returns the intent name.
func (i Intent) String() string {
	switch i {
	case IntentRecommend:
		return "recommend"
	case IntentLongTerm:
		return "long_term"
	case IntentRisk:
		return "risk"
	case IntentPrice:
		return "price"
	case IntentTechnical:
		return "technical"
	case IntentCompany:
		return "company"
	case IntentDayTrading:
		return "day_trading"
	default:
		return "unknown"
	}
}

// intentPatterns map each intent to its trigger phrases. Order matters: the
// first match becomes the primary intent.
var intentPatterns = []struct {
	intent  Intent
	pattern *regexp.Regexp
}{
	{IntentDayTrading, regexp.MustCompile(`day trading|intraday`)},
	{IntentRecommend, regexp.MustCompile(`recommend|best|top|performing|good for investment`)},
	{IntentLongTerm, regexp.MustCompile(`invest|investment|long term|future`)},
	{IntentRisk, regexp.MustCompile(`risk level|risk assessment|risky|safe`)},
	{IntentPrice, regexp.MustCompile(`price|rate|cost|worth|value`)},
	{IntentTechnical, regexp.MustCompile(`technical|analysis|rsi|macd|indicators`)},
	{IntentCompany, regexp.MustCompile(`company|stock|share`)},
}

// Classify returns every intent matched by the query, most specific first.
// A query matching nothing classifies as a recommendation request.
func Classify(q string) []Intent {
	normalized := strings.ToLower(q)

	var intents []Intent
	for _, entry := range intentPatterns {
		if entry.pattern.MatchString(normalized) {
			intents = append(intents, entry.intent)
		}
	}

	if len(intents) == 0 {
		intents = append(intents, IntentRecommend)
	}

	return intents
}

// Primary returns the highest-priority intent of a query.
func Primary(q string) Intent {
	return Classify(q)[0]
}
