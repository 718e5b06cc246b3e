package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/marketmind/advisor/internal/marketdata"
)

// TemporalContext is the time orientation of a query.
type TemporalContext string

const (
	TemporalPast    TemporalContext = "past"
	TemporalPresent TemporalContext = "present"
	TemporalFuture  TemporalContext = "future"
)

var temporalKeywords = []struct {
	context  TemporalContext
	keywords []string
}{
	{TemporalPast, []string{"last", "previous", "earlier", "ago", "historical", "before", "past performance"}},
	{TemporalPresent, []string{"now", "current", "today", "right now", "present", "ongoing", "currently"}},
	{TemporalFuture, []string{"next", "coming", "upcoming", "will", "forecast", "predict", "future", "expected", "invest in", "good for investment"}},
}

// DetectTemporalContext classifies the time orientation of a query.
// Queries without temporal markers are treated as forward-looking.
func DetectTemporalContext(q string) TemporalContext {
	normalized := strings.ToLower(q)

	for _, entry := range temporalKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(normalized, keyword) {
				return entry.context
			}
		}
	}

	return TemporalFuture
}

var durationPattern = regexp.MustCompile(`(\d+)\s*(day|days|week|weeks|month|months|year|years)`)

var defaultRanges = map[TemporalContext]marketdata.Range{
	TemporalPast:    marketdata.Range3Mo,
	TemporalPresent: marketdata.Range1Mo,
	TemporalFuture:  marketdata.Range3Mo,
}

// ParseRange extracts a lookback window from free text ("for the next 3
// months"), snapped to the ranges the chart API supports. Without an
// explicit duration the temporal context picks the default.
func ParseRange(q string, context TemporalContext) marketdata.Range {
	match := durationPattern.FindStringSubmatch(strings.ToLower(q))
	if match == nil {
		return defaultRanges[context]
	}

	value, err := strconv.Atoi(match[1])
	if err != nil || value < 1 {
		return defaultRanges[context]
	}

	days := value
	switch {
	case strings.HasPrefix(match[2], "week"):
		days = value * 7
	case strings.HasPrefix(match[2], "month"):
		days = value * 30
	case strings.HasPrefix(match[2], "year"):
		days = value * 365
	}

	return snapRange(days)
}

// snapRange maps a day count to the nearest supported chart range.
func snapRange(days int) marketdata.Range {
	switch {
	case days <= 1:
		return marketdata.Range1D
	case days <= 5:
		return marketdata.Range5D
	case days <= 31:
		return marketdata.Range1Mo
	case days <= 93:
		return marketdata.Range3Mo
	case days <= 186:
		return marketdata.Range6Mo
	case days <= 366:
		return marketdata.Range1Y
	default:
		return marketdata.Range5Y
	}
}
