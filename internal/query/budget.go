package query

import (
	"regexp"
	"strconv"
	"strings"
)

// Budget phrasings recognized in free text, tried in order. The amount may
// carry thousands separators and a currency marker (₹, Rs, INR).
var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`budget\s*(?:of|is|:)?\s*(?:rs\.?|inr|₹)?\s*(\d+(?:,\d+)*(?:\.\d+)?)`),
	regexp.MustCompile(`(?:rs\.?|inr|₹)\s*(\d+(?:,\d+)*(?:\.\d+)?)`),
	regexp.MustCompile(`(\d+(?:,\d+)*(?:\.\d+)?)\s*(?:budget|rupees?|rs\.?)`),
	regexp.MustCompile(`(?:got|have|with)\s*(?:rs\.?|inr|₹)?\s*(\d+(?:,\d+)*(?:\.\d+)?)`),
}

// ExtractBudget pulls a budget amount out of free text. The boolean is false
// when no amount is present; callers must still validate the value before
// passing it to the allocator.
func ExtractBudget(q string) (float64, bool) {
	normalized := strings.ToLower(q)

	for _, pattern := range budgetPatterns {
		match := pattern.FindStringSubmatch(normalized)
		if match == nil {
			continue
		}

		amount, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
		if err != nil {
			continue
		}
		return amount, true
	}

	return 0, false
}

var countPattern = regexp.MustCompile(`(\d+)\s*(?:company|companies|stock|stocks)`)

// ExtractCount pulls a requested recommendation count ("top 3 stocks") out
// of free text, falling back to the given default.
func ExtractCount(q string, fallback int) int {
	match := countPattern.FindStringSubmatch(strings.ToLower(q))
	if match == nil {
		return fallback
	}

	n, err := strconv.Atoi(match[1])
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
