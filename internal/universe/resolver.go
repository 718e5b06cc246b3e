package universe

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"
)

// fuzzyThreshold is the minimum 0-100 similarity score for a fuzzy match.
const fuzzyThreshold = 80

// Resolver maps free-text company mentions to universe entries. It indexes
// exact symbols, every contiguous span of the company name, and falls back
// to edit-distance matching.
type Resolver struct {
	bySymbol   map[string]Company
	variations map[string]string // lowercased name span -> symbol
	log        zerolog.Logger
}

// NewResolver builds a resolver over the given companies.
func NewResolver(companies []Company, log zerolog.Logger) *Resolver {
	r := &Resolver{
		bySymbol:   make(map[string]Company),
		variations: make(map[string]string),
		log:        log.With().Str("component", "resolver").Logger(),
	}

	for _, company := range companies {
		symbol := strings.ToUpper(company.Symbol)
		r.bySymbol[symbol] = company
		r.variations[strings.ToLower(symbol)] = symbol

		// Index every contiguous word span of the name: "tata consultancy
		// services" also answers to "tata consultancy" and "consultancy".
		parts := strings.Fields(strings.ToLower(company.Name))
		for i := range parts {
			for j := i + 1; j <= len(parts); j++ {
				span := strings.Join(parts[i:j], " ")
				if len(span) < 3 {
					continue
				}
				if _, taken := r.variations[span]; !taken {
					r.variations[span] = symbol
				}
			}
		}
	}

	return r
}

// Resolve finds the company mentioned in a query. Exact symbol tokens win,
// then name-span containment, then fuzzy matching against full names.
func (r *Resolver) Resolve(q string) (*Company, bool) {
	normalized := strings.ToLower(strings.TrimSpace(q))
	if normalized == "" {
		return nil, false
	}

	// Exact symbol token
	for _, token := range strings.Fields(normalized) {
		if company, ok := r.bySymbol[strings.ToUpper(token)]; ok {
			return &company, true
		}
	}

	// Longest contained name span
	var bestSpan string
	for span := range r.variations {
		if len(span) > len(bestSpan) && strings.Contains(normalized, span) {
			bestSpan = span
		}
	}
	if bestSpan != "" {
		company := r.bySymbol[r.variations[bestSpan]]
		return &company, true
	}

	// Fuzzy fallback over full names
	var (
		bestScore  int
		bestSymbol string
	)
	for _, company := range r.bySymbol {
		score := similarity(normalized, strings.ToLower(company.Name))
		if score > bestScore {
			bestScore = score
			bestSymbol = strings.ToUpper(company.Symbol)
		}
	}

	if bestScore >= fuzzyThreshold {
		company := r.bySymbol[bestSymbol]
		r.log.Debug().
			Str("query", q).
			Str("symbol", company.Symbol).
			Int("score", bestScore).
			Msg("Fuzzy-resolved company")
		return &company, true
	}

	return nil, false
}

// similarity scores two strings 0-100 from their edit distance.
func similarity(a, b string) int {
	if a == b {
		return 100
	}

	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}

	distance := levenshtein.ComputeDistance(a, b)
	return int(100 * (1 - float64(distance)/float64(longest)))
}
