package universe

// Company represents one listed company in the investment universe.
type Company struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	YahooSymbol string `json:"yahoo_symbol"`
	Active      bool   `json:"active"`
}
