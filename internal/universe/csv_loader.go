package universe

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// yahooSuffix is appended to exchange symbols for chart API lookups.
const yahooSuffix = ".NS"

// LoadCompaniesCSV reads an exchange listing CSV (SYMBOL, NAME OF COMPANY
// columns) and upserts every row into the repository. Returns the number of
// companies loaded. Rows with missing fields are skipped, not fatal.
func LoadCompaniesCSV(path string, repo *CompanyRepository, log zerolog.Logger) (int, error) {
	componentLog := log.With().Str("component", "csv_loader").Logger()

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open companies CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	symbolCol, nameCol := -1, -1
	for i, col := range header {
		switch strings.ToUpper(strings.TrimSpace(col)) {
		case "SYMBOL":
			symbolCol = i
		case "NAME OF COMPANY":
			nameCol = i
		}
	}
	if symbolCol < 0 || nameCol < 0 {
		return 0, fmt.Errorf("companies CSV missing SYMBOL or NAME OF COMPANY column")
	}

	loaded := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return loaded, fmt.Errorf("failed to read CSV record: %w", err)
		}

		if symbolCol >= len(record) || nameCol >= len(record) {
			continue
		}

		symbol := strings.ToUpper(strings.TrimSpace(record[symbolCol]))
		name := strings.TrimSpace(record[nameCol])
		if symbol == "" || name == "" {
			componentLog.Warn().Strs("record", record).Msg("Skipping incomplete company row")
			continue
		}

		company := Company{
			Symbol:      symbol,
			Name:        name,
			YahooSymbol: symbol + yahooSuffix,
			Active:      true,
		}
		if err := repo.Upsert(company); err != nil {
			return loaded, err
		}
		loaded++
	}

	componentLog.Info().Int("companies", loaded).Str("path", path).Msg("Loaded companies from CSV")
	return loaded, nil
}
