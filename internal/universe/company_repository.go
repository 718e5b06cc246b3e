package universe

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/marketmind/advisor/internal/database"
)

// CompanyRepository handles company database operations.
type CompanyRepository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewCompanyRepository creates a new company repository.
func NewCompanyRepository(db *database.DB, log zerolog.Logger) *CompanyRepository {
	return &CompanyRepository{
		db:  db,
		log: log.With().Str("repo", "company").Logger(),
	}
}

// Upsert inserts or updates a company keyed by symbol.
func (r *CompanyRepository) Upsert(company Company) error {
	query := `
		INSERT INTO companies (symbol, name, yahoo_symbol, active)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			name = excluded.name,
			yahoo_symbol = excluded.yahoo_symbol,
			active = excluded.active
	`

	_, err := r.db.Exec(query,
		strings.ToUpper(strings.TrimSpace(company.Symbol)),
		strings.TrimSpace(company.Name),
		company.YahooSymbol,
		company.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert company %s: %w", company.Symbol, err)
	}

	return nil
}

// GetBySymbol returns a company by symbol, or nil when not found.
func (r *CompanyRepository) GetBySymbol(symbol string) (*Company, error) {
	query := "SELECT symbol, name, yahoo_symbol, active FROM companies WHERE symbol = ?"

	rows, err := r.db.Query(query, strings.ToUpper(strings.TrimSpace(symbol)))
	if err != nil {
		return nil, fmt.Errorf("failed to query company by symbol: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil // Company not found
	}

	var company Company
	if err := rows.Scan(&company.Symbol, &company.Name, &company.YahooSymbol, &company.Active); err != nil {
		return nil, fmt.Errorf("failed to scan company: %w", err)
	}

	return &company, nil
}

// GetAllActive returns all active companies.
func (r *CompanyRepository) GetAllActive() ([]Company, error) {
	query := "SELECT symbol, name, yahoo_symbol, active FROM companies WHERE active = 1 ORDER BY symbol"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var company Company
		if err := rows.Scan(&company.Symbol, &company.Name, &company.YahooSymbol, &company.Active); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, company)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating companies: %w", err)
	}

	return companies, nil
}

// Count returns the number of companies in the universe.
func (r *CompanyRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM companies").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}
	return count, nil
}
