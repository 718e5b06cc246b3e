package marketdata

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog"
)

// HistoryStore persists daily price history as one SQLite file per symbol.
// The scheduler's sync job writes into it; analysis reads from it when the
// live provider is unavailable.
type HistoryStore struct {
	historyDir string
	log        zerolog.Logger
}

// NewHistoryStore creates a history store rooted at historyDir.
func NewHistoryStore(historyDir string, log zerolog.Logger) *HistoryStore {
	return &HistoryStore{
		historyDir: historyDir,
		log:        log.With().Str("component", "history_store").Logger(),
	}
}

const historySchema = `
CREATE TABLE IF NOT EXISTS daily_prices (
	date TEXT PRIMARY KEY,
	open_price REAL,
	high_price REAL,
	low_price REAL,
	close_price REAL NOT NULL,
	volume INTEGER
)`

// SaveDailyPrices upserts a candle series for a symbol.
func (h *HistoryStore) SaveDailyPrices(symbol string, candles []Candle) error {
	db, err := h.openHistoryDB(symbol)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO daily_prices (date, open_price, high_price, low_price, close_price, volume)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			open_price = excluded.open_price,
			high_price = excluded.high_price,
			low_price = excluded.low_price,
			close_price = excluded.close_price,
			volume = excluded.volume
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		_, err := stmt.Exec(c.Date.Format("2006-01-02"), c.Open, c.High, c.Low, c.Close, c.Volume)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert daily price: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit daily prices: %w", err)
	}

	h.log.Debug().
		Str("symbol", symbol).
		Int("bars", len(candles)).
		Msg("Saved daily prices")

	return nil
}

// GetDailyPrices returns up to limit candles for a symbol, oldest first.
func (h *HistoryStore) GetDailyPrices(symbol string, limit int) ([]Candle, error) {
	db, err := h.openHistoryDB(symbol)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := `
		SELECT date, open_price, high_price, low_price, close_price, volume
		FROM (
			SELECT * FROM daily_prices ORDER BY date DESC LIMIT ?
		)
		ORDER BY date ASC
	`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices: %w", err)
	}
	defer rows.Close()

	var candles []Candle
	for rows.Next() {
		var (
			c       Candle
			dateStr string
			open    sql.NullFloat64
			high    sql.NullFloat64
			low     sql.NullFloat64
			volume  sql.NullInt64
		)

		if err := rows.Scan(&dateStr, &open, &high, &low, &c.Close, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}

		c.Date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price date: %w", err)
		}
		c.Open = open.Float64
		c.High = high.Float64
		c.Low = low.Float64
		c.Volume = volume.Int64

		candles = append(candles, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}

	return candles, nil
}

// openHistoryDB opens (creating if needed) the per-symbol history database.
func (h *HistoryStore) openHistoryDB(symbol string) (*sql.DB, error) {
	if err := os.MkdirAll(h.historyDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	// Symbols like RELIANCE.NS are safe filenames; guard against separators.
	name := strings.ReplaceAll(strings.ToUpper(symbol), string(os.PathSeparator), "_")
	path := filepath.Join(h.historyDir, name+".db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db for %s: %w", symbol, err)
	}

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure history schema: %w", err)
	}

	return db, nil
}
