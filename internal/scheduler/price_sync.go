package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketmind/advisor/internal/marketdata"
	"github.com/marketmind/advisor/internal/universe"
)

// PriceSyncJob refreshes the on-disk daily price history for every active
// company. Per-symbol failures are logged and skipped so one bad symbol
// never aborts the sweep.
type PriceSyncJob struct {
	companies    *universe.CompanyRepository
	provider     marketdata.Provider
	store        *marketdata.HistoryStore
	marketHours  *MarketHoursService
	syncRange    marketdata.Range
	timeoutPerOp time.Duration
	log          zerolog.Logger
}

// NewPriceSyncJob creates a price sync job.
func NewPriceSyncJob(
	companies *universe.CompanyRepository,
	provider marketdata.Provider,
	store *marketdata.HistoryStore,
	marketHours *MarketHoursService,
	log zerolog.Logger,
) *PriceSyncJob {
	return &PriceSyncJob{
		companies:    companies,
		provider:     provider,
		store:        store,
		marketHours:  marketHours,
		syncRange:    marketdata.Range1Y,
		timeoutPerOp: 30 * time.Second,
		log:          log.With().Str("job", "price_sync").Logger(),
	}
}

// Name returns the job name.
func (j *PriceSyncJob) Name() string {
	return "price_sync"
}

// Run syncs daily history for all active companies. Skipped while the
// market is open so only settled daily bars are persisted.
func (j *PriceSyncJob) Run() error {
	if j.marketHours != nil && j.marketHours.IsOpenNow() {
		j.log.Debug().Msg("Market open, deferring price sync")
		return nil
	}

	companies, err := j.companies.GetAllActive()
	if err != nil {
		return err
	}

	synced, failed := 0, 0
	for _, company := range companies {
		if err := j.syncOne(company); err != nil {
			j.log.Warn().
				Err(err).
				Str("symbol", company.Symbol).
				Msg("Price sync failed for symbol, skipping")
			failed++
			continue
		}
		synced++
	}

	j.log.Info().
		Int("synced", synced).
		Int("failed", failed).
		Msg("Price sync complete")

	return nil
}

func (j *PriceSyncJob) syncOne(company universe.Company) error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeoutPerOp)
	defer cancel()

	candles, err := j.provider.History(ctx, company.YahooSymbol, j.syncRange, marketdata.IntervalDaily)
	if err != nil {
		return err
	}

	// Keyed by the provider symbol so the fallback path finds the file
	return j.store.SaveDailyPrices(company.YahooSymbol, candles)
}
