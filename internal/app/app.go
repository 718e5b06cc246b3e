package app

import (
	"github.com/rs/zerolog"

	"github.com/marketmind/advisor/internal/advisor"
	"github.com/marketmind/advisor/internal/allocation"
	"github.com/marketmind/advisor/internal/analysis"
	"github.com/marketmind/advisor/internal/config"
	"github.com/marketmind/advisor/internal/database"
	"github.com/marketmind/advisor/internal/marketdata"
	"github.com/marketmind/advisor/internal/scheduler"
	"github.com/marketmind/advisor/internal/universe"
)

// App wires every layer together. Both the server and the CLI boot
// through it so the wiring lives in one place.
type App struct {
	Cfg         *config.Config
	Log         zerolog.Logger
	DB          *database.DB
	Companies   *universe.CompanyRepository
	Provider    marketdata.Provider
	History     *marketdata.HistoryStore
	MarketHours *scheduler.MarketHoursService
	Advisor     *advisor.Service
}

// New loads configuration, opens the database, and builds the service
// graph. Close must be called when done.
func New(log zerolog.Logger) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	companies := universe.NewCompanyRepository(db, log)

	yahoo := marketdata.NewYahooClient(marketdata.DefaultYahooConfig(), log)
	cached, err := marketdata.NewCachedProvider(yahoo, cfg.CacheCapacity, cfg.CacheTTL, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	history := marketdata.NewHistoryStore(cfg.HistoryDir, log)
	provider := marketdata.NewFallbackProvider(cached, history, log)

	svc := advisor.New(
		advisor.Config{
			CurrencySymbol:         cfg.CurrencySymbol,
			DefaultRecommendations: cfg.DefaultRecommendations,
			MaxSingleOptions:       3,
		},
		companies,
		provider,
		analysis.NewAnalyzer(log),
		allocation.New(log),
		log,
	)

	return &App{
		Cfg:         cfg,
		Log:         log,
		DB:          db,
		Companies:   companies,
		Provider:    provider,
		History:     history,
		MarketHours: scheduler.NewMarketHoursService(log),
		Advisor:     svc,
	}, nil
}

// LoadUniverse imports the companies CSV when the table is still empty.
func (a *App) LoadUniverse() error {
	count, err := a.Companies.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	loaded, err := universe.LoadCompaniesCSV(a.Cfg.CompaniesCSV, a.Companies, a.Log)
	if err != nil {
		return err
	}

	a.Log.Info().Int("companies", loaded).Msg("Universe loaded from CSV")
	return nil
}

// Close releases the database handle.
func (a *App) Close() {
	a.DB.Close()
}
