package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketmind/advisor/internal/app"
	"github.com/marketmind/advisor/internal/marketdata"
	"github.com/marketmind/advisor/internal/scheduler"
	"github.com/marketmind/advisor/internal/server"
	"github.com/marketmind/advisor/pkg/logger"
)

var (
	logLevel     string
	lookbackFlag string
	countFlag    int
	timeoutFlag  time.Duration
)

// rootCmd is the base command for the advisor CLI
var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "MarketMind stock advisor CLI",
	Long: `MarketMind answers plain-language questions about NSE stocks:
recommendations, budget allocation plans, risk assessments, and
intraday summaries, all from the same engine the HTTP API uses.`,
}

// askCmd answers one free-form question
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a free-form question",
	Long: `Ask a question the way you would ask a person.

Example usage:
  advisor ask "which stocks should I buy with ₹10,000"
  advisor ask "how risky is RELIANCE right now"
  advisor ask "intraday view for tata consultancy"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// recommendCmd prints the top stocks by growth potential
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "List the top stocks by growth potential",
	RunE:  runRecommend,
}

// planCmd builds a budget allocation plan
var planCmd = &cobra.Command{
	Use:   "plan [budget]",
	Short: "Plan how to allocate a budget across the universe",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

// syncCmd refreshes the on-disk price history
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync daily price history for all active companies",
	RunE:  runSync,
}

// serveCmd runs the HTTP API with the background sync job
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 5*time.Minute, "Overall command timeout")

	recommendCmd.Flags().IntVar(&countFlag, "n", 5, "Number of recommendations")
	recommendCmd.Flags().StringVar(&lookbackFlag, "range", "3mo", "Lookback window: 1d, 5d, 1mo, 3mo, 6mo, 1y, 5y")
	planCmd.Flags().StringVar(&lookbackFlag, "range", "3mo", "Lookback window: 1d, 5d, 1mo, 3mo, 6mo, 1y, 5y")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// boot builds the application graph for one CLI invocation.
func boot() (*app.App, context.Context, context.CancelFunc, error) {
	log := logger.New(logger.Config{Level: logLevel, Pretty: true})

	application, err := app.New(log)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := application.LoadUniverse(); err != nil {
		application.Close()
		return nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeoutFlag)
	return application, ctx, cancel, nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	application, ctx, cancel, err := boot()
	if err != nil {
		return err
	}
	defer application.Close()
	defer cancel()

	answer, err := application.Advisor.Answer(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

func runRecommend(cmd *cobra.Command, args []string) error {
	rng, err := parseRange(lookbackFlag)
	if err != nil {
		return err
	}

	application, ctx, cancel, err := boot()
	if err != nil {
		return err
	}
	defer application.Close()
	defer cancel()

	analyses, err := application.Advisor.Recommend(ctx, countFlag, rng)
	if err != nil {
		return err
	}

	fmt.Print(application.Advisor.FormatRecommendations(analyses))
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	var budget float64
	if _, err := fmt.Sscanf(args[0], "%f", &budget); err != nil {
		return fmt.Errorf("budget must be a number: %q", args[0])
	}

	rng, err := parseRange(lookbackFlag)
	if err != nil {
		return err
	}

	application, ctx, cancel, err := boot()
	if err != nil {
		return err
	}
	defer application.Close()
	defer cancel()

	plan, err := application.Advisor.PlanBudget(ctx, budget, rng)
	if err != nil {
		return err
	}

	fmt.Print(application.Advisor.FormatBudgetPlan(plan))
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	application, _, cancel, err := boot()
	if err != nil {
		return err
	}
	defer application.Close()
	defer cancel()

	job := scheduler.NewPriceSyncJob(
		application.Companies,
		application.Provider,
		application.History,
		nil, // sync on demand regardless of market hours
		application.Log,
	)

	return job.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.New(logger.Config{Level: logLevel, Pretty: true})

	application, err := app.New(log)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.LoadUniverse(); err != nil {
		log.Warn().Err(err).Msg("Universe load failed, continuing with existing data")
	}

	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	priceSync := scheduler.NewPriceSyncJob(
		application.Companies,
		application.Provider,
		application.History,
		application.MarketHours,
		application.Log,
	)
	if err := sched.AddJob("0 0 * * * *", priceSync); err != nil {
		return err
	}

	srv := server.New(server.Config{
		Port:      application.Cfg.Port,
		Log:       log,
		Config:    application.Cfg,
		Advisor:   application.Advisor,
		Companies: application.Companies,
		Scheduler: sched,
		DevMode:   application.Cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func parseRange(raw string) (marketdata.Range, error) {
	switch rng := marketdata.Range(raw); rng {
	case marketdata.Range1D, marketdata.Range5D, marketdata.Range1Mo,
		marketdata.Range3Mo, marketdata.Range6Mo, marketdata.Range1Y, marketdata.Range5Y:
		return rng, nil
	default:
		return "", fmt.Errorf("invalid range %q", raw)
	}
}
