package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrNoData is returned when the provider responds without any usable bars.
var ErrNoData = errors.New("no price data for symbol")

// Provider supplies historical price series. Implementations own the
// network discipline (timeouts, retries, rate limits); downstream consumers
// must tolerate partial universes when individual symbols fail.
type Provider interface {
	History(ctx context.Context, symbol string, rng Range, interval Interval) ([]Candle, error)
}

// YahooConfig holds tunables for the Yahoo chart client.
type YahooConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	MaxRetries     int
	RequestsPerSec float64
	Burst          int
}

// DefaultYahooConfig returns the settings used in production.
func DefaultYahooConfig() YahooConfig {
	return YahooConfig{
		BaseURL:        "https://query1.finance.yahoo.com",
		RequestTimeout: 10 * time.Second,
		MaxRetries:     3,
		RequestsPerSec: 2,
		Burst:          4,
	}
}

// YahooClient fetches daily and intraday history from the Yahoo chart API.
type YahooClient struct {
	cfg     YahooConfig
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewYahooClient creates a chart API client with rate limiting and a
// circuit breaker in front of the upstream.
func NewYahooClient(cfg YahooConfig, log zerolog.Logger) *YahooClient {
	componentLog := log.With().Str("component", "yahoo_client").Logger()

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "yahoo-chart",
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			componentLog.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	return &YahooClient{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		breaker: breaker,
		log:     componentLog,
	}
}

// chartResponse mirrors the subset of the chart API payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches a candle series for a symbol, oldest bar first. Bars with
// missing close prices are dropped rather than surfaced.
func (c *YahooClient) History(ctx context.Context, symbol string, rng Range, interval Interval) ([]Candle, error) {
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.fetch(ctx, symbol, rng, interval)
		})
		if err == nil {
			return result.([]Candle), nil
		}

		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("provider unavailable for %s: %w", symbol, err)
		}

		c.log.Warn().
			Err(err).
			Str("symbol", symbol).
			Int("attempt", attempt).
			Msg("History fetch failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}

	return nil, fmt.Errorf("history fetch for %s failed after %d attempts: %w", symbol, c.cfg.MaxRetries, lastErr)
}

func (c *YahooClient) fetch(ctx context.Context, symbol string, rng Range, interval Interval) ([]Candle, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.cfg.BaseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	q := req.URL.Query()
	q.Set("range", string(rng))
	q.Set("interval", string(interval))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", "marketmind-advisor/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, symbol)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", symbol, payload.Chart.Error.Description)
	}

	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	result := payload.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	var candles []Candle
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		candle := Candle{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			candle.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			candle.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			candle.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			candle.Volume = *quote.Volume[i]
		}
		candles = append(candles, candle)
	}

	if len(candles) == 0 {
		return nil, ErrNoData
	}

	return candles, nil
}
