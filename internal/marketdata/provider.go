package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/jlim/tickerpulse/pkg/config"
	"github.com/jlim/tickerpulse/pkg/httputil"
	"github.com/jlim/tickerpulse/pkg/logger"
)

// Provider supplies daily bars for a symbol. Implementations may fail or
// return nothing for unlisted/delisted/rate-limited symbols; callers must
// treat absence as non-fatal.
type Provider interface {
	Fetch(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error)
}

// HTTPProvider fetches daily bars from the price data API.
// All provider calls go through this client.
type HTTPProvider struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// NewHTTPProvider creates a provider client from config
func NewHTTPProvider(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *HTTPProvider {
	return &HTTPProvider{
		httpClient: httpClient,
		logger:     log.WithField("module", "provider"),
		baseURL:    cfg.Provider.BaseURL,
		apiKey:     cfg.Provider.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(cfg.Provider.RatePerSecond), cfg.Provider.RateBurst),
	}
}

// barRow is the provider's wire format for one daily bar
type barRow struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type dailyResponse struct {
	Symbol string   `json:"symbol"`
	Bars   []barRow `json:"bars"`
}

// Fetch retrieves daily bars for a symbol within a date range
func (p *HTTPProvider) Fetch(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("provider rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	if p.apiKey != "" {
		params.Set("apikey", p.apiKey)
	}

	fullURL := fmt.Sprintf("%s/daily?%s", p.baseURL, params.Encode())

	resp, err := p.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Unknown or delisted symbol; absence is not an error
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	var payload dailyResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse provider response: %w", err)
	}

	bars := make([]Bar, 0, len(payload.Bars))
	for _, row := range payload.Bars {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			p.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"date":   row.Date,
			}).Warn("Skipping bar with malformed date")
			continue
		}
		if row.Close <= 0 || row.High < row.Low {
			// Malformed row; skip rather than poison the series
			continue
		}
		bars = append(bars, Bar{
			Date:   date,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}

	p.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched daily bars")

	return bars, nil
}
