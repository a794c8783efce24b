package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlim/tickerpulse/internal/api/handlers"
	"github.com/jlim/tickerpulse/internal/engine"
	"github.com/jlim/tickerpulse/internal/marketdata"
	"github.com/jlim/tickerpulse/internal/scheduler"
	"github.com/jlim/tickerpulse/internal/signalstore"
	"github.com/jlim/tickerpulse/internal/strategyconfig"
	"github.com/jlim/tickerpulse/pkg/config"
	"github.com/jlim/tickerpulse/pkg/logger"
)

type risingProvider struct {
	empty map[string]bool
}

func (p *risingProvider) Fetch(_ context.Context, symbol string, from, to time.Time) ([]marketdata.Bar, error) {
	if p.empty[symbol] {
		return nil, nil
	}
	var bars []marketdata.Bar
	day := from
	c := 100.0
	for len(bars) < 260 && day.Before(to) {
		bars = append(bars, marketdata.Bar{
			Date: day, Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1_000_000,
		})
		c += 0.4
		day = day.AddDate(0, 0, 1)
	}
	return bars, nil
}

type noopJob struct{}

func (noopJob) Name() string     { return "noop" }
func (noopJob) Schedule() string { return "0 0 0 * * *" }
func (noopJob) Run(context.Context) error {
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := logger.NewNop()
	provider := &risingProvider{empty: map[string]bool{"EMPTY": true}}
	cache := marketdata.NewCache(provider, marketdata.NewMemoryStore(), nil, time.Hour, log)
	store := signalstore.NewMemoryStore()

	strategy := strategyconfig.Default()
	strategy.Sectors = []strategyconfig.SectorDef{
		{Name: "tech", Tickers: []string{"AAPL", "MSFT"}},
	}

	eng := engine.New(cache, store, strategy, config.EngineConfig{
		Workers:      2,
		TaskTimeout:  10 * time.Second,
		LookbackDays: 365,
		Benchmark:    "SPY",
	}, log)

	sched := scheduler.New(log)
	require.NoError(t, sched.Register(noopJob{}))

	router := NewRouter(
		handlers.NewAnalysisHandler(eng, log),
		handlers.NewSectorHandler(eng, log),
		handlers.NewSignalHandler(eng, log),
		handlers.NewCacheHandler(cache, log),
		handlers.NewJobHandler(sched, log),
		log,
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, out interface{}) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]string
	code := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var ta engine.TickerAnalysis
	code := getJSON(t, srv.URL+"/api/analyze/aapl", &ta)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "AAPL", ta.Ticker)
	assert.Equal(t, "tech", ta.Sector)
	require.NotNil(t, ta.Snapshot)
	assert.Greater(t, ta.Snapshot.Score, 0)

	code = getJSON(t, srv.URL+"/api/analyze/EMPTY", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestScreenEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var resp handlers.ScreenResponse
	code := getJSON(t, srv.URL+"/api/screen?tickers=AAPL,MSFT&min_score=0", &resp)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, resp.Count)

	code = getJSON(t, srv.URL+"/api/screen?min_score=abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = getJSON(t, srv.URL+"/api/screen?setup=unknown_setup", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSectorEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var list map[string][]string
	code := getJSON(t, srv.URL+"/api/sectors", &list)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"tech"}, list["sectors"])

	code = getJSON(t, srv.URL+"/api/sectors/tech", nil)
	assert.Equal(t, http.StatusOK, code)

	code = getJSON(t, srv.URL+"/api/sectors/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code = getJSON(t, srv.URL+"/api/sectors/rotation", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestSignalEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var sig signalstore.Signal
	code := postJSON(t, srv.URL+"/api/signals",
		`{"ticker":"aapl","date":"2026-08-03","sentiment":"bullish","mentions":12,"confluence_score":4}`,
		&sig)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "AAPL", sig.Ticker)
	assert.Greater(t, sig.TechScore, 0)
	assert.Greater(t, sig.PriceAtSignal, 0.0)

	code = postJSON(t, srv.URL+"/api/signals",
		`{"ticker":"AAPL","sentiment":"euphoric"}`, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = postJSON(t, srv.URL+"/api/signals/backfill",
		`{"ticker":"AAPL","date":"2026-08-03","prices":{"1":101,"3":103}}`, nil)
	assert.Equal(t, http.StatusOK, code)

	code = postJSON(t, srv.URL+"/api/signals/backfill",
		`{"ticker":"GHOST","date":"2026-08-03","prices":{"1":101}}`, nil)
	assert.Equal(t, http.StatusNotFound, code)

	var report signalstore.Report
	code = getJSON(t, srv.URL+"/api/signals/accuracy?days=400", &report)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, report.Total)

	code = getJSON(t, srv.URL+"/api/signals/accuracy?days=-1", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCacheEndpoints(t *testing.T) {
	srv := newTestServer(t)

	// warm the cache
	code := getJSON(t, srv.URL+"/api/analyze/AAPL", nil)
	require.Equal(t, http.StatusOK, code)

	var stats marketdata.CacheStats
	code = getJSON(t, srv.URL+"/api/cache/stats", &stats)
	require.Equal(t, http.StatusOK, code)
	assert.GreaterOrEqual(t, stats.Refreshes, int64(1))

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/cache/AAPL", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJobEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var jobs map[string][]string
	code := getJSON(t, srv.URL+"/api/jobs", &jobs)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, jobs["jobs"], "noop")

	code = postJSON(t, srv.URL+"/api/jobs/noop/trigger", "", nil)
	assert.Equal(t, http.StatusAccepted, code)

	code = getJSON(t, srv.URL+"/api/jobs/ghost/history", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
