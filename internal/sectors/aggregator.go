package sectors

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jlim/tickerpulse/internal/indicators"
	"github.com/jlim/tickerpulse/internal/marketdata"
	"github.com/jlim/tickerpulse/pkg/logger"
)

// Return windows in trading days
const (
	window1W = 5
	window1M = 21
	window2M = 42
	window3M = 63
	window6M = 126
)

// Momentum trend labels
const (
	TrendGaining = "gaining"
	TrendLosing  = "losing"
	TrendNeutral = "neutral"
)

// Performer is one constituent ranked by its 1-month return.
type Performer struct {
	Ticker   string  `json:"ticker"`
	Return1M float64 `json:"return_1m"`
}

// SectorMetrics is the aggregate view over one sector's constituents.
// Averages cover only the tickers whose series could be analyzed.
type SectorMetrics struct {
	Sector       string `json:"sector"`
	Constituents int    `json:"constituents"`
	Analyzed     int    `json:"analyzed"`

	AvgReturn1W float64 `json:"avg_return_1w"`
	AvgReturn1M float64 `json:"avg_return_1m"`
	AvgReturn2M float64 `json:"avg_return_2m"`
	AvgReturn3M float64 `json:"avg_return_3m"`
	AvgReturn6M float64 `json:"avg_return_6m"`
	AvgRSI      float64 `json:"avg_rsi"`

	Bullish int `json:"bullish"`
	Bearish int `json:"bearish"`
	Neutral int `json:"neutral"`

	MomentumScore int    `json:"momentum_score"`
	MomentumTrend string `json:"momentum_trend"`

	Top    []Performer `json:"top_performers"`
	Bottom []Performer `json:"bottom_performers"`
}

// Aggregator fans constituent analysis out over a bounded worker pool
// and folds the results into SectorMetrics.
type Aggregator struct {
	cache        *marketdata.Cache
	members      *Membership
	workers      int
	lookbackDays int
	taskTimeout  time.Duration
	logger       *logger.Logger
}

// NewAggregator wires the aggregator. workers <= 0 falls back to 4,
// taskTimeout <= 0 to 45s.
func NewAggregator(cache *marketdata.Cache, members *Membership, workers, lookbackDays int, taskTimeout time.Duration, log *logger.Logger) *Aggregator {
	if workers <= 0 {
		workers = 4
	}
	if lookbackDays <= 0 {
		lookbackDays = 365
	}
	if taskTimeout <= 0 {
		taskTimeout = 45 * time.Second
	}
	return &Aggregator{
		cache:        cache,
		members:      members,
		workers:      workers,
		lookbackDays: lookbackDays,
		taskTimeout:  taskTimeout,
		logger:       log,
	}
}

// Membership exposes the sector mapping for callers.
func (a *Aggregator) Membership() *Membership {
	return a.members
}

type constituent struct {
	ticker string
	rsi    *float64
	bias   indicators.Bias
	ret    map[int]float64 // window -> pct return, missing if history too short
}

// Analyze aggregates one sector. Constituents whose series are
// unavailable are skipped, never fatal; an unknown sector is an error.
func (a *Aggregator) Analyze(ctx context.Context, sector string) (*SectorMetrics, error) {
	tickers, ok := a.members.Tickers(sector)
	if !ok {
		return nil, fmt.Errorf("unknown sector %q", sector)
	}

	results := a.collect(ctx, tickers)

	m := &SectorMetrics{
		Sector:       sector,
		Constituents: len(tickers),
	}
	a.fold(m, results)
	return m, nil
}

// AnalyzeAll aggregates every sector in definition order.
func (a *Aggregator) AnalyzeAll(ctx context.Context) []*SectorMetrics {
	out := make([]*SectorMetrics, 0, len(a.members.Sectors()))
	for _, s := range a.members.Sectors() {
		m, err := a.Analyze(ctx, s)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

// collect runs one worker per pool slot over the ticker list.
func (a *Aggregator) collect(ctx context.Context, tickers []string) []constituent {
	jobs := make(chan string)
	resultCh := make(chan constituent)

	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				// One stalled constituent must not hold the sector up.
				taskCtx, cancel := context.WithTimeout(ctx, a.taskTimeout)
				c, ok := a.analyzeOne(taskCtx, ticker)
				cancel()
				if !ok {
					continue
				}
				resultCh <- c
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, t := range tickers {
			select {
			case jobs <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var results []constituent
	for c := range resultCh {
		results = append(results, c)
	}
	return results
}

func (a *Aggregator) analyzeOne(ctx context.Context, ticker string) (constituent, bool) {
	series := a.cache.Get(ctx, ticker, a.lookbackDays, false)
	if series.Empty() {
		a.logger.WithField("ticker", ticker).Debug("sector constituent skipped, no data")
		return constituent{}, false
	}

	c := constituent{ticker: ticker, ret: make(map[int]float64, 5)}
	for _, w := range []int{window1W, window1M, window2M, window3M, window6M} {
		if r, ok := series.ReturnOver(w); ok {
			c.ret[w] = r
		}
	}

	if snap := indicators.Compute(&series); snap != nil {
		c.rsi = snap.RSI
		c.bias = snap.Bias
	}

	return c, true
}

// fold averages the collected constituents into the metrics struct and
// derives the momentum score.
func (a *Aggregator) fold(m *SectorMetrics, results []constituent) {
	m.Analyzed = len(results)
	m.MomentumTrend = TrendNeutral
	m.MomentumScore = momentumBase
	if len(results) == 0 {
		return
	}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	var rsiSum float64
	var rsiCount int
	var performers []Performer

	for _, c := range results {
		for w, r := range c.ret {
			sums[w] += r
			counts[w]++
		}
		if c.rsi != nil {
			rsiSum += *c.rsi
			rsiCount++
		}
		switch c.bias {
		case indicators.BiasBullish:
			m.Bullish++
		case indicators.BiasBearish:
			m.Bearish++
		default:
			m.Neutral++
		}
		if r, ok := c.ret[window1M]; ok {
			performers = append(performers, Performer{Ticker: c.ticker, Return1M: r})
		}
	}

	avg := func(w int) float64 {
		if counts[w] == 0 {
			return 0
		}
		return sums[w] / float64(counts[w])
	}
	m.AvgReturn1W = avg(window1W)
	m.AvgReturn1M = avg(window1M)
	m.AvgReturn2M = avg(window2M)
	m.AvgReturn3M = avg(window3M)
	m.AvgReturn6M = avg(window6M)
	if rsiCount > 0 {
		m.AvgRSI = rsiSum / float64(rsiCount)
	} else {
		m.AvgRSI = 50
	}

	sort.Slice(performers, func(i, j int) bool {
		return performers[i].Return1M > performers[j].Return1M
	})
	m.Top = topN(performers, 3)
	m.Bottom = bottomN(performers, 3)

	m.MomentumScore = momentumScore(m)
	switch {
	case m.MomentumScore > 60:
		m.MomentumTrend = TrendGaining
	case m.MomentumScore < 40:
		m.MomentumTrend = TrendLosing
	}
}

func topN(sorted []Performer, n int) []Performer {
	if len(sorted) < n {
		n = len(sorted)
	}
	return append([]Performer(nil), sorted[:n]...)
}

func bottomN(sorted []Performer, n int) []Performer {
	if len(sorted) < n {
		n = len(sorted)
	}
	out := make([]Performer, 0, n)
	for i := len(sorted) - 1; i >= len(sorted)-n; i-- {
		out = append(out, sorted[i])
	}
	return out
}
