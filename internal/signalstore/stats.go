package signalstore

import (
	"context"
	"sort"
	"time"
)

// leaderboardMinSignals is the floor below which a ticker's sample is
// too thin to rank.
const leaderboardMinSignals = 3

// GroupStats is the hit-rate and mean-return aggregate for one group
// of signals. Hit rates cover only signals with a verdict at that
// offset; mean returns cover only signals with that return filled.
type GroupStats struct {
	Count int `json:"count"`

	HitRate1D float64 `json:"hit_rate_1d"`
	HitRate3D float64 `json:"hit_rate_3d"`
	HitRate5D float64 `json:"hit_rate_5d"`

	AvgReturn1D float64 `json:"avg_return_1d"`
	AvgReturn3D float64 `json:"avg_return_3d"`
	AvgReturn5D float64 `json:"avg_return_5d"`
}

// LeaderboardRow ranks one ticker by its mean 3-day return.
type LeaderboardRow struct {
	Ticker      string  `json:"ticker"`
	Signals     int     `json:"signals"`
	AvgReturn3D float64 `json:"avg_return_3d"`
	HitRate3D   float64 `json:"hit_rate_3d"`
}

// Report is the accuracy view over a trailing window.
type Report struct {
	WindowDays int       `json:"window_days"`
	Since      time.Time `json:"since"`
	Total      int       `json:"total_signals"`

	BySentiment  map[Sentiment]*GroupStats `json:"by_sentiment"`
	ByConfluence map[string]*GroupStats    `json:"by_confluence"`
	Leaderboard  []LeaderboardRow          `json:"leaderboard"`
}

// AccuracyStats aggregates the trailing days of signals.
func (t *Tracker) AccuracyStats(ctx context.Context, days int) (*Report, error) {
	if days <= 0 {
		days = 30
	}
	since := day(time.Now().AddDate(0, 0, -days))

	signals, err := t.store.Window(ctx, since)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		WindowDays:   days,
		Since:        since,
		Total:        len(signals),
		BySentiment:  make(map[Sentiment]*GroupStats),
		ByConfluence: make(map[string]*GroupStats),
	}

	sentAcc := make(map[Sentiment]*groupAcc)
	confAcc := make(map[string]*groupAcc)
	tickerAcc := make(map[string]*groupAcc)

	for _, s := range signals {
		accum(sentAcc, s.Sentiment, s)
		accum(confAcc, ConfluenceBucket(s.Confluence), s)
		accum(tickerAcc, s.Ticker, s)
	}

	for k, a := range sentAcc {
		rep.BySentiment[k] = a.stats()
	}
	for k, a := range confAcc {
		rep.ByConfluence[k] = a.stats()
	}
	rep.Leaderboard = leaderboard(tickerAcc)

	return rep, nil
}

type groupAcc struct {
	count int

	hits1, verdicts1 int
	hits3, verdicts3 int
	hits5, verdicts5 int

	retSum1 float64
	retN1   int
	retSum3 float64
	retN3   int
	retSum5 float64
	retN5   int
}

func accum[K comparable](m map[K]*groupAcc, key K, s *Signal) {
	a := m[key]
	if a == nil {
		a = &groupAcc{}
		m[key] = a
	}
	a.add(s)
}

func (a *groupAcc) add(s *Signal) {
	a.count++

	if s.Accurate1D != nil {
		a.verdicts1++
		if *s.Accurate1D {
			a.hits1++
		}
	}
	if s.Accurate3D != nil {
		a.verdicts3++
		if *s.Accurate3D {
			a.hits3++
		}
	}
	if s.Accurate5D != nil {
		a.verdicts5++
		if *s.Accurate5D {
			a.hits5++
		}
	}

	if s.Return1D != nil {
		a.retSum1 += *s.Return1D
		a.retN1++
	}
	if s.Return3D != nil {
		a.retSum3 += *s.Return3D
		a.retN3++
	}
	if s.Return5D != nil {
		a.retSum5 += *s.Return5D
		a.retN5++
	}
}

func (a *groupAcc) stats() *GroupStats {
	return &GroupStats{
		Count:       a.count,
		HitRate1D:   rate(a.hits1, a.verdicts1),
		HitRate3D:   rate(a.hits3, a.verdicts3),
		HitRate5D:   rate(a.hits5, a.verdicts5),
		AvgReturn1D: mean(a.retSum1, a.retN1),
		AvgReturn3D: mean(a.retSum3, a.retN3),
		AvgReturn5D: mean(a.retSum5, a.retN5),
	}
}

func leaderboard(tickers map[string]*groupAcc) []LeaderboardRow {
	var rows []LeaderboardRow
	for ticker, a := range tickers {
		if a.count < leaderboardMinSignals || a.retN3 == 0 {
			continue
		}
		rows = append(rows, LeaderboardRow{
			Ticker:      ticker,
			Signals:     a.count,
			AvgReturn3D: mean(a.retSum3, a.retN3),
			HitRate3D:   rate(a.hits3, a.verdicts3),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AvgReturn3D != rows[j].AvgReturn3D {
			return rows[i].AvgReturn3D > rows[j].AvgReturn3D
		}
		return rows[i].Ticker < rows[j].Ticker
	})
	return rows
}

func rate(hits, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
