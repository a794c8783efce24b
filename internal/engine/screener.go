package engine

import (
	"context"
	"sort"

	"github.com/jlim/tickerpulse/internal/setups"
	"github.com/jlim/tickerpulse/internal/strategyconfig"
)

// ScreenerResult is one surviving instrument with everything the
// screen ranked it on. TotalScore is a ranking aggregate: the technical
// score plus two points per fired setup plus the best setup confidence.
type ScreenerResult struct {
	TickerAnalysis
	TotalScore float64 `json:"total_score"`
}

// Screen analyzes tickers in parallel and keeps those at or above
// minScore, optionally requiring a specific setup type. Failed tickers
// are logged and absent from the result, never fatal. Results are
// sorted by TotalScore descending for deterministic output.
func (e *Engine) Screen(ctx context.Context, tickers []string, minScore int, filter setups.Type) []ScreenerResult {
	results := runPool(ctx, tickers, e.workers, e.taskTimeout,
		func(taskCtx context.Context, ticker string) (*TickerAnalysis, error) {
			return e.AnalyzeFull(taskCtx, ticker)
		})

	out := make([]ScreenerResult, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			e.logger.WithError(r.Err).WithField("ticker", r.Key).Warn("screen: ticker skipped")
			continue
		}
		ta := r.Value
		if !applyScreeningGates(ta, e.strategy.Screening) {
			continue
		}
		if ta.Snapshot.Score < minScore {
			continue
		}
		if filter != "" && !hasSetup(ta.Setups, filter) {
			continue
		}
		out = append(out, ScreenerResult{
			TickerAnalysis: *ta,
			TotalScore:     totalScore(ta),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out
}

// ScreenUniverse screens every ticker in the configured sector map.
func (e *Engine) ScreenUniverse(ctx context.Context, minScore int, filter setups.Type) []ScreenerResult {
	return e.Screen(ctx, e.members.Universe(), minScore, filter)
}

// applyScreeningGates enforces the strategy's screening section:
// setups under the confidence floor are dropped from the analysis, and
// when a setup is required a ticker without one is cut entirely.
func applyScreeningGates(ta *TickerAnalysis, g strategyconfig.Screening) bool {
	if g.MinConfidence > 1 {
		kept := ta.Setups[:0]
		for _, s := range ta.Setups {
			if s.Confidence >= g.MinConfidence {
				kept = append(kept, s)
			}
		}
		ta.Setups = kept
	}
	if g.RequireSetup && len(ta.Setups) == 0 {
		return false
	}
	return true
}

func totalScore(ta *TickerAnalysis) float64 {
	score := float64(ta.Snapshot.Score) + 2*float64(len(ta.Setups))
	best := 0
	for _, s := range ta.Setups {
		if s.Confidence > best {
			best = s.Confidence
		}
	}
	return score + float64(best)
}

func hasSetup(list []setups.Setup, t setups.Type) bool {
	for _, s := range list {
		if s.Type == t {
			return true
		}
	}
	return false
}
