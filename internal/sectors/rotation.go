package sectors

import (
	"fmt"
	"sort"
)

// RotationView buckets sectors by their aggregate state.
type RotationView struct {
	Gaining    []*SectorMetrics `json:"gaining"`
	Losing     []*SectorMetrics `json:"losing"`
	Oversold   []*SectorMetrics `json:"oversold"`
	Overbought []*SectorMetrics `json:"overbought"`
	Signals    []string         `json:"signals"`
}

// Rotate buckets the given sector metrics and derives recommendation
// strings, strongest sector first in every bucket.
func Rotate(metrics []*SectorMetrics) *RotationView {
	v := &RotationView{}

	for _, m := range metrics {
		if m.MomentumTrend == TrendGaining {
			v.Gaining = append(v.Gaining, m)
		}
		if m.MomentumTrend == TrendLosing {
			v.Losing = append(v.Losing, m)
		}
		if m.AvgRSI < rsiLowEdge {
			v.Oversold = append(v.Oversold, m)
		}
		if m.AvgRSI > rsiHighEdge {
			v.Overbought = append(v.Overbought, m)
		}
	}

	byScoreDesc := func(s []*SectorMetrics) {
		sort.Slice(s, func(i, j int) bool { return s[i].MomentumScore > s[j].MomentumScore })
	}
	byScoreDesc(v.Gaining)
	byScoreDesc(v.Overbought)
	sort.Slice(v.Losing, func(i, j int) bool { return v.Losing[i].MomentumScore < v.Losing[j].MomentumScore })
	sort.Slice(v.Oversold, func(i, j int) bool { return v.Oversold[i].AvgRSI < v.Oversold[j].AvgRSI })

	if len(v.Gaining) > 0 {
		top := v.Gaining[0]
		v.Signals = append(v.Signals, fmt.Sprintf(
			"money rotating into %s (momentum %d, 1M avg %+.1f%%)",
			top.Sector, top.MomentumScore, top.AvgReturn1M))
	}
	if len(v.Losing) > 0 {
		worst := v.Losing[0]
		v.Signals = append(v.Signals, fmt.Sprintf(
			"money rotating out of %s (momentum %d, 1M avg %+.1f%%)",
			worst.Sector, worst.MomentumScore, worst.AvgReturn1M))
	}
	if len(v.Oversold) > 0 {
		s := v.Oversold[0]
		v.Signals = append(v.Signals, fmt.Sprintf(
			"%s washed out (avg RSI %.1f), watch for a reversal", s.Sector, s.AvgRSI))
	}
	if len(v.Overbought) > 0 {
		s := v.Overbought[0]
		v.Signals = append(v.Signals, fmt.Sprintf(
			"%s stretched (avg RSI %.1f), chase with care", s.Sector, s.AvgRSI))
	}

	return v
}
