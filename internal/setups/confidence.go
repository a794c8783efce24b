package setups

import "strings"

// confidenceWeights maps signal keywords to their weight, per detector.
// Stronger evidence (divergence, a strong trend) counts for more than
// generic confirmations (volume, a nearby moving average).
var confidenceWeights = map[Type]map[string]int{
	OversoldBounce: {
		"oversold":   3,
		"support":    2,
		"macd":       2,
		"divergence": 3,
		"52-week":    1,
	},
	PullbackToEMA: {
		"uptrend":      3,
		"ema":          2,
		"strong trend": 2,
		"volume":       1,
	},
	Breakout: {
		"resistance":   3,
		"volume":       2,
		"outperform":   2,
		"strong trend": 2,
		"52-week":      1,
	},
	MomentumContinuation: {
		"strong trend": 3,
		"uptrend":      2,
		"fibonacci":    2,
		"outperform":   2,
		"rsi":          1,
	},
	MeanReversion: {
		"divergence": 3,
		"band":       2,
		"oversold":   2,
		"macd":       2,
	},
	BreakdownWarning: {
		"support":    3,
		"macd":       2,
		"volume":     2,
		"downtrend":  2,
		"divergence": 2,
	},
}

// confidence is a weighted sum over the signal list, clamped to [1,10].
// Each signal contributes the weight of every keyword it mentions.
func confidence(t Type, signals []string) int {
	weights := confidenceWeights[t]

	score := 0
	for _, sig := range signals {
		lower := strings.ToLower(sig)
		for kw, w := range weights {
			if strings.Contains(lower, kw) {
				score += w
			}
		}
	}

	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
