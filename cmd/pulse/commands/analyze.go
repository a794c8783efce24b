package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jlim/tickerpulse/internal/engine"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Full technical analysis for one ticker",
	Long: `Computes the indicator snapshot, support/resistance levels,
Fibonacci retracements and actionable setups for one ticker.

Example:
  go run ./cmd/pulse analyze AAPL
  go run ./cmd/pulse analyze NVDA`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ticker := strings.ToUpper(args[0])
	ta, err := a.engine.AnalyzeFull(context.Background(), ticker)
	if err != nil {
		return err
	}

	printAnalysis(ta)
	return nil
}

func printAnalysis(ta *engine.TickerAnalysis) {
	s := ta.Snapshot

	printHeader(fmt.Sprintf("%s  (%s)", ta.Ticker, orDash(ta.Sector)))
	fmt.Printf("  Price     : %.2f\n", s.Price)
	fmt.Printf("  Score     : %d (%s)\n", s.Score, s.Bias)
	fmt.Printf("  MA trend  : %s\n", s.MATrend)
	if s.RSI != nil {
		fmt.Printf("  RSI(14)   : %.1f\n", *s.RSI)
	}
	if s.MACD != nil {
		fmt.Printf("  MACD      : %s (hist %.3f)\n", s.MACD.Trend, s.MACD.Histogram)
	}
	if s.ADX != nil {
		fmt.Printf("  ADX(14)   : %.1f (%s)\n", s.ADX.ADX, s.ADX.Strength)
	}
	if s.Volume != nil {
		fmt.Printf("  Volume    : %.2fx average\n", s.Volume.Ratio)
	}
	fmt.Printf("  Rel. str. : %+.2f%% vs benchmark\n", ta.RelativeStrength)

	printSeparator()
	fmt.Println("  Levels")
	for _, lv := range ta.Levels.Supports {
		fmt.Printf("    support    %.2f (%d touches)\n", lv.Price, lv.Touches)
	}
	for _, lv := range ta.Levels.Resistances {
		fmt.Printf("    resistance %.2f (%d touches)\n", lv.Price, lv.Touches)
	}

	if len(ta.Setups) == 0 {
		printSeparator()
		fmt.Println("  No active setups")
		return
	}

	for _, su := range ta.Setups {
		printSeparator()
		fmt.Printf("  Setup: %s (confidence %d/10)\n", su.Type, su.Confidence)
		fmt.Printf("    entry  %.2f - %.2f\n", su.EntryLow, su.EntryHigh)
		fmt.Printf("    stop   %.2f\n", su.StopLoss)
		fmt.Printf("    target %.2f / %.2f (R:R %.2f)\n", su.Target1, su.Target2, su.RiskReward)
		for _, sig := range su.Signals {
			fmt.Printf("    - %s\n", sig)
		}
	}
}
