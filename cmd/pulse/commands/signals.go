package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jlim/tickerpulse/internal/signalstore"
)

// signalsCmd represents the signals command
var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Signal ledger and accuracy tracking",
	Long: `Records external signals, fills their realized outcomes and
reports hit rates.

Subcommands:
  record    - persist one signal (technical fields auto-filled)
  backfill  - apply known outcome prices to one signal
  sweep     - fill pending outcomes from cached prices
  accuracy  - hit-rate report over a trailing window
  prune     - delete signals older than the retention window

Example:
  go run ./cmd/pulse signals record --ticker AAPL --sentiment bullish --mentions 12
  go run ./cmd/pulse signals backfill --ticker AAPL --date 2026-08-03 --price 1=101.2 --price 3=103.5
  go run ./cmd/pulse signals sweep
  go run ./cmd/pulse signals accuracy --days 30
  go run ./cmd/pulse signals prune --days 180`,
}

var (
	signalTicker     string
	signalSentiment  string
	signalMentions   int
	signalConfluence int
	signalDate       string

	backfillTicker string
	backfillDate   string
	backfillPrices []string

	accuracyDays int
	pruneDays    int
)

var signalsRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Persist one signal",
	RunE:  runSignalsRecord,
}

var signalsBackfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Apply known outcome prices to one signal",
	RunE:  runSignalsBackfill,
}

var signalsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete signals older than the retention window",
	RunE:  runSignalsPrune,
}

var signalsSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Fill pending outcomes from cached prices",
	RunE:  runSignalsSweep,
}

var signalsAccuracyCmd = &cobra.Command{
	Use:   "accuracy",
	Short: "Hit-rate report over a trailing window",
	RunE:  runSignalsAccuracy,
}

func init() {
	rootCmd.AddCommand(signalsCmd)
	signalsCmd.AddCommand(signalsRecordCmd)
	signalsCmd.AddCommand(signalsBackfillCmd)
	signalsCmd.AddCommand(signalsSweepCmd)
	signalsCmd.AddCommand(signalsAccuracyCmd)
	signalsCmd.AddCommand(signalsPruneCmd)

	signalsRecordCmd.Flags().StringVar(&signalTicker, "ticker", "", "ticker symbol (required)")
	signalsRecordCmd.Flags().StringVar(&signalSentiment, "sentiment", "", "bullish|bearish|neutral|mixed (required)")
	signalsRecordCmd.Flags().IntVar(&signalMentions, "mentions", 0, "mention count from the source")
	signalsRecordCmd.Flags().IntVar(&signalConfluence, "confluence", 0, "confluence score")
	signalsRecordCmd.Flags().StringVar(&signalDate, "date", "", "signal date YYYY-MM-DD (default today)")

	signalsBackfillCmd.Flags().StringVar(&backfillTicker, "ticker", "", "ticker symbol (required)")
	signalsBackfillCmd.Flags().StringVar(&backfillDate, "date", "", "signal date YYYY-MM-DD (required)")
	signalsBackfillCmd.Flags().StringArrayVar(&backfillPrices, "price", nil, "offset=price pair, repeatable (offsets 1,3,5,10)")

	signalsAccuracyCmd.Flags().IntVar(&accuracyDays, "days", 30, "trailing window in days")

	signalsPruneCmd.Flags().IntVar(&pruneDays, "days", 180, "retention window in days")
}

func runSignalsBackfill(cmd *cobra.Command, args []string) error {
	if backfillTicker == "" || backfillDate == "" || len(backfillPrices) == 0 {
		return fmt.Errorf("--ticker, --date and at least one --price are required")
	}

	date, err := time.Parse("2006-01-02", backfillDate)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}

	prices := make(map[int]float64, len(backfillPrices))
	for _, pair := range backfillPrices {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid --price %q (expected offset=price)", pair)
		}
		offset, err := strconv.Atoi(parts[0])
		if err != nil {
			return fmt.Errorf("invalid --price offset %q", parts[0])
		}
		price, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return fmt.Errorf("invalid --price value %q", parts[1])
		}
		prices[offset] = price
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ticker := strings.ToUpper(backfillTicker)
	if err := a.engine.BackfillOutcomes(context.Background(), ticker, date, prices); err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Backfilled %d outcome(s) for %s %s", len(prices), ticker, backfillDate))
	return nil
}

func runSignalsPrune(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cutoff := time.Now().AddDate(0, 0, -pruneDays)
	pruned, err := a.store.Prune(context.Background(), cutoff)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Pruned %d signal(s) older than %s", pruned, cutoff.Format("2006-01-02")))
	return nil
}

func runSignalsRecord(cmd *cobra.Command, args []string) error {
	if signalTicker == "" || signalSentiment == "" {
		return fmt.Errorf("--ticker and --sentiment are required")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	date := time.Now().UTC()
	if signalDate != "" {
		date, err = time.Parse("2006-01-02", signalDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	sig := &signalstore.Signal{
		SignalDate: date,
		Ticker:     strings.ToUpper(signalTicker),
		Sentiment:  signalstore.Sentiment(strings.ToLower(signalSentiment)),
		Mentions:   signalMentions,
		Confluence: signalConfluence,
	}
	if err := a.engine.RecordSignal(context.Background(), sig); err != nil {
		return err
	}

	printSuccess(fmt.Sprintf("Recorded %s %s (score %d, %s) at %.2f",
		sig.Ticker, sig.Sentiment, sig.TechScore, sig.TechBias, sig.PriceAtSignal))
	return nil
}

func runSignalsSweep(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	updated, err := a.engine.SweepOutcomes(context.Background())
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Outcome sweep updated %d signal(s)", updated))
	return nil
}

func runSignalsAccuracy(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.engine.AccuracyStats(context.Background(), accuracyDays)
	if err != nil {
		return err
	}

	printHeader(fmt.Sprintf("Accuracy: last %d days (%d signals)", report.WindowDays, report.Total))
	for sentiment, g := range report.BySentiment {
		fmt.Printf("  %-8s n=%-3d hit 1d %5.1f%%  3d %5.1f%%  5d %5.1f%%  avg 3d %+.2f%%\n",
			sentiment, g.Count, g.HitRate1D, g.HitRate3D, g.HitRate5D, g.AvgReturn3D)
	}
	printSeparator()
	for bucket, g := range report.ByConfluence {
		fmt.Printf("  confluence %-8s n=%-3d hit 3d %5.1f%%\n", bucket, g.Count, g.HitRate3D)
	}
	printSeparator()
	for _, row := range report.Leaderboard {
		fmt.Printf("  %-6s n=%-3d avg 3d %+.2f%%\n", row.Ticker, row.Signals, row.AvgReturn3D)
	}
	return nil
}
