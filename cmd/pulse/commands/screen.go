package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jlim/tickerpulse/internal/engine"
	"github.com/jlim/tickerpulse/internal/setups"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen tickers for actionable setups",
	Long: `Runs the full analysis over a ticker list (or the configured
universe) and ranks the results by combined score.

Example:
  go run ./cmd/pulse screen --min-score 60
  go run ./cmd/pulse screen --tickers AAPL,MSFT,NVDA --setup breakout
  go run ./cmd/pulse screen --limit 5`,
	RunE: runScreen,
}

var (
	screenTickers  string
	screenMinScore int
	screenSetup    string
	screenLimit    int
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringVar(&screenTickers, "tickers", "", "comma-separated tickers (default: configured universe)")
	screenCmd.Flags().IntVar(&screenMinScore, "min-score", 0, "minimum technical score (0-100)")
	screenCmd.Flags().StringVar(&screenSetup, "setup", "", "only results with this setup type")
	screenCmd.Flags().IntVar(&screenLimit, "limit", 20, "max results to print")
}

func runScreen(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var filter setups.Type
	if screenSetup != "" {
		filter = setups.Type(screenSetup)
		if !filter.Valid() {
			return fmt.Errorf("unknown setup type %q", screenSetup)
		}
	}

	ctx := context.Background()
	var results []engine.ScreenerResult
	if screenTickers != "" {
		var tickers []string
		for _, t := range strings.Split(screenTickers, ",") {
			if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
				tickers = append(tickers, t)
			}
		}
		results = a.engine.Screen(ctx, tickers, screenMinScore, filter)
	} else {
		results = a.engine.ScreenUniverse(ctx, screenMinScore, filter)
	}

	printHeader(fmt.Sprintf("Screener: %d match(es)", len(results)))
	for i, r := range results {
		if i >= screenLimit {
			fmt.Printf("  ... %d more\n", len(results)-screenLimit)
			break
		}
		types := make([]string, 0, len(r.Setups))
		for _, su := range r.Setups {
			types = append(types, string(su.Type))
		}
		fmt.Printf("  %-6s score %3d  total %5.1f  %s\n",
			r.Ticker, r.Snapshot.Score, r.TotalScore, strings.Join(types, ", "))
	}
	return nil
}
