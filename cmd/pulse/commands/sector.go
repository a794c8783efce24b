package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jlim/tickerpulse/internal/sectors"
)

// sectorCmd represents the sector command
var sectorCmd = &cobra.Command{
	Use:   "sector",
	Short: "Sector aggregation and rotation",
	Long: `Aggregates constituent analysis per sector and shows the
cross-sector rotation picture.

Subcommands:
  list      - configured sectors
  show      - one sector's metrics
  rotation  - rotation view across every sector

Example:
  go run ./cmd/pulse sector list
  go run ./cmd/pulse sector show technology
  go run ./cmd/pulse sector rotation`,
}

var sectorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sectors",
	RunE:  runSectorList,
}

var sectorShowCmd = &cobra.Command{
	Use:   "show [sector]",
	Short: "Show one sector's aggregate metrics",
	Args:  cobra.ExactArgs(1),
	RunE:  runSectorShow,
}

var sectorRotationCmd = &cobra.Command{
	Use:   "rotation",
	Short: "Cross-sector rotation view",
	RunE:  runSectorRotation,
}

func init() {
	rootCmd.AddCommand(sectorCmd)
	sectorCmd.AddCommand(sectorListCmd)
	sectorCmd.AddCommand(sectorShowCmd)
	sectorCmd.AddCommand(sectorRotationCmd)
}

func runSectorList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	printHeader("Configured sectors")
	for _, name := range a.engine.Membership().Sectors() {
		tickers, _ := a.engine.Membership().Tickers(name)
		fmt.Printf("  %-24s %d tickers\n", name, len(tickers))
	}
	return nil
}

func runSectorShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := a.engine.AnalyzeSector(context.Background(), strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	printSectorMetrics(m)
	return nil
}

func runSectorRotation(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	view := a.engine.Rotation(context.Background())

	printHeader("Sector rotation")
	fmt.Printf("  Gaining    : %s\n", joinSectors(view.Gaining))
	fmt.Printf("  Losing     : %s\n", joinSectors(view.Losing))
	fmt.Printf("  Oversold   : %s\n", joinSectors(view.Oversold))
	fmt.Printf("  Overbought : %s\n", joinSectors(view.Overbought))
	printSeparator()
	for _, s := range view.Signals {
		fmt.Printf("  %s\n", s)
	}
	return nil
}

func printSectorMetrics(m *sectors.SectorMetrics) {
	printHeader(fmt.Sprintf("Sector: %s", m.Sector))
	fmt.Printf("  Constituents : %d (%d analyzed)\n", m.Constituents, m.Analyzed)
	fmt.Printf("  Momentum     : %d (%s)\n", m.MomentumScore, m.MomentumTrend)
	fmt.Printf("  Avg RSI      : %.1f\n", m.AvgRSI)
	fmt.Printf("  Breadth      : %d bullish / %d neutral / %d bearish\n",
		m.Bullish, m.Neutral, m.Bearish)
	fmt.Printf("  Returns      : 1W %+.2f%%  1M %+.2f%%  3M %+.2f%%  6M %+.2f%%\n",
		m.AvgReturn1W, m.AvgReturn1M, m.AvgReturn3M, m.AvgReturn6M)

	printSeparator()
	for _, p := range m.Top {
		fmt.Printf("  top    %-6s %+.2f%%\n", p.Ticker, p.Return1M)
	}
	for _, p := range m.Bottom {
		fmt.Printf("  bottom %-6s %+.2f%%\n", p.Ticker, p.Return1M)
	}
}

func joinSectors(metrics []*sectors.SectorMetrics) string {
	if len(metrics) == 0 {
		return "-"
	}
	names := make([]string, 0, len(metrics))
	for _, m := range metrics {
		names = append(names, m.Sector)
	}
	return strings.Join(names, ", ")
}
