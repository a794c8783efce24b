package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Price cache operations",
	Long: `Inspects and manages the price cache.

Subcommands:
  stats       - occupancy and freshness counters
  invalidate  - drop one ticker's cached series
  clear       - drop every cached series
  purge       - remove expired entries only

Example:
  go run ./cmd/pulse cache stats
  go run ./cmd/pulse cache invalidate AAPL
  go run ./cmd/pulse cache purge`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Cache occupancy and freshness counters",
	RunE:  runCacheStats,
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate [ticker]",
	Short: "Drop one ticker's cached series",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheInvalidate,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached series",
	RunE:  runCacheClear,
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired entries only",
	RunE:  runCachePurge,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.cache.Stats(context.Background())
	if err != nil {
		return err
	}

	printHeader("Price cache")
	fmt.Printf("  Hits      : %d\n", stats.Hits)
	fmt.Printf("  Misses    : %d\n", stats.Misses)
	fmt.Printf("  Refreshes : %d\n", stats.Refreshes)
	fmt.Printf("  Entries   : %d (%d live)\n", stats.Store.Entries, stats.Store.LiveEntries)
	return nil
}

func runCacheInvalidate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ticker := strings.ToUpper(args[0])
	if err := a.cache.Invalidate(context.Background(), ticker); err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Invalidated %s", ticker))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.cache.ClearAll(context.Background()); err != nil {
		return err
	}
	printSuccess("Cache cleared")
	return nil
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	purged, err := a.cache.PurgeExpired(context.Background())
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Purged %d expired entries", purged))
	return nil
}
