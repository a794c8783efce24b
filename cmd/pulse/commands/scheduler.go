package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run and inspect the job scheduler",
	Long: `Starts the scheduler daemon or runs a single job.

Registered jobs:
- daily_scan: weekdays 17:30 (screen the universe after the close)
- outcome_backfill: weekdays 18:00 (fill pending signal outcomes)
- maintenance: daily 03:00 (purge expired cache, prune old signals)

Subcommands:
  start  - run the scheduler daemon
  list   - registered jobs
  run    - run one job immediately and exit

Example:
  go run ./cmd/pulse scheduler start
  go run ./cmd/pulse scheduler run daily_scan`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the scheduler daemon",
	RunE:  runSchedulerStart,
}

var schedulerListCmd = &cobra.Command{
	Use:   "list",
	Short: "Registered jobs",
	RunE:  runSchedulerList,
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run [job_name]",
	Short: "Run one job immediately and exit",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedulerRun,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	fmt.Println("=== tickerpulse Scheduler ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	printSuccess("Scheduler started")
	fmt.Println("\nRegistered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	a.log.Info("Stopping scheduler...")
	return nil
}

func runSchedulerList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return err
	}

	printHeader("Registered jobs")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	return nil
}

func runSchedulerRun(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return err
	}

	name := args[0]
	if err := sched.Trigger(name); err != nil {
		return err
	}

	// Trigger runs asynchronously; wait for the record to land.
	for {
		records, err := sched.History(name, 1)
		if err != nil {
			return err
		}
		if len(records) > 0 {
			r := records[0]
			if !r.Success {
				return fmt.Errorf("job %s failed: %s", name, r.Error)
			}
			printSuccess(fmt.Sprintf("Job %s finished in %s", name, r.Duration))
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
}
