package scheduler

import (
	"context"
	"time"
)

// Job is one schedulable unit of work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
	// Schedule is a cron expression with seconds, e.g. "0 30 17 * * MON-FRI".
	Schedule() string
}

// RunRecord is one finished execution.
type RunRecord struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// history keeps the trailing runs of one job.
type history struct {
	records []RunRecord
}

const historyCap = 100

func (h *history) add(r RunRecord) {
	h.records = append(h.records, r)
	if len(h.records) > historyCap {
		h.records = h.records[len(h.records)-historyCap:]
	}
}

func (h *history) latest(n int) []RunRecord {
	if n > len(h.records) {
		n = len(h.records)
	}
	return append([]RunRecord(nil), h.records[len(h.records)-n:]...)
}

func (h *history) successRate() float64 {
	if len(h.records) == 0 {
		return 0
	}
	ok := 0
	for _, r := range h.records {
		if r.Success {
			ok++
		}
	}
	return float64(ok) / float64(len(h.records))
}
