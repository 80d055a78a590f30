package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSummaryWarmup precomputes a day's sales summary into the cache.
	TaskSummaryWarmup = "reports:summary_warmup"
)

// SummaryWarmupPayload names the day to warm. Empty means yesterday in the
// report timezone.
type SummaryWarmupPayload struct {
	Date string `json:"date,omitempty"`
}

// NewSummaryWarmupTask constructs an Asynq task.
func NewSummaryWarmupTask(payload SummaryWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSummaryWarmup, data), nil
}
