package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sabai-pos/sabai-pos/internal/reports"
)

// SummaryWarmupJob precomputes the previous day's sales summary so the first
// report request of the morning is served from the cache.
type SummaryWarmupJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
	Loc     *time.Location
	clock   func() time.Time
}

// NewSummaryWarmupJob wires dependencies for the warmup handler.
func NewSummaryWarmupJob(reportsSvc *reports.Service, logger *slog.Logger, loc *time.Location) *SummaryWarmupJob {
	if loc == nil {
		loc = time.UTC
	}
	return &SummaryWarmupJob{
		Reports: reportsSvc,
		Logger:  logger,
		Loc:     loc,
		clock:   time.Now,
	}
}

// Handle processes summary warmup tasks.
func (j *SummaryWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("summary warmup: handler not configured")
	}
	var payload SummaryWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	day := j.clock().In(j.Loc).AddDate(0, 0, -1)
	if payload.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", payload.Date, j.Loc)
		if err != nil {
			j.Logger.Warn("summary warmup: bad date in payload", "date", payload.Date)
			return asynq.SkipRetry
		}
		day = parsed
	}

	started := j.clock()
	if err := j.Reports.WarmSummary(ctx, day); err != nil {
		j.Logger.Error("summary warmup failed", "error", err, "day", day.Format("2006-01-02"))
		return err
	}
	j.Logger.Info("summary warmup done",
		"day", day.Format("2006-01-02"),
		"took", j.clock().Sub(started).String())
	return nil
}
