package jobs

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabai-pos/sabai-pos/internal/reports"
	"github.com/sabai-pos/sabai-pos/internal/sales"
)

type stubReportsRepo struct {
	calls int
	last  reports.SummaryQuery
}

func (s *stubReportsRepo) ListBills(_ context.Context, _ reports.BillQuery) ([]sales.Sale, error) {
	return nil, nil
}

func (s *stubReportsRepo) Summarize(_ context.Context, q reports.SummaryQuery, _ string) ([]reports.SummaryRow, error) {
	s.calls++
	s.last = q
	return []reports.SummaryRow{{BillType: "CMC", BranchCode: "PNH", RecordBy: "somchai", BillAmount: 1, TotalPrice: 42}}, nil
}

func TestSummaryWarmupHandle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	loc, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	repo := &stubReportsRepo{}
	svc := reports.NewService(repo, reports.NewSummaryCache(client, time.Hour), loc, slog.Default())
	job := NewSummaryWarmupJob(svc, slog.Default(), loc)
	job.clock = func() time.Time { return time.Date(2026, 9, 1, 1, 15, 0, 0, loc) }

	task, err := NewSummaryWarmupTask(SummaryWarmupPayload{})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	// Warmed the previous day's window.
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, "2026-08-31", repo.last.Start.In(loc).Format("2006-01-02"))
	assert.Equal(t, "2026-08-31", repo.last.End.In(loc).Format("2006-01-02"))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "reports:summary:2026-08-31:2026-08-31")
}

func TestSummaryWarmupExplicitDate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	loc := time.UTC
	repo := &stubReportsRepo{}
	svc := reports.NewService(repo, reports.NewSummaryCache(client, time.Hour), loc, slog.Default())
	job := NewSummaryWarmupJob(svc, slog.Default(), loc)

	task, err := NewSummaryWarmupTask(SummaryWarmupPayload{Date: "2026-08-15"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, "2026-08-15", repo.last.Start.Format("2006-01-02"))
}

func TestSummaryWarmupBadPayload(t *testing.T) {
	job := NewSummaryWarmupJob(reports.NewService(&stubReportsRepo{}, nil, time.UTC, slog.Default()), slog.Default(), time.UTC)

	task := asynq.NewTask(TaskSummaryWarmup, []byte("{not json"))
	err := job.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
