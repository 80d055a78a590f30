package reports

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/sabai-pos/sabai-pos/internal/platform/httpx"
	"github.com/sabai-pos/sabai-pos/internal/sales"
	"github.com/sabai-pos/sabai-pos/internal/shared"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Service resolves report queries: date defaulting in the report timezone,
// branch scoping for cashiers, and the summary cache.
type Service struct {
	repo   Repository
	cache  *SummaryCache
	loc    *time.Location
	logger *slog.Logger
}

// NewService constructs a reports service. cache may be nil to disable
// summary caching.
func NewService(repo Repository, cache *SummaryCache, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, cache: cache, loc: loc, logger: logger}
}

// Bills lists bills in the requested window. Cashiers only ever see their
// own branch regardless of the branchCode parameter.
func (s *Service) Bills(ctx context.Context, identity *shared.Identity, f BillFilters) ([]sales.Sale, error) {
	start, end, err := s.window(f.StartDate, f.EndDate)
	if err != nil {
		return nil, err
	}
	branch, err := s.scopeBranch(identity, f.BranchCode)
	if err != nil {
		return nil, err
	}
	bills, err := s.repo.ListBills(ctx, BillQuery{
		Start:      start,
		End:        end,
		BranchCode: branch,
		BillStatus: f.BillStatus,
		BillType:   f.BillType,
		BillNumber: f.BillNumber,
		MemberName: f.MemberName,
		RecordBy:   f.RecordBy,
	})
	if err != nil {
		return nil, err
	}
	if bills == nil {
		bills = []sales.Sale{}
	}
	return bills, nil
}

// Summary aggregates completed bills, read-through cached.
func (s *Service) Summary(ctx context.Context, identity *shared.Identity, f SummaryFilters) (SummaryResult, error) {
	start, end, err := s.window(f.StartDate, f.EndDate)
	if err != nil {
		return SummaryResult{}, err
	}
	branch, err := s.scopeBranch(identity, "")
	if err != nil {
		return SummaryResult{}, err
	}

	key := s.cacheKey(start, end, branch, f.RecordBy)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached, nil
		}
	}

	result, err := s.computeSummary(ctx, SummaryQuery{Start: start, End: end, BranchCode: branch, RecordBy: f.RecordBy})
	if err != nil {
		return SummaryResult{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result); err != nil {
			s.logger.Warn("summary cache write failed", "error", err)
		}
	}
	return result, nil
}

// WarmSummary precomputes the unscoped summary for one calendar day and
// stores it under the key Summary would use. Run nightly for yesterday so
// the first morning request hits the cache.
func (s *Service) WarmSummary(ctx context.Context, day time.Time) error {
	if s.cache == nil {
		return nil
	}
	start, end := s.dayBounds(day.In(s.loc))
	result, err := s.computeSummary(ctx, SummaryQuery{Start: start, End: end})
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(start, end, "", ""), result)
}

func (s *Service) computeSummary(ctx context.Context, q SummaryQuery) (SummaryResult, error) {
	rows, err := s.repo.Summarize(ctx, q, s.loc.String())
	if err != nil {
		return SummaryResult{}, err
	}
	if rows == nil {
		rows = []SummaryRow{}
	}
	var total float64
	for _, row := range rows {
		total += row.TotalPrice
	}
	return SummaryResult{Bills: rows, TotalPrice: total}, nil
}

// window resolves the date range. Either date missing means "today"; both
// bounds are inclusive in the report timezone.
func (s *Service) window(startDate, endDate string) (time.Time, time.Time, error) {
	if startDate == "" || endDate == "" {
		start, end := s.dayBounds(time.Now().In(s.loc))
		return start, end, nil
	}
	if !datePattern.MatchString(startDate) || !datePattern.MatchString(endDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", httpx.ErrValidation)
	}
	start, err := time.ParseInLocation("2006-01-02", startDate, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start date", httpx.ErrValidation)
	}
	endDay, err := time.ParseInLocation("2006-01-02", endDate, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end date", httpx.ErrValidation)
	}
	return start, endOfDay(endDay), nil
}

func (s *Service) dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
	return start, endOfDay(start)
}

func endOfDay(start time.Time) time.Time {
	return start.AddDate(0, 0, 1).Add(-time.Millisecond)
}

func (s *Service) scopeBranch(identity *shared.Identity, requested string) (string, error) {
	if identity.Role == shared.RoleCashier {
		if identity.BranchCode == "" {
			return "", fmt.Errorf("%w: cashier has no branch assigned", httpx.ErrValidation)
		}
		return identity.BranchCode, nil
	}
	return requested, nil
}

func (s *Service) cacheKey(start, end time.Time, branch, recordBy string) string {
	return fmt.Sprintf("reports:summary:%s:%s:%s:%s",
		start.Format("2006-01-02"), end.Format("2006-01-02"), branch, recordBy)
}
