package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/util"
)

const (
	statsKeyOpenCounts   = "stats:open_counts"
	statsKeyClosedCounts = "stats:closed_counts"
	statsKeyAverages     = "stats:average_days"
)

// EmployeeTicketCount is one row of a per-employee count report.
type EmployeeTicketCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// EmployeeAverage is one row of the time-to-close report.
type EmployeeAverage struct {
	Name        string  `json:"name"`
	AverageDays float64 `json:"average_days"`
}

// StatsServiceDeps bundles the collaborators of StatsService.
type StatsServiceDeps struct {
	Store  repository.Store
	Redis  *redis.Client
	Logger *zap.Logger
	Config config.StatsConfig
}

// StatsService computes the manager reports. Reports walk each employee's
// assignment list in process; finished reports are cached in Redis for a
// short TTL since managers tend to refresh them in bursts.
type StatsService struct {
	store  repository.Store
	redis  *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewStatsService wires the service.
func NewStatsService(deps StatsServiceDeps) *StatsService {
	return &StatsService{
		store:  deps.Store,
		redis:  deps.Redis,
		logger: deps.Logger,
		ttl:    deps.Config.CacheTTL(),
	}
}

// OpenCountsByEmployee reports, per employee with at least one assignment,
// how many assigned tickets are not DONE. An employee whose every assignment
// is closed still appears, with a zero.
func (s *StatsService) OpenCountsByEmployee(ctx context.Context) ([]EmployeeTicketCount, error) {
	if cached, ok := readCached[[]EmployeeTicketCount](ctx, s.redis, statsKeyOpenCounts); ok {
		return cached, nil
	}
	report, err := s.countByEmployee(ctx, func(t *domain.Ticket) bool { return !t.IsDone() })
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, statsKeyOpenCounts, report)
	return report, nil
}

// ClosedCountsByEmployee reports, per employee with at least one assignment,
// how many assigned tickets are DONE.
func (s *StatsService) ClosedCountsByEmployee(ctx context.Context) ([]EmployeeTicketCount, error) {
	if cached, ok := readCached[[]EmployeeTicketCount](ctx, s.redis, statsKeyClosedCounts); ok {
		return cached, nil
	}
	report, err := s.countByEmployee(ctx, func(t *domain.Ticket) bool { return t.IsDone() })
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, statsKeyClosedCounts, report)
	return report, nil
}

// AverageDaysToClose reports, per employee with at least one closed
// assignment, the mean of each closed ticket's whole-day age at closing.
// Employees with no closed tickets do not appear.
func (s *StatsService) AverageDaysToClose(ctx context.Context) ([]EmployeeAverage, error) {
	if cached, ok := readCached[[]EmployeeAverage](ctx, s.redis, statsKeyAverages); ok {
		return cached, nil
	}

	employees, err := s.store.Users().ListByRole(ctx, domain.RoleEmployee)
	if err != nil {
		return nil, util.MapError(err)
	}

	var report []EmployeeAverage
	for i := range employees {
		tickets, err := s.store.Tickets().ListByAssigneeID(ctx, employees[i].ID)
		if err != nil {
			return nil, util.MapError(err)
		}
		var total, closed int
		for j := range tickets {
			t := &tickets[j]
			if !t.IsDone() || t.ClosedAt == nil {
				continue
			}
			total += int(t.ClosedAt.Sub(t.PostedAt) / (24 * time.Hour))
			closed++
		}
		if closed == 0 {
			continue
		}
		report = append(report, EmployeeAverage{
			Name:        employees[i].Name,
			AverageDays: float64(total) / float64(closed),
		})
	}
	sort.SliceStable(report, func(a, b int) bool {
		if report[a].AverageDays != report[b].AverageDays {
			return report[a].AverageDays > report[b].AverageDays
		}
		return report[a].Name < report[b].Name
	})

	s.writeCache(ctx, statsKeyAverages, report)
	return report, nil
}

func (s *StatsService) countByEmployee(ctx context.Context, match func(*domain.Ticket) bool) ([]EmployeeTicketCount, error) {
	employees, err := s.store.Users().ListByRole(ctx, domain.RoleEmployee)
	if err != nil {
		return nil, util.MapError(err)
	}

	var report []EmployeeTicketCount
	for i := range employees {
		tickets, err := s.store.Tickets().ListByAssigneeID(ctx, employees[i].ID)
		if err != nil {
			return nil, util.MapError(err)
		}
		if len(tickets) == 0 {
			continue
		}
		count := 0
		for j := range tickets {
			if match(&tickets[j]) {
				count++
			}
		}
		report = append(report, EmployeeTicketCount{Name: employees[i].Name, Count: count})
	}
	sort.SliceStable(report, func(a, b int) bool {
		if report[a].Count != report[b].Count {
			return report[a].Count > report[b].Count
		}
		return report[a].Name < report[b].Name
	})
	return report, nil
}

func (s *StatsService) writeCache(ctx context.Context, key string, value any) {
	if s.redis == nil || s.ttl <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func readCached[T any](ctx context.Context, client *redis.Client, key string) (T, bool) {
	var zero T
	if client == nil {
		return zero, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return zero, false
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, false
	}
	return value, true
}
