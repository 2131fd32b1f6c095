package reporting

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/ogurasousui/attendance-analytics/internal/core/attendance"
	"github.com/ogurasousui/attendance-analytics/internal/core/worker"
)

const (
	defaultRankingLimit = 10
	dateLayout          = "2006-01-02"
)

// MetricsSource はワーカー単位の指標算出の抽象です。
type MetricsSource interface {
	ComputeMetrics(ctx context.Context, userID string, from, to *time.Time) (attendance.Metrics, error)
}

// UseCase はレポーティングユースケースの公開インターフェースです。
type UseCase interface {
	Overview(ctx context.Context, from, to *time.Time) (*Overview, error)
	TeamPerformance(ctx context.Context, role string, from, to *time.Time) ([]*MemberPerformance, error)
	ProductivityRanking(ctx context.Context, from, to *time.Time, limit int) ([]*MemberPerformance, error)
	DailyTrends(ctx context.Context, from, to *time.Time) (*TrendReport, error)
}

// Service は勤怠全体のレポーティングをまとめます。
type Service struct {
	directory worker.Repository
	records   attendance.Repository
	metrics   MetricsSource
	logger    *slog.Logger
}

// NewService は Service を生成します。
func NewService(directory worker.Repository, records attendance.Repository, metrics MetricsSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{directory: directory, records: records, metrics: metrics, logger: logger}
}

// Overview は全体概況です。
type Overview struct {
	TotalWorkers           int     `json:"total_workers"`
	ActiveWorkers          int     `json:"active_workers"`
	TotalAttendanceRecords int     `json:"total_attendance_records"`
	AverageDailyHours      float64 `json:"average_daily_hours"`
	TotalWorkHours         float64 `json:"total_work_hours"`
}

// Overview は期間内の勤怠概況を集計します。
func (s *Service) Overview(ctx context.Context, from, to *time.Time) (*Overview, error) {
	workers, err := s.directory.ListByRole(ctx, worker.RoleWorker)
	if err != nil {
		return nil, err
	}

	overview := &Overview{TotalWorkers: len(workers)}
	if len(workers) == 0 {
		return overview, nil
	}

	records, err := s.records.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var totalWorkMinutes float64
	activeUsers := make(map[string]struct{})
	for _, rec := range records {
		totalWorkMinutes += rec.WorkMinutes
		activeUsers[rec.UserID] = struct{}{}
	}

	overview.ActiveWorkers = len(activeUsers)
	overview.TotalAttendanceRecords = len(records)
	overview.TotalWorkHours = round2(totalWorkMinutes / 60)
	if len(records) > 0 {
		overview.AverageDailyHours = round2(totalWorkMinutes / 60 / float64(len(records)))
	}
	return overview, nil
}

// MemberPerformance はチームメンバー 1 人分の指標です。
type MemberPerformance struct {
	UserID   string             `json:"user_id"`
	WorkerID string             `json:"worker_id"`
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	Metrics  attendance.Metrics `json:"performance_metrics"`
	Rank     int                `json:"rank,omitempty"`
}

// TeamPerformance はロール単位の全メンバー指標を生産性の降順で返します。
// 個別メンバーの算出失敗は読み飛ばします。
func (s *Service) TeamPerformance(ctx context.Context, role string, from, to *time.Time) ([]*MemberPerformance, error) {
	if role == "" {
		role = worker.RoleWorker
	}

	workers, err := s.directory.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	team := make([]*MemberPerformance, 0, len(workers))
	for _, w := range workers {
		metrics, err := s.metrics.ComputeMetrics(ctx, w.ID, from, to)
		if err != nil {
			s.logger.Error("metrics computation failed, skipping member", "user_id", w.ID, "error", err)
			continue
		}
		team = append(team, &MemberPerformance{
			UserID:   w.ID,
			WorkerID: w.WorkerID,
			Name:     w.Name,
			Email:    w.Email,
			Metrics:  metrics,
		})
	}

	sort.SliceStable(team, func(a, b int) bool {
		return team[a].Metrics.ProductivityScore > team[b].Metrics.ProductivityScore
	})
	return team, nil
}

// ProductivityRanking は生産性上位のメンバーを順位付きで返します。
func (s *Service) ProductivityRanking(ctx context.Context, from, to *time.Time, limit int) ([]*MemberPerformance, error) {
	if limit <= 0 {
		limit = defaultRankingLimit
	}

	team, err := s.TeamPerformance(ctx, worker.RoleWorker, from, to)
	if err != nil {
		return nil, err
	}

	if len(team) > limit {
		team = team[:limit]
	}
	for i, member := range team {
		member.Rank = i + 1
	}
	return team, nil
}

// DailyTrend は 1 日分の全体集計です。
type DailyTrend struct {
	Date                  string  `json:"date"`
	TotalHours            float64 `json:"total_hours"`
	TotalOvertime         float64 `json:"total_overtime"`
	UniqueWorkers         int     `json:"unique_workers"`
	AverageHoursPerWorker float64 `json:"average_hours_per_worker"`
}

// TrendSummary はトレンド全体の要約です。
type TrendSummary struct {
	TotalDays           int     `json:"total_days"`
	AverageDailyWorkers float64 `json:"average_daily_workers"`
	AverageDailyHours   float64 `json:"average_daily_hours"`
}

// TrendReport は日次トレンドのレポートです。
type TrendReport struct {
	DailyTrends []DailyTrend `json:"daily_trends"`
	Summary     TrendSummary `json:"summary"`
}

// DailyTrends は期間内のレコードを日付単位に集計します。
func (s *Service) DailyTrends(ctx context.Context, from, to *time.Time) (*TrendReport, error) {
	records, err := s.records.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	type dayAccumulator struct {
		hours    float64
		overtime float64
		workers  map[string]struct{}
	}

	days := make(map[string]*dayAccumulator)
	for _, rec := range records {
		key := rec.Day.Format(dateLayout)
		acc, ok := days[key]
		if !ok {
			acc = &dayAccumulator{workers: make(map[string]struct{})}
			days[key] = acc
		}
		acc.hours += rec.WorkMinutes / 60
		acc.overtime += rec.OvertimeMinutes / 60
		acc.workers[rec.UserID] = struct{}{}
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	trends := make([]DailyTrend, 0, len(dates))
	var totalWorkers, totalHours float64
	for _, date := range dates {
		acc := days[date]
		avgPerWorker := 0.0
		if len(acc.workers) > 0 {
			avgPerWorker = acc.hours / float64(len(acc.workers))
		}
		trends = append(trends, DailyTrend{
			Date:                  date,
			TotalHours:            round2(acc.hours),
			TotalOvertime:         round2(acc.overtime),
			UniqueWorkers:         len(acc.workers),
			AverageHoursPerWorker: round2(avgPerWorker),
		})
		totalWorkers += float64(len(acc.workers))
		totalHours += acc.hours
	}

	report := &TrendReport{DailyTrends: trends}
	report.Summary.TotalDays = len(trends)
	if len(trends) > 0 {
		report.Summary.AverageDailyWorkers = round2(totalWorkers / float64(len(trends)))
		report.Summary.AverageDailyHours = round2(totalHours / float64(len(trends)))
	}
	return report, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
