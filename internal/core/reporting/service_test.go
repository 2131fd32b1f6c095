package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ogurasousui/attendance-analytics/internal/core/attendance"
	"github.com/ogurasousui/attendance-analytics/internal/core/worker"
)

type fakeDirectory struct {
	workers []*worker.Worker
}

func (d *fakeDirectory) List(_ context.Context, _ worker.ListFilter) ([]*worker.Worker, error) {
	return d.workers, nil
}

func (d *fakeDirectory) FindByID(_ context.Context, id string) (*worker.Worker, error) {
	for _, w := range d.workers {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, worker.ErrWorkerNotFound
}

func (d *fakeDirectory) FindByWorkerID(_ context.Context, workerID string) (*worker.Worker, error) {
	for _, w := range d.workers {
		if w.WorkerID == workerID {
			return w, nil
		}
	}
	return nil, worker.ErrWorkerNotFound
}

func (d *fakeDirectory) ListByRole(_ context.Context, role string) ([]*worker.Worker, error) {
	matched := make([]*worker.Worker, 0)
	for _, w := range d.workers {
		if w.Role == role {
			matched = append(matched, w)
		}
	}
	return matched, nil
}

type fakeRecords struct {
	records []*attendance.Record
}

func (r *fakeRecords) ListByUser(_ context.Context, userID string, _, _ *time.Time) ([]*attendance.Record, error) {
	matched := make([]*attendance.Record, 0)
	for _, rec := range r.records {
		if rec.UserID == userID {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

func (r *fakeRecords) List(_ context.Context, _ attendance.ListFilter) ([]*attendance.Record, error) {
	return r.records, nil
}

func (r *fakeRecords) FindByID(_ context.Context, id string) (*attendance.Record, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, attendance.ErrRecordNotFound
}

func (r *fakeRecords) ListRange(_ context.Context, from, to *time.Time) ([]*attendance.Record, error) {
	matched := make([]*attendance.Record, 0)
	for _, rec := range r.records {
		if from != nil && rec.Day.Before(*from) {
			continue
		}
		if to != nil && rec.Day.After(*to) {
			continue
		}
		matched = append(matched, rec)
	}
	return matched, nil
}

type fakeMetrics struct {
	metrics map[string]attendance.Metrics
	errs    map[string]error
}

func (f *fakeMetrics) ComputeMetrics(_ context.Context, userID string, _, _ *time.Time) (attendance.Metrics, error) {
	if err, ok := f.errs[userID]; ok {
		return attendance.Metrics{}, err
	}
	return f.metrics[userID], nil
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse day %s: %v", value, err)
	}
	return d
}

func seedWorkers() *fakeDirectory {
	return &fakeDirectory{workers: []*worker.Worker{
		{ID: "u-1", WorkerID: "W001", Name: "Sato", Email: "sato@example.com", Role: worker.RoleWorker},
		{ID: "u-2", WorkerID: "W002", Name: "Suzuki", Email: "suzuki@example.com", Role: worker.RoleWorker},
		{ID: "u-3", WorkerID: "A001", Name: "Tanaka", Email: "tanaka@example.com", Role: "admin"},
	}}
}

func TestOverview(t *testing.T) {
	t.Parallel()

	records := &fakeRecords{records: []*attendance.Record{
		{ID: "r1", UserID: "u-1", Day: day(t, "2025-06-02"), WorkMinutes: 480},
		{ID: "r2", UserID: "u-1", Day: day(t, "2025-06-03"), WorkMinutes: 420},
		{ID: "r3", UserID: "u-2", Day: day(t, "2025-06-02"), WorkMinutes: 300},
	}}
	svc := NewService(seedWorkers(), records, &fakeMetrics{}, nil)

	got, err := svc.Overview(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}

	if got.TotalWorkers != 2 {
		t.Errorf("TotalWorkers = %d, want 2 (worker role only)", got.TotalWorkers)
	}
	if got.ActiveWorkers != 2 {
		t.Errorf("ActiveWorkers = %d, want 2", got.ActiveWorkers)
	}
	if got.TotalAttendanceRecords != 3 {
		t.Errorf("TotalAttendanceRecords = %d, want 3", got.TotalAttendanceRecords)
	}
	if got.TotalWorkHours != 20 {
		t.Errorf("TotalWorkHours = %v, want 20", got.TotalWorkHours)
	}
	if got.AverageDailyHours != 6.67 {
		t.Errorf("AverageDailyHours = %v, want 6.67", got.AverageDailyHours)
	}
}

func TestOverview_NoWorkers(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeDirectory{}, &fakeRecords{}, &fakeMetrics{}, nil)

	got, err := svc.Overview(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if got.TotalWorkers != 0 || got.TotalAttendanceRecords != 0 {
		t.Fatalf("expected empty overview, got %+v", got)
	}
}

func TestTeamPerformance_SortsByProductivity(t *testing.T) {
	t.Parallel()

	metrics := &fakeMetrics{metrics: map[string]attendance.Metrics{
		"u-1": {UserID: "u-1", ProductivityScore: 40},
		"u-2": {UserID: "u-2", ProductivityScore: 90},
	}}
	svc := NewService(seedWorkers(), &fakeRecords{}, metrics, nil)

	got, err := svc.TeamPerformance(context.Background(), "", nil, nil)
	if err != nil {
		t.Fatalf("TeamPerformance returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].UserID != "u-2" || got[1].UserID != "u-1" {
		t.Fatalf("unexpected order: %s, %s", got[0].UserID, got[1].UserID)
	}
}

func TestTeamPerformance_SkipsFailedMembers(t *testing.T) {
	t.Parallel()

	metrics := &fakeMetrics{
		metrics: map[string]attendance.Metrics{"u-1": {UserID: "u-1", ProductivityScore: 70}},
		errs:    map[string]error{"u-2": errors.New("metrics unavailable")},
	}
	svc := NewService(seedWorkers(), &fakeRecords{}, metrics, nil)

	got, err := svc.TeamPerformance(context.Background(), worker.RoleWorker, nil, nil)
	if err != nil {
		t.Fatalf("TeamPerformance returned error: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "u-1" {
		t.Fatalf("failed member should be skipped, got %+v", got)
	}
}

func TestProductivityRanking(t *testing.T) {
	t.Parallel()

	metrics := &fakeMetrics{metrics: map[string]attendance.Metrics{
		"u-1": {UserID: "u-1", ProductivityScore: 40},
		"u-2": {UserID: "u-2", ProductivityScore: 90},
	}}
	svc := NewService(seedWorkers(), &fakeRecords{}, metrics, nil)

	got, err := svc.ProductivityRanking(context.Background(), nil, nil, 1)
	if err != nil {
		t.Fatalf("ProductivityRanking returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want limit 1", len(got))
	}
	if got[0].UserID != "u-2" || got[0].Rank != 1 {
		t.Fatalf("unexpected top entry: %+v", got[0])
	}
}

func TestDailyTrends(t *testing.T) {
	t.Parallel()

	records := &fakeRecords{records: []*attendance.Record{
		{ID: "r1", UserID: "u-1", Day: day(t, "2025-06-02"), WorkMinutes: 480, OvertimeMinutes: 60},
		{ID: "r2", UserID: "u-2", Day: day(t, "2025-06-02"), WorkMinutes: 240},
		{ID: "r3", UserID: "u-1", Day: day(t, "2025-06-03"), WorkMinutes: 300},
	}}
	svc := NewService(seedWorkers(), records, &fakeMetrics{}, nil)

	got, err := svc.DailyTrends(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("DailyTrends returned error: %v", err)
	}

	if len(got.DailyTrends) != 2 {
		t.Fatalf("days = %d, want 2", len(got.DailyTrends))
	}

	first := got.DailyTrends[0]
	if first.Date != "2025-06-02" {
		t.Errorf("Date = %s, want chronological order", first.Date)
	}
	if first.TotalHours != 12 || first.TotalOvertime != 1 {
		t.Errorf("first day totals = %v/%v, want 12/1", first.TotalHours, first.TotalOvertime)
	}
	if first.UniqueWorkers != 2 || first.AverageHoursPerWorker != 6 {
		t.Errorf("first day workers = %d avg %v, want 2 avg 6", first.UniqueWorkers, first.AverageHoursPerWorker)
	}

	if got.Summary.TotalDays != 2 {
		t.Errorf("Summary.TotalDays = %d, want 2", got.Summary.TotalDays)
	}
	if got.Summary.AverageDailyWorkers != 1.5 {
		t.Errorf("Summary.AverageDailyWorkers = %v, want 1.5", got.Summary.AverageDailyWorkers)
	}
	if got.Summary.AverageDailyHours != 8.5 {
		t.Errorf("Summary.AverageDailyHours = %v, want 8.5", got.Summary.AverageDailyHours)
	}
}

func TestDailyTrends_Empty(t *testing.T) {
	t.Parallel()

	svc := NewService(seedWorkers(), &fakeRecords{}, &fakeMetrics{}, nil)

	got, err := svc.DailyTrends(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("DailyTrends returned error: %v", err)
	}
	if len(got.DailyTrends) != 0 || got.Summary.TotalDays != 0 {
		t.Fatalf("expected empty report, got %+v", got)
	}
}
