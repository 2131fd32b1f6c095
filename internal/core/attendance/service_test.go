package attendance

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeAttendanceRepo struct {
	records    []*Record
	lastFilter ListFilter
	listErr    error
}

func (r *fakeAttendanceRepo) ListByUser(_ context.Context, userID string, from, to *time.Time) ([]*Record, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	matched := make([]*Record, 0, len(r.records))
	for _, rec := range r.records {
		if rec.UserID != userID {
			continue
		}
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

func (r *fakeAttendanceRepo) List(_ context.Context, filter ListFilter) ([]*Record, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.lastFilter = filter
	return r.records, nil
}

func (r *fakeAttendanceRepo) FindByID(_ context.Context, id string) (*Record, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (r *fakeAttendanceRepo) ListRange(_ context.Context, _, _ *time.Time) ([]*Record, error) {
	return r.records, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	return NewService(repo, newTestExtractor(t))
}

func TestListRecords_DefaultLimit(t *testing.T) {
	t.Parallel()

	repo := &fakeAttendanceRepo{}
	svc := newTestService(t, repo)

	if _, err := svc.ListRecords(context.Background(), ListRecordsInput{}); err != nil {
		t.Fatalf("ListRecords returned error: %v", err)
	}
	if repo.lastFilter.Limit != defaultListLimit {
		t.Fatalf("limit = %d, want default %d", repo.lastFilter.Limit, defaultListLimit)
	}
}

func TestListRecords_LimitTooLarge(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &fakeAttendanceRepo{})

	_, err := svc.ListRecords(context.Background(), ListRecordsInput{Limit: maxListLimit + 1})
	if !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("err = %v, want ErrInvalidLimit", err)
	}
}

func TestListRecords_InvalidDateRange(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &fakeAttendanceRepo{})
	from := day(t, "2025-06-10")
	to := day(t, "2025-06-01")

	_, err := svc.ListRecords(context.Background(), ListRecordsInput{From: &from, To: &to})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("err = %v, want ErrInvalidDateRange", err)
	}
}

func TestGetRecord_EmptyID(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &fakeAttendanceRepo{})

	_, err := svc.GetRecord(context.Background(), "  ")
	if !errors.Is(err, ErrInvalidID) {
		t.Fatalf("err = %v, want ErrInvalidID", err)
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	repo := &fakeAttendanceRepo{records: []*Record{
		{ID: "r1", UserID: "user-1", Day: day(t, "2025-06-02"), WorkMinutes: 480, OvertimeMinutes: 30},
		{ID: "r2", UserID: "user-1", Day: day(t, "2025-06-03"), WorkMinutes: 420, OvertimeMinutes: 0},
		{ID: "r3", UserID: "user-2", Day: day(t, "2025-06-03"), WorkMinutes: 600},
	}}
	svc := newTestService(t, repo)

	got, err := svc.Summary(context.Background(), "user-1", nil, nil)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}

	if got.TotalRecords != 2 {
		t.Errorf("TotalRecords = %d, want 2", got.TotalRecords)
	}
	if got.TotalWorkHours != 15 {
		t.Errorf("TotalWorkHours = %v, want 15", got.TotalWorkHours)
	}
	if got.TotalOvertimeHours != 0.5 {
		t.Errorf("TotalOvertimeHours = %v, want 0.5", got.TotalOvertimeHours)
	}
	if got.AverageDailyHours != 7.5 {
		t.Errorf("AverageDailyHours = %v, want 7.5", got.AverageDailyHours)
	}
}

func TestSummary_NoRecords(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &fakeAttendanceRepo{})

	got, err := svc.Summary(context.Background(), "user-1", nil, nil)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if got.TotalRecords != 0 || got.TotalWorkHours != 0 {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}

func TestComputeMetrics_EmptyUserID(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &fakeAttendanceRepo{})

	_, err := svc.ComputeMetrics(context.Background(), "", nil, nil)
	if !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("err = %v, want ErrInvalidUserID", err)
	}
}

func TestComputeMetrics_NoRecordsFallsBackToNeutral(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &fakeAttendanceRepo{})

	got, err := svc.ComputeMetrics(context.Background(), "user-9", nil, nil)
	if err != nil {
		t.Fatalf("ComputeMetrics returned error: %v", err)
	}
	if got.PunctualityScore != 50 || got.ConsistencyScore != 50 || got.ProductivityScore != 50 {
		t.Fatalf("expected neutral scores, got %+v", got)
	}
	if got.TotalWorkHours != 0 {
		t.Fatalf("TotalWorkHours = %v, want 0", got.TotalWorkHours)
	}
}
