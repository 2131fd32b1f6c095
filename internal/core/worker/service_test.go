package worker

import (
	"context"
	"errors"
	"testing"
)

type fakeWorkerRepo struct {
	workers    []*Worker
	lastFilter ListFilter
}

func (r *fakeWorkerRepo) List(_ context.Context, filter ListFilter) ([]*Worker, error) {
	r.lastFilter = filter
	matched := make([]*Worker, 0, len(r.workers))
	for _, w := range r.workers {
		if filter.Role != nil && w.Role != *filter.Role {
			continue
		}
		if filter.Status != nil && w.Status != *filter.Status {
			continue
		}
		matched = append(matched, w)
	}
	return matched, nil
}

func (r *fakeWorkerRepo) FindByID(_ context.Context, id string) (*Worker, error) {
	for _, w := range r.workers {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, ErrWorkerNotFound
}

func (r *fakeWorkerRepo) FindByWorkerID(_ context.Context, workerID string) (*Worker, error) {
	for _, w := range r.workers {
		if w.WorkerID == workerID {
			return w, nil
		}
	}
	return nil, ErrWorkerNotFound
}

func (r *fakeWorkerRepo) ListByRole(_ context.Context, role string) ([]*Worker, error) {
	matched := make([]*Worker, 0, len(r.workers))
	for _, w := range r.workers {
		if w.Role == role {
			matched = append(matched, w)
		}
	}
	return matched, nil
}

func seedRepo() *fakeWorkerRepo {
	return &fakeWorkerRepo{workers: []*Worker{
		{ID: "u-1", WorkerID: "W001", Name: "Sato", Role: RoleWorker, Status: StatusActive},
		{ID: "u-2", WorkerID: "W002", Name: "Suzuki", Role: RoleWorker, Status: StatusInactive},
		{ID: "u-3", WorkerID: "A001", Name: "Tanaka", Role: "admin", Status: StatusActive},
	}}
}

func TestList_DefaultLimit(t *testing.T) {
	t.Parallel()

	repo := seedRepo()
	svc := NewService(repo)

	got, err := svc.List(context.Background(), ListInput{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if repo.lastFilter.Limit != defaultListLimit {
		t.Fatalf("limit = %d, want default %d", repo.lastFilter.Limit, defaultListLimit)
	}
}

func TestList_InvalidLimit(t *testing.T) {
	t.Parallel()

	svc := NewService(seedRepo())

	_, err := svc.List(context.Background(), ListInput{Limit: maxListLimit + 1})
	if !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("err = %v, want ErrInvalidLimit", err)
	}
}

func TestList_InvalidStatus(t *testing.T) {
	t.Parallel()

	svc := NewService(seedRepo())
	status := Status("vacationing")

	_, err := svc.List(context.Background(), ListInput{Status: &status})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	svc := NewService(seedRepo())

	got, err := svc.Get(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Name != "Sato" {
		t.Fatalf("Name = %s, want Sato", got.Name)
	}

	if _, err := svc.Get(context.Background(), ""); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("err = %v, want ErrInvalidID", err)
	}
	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, ErrWorkerNotFound) {
		t.Fatalf("err = %v, want ErrWorkerNotFound", err)
	}
}

func TestGetByWorkerID(t *testing.T) {
	t.Parallel()

	svc := NewService(seedRepo())

	got, err := svc.GetByWorkerID(context.Background(), "W002")
	if err != nil {
		t.Fatalf("GetByWorkerID returned error: %v", err)
	}
	if got.ID != "u-2" {
		t.Fatalf("ID = %s, want u-2", got.ID)
	}

	if _, err := svc.GetByWorkerID(context.Background(), "  "); !errors.Is(err, ErrInvalidWorkerID) {
		t.Fatalf("err = %v, want ErrInvalidWorkerID", err)
	}
}

func TestActiveWorkers(t *testing.T) {
	t.Parallel()

	svc := NewService(seedRepo())

	got, err := svc.ActiveWorkers(context.Background())
	if err != nil {
		t.Fatalf("ActiveWorkers returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "u-1" {
		t.Fatalf("ActiveWorkers = %+v, want only active worker-role member", got)
	}
}
