package worker

import (
	"context"
	"fmt"
	"strings"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// UseCase はワーカーディレクトリの公開インターフェースです。
type UseCase interface {
	List(ctx context.Context, in ListInput) ([]*Worker, error)
	Get(ctx context.Context, id string) (*Worker, error)
	GetByWorkerID(ctx context.Context, workerID string) (*Worker, error)
	ActiveWorkers(ctx context.Context) ([]*Worker, error)
}

// Service はワーカーディレクトリに関するユースケースをまとめます。
type Service struct {
	repo Repository
}

// NewService は Service を生成します。
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListInput は一覧取得時の入力です。
type ListInput struct {
	Role   *string
	Status *Status
	Limit  int
}

// List はワーカーの一覧を取得します。
func (s *Service) List(ctx context.Context, in ListInput) ([]*Worker, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		return nil, ErrInvalidLimit
	}

	if in.Status != nil && !isValidStatus(*in.Status) {
		return nil, ErrInvalidStatus
	}

	return s.repo.List(ctx, ListFilter{
		Role:   in.Role,
		Status: in.Status,
		Limit:  limit,
	})
}

// Get は ID でワーカーを取得します。
func (s *Service) Get(ctx context.Context, id string) (*Worker, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.FindByID(ctx, id)
}

// GetByWorkerID は社員番号でワーカーを取得します。
func (s *Service) GetByWorkerID(ctx context.Context, workerID string) (*Worker, error) {
	if strings.TrimSpace(workerID) == "" {
		return nil, fmt.Errorf("worker id: %w", ErrInvalidWorkerID)
	}
	return s.repo.FindByWorkerID(ctx, workerID)
}

// ActiveWorkers は稼働中のワーカーを取得します。
func (s *Service) ActiveWorkers(ctx context.Context) ([]*Worker, error) {
	role := RoleWorker
	status := StatusActive
	return s.repo.List(ctx, ListFilter{
		Role:   &role,
		Status: &status,
		Limit:  maxListLimit,
	})
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}
