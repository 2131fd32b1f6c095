package worker

import "context"

// Repository はワーカーディレクトリ参照の抽象です。
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Worker, error)
	FindByID(ctx context.Context, id string) (*Worker, error)
	FindByWorkerID(ctx context.Context, workerID string) (*Worker, error)
	ListByRole(ctx context.Context, role string) ([]*Worker, error)
}

// ListFilter は一覧取得用フィルタです。
type ListFilter struct {
	Role   *string
	Status *Status
	Limit  int
}
