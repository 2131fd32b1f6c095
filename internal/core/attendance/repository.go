package attendance

import (
	"context"
	"time"
)

// Repository は勤怠レコード読み出しの抽象です。
type Repository interface {
	// ListByUser は指定ワーカーのレコードを日付昇順で返します。
	ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]*Record, error)
	List(ctx context.Context, filter ListFilter) ([]*Record, error)
	FindByID(ctx context.Context, id string) (*Record, error)
	// ListRange は期間内の全ワーカーのレコードを日付昇順で返します。
	ListRange(ctx context.Context, from, to *time.Time) ([]*Record, error)
}

// ListFilter は一覧取得用フィルタです。
type ListFilter struct {
	UserID *string
	From   *time.Time
	To     *time.Time
	Limit  int
}
