package worker

import "time"

// Status はワーカーの状態を表します。
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// RoleWorker はクラスタリング対象となる既定のロールです。
const RoleWorker = "worker"

// Worker はワーカーエンティティです。
type Worker struct {
	ID        string
	WorkerID  string
	Name      string
	Email     string
	Role      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
