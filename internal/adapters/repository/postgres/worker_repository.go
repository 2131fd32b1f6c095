package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/attendance-analytics/internal/core/worker"
	pgdb "github.com/ogurasousui/attendance-analytics/internal/platform/db/postgres"
)

// WorkerRepository は PostgreSQL を利用したワーカーディレクトリの実装です。
type WorkerRepository struct {
	pool pgdb.Queryer
}

// NewWorkerRepository は WorkerRepository を生成します。
func NewWorkerRepository(pool pgdb.Queryer) *WorkerRepository {
	return &WorkerRepository{pool: pool}
}

const workerColumns = `
        SELECT w.id,
               w.worker_id,
               w.name,
               w.email,
               w.role,
               w.status,
               w.created_at,
               w.updated_at
          FROM workers w`

// List はフィルタ条件に合致するワーカーを返します。
func (r *WorkerRepository) List(ctx context.Context, filter worker.ListFilter) ([]*worker.Worker, error) {
	args := make([]any, 0, 3)
	conditions := make([]string, 0, 2)

	if filter.Role != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "w.role = "+placeholder)
		args = append(args, *filter.Role)
	}
	if filter.Status != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "w.status = "+placeholder)
		args = append(args, string(*filter.Status))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limitClause := ""
	if filter.Limit > 0 {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		args = append(args, filter.Limit)
		limitClause = `
         LIMIT ` + placeholder
	}

	query := workerColumns + whereClause + `
         ORDER BY w.created_at ASC, w.id ASC` + limitClause + `
    `

	return r.queryWorkers(ctx, query, args...)
}

// FindByID は ID でワーカーを取得します。
func (r *WorkerRepository) FindByID(ctx context.Context, id string) (*worker.Worker, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, workerColumns+`
         WHERE w.id = $1
         LIMIT 1
    `, id)

	return scanWorker(row)
}

// FindByWorkerID は業務上のワーカー番号で取得します。
func (r *WorkerRepository) FindByWorkerID(ctx context.Context, workerID string) (*worker.Worker, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, workerColumns+`
         WHERE w.worker_id = $1
         LIMIT 1
    `, workerID)

	return scanWorker(row)
}

// ListByRole はロールに属する全ワーカーを返します。
func (r *WorkerRepository) ListByRole(ctx context.Context, role string) ([]*worker.Worker, error) {
	query := workerColumns + `
         WHERE w.role = $1
         ORDER BY w.created_at ASC, w.id ASC
    `
	return r.queryWorkers(ctx, query, role)
}

func (r *WorkerRepository) queryWorkers(ctx context.Context, query string, args ...any) ([]*worker.Worker, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]*worker.Worker, 0)
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return workers, nil
}

func scanWorker(row pgx.Row) (*worker.Worker, error) {
	var (
		id        string
		workerID  string
		name      string
		email     string
		role      string
		status    string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(
		&id,
		&workerID,
		&name,
		&email,
		&role,
		&status,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, worker.ErrWorkerNotFound
		}
		return nil, err
	}

	return &worker.Worker{
		ID:        id,
		WorkerID:  workerID,
		Name:      name,
		Email:     email,
		Role:      role,
		Status:    worker.Status(status),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
