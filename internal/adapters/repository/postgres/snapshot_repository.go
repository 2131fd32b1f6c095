package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/attendance-analytics/internal/core/analytics"
	pgdb "github.com/ogurasousui/attendance-analytics/internal/platform/db/postgres"
)

// SnapshotRepository は学習済みモデル状態を PostgreSQL に永続化します。
// 各学習結果を 1 行として追記し、読み出し時は最新の 1 件を返します。
type SnapshotRepository struct {
	pool pgdb.Queryer
}

// NewSnapshotRepository は SnapshotRepository を生成します。
func NewSnapshotRepository(pool pgdb.Queryer) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// Save はスナップショットを新しい行として保存します。
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *analytics.ModelSnapshot) error {
	if snapshot == nil {
		return errors.New("postgres: nil snapshot")
	}

	transform, err := json.Marshal(snapshot.Transform)
	if err != nil {
		return fmt.Errorf("marshal transform: %w", err)
	}
	centroids, err := json.Marshal(snapshot.Centroids)
	if err != nil {
		return fmt.Errorf("marshal centroids: %w", err)
	}
	labelMap, err := json.Marshal(snapshot.LabelMap)
	if err != nil {
		return fmt.Errorf("marshal label map: %w", err)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err = exec.Exec(ctx, `
        INSERT INTO model_snapshots (id, transform, centroids, label_map, last_trained, training_data_size, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `,
		uuid.NewString(),
		transform,
		centroids,
		labelMap,
		snapshot.LastTrained,
		snapshot.TrainingDataSize,
		time.Now().UTC(),
	)
	return err
}

// Load は最新のスナップショットを返します。未保存時は (nil, nil) を返します。
func (r *SnapshotRepository) Load(ctx context.Context) (*analytics.ModelSnapshot, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT transform, centroids, label_map, last_trained, training_data_size
          FROM model_snapshots
         ORDER BY created_at DESC, id DESC
         LIMIT 1
    `)

	var (
		transformRaw []byte
		centroidsRaw []byte
		labelMapRaw  []byte
		lastTrained  time.Time
		dataSize     int
	)

	if err := row.Scan(&transformRaw, &centroidsRaw, &labelMapRaw, &lastTrained, &dataSize); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	snapshot := &analytics.ModelSnapshot{
		LastTrained:      lastTrained.UTC(),
		TrainingDataSize: dataSize,
	}
	if err := json.Unmarshal(transformRaw, &snapshot.Transform); err != nil {
		return nil, fmt.Errorf("unmarshal transform: %w", err)
	}
	if err := json.Unmarshal(centroidsRaw, &snapshot.Centroids); err != nil {
		return nil, fmt.Errorf("unmarshal centroids: %w", err)
	}
	if err := json.Unmarshal(labelMapRaw, &snapshot.LabelMap); err != nil {
		return nil, fmt.Errorf("unmarshal label map: %w", err)
	}
	return snapshot, nil
}
