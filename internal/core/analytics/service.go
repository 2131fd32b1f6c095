package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ogurasousui/attendance-analytics/internal/core/attendance"
	"github.com/ogurasousui/attendance-analytics/internal/core/worker"
)

// allTimePeriod は期間境界が指定されなかった場合の表示値です。
const allTimePeriod = "All Time"

const dateLayout = "2006-01-02"

// MetricsSource はワーカー単位の指標算出の抽象です。
type MetricsSource interface {
	ComputeMetrics(ctx context.Context, userID string, from, to *time.Time) (attendance.Metrics, error)
	NeutralMetrics(userID string) attendance.Metrics
}

// SnapshotStore はモデル状態の永続化の抽象です。Load は未保存時に
// (nil, nil) を返します。
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *ModelSnapshot) error
	Load(ctx context.Context) (*ModelSnapshot, error)
}

// Observer はクラスタリング実行の計測フックです。
type Observer interface {
	ObserveClusteringRun(duration time.Duration, cohortSize int, accuracy float64)
	ObserveClusteringError()
}

type noopObserver struct{}

func (noopObserver) ObserveClusteringRun(time.Duration, int, float64) {}
func (noopObserver) ObserveClusteringError()                          {}

// Config は分析ユースケースの設定です。
type Config struct {
	DefaultClusters int
	MetricWorkers   int
	// RequireActivity を有効にすると、実働データを持つメンバーが
	// 2 人未満のコホートを拒否します。
	RequireActivity bool
}

func (c *Config) normalize() {
	if c.DefaultClusters <= 0 {
		c.DefaultClusters = 3
	}
	if c.MetricWorkers <= 0 {
		c.MetricWorkers = 4
	}
}

// UseCase は分析ユースケースの公開インターフェースです。
type UseCase interface {
	ComputeMetrics(ctx context.Context, userID string, from, to *time.Time) (attendance.Metrics, error)
	ClusterCohort(ctx context.Context, in ClusteringInput) (*ClusteringResponse, error)
	PredictCluster(ctx context.Context, userID string) (*ClusteringResult, error)
	BatchPredict(ctx context.Context, userIDs []string) ([]BatchPredictionResult, error)
	GenerateInsights(ctx context.Context, userID string) (*Insights, error)
	ModelInfo() *ModelInfo
}

// Service はパフォーマンス分析のユースケースをまとめます。
type Service struct {
	directory worker.Repository
	metrics   MetricsSource
	engine    *ClusterEngine
	store     SnapshotStore
	observer  Observer
	logger    *slog.Logger
	cfg       Config
}

// NewService は Service を生成します。observer と logger は省略できます。
func NewService(directory worker.Repository, metrics MetricsSource, engine *ClusterEngine, store SnapshotStore, observer Observer, logger *slog.Logger, cfg Config) *Service {
	if engine == nil {
		engine = NewClusterEngine(nil)
	}
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg.normalize()

	return &Service{
		directory: directory,
		metrics:   metrics,
		engine:    engine,
		store:     store,
		observer:  observer,
		logger:    logger,
		cfg:       cfg,
	}
}

// ClusteringInput はクラスタリング分析の入力です。UserIDs が nil の場合は
// 全ワーカーを対象にします。
type ClusteringInput struct {
	UserIDs   []string
	From      *time.Time
	To        *time.Time
	NClusters int
}

// ClusteringResult はコホートメンバー 1 人分の分析結果です。
type ClusteringResult struct {
	UserID           string             `json:"user_id"`
	WorkerID         string             `json:"worker_id"`
	Name             string             `json:"name"`
	Cluster          int                `json:"cluster"`
	ClusterLabel     string             `json:"cluster_label"`
	PerformanceScore float64            `json:"performance_score"`
	Features         map[string]float64 `json:"features"`
}

// AnalysisPeriod は分析対象期間の表示用表現です。
type AnalysisPeriod struct {
	From string `json:"date_from"`
	To   string `json:"date_to"`
}

// ClusteringResponse はコホート全体の分析結果です。
type ClusteringResponse struct {
	Results        []ClusteringResult   `json:"results"`
	ClusterCenters map[string][]float64 `json:"cluster_centers"`
	FeatureNames   []string             `json:"feature_names"`
	AnalysisPeriod AnalysisPeriod       `json:"analysis_period"`
	TotalUsers     int                  `json:"total_users"`
	ModelAccuracy  float64              `json:"model_accuracy"`
}

// BatchPredictionResult は一括予測の 1 件分の結果です。失敗したメンバーは
// Error にメッセージを載せ、バッチ自体は継続します。
type BatchPredictionResult struct {
	UserID string            `json:"user_id"`
	Result *ClusteringResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// ModelInfo は現在のモデルに関するメタ情報です。
type ModelInfo struct {
	Algorithm        string    `json:"algorithm"`
	ClusterLabels    []string  `json:"cluster_labels"`
	FeatureNames     []string  `json:"feature_names"`
	ModelTrained     bool      `json:"model_trained"`
	NClusters        int       `json:"n_clusters"`
	LastTrained      time.Time `json:"last_trained,omitzero"`
	TrainingDataSize int       `json:"training_data_size"`
}

// ComputeMetrics は 1 ワーカーの指標を算出します。
func (s *Service) ComputeMetrics(ctx context.Context, userID string, from, to *time.Time) (attendance.Metrics, error) {
	if strings.TrimSpace(userID) == "" {
		return attendance.Metrics{}, fmt.Errorf("user id: %w", ErrInvalidUserID)
	}
	return s.metrics.ComputeMetrics(ctx, userID, from, to)
}

type cohortMember struct {
	worker  *worker.Worker
	metrics attendance.Metrics
	failed  bool
}

// ClusterCohort はコホートの指標算出からクラスタ割り当てまでを実行します。
func (s *Service) ClusterCohort(ctx context.Context, in ClusteringInput) (*ClusteringResponse, error) {
	start := time.Now()

	workers, err := s.resolveCohort(ctx, in.UserIDs)
	if err != nil {
		s.observer.ObserveClusteringError()
		return nil, err
	}
	if len(workers) == 0 {
		s.observer.ObserveClusteringError()
		return nil, ErrEmptyCohort
	}

	members, err := s.collectMetrics(ctx, workers, in.From, in.To)
	if err != nil {
		s.observer.ObserveClusteringError()
		return nil, err
	}

	if s.cfg.RequireActivity {
		active := 0
		for _, m := range members {
			if m.metrics.TotalWorkHours > 0 {
				active++
			}
		}
		if active < 2 {
			s.observer.ObserveClusteringError()
			return nil, ErrInsufficientData
		}
	}

	vectors := make([]FeatureVector, len(members))
	scores := make([]float64, len(members))
	for i, m := range members {
		vectors[i] = VectorFromMetrics(m.metrics)
		scores[i] = OverallScore(vectors[i].Map())
	}
	matrix := BuildMatrix(vectors)

	period := AnalysisPeriod{From: formatBound(in.From), To: formatBound(in.To)}

	// 全セルが同一値の行列はモデルを学習せず、全員を最下位クラスタに
	// 割り当てて精度 0 で返します。
	if matrix.IsDegenerate() {
		s.logger.Warn("feature matrix is degenerate, skipping model fit", "cohort_size", len(members))
		results := make([]ClusteringResult, len(members))
		for i, m := range members {
			results[i] = ClusteringResult{
				UserID:           m.worker.ID,
				WorkerID:         m.worker.WorkerID,
				Name:             m.worker.Name,
				Cluster:          0,
				ClusterLabel:     LabelForOrdinal(0),
				PerformanceScore: 0,
				Features:         vectors[i].Map(),
			}
		}
		s.observer.ObserveClusteringRun(time.Since(start), len(members), 0)
		return &ClusteringResponse{
			Results:        results,
			ClusterCenters: map[string][]float64{},
			FeatureNames:   FeatureNames(),
			AnalysisPeriod: period,
			TotalUsers:     len(workers),
			ModelAccuracy:  0,
		}, nil
	}

	requestedK := in.NClusters
	if requestedK <= 0 {
		requestedK = s.cfg.DefaultClusters
	}

	fit := s.engine.Fit(matrix, requestedK, scores)

	if s.store != nil {
		if err := s.store.Save(ctx, s.engine.Snapshot()); err != nil {
			// 永続化の失敗は計算済みの結果には影響させません。
			s.logger.Error("failed to persist model snapshot", "error", err)
		}
	}

	results := make([]ClusteringResult, len(members))
	for i, m := range members {
		results[i] = ClusteringResult{
			UserID:           m.worker.ID,
			WorkerID:         m.worker.WorkerID,
			Name:             m.worker.Name,
			Cluster:          fit.Assignments[i],
			ClusterLabel:     LabelForOrdinal(fit.Assignments[i]),
			PerformanceScore: scores[i],
			Features:         vectors[i].Map(),
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Cluster != results[b].Cluster {
			return results[a].Cluster < results[b].Cluster
		}
		return results[a].PerformanceScore > results[b].PerformanceScore
	})

	centers := make(map[string][]float64, len(fit.Centroids))
	for ordinal, centroid := range fit.Centroids {
		centers[fmt.Sprintf("cluster_%d", ordinal)] = centroid
	}

	accuracy := round3(fit.Cohesion)
	s.observer.ObserveClusteringRun(time.Since(start), len(members), accuracy)

	return &ClusteringResponse{
		Results:        results,
		ClusterCenters: centers,
		FeatureNames:   FeatureNames(),
		AnalysisPeriod: period,
		TotalUsers:     len(workers),
		ModelAccuracy:  accuracy,
	}, nil
}

// resolveCohort は対象ワーカーを解決します。ID 指定時は見つからない ID を
// 読み飛ばし、未指定時は worker ロール全員を対象にします。
func (s *Service) resolveCohort(ctx context.Context, userIDs []string) ([]*worker.Worker, error) {
	if userIDs == nil {
		return s.directory.ListByRole(ctx, worker.RoleWorker)
	}

	workers := make([]*worker.Worker, 0, len(userIDs))
	for _, id := range userIDs {
		w, err := s.directory.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, worker.ErrWorkerNotFound) {
				s.logger.Warn("cohort member not found, skipping", "user_id", id)
				continue
			}
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, nil
}

// collectMetrics はメンバーの指標を固定サイズのワーカープールで算出します。
// 個別の失敗は中立指標で補い、全員失敗した場合のみエラーにします。
func (s *Service) collectMetrics(ctx context.Context, workers []*worker.Worker, from, to *time.Time) ([]cohortMember, error) {
	members := make([]cohortMember, len(workers))

	indexCh := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < s.cfg.MetricWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexCh {
				w := workers[idx]
				metrics, err := s.metrics.ComputeMetrics(ctx, w.ID, from, to)
				if err != nil {
					s.logger.Error("metrics computation failed, substituting neutral defaults", "user_id", w.ID, "error", err)
					members[idx] = cohortMember{worker: w, metrics: s.metrics.NeutralMetrics(w.ID), failed: true}
					continue
				}
				members[idx] = cohortMember{worker: w, metrics: metrics}
			}
		}()
	}

feed:
	for i := range workers {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failures := 0
	for _, m := range members {
		if m.failed {
			failures++
		}
	}
	if failures == len(members) && len(members) > 0 {
		return nil, ErrAllMembersFailed
	}

	return members, nil
}

// PredictCluster は最後に学習したモデルで 1 ワーカーのクラスタを推定します。
func (s *Service) PredictCluster(ctx context.Context, userID string) (*ClusteringResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id: %w", ErrInvalidUserID)
	}

	if !s.engine.Trained() {
		return nil, ErrModelNotTrained
	}

	w, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics, err := s.metrics.ComputeMetrics(ctx, w.ID, nil, nil)
	if err != nil {
		return nil, err
	}

	vector := VectorFromMetrics(metrics)
	ordinal, err := s.engine.Predict(vector)
	if err != nil {
		return nil, err
	}

	features := vector.Map()
	return &ClusteringResult{
		UserID:           w.ID,
		WorkerID:         w.WorkerID,
		Name:             w.Name,
		Cluster:          ordinal,
		ClusterLabel:     LabelForOrdinal(ordinal),
		PerformanceScore: OverallScore(features),
		Features:         features,
	}, nil
}

// BatchPredict は複数ワーカーのクラスタ予測を一括実行します。
// 個別の失敗はエラーマーカーとして蓄積し、バッチを中断しません。
func (s *Service) BatchPredict(ctx context.Context, userIDs []string) ([]BatchPredictionResult, error) {
	if !s.engine.Trained() {
		return nil, ErrModelNotTrained
	}

	results := make([]BatchPredictionResult, 0, len(userIDs))
	for _, id := range userIDs {
		prediction, err := s.PredictCluster(ctx, id)
		if err != nil {
			results = append(results, BatchPredictionResult{UserID: id, Error: err.Error()})
			continue
		}
		results = append(results, BatchPredictionResult{UserID: id, Result: prediction})
	}
	return results, nil
}

// GenerateInsights は 1 ワーカーの定性評価を生成します。
func (s *Service) GenerateInsights(ctx context.Context, userID string) (*Insights, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id: %w", ErrInvalidUserID)
	}

	w, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics, err := s.metrics.ComputeMetrics(ctx, w.ID, nil, nil)
	if err != nil {
		return nil, err
	}

	insights := GenerateInsights(metrics)
	return &insights, nil
}

// ModelInfo は現在のモデルのメタ情報を返します。
func (s *Service) ModelInfo() *ModelInfo {
	info := &ModelInfo{
		Algorithm:     "K-Means",
		ClusterLabels: TierLabels(),
		FeatureNames:  FeatureNames(),
		NClusters:     s.cfg.DefaultClusters,
	}

	if snapshot := s.engine.Snapshot(); snapshot != nil {
		info.ModelTrained = true
		info.NClusters = snapshot.K()
		info.LastTrained = snapshot.LastTrained
		info.TrainingDataSize = snapshot.TrainingDataSize
	}
	return info
}

// RestoreFromStore は永続化済みスナップショットがあればエンジンへ復元します。
func (s *Service) RestoreFromStore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load model snapshot: %w", err)
	}
	if snapshot == nil {
		s.logger.Info("no persisted model snapshot found")
		return nil
	}

	s.engine.Restore(snapshot)
	s.logger.Info("restored model snapshot",
		"last_trained", snapshot.LastTrained,
		"training_data_size", snapshot.TrainingDataSize,
	)
	return nil
}

func formatBound(t *time.Time) string {
	if t == nil {
		return allTimePeriod
	}
	return t.Format(dateLayout)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
