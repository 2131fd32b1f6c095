package analytics

import (
	"math/rand"
	"sort"
	"sync/atomic"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// ClusterEngine は特徴量行列に対する K-Means の学習・予測を担います。
//
// 並行性について: 学習結果は atomic.Pointer 経由で丸ごと差し替えられるため、
// Predict は常にどこかの時点で完結した一貫したモデルを観測します。ただし
// Fit と Predict の間に順序の保証はなく、同時リクエスト下では Predict が
// 直前の学習と直後の学習のどちらのモデルを使うかは不定です。
type ClusterEngine struct {
	snapshot atomic.Pointer[ModelSnapshot]
	clock    Clock
}

// NewClusterEngine は ClusterEngine を生成します。
func NewClusterEngine(clock Clock) *ClusterEngine {
	if clock == nil {
		clock = realClock{}
	}
	return &ClusterEngine{clock: clock}
}

// FitResult は 1 回の学習の結果です。序数・重心は性能順に並べ替え済みです。
type FitResult struct {
	Assignments []int
	Centroids   [][]float64
	Cohesion    float64
	K           int
}

// Fit は行列を標準化して K-Means を学習し、クラスタ序数を総合スコアの
// 昇順に並べ替えた上で、新しいスナップショットへ差し替えます。
// scores は行順に対応する総合スコアで、並べ替えの基準に使います。
// 要求クラスタ数は distinct な行数まで自動的に切り詰めます(最小 1)。
func (e *ClusterEngine) Fit(matrix FeatureMatrix, requestedK int, scores []float64) *FitResult {
	transform, scaled := FitTransform(matrix)

	k := requestedK
	if k < 1 {
		k = 1
	}
	if rows := matrix.Len(); k > rows {
		k = rows
	}
	if distinct := matrix.DistinctRows(); k > distinct {
		k = distinct
	}

	rng := rand.New(rand.NewSource(kmeansSeed))
	assignments, centroids := runKMeans(scaled, k, rng)

	labelMap := relabelByScore(assignments, scores, len(centroids))

	sortedCentroids := make([][]float64, len(centroids))
	for original, sorted := range labelMap {
		sortedCentroids[sorted] = centroids[original]
	}
	for i := range assignments {
		assignments[i] = labelMap[assignments[i]]
	}

	cohesion := 0.0
	if len(sortedCentroids) > 1 && len(scaled) > 1 {
		cohesion = silhouetteScore(scaled, assignments)
	}

	snapshot := &ModelSnapshot{
		Transform:        transform,
		Centroids:        sortedCentroids,
		LabelMap:         labelMap,
		LastTrained:      e.clock.Now(),
		TrainingDataSize: matrix.Len(),
	}
	e.snapshot.Store(snapshot)

	return &FitResult{
		Assignments: assignments,
		Centroids:   sortedCentroids,
		Cohesion:    cohesion,
		K:           len(sortedCentroids),
	}
}

// relabelByScore は各クラスタの平均スコアが序数に対して単調非減少になる
// 対応表を作ります。平均が等しい場合は元の序数順を保ちます。
func relabelByScore(assignments []int, scores []float64, k int) []int {
	sums := make([]float64, k)
	counts := make([]int, k)
	for i, cluster := range assignments {
		if i < len(scores) {
			sums[cluster] += scores[i]
		}
		counts[cluster]++
	}

	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		meanA, meanB := 0.0, 0.0
		if counts[order[a]] > 0 {
			meanA = sums[order[a]] / float64(counts[order[a]])
		}
		if counts[order[b]] > 0 {
			meanB = sums[order[b]] / float64(counts[order[b]])
		}
		if meanA == meanB {
			return order[a] < order[b]
		}
		return meanA < meanB
	})

	labelMap := make([]int, k)
	for sorted, original := range order {
		labelMap[original] = sorted
	}
	return labelMap
}

// Predict は最後に学習したモデルで 1 ベクトルのクラスタ序数を推定します。
// プロセス内で一度も学習(または復元)していない場合は ErrModelNotTrained です。
func (e *ClusterEngine) Predict(v FeatureVector) (int, error) {
	snapshot := e.snapshot.Load()
	if snapshot == nil {
		return 0, ErrModelNotTrained
	}

	scaled := snapshot.Transform.Apply(v.Row())
	return nearestCentroid(scaled, snapshot.Centroids), nil
}

// Trained は学習済みモデルの有無を返します。
func (e *ClusterEngine) Trained() bool {
	return e.snapshot.Load() != nil
}

// Snapshot は現在のモデル状態を返します。未学習の場合は nil です。
func (e *ClusterEngine) Snapshot() *ModelSnapshot {
	return e.snapshot.Load()
}

// Restore は永続化されたスナップショットを現在のモデルとして復元します。
func (e *ClusterEngine) Restore(snapshot *ModelSnapshot) {
	if snapshot == nil {
		return
	}
	e.snapshot.Store(snapshot)
}
