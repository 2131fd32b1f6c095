package analytics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// 2 つに明確に分離したテスト用データ。
func separatedPoints() [][]float64 {
	return [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1},
		{10, 10}, {10.1, 10}, {10, 10.1},
	}
}

func TestRunKMeans_SeparatesObviousClusters(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(kmeansSeed))
	assignments, centroids := runKMeans(separatedPoints(), 2, rng)

	require.Len(t, centroids, 2)
	require.Equal(t, assignments[0], assignments[1])
	require.Equal(t, assignments[0], assignments[2])
	require.Equal(t, assignments[3], assignments[4])
	require.Equal(t, assignments[3], assignments[5])
	require.NotEqual(t, assignments[0], assignments[3])
}

func TestRunKMeans_Deterministic(t *testing.T) {
	t.Parallel()

	first, _ := runKMeans(separatedPoints(), 2, rand.New(rand.NewSource(kmeansSeed)))
	second, _ := runKMeans(separatedPoints(), 2, rand.New(rand.NewSource(kmeansSeed)))
	require.Equal(t, first, second)
}

func TestRunKMeans_SinglePointOrCluster(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(kmeansSeed))
	assignments, centroids := runKMeans([][]float64{{1, 2}}, 3, rng)
	require.Equal(t, []int{0}, assignments)
	require.Len(t, centroids, 1)
	require.Equal(t, []float64{1, 2}, centroids[0])

	assignments, centroids = runKMeans(separatedPoints(), 1, rng)
	require.Len(t, centroids, 1)
	for _, a := range assignments {
		require.Equal(t, 0, a)
	}
}

func TestSilhouetteScore(t *testing.T) {
	t.Parallel()

	t.Run("well separated clusters score high", func(t *testing.T) {
		t.Parallel()
		labels := []int{0, 0, 0, 1, 1, 1}
		score := silhouetteScore(separatedPoints(), labels)
		require.Greater(t, score, 0.9)
	})

	t.Run("crossed assignment goes negative", func(t *testing.T) {
		t.Parallel()
		// 近接ペアを別クラスタへ裂き、自クラスタ内距離の方が大きい状態を作る。
		data := [][]float64{{0, 0}, {10, 10}, {0.1, 0}, {10.1, 10}}
		score := silhouetteScore(data, []int{0, 0, 1, 1})
		require.Less(t, score, 0.0)
	})

	t.Run("single cluster scores zero", func(t *testing.T) {
		t.Parallel()
		score := silhouetteScore(separatedPoints(), []int{0, 0, 0, 0, 0, 0})
		require.Equal(t, 0.0, score)
	})
}
