package analytics

import (
	"math"
	"math/rand"
)

const (
	kmeansSeed          = 42
	kmeansRestarts      = 10
	kmeansMaxIterations = 300
	kmeansTolerance     = 1e-8
)

// runKMeans は Lloyd 法による K-Means を複数回初期化して実行し、
// クラスタ内二乗距離和が最小の解を返します。乱数源は呼び出し側が固定します。
func runKMeans(data [][]float64, k int, rng *rand.Rand) ([]int, [][]float64) {
	if k <= 1 || len(data) <= 1 {
		assignments := make([]int, len(data))
		return assignments, [][]float64{meanPoint(data)}
	}

	var (
		bestAssignments []int
		bestCentroids   [][]float64
		bestInertia     = math.Inf(1)
	)

	for restart := 0; restart < kmeansRestarts; restart++ {
		assignments, centroids, inertia := kmeansOnce(data, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			bestAssignments = assignments
			bestCentroids = centroids
		}
	}

	return bestAssignments, bestCentroids
}

func kmeansOnce(data [][]float64, k int, rng *rand.Rand) ([]int, [][]float64, float64) {
	centroids := seedCentroids(data, k, rng)
	assignments := make([]int, len(data))

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		for i, point := range data {
			assignments[i] = nearestCentroid(point, centroids)
		}

		next := recomputeCentroids(data, assignments, k, rng)

		shift := 0.0
		for c := range centroids {
			shift += squaredDistance(centroids[c], next[c])
		}
		centroids = next

		if shift <= kmeansTolerance {
			break
		}
	}

	for i, point := range data {
		assignments[i] = nearestCentroid(point, centroids)
	}

	inertia := 0.0
	for i, point := range data {
		inertia += squaredDistance(point, centroids[assignments[i]])
	}

	return assignments, centroids, inertia
}

// seedCentroids は k-means++ の初期化です。既存の中心から遠い点ほど
// 高い確率で次の中心に選ばれます。
func seedCentroids(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(data[rng.Intn(len(data))]))

	distances := make([]float64, len(data))
	for len(centroids) < k {
		total := 0.0
		for i, point := range data {
			best := math.Inf(1)
			for _, c := range centroids {
				if d := squaredDistance(point, c); d < best {
					best = d
				}
			}
			distances[i] = best
			total += best
		}

		if total == 0 {
			// 残りの候補が全て既存中心と一致している。
			centroids = append(centroids, clonePoint(data[rng.Intn(len(data))]))
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		chosen := len(data) - 1
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, clonePoint(data[chosen]))
	}

	return centroids
}

func recomputeCentroids(data [][]float64, assignments []int, k int, rng *rand.Rand) [][]float64 {
	dims := len(data[0])
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dims)
	}

	for i, point := range data {
		c := assignments[i]
		counts[c]++
		for d, v := range point {
			sums[c][d] += v
		}
	}

	centroids := make([][]float64, k)
	for c := range centroids {
		if counts[c] == 0 {
			// 空クラスタはランダムな点へ退避させる。
			centroids[c] = clonePoint(data[rng.Intn(len(data))])
			continue
		}
		centroid := make([]float64, dims)
		for d := range centroid {
			centroid[d] = sums[c][d] / float64(counts[c])
		}
		centroids[c] = centroid
	}
	return centroids
}

func nearestCentroid(point []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(point, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

func euclideanDistance(a, b []float64) float64 {
	return math.Sqrt(squaredDistance(a, b))
}

func meanPoint(data [][]float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := make([]float64, len(data[0]))
	for _, point := range data {
		for d, v := range point {
			mean[d] += v
		}
	}
	for d := range mean {
		mean[d] /= float64(len(data))
	}
	return mean
}

// silhouetteScore は全点の (b-a)/max(a,b) の平均です。a は自クラスタ内の
// 平均距離、b は最近傍他クラスタへの平均距離で、負値もそのまま返します。
func silhouetteScore(data [][]float64, labels []int) float64 {
	clusters := make(map[int][]int)
	for i, label := range labels {
		clusters[label] = append(clusters[label], i)
	}

	if len(clusters) < 2 || len(data) < 2 {
		return 0
	}

	total := 0.0
	for i, point := range data {
		own := labels[i]

		a := 0.0
		if members := clusters[own]; len(members) > 1 {
			for _, j := range members {
				if j == i {
					continue
				}
				a += euclideanDistance(point, data[j])
			}
			a /= float64(len(members) - 1)
		}

		b := math.Inf(1)
		for label, members := range clusters {
			if label == own {
				continue
			}
			sum := 0.0
			for _, j := range members {
				sum += euclideanDistance(point, data[j])
			}
			if avg := sum / float64(len(members)); avg < b {
				b = avg
			}
		}

		if denom := math.Max(a, b); denom > 0 {
			total += (b - a) / denom
		}
	}

	return total / float64(len(data))
}

func clonePoint(point []float64) []float64 {
	clone := make([]float64, len(point))
	copy(clone, point)
	return clone
}
