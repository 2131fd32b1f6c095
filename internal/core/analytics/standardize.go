package analytics

import "math"

// Transform は列ごとの標準化変換(平均 0・分散 1)です。
// スケールは母標準偏差で、分散 0 の列は 1 に置き換えます。
type Transform struct {
	Means  []float64 `json:"means"`
	Scales []float64 `json:"scales"`
}

// FitTransform は行列に対して標準化変換を学習し、変換済み行列と共に返します。
func FitTransform(matrix FeatureMatrix) (Transform, [][]float64) {
	rows := matrix.Rows()
	if len(rows) == 0 {
		return Transform{}, nil
	}

	cols := len(rows[0])
	means := make([]float64, cols)
	scales := make([]float64, cols)

	for c := 0; c < cols; c++ {
		var sum float64
		for _, row := range rows {
			sum += row[c]
		}
		means[c] = sum / float64(len(rows))

		var sumSq float64
		for _, row := range rows {
			diff := row[c] - means[c]
			sumSq += diff * diff
		}
		scales[c] = math.Sqrt(sumSq / float64(len(rows)))
		if scales[c] == 0 {
			scales[c] = 1
		}
	}

	t := Transform{Means: means, Scales: scales}

	scaled := make([][]float64, len(rows))
	for i, row := range rows {
		scaled[i] = t.Apply(row)
	}
	return t, scaled
}

// Apply は学習済み変換を 1 行に適用します。
func (t Transform) Apply(row []float64) []float64 {
	scaled := make([]float64, len(row))
	for i, v := range row {
		scaled[i] = (v - t.Means[i]) / t.Scales[i]
	}
	return scaled
}

// IsZero は変換が未学習かどうかを返します。
func (t Transform) IsZero() bool {
	return len(t.Means) == 0
}
