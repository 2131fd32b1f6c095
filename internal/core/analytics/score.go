package analytics

import "math"

// scoreWeights は総合スコアの固定重みです。ここに無い特徴量は無視されます。
var scoreWeights = map[string]float64{
	"total_work_hours":   0.15,
	"attendance_rate":    0.25,
	"punctuality_score":  0.20,
	"consistency_score":  0.15,
	"productivity_score": 0.25,
}

// OverallScore は特徴量集合を重み付き平均で 1 つのスコアに縮約します。
// 各値は重み付け前に [0,100] へクランプされ、認識できる特徴量が 1 つも
// 無い場合は 0 を返します。入力の列挙順には依存しません。
func OverallScore(features map[string]float64) float64 {
	var totalScore, totalWeight float64
	for name, value := range features {
		weight, ok := scoreWeights[name]
		if !ok {
			continue
		}
		normalized := math.Min(math.Max(value, 0), 100)
		totalScore += normalized * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0
	}
	return math.Round(totalScore/totalWeight*100) / 100
}
