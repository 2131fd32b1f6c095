package analytics

import (
	"fmt"
	"strings"

	"github.com/ogurasousui/attendance-analytics/internal/core/attendance"
)

// featureNames はモデルへ渡す特徴量の固定順序です。行列の列順と
// FeatureVector.Row の要素順はこの並びに一致します。
var featureNames = []string{
	"total_work_hours",
	"average_daily_hours",
	"attendance_rate",
	"overtime_ratio",
	"punctuality_score",
	"consistency_score",
	"productivity_score",
}

// FeatureCount は特徴量の数です。
const FeatureCount = 7

// FeatureNames は特徴量名を固定順で返します。
func FeatureNames() []string {
	names := make([]string, len(featureNames))
	copy(names, featureNames)
	return names
}

// FeatureVector は 1 ワーカー分の特徴量を固定幅で保持します。
// 文字列キーでの参照を避け、列の過不足をコンパイル時に検出します。
type FeatureVector struct {
	TotalWorkHours    float64
	AverageDailyHours float64
	AttendanceRate    float64
	OvertimeRatio     float64
	PunctualityScore  float64
	ConsistencyScore  float64
	ProductivityScore float64
}

// VectorFromMetrics は Metrics を特徴量ベクトルへ変換します。
func VectorFromMetrics(m attendance.Metrics) FeatureVector {
	return FeatureVector{
		TotalWorkHours:    m.TotalWorkHours,
		AverageDailyHours: m.AverageDailyHours,
		AttendanceRate:    m.AttendanceRate,
		OvertimeRatio:     m.OvertimeRatio,
		PunctualityScore:  m.PunctualityScore,
		ConsistencyScore:  m.ConsistencyScore,
		ProductivityScore: m.ProductivityScore,
	}
}

// Row は featureNames と同順の数値列を返します。
func (v FeatureVector) Row() []float64 {
	return []float64{
		v.TotalWorkHours,
		v.AverageDailyHours,
		v.AttendanceRate,
		v.OvertimeRatio,
		v.PunctualityScore,
		v.ConsistencyScore,
		v.ProductivityScore,
	}
}

// Map は特徴量名をキーとする表現を返します。外部レスポンス用です。
func (v FeatureVector) Map() map[string]float64 {
	row := v.Row()
	features := make(map[string]float64, len(featureNames))
	for i, name := range featureNames {
		features[name] = row[i]
	}
	return features
}

// FeatureMatrix はコホート全員分の特徴量行列です。行順は入力順を保ちます。
type FeatureMatrix struct {
	rows [][]float64
}

// BuildMatrix はベクトル列から行列を組み立てます。
func BuildMatrix(vectors []FeatureVector) FeatureMatrix {
	rows := make([][]float64, len(vectors))
	for i, v := range vectors {
		rows[i] = v.Row()
	}
	return FeatureMatrix{rows: rows}
}

// Len は行数を返します。
func (m FeatureMatrix) Len() int {
	return len(m.rows)
}

// Rows は行列の生データを返します。呼び出し側で変更しないでください。
func (m FeatureMatrix) Rows() [][]float64 {
	return m.rows
}

// IsDegenerate は行列全体の distinct 値が 1 以下かを判定します。
// 全員が同一指標(例: 全て 0)の場合、クラスタリングは意味を持ちません。
func (m FeatureMatrix) IsDegenerate() bool {
	distinct := make(map[float64]struct{})
	for _, row := range m.rows {
		for _, v := range row {
			distinct[v] = struct{}{}
			if len(distinct) > 1 {
				return false
			}
		}
	}
	return true
}

// DistinctRows は重複を除いた行数を返します。
func (m FeatureMatrix) DistinctRows() int {
	seen := make(map[string]struct{}, len(m.rows))
	for _, row := range m.rows {
		var b strings.Builder
		for _, v := range row {
			fmt.Fprintf(&b, "%v|", v)
		}
		seen[b.String()] = struct{}{}
	}
	return len(seen)
}
