package analytics

import (
	"fmt"

	"github.com/ogurasousui/attendance-analytics/internal/core/attendance"
)

// Insights はワーカー 1 人分の定性的評価です。
type Insights struct {
	UserID              string   `json:"user_id"`
	Insights            []string `json:"insights"`
	Recommendations     []string `json:"recommendations"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
}

// 閾値バンド。上側は強み、下側は改善領域として扱います。
const (
	attendanceStrengthMin    = 95
	attendanceImprovementMax = 85
	punctualityStrengthMin   = 90
	punctualityImproveMax    = 80
	consistencyStrengthMin   = 85
	consistencyImproveMax    = 70
	productivityStrengthMin  = 85
	productivityImproveMax   = 70
	overtimeInsightMin       = 20
)

// GenerateInsights は Metrics を固定の閾値ルールで定性評価へ写します。
// クラスタリング状態には依存しない純粋関数です。
func GenerateInsights(m attendance.Metrics) Insights {
	out := Insights{
		UserID:              m.UserID,
		Insights:            []string{},
		Recommendations:     []string{},
		Strengths:           []string{},
		AreasForImprovement: []string{},
	}

	if m.AttendanceRate >= attendanceStrengthMin {
		out.Strengths = append(out.Strengths, "Excellent attendance rate")
	} else if m.AttendanceRate < attendanceImprovementMax {
		out.AreasForImprovement = append(out.AreasForImprovement, "Attendance rate is below expectations")
		out.Recommendations = append(out.Recommendations, "Aim for more consistent daily attendance")
	}

	if m.PunctualityScore >= punctualityStrengthMin {
		out.Strengths = append(out.Strengths, "Consistently punctual clock-ins")
	} else if m.PunctualityScore < punctualityImproveMax {
		out.AreasForImprovement = append(out.AreasForImprovement, "Frequent late clock-ins")
		out.Recommendations = append(out.Recommendations, "Plan to arrive before the scheduled start time")
	}

	if m.ConsistencyScore >= consistencyStrengthMin {
		out.Strengths = append(out.Strengths, "Stable daily working hours")
	} else if m.ConsistencyScore < consistencyImproveMax {
		out.AreasForImprovement = append(out.AreasForImprovement, "Working hours vary largely from day to day")
		out.Recommendations = append(out.Recommendations, "Keep a steadier daily work schedule")
	}

	if m.ProductivityScore >= productivityStrengthMin {
		out.Strengths = append(out.Strengths, "High productivity with well documented work")
	} else if m.ProductivityScore < productivityImproveMax {
		out.AreasForImprovement = append(out.AreasForImprovement, "Productivity score has room to grow")
		out.Recommendations = append(out.Recommendations, "Record more detailed work descriptions and keep focused work hours")
	}

	if m.OvertimeRatio > overtimeInsightMin {
		out.Insights = append(out.Insights, fmt.Sprintf("Overtime makes up %.1f%% of total work hours", m.OvertimeRatio))
		out.Recommendations = append(out.Recommendations, "Review workload distribution to reduce overtime")
	}

	overall := OverallScore(VectorFromMetrics(m).Map())
	out.Insights = append(out.Insights, fmt.Sprintf("Overall performance score is %.1f out of 100", overall))

	return out
}
