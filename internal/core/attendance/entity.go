package attendance

import "time"

// Record は打刻により生成された 1 日分の勤怠レコードです。
type Record struct {
	ID              string
	UserID          string
	Day             time.Time
	ClockInTime     string
	ClockOutTime    string
	WorkMinutes     float64
	OvertimeMinutes float64
	WorkDescription string
	CreatedAt       time.Time
}

// Metrics は 1 人のワーカーの分析期間に対するパフォーマンス指標です。
// 比率系の指標は [0,100] にクランプされた上で返されます。
type Metrics struct {
	UserID            string  `json:"user_id"`
	TotalWorkHours    float64 `json:"total_work_hours"`
	AverageDailyHours float64 `json:"average_daily_hours"`
	AttendanceRate    float64 `json:"attendance_rate"`
	OvertimeRatio     float64 `json:"overtime_ratio"`
	PunctualityScore  float64 `json:"punctuality_score"`
	ConsistencyScore  float64 `json:"consistency_score"`
	ProductivityScore float64 `json:"productivity_score"`
}

// Summary はワーカー単位の勤怠集計です。
type Summary struct {
	UserID             string  `json:"user_id"`
	TotalRecords       int     `json:"total_records"`
	TotalWorkHours     float64 `json:"total_work_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	AverageDailyHours  float64 `json:"average_daily_hours"`
}
