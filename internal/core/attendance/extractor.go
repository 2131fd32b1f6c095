package attendance

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// punctualityGraceMinutes は始業時刻からの許容猶予です。
const punctualityGraceMinutes = 15

const (
	descriptionScoreMax     = 40.0
	hoursScoreMax           = 60.0
	descriptionTargetLength = 100
)

// ExtractorConfig は指標算出に使う外部設定です。
type ExtractorConfig struct {
	// PunctualityThreshold は "HH:MM" 形式の始業基準時刻です。
	PunctualityThreshold string
	TargetDailyHours     float64
	NeutralScore         float64
	FallbackWorkingDays  int
}

// Extractor は勤怠レコード列から Metrics を導出します。
// 状態を持たないため並行呼び出しに対して安全です。
type Extractor struct {
	thresholdMinutes int
	targetHours      float64
	neutralScore     float64
	fallbackDays     int
}

// NewExtractor は Extractor を生成します。
func NewExtractor(cfg ExtractorConfig) (*Extractor, error) {
	threshold, ok := parseClockMinutes(cfg.PunctualityThreshold)
	if !ok {
		return nil, fmt.Errorf("attendance: punctuality threshold must be HH:MM, got %q", cfg.PunctualityThreshold)
	}

	targetHours := cfg.TargetDailyHours
	if targetHours <= 0 {
		targetHours = 8
	}

	neutral := cfg.NeutralScore
	if neutral <= 0 {
		neutral = 50
	}

	fallbackDays := cfg.FallbackWorkingDays
	if fallbackDays <= 0 {
		fallbackDays = 22
	}

	return &Extractor{
		thresholdMinutes: threshold,
		targetHours:      targetHours,
		neutralScore:     neutral,
		fallbackDays:     fallbackDays,
	}, nil
}

// Neutral はデータ欠損時の中立指標を返します。欠損と不勤勉を混同しないよう、
// 導出系の 3 スコアのみ中間値で埋めます。
func (e *Extractor) Neutral(userID string) Metrics {
	return Metrics{
		UserID:            userID,
		PunctualityScore:  e.neutralScore,
		ConsistencyScore:  e.neutralScore,
		ProductivityScore: e.neutralScore,
	}
}

// Extract は期間内の勤怠レコードから 1 件の Metrics を導出します。
func (e *Extractor) Extract(userID string, records []*Record, from, to *time.Time) Metrics {
	if len(records) == 0 {
		return e.Neutral(userID)
	}

	var totalWorkMinutes, totalOvertimeMinutes float64
	for _, rec := range records {
		totalWorkMinutes += rec.WorkMinutes
		totalOvertimeMinutes += rec.OvertimeMinutes
	}

	totalWorkHours := totalWorkMinutes / 60
	averageDailyHours := totalWorkHours / float64(len(records))

	attendanceRate := 0.0
	if workingDays := e.workingDays(records, from, to); workingDays > 0 {
		attendanceRate = float64(len(records)) / float64(workingDays) * 100
	}

	overtimeRatio := 0.0
	if totalWorkHours > 0 {
		overtimeRatio = totalOvertimeMinutes / 60 / totalWorkHours * 100
	}

	return Metrics{
		UserID:            userID,
		TotalWorkHours:    round2(totalWorkHours),
		AverageDailyHours: round2(averageDailyHours),
		AttendanceRate:    round2(clampScore(attendanceRate)),
		OvertimeRatio:     round2(clampScore(overtimeRatio)),
		PunctualityScore:  round2(clampScore(e.punctualityScore(records))),
		ConsistencyScore:  round2(clampScore(consistencyScore(records))),
		ProductivityScore: round2(clampScore(e.productivityScore(records))),
	}
}

// workingDays は期間内の平日数を数えます。境界が欠けている場合はレコードの
// 最小・最大日付で補い、レコードも無い場合は固定値に落とします。
func (e *Extractor) workingDays(records []*Record, from, to *time.Time) int {
	effFrom, effTo := from, to
	if effFrom == nil || effTo == nil {
		if len(records) == 0 {
			return e.fallbackDays
		}
		minDay, maxDay := records[0].Day, records[0].Day
		for _, rec := range records[1:] {
			if rec.Day.Before(minDay) {
				minDay = rec.Day
			}
			if rec.Day.After(maxDay) {
				maxDay = rec.Day
			}
		}
		if effFrom == nil {
			effFrom = &minDay
		}
		if effTo == nil {
			effTo = &maxDay
		}
	}
	return countWeekdays(*effFrom, *effTo)
}

func countWeekdays(from, to time.Time) int {
	current := truncateToDay(from)
	end := truncateToDay(to)

	days := 0
	for !current.After(end) {
		switch current.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
		current = current.AddDate(0, 0, 1)
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// punctualityScore は基準時刻+猶予以内に出勤したレコードの割合です。
// 解釈不能な打刻は分子にのみ影響し、分母は常に全レコード数です。
func (e *Extractor) punctualityScore(records []*Record) float64 {
	punctual := 0
	for _, rec := range records {
		clockIn, ok := parseClockInMinutes(rec.ClockInTime)
		if !ok {
			continue
		}
		if clockIn <= e.thresholdMinutes+punctualityGraceMinutes {
			punctual++
		}
	}
	return float64(punctual) / float64(len(records)) * 100
}

// consistencyScore は日次労働時間の変動係数から導出します。標本標準偏差
// (ddof=1) を用い、レコードが 1 件の場合は変動なしとみなします。
func consistencyScore(records []*Record) float64 {
	hours := make([]float64, len(records))
	total := 0.0
	for i, rec := range records {
		hours[i] = rec.WorkMinutes / 60
		total += hours[i]
	}

	mean := total / float64(len(hours))
	if mean <= 0 {
		return 0
	}

	if len(hours) == 1 {
		return 100
	}

	var sumSq float64
	for _, h := range hours {
		diff := h - mean
		sumSq += diff * diff
	}
	stdev := math.Sqrt(sumSq / float64(len(hours)-1))

	cv := stdev / mean
	return 100 - cv*100
}

func (e *Extractor) productivityScore(records []*Record) float64 {
	total := 0.0
	for _, rec := range records {
		desc := strings.TrimSpace(rec.WorkDescription)

		descScore := 0.0
		if desc != "" {
			descScore = math.Min(float64(utf8.RuneCountInString(desc))/descriptionTargetLength, 1) * descriptionScoreMax
		}

		hoursScore := math.Min(rec.WorkMinutes/60/e.targetHours, 1) * hoursScoreMax

		total += descScore + hoursScore
	}
	return total / float64(len(records))
}

// parseClockInMinutes は打刻文字列を分単位の時刻に解釈します。タイムスタンプ
// 形式と "HH:MM" 形式をサポートし、解釈できない値は ok=false を返します。
func parseClockInMinutes(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, "T") {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Hour()*60 + t.Minute(), true
			}
		}
		return 0, false
	}

	return parseClockMinutes(s)
}

func parseClockMinutes(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0, false
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

func clampScore(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
