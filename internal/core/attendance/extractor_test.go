package attendance

import (
	"math"
	"strings"
	"testing"
	"time"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor(ExtractorConfig{
		PunctualityThreshold: "09:00",
		TargetDailyHours:     8,
		NeutralScore:         50,
		FallbackWorkingDays:  22,
	})
	if err != nil {
		t.Fatalf("NewExtractor returned error: %v", err)
	}
	return e
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse day %s: %v", value, err)
	}
	return d
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewExtractor_InvalidThreshold(t *testing.T) {
	t.Parallel()

	if _, err := NewExtractor(ExtractorConfig{PunctualityThreshold: "nine"}); err == nil {
		t.Fatal("expected error for invalid threshold")
	}
	if _, err := NewExtractor(ExtractorConfig{PunctualityThreshold: "25:00"}); err == nil {
		t.Fatal("expected error for out-of-range hour")
	}
}

func TestExtract_EmptyRecords(t *testing.T) {
	t.Parallel()
	e := newTestExtractor(t)

	got := e.Extract("user-1", nil, nil, nil)

	if got.UserID != "user-1" {
		t.Fatalf("unexpected user id: %s", got.UserID)
	}
	if got.TotalWorkHours != 0 || got.AttendanceRate != 0 {
		t.Fatalf("volume metrics should stay zero: %+v", got)
	}
	for name, score := range map[string]float64{
		"punctuality":  got.PunctualityScore,
		"consistency":  got.ConsistencyScore,
		"productivity": got.ProductivityScore,
	} {
		if score != 50 {
			t.Errorf("%s score = %v, want neutral 50", name, score)
		}
	}
}

func TestExtract_VolumeAndAttendance(t *testing.T) {
	t.Parallel()
	e := newTestExtractor(t)

	// 2400 分を 10 日に分けて記録し、期間は平日 22 日分とする。
	dates := []string{
		"2025-06-02", "2025-06-03", "2025-06-04", "2025-06-05", "2025-06-06",
		"2025-06-09", "2025-06-10", "2025-06-11", "2025-06-12", "2025-06-13",
	}
	records := make([]*Record, 0, len(dates))
	for _, d := range dates {
		records = append(records, &Record{
			UserID:      "user-1",
			Day:         day(t, d),
			ClockInTime: "08:50",
			WorkMinutes: 240,
		})
	}

	from := day(t, "2025-06-02")
	to := day(t, "2025-07-01")
	got := e.Extract("user-1", records, &from, &to)

	if !almostEqual(got.TotalWorkHours, 40.0) {
		t.Errorf("TotalWorkHours = %v, want 40.0", got.TotalWorkHours)
	}
	if !almostEqual(got.AverageDailyHours, 4.0) {
		t.Errorf("AverageDailyHours = %v, want 4.0", got.AverageDailyHours)
	}
	if !almostEqual(got.AttendanceRate, 45.45) {
		t.Errorf("AttendanceRate = %v, want 45.45", got.AttendanceRate)
	}
	if !almostEqual(got.PunctualityScore, 100) {
		t.Errorf("PunctualityScore = %v, want 100", got.PunctualityScore)
	}
	if !almostEqual(got.ConsistencyScore, 100) {
		t.Errorf("ConsistencyScore = %v, want 100 for uniform hours", got.ConsistencyScore)
	}
}

func TestExtract_AttendanceRateClampedAt100(t *testing.T) {
	t.Parallel()
	e := newTestExtractor(t)

	// 平日 1 日の期間に 2 レコード。
	records := []*Record{
		{Day: day(t, "2025-06-02"), WorkMinutes: 240},
		{Day: day(t, "2025-06-02"), WorkMinutes: 240},
	}
	from := day(t, "2025-06-02")
	to := day(t, "2025-06-02")

	got := e.Extract("user-1", records, &from, &to)
	if got.AttendanceRate != 100 {
		t.Fatalf("AttendanceRate = %v, want clamp at 100", got.AttendanceRate)
	}
}

func TestPunctualityScore(t *testing.T) {
	t.Parallel()
	e := newTestExtractor(t)

	records := []*Record{
		{Day: day(t, "2025-06-02"), ClockInTime: "08:50", WorkMinutes: 480},
		{Day: day(t, "2025-06-03"), ClockInTime: "09:10", WorkMinutes: 480}, // 猶予内
		{Day: day(t, "2025-06-04"), ClockInTime: "09:20", WorkMinutes: 480}, // 猶予超過
		{Day: day(t, "2025-06-05"), ClockInTime: "bogus", WorkMinutes: 480}, // 分母には残る
	}

	got := e.punctualityScore(records)
	if !almostEqual(got, 50) {
		t.Fatalf("punctuality = %v, want 50 (2 of 4 punctual)", got)
	}
}

func TestPunctualityScore_TimestampFormats(t *testing.T) {
	t.Parallel()
	e := newTestExtractor(t)

	records := []*Record{
		{Day: day(t, "2025-06-02"), ClockInTime: "2025-06-02T08:45:00Z", WorkMinutes: 480},
		{Day: day(t, "2025-06-03"), ClockInTime: "2025-06-03T08:55:00", WorkMinutes: 480},
	}

	if got := e.punctualityScore(records); !almostEqual(got, 100) {
		t.Fatalf("punctuality = %v, want 100 for timestamp clock-ins", got)
	}
}

func TestConsistencyScore(t *testing.T) {
	t.Parallel()

	t.Run("single record counts as fully consistent", func(t *testing.T) {
		t.Parallel()
		got := consistencyScore([]*Record{{WorkMinutes: 480}})
		if got != 100 {
			t.Fatalf("consistency = %v, want 100", got)
		}
	})

	t.Run("zero mean yields zero", func(t *testing.T) {
		t.Parallel()
		got := consistencyScore([]*Record{{WorkMinutes: 0}, {WorkMinutes: 0}})
		if got != 0 {
			t.Fatalf("consistency = %v, want 0", got)
		}
	})

	t.Run("sample stdev over mean", func(t *testing.T) {
		t.Parallel()
		// 8h と 4h: 平均 6h、標本標準偏差 2*sqrt(2)。
		got := consistencyScore([]*Record{{WorkMinutes: 480}, {WorkMinutes: 240}})
		want := 100 - (2*math.Sqrt2)/6*100
		if !almostEqual(got, want) {
			t.Fatalf("consistency = %v, want %v", got, want)
		}
	})
}

func TestProductivityScore(t *testing.T) {
	t.Parallel()
	e := newTestExtractor(t)

	t.Run("full hours without description", func(t *testing.T) {
		t.Parallel()
		got := e.productivityScore([]*Record{{WorkMinutes: 480}})
		if !almostEqual(got, 60) {
			t.Fatalf("productivity = %v, want 60", got)
		}
	})

	t.Run("description contributes up to 40", func(t *testing.T) {
		t.Parallel()
		got := e.productivityScore([]*Record{{WorkMinutes: 480, WorkDescription: strings.Repeat("x", 120)}})
		if !almostEqual(got, 100) {
			t.Fatalf("productivity = %v, want 100", got)
		}
	})

	t.Run("short description scales linearly", func(t *testing.T) {
		t.Parallel()
		got := e.productivityScore([]*Record{{WorkMinutes: 240, WorkDescription: strings.Repeat("x", 50)}})
		// 50 文字 → 0.5*40 = 20、4h → 0.5*60 = 30。
		if !almostEqual(got, 50) {
			t.Fatalf("productivity = %v, want 50", got)
		}
	})
}

func TestExtract_OvertimeRatio(t *testing.T) {
	t.Parallel()
	e := newTestExtractor(t)

	records := []*Record{{Day: day(t, "2025-06-02"), WorkMinutes: 480, OvertimeMinutes: 60}}
	from := day(t, "2025-06-02")
	to := day(t, "2025-06-02")

	got := e.Extract("user-1", records, &from, &to)
	if !almostEqual(got.OvertimeRatio, 12.5) {
		t.Fatalf("OvertimeRatio = %v, want 12.5", got.OvertimeRatio)
	}
}

func TestWorkingDays_BoundsFallBackToRecordRange(t *testing.T) {
	t.Parallel()
	e := newTestExtractor(t)

	records := []*Record{
		{Day: day(t, "2025-06-02"), WorkMinutes: 480},
		{Day: day(t, "2025-06-06"), WorkMinutes: 480},
	}

	if got := e.workingDays(records, nil, nil); got != 5 {
		t.Fatalf("workingDays = %d, want 5 weekdays between record bounds", got)
	}
}

func TestParseClockInMinutes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"09:00", 540, true},
		{" 08:45 ", 525, true},
		{"2025-06-02T09:30:00Z", 570, true},
		{"2025-06-02T09:30:00", 570, true},
		{"", 0, false},
		{"morning", 0, false},
		{"24:00", 0, false},
		{"09:61", 0, false},
	}

	for _, tc := range cases {
		got, ok := parseClockInMinutes(tc.in)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("parseClockInMinutes(%q) = (%d, %t), want (%d, %t)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}
