package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ogurasousui/attendance-analytics/internal/platform/config"
	pg "github.com/ogurasousui/attendance-analytics/internal/platform/db/postgres"
)

// 開発用のサンプルデータ投入コマンドです。勤務パターンの異なるワーカーを
// 作成し、直近約 1 か月分の平日勤怠レコードを付与します。

type seedWorker struct {
	workerID     string
	name         string
	email        string
	dailyMinutes float64
	clockIn      string
	overtime     float64
	description  string
}

var seedWorkers = []seedWorker{
	{"W001", "Sato Kenta", "sato@example.com", 510, "08:45", 30, "Reviewed deployment pipeline, paired on incident postmortem and updated the runbook with new alert thresholds."},
	{"W002", "Suzuki Yui", "suzuki@example.com", 480, "08:55", 0, "Implemented feature tickets and wrote integration tests."},
	{"W003", "Tanaka Hiroshi", "tanaka@example.com", 465, "09:10", 0, "Routine maintenance work."},
	{"W004", "Kobayashi Mina", "kobayashi@example.com", 495, "08:50", 60, "Led sprint planning, resolved two production bugs and documented the new onboarding checklist for the support rotation."},
	{"W005", "Watanabe Jun", "watanabe@example.com", 420, "09:25", 0, "Misc tasks."},
}

func main() {
	ctx := context.Background()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer pool.Close()

	tm := pg.NewTransactionManager(pool)
	if err := tm.WithinReadWrite(ctx, func(ctx context.Context) error {
		return seed(ctx, pool)
	}); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	log.Printf("seed completed: %d workers", len(seedWorkers))
}

func seed(ctx context.Context, pool *pgxpool.Pool) error {
	exec := pg.QueryerFromContext(ctx, pool)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()

	for _, sw := range seedWorkers {
		workerID := uuid.NewString()
		_, err := exec.Exec(ctx, `
            INSERT INTO workers (id, worker_id, name, email, role, status, created_at, updated_at)
            VALUES ($1, $2, $3, $4, 'worker', 'active', $5, $5)
            ON CONFLICT (worker_id) DO NOTHING
        `, workerID, sw.workerID, sw.name, sw.email, now)
		if err != nil {
			return fmt.Errorf("insert worker %s: %w", sw.workerID, err)
		}

		if err := seedAttendance(ctx, exec, rng, workerID, sw, now); err != nil {
			return fmt.Errorf("insert attendance for %s: %w", sw.workerID, err)
		}
	}
	return nil
}

func seedAttendance(ctx context.Context, exec pg.Queryer, rng *rand.Rand, workerID string, sw seedWorker, now time.Time) error {
	day := now.AddDate(0, -1, 0)
	for !day.After(now) {
		next := day.AddDate(0, 0, 1)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = next
			continue
		}

		// 日ごとに勤務時間を少し揺らします。
		jitter := float64(rng.Intn(41) - 20)
		workMinutes := sw.dailyMinutes + jitter
		clockOut := clockOutFor(sw.clockIn, workMinutes)

		_, err := exec.Exec(ctx, `
            INSERT INTO attendance_records (id, user_id, day, clock_in_time, clock_out_time, work_minutes, overtime_minutes, work_description, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        `,
			uuid.NewString(),
			workerID,
			time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			sw.clockIn,
			clockOut,
			workMinutes,
			sw.overtime,
			sw.description,
			now,
		)
		if err != nil {
			return err
		}
		day = next
	}
	return nil
}

func clockOutFor(clockIn string, workMinutes float64) string {
	t, err := time.Parse("15:04", clockIn)
	if err != nil {
		return ""
	}
	return t.Add(time.Duration(workMinutes) * time.Minute).Format("15:04")
}
