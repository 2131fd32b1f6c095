package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/attendance-analytics/internal/core/attendance"
	pgdb "github.com/ogurasousui/attendance-analytics/internal/platform/db/postgres"
)

// AttendanceRepository は PostgreSQL を利用した勤怠レコード読み出しの実装です。
type AttendanceRepository struct {
	pool pgdb.Queryer
}

// NewAttendanceRepository は AttendanceRepository を生成します。
func NewAttendanceRepository(pool pgdb.Queryer) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

const attendanceColumns = `
        SELECT a.id,
               a.user_id,
               a.day,
               a.clock_in_time,
               a.clock_out_time,
               a.work_minutes,
               a.overtime_minutes,
               a.work_description,
               a.created_at
          FROM attendance_records a`

// ListByUser は指定ワーカーのレコードを日付昇順で返します。
func (r *AttendanceRepository) ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]*attendance.Record, error) {
	args := []any{userID}
	conditions := []string{"a.user_id = $1"}

	if from != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "a.day >= "+placeholder)
		args = append(args, *from)
	}
	if to != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "a.day <= "+placeholder)
		args = append(args, *to)
	}

	query := attendanceColumns + `
         WHERE ` + strings.Join(conditions, " AND ") + `
         ORDER BY a.day ASC, a.id ASC
    `

	return r.queryRecords(ctx, query, args...)
}

// List はフィルタ条件に合致するレコードを日付降順で返します。
func (r *AttendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]*attendance.Record, error) {
	args := make([]any, 0, 4)
	conditions := make([]string, 0, 3)

	if filter.UserID != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "a.user_id = "+placeholder)
		args = append(args, *filter.UserID)
	}
	if filter.From != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "a.day >= "+placeholder)
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "a.day <= "+placeholder)
		args = append(args, *filter.To)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		return nil, attendance.ErrInvalidLimit
	}
	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	query := attendanceColumns + whereClause + `
         ORDER BY a.day DESC, a.id DESC
         LIMIT ` + limitPlaceholder + `
    `

	return r.queryRecords(ctx, query, args...)
}

// FindByID は ID でレコードを取得します。
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*attendance.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, attendanceColumns+`
         WHERE a.id = $1
         LIMIT 1
    `, id)

	found, err := scanAttendanceRecord(row)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ListRange は期間内の全ワーカーのレコードを日付昇順で返します。
func (r *AttendanceRepository) ListRange(ctx context.Context, from, to *time.Time) ([]*attendance.Record, error) {
	args := make([]any, 0, 2)
	conditions := make([]string, 0, 2)

	if from != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "a.day >= "+placeholder)
		args = append(args, *from)
	}
	if to != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "a.day <= "+placeholder)
		args = append(args, *to)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := attendanceColumns + whereClause + `
         ORDER BY a.day ASC, a.id ASC
    `

	return r.queryRecords(ctx, query, args...)
}

func (r *AttendanceRepository) queryRecords(ctx context.Context, query string, args ...any) ([]*attendance.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*attendance.Record, 0)
	for rows.Next() {
		rec, err := scanAttendanceRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func scanAttendanceRecord(row pgx.Row) (*attendance.Record, error) {
	var (
		id              string
		userID          string
		day             time.Time
		clockIn         sql.NullString
		clockOut        sql.NullString
		workMinutes     float64
		overtimeMinutes float64
		description     sql.NullString
		createdAt       time.Time
	)

	if err := row.Scan(
		&id,
		&userID,
		&day,
		&clockIn,
		&clockOut,
		&workMinutes,
		&overtimeMinutes,
		&description,
		&createdAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendance.ErrRecordNotFound
		}
		return nil, err
	}

	return &attendance.Record{
		ID:              id,
		UserID:          userID,
		Day:             day.UTC(),
		ClockInTime:     clockIn.String,
		ClockOutTime:    clockOut.String,
		WorkMinutes:     workMinutes,
		OvertimeMinutes: overtimeMinutes,
		WorkDescription: description.String,
		CreatedAt:       createdAt,
	}, nil
}
