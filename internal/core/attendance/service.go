package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// UseCase は勤怠ユースケースの公開インターフェースです。
type UseCase interface {
	ListRecords(ctx context.Context, in ListRecordsInput) ([]*Record, error)
	GetRecord(ctx context.Context, id string) (*Record, error)
	Summary(ctx context.Context, userID string, from, to *time.Time) (*Summary, error)
	ComputeMetrics(ctx context.Context, userID string, from, to *time.Time) (Metrics, error)
	NeutralMetrics(userID string) Metrics
}

// Service は勤怠レコードに関するユースケースをまとめます。
type Service struct {
	repo      Repository
	extractor *Extractor
}

// NewService は Service を生成します。
func NewService(repo Repository, extractor *Extractor) *Service {
	return &Service{repo: repo, extractor: extractor}
}

// ListRecordsInput は一覧取得時の入力です。
type ListRecordsInput struct {
	UserID *string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// ListRecords は勤怠レコードの一覧を取得します。
func (s *Service) ListRecords(ctx context.Context, in ListRecordsInput) ([]*Record, error) {
	limit, err := normalizeLimit(in.Limit)
	if err != nil {
		return nil, err
	}

	if err := validateDateRange(in.From, in.To); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, ListFilter{
		UserID: in.UserID,
		From:   in.From,
		To:     in.To,
		Limit:  limit,
	})
}

// GetRecord は勤怠レコードを取得します。
func (s *Service) GetRecord(ctx context.Context, id string) (*Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.FindByID(ctx, id)
}

// Summary は指定ワーカーの勤怠集計を返します。
func (s *Service) Summary(ctx context.Context, userID string, from, to *time.Time) (*Summary, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id: %w", ErrInvalidUserID)
	}

	if err := validateDateRange(from, to); err != nil {
		return nil, err
	}

	records, err := s.repo.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &Summary{UserID: userID, TotalRecords: len(records)}
	if len(records) == 0 {
		return summary, nil
	}

	var workMinutes, overtimeMinutes float64
	for _, rec := range records {
		workMinutes += rec.WorkMinutes
		overtimeMinutes += rec.OvertimeMinutes
	}

	summary.TotalWorkHours = round2(workMinutes / 60)
	summary.TotalOvertimeHours = round2(overtimeMinutes / 60)
	summary.AverageDailyHours = round2(workMinutes / 60 / float64(len(records)))
	return summary, nil
}

// ComputeMetrics は指定ワーカーのパフォーマンス指標を算出します。
func (s *Service) ComputeMetrics(ctx context.Context, userID string, from, to *time.Time) (Metrics, error) {
	if strings.TrimSpace(userID) == "" {
		return Metrics{}, fmt.Errorf("user id: %w", ErrInvalidUserID)
	}

	if err := validateDateRange(from, to); err != nil {
		return Metrics{}, err
	}

	records, err := s.repo.ListByUser(ctx, userID, from, to)
	if err != nil {
		return Metrics{}, err
	}

	return s.extractor.Extract(userID, records, from, to), nil
}

// NeutralMetrics はデータ欠損時の中立指標を返します。
func (s *Service) NeutralMetrics(userID string) Metrics {
	return s.extractor.Neutral(userID)
}

func normalizeLimit(limit int) (int, error) {
	if limit <= 0 {
		return defaultListLimit, nil
	}
	if limit > maxListLimit {
		return 0, ErrInvalidLimit
	}
	return limit, nil
}

func validateDateRange(from, to *time.Time) error {
	if from == nil || to == nil {
		return nil
	}
	if to.Before(*from) {
		return ErrInvalidDateRange
	}
	return nil
}
