package handler

import (
	"errors"
	"net/http"

	"github.com/ogurasousui/attendance-analytics/internal/core/analytics"
	"github.com/ogurasousui/attendance-analytics/internal/core/attendance"
	"github.com/ogurasousui/attendance-analytics/internal/core/worker"
)

// statusFromError はコアのエラーを HTTP ステータスへ変換します。
// 未知のエラーはすべて 500 として扱います。
func statusFromError(err error) int {
	switch {
	case errors.Is(err, attendance.ErrRecordNotFound),
		errors.Is(err, worker.ErrWorkerNotFound):
		return http.StatusNotFound
	case errors.Is(err, attendance.ErrInvalidID),
		errors.Is(err, attendance.ErrInvalidUserID),
		errors.Is(err, attendance.ErrInvalidLimit),
		errors.Is(err, attendance.ErrInvalidDateRange),
		errors.Is(err, worker.ErrInvalidID),
		errors.Is(err, worker.ErrInvalidWorkerID),
		errors.Is(err, worker.ErrInvalidRole),
		errors.Is(err, worker.ErrInvalidStatus),
		errors.Is(err, worker.ErrInvalidLimit),
		errors.Is(err, analytics.ErrInvalidUserID),
		errors.Is(err, analytics.ErrEmptyCohort),
		errors.Is(err, analytics.ErrInsufficientData),
		errors.Is(err, analytics.ErrModelNotTrained),
		errors.Is(err, analytics.ErrAllMembersFailed),
		errors.Is(err, errInvalidBody):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
