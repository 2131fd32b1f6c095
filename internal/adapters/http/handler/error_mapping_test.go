package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/ogurasousui/attendance-analytics/internal/core/analytics"
	"github.com/ogurasousui/attendance-analytics/internal/core/attendance"
	"github.com/ogurasousui/attendance-analytics/internal/core/worker"
)

func TestStatusFromError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"record not found", attendance.ErrRecordNotFound, http.StatusNotFound},
		{"worker not found", worker.ErrWorkerNotFound, http.StatusNotFound},
		{"invalid user id", analytics.ErrInvalidUserID, http.StatusBadRequest},
		{"empty cohort", analytics.ErrEmptyCohort, http.StatusBadRequest},
		{"insufficient data", analytics.ErrInsufficientData, http.StatusBadRequest},
		{"model not trained", analytics.ErrModelNotTrained, http.StatusBadRequest},
		{"all members failed", analytics.ErrAllMembersFailed, http.StatusBadRequest},
		{"invalid date range", attendance.ErrInvalidDateRange, http.StatusBadRequest},
		{"invalid limit", worker.ErrInvalidLimit, http.StatusBadRequest},
		{"invalid body", errInvalidBody, http.StatusBadRequest},
		{"wrapped sentinel",&wrapError{inner: attendance.ErrInvalidID}, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := statusFromError(tc.err); got != tc.want {
				t.Fatalf("statusFromError(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

type wrapError struct {
	inner error
}

func (w *wrapError) Error() string {
	return "wrapped: " + w.inner.Error()
}

func (w *wrapError) Unwrap() error {
	return w.inner
}
