package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/ogurasousui/attendance-analytics/internal/core/attendance"
)

// AttendanceHandler は勤怠レコード参照エンドポイントのハンドラです。
type AttendanceHandler struct {
	uc     attendance.UseCase
	logger *slog.Logger
}

// NewAttendanceHandler は AttendanceHandler を生成します。
func NewAttendanceHandler(uc attendance.UseCase, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{uc: uc, logger: logger}
}

// Register はルートを登録します。
func (h *AttendanceHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/attendance", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/attendance/user/{user_id}/summary", h.Summary).Methods(http.MethodGet)
	r.HandleFunc("/api/attendance/{id}", h.Get).Methods(http.MethodGet)
}

type recordResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	Date            string  `json:"date"`
	ClockInTime     string  `json:"clock_in_time,omitempty"`
	ClockOutTime    string  `json:"clock_out_time,omitempty"`
	WorkMinutes     float64 `json:"work_minutes"`
	OvertimeMinutes float64 `json:"overtime_minutes"`
	WorkDescription string  `json:"work_description,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func toRecordResponse(rec *attendance.Record) recordResponse {
	return recordResponse{
		ID:              rec.ID,
		UserID:          rec.UserID,
		Date:            rec.Day.Format(dateLayout),
		ClockInTime:     rec.ClockInTime,
		ClockOutTime:    rec.ClockOutTime,
		WorkMinutes:     rec.WorkMinutes,
		OvertimeMinutes: rec.OvertimeMinutes,
		WorkDescription: rec.WorkDescription,
		CreatedAt:       rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// List は勤怠レコードの一覧を返します。
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "date_from")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	to, err := parseDateParam(r, "date_to")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	in := attendance.ListRecordsInput{From: from, To: to}
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		in.UserID = &userID
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, h.logger, attendance.ErrInvalidLimit)
			return
		}
		in.Limit = limit
	}

	records, err := h.uc.ListRecords(r.Context(), in)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	resp := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toRecordResponse(rec))
	}
	respondJSON(w, http.StatusOK, map[string]any{"records": resp, "total": len(resp)})
}

// Get は ID で勤怠レコードを返します。
func (h *AttendanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.uc.GetRecord(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toRecordResponse(rec))
}

// Summary は 1 ワーカーの勤怠サマリを返します。
func (h *AttendanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "date_from")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	to, err := parseDateParam(r, "date_to")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	summary, err := h.uc.Summary(r.Context(), mux.Vars(r)["user_id"], from, to)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
