package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/ogurasousui/attendance-analytics/internal/core/reporting"
	"github.com/ogurasousui/attendance-analytics/internal/core/worker"
)

// ReportingHandler は全体レポーティングエンドポイントのハンドラです。
type ReportingHandler struct {
	uc     reporting.UseCase
	logger *slog.Logger
}

// NewReportingHandler は ReportingHandler を生成します。
func NewReportingHandler(uc reporting.UseCase, logger *slog.Logger) *ReportingHandler {
	return &ReportingHandler{uc: uc, logger: logger}
}

// Register はルートを登録します。
func (h *ReportingHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/analytics/overview", h.Overview).Methods(http.MethodGet)
	r.HandleFunc("/api/analytics/team/performance", h.TeamPerformance).Methods(http.MethodGet)
	r.HandleFunc("/api/analytics/productivity/ranking", h.ProductivityRanking).Methods(http.MethodGet)
	r.HandleFunc("/api/analytics/trends/daily", h.DailyTrends).Methods(http.MethodGet)
}

// Overview は期間内の勤怠概況を返します。
func (h *ReportingHandler) Overview(w http.ResponseWriter, r *http.Request) {
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

	overview, err := h.uc.Overview(r.Context(), from, to)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

// TeamPerformance はチーム全員の指標を返します。
func (h *ReportingHandler) TeamPerformance(w http.ResponseWriter, r *http.Request) {
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

	role := r.URL.Query().Get("role")
	if role == "" {
		role = worker.RoleWorker
	}

	team, err := h.uc.TeamPerformance(r.Context(), role, from, to)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"team": team, "total": len(team)})
}

// ProductivityRanking は生産性上位メンバーを返します。
func (h *ReportingHandler) ProductivityRanking(w http.ResponseWriter, r *http.Request) {
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

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, h.logger, worker.ErrInvalidLimit)
			return
		}
		limit = parsed
	}

	ranking, err := h.uc.ProductivityRanking(r.Context(), from, to, limit)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ranking": ranking, "total": len(ranking)})
}

// DailyTrends は日次トレンドレポートを返します。
func (h *ReportingHandler) DailyTrends(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.uc.DailyTrends(r.Context(), from, to)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
