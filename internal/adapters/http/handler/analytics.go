package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ogurasousui/attendance-analytics/internal/core/analytics"
)

// AnalyticsHandler はクラスタリング分析系エンドポイントのハンドラです。
type AnalyticsHandler struct {
	uc     analytics.UseCase
	logger *slog.Logger
}

// NewAnalyticsHandler は AnalyticsHandler を生成します。
func NewAnalyticsHandler(uc analytics.UseCase, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc, logger: logger}
}

// Register はルートを登録します。
func (h *AnalyticsHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/ml/clustering/analyze", h.Analyze).Methods(http.MethodPost)
	r.HandleFunc("/api/ml/clustering/quick-analysis", h.QuickAnalysis).Methods(http.MethodGet)
	r.HandleFunc("/api/ml/clustering/user/{user_id}/predict", h.Predict).Methods(http.MethodGet)
	r.HandleFunc("/api/ml/clustering/batch-predict", h.BatchPredict).Methods(http.MethodPost)
	r.HandleFunc("/api/ml/clustering/model-info", h.ModelInfo).Methods(http.MethodGet)
	r.HandleFunc("/api/ml/performance/{user_id}/metrics", h.Metrics).Methods(http.MethodGet)
	r.HandleFunc("/api/ml/performance/{user_id}/insights", h.Insights).Methods(http.MethodGet)
}

type analyzeRequest struct {
	UserIDs   []string `json:"user_ids"`
	DateFrom  string   `json:"date_from"`
	DateTo    string   `json:"date_to"`
	NClusters int      `json:"n_clusters"`
}

type batchPredictRequest struct {
	UserIDs []string `json:"user_ids"`
}

// Analyze はコホート全体のクラスタリング分析を実行します。
func (h *AnalyticsHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	from, err := parseDateBody(req.DateFrom, "date_from")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	to, err := parseDateBody(req.DateTo, "date_to")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	resp, err := h.uc.ClusterCohort(r.Context(), analytics.ClusteringInput{
		UserIDs:   req.UserIDs,
		From:      from,
		To:        to,
		NClusters: req.NClusters,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// QuickAnalysis は全ワーカー・全期間・既定クラスタ数の分析を実行します。
func (h *AnalyticsHandler) QuickAnalysis(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.ClusterCohort(r.Context(), analytics.ClusteringInput{})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Predict は学習済みモデルで 1 ワーカーのクラスタを判定します。
func (h *AnalyticsHandler) Predict(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	result, err := h.uc.PredictCluster(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// BatchPredict は複数ワーカーのクラスタを一括判定します。
func (h *AnalyticsHandler) BatchPredict(w http.ResponseWriter, r *http.Request) {
	var req batchPredictRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	results, err := h.uc.BatchPredict(r.Context(), req.UserIDs)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"predictions": results})
}

// ModelInfo は現在のモデルメタ情報を返します。
func (h *AnalyticsHandler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.uc.ModelInfo())
}

// Metrics は 1 ワーカーのパフォーマンス指標を返します。
func (h *AnalyticsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
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

	metrics, err := h.uc.ComputeMetrics(r.Context(), userID, from, to)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

// Insights は 1 ワーカーの所見と改善提案を返します。
func (h *AnalyticsHandler) Insights(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	insights, err := h.uc.GenerateInsights(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, insights)
}

func parseDateBody(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, &fieldError{field: field}
	}
	t = t.UTC()
	return &t, nil
}

type fieldError struct {
	field string
}

func (e *fieldError) Error() string {
	return e.field + " must be YYYY-MM-DD"
}

func (e *fieldError) Is(target error) bool {
	return target == errInvalidBody
}
