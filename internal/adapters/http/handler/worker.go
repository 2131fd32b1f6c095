package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/ogurasousui/attendance-analytics/internal/core/worker"
)

// WorkerHandler はワーカーディレクトリ参照エンドポイントのハンドラです。
type WorkerHandler struct {
	uc     worker.UseCase
	logger *slog.Logger
}

// NewWorkerHandler は WorkerHandler を生成します。
func NewWorkerHandler(uc worker.UseCase, logger *slog.Logger) *WorkerHandler {
	return &WorkerHandler{uc: uc, logger: logger}
}

// Register はルートを登録します。
func (h *WorkerHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/users", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/users/workers/active", h.ActiveWorkers).Methods(http.MethodGet)
	r.HandleFunc("/api/users/worker/{worker_id}", h.GetByWorkerID).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}", h.Get).Methods(http.MethodGet)
}

type workerResponse struct {
	ID        string `json:"id"`
	WorkerID  string `json:"worker_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toWorkerResponse(w *worker.Worker) workerResponse {
	return workerResponse{
		ID:        w.ID,
		WorkerID:  w.WorkerID,
		Name:      w.Name,
		Email:     w.Email,
		Role:      w.Role,
		Status:    string(w.Status),
		CreatedAt: w.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: w.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func respondWorkers(w http.ResponseWriter, workers []*worker.Worker) {
	resp := make([]workerResponse, 0, len(workers))
	for _, item := range workers {
		resp = append(resp, toWorkerResponse(item))
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": resp, "total": len(resp)})
}

// List はワーカーの一覧を返します。
func (h *WorkerHandler) List(w http.ResponseWriter, r *http.Request) {
	in := worker.ListInput{}
	if role := r.URL.Query().Get("role"); role != "" {
		in.Role = &role
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := worker.Status(raw)
		in.Status = &status
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, h.logger, worker.ErrInvalidLimit)
			return
		}
		in.Limit = limit
	}

	workers, err := h.uc.List(r.Context(), in)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondWorkers(w, workers)
}

// Get は ID でワーカーを返します。
func (h *WorkerHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.uc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toWorkerResponse(found))
}

// GetByWorkerID は業務上のワーカー番号でワーカーを返します。
func (h *WorkerHandler) GetByWorkerID(w http.ResponseWriter, r *http.Request) {
	found, err := h.uc.GetByWorkerID(r.Context(), mux.Vars(r)["worker_id"])
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toWorkerResponse(found))
}

// ActiveWorkers は稼働中ワーカーの一覧を返します。
func (h *WorkerHandler) ActiveWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.uc.ActiveWorkers(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondWorkers(w, workers)
}
