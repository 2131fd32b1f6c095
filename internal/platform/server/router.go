package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httphandler "github.com/ogurasousui/attendance-analytics/internal/adapters/http/handler"
	"github.com/ogurasousui/attendance-analytics/internal/platform/config"
	"github.com/ogurasousui/attendance-analytics/internal/platform/observability"
)

// Pinger はヘルスチェック時の疎通確認の抽象です。
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps はルーター構築に必要な依存の束です。
type RouterDeps struct {
	Analytics  *httphandler.AnalyticsHandler
	Attendance *httphandler.AttendanceHandler
	Worker     *httphandler.WorkerHandler
	Reporting  *httphandler.ReportingHandler
	Metrics    *observability.Metrics
	DB         Pinger
	Logger     *slog.Logger
}

// NewRouter は全エンドポイントを束ねたルーターを生成します。
func NewRouter(cfg config.ServerConfig, deps RouterDeps) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", healthHandler(deps.DB)).Methods(http.MethodGet)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(requestLogging(deps.Logger))

	deps.Analytics.Register(r)
	deps.Attendance.Register(r)
	deps.Worker.Register(r)
	deps.Reporting.Register(r)

	return gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(cfg.AllowedOrigins),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := `{"status":"ok"}`
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body = `{"status":"degraded","reason":"database unreachable"}`
			}
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func requestLogging(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start),
			)
		})
	}
}
