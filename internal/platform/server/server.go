package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ogurasousui/attendance-analytics/internal/platform/config"
)

// Server は HTTP サーバのライフサイクルを管理します。
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New は設定済みルーターから Server を生成します。
func New(logger *slog.Logger, cfg config.ServerConfig, handler http.Handler) *Server {
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &Server{httpServer: httpServer, logger: logger}
}

// Start はリクエストの受付を開始します。
func (s *Server) Start() error {
	s.logger.Info("starting http server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown はアクティブな接続を待ってからサーバを停止します。
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
