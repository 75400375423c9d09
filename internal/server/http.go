package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cre-scout/loopnet-mcp/internal/metrics"
)

// OpsServer serves the operational endpoints (health, metrics) on a side
// listener, separate from the MCP stdio transport.
type OpsServer struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewOpsServer builds the operational HTTP server listening on addr.
func NewOpsServer(addr string, logger *zap.Logger) *OpsServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", metrics.Handler())

	return &OpsServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the router, primarily for tests.
func (o *OpsServer) Handler() http.Handler {
	return o.srv.Handler
}

// Start runs the listener until Shutdown. It returns on listener failure;
// a clean shutdown returns nil.
func (o *OpsServer) Start() error {
	o.logger.Info("ops server starting", zap.String("addr", o.srv.Addr))
	if err := o.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (o *OpsServer) Shutdown(ctx context.Context) error {
	return o.srv.Shutdown(ctx)
}
