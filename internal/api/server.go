// Package api serves heart-disease predictions over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"heartrisk/internal/inference"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    Config
	inv    *inference.Invoker
	log    *zap.Logger
	engine *gin.Engine
}

func NewServer(cfg Config, inv *inference.Invoker, log *zap.Logger) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	s := &Server{cfg: cfg, inv: inv, log: log, engine: gin.New()}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.Use(requestID(), accessLog(s.log), recovery(s.log))

	r.GET("/health", s.health)
	r.GET("/schema", s.schema)
	r.GET("/model", s.model)

	api := r.Group("/")
	api.Use(apiKey(s.cfg.APIKey))
	api.POST("/predict", s.predict)
	api.POST("/predict/vector", s.predictVector)
	api.POST("/batch", s.batch)
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting server", zap.String("port", s.cfg.Port), zap.String("model", s.inv.Handle().Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server...")
	timeout := time.Duration(s.cfg.ShutdownSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
