package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/config"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/pkg/logger"
)

// Server wraps http.Server with the service's timeouts and shutdown
// handling.
type Server struct {
	httpServer *http.Server
}

func NewServer(cfg *config.Config, handler http.Handler) *Server {
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func (s *Server) Start() error {
	log := logger.WithComponent("server")
	log.Info().Str("addr", s.httpServer.Addr).Msg("Starting HTTP server")

	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	log := logger.WithComponent("server")
	log.Info().Msg("Shutting down HTTP server...")

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
