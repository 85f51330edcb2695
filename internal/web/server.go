package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/varun2123/client-wealth-insight/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	router  *http.ServeMux
	server  *http.Server
	service *usecase.PortfolioService
	hub     *streamHub
	metrics *Metrics
	logger  *zap.Logger
	started time.Time
}

func NewServer(port int, service *usecase.PortfolioService, metrics *Metrics, logger *zap.Logger) *Server {
	s := &Server{
		router:  http.NewServeMux(),
		service: service,
		hub:     newStreamHub(logger, metrics),
		metrics: metrics,
		logger:  logger,
		started: time.Now(),
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}

	service.Subscribe(s.hub.Broadcast)
	return s
}

func (s *Server) routes() {
	// Portfolio
	s.router.HandleFunc("GET /api/summary", s.metrics.instrument("summary", s.handleSummary))
	s.router.HandleFunc("GET /api/positions", s.metrics.instrument("positions", s.handlePositions))
	s.router.HandleFunc("GET /api/cash", s.metrics.instrument("cash", s.handleCash))

	// Trades
	s.router.HandleFunc("GET /api/trades", s.metrics.instrument("trades", s.handleListTrades))
	s.router.HandleFunc("POST /api/trades", s.metrics.instrument("record_trade", s.handleRecordTrade))

	// Analytics
	s.router.HandleFunc("GET /api/risk", s.metrics.instrument("risk", s.handleRisk))
	s.router.HandleFunc("GET /api/benchmarks", s.metrics.instrument("benchmarks", s.handleBenchmarks))
	s.router.HandleFunc("POST /api/observations", s.metrics.instrument("record_observation", s.handleRecordObservation))

	// Import
	s.router.HandleFunc("POST /api/import", s.metrics.instrument("import", s.handleImport))

	// Streaming
	s.router.HandleFunc("GET /ws", s.handleStream)

	// Operational
	s.router.HandleFunc("GET /healthz", s.handleHealth)
	s.router.Handle("GET /metrics", promhttp.Handler())
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	s.hub.handleWS(w, r, s.service.Summary())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
