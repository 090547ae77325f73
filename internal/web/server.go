// Package web serves the JSON HTTP API.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/kitroom/internal/metrics"
	"github.com/vbonduro/kitroom/internal/service"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles what the handlers call into.
type Services struct {
	Ledger  *service.LedgerService
	Roster  *service.RosterService
	Memos   *service.MemoService
	Records *service.Records
	Images  *service.Images
	// Health is pinged by /healthz, usually the record store backend.
	Health pinger
}

type Server struct {
	ledger  *service.LedgerService
	roster  *service.RosterService
	memos   *service.MemoService
	records *service.Records
	images  *service.Images
	health  pinger
	metrics *metrics.Metrics
	mux     *http.ServeMux
	logger  *slog.Logger
}

func NewServer(svcs Services, m *metrics.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		ledger:  svcs.Ledger,
		roster:  svcs.Roster,
		memos:   svcs.Memos,
		records: svcs.Records,
		images:  svcs.Images,
		health:  svcs.Health,
		metrics: m,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
	s.mux.HandleFunc("GET /vocab", s.handleVocab)

	s.mux.HandleFunc("GET /stock", s.handleListStock)
	s.mux.HandleFunc("POST /stock/inbound", s.handleInbound)
	s.mux.HandleFunc("PATCH /stock/{id}", s.handleUpdateStock)
	s.mux.HandleFunc("DELETE /stock/{id}", s.handleDeleteStock)

	s.mux.HandleFunc("POST /distributions", s.handleDistribute)
	s.mux.HandleFunc("GET /distributions", s.handleListDistributions)
	s.mux.HandleFunc("DELETE /distributions/{id}", s.handleDeleteDistribution)
	s.mux.HandleFunc("GET /inbound", s.handleListInbound)
	s.mux.HandleFunc("DELETE /inbound/{id}", s.handleDeleteInbound)
	s.mux.HandleFunc("POST /delete/{collection}", s.handleBulkDelete)

	s.mux.HandleFunc("GET /roster/{kind}", s.handleListRoster)
	s.mux.HandleFunc("POST /roster/{kind}", s.handleAddPerson)
	s.mux.HandleFunc("GET /roster/{kind}/card", s.handlePersonCard)
	s.mux.HandleFunc("PUT /roster/{kind}/{id}", s.handleUpdatePerson)
	s.mux.HandleFunc("DELETE /roster/{kind}/{id}", s.handleDeletePerson)

	s.mux.HandleFunc("GET /memos", s.handleListMemos)
	s.mux.HandleFunc("POST /memos", s.handleAddMemo)
	s.mux.HandleFunc("DELETE /memos/{id}", s.handleDeleteMemo)

	s.mux.HandleFunc("GET /images/{key}", s.handleGetImage)
}

// securityHeaders sets hardening headers on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger logs each request and records it in m. The route pattern is
// read after the mux has matched it.
func requestLogger(logger *slog.Logger, m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)
		m.RecordHTTPRequest(r.Method, r.Pattern, rec.status, elapsed)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, s.metrics, securityHeaders(s.mux)).ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
