package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"LadderSentinel/internal/ladder"
	"LadderSentinel/internal/metrics"
	"LadderSentinel/internal/model"
)

const maxBodyBytes = 1 << 16

// Server exposes the ladder computation over HTTP.
type Server struct {
	params  ladder.Params
	base    model.TradeContext
	limiter *rate.Limiter
	logger  zerolog.Logger
	http    *http.Server
}

// New creates a Server. Request bodies are decoded over base, so it supplies
// the values of fields a request omits. rps <= 0 disables rate limiting.
func New(addr string, params ladder.Params, base model.TradeContext, rps float64, burst int) *Server {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	s := &Server{
		params:  params,
		base:    base,
		limiter: rate.NewLimiter(limit, burst),
		logger:  log.With().Str("component", "server").Logger(),
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/ladder", s.handleLadder)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return s.withRequestID(mux)
}

// ListenAndServe blocks until the server stops. It returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.http.Addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Error      string             `json:"error"`
	Violations []ladder.Violation `json:"violations,omitempty"`
}

// handleLadder handles POST /api/v1/ladder
func (s *Server) handleLadder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	if !s.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		return
	}

	ctx := s.base
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ctx); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	plan, err := metrics.Compute("http", ctx, s.params)
	if err != nil {
		var iie *ladder.InvalidInputError
		if errors.As(err, &iie) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: ladder.ErrInvalidInput.Error(), Violations: iie.Violations})
			return
		}
		s.logger.Error().Err(err).Str("request_id", w.Header().Get("X-Request-ID")).Msg("compute ladder")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	s.logger.Debug().
		Str("request_id", w.Header().Get("X-Request-ID")).
		Str("side", string(plan.Side)).
		Int("rungs", plan.RungCount).
		Msg("ladder computed")
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}
