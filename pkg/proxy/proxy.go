// Package proxy exposes the token, cost, summarize and chat operations over
// HTTP.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tokenwise/tokenwise/pkg/chat"
	"github.com/tokenwise/tokenwise/pkg/config"
	"github.com/tokenwise/tokenwise/pkg/models"
	"github.com/tokenwise/tokenwise/pkg/router"
	"github.com/tokenwise/tokenwise/pkg/summarize"
	"github.com/tokenwise/tokenwise/pkg/tokens"
)

// Server is the tokenwise HTTP gateway.
type Server struct {
	cfg        *config.Config
	router     *router.Router
	counter    *tokens.Counter
	summarizer *summarize.Summarizer
	responder  *chat.Responder
	mux        *http.ServeMux
	handler    http.Handler
}

// New creates a Server wired with all dependencies.
func New(cfg *config.Config, r *router.Router, counter *tokens.Counter, summarizer *summarize.Summarizer, responder *chat.Responder) *Server {
	s := &Server{
		cfg:        cfg,
		router:     r,
		counter:    counter,
		summarizer: summarizer,
		responder:  responder,
		mux:        http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /models", s.handleModels)
	s.mux.HandleFunc("/tokenize", s.handleTokenize)
	s.mux.HandleFunc("/tokens", s.handleTokenize)
	s.mux.HandleFunc("/tokens/", s.handleTokenize)
	s.mux.HandleFunc("/generate", s.handleGenerate)
	s.mux.HandleFunc("/optimizer/summarize", s.handleSummarize)

	s.handler = chain(s.mux,
		withRequestID,
		withRecover,
		withAccessLog,
		withCORS(cfg.Server.CORSOrigins),
		withTimeout(cfg.Server.RequestTimeout),
	)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe starts the server with graceful shutdown support.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("tokenwise listening", "addr", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		timeout := s.cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		slog.Info("shutting down", "timeout", timeout)
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// decodeBody reads a JSON request body into v, rejecting unknown methods
// and oversized or malformed bodies.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	if limit := s.cfg.Server.MaxBodyBytes; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// statusFor maps a core error to an HTTP status: caller mistakes are 4xx,
// provider failures 5xx.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, models.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSONError(w, statusFor(err), err.Error())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorBody{Error: errorDetail{Message: message, Type: "tokenwise_error", Code: code}})
}
