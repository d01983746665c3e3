package proxy

import (
	"net/http"

	"github.com/tokenwise/tokenwise/pkg/models"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the tokenwise gateway. POST /tokenize, /generate or /optimizer/summarize; GET /models lists supported models.",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	entries := s.router.Table().Entries()
	out := make([]models.ModelInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.NewModelInfo(e.Model, e.Name, e.Provider, e.Unit, e.Input, e.Output, e.ContextWindow, s.router.Implemented(e.Provider)))
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": out})
}

func (s *Server) handleTokenize(w http.ResponseWriter, r *http.Request) {
	var req models.TokenizeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Model == "" {
		req.Model = s.cfg.DefaultModel
	}

	est, err := s.counter.Estimate(r.Context(), req.Text, req.Model, req.OutputTokens, req.Detailed, req.Currency)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewTokenizeResponse(est, req.Detailed))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	text, err := s.responder.Respond(r.Context(), req.Messages)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.GenerateResponse{GeneratedText: text})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req models.SummarizeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Model == "" {
		req.Model = s.cfg.DefaultModel
	}

	writeJSON(w, http.StatusOK, s.summarizer.Optimize(r.Context(), req.Text, req.Model))
}
