// Package httpapi exposes the question-answering pipeline over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ordertwin/internal/domain"
	"ordertwin/internal/query"
)

// Answerer is the handler-facing subset of the query pipeline.
type Answerer interface {
	Answer(ctx context.Context, question string, topK int) (*query.Result, error)
}

// Handler serves the prompt API.
type Handler struct {
	answerer Answerer
	topK     int
	log      *slog.Logger
}

// NewHandler creates the HTTP handler with the given default topK.
func NewHandler(answerer Answerer, topK int, log *slog.Logger) *Handler {
	return &Handler{answerer: answerer, topK: topK, log: log}
}

// Routes builds the API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/prompt", h.prompt)
	return r
}

type promptRequest struct {
	Prompt string `json:"prompt"`
	TopK   int    `json:"top_k,omitempty"`
}

type promptResponse struct {
	Response      string     `json:"response"`
	Model         string     `json:"model"`
	CreatedAt     string     `json:"created_at"`
	Done          bool       `json:"done"`
	TotalDuration int64      `json:"total_duration,omitempty"`
	EvalCount     int        `json:"eval_count,omitempty"`
	EvalDuration  int64      `json:"eval_duration,omitempty"`
	RAGContext    ragContext `json:"rag_context"`
}

type ragContext struct {
	DocumentsFound int  `json:"documents_found"`
	HasContext     bool `json:"has_context"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) prompt(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := h.log.With("requestId", requestID)

	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "prompt is required"})
		return
	}
	topK := req.TopK
	if topK <= 0 {
		topK = h.topK
	}

	result, err := h.answerer.Answer(r.Context(), req.Prompt, topK)
	if err != nil {
		log.Error("prompt failed", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	log.Info("prompt answered", "documents", result.DocumentsFound)
	resp := promptResponse{
		Response: result.Answer,
		RAGContext: ragContext{
			DocumentsFound: result.DocumentsFound,
			HasContext:     result.HasContext,
		},
	}
	if gen := result.Generation; gen != nil {
		resp.Model = gen.Model
		resp.CreatedAt = gen.CreatedAt.Format(time.RFC3339)
		resp.Done = gen.Done
		resp.TotalDuration = gen.TotalDuration
		resp.EvalCount = gen.EvalCount
		resp.EvalDuration = gen.EvalDuration
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
