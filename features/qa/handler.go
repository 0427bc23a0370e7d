package qa

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"askdoc/internal/adapter/gemini"
	"askdoc/internal/document"
	"askdoc/internal/ingest"
	"askdoc/internal/middleware"
	"askdoc/internal/vector"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Documents string   `json:"documents"`
		Questions []string `json:"questions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	if req.Documents == "" {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "documents is required", http.StatusBadRequest)
		return
	}
	if len(req.Questions) == 0 {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "questions must not be empty", http.StatusBadRequest)
		return
	}

	answers, err := h.service.Answer(r.Context(), req.Documents, req.Questions)
	if err != nil {
		h.writePipelineError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"answers": answers}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writePipelineError maps pipeline failures onto HTTP statuses: problems
// with the document itself are the client's (400), everything behind the
// service boundary is ours (500).
func (h *Handler) writePipelineError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, document.ErrFetchFailed):
		h.writeError(ctx, w, "FETCH_ERROR", err.Error(), http.StatusBadRequest)
	case errors.Is(err, document.ErrUnsupportedFormat),
		errors.Is(err, document.ErrExtractFailed),
		errors.Is(err, document.ErrNoExtractableText),
		errors.Is(err, ingest.ErrNoChunks):
		h.writeError(ctx, w, "DOCUMENT_ERROR", err.Error(), http.StatusBadRequest)
	case errors.Is(err, document.ErrPDFToolNotFound):
		slog.ErrorContext(ctx, "pdf tool missing", "error", err)
		h.writeError(ctx, w, "INTERNAL_ERROR", "PDF extraction is not available", http.StatusInternalServerError)
	case errors.Is(err, vector.ErrUnavailable):
		slog.ErrorContext(ctx, "vector index unavailable", "error", err)
		h.writeError(ctx, w, "INDEX_UNAVAILABLE", "Vector index unavailable", http.StatusInternalServerError)
	case errors.Is(err, gemini.ErrModelCall):
		slog.ErrorContext(ctx, "model call failed", "error", err)
		h.writeError(ctx, w, "MODEL_ERROR", "Generative model call failed", http.StatusInternalServerError)
	default:
		slog.ErrorContext(ctx, "qa run failed", "error", err)
		h.writeError(ctx, w, "INTERNAL_ERROR", "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"correlationId": middleware.GetCorrelationID(ctx),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
