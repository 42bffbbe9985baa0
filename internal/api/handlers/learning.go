package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hunterapp/hunterd/internal/api"
)

type LearningService interface {
	Ingest(ctx context.Context, term, category, userID string) error
}

// LearningHandler accepts AI term suggestions. Validation rejection is
// silent by design, so the endpoint acknowledges every well-formed request.
type LearningHandler struct {
	svc LearningService
}

func NewLearningHandler(svc LearningService) *LearningHandler {
	return &LearningHandler{svc: svc}
}

type IngestRequest struct {
	Term     string `json:"term"`
	Category string `json:"category"`
	UserID   string `json:"user_id"`
}

func (h *LearningHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Ingest(r.Context(), req.Term, req.Category, req.UserID); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
