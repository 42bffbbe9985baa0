package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hunterapp/hunterd/internal/api"
)

type ActivityService interface {
	Record(ctx context.Context, terms []string) error
}

// ActivityHandler records which resolved search terms were actually queried.
type ActivityHandler struct {
	svc ActivityService
}

func NewActivityHandler(svc ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

type RecordActivityRequest struct {
	Terms []string `json:"terms"`
}

func (h *ActivityHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Record(r.Context(), req.Terms); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}
