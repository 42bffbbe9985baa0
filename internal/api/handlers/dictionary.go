package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hunterapp/hunterd/internal/api"
	"github.com/hunterapp/hunterd/internal/domain"
	"github.com/hunterapp/hunterd/internal/service"
)

type DictionaryService interface {
	Sync(ctx context.Context) (*service.DictionaryPayload, error)
}

// DictionaryHandler serves the vocabulary sync payload the mobile client
// polls: approved terms plus the current ranking weights.
type DictionaryHandler struct {
	svc DictionaryService
}

func NewDictionaryHandler(svc DictionaryService) *DictionaryHandler {
	return &DictionaryHandler{svc: svc}
}

type TermResponse struct {
	ID         string `json:"id"`
	Term       string `json:"term"`
	Category   string `json:"category"`
	Definition string `json:"definition,omitempty"`
	Frequency  int    `json:"frequency"`
	IsApproved bool   `json:"is_approved"`
	LastSeen   string `json:"last_seen"`
}

type DictionaryResponse struct {
	Terms   []*TermResponse    `json:"terms"`
	Weights map[string]float64 `json:"weights"`
}

func termToResponse(t *domain.LearnedTerm) *TermResponse {
	return &TermResponse{
		ID:         t.ID,
		Term:       t.Term,
		Category:   t.Category,
		Definition: t.Definition,
		Frequency:  t.Frequency,
		IsApproved: t.IsApproved,
		LastSeen:   t.LastSeen.UTC().Format(time.RFC3339),
	}
}

func (h *DictionaryHandler) Sync(w http.ResponseWriter, r *http.Request) {
	payload, err := h.svc.Sync(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	terms := make([]*TermResponse, 0, len(payload.Terms))
	for _, t := range payload.Terms {
		terms = append(terms, termToResponse(t))
	}

	api.Success(w, http.StatusOK, DictionaryResponse{Terms: terms, Weights: payload.Weights})
}
