package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hunterapp/hunterd/internal/api"
	"github.com/hunterapp/hunterd/internal/domain"
	"github.com/hunterapp/hunterd/internal/errlog"
)

type AdminDictionaryService interface {
	Pending(ctx context.Context) ([]*domain.LearnedTerm, error)
	Get(ctx context.Context, id string) (*domain.LearnedTerm, error)
	Approve(ctx context.Context, id string) error
	ApproveAll(ctx context.Context) (int, error)
	Update(ctx context.Context, id, term, definition, category string) error
	Delete(ctx context.Context, id string) error
}

type AdminRankingService interface {
	GetAll(ctx context.Context) (map[string]float64, error)
	SetMany(ctx context.Context, weights map[string]float64) error
	ResetToDefaults(ctx context.Context) error
}

type AdminActivityService interface {
	TopSearches(ctx context.Context, limit int) ([]*domain.SearchActivity, error)
}

// AdminHandler backs the moderation surface: the pending-term queue, ranking
// weight edits, search statistics and the recent-error view.
type AdminHandler struct {
	dict     AdminDictionaryService
	ranking  AdminRankingService
	activity AdminActivityService
	errors   errlog.Sink
}

func NewAdminHandler(dict AdminDictionaryService, ranking AdminRankingService, activity AdminActivityService, errors errlog.Sink) *AdminHandler {
	return &AdminHandler{dict: dict, ranking: ranking, activity: activity, errors: errors}
}

func (h *AdminHandler) PendingTerms(w http.ResponseWriter, r *http.Request) {
	pending, err := h.dict.Pending(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	terms := make([]*TermResponse, 0, len(pending))
	for _, t := range pending {
		terms = append(terms, termToResponse(t))
	}
	api.Success(w, http.StatusOK, terms)
}

func (h *AdminHandler) GetTerm(w http.ResponseWriter, r *http.Request) {
	term, err := h.dict.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, termToResponse(term))
}

func (h *AdminHandler) ApproveTerm(w http.ResponseWriter, r *http.Request) {
	if err := h.dict.Approve(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (h *AdminHandler) ApproveAllTerms(w http.ResponseWriter, r *http.Request) {
	count, err := h.dict.ApproveAll(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, map[string]int{"approved": count})
}

type UpdateTermRequest struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Category   string `json:"category"`
}

func (h *AdminHandler) UpdateTerm(w http.ResponseWriter, r *http.Request) {
	var req UpdateTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Term == "" {
		api.Error(w, http.StatusBadRequest, "term is required")
		return
	}

	if err := h.dict.Update(r.Context(), chi.URLParam(r, "id"), req.Term, req.Definition, req.Category); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *AdminHandler) DeleteTerm(w http.ResponseWriter, r *http.Request) {
	if err := h.dict.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) GetWeights(w http.ResponseWriter, r *http.Request) {
	weights, err := h.ranking.GetAll(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, weights)
}

func (h *AdminHandler) SetWeights(w http.ResponseWriter, r *http.Request) {
	var weights map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&weights); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(weights) == 0 {
		api.Error(w, http.StatusBadRequest, "at least one weight is required")
		return
	}

	if err := h.ranking.SetMany(r.Context(), weights); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *AdminHandler) ResetWeights(w http.ResponseWriter, r *http.Request) {
	if err := h.ranking.ResetToDefaults(r.Context()); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, domain.DefaultRankingWeights())
}

type SearchActivityResponse struct {
	Term           string `json:"term"`
	Count          int    `json:"count"`
	LastSearchedAt string `json:"last_searched_at"`
}

func (h *AdminHandler) TopSearches(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activity.TopSearches(r.Context(), 50)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]*SearchActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, &SearchActivityResponse{
			Term:           a.Term,
			Count:          a.Count,
			LastSearchedAt: a.LastSearchedAt.UTC().Format(time.RFC3339),
		})
	}
	api.Success(w, http.StatusOK, out)
}

func (h *AdminHandler) RecentErrors(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.errors.Recent())
}

func (h *AdminHandler) ClearErrors(w http.ResponseWriter, r *http.Request) {
	h.errors.Clear()
	api.Success(w, http.StatusOK, map[string]string{"status": "cleared"})
}
