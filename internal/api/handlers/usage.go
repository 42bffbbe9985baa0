package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hunterapp/hunterd/internal/api"
)

type UsageService interface {
	CanConsume(ctx context.Context, userID string, amount int) (bool, error)
	RecordConsumption(ctx context.Context, userID string, amount int) error
}

// UsageHandler exposes the consumption ledger to the billable-operation
// caller: an admission check before the work, a consumption record after it.
type UsageHandler struct {
	svc UsageService
}

func NewUsageHandler(svc UsageService) *UsageHandler {
	return &UsageHandler{svc: svc}
}

type AllowanceResponse struct {
	Allowed bool `json:"allowed"`
}

func (h *UsageHandler) Allowance(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		api.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	amount := 1
	if raw := r.URL.Query().Get("amount"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			api.Error(w, http.StatusBadRequest, "amount must be a non-negative integer")
			return
		}
		amount = parsed
	}

	allowed, err := h.svc.CanConsume(r.Context(), userID, amount)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, AllowanceResponse{Allowed: allowed})
}

type RecordConsumptionRequest struct {
	UserID string `json:"user_id"`
	Amount int    `json:"amount"`
}

func (h *UsageHandler) RecordConsumption(w http.ResponseWriter, r *http.Request) {
	var req RecordConsumptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		api.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Amount < 0 {
		api.Error(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	if err := h.svc.RecordConsumption(r.Context(), req.UserID, req.Amount); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]string{"status": "recorded"})
}
