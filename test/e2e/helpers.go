//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hunterapp/hunterd/internal/api/handlers"
	"github.com/hunterapp/hunterd/internal/errlog"
	"github.com/hunterapp/hunterd/internal/repository"
	"github.com/hunterapp/hunterd/internal/server"
	"github.com/hunterapp/hunterd/internal/service"
	"github.com/hunterapp/hunterd/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
)

const testAdminKey = "e2e-admin-key"

// TestEnv holds all resources needed for end-to-end tests: a real database,
// the fully wired service stack and an HTTP server in front of it.
type TestEnv struct {
	T          *testing.T
	Ctx        context.Context
	Pool       *pgxpool.Pool
	ServerURL  string
	HTTPClient *http.Client
	Errors     *errlog.Ring
}

// SetupEnv starts a PostgreSQL container, wires the full stack and serves it
// over a test HTTP server.
func SetupEnv(t *testing.T) *TestEnv {
	ctx := context.Background()

	pc := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { _ = pc.Terminate(ctx) })

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	t.Cleanup(pool.Close)

	termRepo := repository.NewLearnedTermRepository(pool)
	rankingSvc := service.NewRankingService(repository.NewRankingWeightRepository(pool))
	if err := rankingSvc.SeedDefaults(ctx); err != nil {
		t.Fatalf("failed to seed ranking weights: %v", err)
	}

	learningSvc := service.NewLearningService(repository.NewTxRunner(pool))
	usageSvc := service.NewUsageService(repository.NewUsageRepository(pool), 50)
	activitySvc := service.NewActivityService(repository.NewSearchActivityRepository(pool))
	dictionarySvc := service.NewDictionaryService(termRepo, rankingSvc)

	errors := errlog.NewRing(0)

	router := server.NewRouter(server.RouterConfig{
		AdminKey:          testAdminKey,
		Errors:            errors,
		DictionaryHandler: handlers.NewDictionaryHandler(dictionarySvc),
		LearningHandler:   handlers.NewLearningHandler(learningSvc),
		ActivityHandler:   handlers.NewActivityHandler(activitySvc),
		UsageHandler:      handlers.NewUsageHandler(usageSvc),
		AdminHandler:      handlers.NewAdminHandler(dictionarySvc, rankingSvc, activitySvc, errors),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &TestEnv{
		T:          t,
		Ctx:        ctx,
		Pool:       pool,
		ServerURL:  srv.URL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Errors:     errors,
	}
}

// Reset truncates all tables between test cases.
func (env *TestEnv) Reset() {
	if err := testutil.TruncateAll(env.Ctx, env.Pool); err != nil {
		env.T.Fatalf("failed to truncate tables: %v", err)
	}
}

// DoJSON issues a request with an optional JSON body and decodes the JSON
// response into out (when out is non-nil).
func (env *TestEnv) DoJSON(method, path string, body any, admin bool, out any) int {
	env.T.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			env.T.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(env.Ctx, method, env.ServerURL+path, reader)
	if err != nil {
		env.T.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("X-Admin-Key", testAdminKey)
	}

	resp, err := env.HTTPClient.Do(req)
	if err != nil {
		env.T.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		env.T.Fatalf("failed to read response body: %v", err)
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			env.T.Fatalf("failed to decode response %s: %v", string(raw), err)
		}
	}
	return resp.StatusCode
}

// Ingest posts one suggestion and fails the test on a non-202 response.
func (env *TestEnv) Ingest(term, category, userID string) {
	env.T.Helper()
	status := env.DoJSON(http.MethodPost, "/learning/ingest", map[string]string{
		"term":     term,
		"category": category,
		"user_id":  userID,
	}, false, nil)
	if status != http.StatusAccepted {
		env.T.Fatalf("ingest of %q returned status %d", term, status)
	}
}

// Dictionary fetches and decodes the sync payload.
func (env *TestEnv) Dictionary() handlers.DictionaryResponse {
	env.T.Helper()
	var resp struct {
		Data handlers.DictionaryResponse `json:"data"`
	}
	status := env.DoJSON(http.MethodGet, "/dictionary", nil, false, &resp)
	if status != http.StatusOK {
		env.T.Fatalf("dictionary sync returned status %d", status)
	}
	return resp.Data
}

// PendingTerms fetches the admin moderation queue.
func (env *TestEnv) PendingTerms() []*handlers.TermResponse {
	env.T.Helper()
	var resp struct {
		Data []*handlers.TermResponse `json:"data"`
	}
	status := env.DoJSON(http.MethodGet, "/admin/terms/pending", nil, true, &resp)
	if status != http.StatusOK {
		env.T.Fatalf("pending terms returned status %d", status)
	}
	return resp.Data
}

// Allowance asks whether the user may consume amount more scans.
func (env *TestEnv) Allowance(userID string, amount int) bool {
	env.T.Helper()
	var resp struct {
		Data handlers.AllowanceResponse `json:"data"`
	}
	path := fmt.Sprintf("/usage/allowance?user_id=%s&amount=%d", userID, amount)
	status := env.DoJSON(http.MethodGet, path, nil, false, &resp)
	if status != http.StatusOK {
		env.T.Fatalf("allowance returned status %d", status)
	}
	return resp.Data.Allowed
}

// RecordConsumption books amount scans against the user's ledger.
func (env *TestEnv) RecordConsumption(userID string, amount int) {
	env.T.Helper()
	status := env.DoJSON(http.MethodPost, "/usage/consumption", map[string]any{
		"user_id": userID,
		"amount":  amount,
	}, false, nil)
	if status != http.StatusOK {
		env.T.Fatalf("record consumption returned status %d", status)
	}
}
