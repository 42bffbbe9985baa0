package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hunterapp/hunterd/internal/api"
	"github.com/hunterapp/hunterd/internal/api/handlers"
	"github.com/hunterapp/hunterd/internal/api/middleware"
	"github.com/hunterapp/hunterd/internal/errlog"
)

type RouterConfig struct {
	AdminKey          string
	Errors            errlog.Sink
	DictionaryHandler *handlers.DictionaryHandler
	LearningHandler   *handlers.LearningHandler
	ActivityHandler   *handlers.ActivityHandler
	UsageHandler      *handlers.UsageHandler
	AdminHandler      *handlers.AdminHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing)
	r.Use(middleware.AccessLog(cfg.Errors))
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/dictionary", cfg.DictionaryHandler.Sync)
	r.Post("/learning/ingest", cfg.LearningHandler.Ingest)
	r.Post("/search/activity", cfg.ActivityHandler.Record)

	r.Route("/usage", func(r chi.Router) {
		r.Get("/allowance", cfg.UsageHandler.Allowance)
		r.Post("/consumption", cfg.UsageHandler.RecordConsumption)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminKeyAuth(cfg.AdminKey))

		r.Route("/terms", func(r chi.Router) {
			r.Get("/pending", cfg.AdminHandler.PendingTerms)
			r.Post("/approve-all", cfg.AdminHandler.ApproveAllTerms)
			r.Get("/{id}", cfg.AdminHandler.GetTerm)
			r.Post("/{id}/approve", cfg.AdminHandler.ApproveTerm)
			r.Put("/{id}", cfg.AdminHandler.UpdateTerm)
			r.Delete("/{id}", cfg.AdminHandler.DeleteTerm)
		})

		r.Route("/weights", func(r chi.Router) {
			r.Get("/", cfg.AdminHandler.GetWeights)
			r.Put("/", cfg.AdminHandler.SetWeights)
			r.Post("/reset", cfg.AdminHandler.ResetWeights)
		})

		r.Get("/searches", cfg.AdminHandler.TopSearches)
		r.Get("/errors", cfg.AdminHandler.RecentErrors)
		r.Delete("/errors", cfg.AdminHandler.ClearErrors)
	})

	return r
}
