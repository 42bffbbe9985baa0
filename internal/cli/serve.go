package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hunterapp/hunterd/internal/api/handlers"
	"github.com/hunterapp/hunterd/internal/config"
	"github.com/hunterapp/hunterd/internal/database"
	"github.com/hunterapp/hunterd/internal/errlog"
	"github.com/hunterapp/hunterd/internal/repository"
	"github.com/hunterapp/hunterd/internal/repository/mongodb"
	"github.com/hunterapp/hunterd/internal/server"
	"github.com/hunterapp/hunterd/internal/service"
	"github.com/hunterapp/hunterd/internal/telemetry"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the hunterd API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup (postgres backend)")

	return cmd
}

// backendServices bundles the storage-bound service set so the wiring below
// is identical regardless of which backend was selected.
type backendServices struct {
	learning   *service.LearningService
	usage      *service.UsageService
	activity   *service.ActivityService
	ranking    *service.RankingService
	dictionary *service.DictionaryService
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	var svcs *backendServices
	if cfg.UsesPostgres() {
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		svcs, err = connectPostgres(ctx, cfg, noMigrate)
	} else {
		svcs, err = connectMongo(ctx, cfg)
	}
	if err != nil {
		return err
	}
	log.Printf("storage backend: %s", cfg.StorageBackend)

	svcs.learning.SetDebug(cfg.Debug)

	// A fresh deployment serves the factory ranking weights.
	if err := svcs.ranking.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed ranking weights: %w", err)
	}

	errors := errlog.NewRing(0)

	routerCfg := server.RouterConfig{
		AdminKey:          cfg.AdminKey,
		Errors:            errors,
		DictionaryHandler: handlers.NewDictionaryHandler(svcs.dictionary),
		LearningHandler:   handlers.NewLearningHandler(svcs.learning),
		ActivityHandler:   handlers.NewActivityHandler(svcs.activity),
		UsageHandler:      handlers.NewUsageHandler(svcs.usage),
		AdminHandler:      handlers.NewAdminHandler(svcs.dictionary, svcs.ranking, svcs.activity, errors),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func connectPostgres(ctx context.Context, cfg *config.Config, noMigrate bool) (*backendServices, error) {
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Println("connected to database")

	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	termRepo := repository.NewLearnedTermRepository(pool)
	rankingSvc := service.NewRankingService(repository.NewRankingWeightRepository(pool))

	return &backendServices{
		learning:   service.NewLearningService(repository.NewTxRunner(pool)),
		usage:      service.NewUsageService(repository.NewUsageRepository(pool), cfg.MonthlyScanLimit),
		activity:   service.NewActivityService(repository.NewSearchActivityRepository(pool)),
		ranking:    rankingSvc,
		dictionary: service.NewDictionaryService(termRepo, rankingSvc),
	}, nil
}

func connectMongo(ctx context.Context, cfg *config.Config) (*backendServices, error) {
	db, _, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	log.Println("connected to mongodb")

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return nil, err
	}

	termRepo := mongodb.NewLearnedTermRepository(db)
	rankingSvc := service.NewRankingService(mongodb.NewRankingWeightRepository(db))

	return &backendServices{
		learning:   service.NewLearningService(mongodb.NewTxRunner(db)),
		usage:      service.NewUsageService(mongodb.NewUsageRepository(db), cfg.MonthlyScanLimit),
		activity:   service.NewActivityService(mongodb.NewSearchActivityRepository(db)),
		ranking:    rankingSvc,
		dictionary: service.NewDictionaryService(termRepo, rankingSvc),
	}, nil
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
