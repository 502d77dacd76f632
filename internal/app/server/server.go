package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"kpiboard/internal/domain/audit"
	"kpiboard/internal/domain/auth"
	"kpiboard/internal/domain/evaluation"
	"kpiboard/internal/domain/notifications"
	"kpiboard/internal/platform/config"
	"kpiboard/internal/platform/db"
	"kpiboard/internal/platform/jobs"
	"kpiboard/internal/platform/metrics"
	audithandler "kpiboard/internal/transport/http/handlers/audit"
	authhandler "kpiboard/internal/transport/http/handlers/auth"
	evaluationhandler "kpiboard/internal/transport/http/handlers/evaluation"
	notificationshandler "kpiboard/internal/transport/http/handlers/notifications"
	"kpiboard/internal/transport/http/middleware"
)

const shutdownTimeout = 10 * time.Second

// Pinger reports database readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Config        config.Config
	DB            Pinger
	Auth          *auth.Service
	Evaluations   evaluationhandler.Service
	Notifications notificationshandler.Inbox
	Audit         audithandler.Lister
	Metrics       *metrics.Collector
	Gatherer      prometheus.Gatherer
}

func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db connect failed: %w", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	collector := metrics.New(registry)
	auditService := audit.New(pool)
	inbox := notifications.New(notifications.NewStore(pool))
	evaluations := evaluation.NewService(evaluation.NewStore(pool), auditService, inbox, collector)

	jobService := jobs.New(jobs.NewRunLog(pool))
	jobService.Start(ctx)
	jobService.Schedule(ctx, jobs.JobEvaluationReminders, cfg.ReminderInterval, func(ctx context.Context) (any, error) {
		return evaluations.RemindPending(ctx)
	})

	deps := Deps{
		Config:        cfg,
		DB:            pool,
		Auth:          auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.TokenTTL),
		Evaluations:   evaluations,
		Notifications: inbox,
		Audit:         auditService,
		Metrics:       collector,
		Gatherer:      registry,
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("kpiboard server listening", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewRouter assembles the middleware chain and the versioned API.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}
	if deps.Auth != nil {
		router.Use(middleware.Auth(deps.Auth))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.DB == nil {
			http.Error(w, "db not configured", http.StatusServiceUnavailable)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := deps.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled && deps.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		if deps.Auth != nil {
			authhandler.NewHandler(deps.Auth).RegisterRoutes(r)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			if deps.Evaluations != nil {
				evaluationhandler.NewHandler(deps.Evaluations).RegisterRoutes(r)
			}
			if deps.Notifications != nil {
				notificationshandler.NewHandler(deps.Notifications).RegisterRoutes(r)
			}
			if deps.Audit != nil {
				audithandler.NewHandler(deps.Audit).RegisterRoutes(r)
			}
		})
	})

	return router
}
