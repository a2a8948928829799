package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Deepak-Sharma-2006/tessera-backend-sub000/cmd/server/docs" // swagger docs
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/adapter/outbound/postgres"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/config"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/database"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/scheduler"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/telemetry"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/middleware"
)

// Job names.
const (
	JobReconcile = "recruitment.reconcile"
	JobCleanup   = "recruitment.cleanup"
)

// App represents the application.
type App struct {
	config *config.Config
	deps   *Dependencies
	router *gin.Engine

	cleanup           func()
	shutdownTelemetry telemetry.ShutdownFunc
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	deps, cleanup, err := InitializeDependencies(cfg)
	if err != nil {
		_ = shutdownTelemetry(ctx)
		return nil, fmt.Errorf("init dependencies: %w", err)
	}

	app := &App{
		config:            cfg,
		deps:              deps,
		cleanup:           cleanup,
		shutdownTelemetry: shutdownTelemetry,
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, deps.DB); err != nil {
			app.Stop()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	// Domain events fan out to Redis pub/sub.
	deps.EventBus.Register(deps.EventHandler)

	if err := app.registerJobs(); err != nil {
		app.Stop()
		return nil, fmt.Errorf("register jobs: %w", err)
	}

	app.router = app.setupRouter()
	app.registerRoutes()

	return app, nil
}

// registerJobs schedules the reconcile pass and the long-stop cleanup.
func (a *App) registerJobs() error {
	rc := a.config.Recruitment
	domain := a.deps.RecruitmentDomain
	log := a.deps.ZapLogger.Named("jobs")

	jobs := []scheduler.Job{
		{
			Name:     JobReconcile,
			Interval: rc.ReconcileInterval,
			LockTTL:  rc.JobLockTTL,
			Run: func(ctx context.Context) error {
				report, err := domain.Reconcile(ctx)
				if err != nil {
					return err
				}
				if report.Failed > 0 {
					log.Warn("reconcile pass had failures", zap.Int("failed", report.Failed))
				}
				return nil
			},
		},
		{
			Name:       JobCleanup,
			Interval:   rc.CleanupInterval,
			RunOnStart: true,
			Run: func(ctx context.Context) error {
				_, err := domain.CleanupExpired(ctx)
				return err
			},
		},
	}
	for _, job := range jobs {
		if err := a.deps.Scheduler.Register(job); err != nil {
			return err
		}
	}
	return nil
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.deps.Logger))
	r.Use(middleware.Metrics(a.deps.Metrics))
	r.Use(middleware.CORS(a.config.Server.CORSOrigins))

	r.GET("/health", a.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

// health reports liveness and backing-service reachability. Only the
// database makes the service degraded; Redis is optional.
func (a *App) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	code, status := http.StatusOK, "ok"
	checks := gin.H{"database": "ok"}
	if err := database.Ping(ctx, a.deps.DB); err != nil {
		code, status = http.StatusServiceUnavailable, "degraded"
		checks["database"] = "unavailable"
	}
	if a.deps.Redis != nil {
		checks["redis"] = "ok"
		if err := a.deps.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unavailable"
		}
	}

	c.JSON(code, gin.H{
		"status": status,
		"checks": checks,
		"jobs":   a.deps.Scheduler.Jobs(),
	})
}

// registerRoutes registers all HTTP routes.
func (a *App) registerRoutes() {
	v1 := a.router.Group("/api/v1")
	a.deps.RecruitmentHandler.RegisterRoutes(v1, middleware.RequireAuth(a.deps.JWT))
}

// Start starts background jobs.
func (a *App) Start() {
	a.deps.Scheduler.Start()
	a.deps.ZapLogger.Info("scheduler started", zap.Strings("jobs", a.deps.Scheduler.Jobs()))
}

// Run serves HTTP and runs the background jobs until ctx is done, then
// drains in-flight requests before stopping the jobs and releasing resources.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.config.Server.Address,
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}
	log := a.deps.Logger

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	a.Start()
	defer a.Stop()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down", "timeout", a.config.Server.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop stops background jobs and releases resources.
func (a *App) Stop() {
	if a.deps != nil {
		a.deps.Scheduler.Stop()
	}
	if a.cleanup != nil {
		a.cleanup()
	}
	if a.shutdownTelemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.shutdownTelemetry(ctx)
	}
}
