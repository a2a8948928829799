package app

import (
	"context"
	"net/http"
	"time"

	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/domain/recruitment"

	// Inbound adapters
	recruitmenthttp "github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/adapter/inbound/http/recruitment"

	// Ports
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/inbound"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"

	// Outbound adapters
	jwtadapter "github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/adapter/outbound/jwt"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/adapter/outbound/postgres"
	redisadapter "github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/adapter/outbound/redis"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/adapter/outbound/stats"

	// Infrastructure
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/cache"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/config"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/database"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/events"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/httpclient"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/scheduler"

	// Utils
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/logger"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/metrics"
)

const connectTimeout = 10 * time.Second

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideDatabase,
	ProvideRedisClient,
	ProvideHTTPClient,
	ProvideLogger,
	ProvideZapLogger,
	ProvideMetrics,
	ProvideEventBus,
	ProvideScheduler,
)

// ProvideDatabase creates a database connection.
func ProvideDatabase(cfg *config.Config, zapLog *zap.Logger) (*gorm.DB, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := database.New(ctx, &cfg.Database, zapLog)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = database.Close(db) }, nil
}

// ProvideRedisClient creates a Redis client. Redis is optional: without it
// notifications are dropped and jobs run without a distributed lock.
func ProvideRedisClient(cfg *config.Config, zapLog *zap.Logger) (*goredis.Client, func()) {
	if cfg.Redis.Address == "" {
		return nil, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := cache.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		zapLog.Warn("Redis connection failed, continuing without it", zap.Error(err))
		return nil, func() {}
	}
	return client, func() { _ = client.Close() }
}

// ProvideLogger creates a logger instance.
func ProvideLogger(cfg *config.Config) *logger.Logger {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideZapLogger creates a zap logger instance.
func ProvideZapLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, nil, err
	}
	return zapLog, func() { _ = zapLog.Sync() }, nil
}

// ProvideHTTPClient creates a shared HTTP client with connection pooling.
func ProvideHTTPClient(cfg *config.Config) *http.Client {
	return httpclient.New(cfg.HTTPClient)
}

// ProvideMetrics creates a metrics instance.
func ProvideMetrics() *metrics.Metrics {
	return metrics.New("tessera", nil)
}

// ProvideEventBus creates the in-process domain event bus.
func ProvideEventBus(zapLog *zap.Logger, m *metrics.Metrics) *events.Bus {
	return events.NewBus(zapLog, events.WithRecorder(m))
}

// ProvideScheduler creates the background job scheduler. The Redis lease is
// used only when distributed locking is enabled and Redis is reachable.
func ProvideScheduler(cfg *config.Config, zapLog *zap.Logger, lock outbound.LockPort, m *metrics.Metrics) *scheduler.Scheduler {
	opts := []scheduler.Option{scheduler.WithMetrics(m)}
	if lock != nil {
		opts = append(opts, scheduler.WithLocker(lock))
	}
	return scheduler.New(zapLog, opts...)
}

// ===== Recruitment Providers =====

// RecruitmentSet provides recruitment domain dependencies.
var RecruitmentSet = wire.NewSet(
	postgres.NewPostingAdapter,
	wire.Bind(new(outbound.PostingDatabasePort), new(*postgres.PostingAdapter)),
	postgres.NewApplicationAdapter,
	wire.Bind(new(outbound.ApplicationDatabasePort), new(*postgres.ApplicationAdapter)),
	postgres.NewPodAdapter,
	wire.Bind(new(outbound.PodDatabasePort), new(*postgres.PodAdapter)),
	postgres.NewPodMessageAdapter,
	wire.Bind(new(outbound.PodMessageDatabasePort), new(*postgres.PodMessageAdapter)),
	postgres.NewTransactionAdapter,
	wire.Bind(new(outbound.RecruitmentTransactionPort), new(*postgres.TransactionAdapter)),
	ProvideEventPublisher,
	ProvideStatsClient,
	ProvideNotificationPublisher,
	ProvideJobLock,
	ProvideJWTValidator,
	ProvideRecruitmentConfig,
	ProvideRecruitmentDomain,
	ProvideRecruitmentEventHandler,
)

// ProvideEventPublisher adapts the event bus to the domain's publisher port.
func ProvideEventPublisher(bus *events.Bus) outbound.EventPublisherPort {
	return events.NewPublisher(bus)
}

// ProvideStatsClient creates the event-statistics client.
func ProvideStatsClient(cfg *config.Config, httpClient *http.Client, zapLog *zap.Logger) outbound.EventStatsPort {
	return stats.NewClient(stats.Config{
		Endpoint:         cfg.Stats.Endpoint,
		Timeout:          cfg.Stats.Timeout,
		FailureThreshold: cfg.Stats.FailureThreshold,
		BreakerTimeout:   cfg.Stats.BreakerTimeout,
	}, httpClient, zapLog)
}

// ProvideNotificationPublisher creates the Redis pub/sub publisher.
// Returns nil without Redis.
func ProvideNotificationPublisher(client *goredis.Client) redisadapter.Publisher {
	if client == nil {
		return nil
	}
	return redisadapter.NewPublisher(client)
}

// ProvideJobLock creates the scheduler's distributed lease.
// Returns nil when disabled or without Redis.
func ProvideJobLock(cfg *config.Config, client *goredis.Client) outbound.LockPort {
	if !cfg.Recruitment.DistributedLock || client == nil {
		return nil
	}
	return redisadapter.NewLock(client)
}

// ProvideJWTValidator creates the access-token validator.
func ProvideJWTValidator(cfg *config.Config) outbound.JWTPort {
	return jwtadapter.NewValidator(jwtadapter.Config{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.Issuer,
	})
}

// ProvideRecruitmentConfig maps process configuration onto the domain config.
func ProvideRecruitmentConfig(cfg *config.Config) *recruitment.Config {
	return &recruitment.Config{
		DefaultPodCapacity:  cfg.Recruitment.DefaultPodCapacity,
		CascadeRetries:      cfg.Recruitment.CascadeRetries,
		CascadeRetryDelay:   cfg.Recruitment.CascadeRetryDelay,
		StatsRefreshTimeout: cfg.Stats.Timeout,
		ReconcileBatchSize:  cfg.Recruitment.ReconcileBatchSize,
	}
}

// ProvideRecruitmentDomain creates the recruitment domain.
func ProvideRecruitmentDomain(
	postingDB outbound.PostingDatabasePort,
	applicationDB outbound.ApplicationDatabasePort,
	podDB outbound.PodDatabasePort,
	messageDB outbound.PodMessageDatabasePort,
	txPort outbound.RecruitmentTransactionPort,
	publisher outbound.EventPublisherPort,
	statsClient outbound.EventStatsPort,
	domainCfg *recruitment.Config,
	zapLog *zap.Logger,
	m *metrics.Metrics,
) inbound.RecruitmentDomain {
	return recruitment.NewDomain(
		postingDB,
		applicationDB,
		podDB,
		messageDB,
		txPort,
		publisher,
		statsClient,
		domainCfg,
		zapLog,
		recruitment.WithRecorder(m),
	)
}

// ProvideRecruitmentEventHandler creates the handler that fans domain events
// out to Redis. With no publisher the handler only logs.
func ProvideRecruitmentEventHandler(pub redisadapter.Publisher, zapLog *zap.Logger) *recruitment.EventHandler {
	if pub == nil {
		return recruitment.NewEventHandler(nil, nil, zapLog)
	}
	return recruitment.NewEventHandler(pub, pub, zapLog)
}

// ===== HTTP Handler Providers =====

// HandlerSet provides all HTTP handlers.
var HandlerSet = wire.NewSet(
	ProvideRecruitmentHandler,
)

// ProvideRecruitmentHandler creates the recruitment HTTP handler.
func ProvideRecruitmentHandler(domain inbound.RecruitmentDomain, sched *scheduler.Scheduler) *recruitmenthttp.Handler {
	return recruitmenthttp.NewHandler(domain, sched)
}

// ===== Master Set =====

// AppSet is the master provider set that includes all dependencies.
var AppSet = wire.NewSet(
	InfraSet,
	RecruitmentSet,
	HandlerSet,
)
