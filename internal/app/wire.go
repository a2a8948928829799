//go:build wireinject
// +build wireinject

package app

import (
	"net/http"

	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Inbound adapters
	recruitmenthttp "github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/adapter/inbound/http/recruitment"

	// Domains
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/domain/recruitment"

	// Ports
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/inbound"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"

	// Infrastructure
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/config"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/events"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/scheduler"

	// Utils
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/logger"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/metrics"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *goredis.Client
	HTTPClient *http.Client
	Logger     *logger.Logger
	ZapLogger  *zap.Logger
	Metrics    *metrics.Metrics
	EventBus   *events.Bus
	Scheduler  *scheduler.Scheduler
	JWT        outbound.JWTPort

	// Domains
	RecruitmentDomain inbound.RecruitmentDomain
	EventHandler      *recruitment.EventHandler

	// HTTP Handlers
	RecruitmentHandler *recruitmenthttp.Handler
}

// InitializeDependencies creates all dependencies using Wire.
func InitializeDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	wire.Build(
		AppSet,
		wire.Struct(new(Dependencies), "*"),
	)
	return nil, nil, nil
}
