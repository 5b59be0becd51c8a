// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"

	appassessment "github.com/nutrilens/v1/internal/application/assessment"
	"github.com/nutrilens/v1/internal/application/evidence"
	"github.com/nutrilens/v1/internal/domain/assessment"
	"github.com/nutrilens/v1/internal/infrastructure/cache"
	"github.com/nutrilens/v1/internal/infrastructure/config"
	staticev "github.com/nutrilens/v1/internal/infrastructure/evidence/static"
	"github.com/nutrilens/v1/internal/infrastructure/evidence/tavily"
	"github.com/nutrilens/v1/internal/infrastructure/http/handlers"
	"github.com/nutrilens/v1/internal/infrastructure/http/server"
	"github.com/nutrilens/v1/internal/infrastructure/monitoring"
	"github.com/nutrilens/v1/internal/infrastructure/product/openfoodfacts"
	"github.com/nutrilens/v1/internal/ports/inbound"
	"github.com/nutrilens/v1/internal/ports/outbound"
	"github.com/nutrilens/v1/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MetricsModule,
	CacheModule,
	EvidenceModule,
	AssessmentModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MetricsModule provides Prometheus collectors
var MetricsModule = fx.Provide(monitoring.NewMetrics)

// CacheModule provides the evidence cache backend
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.EvidenceCache, error) {
		if cfg.Cache.Backend == "redis" {
			client, err := cache.NewRedisClient(cfg.Cache.Redis, log)
			if err != nil {
				return nil, err
			}
			return cache.NewRedisEvidenceCache(client, log), nil
		}
		log.Info("using in-memory evidence cache", zap.Int("max_size", cfg.Cache.MaxSize))
		return cache.NewMemoryEvidenceCache(cfg.Cache.MaxSize), nil
	},
)

// EvidenceModule provides the additive evidence resolver and its
// strategy chain: overrides, then search, then the static table.
var EvidenceModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.EvidenceSearch {
		return tavily.NewClient(tavily.Config{
			APIKey:  cfg.Evidence.SearchAPIKey,
			BaseURL: cfg.Evidence.SearchBaseURL,
			Timeout: cfg.Evidence.SearchTimeout,
			RPS:     cfg.Evidence.SearchRPS,
		}, log)
	},
	staticev.NewTable,
	func(
		cfg *config.Config,
		search outbound.EvidenceSearch,
		table *staticev.Table,
		evidenceCache outbound.EvidenceCache,
		metrics *monitoring.Metrics,
		log *zap.Logger,
	) *evidence.Resolver {
		strategies := []evidence.Strategy{
			evidence.NewOverrideStrategy(cfg.SeverityOverrides()),
			evidence.NewSearchStrategy(search, cfg.Evidence.MaxResults, table.Severity, metrics, log),
			table,
		}
		return evidence.NewResolver(evidenceCache, strategies, evidence.Options{
			CacheTTL:        cfg.Evidence.CacheTTL,
			StrategyTimeout: cfg.Evidence.SearchTimeout,
		}, metrics, log)
	},
)

// AssessmentModule provides the assessment service
var AssessmentModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.ProductLookup {
		return openfoodfacts.NewClient(openfoodfacts.Config{
			BaseURL:   cfg.Products.BaseURL,
			Timeout:   cfg.Products.Timeout,
			UserAgent: cfg.Products.UserAgent,
		}, log)
	},
	fx.Annotate(
		func(
			resolver *evidence.Resolver,
			products outbound.ProductLookup,
			cfg *config.Config,
			metrics *monitoring.Metrics,
			log *zap.Logger,
		) (*appassessment.Service, error) {
			return appassessment.NewService(
				resolver,
				products,
				assessment.DefaultRuleset(),
				cfg.ScoreCurve(),
				cfg.ClassifierConfig(),
				metrics,
				log,
			)
		},
		fx.As(new(inbound.AssessmentService)),
	),
)

// HTTPModule provides the HTTP server and handlers
var HTTPModule = fx.Provide(
	handlers.NewAPIHandlers,
	server.NewServer,
)

// LifecycleModule manages application lifecycle
var LifecycleModule = fx.Invoke(
	func(lc fx.Lifecycle, srv *server.Server, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := srv.Start(); err != nil {
						log.Error("http server stopped", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
		})
	},
)
