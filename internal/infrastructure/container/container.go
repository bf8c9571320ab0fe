// Package container provides dependency injection using Uber FX.
package container

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	gormdb "gorm.io/gorm"

	"github.com/un-earthly/cookish/internal/application/generation"
	"github.com/un-earthly/cookish/internal/application/variation"
	"github.com/un-earthly/cookish/internal/domain/recipe"
	"github.com/un-earthly/cookish/internal/infrastructure/ai/anthropic"
	"github.com/un-earthly/cookish/internal/infrastructure/ai/local"
	"github.com/un-earthly/cookish/internal/infrastructure/ai/ollama"
	"github.com/un-earthly/cookish/internal/infrastructure/ai/openai"
	"github.com/un-earthly/cookish/internal/infrastructure/config"
	"github.com/un-earthly/cookish/internal/infrastructure/http/handlers"
	"github.com/un-earthly/cookish/internal/infrastructure/http/server"
	"github.com/un-earthly/cookish/internal/infrastructure/monitoring"
	"github.com/un-earthly/cookish/internal/infrastructure/network"
	"github.com/un-earthly/cookish/internal/infrastructure/persistence"
	gormRepo "github.com/un-earthly/cookish/internal/infrastructure/persistence/gorm"
	redisRepo "github.com/un-earthly/cookish/internal/infrastructure/persistence/redis"
	"github.com/un-earthly/cookish/internal/infrastructure/preferences"
	"github.com/un-earthly/cookish/internal/ports/inbound"
	"github.com/un-earthly/cookish/internal/ports/outbound"
	"github.com/un-earthly/cookish/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	ProviderModule,
	ServiceModule,
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

// DatabaseModule provides the database connection
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gormdb.DB, error) {
		return persistence.SetupDatabase(cfg, log)
	},
)

// CacheModule provides the Redis cache. A disabled cache yields nil so
// consumers degrade to reading straight from the database.
var CacheModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) outbound.CacheRepository {
		if !cfg.Redis.Enabled {
			return nil
		}
		cache := redisRepo.NewCacheRepository(cfg.Redis, log)
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return cache.Close()
			},
		})
		return cache
	},
)

// ProviderModule provides the generation backends
var ProviderModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.LocalModel {
		if !cfg.Features.EnableLocalModel {
			return nil
		}
		return ollama.NewClient(cfg.AI.OllamaURL, cfg.AI.OllamaModel, cfg.AI.RequestTimeout, log)
	},
	func(cfg *config.Config, model outbound.LocalModel, log *zap.Logger) map[recipe.Backend]outbound.RecipeProvider {
		providers := map[recipe.Backend]outbound.RecipeProvider{
			recipe.BackendCloudPremium: openai.NewClient(cfg.AI.OpenAIKey, cfg.AI.OpenAIBaseURL, cfg.AI.OpenAIModel, cfg.AI.RequestTimeout, log),
			recipe.BackendCloudBasic:   anthropic.NewClient(cfg.AI.AnthropicKey, cfg.AI.AnthropicBaseURL, cfg.AI.AnthropicModel, cfg.AI.RequestTimeout, log),
		}
		if model != nil {
			providers[recipe.BackendLocal] = local.NewAdapter(model, log)
		}
		return providers
	},
	func(cfg *config.Config, log *zap.Logger) outbound.ConnectivityProbe {
		return network.NewProbe(cfg.Connectivity.ProbeURL, cfg.Connectivity.Timeout, log)
	},
)

// ServiceModule provides the application services
var ServiceModule = fx.Provide(
	func() *prometheus.Registry {
		return prometheus.NewRegistry()
	},
	func(cfg *config.Config, reg *prometheus.Registry) *monitoring.Metrics {
		if !cfg.Features.EnableMetrics {
			return nil
		}
		return monitoring.NewMetrics(reg)
	},
	func(db *gormdb.DB) outbound.RecipeRepository {
		return gormRepo.NewRecipeRepository(db)
	},
	func(db *gormdb.DB) outbound.VariationRepository {
		return gormRepo.NewVariationRepository(db)
	},
	func(db *gormdb.DB, cache outbound.CacheRepository, log *zap.Logger) outbound.PreferenceService {
		return preferences.NewService(db, cache, log)
	},
	func() *generation.PromptBuilder {
		return generation.NewPromptBuilder()
	},
	func(cfg *config.Config) *generation.Limiter {
		return generation.NewLimiter(cfg.AI.RateLimitRPS, cfg.AI.RateLimitBurst)
	},
	func(
		providers map[recipe.Backend]outbound.RecipeProvider,
		recipes outbound.RecipeRepository,
		prefs outbound.PreferenceService,
		probe outbound.ConnectivityProbe,
		model outbound.LocalModel,
		builder *generation.PromptBuilder,
		limiter *generation.Limiter,
		metrics *monitoring.Metrics,
		log *zap.Logger,
	) *generation.Router {
		return generation.NewRouter(providers, recipes, prefs, probe, model, builder, limiter, metrics, log)
	},
	func(router *generation.Router) inbound.GenerationService {
		return router
	},
	func(
		recipes outbound.RecipeRepository,
		variations outbound.VariationRepository,
		prefs outbound.PreferenceService,
		router *generation.Router,
		builder *generation.PromptBuilder,
		metrics *monitoring.Metrics,
		log *zap.Logger,
	) inbound.VariationService {
		return variation.NewService(recipes, variations, prefs, router, builder, metrics, log)
	},
)

// HTTPModule provides the API server
var HTTPModule = fx.Provide(
	func(gen inbound.GenerationService, vars inbound.VariationService, log *zap.Logger) *handlers.RecipeHandlers {
		return handlers.NewRecipeHandlers(gen, vars, log)
	},
	func(cfg *config.Config, log *zap.Logger, h *handlers.RecipeHandlers, reg *prometheus.Registry) *server.Server {
		return server.NewServer(cfg, log, h, reg)
	},
)

// LifecycleModule starts and stops the HTTP server with the application
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
