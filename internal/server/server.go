// Package server wires configuration, providers and routes into a
// runnable gateway.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/animekun/chatd/internal/api/http"
	"github.com/animekun/chatd/internal/api/middleware"
	"github.com/animekun/chatd/internal/backend"
	"github.com/animekun/chatd/internal/infrastructure/config"
	"github.com/animekun/chatd/internal/infrastructure/logging"
	"github.com/animekun/chatd/internal/infrastructure/monitoring"
	"github.com/animekun/chatd/internal/llm/openai"
	"github.com/animekun/chatd/internal/orchestrator"
	"github.com/animekun/chatd/internal/prompt"
	"github.com/animekun/chatd/internal/ratelimit"
	"github.com/animekun/chatd/internal/tools"
	"github.com/animekun/chatd/internal/tools/anime"
	"github.com/animekun/chatd/internal/tools/business"
	"github.com/animekun/chatd/internal/tools/external"
	"github.com/animekun/chatd/internal/tools/manga"
	"github.com/animekun/chatd/internal/tools/media"
	"github.com/animekun/chatd/internal/tools/season"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg      *config.Config
	logger   *logging.Logger
	registry *tools.Registry
	httpSrv  *http.Server
	store    *ratelimit.RedisStore
}

// New builds a fully wired server from configuration.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := monitoring.NewMetrics(nil)

	backendClient := backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	})

	registry := tools.NewRegistry()
	if err := registerProviders(registry, backendClient, cfg, logger); err != nil {
		return nil, err
	}

	var redisStore *ratelimit.RedisStore
	var store ratelimit.Store
	if cfg.RateLimit.RedisAddr != "" {
		redisStore = ratelimit.NewRedisStore(cfg.RateLimit.RedisAddr, cfg.RateLimit.RedisPassword)
		store = redisStore
		logger.Info("rate limiter enabled",
			zap.Int("max_requests", cfg.RateLimit.MaxRequests),
			zap.Int("window_minutes", cfg.RateLimit.WindowMinutes))
	} else {
		logger.Warn("rate limiter disabled: no counter store configured")
	}
	limiter := ratelimit.New(store, ratelimit.Config{
		Max:           cfg.RateLimit.MaxRequests,
		Window:        time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute,
		OnUnavailable: ratelimit.Policy(cfg.RateLimit.OnUnavailable),
	}, logger)

	var orch *orchestrator.Orchestrator
	if cfg.Model.APIKey != "" {
		provider, err := openai.New(cfg.Model.APIKey, cfg.Model.Name,
			openai.WithBaseURL(cfg.Model.BaseURL))
		if err != nil {
			return nil, fmt.Errorf("model provider: %w", err)
		}
		orch = orchestrator.New(provider, registry, logger, metrics, orchestrator.Config{
			SystemPrompt: prompt.System,
			Temperature:  cfg.Model.Temperature,
			MaxSteps:     cfg.Model.MaxSteps,
			MaxDuration:  cfg.Model.MaxDuration,
		})
		logger.Info("model provider ready", zap.String("model", cfg.Model.Name))
	} else {
		logger.Warn("no model API key configured: chat endpoint will reject requests")
	}

	handlers := apihttp.NewHandlers(cfg, logger, metrics, registry, limiter, orch, backendClient)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.CORS.AllowedOrigins}))

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/tools", handlers.Tools)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/api/chat", middleware.Auth(), handlers.Chat)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	return &Server{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		store:    redisStore,
		httpSrv: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run starts serving and blocks until the listener stops.
func (s *Server) Run() error {
	s.logger.Info("starting gateway", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and releases resources.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpSrv.Shutdown(ctx)
	if s.store != nil {
		if closeErr := s.store.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}

func registerProviders(registry *tools.Registry, client *backend.Client, cfg *config.Config, logger *logging.Logger) error {
	providers := []tools.Provider{
		anime.NewProvider(client),
		manga.NewProvider(client),
		season.NewProvider(client),
		business.NewProvider(client),
		media.NewProvider(client),
		external.NewProvider(client, cfg.Search.TavilyAPIKey),
	}

	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			return fmt.Errorf("register provider %s: %w", p.Definition().ID, err)
		}
		logger.Info("provider registered",
			zap.String("provider", p.Definition().ID),
			zap.Int("tools", len(p.Definition().Tools)))
	}

	stats := registry.Stats()
	logger.Info("tool catalog ready",
		zap.Any("providers", stats["total_providers"]),
		zap.Any("tools", stats["total_tools"]))
	return nil
}
