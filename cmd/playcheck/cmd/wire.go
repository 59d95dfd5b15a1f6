package cmd

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"playcheck/internal/agent"
	"playcheck/internal/config"
	"playcheck/internal/database"
	"playcheck/internal/events"
	"playcheck/internal/metrics"
	"playcheck/internal/services"
	"playcheck/internal/tools"
)

// app holds the long-lived dependencies shared by chat and serve.
type app struct {
	controller *agent.Controller
	gemini     *services.GeminiService
	redis      *redis.Client
}

func newRegistry(cfg *config.Config, logger *slog.Logger) *tools.Registry {
	steam := services.NewSteamService(cfg.SteamBaseURL, cfg.UserAgent, cfg.HTTPTimeout, logger)
	return tools.NewRegistry(tools.NewSteamRequirements(steam))
}

func newApp(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// ──── Step 1: Tools ────
	registry := newRegistry(cfg, logger)

	// ──── Step 2: Gemini Client ────
	gemini, err := services.NewGeminiService(
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		cfg.SystemPrompt,
		cfg.GeminiConcurrentReqs,
		registry.Specs(),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("Gemini client initialization failed: %w", err)
	}
	logger.Debug("Gemini client initialized", "model", cfg.GeminiModel)

	a := &app{gemini: gemini}
	opts := []agent.Option{agent.WithLogger(logger)}

	// ──── Step 3: Optional Redis turn fan-out ────
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			gemini.Close()
			return nil, fmt.Errorf("Redis connection failed: %w", err)
		}
		a.redis = client
		opts = append(opts, agent.WithObserver(events.NewRedisPublisher(client, logger)))
		logger.Debug("Redis turn publisher enabled")
	}

	// ──── Step 4: Metrics ────
	if reg != nil {
		opts = append(opts, agent.WithMetrics(metrics.New(reg)))
	}

	// ──── Step 5: Controller ────
	a.controller, err = agent.NewController(gemini, registry, cfg.MaxIterations, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	a.gemini.Close()
}
