// Package main provides the contentgraph API server implementation.
package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/dukex/contentgraph/pkg/blocks"
	"github.com/dukex/contentgraph/pkg/config"
	"github.com/dukex/contentgraph/pkg/eventbus"
	"github.com/dukex/contentgraph/pkg/executor"
	"github.com/dukex/contentgraph/pkg/ingestion"
	"github.com/dukex/contentgraph/pkg/otelhelper"
	"github.com/dukex/contentgraph/pkg/pipeline"
	"github.com/dukex/contentgraph/pkg/protocol"
	"github.com/dukex/contentgraph/pkg/services"
	"github.com/dukex/contentgraph/pkg/web"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger   *slog.Logger
	cfg      *config.Config
	backend  protocol.Generator
	eventBus eventbus.EventBus
}

func NewAPI(
	logger *slog.Logger,
	cfg *config.Config,
	backend protocol.Generator,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:   logger,
		cfg:      cfg,
		backend:  backend,
		eventBus: eventBus,
	}
}

func (a *API) App() *fiber.App {
	registry := blocks.NewRegistry(a.logger)
	registry.RegisterDefaultBlocks()

	execOpts := []executor.Option{
		executor.WithWorkers(a.cfg.Workers),
		executor.WithTimeout(a.cfg.TimeoutDuration()),
		executor.WithEventBus(a.eventBus),
	}

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		tracer, err := otelhelper.NewTracer(context.Background(), "contentgraph-api")
		if err != nil {
			a.logger.Warn("Failed to initialize tracer", "error", err)
		} else {
			execOpts = append(execOpts, executor.WithTracer(tracer))
		}
	}

	exec := executor.New(a.logger, execOpts...)

	runService := services.NewRun(
		a.logger,
		ingestion.New(a.logger),
		pipeline.New(a.logger, a.backend, registry),
		exec,
		nil,
	)

	handlers := web.NewAPIHandlers(a.logger, runService)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Contentgraph API")
	})

	app.Post("/runs", handlers.CreateRun)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
