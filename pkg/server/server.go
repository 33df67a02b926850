package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/c3g/chord-project-service/pkg/config"
	"github.com/c3g/chord-project-service/pkg/contract"
	"github.com/c3g/chord-project-service/pkg/events"
	"github.com/c3g/chord-project-service/pkg/service"
)

// NewApp builds the HTTP surface around a project service. Metrics are only
// collected and exposed when a registry is given and METRICS_ENABLED is set.
func NewApp(
	log *logrus.Logger,
	cfg *config.Config,
	projectService contract.ProjectService,
	registry *prometheus.Registry,
) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             4 * 1024 * 1024,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
		ServerHeader:          "chord_project_service/" + cfg.Version,
		DisableStartupMessage: true,
		ErrorHandler:          newErrorHandler(log, cfg.StrictStatusCodes),
	})

	app.Use(compress.New())
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(logger.New(logger.Config{
		Format: "${status} - ${latency} ${method} ${path}\n",
		Output: log.Writer(),
	}))

	if cfg.MetricsEnabled && registry != nil {
		app.Use(newHTTPMetrics(registry).middleware)
		app.Get("/metrics", metricsHandler(registry))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	registerRoutes(app, projectService)

	return app
}

// Launch serves until ctx is cancelled, then drains in-flight requests for at most
// SHUTDOWN_TIMEOUT before closing the store and the event publisher.
func Launch(ctx context.Context, log *logrus.Logger, cfg *config.Config) error {
	publisher, err := events.NewPublisher(log, cfg)
	if err != nil {
		return fmt.Errorf("could not create event publisher: %w", err)
	}
	defer publisher.Close()

	projectService, store, err := service.NewSQLProjectService(log, cfg, publisher)
	if err != nil {
		return err
	}
	defer store.Close()

	app := NewApp(log, cfg, projectService, NewRegistry())

	go func() {
		<-ctx.Done()

		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Errorf("Failed to gracefully shutdown project service: %v", err)
		}
	}()

	log.WithFields(logrus.Fields{
		"address":  cfg.Address,
		"database": cfg.Database,
		"version":  cfg.Version,
	}).Info("Starting project service")

	if err := app.Listen(cfg.Address); err != nil {
		return fmt.Errorf("failed to start project service: %w", err)
	}

	return nil
}
