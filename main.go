package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"solidapi/internal/config"
	"solidapi/internal/database"
	"solidapi/internal/logger"
	"solidapi/internal/repositories"
	"solidapi/internal/services"
	"solidapi/pkg/rabbitmq"
)

// application bundles everything main wires together.
type application struct {
	http     *fiber.App
	store    *database.Database
	products *services.ProductService
	mq       *rabbitmq.Client
	log      zerolog.Logger
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log).With().Str("env", cfg.App.Env).Logger()

	app, err := newApp(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise application")
	}

	// --- Start product event consumer ---
	if app.mq != nil {
		err := app.mq.ConsumeProductEvents(func(msg amqp.Delivery) error {
			event, err := services.DecodeProductEvent(msg.Body)
			if err != nil {
				return fmt.Errorf("malformed product event: %w", err)
			}
			log.Info().
				Str("event_id", event.EventID).
				Str("type", event.Type).
				Int("product_id", event.ProductID).
				Msg("received product event")
			return nil
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to start product event consumer")
		}
	}

	// --- Start HTTP Server ---
	go func() {
		log.Info().Str("addr", cfg.App.Port).Msg("starting server")
		if err := app.http.Listen(cfg.App.Port); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	if err := app.close(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}

// newApp opens and prepares the database, then builds the repository, the
// product service and the health endpoint on top of it.
func newApp(cfg *config.Config, log zerolog.Logger) (*application, error) {
	store, err := database.Open(cfg, log)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	app := &application{
		store: store,
		log:   log,
	}
	repo := repositories.NewGORMProductRepository(store, log)

	// A nil interface, not a nil *rabbitmq.Client, disables publishing.
	var publisher services.EventPublisher
	if cfg.RabbitMQ.Enabled {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, log)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		app.mq = mq
		publisher = mq
	} else {
		log.Info().Msg("RabbitMQ disabled, product events will not be published")
	}
	app.products = services.NewProductService(repo, publisher, log)

	app.http = fiber.New(fiber.Config{DisableStartupMessage: true})
	app.http.Use(fiberlogger.New(fiberlogger.Config{Output: log}))
	app.http.Get("/health", app.handleHealth)

	return app, nil
}

// handleHealth reports database reachability and whether the seed product is present.
func (a *application) handleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if err := a.store.Ping(ctx); err != nil {
		a.log.Error().Err(err).Msg("health check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": err.Error(),
		})
	}

	seeded := true
	if _, err := a.products.GetProductByID(ctx, 1); errors.Is(err, repositories.ErrNotFound) {
		seeded = false
	} else if err != nil {
		a.log.Error().Err(err).Msg("health check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": "connected",
		"seeded":   seeded,
		"rabbitmq": a.mq != nil,
	})
}

func (a *application) close() error {
	var errs []error
	if err := a.http.Shutdown(); err != nil {
		errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
	}
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors occurred during shutdown: %v", errs)
	}
	return nil
}
