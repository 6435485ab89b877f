package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"toyland/internal/config"
	"toyland/internal/database"
	"toyland/internal/handlers"
	"toyland/internal/logging"
	"toyland/internal/middleware"
	"toyland/internal/repositories"
	"toyland/internal/routes"
	"toyland/internal/services"
	"toyland/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// --- Store ---
	ctx := context.Background()
	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	// --- Toy events (optional) ---
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			slog.Warn("toy events disabled", "error", err)
		} else {
			publisher = mqClient
			if cfg.ConsumeToyEvents {
				if err := mqClient.ConsumeEvents(logToyEvent); err != nil {
					slog.Error("failed to start toy event consumer", "error", err)
				}
			}
		}
	}

	if cfg.AccessTokenSecret == "" {
		slog.Warn("ACCESS_TOKEN_SECRET is not set, token issuance will fail")
	}

	// --- Services and handlers ---
	tokens := services.NewTokenService(cfg.AccessTokenSecret)
	toyService := services.NewToyService(repo, publisher)

	app := routes.NewApp()
	app.Use(sentryfiber.New(sentryfiber.Options{Repanic: true}))
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New())
	app.Use(middleware.CORS())

	routes.Setup(app, tokens,
		handlers.NewAuthHandler(tokens),
		handlers.NewToyHandler(toyService),
		handlers.NewHealthHandler(toyService),
	)

	// --- HTTP server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", cfg.Addr(), "store", cfg.StoreDriver)
		if err := app.Listen(cfg.Addr()); err != nil {
			slog.Error("server failed to start", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	slog.Info("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if err := closeStore(); err != nil {
		slog.Error("store close error", "error", err)
	}
	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			slog.Error("rabbitmq close error", "error", err)
		}
	}
	slog.Info("server gracefully stopped")
}

// openStore builds the toy repository selected by cfg.StoreDriver and returns
// a func that releases its connections.
func openStore(ctx context.Context, cfg *config.Config) (repositories.ToyRepository, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := database.ConnectMongo(ctx, cfg.MongoConnectionString())
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.DBName).Collection(cfg.DBCollection)
		closeFn := func() error {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Disconnect(disconnectCtx)
		}
		return repositories.NewMongoToyRepository(coll), closeFn, nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.OpenSQL(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repositories.NewGORMToyRepository(db, cfg.DBCollection)
		if err != nil {
			_ = database.CloseSQL(db)
			return nil, nil, err
		}
		return repo, func() error { return database.CloseSQL(db) }, nil

	case config.DriverMemory:
		return repositories.NewMockToyRepository(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func logToyEvent(event rabbitmq.Event) error {
	slog.Info("toy event received", "type", event.Type, "toy_id", event.ToyID, "occurred_at", event.OccurredAt)
	return nil
}
