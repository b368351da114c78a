package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	httpapp "github.com/14kear/online_voting/polls-service/internal/app/http"
	"github.com/14kear/online_voting/polls-service/internal/config"
	"github.com/14kear/online_voting/polls-service/internal/fanout"
	"github.com/14kear/online_voting/polls-service/internal/handlers"
	"github.com/14kear/online_voting/polls-service/internal/lib/jwt"
	"github.com/14kear/online_voting/polls-service/internal/middleware"
	"github.com/14kear/online_voting/polls-service/internal/services/polls"
	"github.com/14kear/online_voting/polls-service/internal/storage/memory"
	"github.com/14kear/online_voting/polls-service/internal/storage/postgres"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

// Storage is a poll store that can also drop expired polls.
type Storage interface {
	polls.PollStorage
	PurgeExpired(ctx context.Context) (int64, error)
}

type App struct {
	HTTPServer *httpapp.App
	Polls      *polls.Polls
	Hub        *fanout.Hub

	log           *slog.Logger
	storage       Storage
	purgeInterval time.Duration
	closeStorage  func() error
}

func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.NewApp"

	store, closeStorage, err := newStorage(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hub := fanout.NewHub(log)
	issuer := jwt.NewIssuer(cfg.JWTSecret, cfg.PollDuration)

	pollsService := polls.NewPolls(log, store, hub, issuer, cfg.PollDuration)

	authMiddleware := middleware.NewAuthMiddleware(pollsService)
	pollsHandler := handlers.NewPollsHandler(pollsService)
	gateway := handlers.NewGateway(log, pollsService, hub, cfg.HTTP.ClientOrigins, cfg.WS.PingInterval, cfg.WS.SendBuffer)

	httpApp := httpapp.NewApp(log, cfg.HTTP.Port, cfg.HTTP.ClientOrigins, pollsHandler, gateway, authMiddleware.Middleware())

	return &App{
		HTTPServer:    httpApp,
		Polls:         pollsService,
		Hub:           hub,
		log:           log,
		storage:       store,
		purgeInterval: cfg.Storage.PurgeInterval,
		closeStorage:  closeStorage,
	}, nil
}

func newStorage(cfg config.StorageConfig) (Storage, func() error, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		store, err := postgres.New(cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.DriverMemory:
		return memory.New(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// RunJanitor drops expired polls every purge interval until ctx is done.
func (a *App) RunJanitor(ctx context.Context) error {
	const op = "app.RunJanitor"

	log := a.log.With(slog.String("op", op))

	if a.purgeInterval <= 0 {
		log.Info("janitor disabled")
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(a.purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := a.storage.PurgeExpired(ctx)
			if err != nil {
				log.Error("failed to purge expired polls", sl.Err(err))
				continue
			}
			if n > 0 {
				log.Info("expired polls purged", slog.Int64("count", n))
			}
		}
	}
}

func (a *App) Stop(ctx context.Context) error {
	if err := a.HTTPServer.Stop(ctx); err != nil {
		return err
	}
	return a.closeStorage()
}
