// Package premiumplatform собирает и запускает HTTP-приложение платформы.
package premiumplatform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/antonligaev/premium-platform/internal/cache"
	"github.com/antonligaev/premium-platform/internal/config"
	"github.com/antonligaev/premium-platform/internal/lib/jwt"
	"github.com/antonligaev/premium-platform/internal/lib/rabbitmq"
	"github.com/antonligaev/premium-platform/internal/migrations"
	"github.com/antonligaev/premium-platform/internal/paymentprovider"
	articleservice "github.com/antonligaev/premium-platform/internal/services/article"
	authservice "github.com/antonligaev/premium-platform/internal/services/auth"
	subservice "github.com/antonligaev/premium-platform/internal/services/subscription"
	"github.com/antonligaev/premium-platform/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.New(cfg.PayPalAPI)
	publisher := rabbitmq.NewPublisher(ch)

	authService := authservice.NewAuthService(db, jwtMaker)
	subscriptionService := subservice.New(db, db, db, providerClient, cacheRedis, publisher,
		cfg.PlanChange.PendingTTL, logger)
	articleService := articleservice.New(db, cacheRedis, subscriptionService, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, db, jwtMaker, authService, subscriptionService, articleService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if chErr := a.ch.Close(); chErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", chErr))
		}
		if connErr := a.conn.Close(); connErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", connErr))
		}
		a.db.DB.Close()
		return err
	}
}
