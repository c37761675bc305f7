package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/vidly/rental-system/docs"
	"github.com/vidly/rental-system/internal/api"
	"github.com/vidly/rental-system/internal/api/handler"
	"github.com/vidly/rental-system/internal/core/ports"
	"github.com/vidly/rental-system/internal/core/service"
	"github.com/vidly/rental-system/internal/infrastructure/broker/rabbitmq"
	"github.com/vidly/rental-system/internal/infrastructure/config"
	mongodb "github.com/vidly/rental-system/internal/infrastructure/db/mongo"
	redisdb "github.com/vidly/rental-system/internal/infrastructure/db/redis"
	"github.com/vidly/rental-system/internal/infrastructure/queue"
	"github.com/vidly/rental-system/internal/pkg/identity"
	"github.com/vidly/rental-system/pkg/logger"
)

// @title                      Vidly Rental API
// @version                    1.0
// @description                Movie rental backend: catalogue, customers, checkout and returns.
// @BasePath                   /
// @securityDefinitions.apikey AuthToken
// @in                         header
// @name                       x-auth-token
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{Service: "vidly"})
		boot.Fatal().Err(err).Msg("configuration")
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "vidly",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Stores ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Events ---
	var publisher ports.EventPublisher = queue.NewLogPublisher(log)
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return err
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	} else {
		log.Warn().Msg("AMQP_URL not set, rental events are only logged")
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Dispatch.Workers, publisher, log)
	dispatcher.Start(workerCtx)

	// --- Services ---
	genreRepo := mongodb.NewGenreRepository(db)
	movieRepo := mongodb.NewMovieRepository(db)
	customerRepo := mongodb.NewCustomerRepository(db)
	rentalRepo := mongodb.NewRentalRepository(db)
	tokens := identity.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	e := api.NewRouter(api.Deps{
		Log:       log,
		Tokens:    tokens,
		Limiter:   redisdb.NewLoginLimiter(rdb, cfg.LoginRate.Capacity, cfg.LoginRate.Refill),
		Probes:    []handler.Probe{handler.MongoProbe(db), handler.RedisProbe(rdb)},
		Genres:    service.NewGenreService(genreRepo, redisdb.NewNameLock(rdb, "lock:genre", log), log),
		Movies:    service.NewMovieService(movieRepo, genreRepo, log),
		Customers: service.NewCustomerService(customerRepo, log),
		Rentals:   service.NewRentalService(rentalRepo, movieRepo, customerRepo, dispatcher, log),
		Returns:   service.NewReturnService(rentalRepo, dispatcher, log),
		Auth:      service.NewAuthService(mongodb.NewUserRepository(db), tokens, log),
	})

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stopWorkers()
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = e.Shutdown(shutdownCtx)

	stopWorkers()
	dispatcher.Wait()
	return err
}
