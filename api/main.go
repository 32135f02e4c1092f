package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/rogerio-castellano/expiry-tracker/internal/audit"
	"github.com/rogerio-castellano/expiry-tracker/internal/auth"
	"github.com/rogerio-castellano/expiry-tracker/internal/config"
	"github.com/rogerio-castellano/expiry-tracker/internal/db"
	"github.com/rogerio-castellano/expiry-tracker/internal/expiry"
	apihttp "github.com/rogerio-castellano/expiry-tracker/internal/http"
	"github.com/rogerio-castellano/expiry-tracker/internal/http/handlers"
	rl "github.com/rogerio-castellano/expiry-tracker/internal/http/rate_limiter"
	"github.com/rogerio-castellano/expiry-tracker/internal/inventory"
	"github.com/rogerio-castellano/expiry-tracker/internal/logger"
	"github.com/rogerio-castellano/expiry-tracker/internal/redissvc"
	"github.com/rogerio-castellano/expiry-tracker/internal/repo"
	"github.com/rogerio-castellano/expiry-tracker/internal/telemetry"
	"github.com/rogerio-castellano/expiry-tracker/internal/views"
)

// @title Expiry Tracker API
// @version 1.0
// @description REST API for tracking product batches by expiration date.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		ServiceName: "expiry-tracker",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	kv, closeKV, err := openKVStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeKV())
	}()

	store := repo.NewStore(kv)
	classifier := expiry.NewClassifier(time.Now, loc)

	dataset := repo.Dataset{}
	if cfg.SeedDemo {
		dataset = repo.DemoDataset(classifier.Today(), time.Now())
	}
	if err := store.Init(ctx, dataset); err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	if err := auth.SeedUsers(ctx, store, time.Now()); err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}

	metrics := telemetry.New(prometheus.NewRegistry())
	recorder := audit.NewRecorder(store, time.Now, metrics)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	users := auth.NewUsers(store, time.Now, log)

	handlers.SetInventoryService(inventory.NewService(store, recorder, time.Now, log))
	handlers.SetViewEngine(views.NewEngine(store, classifier))
	handlers.SetUserService(users)
	handlers.SetTokens(tokens)
	handlers.SetLogger(log)

	limiter := rl.New(cfg.LoginRatePerSec, cfg.LoginRateBurst)
	go limiter.StartVisitorCleanupLoop(ctx, time.Minute, 3*time.Minute)

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: apihttp.NewRouter(apihttp.RouterOptions{
			Tokens:       tokens,
			Users:        users,
			LoginLimiter: limiter,
			Metrics:      metrics,
			Logger:       log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Zerolog(ctx).Info().
			Str("addr", cfg.HTTPAddr).
			Str("store_backend", cfg.StoreBackend).
			Str("timezone", loc.String()).
			Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openKVStore returns the configured backend and a func releasing its connections.
func openKVStore(ctx context.Context, cfg config.Config) (repo.KVStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreBackend {
	case config.BackendFile:
		kv, err := repo.NewFileKVStore(cfg.StoreFileDir)
		if err != nil {
			return nil, nil, err
		}
		return kv, noop, nil
	case config.BackendRedis:
		rs, err := redissvc.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to Redis: %w", err)
		}
		return repo.NewRedisKVStore(rs), rs.Close, nil
	case config.BackendPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to database: %w", err)
		}
		if err := db.EnsureSchema(ctx, database); err != nil {
			return nil, nil, multierr.Append(err, database.Close())
		}
		return repo.NewPostgresKVStore(database), database.Close, nil
	default:
		return repo.NewInMemoryKVStore(), noop, nil
	}
}
