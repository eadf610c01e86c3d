package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"lms_sync/internal/config"
	"lms_sync/internal/httpapi"
	"lms_sync/internal/publisher"
	"lms_sync/internal/runlock"
	"lms_sync/internal/scheduler"
	"lms_sync/internal/service"
	"lms_sync/internal/source/canvas"
	"lms_sync/internal/storage/postgres"
	"lms_sync/internal/vault"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokens, err := vault.Load(ctx, vault.KeySource{
		KeyEnv:      cfg.Vault.KeyEnv,
		AWSSecretID: cfg.Vault.AWSSecretID,
		AWSRegion:   cfg.Vault.AWSRegion,
		AWSEndpoint: cfg.Vault.AWSEndpoint,
	})
	if err != nil {
		logger.Error("failed to load token key", "error", err)
		os.Exit(1)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	var lock service.RunLock = runlock.NewLocal()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		lock = runlock.NewRedis(client)
		logger.Info("connected to redis", "addr", cfg.Redis.Addr)
	} else {
		logger.Warn("redis not configured, run lock is local to this process")
	}

	var pub service.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	connectionStore := postgres.NewConnectionStore(db)
	secretStore := postgres.NewSecretStore(db)
	unitStore := postgres.NewUnitStore(db)
	assignmentStore := postgres.NewAssignmentStore(db)
	runStore := postgres.NewSyncRunStore(db)
	txManager := postgres.NewTransactionManager(db)

	hosts := canvas.NewAllowlist(cfg.Canvas.AllowedHosts...)
	canvasSource := canvas.New(canvas.Config{
		Platform:            cfg.Canvas.Platform,
		CoursesPageSize:     cfg.Canvas.CoursesPageSize,
		AssignmentsPageSize: cfg.Canvas.AssignmentsPageSize,
		MaxPages:            cfg.Canvas.MaxPages,
		Timeout:             cfg.Canvas.Timeout,
		MaxAttempts:         cfg.Canvas.Retry.MaxAttempts,
		InitialBackoff:      cfg.Canvas.Retry.InitialBackoff,
		MaxBackoff:          cfg.Canvas.Retry.MaxBackoff,
	}, hosts, logger)

	syncService := service.NewSyncService(
		canvasSource,
		connectionStore,
		secretStore,
		unitStore,
		assignmentStore,
		runStore,
		tokens,
		lock,
		pub,
		logger,
		cfg.Sync,
	)

	connectionService := service.NewConnectionService(
		canvasSource,
		connectionStore,
		secretStore,
		runStore,
		tokens,
		txManager,
		cfg.Canvas.DefaultInstitution,
		logger,
	)

	e := httpapi.NewServer(cfg.Server, httpapi.NewHandler(syncService, connectionService, logger), logger)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if cfg.Sync.BackgroundInterval > 0 {
		sched := scheduler.NewScheduler(syncService, cfg.Sync.BackgroundInterval, cfg.Sync.BackgroundInterval, logger)
		go func() {
			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("scheduler error", "error", err)
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting lms syncer",
			"addr", cfg.Server.Addr,
			"source", canvasSource.Name(),
			"platform", canvasSource.ID(),
			"allowed_hosts", hosts.Len(),
			"background_interval", cfg.Sync.BackgroundInterval,
		)
		serverErr <- e.Start(cfg.Server.Addr)
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	// Interrupted runs record their abort and release their owner's lock.
	if err := syncService.Shutdown(shutdownCtx); err != nil {
		logger.Error("sync shutdown failed", "error", err)
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	logger.Info("stopped")
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
