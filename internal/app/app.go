package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/auth"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/cache"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/config"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/db"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/github"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/grpcserver"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/kafka"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/logger"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/messaging"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/schema"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/telemetry"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type App struct {
	config     *config.Config
	server     *http.Server
	grpcServer *grpcserver.Server
	db         *bun.DB
	cache      cache.Cache
	publisher  events.Publisher
	telemetry  *telemetry.Telemetry
	logger     *slog.Logger
	cancel     context.CancelFunc
}

func New() *App {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slogLogger := logger.NewWithServiceContext(ServiceName, Version, cfg.LogLevel)
	slog.SetDefault(slogLogger)
	slogLogger.Info("initializing application", "env", cfg.Env, "version", Version, "commit", GitCommit)

	ctx := context.Background()

	tel, err := telemetry.Init(ctx, cfg.Telemetry, ServiceName, Version, slogLogger)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := tel.Metrics.Database.RegisterDB(database.DB, tel.Metrics.Meter()); err != nil {
		slogLogger.Warn("failed to register database pool metrics", "error", err)
	}
	if err := tel.Metrics.Dependencies.RegisterServiceInfo(tel.Metrics.Meter(), ServiceName, Version, cfg.Env); err != nil {
		slogLogger.Warn("failed to register service info metric", "error", err)
	}
	if err := schema.Migrate(ctx, database); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	responseCache := newCache(ctx, cfg.Redis, slogLogger)
	publisher := newPublisher(cfg.Events, slogLogger, tel.Metrics)

	gateway := github.NewClient(github.Config{
		BaseURL:  cfg.Github.BaseURL,
		Token:    cfg.Github.Token,
		Timeout:  time.Duration(cfg.Github.TimeoutSeconds) * time.Second,
		PerPage:  cfg.Github.PerPage,
		MaxPages: cfg.Github.MaxPages,
		CacheTTL: time.Duration(cfg.Github.CacheTTL) * time.Second,
	}, responseCache, slogLogger, tel.Metrics)
	if cfg.Github.Token == "" {
		slogLogger.Warn("GITHUB_TOKEN not set, GitHub requests are unauthenticated and heavily rate limited")
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		slogLogger.Warn("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}
	tokens := auth.NewTokenIssuer(secret, time.Duration(cfg.Auth.AccessTokenMinutes)*time.Minute)

	router := NewRouter(Dependencies{
		DB:          database,
		Gateway:     gateway,
		Publisher:   publisher,
		Tokens:      tokens,
		Logger:      slogLogger,
		Metrics:     tel.Metrics,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	app := &App{
		config: cfg,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		},
		grpcServer: grpcserver.New(database, slogLogger, tel.Metrics),
		db:         database,
		cache:      responseCache,
		publisher:  publisher,
		telemetry:  tel,
		logger:     slogLogger,
	}

	slogLogger.Info("application initialized successfully")
	return app
}

func newCache(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) cache.Cache {
	if cfg.Addr == "" {
		return cache.Nop{}
	}
	c, err := cache.NewRedis(ctx, cfg)
	if err != nil {
		logger.Warn("failed to connect to redis, GitHub responses will not be cached", "addr", cfg.Addr, "error", err)
		return cache.Nop{}
	}
	logger.Info("redis cache initialized", "addr", cfg.Addr)
	return c
}

func newPublisher(cfg config.EventsConfig, logger *slog.Logger, m *metrics.Metrics) events.Publisher {
	switch cfg.Driver {
	case "nats":
		p, err := messaging.NewProducer(cfg.NATS.URL, cfg.NATS.SubjectPrefix, logger, m)
		if err != nil {
			logger.Warn("failed to initialize NATS producer, events disabled", "error", err)
			return events.Noop()
		}
		return p
	case "kafka":
		p, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger, m)
		if err != nil {
			logger.Warn("failed to initialize Kafka producer, events disabled", "error", err)
			return events.Noop()
		}
		return p
	case "":
		logger.Info("domain events disabled")
		return events.Noop()
	default:
		logger.Warn("unknown events driver, events disabled", "driver", cfg.Driver)
		return events.Noop()
	}
}

func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go a.grpcServer.Watch(ctx, 15*time.Second)
	go func() {
		if err := a.grpcServer.ListenAndServe(a.config.Grpc.Port); err != nil {
			a.logger.Error("gRPC server error", "error", err)
		}
	}()

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")
	if a.cancel != nil {
		a.cancel()
	}

	err := a.server.Shutdown(ctx)
	a.grpcServer.Stop()

	if cerr := a.publisher.Close(); cerr != nil {
		a.logger.Error("event publisher close error", "error", cerr)
	}
	if cerr := a.cache.Close(); cerr != nil {
		a.logger.Error("cache close error", "error", cerr)
	}
	if terr := a.telemetry.Shutdown(ctx, a.logger); terr != nil {
		a.logger.Error("telemetry shutdown error", "error", terr)
	}
	db.Close(a.db)

	return err
}
