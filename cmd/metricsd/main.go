package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LibertytechX/seeds-metrics/internal/application/dto"
	"github.com/LibertytechX/seeds-metrics/internal/application/usecase"
	"github.com/LibertytechX/seeds-metrics/internal/domain/service"
	"github.com/LibertytechX/seeds-metrics/internal/infrastructure/cache"
	"github.com/LibertytechX/seeds-metrics/internal/infrastructure/clock"
	"github.com/LibertytechX/seeds-metrics/internal/infrastructure/config"
	"github.com/LibertytechX/seeds-metrics/internal/infrastructure/kafka"
	pgRepo "github.com/LibertytechX/seeds-metrics/internal/infrastructure/persistence/postgres"
	"github.com/LibertytechX/seeds-metrics/internal/infrastructure/scheduler"
	"github.com/LibertytechX/seeds-metrics/internal/presentation/consumer"
	grpcPresentation "github.com/LibertytechX/seeds-metrics/internal/presentation/grpc"
	"github.com/LibertytechX/seeds-metrics/internal/presentation/rest"
	"github.com/LibertytechX/seeds-metrics/pkg/auth"
	pkgkafka "github.com/LibertytechX/seeds-metrics/pkg/kafka"
	"github.com/LibertytechX/seeds-metrics/pkg/observability"
	pkgpostgres "github.com/LibertytechX/seeds-metrics/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("seeds-metrics exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting seeds-metrics",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"timezone", cfg.Batch.Timezone,
	)

	// Tracing and metrics.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.Tracing.OTLPEndpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush

	engineMetrics, err := observability.NewEngineMetrics(meterProvider)
	if err != nil {
		return fmt.Errorf("init engine metrics: %w", err)
	}

	// Database connection and migrations.
	dbCfg := pkgpostgres.Config{
		Host:            cfg.DB.Host,
		Port:            cfg.DB.Port,
		User:            cfg.DB.User,
		Password:        cfg.DB.Password,
		Database:        cfg.DB.Name,
		SSLMode:         cfg.DB.SSLMode,
		ApplicationName: cfg.ServiceName,
		MaxConns:        int32(cfg.DB.MaxConns),
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	dbCancel()
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(dbCfg.DSN(), cfg.Batch.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Redis snapshot cache.
	redisClient := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisClient.Close()
	snapshotCache := cache.NewRedisSnapshotCache(redisClient, cfg.Redis.SnapshotTTL)

	// Kafka producer and outbox relay.
	kafkaCfg := cfg.Kafka.Client()
	producer, err := pkgkafka.NewProducer(kafkaCfg)
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer producer.Close()

	businessClock, err := clock.NewSystem(cfg.Batch.Timezone)
	if err != nil {
		return err
	}

	outboxRepo := pgRepo.NewOutboxRepo(pool)
	publisher := kafka.NewEventPublisher(producer, cfg.Kafka.Topic, logger)
	relay := kafka.NewOutboxRelay(outboxRepo, publisher, cfg.Batch.RelayBatchSize, businessClock.Now, logger)

	// Repositories, engine and use cases.
	termsRepo := pgRepo.NewLoanTermsRepo(pool)
	repaymentRepo := pgRepo.NewRepaymentRepo(pool)
	snapshotRepo := pgRepo.NewSnapshotRepo(pool)
	engine := service.NewMetricsEngine()

	computeUC := usecase.NewComputeSnapshotUseCase(
		termsRepo, repaymentRepo, snapshotRepo, snapshotCache, engine, businessClock, engineMetrics, logger,
	)
	getUC := usecase.NewGetSnapshotUseCase(snapshotRepo, snapshotCache, logger)
	previewUC := usecase.NewPreviewSnapshotUseCase(engine, businessClock)
	recomputeUC := usecase.NewRecomputePortfolioUseCase(
		termsRepo, computeUC, businessClock, engineMetrics, cfg.Batch.Workers, logger,
	)

	// JWT validation.
	jwtCfg, err := auth.ConfigFromEnv(cfg.Auth.JWTPublicKey, cfg.Auth.JWTPublicKeyFile, cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return fmt.Errorf("load jwt key: %w", err)
	}
	jwtCfg.Leeway = cfg.Auth.Leeway
	jwtSvc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return fmt.Errorf("init jwt service: %w", err)
	}

	// gRPC server.
	handler := grpcPresentation.NewLoanMetricsHandler(computeUC, getUC, previewUC, recomputeUC)
	grpcServer, err := grpcPresentation.NewServer(handler, grpcPresentation.ServerConfig{
		Port:         cfg.GRPCPort,
		TLSCertFile:  cfg.GRPCTLS.CertFile,
		TLSKeyFile:   cfg.GRPCTLS.KeyFile,
		ClientCAFile: cfg.GRPCTLS.ClientCAFile,
		Reflection:   cfg.GRPCReflection,
	}, jwtSvc, logger)
	if err != nil {
		return err
	}

	// HTTP server: health, metrics and read-only snapshots.
	mux := http.NewServeMux()
	rest.NewHealthHandler(map[string]rest.ReadinessCheck{
		"postgres": func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) },
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	}, logger).RegisterRoutes(mux)
	rest.NewSnapshotHandler(getUC, jwtSvc, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers and background workers.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if cfg.Kafka.RepaymentsTopic != "" {
		listener := consumer.NewRepaymentListener(computeUC, logger)
		repaymentConsumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.RepaymentsTopic, listener.Handle, logger)
		if err != nil {
			return fmt.Errorf("create repayment consumer: %w", err)
		}
		defer repaymentConsumer.Close()

		go func() {
			if err := repaymentConsumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("repayment consumer error: %w", err)
			}
		}()
	}

	// The relay always runs so that snapshots computed over gRPC are published
	// even when the nightly batch is disabled.
	sched := scheduler.New(businessClock.Location(), logger)
	if err := sched.Add("outbox-relay", cfg.Batch.RelaySchedule, func(ctx context.Context) error {
		published, err := relay.Run(ctx)
		if published > 0 {
			logger.Debug("outbox relayed", "published", published)
		}
		return err
	}); err != nil {
		return err
	}
	if cfg.Batch.Enabled {
		if err := sched.Add("portfolio-recompute", cfg.Batch.Schedule, func(ctx context.Context) error {
			_, err := recomputeUC.Execute(ctx, dto.RecomputePortfolioRequest{})
			return err
		}); err != nil {
			return err
		}
	}

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		sched.Run(ctx)
	}()

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
		cancel()
	}

	// Graceful shutdown.
	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	<-schedDone

	// Flush anything the last computations wrote to the outbox.
	if _, err := relay.Run(shutdownCtx); err != nil {
		logger.Warn("final outbox relay failed", "error", err)
	}

	logger.Info("seeds-metrics stopped")
	return runErr
}
