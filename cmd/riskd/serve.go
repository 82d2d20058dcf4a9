package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kushwaha-yash/loan-risk/internal/application/usecase"
	"github.com/kushwaha-yash/loan-risk/internal/domain/port"
	"github.com/kushwaha-yash/loan-risk/internal/domain/service"
	"github.com/kushwaha-yash/loan-risk/internal/infrastructure/config"
	kafkapub "github.com/kushwaha-yash/loan-risk/internal/infrastructure/kafka"
	"github.com/kushwaha-yash/loan-risk/internal/infrastructure/memory"
	"github.com/kushwaha-yash/loan-risk/internal/infrastructure/modelbundle"
	pgrepo "github.com/kushwaha-yash/loan-risk/internal/infrastructure/postgres"
	"github.com/kushwaha-yash/loan-risk/internal/infrastructure/questions"
	grpcpresentation "github.com/kushwaha-yash/loan-risk/internal/presentation/grpc"
	"github.com/kushwaha-yash/loan-risk/internal/presentation/rest"
	pkgkafka "github.com/kushwaha-yash/loan-risk/pkg/kafka"
	"github.com/kushwaha-yash/loan-risk/pkg/observability"
	"github.com/kushwaha-yash/loan-risk/pkg/postgres"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC and HTTP servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   logLevel(cmd, cfg.LogLevel),
		Format:  cfg.LogFormat,
		Service: config.ServiceName,
	})

	logger.Info("starting "+config.ServiceName,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"version", version,
	)

	// The model and questionnaire must load before anything listens.
	bundle, err := modelbundle.Load(cfg.ModelBundlePath)
	if err != nil {
		return err
	}
	catalog, err := questions.Load(cfg.QuestionsPath)
	if err != nil {
		return err
	}
	if err := catalog.CheckAgainst(bundle.Schema()); err != nil {
		return err
	}
	pipeline, err := service.NewPipeline(bundle, logger)
	if err != nil {
		return err
	}
	logger.Info("model bundle loaded",
		slog.String("path", cfg.ModelBundlePath),
		slog.String("model_version", bundle.Version()),
		slog.Int("features", bundle.Schema().Len()),
	)

	// Metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: config.ServiceName})
	if err != nil {
		return err
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			logger.Warn("meter provider shutdown failed", "error", err)
		}
	}()
	assessmentMetrics, err := observability.NewAssessmentMetrics(meterProvider.Meter(config.ServiceName))
	if err != nil {
		return err
	}

	checks := map[string]rest.ReadinessCheck{}

	// Persistence.
	var repo port.AssessmentRepository
	if cfg.PersistenceEnabled {
		if err := postgres.RunMigrations(cfg.Postgres().DSN(), cfg.MigrationsSource()); err != nil {
			return err
		}

		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := postgres.NewPool(dbCtx, cfg.Postgres())
		dbCancel()
		if err != nil {
			return err
		}
		defer pool.Close()
		logger.Info("connected to database", slog.String("host", cfg.DB.Host))

		repo = pgrepo.NewAssessmentRepository(pool)
		checks["database"] = func(ctx context.Context) error { return postgres.HealthCheck(ctx, pool) }
	} else {
		logger.Warn("persistence disabled, assessments are kept in memory",
			slog.Int("limit", cfg.MemoryAssessments),
		)
		repo = memory.NewAssessmentRepository(cfg.MemoryAssessments)
	}

	// Events.
	var publisher port.EventPublisher
	if cfg.EventsEnabled {
		producer := pkgkafka.NewProducer(pkgkafka.Config{Brokers: cfg.Kafka.Brokers, ClientID: config.ServiceName})
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close failed", "error", err)
			}
		}()
		publisher = kafkapub.NewPublisher(producer, cfg.Kafka.Topic, logger)
	} else {
		logger.Warn("events disabled, domain events are only logged")
		publisher = memory.NewEventPublisher(100, logger)
	}

	// Use cases.
	submitAssessmentUC := usecase.NewSubmitAssessment(pipeline, repo, publisher, assessmentMetrics, logger)
	getAssessmentUC := usecase.NewGetAssessment(repo)
	listAssessmentsUC := usecase.NewListAssessments(repo)
	listQuestionsUC := usecase.NewListQuestions(catalog)

	// gRPC server.
	grpcHandler := grpcpresentation.NewRiskServiceHandler(submitAssessmentUC, getAssessmentUC, listAssessmentsUC, listQuestionsUC, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddr(),
		ServiceName: config.ServiceName,
		TLSCertFile: cfg.TLS.CertFile,
		TLSKeyFile:  cfg.TLS.KeyFile,
		Reflection:  cfg.GRPCReflection,
	}, logger)
	if err != nil {
		return err
	}

	// HTTP server.
	router := rest.NewRouter(
		rest.NewAssessmentHandler(submitAssessmentUC, getAssessmentUC, listAssessmentsUC, listQuestionsUC, logger).
			LimitSubmissions(rest.NewSubmitLimiter(cfg.SubmitRPS, cfg.SubmitBurst)),
		rest.NewHealthHandler(config.ServiceName, checks, logger),
		metricsHandler,
		logger,
	)
	httpServer := rest.NewHTTPServer(cfg.HTTPAddr(), router)

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info(config.ServiceName+" started",
		"grpc_address", cfg.GRPCAddr(),
		"http_address", cfg.HTTPAddr(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal.
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	// Graceful shutdown.
	logger.Info("shutting down " + config.ServiceName)

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info(config.ServiceName + " stopped")
	return serveErr
}
