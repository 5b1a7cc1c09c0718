// The apiserver command runs the report-engine HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/radassist/report-engine/internal/application/dedup"
	"github.com/radassist/report-engine/internal/application/restructure"
	"github.com/radassist/report-engine/internal/config"
	"github.com/radassist/report-engine/internal/infrastructure/database/postgres"
	"github.com/radassist/report-engine/internal/infrastructure/database/postgres/repositories"
	"github.com/radassist/report-engine/internal/infrastructure/database/redis"
	"github.com/radassist/report-engine/internal/infrastructure/messaging/kafka"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/radassist/report-engine/internal/interfaces/http"
	"github.com/radassist/report-engine/internal/interfaces/http/handlers"
	"github.com/radassist/report-engine/internal/textproc"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	logger.Info("starting report-engine api server",
		logging.Int("port", cfg.Server.Port))

	conn, err := postgres.NewConnection(cfg.Database, logger.Named("postgres"))
	if err != nil {
		logger.Fatal("postgres connection failed", logging.Err(err))
	}
	defer conn.Close()
	if cfg.Database.MigrationPath != "" {
		if err := conn.RunMigrations(cfg.Database.MigrationPath); err != nil {
			logger.Fatal("migrations failed", logging.Err(err))
		}
	}

	cache, err := redis.NewClient(cfg.Redis, logger.Named("redis"))
	if err != nil {
		logger.Fatal("redis connection failed", logging.Err(err))
	}
	defer cache.Close()

	sentences := repositories.NewPostgresSentenceRepo(conn, logger.Named("sentences"))
	paragraphs := repositories.NewPostgresParagraphRepo(conn, logger.Named("paragraphs"))
	reports := repositories.NewPostgresReportRepo(conn, paragraphs, logger.Named("reports"))
	profiles := repositories.NewPostgresProfileRepo(conn, logger.Named("profiles"))
	keywords := repositories.NewPostgresKeywordRepo(conn, logger.Named("keywords"))

	contexts := redis.NewProfileContextCache(cache, profiles, keywords, logger.Named("profile-cache"))

	var publisher dedup.EventPublisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, logger.Named("kafka"))
		defer producer.Close()
		publisher = producer
	}

	var metrics *prometheus.Metrics
	var recorder dedup.Recorder
	if cfg.Metrics.Enabled {
		metrics = prometheus.NewMetrics(cfg.Metrics)
		recorder = metrics
	}

	classifier := dedup.NewClassifier(sentences, paragraphs, logger.Named("classifier"))
	splitter := textproc.NewSplitter(textproc.NewRegistry(), logger.Named("splitter"))
	saver := dedup.NewSaver(classifier, splitter, sentences, publisher, recorder, logger.Named("saver"))
	merger := restructure.NewService(cfg.Dedup.TitleMatchThreshold, publisher, logger.Named("restructure"))

	routerCfg := httpserver.RouterConfig{
		DedupHandler:   handlers.NewDedupHandler(classifier, saver, contexts, logger.Named("dedup")),
		KeywordHandler: handlers.NewKeywordHandler(keywords, logger.Named("keywords")),
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.HealthChecker{
			"postgres": conn,
			"redis":    cache,
		}, logger.Named("health")),
		Logger: logger,
	}
	if metrics != nil {
		routerCfg.RestructureHandler = handlers.NewRestructureHandler(merger, reports, metrics, logger.Named("restructure"))
		routerCfg.MetricsHandler = metrics.Handler()
		routerCfg.HTTPObserver = metrics
	} else {
		routerCfg.RestructureHandler = handlers.NewRestructureHandler(merger, reports, nil, logger.Named("restructure"))
	}

	srv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger.Named("http"))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("http server failed", logging.Err(err))
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", logging.Err(err))
	}
	logger.Info("server stopped")
}
