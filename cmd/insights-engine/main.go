package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/healthsignals/insights-engine/internal/api"
	"github.com/healthsignals/insights-engine/internal/cache"
	"github.com/healthsignals/insights-engine/internal/config"
	"github.com/healthsignals/insights-engine/internal/engine"
	"github.com/healthsignals/insights-engine/internal/metrics"
	"github.com/healthsignals/insights-engine/internal/patterns"
	"github.com/healthsignals/insights-engine/internal/repo"
	"github.com/healthsignals/insights-engine/internal/services"
	"github.com/healthsignals/insights-engine/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting insights-engine", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	var cacheProvider cache.Provider = cache.NoopProvider{}
	var valkeyCloser cache.Provider
	if cfg.Cache.Enabled && cfg.Cache.Addr != "" {
		provider, err := cache.NewValkeyProvider(cache.ValkeyConfig{
			Addr:         cfg.Cache.Addr,
			Username:     cfg.Cache.Username,
			Password:     cfg.Cache.Password,
			DB:           cfg.Cache.DB,
			DialTimeout:  cfg.Cache.DialTimeout,
			ReadTimeout:  cfg.Cache.ReadTimeout,
			WriteTimeout: cfg.Cache.WriteTimeout,
			MaxRetries:   cfg.Cache.MaxRetries,
			TLS:          cfg.Cache.TLS,
		})
		if err != nil {
			logger.Warn("valkey cache unavailable", slog.Any("error", err))
		} else {
			cacheProvider = provider
			valkeyCloser = provider
		}
	}
	if valkeyCloser != nil {
		defer valkeyCloser.Close()
	}

	recordsClient := repo.NewRecordsClient(
		cfg.Clients.Records.BaseURL,
		cfg.Clients.Records.RecordsPath,
		cfg.Clients.Records.Timeout,
		logger,
		cacheProvider,
		cfg.Cache.RecordsTTL,
	)

	var archive services.Archive
	if cfg.Archive.Enabled && cfg.Archive.DSN != "" {
		db, err := sql.Open("postgres", cfg.Archive.DSN)
		if err != nil {
			logger.Error("failed to open archive database", slog.Any("error", err))
			os.Exit(1)
		}
		defer db.Close()
		reportArchive := repo.NewReportArchive(db)
		schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 10*time.Second)
		if err := reportArchive.EnsureSchema(schemaCtx); err != nil {
			cancelSchema()
			logger.Error("failed to ensure archive schema", slog.Any("error", err))
			os.Exit(1)
		}
		cancelSchema()
		archive = reportArchive
	} else {
		logger.Warn("report archive disabled; history and feedback endpoints unavailable")
	}

	crisis := engine.NewCrisisAnalyzer(cfg.Analysis.CrisisThreshold)
	activity := engine.NewActivityAnalyzer(cfg.Analysis.ObservationWindow)
	pipeline := engine.NewPipeline(logger, nil, nil, crisis, activity, nil)
	miner := patterns.NewMiner(logger, nil, 0)

	reportService := services.NewReportService(logger, recordsClient, pipeline, archive, miner, cfg.Analysis.WindowDays)

	server, err := api.NewServer(cfg.Server, logger, api.NewHandler(logger, reportService))
	if err != nil {
		logger.Error("failed to create HTTP server", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		if serveErr := server.Start(); serveErr != nil {
			logger.Error("HTTP server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	server.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("insights-engine stopped")
}
