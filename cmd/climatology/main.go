// Command climatology compares the latest month of a precipitation series
// against its multi-decade climatology and writes two PNG charts.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/precip-climatology/internal/adapter/chart"
	httpadapter "github.com/couchcryptid/precip-climatology/internal/adapter/http"
	"github.com/couchcryptid/precip-climatology/internal/adapter/jsonfile"
	kafkaadapter "github.com/couchcryptid/precip-climatology/internal/adapter/kafka"
	"github.com/couchcryptid/precip-climatology/internal/config"
	"github.com/couchcryptid/precip-climatology/internal/domain"
	"github.com/couchcryptid/precip-climatology/internal/observability"
	"github.com/couchcryptid/precip-climatology/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Report publication is feature-flagged via KAFKA_BROKERS.
	var publisher pipeline.ReportPublisher
	if cfg.KafkaEnabled {
		pub := kafkaadapter.NewPublisher(cfg, logger)
		defer func() {
			if err := pub.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		publisher = pub
		logger.Info("report publication enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("report publication disabled")
	}

	source := jsonfile.NewSource(cfg.InputPath, logger)
	renderer := chart.NewRenderer(cfg.OutputDir, cfg.ChartDPI, logger)
	p := pipeline.New(source, renderer, publisher, logger, metrics, pipeline.Window{
		Location:     cfg.LocationName,
		RefStartYear: cfg.RefStartYear,
		RefEndYear:   cfg.RefEndYear,
	})

	logger.Info("starting analysis",
		"input", cfg.InputPath,
		"output_dir", cfg.OutputDir,
		"location", cfg.LocationName,
	)
	_, runErr := p.Run(ctx)

	if cfg.MetricsTextfile != "" {
		if err := observability.WriteTextfile(cfg.MetricsTextfile, prometheus.DefaultGatherer); err != nil {
			logger.Error("metrics textfile write error", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	if errors.Is(runErr, domain.ErrInputNotFound) || errors.Is(runErr, domain.ErrMalformedInput) {
		return 1
	}

	if cfg.HTTPAddr != "" {
		serve(ctx, cfg, p, logger)
	}

	if runErr != nil {
		logger.Error("analysis finished with errors", "error", runErr)
		return 1
	}
	return 0
}

// serve exposes health, metrics and the charts until the process is signalled.
func serve(ctx context.Context, cfg *config.Config, ready sharedobs.ReadinessChecker, logger *slog.Logger) {
	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, prometheus.DefaultGatherer, cfg.OutputDir, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
