package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/tide-data-collector/internal/adapter/coops"
	httpadapter "github.com/couchcryptid/tide-data-collector/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/tide-data-collector/internal/adapter/kafka"
	"github.com/couchcryptid/tide-data-collector/internal/adapter/sink"
	"github.com/couchcryptid/tide-data-collector/internal/config"
	"github.com/couchcryptid/tide-data-collector/internal/domain"
	"github.com/couchcryptid/tide-data-collector/internal/observability"
	"github.com/couchcryptid/tide-data-collector/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := coops.NewClient(cfg.BaseURL, cfg.FetchTimeout, coops.RequestOptions{
		Datum:       cfg.Datum,
		Units:       cfg.Units,
		TimeZone:    cfg.TimeZone,
		Application: cfg.Application,
	}, logger)

	files := sink.NewFileStore(cfg.OutputDir)
	openSink := func(station domain.StationSpec) (pipeline.RowSink, error) {
		return files.Open(station, cfg.Datum, cfg.Range)
	}

	// Optional Kafka row publisher (feature-flagged via KAFKA_BROKERS).
	var publisher pipeline.RowPublisher
	var kafkaPub *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		kafkaPub = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		publisher = kafkaPub
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	// Optional object-storage mirror (feature-flagged via S3_BUCKET).
	var mirror pipeline.Mirror
	if cfg.S3Enabled() {
		mirror = sink.NewMirror(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, cfg.S3Endpoint,
			cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix, logger)
		logger.Info("s3 mirroring enabled", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
	}

	normOpts := domain.NormalizeOptions{
		ConvertTimestamp: cfg.ConvertTimestamps,
		AppendUnixTime:   cfg.AppendUnixTime,
		Location:         cfg.StationLocation,
	}

	collector := pipeline.NewCollector(client, openSink, publisher, normOpts, logger, metrics)
	runner := pipeline.NewRunner(collector, mirror, cfg.StationConcurrency, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ops endpoints for long runs, enabled only when METRICS_ADDR is set.
	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, runner, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops http server error", "error", err)
			}
		}()
	}

	logger.Info("collection starting",
		"stations", len(cfg.Stations),
		"begin", cfg.Range.Start.Format(domain.DateLayout),
		"end", cfg.Range.End.Format(domain.DateLayout),
		"datum", cfg.Datum,
		"concurrency", cfg.StationConcurrency,
	)

	results := runner.Run(ctx, cfg.Stations, cfg.Range)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		logger.Info("station complete",
			"station", res.Station.Name,
			"windows", res.Windows,
			"rows", res.Rows,
			"output", res.Output,
		)
	}
	logger.Info("collection finished", "stations", len(results), "failed", failed)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("ops http server shutdown error", "error", err)
		}
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
