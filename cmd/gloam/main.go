// Package main is the entry point for Gloam.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/gloam/internal/game"
	"github.com/samdwyer/gloam/internal/logger"
	"github.com/samdwyer/gloam/internal/telemetry"
)

func main() {
	// Local development keeps keys and overrides in .env.
	envErr := godotenv.Load()

	log, closeLog := logger.New()
	defer closeLog()
	if envErr != nil {
		log.WithError(envErr).Debug(".env file not loaded")
	}

	setupOTelEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runID := telemetry.NewRunID()
	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(ctx, runID)
		if err != nil {
			log.WithError(err).Warn("Telemetry setup failed, running without traces")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.WithError(err).Error("Telemetry shutdown failed")
				}
			}()
		}
	}

	if err := run(ctx, log.WithField("run", runID)); err != nil {
		fmt.Fprintln(os.Stderr, "gloam:", err)
		log.WithError(err).Error("Exiting")
		closeLog()
		os.Exit(1)
	}
}

func run(ctx context.Context, log logrus.FieldLogger) error {
	cfg, err := game.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	g, err := game.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize game: %w", err)
	}
	return g.Run(ctx)
}

// setupOTelEnv points the OTLP exporter at Honeycomb when an API key is
// configured and no endpoint was set explicitly.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_GLOAM_API_KEY")
	if apiKey == "" {
		return
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	dataset := os.Getenv("HONEYCOMB_GLOAM_DATASET")
	if dataset == "" {
		dataset = "gloam"
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
