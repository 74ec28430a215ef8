/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/friendsincode/grimnir_timer/internal/actuator"
	"github.com/friendsincode/grimnir_timer/internal/clock"
	"github.com/friendsincode/grimnir_timer/internal/config"
	"github.com/friendsincode/grimnir_timer/internal/eventbus"
	"github.com/friendsincode/grimnir_timer/internal/events"
	"github.com/friendsincode/grimnir_timer/internal/logging"
	"github.com/friendsincode/grimnir_timer/internal/persistence"
	"github.com/friendsincode/grimnir_timer/internal/protocol"
	"github.com/friendsincode/grimnir_timer/internal/scheduler"
	"github.com/friendsincode/grimnir_timer/internal/scheduler/state"
	"github.com/friendsincode/grimnir_timer/internal/server"
	"github.com/friendsincode/grimnir_timer/internal/telemetry"
	"github.com/friendsincode/grimnir_timer/internal/transport"
	"github.com/friendsincode/grimnir_timer/internal/version"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "grimnirtimer",
	Short:   "Grimnir Timer - weekly time-of-day activation controller",
	Long:    "Grimnir Timer drives an output from a fixed set of weekly time windows, programmed over a serial line protocol and kept in a persistent schedule image.",
	Version: version.Version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the controller loop",
	Long:  "Listen for commands on the configured serial link and drive the output from the stored schedule",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration (called by commands that need it)
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = logging.Setup(cfg.Environment)
	for _, warn := range cfg.LegacyEnvWarnings {
		logger.Warn().Msg(warn)
	}
	return nil
}

// openSchedule opens the configured image and loads the rules it holds.
func openSchedule(ctx context.Context) (*state.Store, *persistence.Codec, *persistence.Image, error) {
	img, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open schedule image: %w", err)
	}

	store := state.NewStore(cfg.Slots)
	codec := persistence.NewCodec(logger)
	if _, err := codec.Load(ctx, img, store); err != nil {
		_ = img.Close()
		return nil, nil, nil, fmt.Errorf("load schedule: %w", err)
	}
	return store, codec, img, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("version", version.Version).Msg("Grimnir Timer starting")

	tracerProvider, err := telemetry.InitTracer(ctx, telemetry.TracerConfig{
		ServiceName:    "grimnir-timer",
		ServiceVersion: version.Version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TracingEnabled,
		SampleRate:     cfg.TracingSampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown tracer provider")
		}
	}()

	bus := events.NewBus()
	if cfg.NATSURL != "" {
		natsCfg := eventbus.DefaultNATSConfig()
		natsCfg.URL = cfg.NATSURL
		natsCfg.SubjectPrefix = cfg.NATSSubjectPrefix
		publisher, err := eventbus.ConnectNATS(natsCfg, logger)
		if err != nil {
			return err
		}
		publisher.Forward(ctx, bus)
		defer func() {
			stop()
			publisher.Wait()
			if err := publisher.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to drain nats connection")
			}
		}()
	}

	store, codec, img, err := openSchedule(ctx)
	if err != nil {
		return err
	}
	defer img.Close()

	link, err := transport.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer link.Close()

	act, err := actuator.New(cfg, logger)
	if err != nil {
		return err
	}

	clk := clock.NewSystemClock()
	dispatcher := protocol.NewDispatcher(store, codec, img, clk, link, bus, logger)
	machine := protocol.NewMachine(dispatcher, cfg.MaxCommandLength, logger)
	svc := scheduler.New(store, clk, act, machine, bus, cfg.TickInterval, logger)

	if cfg.MetricsBind != "" {
		ops := server.New(cfg.MetricsBind, store, clk, logger)
		go func() {
			if err := ops.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("ops server error")
			}
		}()
	}

	in := make(chan byte, 256)
	go func() {
		if err := transport.Pump(ctx, link, in); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("command link failed")
		}
	}()

	err = svc.Run(ctx, in)
	logger.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cerr := img.Commit(shutdownCtx); cerr != nil {
		logger.Error().Err(cerr).Msg("final image commit failed")
	}

	logger.Info().Msg("Grimnir Timer stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
