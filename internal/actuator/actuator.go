/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package actuator drives the activation output.
package actuator

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_timer/internal/config"
)

// Actuator receives the aggregated activation signal.
type Actuator interface {
	Set(ctx context.Context, on bool) error
}

// LogActuator only records transitions.
type LogActuator struct {
	logger zerolog.Logger
}

// NewLogActuator creates a log-only actuator.
func NewLogActuator(logger zerolog.Logger) *LogActuator {
	return &LogActuator{logger: logger.With().Str("component", "actuator").Logger()}
}

// Set logs the new output level.
func (a *LogActuator) Set(ctx context.Context, on bool) error {
	a.logger.Info().Bool("on", on).Msg("output set")
	return nil
}

// GPIOActuator writes to a sysfs GPIO value file.
type GPIOActuator struct {
	path      string
	activeLow bool
	logger    zerolog.Logger

	mu sync.Mutex
}

// NewGPIOActuator creates an actuator writing to path. With activeLow the
// written level is inverted.
func NewGPIOActuator(path string, activeLow bool, logger zerolog.Logger) *GPIOActuator {
	return &GPIOActuator{
		path:      path,
		activeLow: activeLow,
		logger:    logger.With().Str("component", "actuator").Str("path", path).Logger(),
	}
}

// Level returns the value written for the given signal.
func (a *GPIOActuator) Level(on bool) string {
	if on != a.activeLow {
		return "1"
	}
	return "0"
}

// Set writes the level for on.
func (a *GPIOActuator) Set(ctx context.Context, on bool) error {
	level := a.Level(on)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.WriteFile(a.path, []byte(level), 0o644); err != nil {
		return fmt.Errorf("write gpio value: %w", err)
	}
	a.logger.Info().Bool("on", on).Str("level", level).Msg("output set")
	return nil
}

// New builds the actuator selected by cfg.
func New(cfg *config.Config, logger zerolog.Logger) (Actuator, error) {
	switch cfg.ActuatorBackend {
	case config.ActuatorLog, "":
		return NewLogActuator(logger), nil
	case config.ActuatorGPIO:
		return NewGPIOActuator(cfg.GPIOValuePath, cfg.GPIOActiveLow, logger), nil
	default:
		return nil, fmt.Errorf("unsupported actuator backend %q", cfg.ActuatorBackend)
	}
}
