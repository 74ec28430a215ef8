/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_timer/internal/actuator"
	"github.com/friendsincode/grimnir_timer/internal/clock"
	"github.com/friendsincode/grimnir_timer/internal/events"
	"github.com/friendsincode/grimnir_timer/internal/protocol"
	"github.com/friendsincode/grimnir_timer/internal/scheduler/state"
	"github.com/friendsincode/grimnir_timer/internal/telemetry"
)

// DefaultInterval is the evaluation period when none is configured.
const DefaultInterval = time.Second

// Service owns the rule store on the controller side: it feeds incoming
// bytes to the protocol machine and periodically evaluates the rules.
type Service struct {
	store    *state.Store
	clock    clock.Clock
	actuator actuator.Actuator
	machine  *protocol.Machine
	bus      *events.Bus
	interval time.Duration
	logger   zerolog.Logger

	primed bool
}

// New constructs the scheduler service. bus may be nil.
func New(store *state.Store, clk clock.Clock, act actuator.Actuator, machine *protocol.Machine, bus *events.Bus, interval time.Duration, logger zerolog.Logger) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Service{
		store:    store,
		clock:    clk,
		actuator: act,
		machine:  machine,
		bus:      bus,
		interval: interval,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}
}

// Run evaluates once immediately, then on every interval, and feeds bytes
// from in to the protocol machine until ctx is cancelled. A closed in stops
// command handling but not evaluation.
func (s *Service) Run(ctx context.Context, in <-chan byte) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("scheduler loop started")
	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler loop stopped")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		case b, ok := <-in:
			if !ok {
				s.logger.Info().Msg("command link closed")
				in = nil
				continue
			}
			s.machine.Feed(ctx, b)
		}
	}
}

func (s *Service) tick(ctx context.Context) {
	telemetry.EvaluationsTotal.Inc()

	weekday, hour, minute := clock.Fields(s.clock.Now())
	active, changed := s.store.Evaluate(weekday, hour, minute)
	telemetry.ActivationState.Set(telemetry.BoolGauge(active))

	if changed {
		telemetry.ActivationChangesTotal.Inc()
		s.logger.Info().
			Bool("active", active).
			Int("weekday", weekday).
			Int("hour", hour).
			Int("minute", minute).
			Msg("activation changed")
		if s.bus != nil {
			s.bus.Publish(events.EventActivationChanged, events.Payload{"active": active})
		}
	}

	if !changed && s.primed {
		return
	}
	if err := s.actuator.Set(ctx, active); err != nil {
		telemetry.ActuatorErrorsTotal.Inc()
		s.logger.Error().Err(err).Bool("active", active).Msg("failed to drive output")
		s.primed = false
		return
	}
	s.primed = true
}
