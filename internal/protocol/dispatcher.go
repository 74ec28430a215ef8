/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/friendsincode/grimnir_timer/internal/clock"
	"github.com/friendsincode/grimnir_timer/internal/events"
	"github.com/friendsincode/grimnir_timer/internal/persistence"
	"github.com/friendsincode/grimnir_timer/internal/scheduler/state"
	"github.com/friendsincode/grimnir_timer/internal/telemetry"
	"github.com/friendsincode/grimnir_timer/internal/version"
)

// LineEnding terminates every reply line, as a serial println would.
const LineEnding = "\r\n"

type handler func(ctx context.Context, d *Dispatcher, cmd Command) ([]string, error)

var handlers = map[string]handler{
	OpProgram:   handleProgram,
	OpRemove:    handleRemove,
	OpDisable:   handleDisable,
	OpEnable:    handleEnable,
	OpSetClock:  handleSetClock,
	OpBuildTime: handleBuildTime,
	OpStatus:    handleStatus,
}

// Dispatcher executes parsed commands against the store, the image and the
// clock, and writes replies to the transport.
type Dispatcher struct {
	store     *state.Store
	codec     *persistence.Codec
	nv        persistence.ByteStore
	clock     clock.Clock
	out       io.Writer
	bus       *events.Bus
	buildTime func() time.Time
	logger    zerolog.Logger
}

// NewDispatcher wires a dispatcher. bus may be nil.
func NewDispatcher(store *state.Store, codec *persistence.Codec, nv persistence.ByteStore, clk clock.Clock, out io.Writer, bus *events.Bus, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store:     store,
		codec:     codec,
		nv:        nv,
		clock:     clk,
		out:       out,
		bus:       bus,
		buildTime: version.BuildTimestamp,
		logger:    logger.With().Str("component", "protocol").Logger(),
	}
}

// Dispatch runs one command line and writes its reply. Blank lines are
// ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) {
	lines, err := d.Execute(ctx, line)
	if err != nil {
		lines = []string{ReplyFor(err)}
	}
	for _, l := range lines {
		if _, werr := io.WriteString(d.out, l+LineEnding); werr != nil {
			d.logger.Warn().Err(werr).Msg("failed to write reply")
			return
		}
	}
}

// Execute parses and runs line and returns the reply lines. A rejected
// command returns an error whose reply is available through ReplyFor.
func (d *Dispatcher) Execute(ctx context.Context, line string) (lines []string, err error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	cmd, err := Parse(line, d.store.Len())
	if err != nil {
		d.logger.Warn().Err(err).Str("command", cmd.Raw).Msg("command rejected")
		telemetry.CommandsTotal.WithLabelValues(opcodeLabel(cmd.Opcode, err), "rejected").Inc()
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "protocol.dispatch", attribute.String("opcode", cmd.Opcode))
	defer func() { telemetry.EndSpan(span, err) }()

	lines, err = handlers[cmd.Opcode](ctx, d, cmd)
	result := "ok"
	if err != nil {
		result = "error"
	}
	telemetry.CommandsTotal.WithLabelValues(cmd.Opcode, result).Inc()
	return lines, err
}

func opcodeLabel(opcode string, err error) string {
	if errors.Is(err, ErrUnknownCommand) {
		return "unknown"
	}
	return opcode
}

// persist saves the store after a mutation. The mutation stays applied in
// memory even if saving fails.
func (d *Dispatcher) persist(ctx context.Context, cmd Command) error {
	if err := d.codec.Save(ctx, d.nv, d.store); err != nil {
		d.logger.Error().Err(err).Str("command", cmd.Raw).Msg("failed to save schedule image")
		return replyErr(ErrPersist, ReplyPersistFailed, err.Error())
	}
	d.publish(events.EventScheduleUpdate, events.Payload{
		"opcode": cmd.Opcode,
		"slot":   cmd.Slot + 1,
	})
	return nil
}

func (d *Dispatcher) publish(eventType events.EventType, payload events.Payload) {
	if d.bus != nil {
		d.bus.Publish(eventType, payload)
	}
}

func handleProgram(ctx context.Context, d *Dispatcher, cmd Command) ([]string, error) {
	d.store.SetRule(cmd.Slot, cmd.Rule)
	d.logger.Info().
		Int("slot", cmd.Slot+1).
		Str("days", cmd.Rule.DayMask()).
		Str("window", cmd.Rule.Window()).
		Msg("rule programmed")
	if err := d.persist(ctx, cmd); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("OK: PG %d salva e ativada", cmd.Slot+1)}, nil
}

func handleRemove(ctx context.Context, d *Dispatcher, cmd Command) ([]string, error) {
	d.store.Remove(cmd.Slot)
	d.logger.Info().Int("slot", cmd.Slot+1).Msg("rule removed")
	if err := d.persist(ctx, cmd); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("OK: PG %d removida", cmd.Slot+1)}, nil
}

func handleDisable(ctx context.Context, d *Dispatcher, cmd Command) ([]string, error) {
	d.store.Disable(cmd.Slot)
	d.logger.Info().Int("slot", cmd.Slot+1).Msg("rule disabled")
	if err := d.persist(ctx, cmd); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("OK: PG %d desativada", cmd.Slot+1)}, nil
}

func handleEnable(ctx context.Context, d *Dispatcher, cmd Command) ([]string, error) {
	d.store.Enable(cmd.Slot)
	d.logger.Info().Int("slot", cmd.Slot+1).Msg("rule enabled")
	if err := d.persist(ctx, cmd); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("OK: PG %d ativada", cmd.Slot+1)}, nil
}

func handleSetClock(ctx context.Context, d *Dispatcher, cmd Command) ([]string, error) {
	if err := d.setClock(cmd.Time, "command"); err != nil {
		return nil, err
	}
	return []string{"OK: RTC ajustado"}, nil
}

func handleBuildTime(ctx context.Context, d *Dispatcher, cmd Command) ([]string, error) {
	if err := d.setClock(d.buildTime(), "build"); err != nil {
		return nil, err
	}
	return []string{"OK: RTC ajustado (build)"}, nil
}

func (d *Dispatcher) setClock(t time.Time, source string) error {
	if err := d.clock.Set(t); err != nil {
		d.logger.Error().Err(err).Msg("failed to set clock")
		return replyErr(ErrMalformed, ReplyClockFormat, err.Error())
	}
	d.logger.Info().Time("time", t).Str("source", source).Msg("clock adjusted")
	d.publish(events.EventClockAdjusted, events.Payload{
		"time":   t.Format(time.RFC3339),
		"source": source,
	})
	return nil
}

func handleStatus(ctx context.Context, d *Dispatcher, cmd Command) ([]string, error) {
	return RenderStatus(d.store.Rules(), d.clock.Now()), nil
}
