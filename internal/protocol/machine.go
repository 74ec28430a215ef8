/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package protocol implements the line-oriented command protocol spoken over
// the controller's serial link.
package protocol

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_timer/internal/telemetry"
)

// Terminator ends a command.
const Terminator = ';'

// DefaultMaxCommandLength bounds the accumulation buffer.
const DefaultMaxCommandLength = 64

// State of the byte reassembly machine.
type State int

const (
	StateAccumulating State = iota
	StateDispatching
)

func (s State) String() string {
	switch s {
	case StateAccumulating:
		return "accumulating"
	case StateDispatching:
		return "dispatching"
	default:
		return "unknown"
	}
}

// CommandHandler receives completed command lines.
type CommandHandler interface {
	Dispatch(ctx context.Context, line string)
}

// Machine reassembles a byte stream into command lines. It is not safe for
// concurrent use; one goroutine owns it.
type Machine struct {
	handler CommandHandler
	buf     []byte
	state   State
	dropped int
	logger  zerolog.Logger
}

// NewMachine creates a machine whose buffer holds at most maxLen bytes.
func NewMachine(handler CommandHandler, maxLen int, logger zerolog.Logger) *Machine {
	if maxLen <= 0 {
		maxLen = DefaultMaxCommandLength
	}
	return &Machine{
		handler: handler,
		buf:     make([]byte, 0, maxLen),
		logger:  logger.With().Str("component", "reader").Logger(),
	}
}

// Accepted reports whether b belongs to the protocol's character set.
func Accepted(b byte) bool {
	switch {
	case b >= '0' && b <= '9', b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return true
	case b == ',' || b == Terminator || b == '#':
		return true
	}
	return false
}

// Feed consumes one byte. The terminator dispatches the buffered line; bytes
// outside the character set, and bytes past the buffer capacity, are dropped.
func (m *Machine) Feed(ctx context.Context, b byte) {
	if !Accepted(b) {
		telemetry.BytesDroppedTotal.WithLabelValues("charset").Inc()
		return
	}
	if b == Terminator {
		m.dispatch(ctx)
		return
	}
	if len(m.buf) == cap(m.buf) {
		m.dropped++
		telemetry.BytesDroppedTotal.WithLabelValues("overflow").Inc()
		return
	}
	m.buf = append(m.buf, b)
}

// FeedAll feeds every byte of p in order.
func (m *Machine) FeedAll(ctx context.Context, p []byte) {
	for _, b := range p {
		m.Feed(ctx, b)
	}
}

func (m *Machine) dispatch(ctx context.Context) {
	m.state = StateDispatching
	line := string(m.buf)
	if m.dropped > 0 {
		m.logger.Warn().Int("dropped", m.dropped).Str("command", line).Msg("command truncated to buffer capacity")
	}
	m.handler.Dispatch(ctx, line)
	m.buf = m.buf[:0]
	m.dropped = 0
	m.state = StateAccumulating
}

// State returns the current machine state.
func (m *Machine) State() State {
	return m.state
}

// Pending returns the bytes buffered since the last terminator.
func (m *Machine) Pending() string {
	return string(m.buf)
}
