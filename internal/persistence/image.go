/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package persistence stores the schedule in a fixed binary image that
// survives restarts.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_timer/internal/telemetry"
)

// ErasedByte is what unwritten non-volatile memory reads back as.
const ErasedByte = 0xFF

// ErrAddressOutOfRange is returned for reads or writes past the image end.
var ErrAddressOutOfRange = errors.New("address out of range")

// ByteStore is byte-addressable non-volatile memory.
type ByteStore interface {
	ByteAt(addr int) (byte, error)
	SetByteAt(addr int, b byte) error
	Size() int
}

// Committer is implemented by byte stores that buffer writes.
type Committer interface {
	Commit(ctx context.Context) error
}

// Backend persists a whole image at once.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// Read returns the stored image, or nil when nothing has been stored yet.
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// Image is an in-memory copy of the non-volatile memory, flushed to its
// backend on Commit.
type Image struct {
	mu      sync.Mutex
	backend Backend
	data    []byte
	dirty   bool
	logger  zerolog.Logger
}

// OpenImage reads the current image from backend. A missing or short image is
// padded with erased bytes; a longer one is truncated to size.
func OpenImage(ctx context.Context, backend Backend, size int, logger zerolog.Logger) (*Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid image size %d", size)
	}
	stored, err := backend.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s image: %w", backend.Name(), err)
	}

	data := make([]byte, size)
	for i := range data {
		data[i] = ErasedByte
	}
	copy(data, stored)

	logger = logger.With().Str("component", "nvstore").Str("backend", backend.Name()).Logger()
	logger.Debug().Int("size", size).Int("stored", len(stored)).Msg("image opened")

	return &Image{backend: backend, data: data, logger: logger}, nil
}

// Size returns the image length in bytes.
func (m *Image) Size() int {
	return len(m.data)
}

// ByteAt reads the byte at addr.
func (m *Image) ByteAt(addr int) (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if addr < 0 || addr >= len(m.data) {
		return 0, fmt.Errorf("read %d: %w", addr, ErrAddressOutOfRange)
	}
	return m.data[addr], nil
}

// SetByteAt writes b at addr. Writing the value already stored is a no-op,
// as EEPROM update semantics go.
func (m *Image) SetByteAt(addr int, b byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if addr < 0 || addr >= len(m.data) {
		return fmt.Errorf("write %d: %w", addr, ErrAddressOutOfRange)
	}
	if m.data[addr] != b {
		m.data[addr] = b
		m.dirty = true
	}
	return nil
}

// Bytes returns a copy of the image.
func (m *Image) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}

// Commit writes the image to the backend if anything changed since the last
// commit.
func (m *Image) Commit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty {
		return nil
	}

	start := time.Now()
	snapshot := make([]byte, len(m.data))
	copy(snapshot, m.data)
	err := m.backend.Write(ctx, snapshot)
	telemetry.PersistDuration.WithLabelValues(m.backend.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		telemetry.PersistWritesTotal.WithLabelValues(m.backend.Name(), "error").Inc()
		return fmt.Errorf("write %s image: %w", m.backend.Name(), err)
	}
	telemetry.PersistWritesTotal.WithLabelValues(m.backend.Name(), "ok").Inc()
	m.dirty = false
	return nil
}

// Close releases the backend.
func (m *Image) Close() error {
	return m.backend.Close()
}
