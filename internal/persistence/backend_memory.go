/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package persistence

import (
	"context"
	"sync"
)

// MemoryBackend keeps the image in process memory.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryBackend creates a backend, optionally seeded with an image.
func NewMemoryBackend(seed []byte) *MemoryBackend {
	b := &MemoryBackend{}
	if seed != nil {
		b.data = append([]byte(nil), seed...)
	}
	return b
}

func (b *MemoryBackend) Name() string { return "memory" }

func (b *MemoryBackend) Read(ctx context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, nil
	}
	return append([]byte(nil), b.data...), nil
}

func (b *MemoryBackend) Write(ctx context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data[:0], data...)
	return nil
}

func (b *MemoryBackend) Close() error { return nil }
