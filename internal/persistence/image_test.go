/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_timer/internal/config"
	"github.com/friendsincode/grimnir_timer/internal/models"
	"github.com/friendsincode/grimnir_timer/internal/scheduler/state"
)

type countingBackend struct {
	*MemoryBackend
	writes int
	err    error
}

func (b *countingBackend) Write(ctx context.Context, data []byte) error {
	if b.err != nil {
		return b.err
	}
	b.writes++
	return b.MemoryBackend.Write(ctx, data)
}

func TestOpenImagePadsWithErasedBytes(t *testing.T) {
	img, err := OpenImage(context.Background(), NewMemoryBackend([]byte{1, 2}), 5, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	want := []byte{1, 2, ErasedByte, ErasedByte, ErasedByte}
	got := img.Bytes()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bytes() = %v, want %v", got, want)
		}
	}
}

func TestImageBounds(t *testing.T) {
	img, _ := OpenImage(context.Background(), NewMemoryBackend(nil), 4, zerolog.Nop())
	if _, err := img.ByteAt(4); !errors.Is(err, ErrAddressOutOfRange) {
		t.Fatalf("ByteAt(4) err = %v", err)
	}
	if err := img.SetByteAt(-1, 0); !errors.Is(err, ErrAddressOutOfRange) {
		t.Fatalf("SetByteAt(-1) err = %v", err)
	}
}

func TestCommitOnlyWhenDirty(t *testing.T) {
	ctx := context.Background()
	backend := &countingBackend{MemoryBackend: NewMemoryBackend(nil)}
	img, _ := OpenImage(ctx, backend, 4, zerolog.Nop())

	if err := img.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if backend.writes != 0 {
		t.Fatalf("clean commit wrote %d times", backend.writes)
	}

	_ = img.SetByteAt(0, ErasedByte) // same value, stays clean
	_ = img.Commit(ctx)
	if backend.writes != 0 {
		t.Fatalf("unchanged byte triggered a write")
	}

	_ = img.SetByteAt(0, Magic)
	_ = img.Commit(ctx)
	_ = img.Commit(ctx)
	if backend.writes != 1 {
		t.Fatalf("writes = %d, want 1", backend.writes)
	}
}

func TestCommitFailureKeepsImageDirty(t *testing.T) {
	ctx := context.Background()
	backend := &countingBackend{MemoryBackend: NewMemoryBackend(nil), err: errors.New("disk full")}
	img, _ := OpenImage(ctx, backend, 4, zerolog.Nop())

	_ = img.SetByteAt(1, 7)
	if err := img.Commit(ctx); err == nil {
		t.Fatal("expected commit error")
	}

	backend.err = nil
	if err := img.Commit(ctx); err != nil {
		t.Fatalf("retry Commit: %v", err)
	}
	if backend.writes != 1 {
		t.Fatalf("writes = %d, want 1", backend.writes)
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "timer.eeprom")
	backend := NewFileBackend(path)

	data, err := backend.Read(ctx)
	if err != nil || data != nil {
		t.Fatalf("Read() on missing file = %v, %v", data, err)
	}

	if err := backend.Write(ctx, []byte{Magic, 1, 2, 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err = backend.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != string([]byte{Magic, 1, 2, 3}) {
		t.Fatalf("Read() = %v", data)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}

func TestOpenFileBackendPersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Slots:        models.MaxRules,
		StoreBackend: config.StoreFile,
		StorePath:    filepath.Join(t.TempDir(), "timer.eeprom"),
	}
	codec := NewCodec(zerolog.Nop())

	img, err := Open(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store := state.NewStore(cfg.Slots)
	store.SetRule(3, models.NewRule(days("0111110"), 6, 0, 7, 30, true))
	if err := codec.Save(ctx, img, store); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_ = img.Close()

	img, err = Open(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer img.Close()
	restored := state.NewStore(cfg.Slots)
	if ok, err := codec.Load(ctx, img, restored); err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if restored.Rule(3) != store.Rule(3) {
		t.Fatalf("slot 3 = %+v, want %+v", restored.Rule(3), store.Rule(3))
	}
}

func TestGormBackendSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Slots:        models.MaxRules,
		StoreBackend: config.StoreSQLite,
		DBDSN:        filepath.Join(t.TempDir(), "timer.db"),
		StoreName:    "bench",
	}

	backend, err := OpenBackend(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenBackend: %v", err)
	}
	defer backend.Close()

	if backend.Name() != "database" {
		t.Fatalf("Name() = %q", backend.Name())
	}
	data, err := backend.Read(ctx)
	if err != nil || data != nil {
		t.Fatalf("Read() on empty table = %v, %v", data, err)
	}

	first := Encode(make([]models.Rule, models.MaxRules))
	if err := backend.Write(ctx, first); err != nil {
		t.Fatalf("Write: %v", err)
	}
	second := append([]byte(nil), first...)
	second[1] = 1
	if err := backend.Write(ctx, second); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	data, err = backend.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(data) != len(second) || data[1] != 1 {
		t.Fatalf("Read() = %v", data)
	}
}

func TestOpenBackendUnsupported(t *testing.T) {
	if _, err := OpenBackend(context.Background(), &config.Config{StoreBackend: "tape"}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
