/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package persistence

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_timer/internal/models"
	"github.com/friendsincode/grimnir_timer/internal/scheduler/state"
	"github.com/friendsincode/grimnir_timer/internal/telemetry"
)

// Image layout:
//
//	offset 0:        magic byte
//	offset 1 + 12*i: slot i
//	  0..6  day flags Sun..Sat (0/1)
//	  7     enabled (0/1)
//	  8..11 start hour, start minute, end hour, end minute
const (
	Magic      byte = 0x42
	AddrMagic       = 0
	AddrData        = 1
	RecordSize      = 12
)

// ImageSize returns the number of bytes needed for n slots.
func ImageSize(n int) int {
	return AddrData + n*RecordSize
}

// Codec moves the schedule between a Store and a ByteStore.
type Codec struct {
	logger zerolog.Logger
}

// NewCodec creates a codec.
func NewCodec(logger zerolog.Logger) *Codec {
	return &Codec{logger: logger.With().Str("component", "codec").Logger()}
}

// Save writes the full image: magic first, then every slot in order. Stores
// that buffer writes are committed afterwards.
func (c *Codec) Save(ctx context.Context, nv ByteStore, store *state.Store) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "persistence.save")
	defer func() { telemetry.EndSpan(span, err) }()

	rules := store.Rules()
	if need := ImageSize(len(rules)); nv.Size() < need {
		return fmt.Errorf("image holds %d bytes, need %d", nv.Size(), need)
	}

	for addr, b := range Encode(rules) {
		if err := nv.SetByteAt(addr, b); err != nil {
			return err
		}
	}
	if committer, ok := nv.(Committer); ok {
		if err := committer.Commit(ctx); err != nil {
			return err
		}
	}

	c.logger.Debug().Int("slots", len(rules)).Msg("schedule image saved")
	return nil
}

// Load fills store from nv. It returns false without touching store when the
// magic byte is missing, which is the normal first-boot case.
func (c *Codec) Load(ctx context.Context, nv ByteStore, store *state.Store) (loaded bool, err error) {
	_, span := telemetry.StartSpan(ctx, "persistence.load")
	defer func() { telemetry.EndSpan(span, err) }()

	n := store.Len()
	size := ImageSize(n)
	if nv.Size() < size {
		return false, fmt.Errorf("image holds %d bytes, need %d", nv.Size(), size)
	}

	raw := make([]byte, size)
	for addr := range raw {
		b, err := nv.ByteAt(addr)
		if err != nil {
			return false, err
		}
		raw[addr] = b
	}

	rules, ok := Decode(raw, n)
	if !ok {
		c.logger.Info().Uint8("found", raw[AddrMagic]).Msg("magic not found, starting with an empty schedule")
		return false, nil
	}
	store.Replace(rules)
	c.logger.Info().Int("slots", n).Msg("schedule image loaded")
	return true, nil
}

// Encode renders rules into an image.
func Encode(rules []models.Rule) []byte {
	out := make([]byte, ImageSize(len(rules)))
	out[AddrMagic] = Magic
	for i, r := range rules {
		rec := out[AddrData+i*RecordSize : AddrData+(i+1)*RecordSize]
		for d := 0; d < models.DaysPerWeek; d++ {
			rec[d] = boolByte(r.Days[d])
		}
		rec[7] = boolByte(r.Enabled)
		rec[8] = byte(r.StartHour())
		rec[9] = byte(r.StartMinute())
		rec[10] = byte(r.EndHour())
		rec[11] = byte(r.EndMinute())
	}
	return out
}

// Decode parses n slots from data. ok is false when the magic byte does not
// match or data is too short. Hour bytes above 23 and minute bytes above 59
// are clamped so every decoded rule re-encodes to valid bytes.
func Decode(data []byte, n int) (rules []models.Rule, ok bool) {
	if len(data) < ImageSize(n) || data[AddrMagic] != Magic {
		return nil, false
	}
	rules = make([]models.Rule, n)
	for i := range rules {
		rec := data[AddrData+i*RecordSize : AddrData+(i+1)*RecordSize]
		var days [models.DaysPerWeek]bool
		for d := range days {
			days[d] = rec[d] != 0
		}
		rules[i] = models.NewRule(days,
			clampByte(rec[8], 23), clampByte(rec[9], 59),
			clampByte(rec[10], 23), clampByte(rec[11], 59),
			rec[7] != 0)
	}
	return rules, true
}

func clampByte(b byte, limit int) int {
	if int(b) > limit {
		return limit
	}
	return int(b)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
