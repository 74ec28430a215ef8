/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package clock

import (
	"testing"
	"time"
)

func TestSystemClockSetAppliesOffset(t *testing.T) {
	host := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	c := &SystemClock{now: func() time.Time { return host }}

	target := time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)
	if err := c.Set(target); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := c.Now(); !got.Equal(target) {
		t.Fatalf("Now() = %v, want %v", got, target)
	}

	host = host.Add(90 * time.Second)
	if got := c.Now(); !got.Equal(target.Add(90 * time.Second)) {
		t.Fatalf("clock did not keep running: %v", got)
	}
	if c.Offset() != target.Sub(time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected offset %v", c.Offset())
	}
}

func TestManualClock(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	c := NewManualClock(start)
	c.Advance(time.Minute)
	if got := c.Now(); !got.Equal(start.Add(time.Minute)) {
		t.Fatalf("Now() = %v", got)
	}
	_ = c.Set(start)
	if !c.Now().Equal(start) {
		t.Fatal("Set did not move the clock")
	}
}
