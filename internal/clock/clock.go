/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package clock provides the wall-clock source the timer evaluates against.
package clock

import (
	"sync"
	"time"
)

// Clock reads and adjusts the controller's wall clock.
type Clock interface {
	Now() time.Time
	Set(t time.Time) error
}

// SystemClock follows the host clock shifted by an adjustable offset, the way
// an RTC keeps running after it has been set.
type SystemClock struct {
	mu     sync.RWMutex
	offset time.Duration
	now    func() time.Time
}

// NewSystemClock creates a clock that starts in sync with the host.
func NewSystemClock() *SystemClock {
	return &SystemClock{now: time.Now}
}

// Now returns the adjusted wall-clock time.
func (c *SystemClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now().Add(c.offset)
}

// Set moves the clock so that Now reports t at this instant.
func (c *SystemClock) Set(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = t.Sub(c.now())
	return nil
}

// Offset returns the current adjustment relative to the host clock.
func (c *SystemClock) Offset() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}

// ManualClock only moves when told to. Used by tests and the offline CLI.
type ManualClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManualClock creates a clock frozen at t.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *ManualClock) Set(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
	return nil
}

// Advance steps the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
