/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package state holds the fixed set of schedule slots and the derived
// activation flag.
package state

import (
	"sync"

	"github.com/friendsincode/grimnir_timer/internal/models"
)

// Store keeps the rule slots in a fixed arena. Slots are never inserted or
// deleted, only overwritten.
type Store struct {
	mu     sync.RWMutex
	rules  []models.Rule
	active bool
}

// NewStore creates a store with n empty slots. n below one falls back to
// models.MaxRules.
func NewStore(n int) *Store {
	if n < 1 {
		n = models.MaxRules
	}
	return &Store{rules: make([]models.Rule, n)}
}

// Len returns the slot count.
func (s *Store) Len() int {
	return len(s.rules)
}

func (s *Store) inRange(idx int) bool {
	return idx >= 0 && idx < len(s.rules)
}

// SetRule replaces slot idx wholesale. Out-of-range indices are ignored.
func (s *Store) SetRule(idx int, rule models.Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inRange(idx) {
		return
	}
	s.rules[idx] = rule
}

// Rule returns slot idx, or the empty rule when idx is out of range.
func (s *Store) Rule(idx int) models.Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.inRange(idx) {
		return models.Rule{}
	}
	return s.rules[idx]
}

// Enable turns slot idx on without touching its data.
func (s *Store) Enable(idx int) {
	s.setEnabled(idx, true)
}

// Disable turns slot idx off without touching its data.
func (s *Store) Disable(idx int) {
	s.setEnabled(idx, false)
}

func (s *Store) setEnabled(idx int, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inRange(idx) {
		return
	}
	s.rules[idx].Enabled = enabled
}

// Remove resets slot idx to the empty rule.
func (s *Store) Remove(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inRange(idx) {
		return
	}
	s.rules[idx] = models.Rule{}
}

// Evaluate ORs every slot at the given time and records the result. changed
// reports whether the result differs from the previous evaluation.
func (s *Store) Evaluate(weekday, hour, minute int) (active, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rules {
		if r.ActiveAt(weekday, hour, minute) {
			active = true
			break
		}
	}
	changed = active != s.active
	s.active = active
	return active, changed
}

// Active returns the result of the last evaluation.
func (s *Store) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Rules returns a snapshot of all slots.
func (s *Store) Rules() []models.Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Replace overwrites slots from rules in order. Extra rules are ignored and
// missing ones leave their slots untouched.
func (s *Store) Replace(rules []models.Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.rules, rules)
}
