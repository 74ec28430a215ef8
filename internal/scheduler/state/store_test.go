/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package state

import (
	"testing"

	"github.com/friendsincode/grimnir_timer/internal/models"
)

func days(s string) [models.DaysPerWeek]bool {
	d, _ := models.ParseDayMask(s)
	return d
}

func TestNewStore(t *testing.T) {
	if got := NewStore(0).Len(); got != models.MaxRules {
		t.Fatalf("NewStore(0).Len() = %d, want %d", got, models.MaxRules)
	}
	if got := NewStore(4).Len(); got != 4 {
		t.Fatalf("NewStore(4).Len() = %d", got)
	}
	for i, r := range NewStore(3).Rules() {
		if !r.IsEmpty() || r.Enabled {
			t.Fatalf("slot %d not empty: %+v", i, r)
		}
	}
}

func TestStoreMutations(t *testing.T) {
	s := NewStore(models.MaxRules)
	r := models.NewRule(days("0111110"), 8, 0, 17, 30, true)

	s.SetRule(2, r)
	if got := s.Rule(2); got != r {
		t.Fatalf("Rule(2) = %+v, want %+v", got, r)
	}

	s.Disable(2)
	got := s.Rule(2)
	if got.Enabled {
		t.Fatal("Disable left slot enabled")
	}
	if got.Days != r.Days || got.Start != r.Start || got.End != r.End {
		t.Fatal("Disable changed rule data")
	}

	s.Enable(2)
	if !s.Rule(2).Enabled {
		t.Fatal("Enable left slot disabled")
	}

	s.Remove(2)
	if got := s.Rule(2); got != (models.Rule{}) {
		t.Fatalf("Remove left %+v", got)
	}
}

func TestStoreIgnoresOutOfRange(t *testing.T) {
	s := NewStore(models.MaxRules)
	r := models.NewRule(days("1111111"), 0, 0, 23, 59, true)

	for _, idx := range []int{-1, models.MaxRules, 100} {
		s.SetRule(idx, r)
		s.Enable(idx)
		s.Disable(idx)
		s.Remove(idx)
		if got := s.Rule(idx); got != (models.Rule{}) {
			t.Fatalf("Rule(%d) = %+v, want empty", idx, got)
		}
	}
	for i, got := range s.Rules() {
		if got != (models.Rule{}) {
			t.Fatalf("slot %d modified: %+v", i, got)
		}
	}
}

func TestEvaluate(t *testing.T) {
	type slot struct {
		idx  int
		rule models.Rule
	}
	weekdays := models.NewRule(days("0111110"), 8, 0, 17, 30, true)
	overnight := models.NewRule(days("1111111"), 22, 0, 2, 0, true)

	tests := []struct {
		name  string
		slots []slot
		at    [3]int // weekday, hour, minute
		want  bool
	}{
		{"no rules", nil, [3]int{1, 12, 0}, false},
		{"single rule inside", []slot{{0, weekdays}}, [3]int{3, 12, 0}, true},
		{"disabled rule", []slot{{0, models.NewRule(days("0111110"), 8, 0, 17, 30, false)}}, [3]int{3, 12, 0}, false},
		{"or across slots", []slot{
			{0, models.NewRule(days("0111110"), 8, 0, 9, 0, true)},
			{7, models.NewRule(days("0111110"), 13, 0, 14, 0, true)},
		}, [3]int{2, 13, 30}, true},
		{"overnight wrap", []slot{{9, overnight}}, [3]int{0, 1, 59}, true},
		{"overnight gap", []slot{{9, overnight}}, [3]int{0, 2, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(models.MaxRules)
			for _, sl := range tt.slots {
				s.SetRule(sl.idx, sl.rule)
			}
			active, _ := s.Evaluate(tt.at[0], tt.at[1], tt.at[2])
			if active != tt.want {
				t.Fatalf("Evaluate(%v) = %v, want %v", tt.at, active, tt.want)
			}
			if s.Active() != tt.want {
				t.Fatalf("Active() = %v, want %v", s.Active(), tt.want)
			}
		})
	}
}

func TestEvaluateReportsEdges(t *testing.T) {
	s := NewStore(models.MaxRules)
	s.SetRule(0, models.NewRule(days("0100000"), 8, 0, 8, 1, true))

	steps := []struct {
		hour, minute  int
		active, edged bool
	}{
		{7, 59, false, false},
		{8, 0, true, true},
		{8, 1, true, false},
		{8, 2, false, true},
		{8, 3, false, false},
	}
	for _, st := range steps {
		active, changed := s.Evaluate(1, st.hour, st.minute)
		if active != st.active || changed != st.edged {
			t.Fatalf("%02d:%02d: Evaluate() = (%v, %v), want (%v, %v)", st.hour, st.minute, active, changed, st.active, st.edged)
		}
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	s := NewStore(2)
	snap := s.Rules()
	snap[0] = models.NewRule(days("1111111"), 1, 0, 2, 0, true)
	if !s.Rule(0).IsEmpty() {
		t.Fatal("mutating snapshot changed the store")
	}

	s.Replace([]models.Rule{snap[0]})
	if s.Rule(0) != snap[0] {
		t.Fatal("Replace did not copy rule")
	}
	if !s.Rule(1).IsEmpty() {
		t.Fatal("Replace touched slot beyond input")
	}
}
