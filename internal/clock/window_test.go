/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package clock

import (
	"testing"
	"time"
)

func TestWindowContains(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		now        int
		want       bool
	}{
		{"inside", MinuteOfDay(8, 0), MinuteOfDay(17, 0), MinuteOfDay(12, 0), true},
		{"at start", MinuteOfDay(8, 0), MinuteOfDay(17, 0), MinuteOfDay(8, 0), true},
		{"at end", MinuteOfDay(8, 0), MinuteOfDay(17, 0), MinuteOfDay(17, 0), true},
		{"before", MinuteOfDay(8, 0), MinuteOfDay(17, 0), MinuteOfDay(7, 59), false},
		{"after", MinuteOfDay(8, 0), MinuteOfDay(17, 0), MinuteOfDay(17, 1), false},
		{"wrap before midnight", MinuteOfDay(22, 0), MinuteOfDay(2, 0), MinuteOfDay(23, 30), true},
		{"wrap after midnight", MinuteOfDay(22, 0), MinuteOfDay(2, 0), MinuteOfDay(0, 30), true},
		{"wrap at end", MinuteOfDay(22, 0), MinuteOfDay(2, 0), MinuteOfDay(2, 0), true},
		{"wrap outside", MinuteOfDay(22, 0), MinuteOfDay(2, 0), MinuteOfDay(12, 0), false},
		{"wrap just outside", MinuteOfDay(22, 0), MinuteOfDay(2, 0), MinuteOfDay(2, 1), false},
		{"equal bounds", MinuteOfDay(6, 0), MinuteOfDay(6, 0), MinuteOfDay(6, 0), true},
		{"full day", 0, MaxMinute, MaxMinute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindowContains(tt.start, tt.end, tt.now); got != tt.want {
				t.Fatalf("WindowContains(%d, %d, %d) = %v, want %v", tt.start, tt.end, tt.now, got, tt.want)
			}
		})
	}
}

func TestMinuteOfDayRoundTrip(t *testing.T) {
	for m := 0; m < MinutesPerDay; m += 37 {
		h, min := SplitMinuteOfDay(m)
		if MinuteOfDay(h, min) != m {
			t.Fatalf("round trip of %d gave %02d:%02d", m, h, min)
		}
	}
}

func TestFields(t *testing.T) {
	// 2024-06-15 is a Saturday.
	wd, h, m := Fields(time.Date(2024, time.June, 15, 9, 30, 45, 0, time.UTC))
	if wd != 6 || h != 9 || m != 30 {
		t.Fatalf("Fields() = %d %d %d", wd, h, m)
	}
}
