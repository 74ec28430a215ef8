/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package clock

import "time"

const (
	MinutesPerDay = 24 * 60
	MaxMinute     = MinutesPerDay - 1
)

// MinuteOfDay packs hour and minute into a single minute-of-day value.
func MinuteOfDay(hour, minute int) int {
	return hour*60 + minute
}

// SplitMinuteOfDay is the inverse of MinuteOfDay.
func SplitMinuteOfDay(m int) (hour, minute int) {
	return m / 60, m % 60
}

// WindowContains reports whether now falls inside the window [start, end].
// Both ends are inclusive. A start after end wraps past midnight.
func WindowContains(start, end, now int) bool {
	if start <= end {
		return now >= start && now <= end
	}
	return now >= start || now <= end
}

// Fields extracts the weekday, hour and minute the evaluator works with.
func Fields(t time.Time) (weekday, hour, minute int) {
	return int(t.Weekday()), t.Hour(), t.Minute()
}
