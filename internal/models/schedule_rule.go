/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import (
	"fmt"
	"strings"

	"github.com/friendsincode/grimnir_timer/internal/clock"
)

// MaxRules is the default number of schedule slots.
const MaxRules = 10

// DaysPerWeek is the length of a rule's day mask.
const DaysPerWeek = 7

// DayNames are the short weekday labels used in status output, Sunday first.
var DayNames = [DaysPerWeek]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sab"}

// Rule is one weekly activation window.
type Rule struct {
	Days    [DaysPerWeek]bool // Sunday..Saturday
	Start   int               // minute of day, inclusive
	End     int               // minute of day, inclusive
	Enabled bool
}

// NewRule builds a rule from hour/minute pairs.
func NewRule(days [DaysPerWeek]bool, startHour, startMinute, endHour, endMinute int, enabled bool) Rule {
	return Rule{
		Days:    days,
		Start:   clock.MinuteOfDay(startHour, startMinute),
		End:     clock.MinuteOfDay(endHour, endMinute),
		Enabled: enabled,
	}
}

func (r Rule) StartHour() int   { return r.Start / 60 }
func (r Rule) StartMinute() int { return r.Start % 60 }
func (r Rule) EndHour() int     { return r.End / 60 }
func (r Rule) EndMinute() int   { return r.End % 60 }

// IsEmpty reports whether the rule is the canonical empty slot: no days and a
// zero window. The enabled flag is not considered.
func (r Rule) IsEmpty() bool {
	if r.Start != 0 || r.End != 0 {
		return false
	}
	for _, d := range r.Days {
		if d {
			return false
		}
	}
	return true
}

// ActiveAt reports whether the rule switches the output on at the given time.
func (r Rule) ActiveAt(weekday, hour, minute int) bool {
	if r.IsEmpty() || !r.Enabled {
		return false
	}
	if weekday < 0 || weekday >= DaysPerWeek || !r.Days[weekday] {
		return false
	}
	return clock.WindowContains(r.Start, r.End, clock.MinuteOfDay(hour, minute))
}

// DayMask renders the day flags in protocol form, e.g. "0111110".
func (r Rule) DayMask() string {
	var b strings.Builder
	for _, d := range r.Days {
		if d {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ActiveDayNames lists the labels of the days the rule applies to.
func (r Rule) ActiveDayNames() []string {
	names := make([]string, 0, DaysPerWeek)
	for i, d := range r.Days {
		if d {
			names = append(names, DayNames[i])
		}
	}
	return names
}

// Window renders the time window as "HH:MM -> HH:MM".
func (r Rule) Window() string {
	return fmt.Sprintf("%02d:%02d -> %02d:%02d", r.StartHour(), r.StartMinute(), r.EndHour(), r.EndMinute())
}

// ParseDayMask reads a 7 character day mask. Any character other than '1'
// leaves the day inactive.
func ParseDayMask(s string) ([DaysPerWeek]bool, bool) {
	var days [DaysPerWeek]bool
	if len(s) != DaysPerWeek {
		return days, false
	}
	for i := 0; i < DaysPerWeek; i++ {
		days[i] = s[i] == '1'
	}
	return days, true
}
