/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package seed turns a YAML schedule description into protocol commands.
package seed

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/friendsincode/grimnir_timer/internal/models"
)

// File is the top-level YAML document.
//
//	replace: true
//	rules:
//	  - slot: 1
//	    days: [Seg, Ter, Qua, Qui, Sex]
//	    start: "08:00"
//	    end: "17:30"
//	  - slot: 2
//	    days: "1000001"
//	    start: "22:00"
//	    end: "02:00"
//	    enabled: false
type File struct {
	Replace bool    `yaml:"replace"`
	Rules   []Entry `yaml:"rules"`
}

// Entry describes one slot.
type Entry struct {
	Slot    int    `yaml:"slot"`
	Days    Days   `yaml:"days"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
	Enabled *bool  `yaml:"enabled"`
}

// Days accepts either a seven character mask or a list of day names.
type Days string

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Days) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*d = Days(node.Value)
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		mask := []byte("0000000")
		for _, name := range names {
			idx := dayIndex(name)
			if idx < 0 {
				return fmt.Errorf("line %d: unknown day %q", node.Line, name)
			}
			mask[idx] = '1'
		}
		*d = Days(mask)
		return nil
	default:
		return fmt.Errorf("line %d: days must be a mask or a list", node.Line)
	}
}

func dayIndex(name string) int {
	for i, n := range models.DayNames {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}

// Parse decodes a schedule document.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return &f, nil
}

// Commands returns the protocol lines that apply f to a store with the given
// number of slots. With Replace, slots not listed are removed.
func (f *File) Commands(slots int) ([]string, error) {
	seen := make(map[int]bool, len(f.Rules))
	var cmds []string

	for i, e := range f.Rules {
		if e.Slot < 1 || e.Slot > slots {
			return nil, fmt.Errorf("rule %d: slot %d outside 1..%d", i+1, e.Slot, slots)
		}
		if seen[e.Slot] {
			return nil, fmt.Errorf("rule %d: slot %d listed twice", i+1, e.Slot)
		}
		seen[e.Slot] = true

		if _, ok := models.ParseDayMask(string(e.Days)); !ok {
			return nil, fmt.Errorf("rule %d: days %q must have %d characters", i+1, e.Days, models.DaysPerWeek)
		}
		sh, sm, err := parseHHMM(e.Start)
		if err != nil {
			return nil, fmt.Errorf("rule %d: start: %w", i+1, err)
		}
		eh, em, err := parseHHMM(e.End)
		if err != nil {
			return nil, fmt.Errorf("rule %d: end: %w", i+1, err)
		}

		cmds = append(cmds, fmt.Sprintf("pg%d,%s,%02d,%02d,%02d,%02d", e.Slot, e.Days, sh, sm, eh, em))
		if e.Enabled != nil && !*e.Enabled {
			cmds = append(cmds, fmt.Sprintf("dt%d", e.Slot))
		}
	}

	if f.Replace {
		for slot := 1; slot <= slots; slot++ {
			if !seen[slot] {
				cmds = append(cmds, fmt.Sprintf("rm%d", slot))
			}
		}
	}
	return cmds, nil
}

func parseHHMM(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%q is not HH:MM", s)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("hour in %q out of range", s)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("minute in %q out of range", s)
	}
	return hour, minute, nil
}
