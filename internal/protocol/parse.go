/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package protocol

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/friendsincode/grimnir_timer/internal/models"
)

// Opcodes understood by the dispatcher.
const (
	OpProgram   = "pg"
	OpRemove    = "rm"
	OpDisable   = "dt"
	OpEnable    = "at"
	OpSetClock  = "hr"
	OpBuildTime = "up"
	OpStatus    = "st"
)

// Reply lines for rejected input.
const (
	ReplyIndexOutOfRange = "ERR: idx fora"
	ReplyIndexInvalid    = "ERR: idx invalido"
	ReplyProgramFormat   = "ERR: formato #pg"
	ReplyProgramInvalid  = "ERR: pg formato invalido"
	ReplyClockFormat     = "ERR: formato #hr"
	ReplyUnknownCommand  = "ERR: comando desconhecido"
	ReplyPersistFailed   = "ERR: falha ao gravar"
)

// Command is a parsed protocol line.
type Command struct {
	Opcode string
	Raw    string
	Slot   int         // 0-based; rule commands only
	Rule   models.Rule // pg only
	Time   time.Time   // hr only
}

type argParser func(cmd *Command, args string, slots int) error

var parsers = map[string]argParser{
	OpProgram:   parseProgram,
	OpRemove:    parseSlotOnly,
	OpDisable:   parseSlotOnly,
	OpEnable:    parseSlotOnly,
	OpSetClock:  parseClock,
	OpBuildTime: parseNoArgs,
	OpStatus:    parseNoArgs,
}

// Parse turns a finished command line into a Command. slots is the number of
// schedule slots, used to bounds-check indices.
func Parse(line string, slots int) (Command, error) {
	raw := strings.TrimSpace(line)
	text := strings.TrimPrefix(raw, "#")
	cmd := Command{Raw: raw}

	if len(text) < 2 {
		return cmd, replyErr(ErrUnknownCommand, unknownReply(raw), raw)
	}
	cmd.Opcode = text[:2]
	parse, ok := parsers[cmd.Opcode]
	if !ok {
		return cmd, replyErr(ErrUnknownCommand, unknownReply(raw), raw)
	}
	if err := parse(&cmd, text[2:], slots); err != nil {
		return cmd, err
	}
	return cmd, nil
}

func unknownReply(raw string) string {
	return ReplyUnknownCommand + ": " + raw
}

// parseSlot converts a 1-based slot number into a 0-based index.
func parseSlot(s string, slots int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, replyErr(ErrMalformed, ReplyIndexInvalid, fmt.Sprintf("slot %q", s))
	}
	idx := n - 1
	if idx < 0 || idx >= slots {
		return 0, replyErr(ErrIndexOutOfRange, ReplyIndexOutOfRange, fmt.Sprintf("slot %d of %d", n, slots))
	}
	return idx, nil
}

func parseSlotOnly(cmd *Command, args string, slots int) error {
	idx, err := parseSlot(args, slots)
	if err != nil {
		return err
	}
	cmd.Slot = idx
	return nil
}

func parseNoArgs(cmd *Command, args string, slots int) error {
	if args != "" {
		return replyErr(ErrUnknownCommand, unknownReply(cmd.Raw), cmd.Raw)
	}
	return nil
}

// parseProgram reads "<N>,<days>,<HH>,<MM>,<HH>,<MM>".
func parseProgram(cmd *Command, args string, slots int) error {
	slotText, payload, found := strings.Cut(args, ",")
	if !found {
		return replyErr(ErrMalformed, ReplyProgramFormat, "missing payload")
	}
	idx, err := parseSlot(slotText, slots)
	if err != nil {
		return err
	}
	rule, err := ParseRule(payload)
	if err != nil {
		return err
	}
	rule.Enabled = true
	cmd.Slot = idx
	cmd.Rule = rule
	return nil
}

// ParseRule reads a "1111111,HH,MM,HH,MM" payload. The returned rule is not
// enabled; callers decide that.
func ParseRule(payload string) (models.Rule, error) {
	fields := strings.Split(strings.TrimSpace(payload), ",")
	if len(fields) != 5 {
		return models.Rule{}, replyErr(ErrMalformed, ReplyProgramInvalid, fmt.Sprintf("want 5 fields, got %d", len(fields)))
	}

	days, ok := models.ParseDayMask(fields[0])
	if !ok {
		return models.Rule{}, replyErr(ErrMalformed, ReplyProgramInvalid, fmt.Sprintf("day mask %q must have %d characters", fields[0], models.DaysPerWeek))
	}

	limits := [4]int{23, 59, 23, 59}
	var values [4]int
	for i := range values {
		v, err := strconv.Atoi(fields[i+1])
		if err != nil || v < 0 || v > limits[i] {
			return models.Rule{}, replyErr(ErrMalformed, ReplyProgramInvalid, fmt.Sprintf("field %q outside 0..%d", fields[i+1], limits[i]))
		}
		values[i] = v
	}

	return models.NewRule(days, values[0], values[1], values[2], values[3], false), nil
}

// clockLocation is the zone hr wall times are read in.
var clockLocation = time.Local

// parseClock reads "HH,MM,DD,MM,YYYY".
func parseClock(cmd *Command, args string, slots int) error {
	fields := strings.Split(args, ",")
	if len(fields) != 5 {
		return replyErr(ErrMalformed, ReplyClockFormat, fmt.Sprintf("want 5 fields, got %d", len(fields)))
	}
	var v [5]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return replyErr(ErrMalformed, ReplyClockFormat, fmt.Sprintf("field %q is not a number", f))
		}
		v[i] = n
	}
	hour, minute, day, month, year := v[0], v[1], v[2], v[3], v[4]

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || month < 1 || month > 12 || year < 1970 || year > 2099 {
		return replyErr(ErrMalformed, ReplyClockFormat, "date or time out of range")
	}
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, clockLocation)
	if t.Day() != day || int(t.Month()) != month {
		return replyErr(ErrMalformed, ReplyClockFormat, fmt.Sprintf("no day %d in month %d", day, month))
	}
	if t.Hour() != hour || t.Minute() != minute {
		return replyErr(ErrMalformed, ReplyClockFormat, fmt.Sprintf("%02d:%02d does not exist on %04d-%02d-%02d", hour, minute, year, month, day))
	}
	cmd.Time = t
	return nil
}
