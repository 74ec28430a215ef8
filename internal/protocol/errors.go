/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package protocol

import "errors"

var (
	// ErrMalformed covers bad grammar, wrong field counts and out-of-range
	// time fields.
	ErrMalformed = errors.New("malformed command")
	// ErrIndexOutOfRange is returned for slot numbers outside 1..N.
	ErrIndexOutOfRange = errors.New("slot index out of range")
	// ErrUnknownCommand is returned when no opcode matches.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrPersist is returned when a mutation applied but could not be saved.
	ErrPersist = errors.New("persist failed")
)

// ReplyError is a rejected command together with the line sent back to the
// operator.
type ReplyError struct {
	Kind   error
	Reply  string
	Detail string
}

func (e *ReplyError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Detail
}

func (e *ReplyError) Unwrap() error {
	return e.Kind
}

func replyErr(kind error, reply, detail string) *ReplyError {
	return &ReplyError{Kind: kind, Reply: reply, Detail: detail}
}

// ReplyFor returns the operator-facing line for err.
func ReplyFor(err error) string {
	var re *ReplyError
	if errors.As(err, &re) {
		return re.Reply
	}
	return "ERR: " + err.Error()
}
