/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package transport

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestPumpDeliversBytesInOrder(t *testing.T) {
	out := make(chan byte, 64)
	if err := Pump(context.Background(), strings.NewReader("#st;#pg1;"), out); err != nil {
		t.Fatalf("Pump: %v", err)
	}

	var got []byte
	for b := range out {
		got = append(got, b)
	}
	if string(got) != "#st;#pg1;" {
		t.Fatalf("got %q", got)
	}
}

func TestPumpOneByteReader(t *testing.T) {
	out := make(chan byte, 16)
	if err := Pump(context.Background(), iotest.OneByteReader(strings.NewReader("abc")), out); err != nil {
		t.Fatalf("Pump: %v", err)
	}
	var got []byte
	for b := range out {
		got = append(got, b)
	}
	if string(got) != "abc" {
		t.Fatalf("got %q", got)
	}
}

func TestPumpReadError(t *testing.T) {
	out := make(chan byte, 16)
	boom := errors.New("boom")
	err := Pump(context.Background(), iotest.ErrReader(boom), out)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if _, ok := <-out; ok {
		t.Fatal("expected closed channel")
	}
}

func TestPumpStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan byte)
	err := Pump(ctx, strings.NewReader("abc"), out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
