/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package transport opens the byte link the command protocol runs over.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"go.bug.st/serial"

	"github.com/friendsincode/grimnir_timer/internal/config"
)

// StdioPort is the serial port name that selects stdin/stdout.
const StdioPort = "-"

type stdio struct {
	io.Reader
	io.Writer
}

func (stdio) Close() error { return nil }

// Open returns the configured link.
func Open(cfg *config.Config, logger zerolog.Logger) (io.ReadWriteCloser, error) {
	if cfg.SerialPort == "" || cfg.SerialPort == StdioPort {
		logger.Info().Msg("command link on stdin/stdout")
		return stdio{Reader: os.Stdin, Writer: os.Stdout}, nil
	}

	mode := &serial.Mode{
		BaudRate: cfg.SerialBaud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(cfg.SerialPort, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.SerialPort, err)
	}
	logger.Info().Str("port", cfg.SerialPort).Int("baud", cfg.SerialBaud).Msg("serial port opened")
	return port, nil
}

// Pump copies bytes from r into out until r is exhausted or ctx is done.
// out is closed on return. io.EOF is reported as nil.
func Pump(ctx context.Context, r io.Reader, out chan<- byte) error {
	defer close(out)

	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case out <- b:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read link: %w", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
