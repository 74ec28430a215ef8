/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures zerolog for the process. Logs go to stderr so stdout stays
// free for the command link.
func Setup(environment string) zerolog.Logger {
	return SetupWithWriter(environment, zerolog.ConsoleWriter{Out: os.Stderr})
}

// SetupWithWriter configures zerolog on w. Development runs log at debug,
// everything else at info.
func SetupWithWriter(environment string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(w).With().Timestamp().Logger().Level(Level(environment))
	log.Logger = logger
	return logger
}

// Level returns the minimum level for environment.
func Level(environment string) zerolog.Level {
	if environment == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
