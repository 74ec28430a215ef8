/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package version provides build information.
package version

import "time"

// Version and BuildTime are set at build time via ldflags:
//
//	-X github.com/friendsincode/grimnir_timer/internal/version.Version=X.Y.Z
//	-X github.com/friendsincode/grimnir_timer/internal/version.BuildTime=2026-10-15T08:30:00
var (
	Version   = "0.3.1"
	BuildTime = ""
)

// BuildTimeLayout is the format expected in BuildTime.
const BuildTimeLayout = "2006-01-02T15:04:05"

// fallbackBuildTime is used when BuildTime was not injected or is unreadable.
var fallbackBuildTime = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local)

// BuildTimestamp returns the compiled-in build time as local wall time.
func BuildTimestamp() time.Time {
	if BuildTime == "" {
		return fallbackBuildTime
	}
	t, err := time.ParseInLocation(BuildTimeLayout, BuildTime, time.Local)
	if err != nil {
		return fallbackBuildTime
	}
	return t
}
