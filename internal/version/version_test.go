/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package version

import (
	"testing"
	"time"
)

func TestBuildTimestamp(t *testing.T) {
	orig := BuildTime
	t.Cleanup(func() { BuildTime = orig })

	tests := []struct {
		name  string
		build string
		want  time.Time
	}{
		{"unset", "", fallbackBuildTime},
		{"garbage", "yesterday", fallbackBuildTime},
		{"injected", "2025-03-03T14:15:00", time.Date(2025, time.March, 3, 14, 15, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			BuildTime = tt.build
			if got := BuildTimestamp(); !got.Equal(tt.want) {
				t.Fatalf("BuildTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}
