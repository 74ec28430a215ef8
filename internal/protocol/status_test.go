/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package protocol

import (
	"testing"
	"time"

	"github.com/friendsincode/grimnir_timer/internal/models"
)

func TestRenderStatus(t *testing.T) {
	weekdays, _ := models.ParseDayMask("0111110")
	weekend, _ := models.ParseDayMask("1000001")

	rules := make([]models.Rule, 5)
	rules[0] = models.NewRule(weekdays, 8, 0, 17, 30, true)
	rules[2] = models.NewRule(weekend, 22, 0, 2, 0, false)
	rules[3] = models.NewRule(weekdays, 6, 5, 7, 0, true)
	rules[4] = models.NewRule([models.DaysPerWeek]bool{}, 8, 0, 9, 0, true)

	// Monday 2024-01-01 09:00.
	now := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.Local)
	got := RenderStatus(rules, now)

	want := []string{
		"=== STATUS DAS PROGRAMACOES ===",
		"Slot 1: (ATIVADO) Dias: Seg Ter Qua Qui Sex | 08:00 -> 17:30 | Agora: ON",
		"Slot 2: Vazio",
		"Slot 3: (DESATIVADO) Dias: Dom Sab | 22:00 -> 02:00 | Agora: OFF",
		"Slot 4: (ATIVADO) Dias: Seg Ter Qua Qui Sex | 06:05 -> 07:00 | Agora: OFF",
		"Slot 5: (ATIVADO) Dias: - | 08:00 -> 09:00 | Agora: OFF",
		"=== FIM DO STATUS ===",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
