/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package protocol

import (
	"fmt"
	"strings"
	"time"

	"github.com/friendsincode/grimnir_timer/internal/clock"
	"github.com/friendsincode/grimnir_timer/internal/models"
)

const (
	StatusHeader = "=== STATUS DAS PROGRAMACOES ==="
	StatusFooter = "=== FIM DO STATUS ==="
)

// RenderStatus describes every slot and whether it is switching the output on
// at now. The ON/OFF column uses the same test as the evaluator.
func RenderStatus(rules []models.Rule, now time.Time) []string {
	weekday, hour, minute := clock.Fields(now)

	lines := make([]string, 0, len(rules)+2)
	lines = append(lines, StatusHeader)
	for i, r := range rules {
		lines = append(lines, renderSlot(i, r, r.ActiveAt(weekday, hour, minute)))
	}
	lines = append(lines, StatusFooter)
	return lines
}

func renderSlot(idx int, r models.Rule, activeNow bool) string {
	if r.IsEmpty() {
		return fmt.Sprintf("Slot %d: Vazio", idx+1)
	}

	state := "(ATIVADO)"
	if !r.Enabled {
		state = "(DESATIVADO)"
	}
	onOff := "OFF"
	if activeNow {
		onOff = "ON"
	}
	days := strings.Join(r.ActiveDayNames(), " ")
	if days == "" {
		days = "-"
	}
	return fmt.Sprintf("Slot %d: %s Dias: %s | %s | Agora: %s",
		idx+1, state, days, r.Window(), onOff)
}
