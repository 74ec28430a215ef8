/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_timer/internal/clock"
	"github.com/friendsincode/grimnir_timer/internal/telemetry"
)

type fakeStatus struct {
	active bool
	slots  int
}

func (f fakeStatus) Active() bool { return f.active }
func (f fakeStatus) Len() int     { return f.slots }

func TestHealthz(t *testing.T) {
	now := time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)
	srv := New(":0", fakeStatus{active: true, slots: 10}, clock.NewManualClock(now), zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rr.Code)
	}
	var body healthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || !body.Active || body.Slots != 10 {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Clock != "2024-06-15T09:30:00Z" {
		t.Fatalf("clock=%q", body.Clock)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	telemetry.EvaluationsTotal.Inc()
	srv := New(":0", fakeStatus{}, clock.NewManualClock(time.Now()), zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "grimnir_timer_evaluations_total") {
		t.Fatalf("metrics output missing evaluations counter")
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := New(":0", fakeStatus{}, clock.NewManualClock(time.Now()), zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", rr.Code)
	}
}
