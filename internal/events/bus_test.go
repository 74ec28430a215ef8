/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package events

import "testing"

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe(EventActivationChanged)
	b := bus.Subscribe(EventActivationChanged)
	other := bus.Subscribe(EventClockAdjusted)

	bus.Publish(EventActivationChanged, Payload{"active": true})

	for _, sub := range []Subscriber{a, b} {
		select {
		case p := <-sub:
			if p["active"] != true {
				t.Fatalf("payload = %v", p)
			}
		default:
			t.Fatal("subscriber missed event")
		}
	}
	select {
	case p := <-other:
		t.Fatalf("unrelated subscriber got %v", p)
	default:
	}
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(EventScheduleUpdate)
	for i := 0; i < cap(sub)+5; i++ {
		bus.Publish(EventScheduleUpdate, Payload{"i": i})
	}
	if len(sub) != cap(sub) {
		t.Fatalf("buffered %d events, want %d", len(sub), cap(sub))
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(EventClockAdjusted)
	bus.Unsubscribe(EventClockAdjusted, sub)

	if _, ok := <-sub; ok {
		t.Fatal("expected closed channel")
	}
	bus.Publish(EventClockAdjusted, Payload{})
}
