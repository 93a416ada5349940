package ecs_test

import (
	"testing"

	"github.com/edwinsyarief/butsuri/ecs"
)

type CollisionEvent struct {
	A, B   ecs.Entity
	Impact float64
}

type DamageEvent struct{ Amount int }

// go test -run ^TestEventBus$ . -count 1
func TestEventBus(t *testing.T) {
	bus := ecs.NewEventBus()

	var got []CollisionEvent
	ecs.Subscribe(bus, func(ev CollisionEvent) {
		got = append(got, ev)
	})

	ev := CollisionEvent{A: ecs.Entity{ID: 1, Version: 1}, Impact: 3.5}
	ecs.Publish(bus, ev)

	if len(got) != 1 || got[0] != ev {
		t.Fatalf("expected %+v delivered once, got %v", ev, got)
	}
}

// go test -run ^TestEventBusMultipleHandlers$ . -count 1
func TestEventBusMultipleHandlers(t *testing.T) {
	bus := ecs.NewEventBus()

	total := 0
	ecs.Subscribe(bus, func(ev DamageEvent) { total += ev.Amount })
	ecs.Subscribe(bus, func(ev DamageEvent) { total += ev.Amount * 10 })

	ecs.Publish(bus, DamageEvent{Amount: 2})
	if total != 22 {
		t.Errorf("expected both handlers to run, total %d", total)
	}
}

// go test -run ^TestEventBusTypeIsolation$ . -count 1
func TestEventBusTypeIsolation(t *testing.T) {
	bus := ecs.NewEventBus()

	collisions, damages := 0, 0
	ecs.Subscribe(bus, func(ev CollisionEvent) { collisions++ })
	ecs.Subscribe(bus, func(ev DamageEvent) { damages++ })

	ecs.Publish(bus, DamageEvent{Amount: 1})
	ecs.Publish(bus, DamageEvent{Amount: 1})

	if collisions != 0 {
		t.Errorf("collision handler fired for damage event %d times", collisions)
	}
	if damages != 2 {
		t.Errorf("expected 2 damage deliveries, got %d", damages)
	}
}

// go test -run ^TestEventBusNoSubscribers$ . -count 1
func TestEventBusNoSubscribers(t *testing.T) {
	bus := ecs.NewEventBus()
	// must not panic
	ecs.Publish(bus, CollisionEvent{})
}
