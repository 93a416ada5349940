package ecs

import "reflect"

// EventBus is a simple, type-safe publish/subscribe bus for decoupled
// communication between systems. Handlers run synchronously, in subscription
// order, on the publisher's goroutine.
//
// The zero value is ready to use.
type EventBus struct {
	handlers map[reflect.Type][]any
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[reflect.Type][]any)}
}

// Subscribe registers a handler for events of type `T`.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	if bus.handlers == nil {
		bus.handlers = make(map[reflect.Type][]any)
	}
	t := reflect.TypeFor[T]()
	bus.handlers[t] = append(bus.handlers[t], handler)
}

// Publish broadcasts an event of type `T` to all handlers subscribed for
// that type. Publishing a type nobody subscribed to is a no-op.
func Publish[T any](bus *EventBus, event T) {
	hs, ok := bus.handlers[reflect.TypeFor[T]()]
	if !ok {
		return
	}
	for _, h := range hs {
		h.(func(T))(event)
	}
}
