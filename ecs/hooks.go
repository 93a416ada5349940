package ecs

import (
	"reflect"
	"unsafe"
)

// OnAttach registers fn to run whenever a component of type `T` is added to
// an entity, through SetComponent, a Builder, or Blueprint assembly. The
// component pointer aliases archetype storage; fn may mutate the value in
// place but must not add or remove components on the entity being attached.
//
// Hooks run synchronously, in registration order, after the component value
// is in place.
func OnAttach[T any](w *World, fn func(w *World, e Entity, comp *T)) {
	id := w.getCompTypeID(reflect.TypeFor[T]())
	w.attachHooks[id] = append(w.attachHooks[id], func(w *World, e Entity, p unsafe.Pointer) {
		fn(w, e, (*T)(p))
	})
}

// OnDetach registers fn to run whenever a component of type `T` is removed
// from an entity, either through RemoveComponent or because the entity itself
// is removed. The hook runs before the value is dropped, so fn still sees the
// component's final state.
//
// When an entity is removed, detach hooks fire per component in descending
// component-ID order: components registered later are torn down first.
func OnDetach[T any](w *World, fn func(w *World, e Entity, comp *T)) {
	id := w.getCompTypeID(reflect.TypeFor[T]())
	w.detachHooks[id] = append(w.detachHooks[id], func(w *World, e Entity, p unsafe.Pointer) {
		fn(w, e, (*T)(p))
	})
}
