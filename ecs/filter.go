package ecs

import (
	"reflect"
	"unsafe"
)

// Filter is a cache-friendly iterator over all entities that carry a
// component of type `T`. It walks the component arrays of matching
// archetypes directly and is the primary mechanism for implementing systems.
//
// Typical use:
//
//	f := ecs.NewFilter[Position](world)
//	for f.Next() {
//	    pos := f.Get()
//	    ...
//	}
//
// Archetypes created after the filter are picked up on the next Reset.
type Filter[T any] struct {
	world       *World
	curEntities []Entity
	base        unsafe.Pointer
	includeMask bitmask256
	stride      uintptr
	archIdx     int
	index       int
	curSize     int
	curEnt      Entity
	id          uint8
}

// NewFilter creates a filter over all entities possessing at least a `T`.
func NewFilter[T any](w *World) *Filter[T] {
	id := w.getCompTypeID(reflect.TypeFor[T]())
	var m bitmask256
	m.set(id)
	return &Filter[T]{
		world:       w,
		includeMask: m,
		stride:      w.compIDToSize[id],
		id:          id,
		index:       -1,
	}
}

// Reset rewinds the iterator. Call it before re-iterating, and after world
// mutations that may have created or emptied archetypes.
func (f *Filter[T]) Reset() {
	f.archIdx = 0
	f.index = -1
	f.curSize = 0
}

// Next advances to the next matching entity. It must be called before Entity
// or Get, and returns false when the iteration is complete.
func (f *Filter[T]) Next() bool {
	f.index++
	if f.index < f.curSize {
		f.curEnt = f.curEntities[f.index]
		return true
	}
	for f.archIdx < len(f.world.archetypes) {
		a := f.world.archetypes[f.archIdx]
		f.archIdx++
		if a.size == 0 || !a.mask.contains(f.includeMask) {
			continue
		}
		f.base = a.compPointers[f.id]
		f.curEntities = a.entityIDs
		f.curSize = a.size
		f.index = 0
		f.curEnt = f.curEntities[0]
		return true
	}
	return false
}

// Entity returns the current entity. Only valid after Next returned true.
func (f *Filter[T]) Entity() Entity {
	return f.curEnt
}

// Get returns a pointer to the `T` of the current entity. Only valid after
// Next returned true.
func (f *Filter[T]) Get() *T {
	return (*T)(unsafe.Pointer(uintptr(f.base) + uintptr(f.index)*f.stride))
}

// Entities collects all matching entities into a fresh slice.
func (f *Filter[T]) Entities() []Entity {
	f.Reset()
	var out []Entity
	for f.Next() {
		out = append(out, f.curEnt)
	}
	return out
}
