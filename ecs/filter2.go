package ecs

import (
	"reflect"
	"unsafe"
)

// Filter2 iterates over all entities that carry both T1 and T2. See Filter
// for the iteration contract.
type Filter2[T1 any, T2 any] struct {
	world       *World
	curEntities []Entity
	base1       unsafe.Pointer
	base2       unsafe.Pointer
	includeMask bitmask256
	stride1     uintptr
	stride2     uintptr
	archIdx     int
	index       int
	curSize     int
	curEnt      Entity
	id1         uint8
	id2         uint8
}

// NewFilter2 creates a filter over all entities possessing at least a T1 and
// a T2.
func NewFilter2[T1 any, T2 any](w *World) *Filter2[T1, T2] {
	id1 := w.getCompTypeID(reflect.TypeFor[T1]())
	id2 := w.getCompTypeID(reflect.TypeFor[T2]())
	var m bitmask256
	m.set(id1)
	m.set(id2)
	return &Filter2[T1, T2]{
		world:       w,
		includeMask: m,
		stride1:     w.compIDToSize[id1],
		stride2:     w.compIDToSize[id2],
		id1:         id1,
		id2:         id2,
		index:       -1,
	}
}

// Reset rewinds the iterator.
func (f *Filter2[T1, T2]) Reset() {
	f.archIdx = 0
	f.index = -1
	f.curSize = 0
}

// Next advances to the next matching entity.
func (f *Filter2[T1, T2]) Next() bool {
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
		f.base1 = a.compPointers[f.id1]
		f.base2 = a.compPointers[f.id2]
		f.curEntities = a.entityIDs
		f.curSize = a.size
		f.index = 0
		f.curEnt = f.curEntities[0]
		return true
	}
	return false
}

// Entity returns the current entity.
func (f *Filter2[T1, T2]) Entity() Entity {
	return f.curEnt
}

// Get returns pointers to the T1 and T2 of the current entity.
func (f *Filter2[T1, T2]) Get() (*T1, *T2) {
	p1 := unsafe.Pointer(uintptr(f.base1) + uintptr(f.index)*f.stride1)
	p2 := unsafe.Pointer(uintptr(f.base2) + uintptr(f.index)*f.stride2)
	return (*T1)(p1), (*T2)(p2)
}
