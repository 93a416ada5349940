package ecs

import "reflect"

// Builder2 provides an efficient, type-safe API for creating entities with a
// predefined set of 2 components: T1, T2.
type Builder2[T1 any, T2 any] struct {
	world *World
	arch  *archetype
	id1   uint8
	id2   uint8
}

// NewBuilder2 creates a Builder for entities carrying exactly T1 and T2. The
// archetype is pre-resolved so per-entity creation stays allocation-free.
func NewBuilder2[T1 any, T2 any](w *World) *Builder2[T1, T2] {
	t1 := reflect.TypeFor[T1]()
	t2 := reflect.TypeFor[T2]()
	id1 := w.getCompTypeID(t1)
	id2 := w.getCompTypeID(t2)
	var mask bitmask256
	mask.set(id1)
	mask.set(id2)
	arch := w.getOrCreateArchetype(mask, []compSpec{
		{id: id1, typ: t1, size: w.compIDToSize[id1]},
		{id: id2, typ: t2, size: w.compIDToSize[id2]},
	})
	return &Builder2[T1, T2]{world: w, arch: arch, id1: id1, id2: id2}
}

// NewEntity creates an entity with zero-valued components and fires the
// attach hooks for T1 then T2.
func (b *Builder2[T1, T2]) NewEntity() Entity {
	var z1 T1
	var z2 T2
	return b.NewEntityWith(z1, z2)
}

// NewEntityWith creates an entity with the given component values and fires
// the attach hooks for T1 then T2.
func (b *Builder2[T1, T2]) NewEntityWith(c1 T1, c2 T2) Entity {
	w := b.world
	e := w.createEntity(b.arch)
	meta := w.metas[e.ID]
	p1 := w.compPtr(b.arch, meta.index, b.id1)
	p2 := w.compPtr(b.arch, meta.index, b.id2)
	*(*T1)(p1) = c1
	*(*T2)(p2) = c2
	w.fireAttach(b.id1, e, p1)
	w.fireAttach(b.id2, e, p2)
	return e
}

// NewEntities creates count entities, each with the given component values.
func (b *Builder2[T1, T2]) NewEntities(count int, c1 T1, c2 T2) []Entity {
	if count == 0 {
		return nil
	}
	ents := make([]Entity, count)
	for i := range ents {
		ents[i] = b.NewEntityWith(c1, c2)
	}
	return ents
}

// Get returns pointers to the T1 and T2 of e; either is nil when missing.
func (b *Builder2[T1, T2]) Get(e Entity) (*T1, *T2) {
	return GetComponent[T1](b.world, e), GetComponent[T2](b.world, e)
}
