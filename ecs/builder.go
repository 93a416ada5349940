package ecs

import "reflect"

// Builder provides an efficient, type-safe API for creating entities with a
// predefined single component of type `T`. The archetype is resolved once at
// construction time.
type Builder[T any] struct {
	world *World
	arch  *archetype
	id    uint8
}

// NewBuilder creates a Builder for entities carrying exactly one `T`.
func NewBuilder[T any](w *World) *Builder[T] {
	t := reflect.TypeFor[T]()
	id := w.getCompTypeID(t)
	var mask bitmask256
	mask.set(id)
	arch := w.getOrCreateArchetype(mask, []compSpec{{id: id, typ: t, size: w.compIDToSize[id]}})
	return &Builder[T]{world: w, arch: arch, id: id}
}

// NewEntity creates an entity with a zero-valued `T` and fires its attach
// hooks.
func (b *Builder[T]) NewEntity() Entity {
	var zero T
	return b.NewEntityWith(zero)
}

// NewEntityWith creates an entity with the given component value and fires
// the attach hooks for `T`.
func (b *Builder[T]) NewEntityWith(comp T) Entity {
	w := b.world
	e := w.createEntity(b.arch)
	meta := w.metas[e.ID]
	ptr := w.compPtr(b.arch, meta.index, b.id)
	*(*T)(ptr) = comp
	w.fireAttach(b.id, e, ptr)
	return e
}

// NewEntities creates count entities, each with the given component value.
func (b *Builder[T]) NewEntities(count int, comp T) []Entity {
	if count == 0 {
		return nil
	}
	ents := make([]Entity, count)
	for i := range ents {
		ents[i] = b.NewEntityWith(comp)
	}
	return ents
}

// Get returns a pointer to the `T` of e, or nil if e is invalid or moved to
// an archetype without `T`.
func (b *Builder[T]) Get(e Entity) *T {
	return GetComponent[T](b.world, e)
}

// Set overwrites (or adds) the `T` of e.
func (b *Builder[T]) Set(e Entity, comp T) {
	SetComponent(b.world, e, comp)
}
