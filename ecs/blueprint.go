package ecs

import (
	"fmt"
	"reflect"
)

// ctorEntry is the type-erased form of a registered constructor. construct
// reads the template component off the entity, removes it, and builds the
// concrete component(s) in its place.
type ctorEntry struct {
	construct func(w *World, e Entity, ctx Entity) error
}

// RegisterConstructor maps the template component type `T` to a constructor.
// When an entity carrying a `T` is constructed (see Construct and
// Blueprint.Spawn), the template is removed and fn is invoked with its value;
// fn is expected to set the concrete component(s) on the entity.
//
// ctx names the entity supplying a prerequisite component, NoEntity when the
// assembly has none. Constructors run in registration order, so prerequisite
// kinds must be registered before the kinds that depend on them.
//
// Registering two constructors for the same type panics: the substitution is
// one-to-one.
func RegisterConstructor[T any](w *World, fn func(w *World, e Entity, tmpl T, ctx Entity) error) {
	t := reflect.TypeFor[T]()
	id := w.getCompTypeID(t)
	if _, ok := w.ctors[id]; ok {
		panic(fmt.Sprintf("ecs: constructor already registered for %s", t))
	}
	w.ctors[id] = ctorEntry{
		construct: func(w *World, e Entity, ctx Entity) error {
			c := GetComponent[T](w, e)
			if c == nil {
				return nil
			}
			tmpl := *c
			RemoveComponent[T](w, e)
			return fn(w, e, tmpl, ctx)
		},
	}
	w.ctorOrder = append(w.ctorOrder, id)
}

// Construct replaces every template component on e that has a registered
// constructor with its concrete counterpart, in constructor-registration
// order. Construction is one-way: the template value is discarded once its
// constructor has run.
//
// The first constructor error aborts and is returned; the entity is left
// as-is for the caller to dispose of (Blueprint.Spawn removes it, which
// triggers detach cleanup of anything already built).
func Construct(w *World, e Entity, ctx Entity) error {
	for _, id := range w.ctorOrder {
		if !w.IsValid(e) {
			return nil
		}
		a := w.archetypes[w.metas[e.ID].archetypeIndex]
		if !a.mask.containsBit(id) {
			continue
		}
		if err := w.ctors[id].construct(w, e, ctx); err != nil {
			return err
		}
	}
	return nil
}

// Blueprint stages a set of component values, template or concrete, and
// stamps them onto freshly assembled entities. A Blueprint is reusable:
// every Spawn produces a new entity from the same staged set.
type Blueprint struct {
	world *World
	sets  []func(w *World, e Entity)
}

// NewBlueprint creates an empty Blueprint bound to w.
func NewBlueprint(w *World) *Blueprint {
	return &Blueprint{world: w}
}

// With stages a component value on the blueprint and returns it for
// chaining. Template components (types with a registered constructor) are
// replaced by their concrete counterparts during Spawn.
func With[T any](b *Blueprint, val T) *Blueprint {
	b.sets = append(b.sets, func(w *World, e Entity) {
		SetComponent(w, e, val)
	})
	return b
}

// Spawn assembles a new entity with no context entity. See SpawnContext.
func (b *Blueprint) Spawn() (Entity, error) {
	return b.SpawnContext(NoEntity)
}

// SpawnContext creates an entity, attaches every staged component, then runs
// the constructor registry so no template survives assembly. ctx is handed
// to each constructor as the entity supplying prerequisite components.
//
// If any constructor fails the entity is removed again, which lets the
// detach hooks dispose of whatever was already built, and NoEntity is
// returned with the error. The failure is atomic from the caller's point of
// view.
func (b *Blueprint) SpawnContext(ctx Entity) (Entity, error) {
	e := b.world.CreateEntity()
	for _, set := range b.sets {
		set(b.world, e)
	}
	if err := Construct(b.world, e, ctx); err != nil {
		b.world.RemoveEntity(e)
		return NoEntity, err
	}
	return e, nil
}
