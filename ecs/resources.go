package ecs

import (
	"fmt"
	"reflect"
)

// Resources is a type-keyed store for world-global singletons, such as the
// physics engine handle or asset caches. At most one value per type may be
// present at a time.
type Resources struct {
	items map[reflect.Type]any
}

// Clear drops every stored resource.
func (r *Resources) Clear() {
	clear(r.items)
}

// AddResource stores v under its type. Panics if a resource of the same type
// already exists; replace explicitly via RemoveResource first.
func AddResource[T any](r *Resources, v *T) {
	if v == nil {
		panic("ecs: cannot add nil resource")
	}
	t := reflect.TypeFor[T]()
	if r.items == nil {
		r.items = make(map[reflect.Type]any)
	}
	if _, ok := r.items[t]; ok {
		panic(fmt.Sprintf("ecs: resource of type %s already exists", t))
	}
	r.items[t] = v
}

// GetResource retrieves the resource of type `T`, or (nil, false) if absent.
func GetResource[T any](r *Resources) (*T, bool) {
	v, ok := r.items[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// HasResource reports whether a resource of type `T` is stored.
func HasResource[T any](r *Resources) bool {
	_, ok := r.items[reflect.TypeFor[T]()]
	return ok
}

// RemoveResource drops the resource of type `T` if present.
func RemoveResource[T any](r *Resources) {
	delete(r.items, reflect.TypeFor[T]())
}
