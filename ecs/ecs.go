// Package ecs implements a small archetype-based Entity Component System.
//
// Features:
// - Archetype-based storage with max 256 component types.
// - Bitmask for fast archetype lookup.
// - Unsafe pointers for zero-GC overhead on component access.
// - Entity IDs are recycled; a version counter guards stale references.
// - Generic Builder and Filter APIs for 1 or 2 components.
// - Attach/detach hooks fired in lock-step with component add/remove.
// - A constructor registry that replaces template components with their
//   concrete counterparts during Blueprint assembly.
package ecs

import (
	"reflect"
	"sort"
	"unsafe"
)

// MaxComponentTypes is the maximum number of unique component types a World
// can register.
const MaxComponentTypes = 256

// Entity is a unique ID + version tag. The zero value is NoEntity and is
// never a live entity: live versions start at 1.
type Entity struct {
	ID      uint32
	Version uint32
}

// NoEntity is the "no entity" sentinel. It compares unequal to every entity
// a World will ever hand out.
var NoEntity = Entity{}

// entityMeta holds where an entity lives.
type entityMeta struct {
	archetypeIndex int    // index in World.archetypes, -1 if dead
	index          int    // position inside archetype
	version        uint32 // current version, 0 if dead
}

// compSpec bundles a component type's ID, reflect.Type and size.
type compSpec struct {
	typ  reflect.Type
	size uintptr
	id   uint8
}

// bitmask256 represents up to 256 component bits.
type bitmask256 [4]uint64

func (m *bitmask256) set(bit uint8) {
	m[bit>>6] |= uint64(1) << uint64(bit&63)
}

func (m *bitmask256) unset(bit uint8) {
	m[bit>>6] &= ^(uint64(1) << uint64(bit&63))
}

// contains checks if all bits set in sub are also set in m.
func (m bitmask256) contains(sub bitmask256) bool {
	return (m[0]&sub[0]) == sub[0] &&
		(m[1]&sub[1]) == sub[1] &&
		(m[2]&sub[2]) == sub[2] &&
		(m[3]&sub[3]) == sub[3]
}

// containsBit checks if a single bit is set.
func (m bitmask256) containsBit(bit uint8) bool {
	return (m[bit>>6] & (uint64(1) << uint64(bit&63))) != 0
}

// archetype holds storage for one unique component-set mask. Component
// arrays and the entity list always share the same capacity and grow
// together.
type archetype struct {
	compPointers [MaxComponentTypes]unsafe.Pointer
	entityIDs    []Entity
	compOrder    []uint8 // component IDs in this arch, ascending
	compSizes    [MaxComponentTypes]uintptr
	mask         bitmask256
	index        int // position in world.archetypes
	size         int // current entity count
	capacity     int
}

// hookFn is the type-erased form of an attach/detach hook. The pointer
// aliases the component's archetype storage slot and is only valid for the
// duration of the call.
type hookFn func(w *World, e Entity, comp unsafe.Pointer)

// World owns all entities, component storage, hooks and constructors.
type World struct {
	resources      *Resources
	maskToArcIndex map[bitmask256]int
	compTypeMap    map[reflect.Type]uint8
	compIDToType   [MaxComponentTypes]reflect.Type
	compIDToSize   [MaxComponentTypes]uintptr
	archetypes     []*archetype
	freeIDs        []uint32
	metas          []entityMeta
	attachHooks    [MaxComponentTypes][]hookFn
	detachHooks    [MaxComponentTypes][]hookFn
	ctors          map[uint8]ctorEntry
	ctorOrder      []uint8
	capacity       int
	nextEntityVer  uint32
	nextCompTypeID uint16
}

// NewWorld creates a World preallocated for up to initialCapacity entities.
// The world grows automatically when the capacity is exceeded.
func NewWorld(initialCapacity int) *World {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	w := &World{
		resources:      &Resources{},
		capacity:       initialCapacity,
		freeIDs:        make([]uint32, initialCapacity),
		metas:          make([]entityMeta, initialCapacity),
		archetypes:     make([]*archetype, 0, 16),
		maskToArcIndex: make(map[bitmask256]int),
		compTypeMap:    make(map[reflect.Type]uint8, 16),
		ctors:          make(map[uint8]ctorEntry),
		nextEntityVer:  1,
	}
	for i := range w.freeIDs {
		// fill freeIDs with [cap-1 .. 0] so the first pop yields ID 0
		w.freeIDs[i] = uint32(initialCapacity - 1 - i)
	}
	for i := range w.metas {
		w.metas[i].archetypeIndex = -1
		w.metas[i].index = -1
	}
	// pre-create the empty archetype so CreateEntity never misses
	w.getOrCreateArchetype(bitmask256{}, nil)
	return w
}

// Resources returns the world's resource store, a type-keyed registry for
// globals such as the physics engine handle.
func (w *World) Resources() *Resources {
	return w.resources
}

// IsValid reports whether e is currently alive.
func (w *World) IsValid(e Entity) bool {
	if int(e.ID) >= len(w.metas) {
		return false
	}
	meta := w.metas[e.ID]
	return meta.version != 0 && meta.version == e.Version
}

// getCompTypeID registers or fetches the component type ID for t.
func (w *World) getCompTypeID(t reflect.Type) uint8 {
	if id, ok := w.compTypeMap[t]; ok {
		return id
	}
	if w.nextCompTypeID >= MaxComponentTypes {
		panic("ecs: too many component types")
	}
	id := uint8(w.nextCompTypeID)
	w.compTypeMap[t] = id
	w.compIDToType[id] = t
	w.compIDToSize[id] = t.Size()
	w.nextCompTypeID++
	return id
}

// getOrCreateArchetype returns the archetype for mask, allocating component
// storage on first use.
func (w *World) getOrCreateArchetype(mask bitmask256, specs []compSpec) *archetype {
	if idx, ok := w.maskToArcIndex[mask]; ok {
		return w.archetypes[idx]
	}
	a := &archetype{
		index:     len(w.archetypes),
		mask:      mask,
		capacity:  w.capacity,
		entityIDs: make([]Entity, w.capacity),
	}
	for _, sp := range specs {
		slice := reflect.MakeSlice(reflect.SliceOf(sp.typ), w.capacity, w.capacity)
		a.compPointers[sp.id] = slice.UnsafePointer()
		a.compSizes[sp.id] = sp.size
		a.compOrder = append(a.compOrder, sp.id)
	}
	// detach order on entity removal walks compOrder backwards, so keep it
	// sorted ascending by ID
	sort.Slice(a.compOrder, func(i, j int) bool { return a.compOrder[i] < a.compOrder[j] })
	w.archetypes = append(w.archetypes, a)
	w.maskToArcIndex[mask] = a.index
	return a
}

// grow doubles an archetype's storage until it can hold at least need
// entities, copying existing component data over.
func (w *World) grow(a *archetype, need int) {
	if need <= a.capacity {
		return
	}
	newCap := a.capacity * 2
	if newCap < need {
		newCap = need
	}
	newIDs := make([]Entity, newCap)
	copy(newIDs, a.entityIDs[:a.size])
	a.entityIDs = newIDs
	for _, id := range a.compOrder {
		typ := w.compIDToType[id]
		slice := reflect.MakeSlice(reflect.SliceOf(typ), newCap, newCap)
		ptr := slice.UnsafePointer()
		memCopy(ptr, a.compPointers[id], uintptr(a.size)*a.compSizes[id])
		a.compPointers[id] = ptr
	}
	a.capacity = newCap
}

// expand raises the entity capacity of the world itself.
func (w *World) expand(additional int) {
	oldCap := w.capacity
	newCap := oldCap * 2
	if newCap < oldCap+additional {
		newCap = oldCap + additional
	}
	delta := newCap - oldCap
	newMetas := make([]entityMeta, delta)
	for i := range newMetas {
		newMetas[i].archetypeIndex = -1
		newMetas[i].index = -1
	}
	w.metas = append(w.metas, newMetas...)
	for i := range delta {
		w.freeIDs = append(w.freeIDs, uint32(newCap-1-i))
	}
	w.capacity = newCap
}

// createEntity places a fresh entity into the given archetype. Attach hooks
// are the caller's responsibility: only the caller knows which components
// were just written.
func (w *World) createEntity(a *archetype) Entity {
	if len(w.freeIDs) == 0 {
		w.expand(1)
	}
	last := len(w.freeIDs) - 1
	id := w.freeIDs[last]
	w.freeIDs = w.freeIDs[:last]
	w.grow(a, a.size+1)
	meta := &w.metas[id]
	meta.archetypeIndex = a.index
	meta.index = a.size
	meta.version = w.nextEntityVer
	ent := Entity{ID: id, Version: meta.version}
	a.entityIDs[a.size] = ent
	a.size++
	w.nextEntityVer++
	return ent
}

// CreateEntity creates a new entity with no components.
func (w *World) CreateEntity() Entity {
	idx := w.maskToArcIndex[bitmask256{}]
	return w.createEntity(w.archetypes[idx])
}

// RemoveEntity deletes e. Detach hooks fire for every component the entity
// still carries, in descending component-ID order, before any storage is
// touched; components registered later are torn down first.
func (w *World) RemoveEntity(e Entity) {
	if !w.IsValid(e) {
		return
	}
	a := w.archetypes[w.metas[e.ID].archetypeIndex]
	for i := len(a.compOrder) - 1; i >= 0; i-- {
		id := a.compOrder[i]
		w.fireDetach(id, e, w.compPtr(a, w.metas[e.ID].index, id))
	}
	// hooks may have created entities and reallocated metas; take the
	// pointer only now
	meta := &w.metas[e.ID]
	w.removeFromArchetype(a, meta)
	meta.archetypeIndex = -1
	meta.index = -1
	meta.version = 0
	w.freeIDs = append(w.freeIDs, e.ID)
}

// RemoveEntities removes a batch of entities.
func (w *World) RemoveEntities(ents []Entity) {
	for _, e := range ents {
		w.RemoveEntity(e)
	}
}

// compPtr returns the storage slot of component id for row index in a.
func (w *World) compPtr(a *archetype, index int, id uint8) unsafe.Pointer {
	return unsafe.Pointer(uintptr(a.compPointers[id]) + uintptr(index)*a.compSizes[id])
}

// removeFromArchetype swaps the last entity into the removed slot. The
// entity's meta is left to the caller.
func (w *World) removeFromArchetype(a *archetype, meta *entityMeta) {
	idx := meta.index
	lastIdx := a.size - 1
	if idx < lastIdx {
		lastEnt := a.entityIDs[lastIdx]
		a.entityIDs[idx] = lastEnt
		for _, id := range a.compOrder {
			src := w.compPtr(a, lastIdx, id)
			dst := w.compPtr(a, idx, id)
			memCopy(dst, src, a.compSizes[id])
		}
		w.metas[lastEnt.ID].index = idx
	}
	a.size--
}

// fireAttach invokes every attach hook registered for component id.
func (w *World) fireAttach(id uint8, e Entity, comp unsafe.Pointer) {
	for _, fn := range w.attachHooks[id] {
		fn(w, e, comp)
	}
}

// fireDetach invokes every detach hook registered for component id.
func (w *World) fireDetach(id uint8, e Entity, comp unsafe.Pointer) {
	for _, fn := range w.detachHooks[id] {
		fn(w, e, comp)
	}
}

// memCopy copies size bytes from src to dst using built-in copy.
func memCopy(dst, src unsafe.Pointer, size uintptr) {
	if size == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(dst), size), unsafe.Slice((*byte)(src), size))
}
