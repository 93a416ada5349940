package ecs

import "reflect"

// GetComponent retrieves a pointer to the component of type `T` for the given
// entity. The pointer aliases archetype storage and is invalidated by any
// structural change to the entity (add/remove of a component, removal of the
// entity).
//
// Returns nil if the entity is invalid or does not carry the component.
func GetComponent[T any](w *World, e Entity) *T {
	if !w.IsValid(e) {
		return nil
	}
	meta := w.metas[e.ID]
	id := w.getCompTypeID(reflect.TypeFor[T]())
	a := w.archetypes[meta.archetypeIndex]
	if !a.mask.containsBit(id) {
		return nil
	}
	return (*T)(w.compPtr(a, meta.index, id))
}

// HasComponent reports whether the entity carries a component of type `T`.
func HasComponent[T any](w *World, e Entity) bool {
	if !w.IsValid(e) {
		return false
	}
	meta := w.metas[e.ID]
	id := w.getCompTypeID(reflect.TypeFor[T]())
	return w.archetypes[meta.archetypeIndex].mask.containsBit(id)
}

// SetComponent adds a component of type `T` with the given value to an
// entity, or overwrites it if the component already exists.
//
// Adding a component moves the entity to a different archetype and fires the
// attach hooks registered for `T` once the value is in place. Overwriting
// does not re-fire hooks. If the entity is invalid, this function does
// nothing.
//
// Hooks may read and mutate the attached component through the pointer they
// receive but must not add or remove components on the same entity.
func SetComponent[T any](w *World, e Entity, val T) {
	if !w.IsValid(e) {
		return
	}
	meta := &w.metas[e.ID]
	t := reflect.TypeFor[T]()
	id := w.getCompTypeID(t)
	a := w.archetypes[meta.archetypeIndex]
	if a.mask.containsBit(id) {
		*(*T)(w.compPtr(a, meta.index, id)) = val
		return
	}
	// move to the archetype that also has T
	newMask := a.mask
	newMask.set(id)
	var targetA *archetype
	if idx, ok := w.maskToArcIndex[newMask]; ok {
		targetA = w.archetypes[idx]
	} else {
		var tempSpecs [MaxComponentTypes]compSpec
		count := 0
		for _, cid := range a.compOrder {
			tempSpecs[count] = compSpec{id: cid, typ: w.compIDToType[cid], size: w.compIDToSize[cid]}
			count++
		}
		tempSpecs[count] = compSpec{id: id, typ: t, size: w.compIDToSize[id]}
		count++
		targetA = w.getOrCreateArchetype(newMask, tempSpecs[:count])
	}
	w.grow(targetA, targetA.size+1)
	newIdx := targetA.size
	targetA.entityIDs[newIdx] = e
	targetA.size++
	for _, cid := range a.compOrder {
		memCopy(w.compPtr(targetA, newIdx, cid), w.compPtr(a, meta.index, cid), a.compSizes[cid])
	}
	dst := w.compPtr(targetA, newIdx, id)
	*(*T)(dst) = val
	w.removeFromArchetype(a, meta)
	meta.archetypeIndex = targetA.index
	meta.index = newIdx
	w.fireAttach(id, e, dst)
}

// RemoveComponent removes the component of type `T` from the entity, firing
// the detach hooks registered for `T` before the value is dropped.
//
// If the entity is invalid or does not carry the component, this function
// does nothing, which makes removal idempotent.
func RemoveComponent[T any](w *World, e Entity) {
	if !w.IsValid(e) {
		return
	}
	t := reflect.TypeFor[T]()
	id := w.getCompTypeID(t)
	a := w.archetypes[w.metas[e.ID].archetypeIndex]
	if !a.mask.containsBit(id) {
		return
	}
	w.fireDetach(id, e, w.compPtr(a, w.metas[e.ID].index, id))
	// hooks may have created entities and reallocated metas; take the
	// pointer only now
	meta := &w.metas[e.ID]
	newMask := a.mask
	newMask.unset(id)
	var targetA *archetype
	if idx, ok := w.maskToArcIndex[newMask]; ok {
		targetA = w.archetypes[idx]
	} else {
		var tempSpecs [MaxComponentTypes]compSpec
		count := 0
		for _, cid := range a.compOrder {
			if cid == id {
				continue
			}
			tempSpecs[count] = compSpec{id: cid, typ: w.compIDToType[cid], size: w.compIDToSize[cid]}
			count++
		}
		targetA = w.getOrCreateArchetype(newMask, tempSpecs[:count])
	}
	w.grow(targetA, targetA.size+1)
	newIdx := targetA.size
	targetA.entityIDs[newIdx] = e
	targetA.size++
	for _, cid := range a.compOrder {
		if cid == id {
			continue
		}
		memCopy(w.compPtr(targetA, newIdx, cid), w.compPtr(a, meta.index, cid), a.compSizes[cid])
	}
	w.removeFromArchetype(a, meta)
	meta.archetypeIndex = targetA.index
	meta.index = newIdx
}

// GetComponent2 retrieves pointers to two components at once. Either pointer
// is nil when its component is missing; both are nil for an invalid entity.
func GetComponent2[T1 any, T2 any](w *World, e Entity) (*T1, *T2) {
	return GetComponent[T1](w, e), GetComponent[T2](w, e)
}
