package butsuri

import (
	"math"

	"github.com/setanarut/cm"
	"github.com/setanarut/v"

	"github.com/edwinsyarief/butsuri/ecs"
)

// Geometry identifies the collision geometry a shape was built from.
type Geometry uint8

const (
	// GeometryNone marks a shape tagged without creation metadata, which
	// only happens on the defensive late-tag path.
	GeometryNone Geometry = iota
	GeometryCircle
	GeometryBox
	GeometryPolygon
	GeometrySegment
)

func (g Geometry) String() string {
	switch g {
	case GeometryCircle:
		return "circle"
	case GeometryBox:
		return "box"
	case GeometryPolygon:
		return "polygon"
	case GeometrySegment:
		return "segment"
	default:
		return "none"
	}
}

// BodyRef records which entity owns a simulation body.
type BodyRef struct {
	Owner ecs.Entity
}

// ShapeRef records which entity owns a simulation shape, plus the geometry
// metadata needed to recompute the shape's world-space offset without asking
// the engine's per-kind accessors. Angle and Dist are the polar form of
// Offset, fixed at tag time.
type ShapeRef struct {
	Owner  ecs.Entity
	Offset v.Vec
	Angle  float64
	Dist   float64
	Kind   Geometry
}

// WorldOffset returns the shape's local offset mapped into world space for
// the given body position and rotation. It is computed on demand so it stays
// correct as the body moves.
func (r *ShapeRef) WorldOffset(pos v.Vec, bodyAngle float64) v.Vec {
	a := bodyAngle + r.Angle
	return v.Vec{
		X: pos.X + r.Dist*math.Cos(a),
		Y: pos.Y + r.Dist*math.Sin(a),
	}
}

// RefTable maps simulation objects back to the entities that own them. It is
// a side table owned entirely by this package: no operation ever touches the
// simulation state of the body or shape itself.
//
// Records are allocated on first tag, overwritten in place on re-tag, and
// freed exactly once by release. Releasing an object that has no record is a
// programming error and panics.
type RefTable struct {
	bodies map[*cm.Body]*BodyRef
	shapes map[*cm.Shape]*ShapeRef
}

// NewRefTable creates an empty RefTable.
func NewRefTable() *RefTable {
	return &RefTable{
		bodies: make(map[*cm.Body]*BodyRef),
		shapes: make(map[*cm.Shape]*ShapeRef),
	}
}

// TagBody records e as the owner of b. Re-tagging overwrites the existing
// record in place, so re-parenting does not churn allocations.
func (t *RefTable) TagBody(b *cm.Body, e ecs.Entity) {
	if ref, ok := t.bodies[b]; ok {
		ref.Owner = e
		return
	}
	t.bodies[b] = &BodyRef{Owner: e}
}

// BodyOwner returns the owning entity of b, or ok=false if b was never
// tagged.
func (t *RefTable) BodyOwner(b *cm.Body) (ecs.Entity, bool) {
	ref, ok := t.bodies[b]
	if !ok {
		return ecs.NoEntity, false
	}
	return ref.Owner, true
}

// ReleaseBody frees the record of b. Panics if b has no record: releasing
// twice means an ownership bug somewhere, not a recoverable condition.
func (t *RefTable) ReleaseBody(b *cm.Body) {
	if _, ok := t.bodies[b]; !ok {
		panic("butsuri: release of an untagged body")
	}
	delete(t.bodies, b)
}

// TagShape records e as the owner of s along with its creation geometry and
// local offset. Re-tagging overwrites in place.
func (t *RefTable) TagShape(s *cm.Shape, e ecs.Entity, kind Geometry, offset v.Vec) {
	if ref, ok := t.shapes[s]; ok {
		ref.Owner = e
		ref.Kind = kind
		ref.Offset = offset
		ref.Angle = math.Atan2(offset.Y, offset.X)
		ref.Dist = math.Hypot(offset.X, offset.Y)
		return
	}
	t.shapes[s] = &ShapeRef{
		Owner:  e,
		Kind:   kind,
		Offset: offset,
		Angle:  math.Atan2(offset.Y, offset.X),
		Dist:   math.Hypot(offset.X, offset.Y),
	}
}

// ShapeRef returns the record of s, or ok=false if s was never tagged.
// The returned pointer stays valid until the shape is released; mutating
// Owner through it is how the attach hook re-parents shapes.
func (t *RefTable) ShapeRef(s *cm.Shape) (*ShapeRef, bool) {
	ref, ok := t.shapes[s]
	return ref, ok
}

// ReleaseShape frees the record of s. Panics if s has no record.
func (t *RefTable) ReleaseShape(s *cm.Shape) {
	if _, ok := t.shapes[s]; !ok {
		panic("butsuri: release of an untagged shape")
	}
	delete(t.shapes, s)
}
