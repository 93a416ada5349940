package butsuri

import (
	"fmt"

	"github.com/setanarut/cm"
	"github.com/setanarut/v"
	"go.uber.org/zap"

	"github.com/edwinsyarief/butsuri/ecs"
)

// ShapeTemplate declares a collision shape to be built during entity
// assembly against a body supplied by a context entity.
//
// Radius is the circle radius, the box half-extent, or the segment
// thickness, depending on Geometry. Offset applies to circles only: boxes
// ignore it, polygons and segments reject a nonzero offset since their
// geometry is already explicit.
//
// Polygon vertices are used as-is (counter-clockwise winding required) when
// Transform is nil; with a Transform, a convex hull is computed from the raw
// points. Filter and CollisionType are applied only when set, leaving the
// engine defaults alone otherwise.
type ShapeTemplate struct {
	Context       ecs.Entity
	Geometry      Geometry
	Radius        float64
	Offset        v.Vec
	Verts         []v.Vec
	Transform     *cm.Transform
	A, B          v.Vec
	Filter        *cm.ShapeFilter
	CollisionType cm.CollisionType
	Elasticity    float64
	Friction      float64
}

// Shapes owns an ordered sequence of simulation shapes, all attached to one
// body. An entity may carry several shapes; insertion order is creation
// order and is preserved for index-based access.
type Shapes struct {
	Items []*cm.Shape
}

// NewShape builds a one-shape binding from the template. See AddShape.
func (en *Engine) NewShape(t ShapeTemplate, owner Body, e ecs.Entity) (Shapes, error) {
	var c Shapes
	if err := en.AddShape(&c, t, owner, e); err != nil {
		return Shapes{}, err
	}
	return c, nil
}

// AddShape creates a simulation shape on the owner's body, applies the
// template's surface attributes, tags it with (entity, geometry, offset) in
// the back-reference table, adds it to the space, and appends it to the
// binding. Existing entries are never touched.
//
// Errors are preconditions: a massless dynamic owner (ErrZeroMass), or a
// geometry/attribute combination the engine does not support
// (ErrBadGeometry).
func (en *Engine) AddShape(c *Shapes, t ShapeTemplate, owner Body, e ecs.Entity) error {
	if owner.Ref == nil {
		return ErrNoBody
	}
	if owner.Kind == Dynamic && owner.Mass == 0 {
		return fmt.Errorf("%w: shapes need a body with mass", ErrZeroMass)
	}
	var s *cm.Shape
	switch t.Geometry {
	case GeometryCircle:
		s = cm.NewCircleShape(owner.Ref, t.Radius, t.Offset)
	case GeometryBox:
		// offset is ignored: the box is centered on the body, with Radius
		// as half-extent
		s = cm.NewBoxShape(owner.Ref, 2*t.Radius, 2*t.Radius, 0)
	case GeometryPolygon:
		if t.Offset != (v.Vec{}) {
			return fmt.Errorf("%w: polygon does not take an offset", ErrBadGeometry)
		}
		if len(t.Verts) == 0 {
			return fmt.Errorf("%w: polygon needs vertices", ErrBadGeometry)
		}
		if t.Transform != nil {
			s = cm.NewPolyShape(owner.Ref, t.Verts, *t.Transform, 0)
		} else {
			s = cm.NewPolyShapeRaw(owner.Ref, len(t.Verts), t.Verts, 0)
		}
	case GeometrySegment:
		if t.Offset != (v.Vec{}) {
			return fmt.Errorf("%w: segment does not take an offset", ErrBadGeometry)
		}
		s = cm.NewSegmentShape(owner.Ref, t.A, t.B, t.Radius)
	default:
		return fmt.Errorf("%w: %s", ErrBadGeometry, t.Geometry)
	}
	if t.Filter != nil {
		s.SetShapeFilter(*t.Filter)
	}
	if t.CollisionType != 0 {
		s.SetCollisionType(t.CollisionType)
	}
	s.SetElasticity(t.Elasticity)
	s.SetFriction(t.Friction)
	en.space.AddShape(s)
	en.refs.TagShape(s, e, t.Geometry, t.Offset)
	c.Items = append(c.Items, s)
	en.log.Debug("shape created",
		zap.Stringer("geometry", t.Geometry),
		zap.Uint32("entity", e.ID))
	return nil
}

// WorldOffset recomputes the world-space position of a shape's local offset
// from the current state of the body it is attached to. ok is false when the
// shape was never tagged or is no longer attached to a body.
func (en *Engine) WorldOffset(s *cm.Shape) (v.Vec, bool) {
	ref, ok := en.refs.ShapeRef(s)
	if !ok || s.Body == nil {
		return v.Vec{}, false
	}
	return ref.WorldOffset(s.Body.Position(), s.Body.Angle()), true
}

// shapesAttached propagates the owning entity to every shape in the binding.
// Shapes tagged at creation only get their owner updated; an untagged shape
// reaching this hook means construction skipped the creation path, so it is
// tagged now and reported as a diagnostic.
func (en *Engine) shapesAttached(_ *ecs.World, e ecs.Entity, c *Shapes) {
	for _, s := range c.Items {
		if ref, ok := en.refs.ShapeRef(s); ok {
			ref.Owner = e
			continue
		}
		en.log.Warn("untagged shape reached attach, tagging late",
			zap.Uint32("entity", e.ID))
		en.refs.TagShape(s, e, GeometryNone, v.Vec{})
	}
}

// shapesDetached disposes of every shape in order: back-reference released,
// shape removed from the space, handle dropped. A shape with no
// back-reference is treated as already finalized, so double detach is safe.
// The sequence is cleared afterward.
func (en *Engine) shapesDetached(_ *ecs.World, e ecs.Entity, c *Shapes) {
	n := 0
	for _, s := range c.Items {
		if _, ok := en.refs.ShapeRef(s); ok {
			en.refs.ReleaseShape(s)
		}
		if en.space.ContainsShape(s) {
			en.space.RemoveShape(s)
		}
		n++
	}
	c.Items = nil
	if n > 0 {
		en.log.Debug("shapes destroyed",
			zap.Int("count", n),
			zap.Uint32("entity", e.ID))
		ecs.Publish(en.bus, ShapesDetached{Entity: e, Count: n})
	}
}

// constructShape turns a ShapeTemplate into a live Shapes binding. The body
// comes from the template's Context entity when set, from the assembly's
// context entity otherwise, and finally from the entity itself (the common
// body-plus-shape-on-one-entity case, which works because body templates
// construct first).
//
// Fails fast with ErrNoBody when the resolved entity carries no Body: a
// shape cannot exist without one.
func (en *Engine) constructShape(w *ecs.World, e ecs.Entity, t ShapeTemplate, ctx ecs.Entity) error {
	target := t.Context
	if target == ecs.NoEntity {
		target = ctx
	}
	if target == ecs.NoEntity {
		target = e
	}
	owner := ecs.GetComponent[Body](w, target)
	if owner == nil || owner.Ref == nil {
		return fmt.Errorf("%w: entity %d", ErrNoBody, target.ID)
	}
	c, err := en.NewShape(t, *owner, e)
	if err != nil {
		return err
	}
	ecs.SetComponent(w, e, c)
	return nil
}
