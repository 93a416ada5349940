package butsuri

import (
	"fmt"

	"github.com/setanarut/cm"
	"github.com/setanarut/v"
	"go.uber.org/zap"

	"github.com/edwinsyarief/butsuri/ecs"
)

// BodyKind selects how the simulation integrates a body.
type BodyKind uint8

const (
	Dynamic BodyKind = iota
	Kinematic
	Static
)

func (k BodyKind) String() string {
	switch k {
	case Kinematic:
		return "kinematic"
	case Static:
		return "static"
	default:
		return "dynamic"
	}
}

// BodyTemplate declares a body to be built during entity assembly. It is a
// value-only descriptor: once the constructor has run, only the concrete
// Body component remains on the entity.
//
// A zero Moment means "compute the moment of a filled disc of Mass and
// Radius"; a nonzero Moment is used verbatim.
type BodyTemplate struct {
	Radius float64
	Mass   float64
	Angle  float64
	Moment float64
	Kind   BodyKind
}

// Body owns exactly one simulation body. The component holds the sole
// reference; when it detaches from its entity the body is released from the
// back-reference table, removed from the space, and dropped, in that order.
//
// A Body is never reused across entities.
type Body struct {
	Ref  *cm.Body
	Mass float64
	Kind BodyKind
}

// NewBody builds a simulation body from the template, places it at pos with
// the given velocity, and adds it to the space. The returned component
// exclusively owns the new body.
//
// Returns ErrZeroMass when the template carries no mass.
func (en *Engine) NewBody(t BodyTemplate, pos, vel v.Vec) (Body, error) {
	if t.Mass == 0 {
		return Body{}, fmt.Errorf("%w: body template needs a mass", ErrZeroMass)
	}
	var b *cm.Body
	switch t.Kind {
	case Static:
		b = cm.NewBody(0, 0)
		b.SetType(cm.Static)
	case Kinematic:
		b = cm.NewBody(0, 0)
		b.SetType(cm.Kinematic)
	default:
		moment := t.Moment
		if moment == 0 {
			// filled disc of the template's mass and radius
			moment = cm.MomentForCircle(t.Mass, 0, t.Radius, v.Vec{})
		}
		b = cm.NewBody(t.Mass, moment)
	}
	b.SetPosition(pos)
	b.SetVelocityVector(vel)
	b.SetAngle(t.Angle)
	en.space.AddBody(b)
	en.log.Debug("body created",
		zap.Stringer("kind", t.Kind),
		zap.Float64("mass", t.Mass))
	return Body{Ref: b, Mass: t.Mass, Kind: t.Kind}, nil
}

// bodyAttached tags the owning entity on the simulation body. Re-attachment
// overwrites the record in place rather than creating a duplicate.
func (en *Engine) bodyAttached(_ *ecs.World, e ecs.Entity, c *Body) {
	if c.Ref == nil {
		return
	}
	en.refs.TagBody(c.Ref, e)
	ecs.Publish(en.bus, BodyAttached{Entity: e})
}

// bodyDetached disposes of the simulation body: back-reference first, then
// removal from the space, then the handle itself. The back-reference must
// never be read from a destroyed body, so the order is fixed.
//
// A Body whose handle is already gone is a no-op, which keeps detach
// idempotent under cascading removal.
func (en *Engine) bodyDetached(_ *ecs.World, e ecs.Entity, c *Body) {
	if c.Ref == nil {
		return
	}
	if _, ok := en.refs.BodyOwner(c.Ref); ok {
		en.refs.ReleaseBody(c.Ref)
	}
	if en.space.ContainsBody(c.Ref) {
		en.space.RemoveBody(c.Ref)
	}
	c.Ref = nil
	en.log.Debug("body destroyed", zap.Uint32("entity", e.ID))
	ecs.Publish(en.bus, BodyDetached{Entity: e})
}

// constructBody turns a BodyTemplate into a live Body. The context entity is
// ignored: a body has no prerequisite. Initial position and velocity come
// from the entity's Transform and Velocity components when present, else
// zero.
func (en *Engine) constructBody(w *ecs.World, e ecs.Entity, t BodyTemplate, _ ecs.Entity) error {
	var pos, vel v.Vec
	if tr := ecs.GetComponent[Transform](w, e); tr != nil {
		pos = tr.Pos
	}
	if vc := ecs.GetComponent[Velocity](w, e); vc != nil {
		vel = vc.Vel
	}
	b, err := en.NewBody(t, pos, vel)
	if err != nil {
		return err
	}
	ecs.SetComponent(w, e, b)
	return nil
}
