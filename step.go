package butsuri

import "github.com/setanarut/v"

// Transform holds an entity's world position and rotation. During assembly
// it supplies the body's initial placement; afterwards it is written back
// from simulation state on every Step, which is what downstream consumers
// (renderers, spatial queries) read.
type Transform struct {
	Pos   v.Vec
	Angle float64
}

// Velocity holds an entity's linear velocity, used to seed the body at
// construction time and refreshed from the simulation on every Step.
type Velocity struct {
	Vel v.Vec
}

// Step advances the simulation by dt and syncs body state back into the
// Transform and Velocity components of every bound entity.
func (en *Engine) Step(dt float64) {
	en.space.Step(dt)
	en.bodies.Reset()
	for en.bodies.Next() {
		b, tr := en.bodies.Get()
		if b.Ref == nil {
			continue
		}
		tr.Pos = b.Ref.Position()
		tr.Angle = b.Ref.Angle()
	}
	en.moving.Reset()
	for en.moving.Next() {
		b, vc := en.moving.Get()
		if b.Ref == nil {
			continue
		}
		vc.Vel = b.Ref.Velocity()
	}
}
