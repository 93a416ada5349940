// Package butsuri binds ECS entities to rigid bodies and collision shapes
// owned by the cm physics engine.
//
// The package keeps a many-to-many association between entities and
// simulation objects consistent across creation, mutation and destruction:
//
//   - Body and Shapes components exclusively own their simulation handles;
//     attach/detach hooks create and destroy the foreign resources in
//     lock-step with component lifetime.
//   - A RefTable side table lets any system answer "which entity owns this
//     body or shape" from a bare handle.
//   - BodyTemplate and ShapeTemplate are declarative descriptors consumed by
//     the ecs constructor registry during Blueprint assembly, so entities
//     can be declared with templates and come out the other side carrying
//     live resources, with bodies always constructed before the shapes that
//     attach to them.
//
// Everything is single-threaded and synchronous, like the simulation space
// itself.
package butsuri

import (
	"github.com/setanarut/cm"
	"go.uber.org/zap"

	"github.com/edwinsyarief/butsuri/ecs"
)

// Engine wires a World to a simulation space. Create one per world with
// Register.
type Engine struct {
	space  *cm.Space
	refs   *RefTable
	bus    *ecs.EventBus
	log    *zap.Logger
	bodies *ecs.Filter2[Body, Transform]
	moving *ecs.Filter2[Body, Velocity]
}

// Option configures an Engine at Register time.
type Option func(*Engine)

// WithLogger routes the engine's diagnostics through the given logger. The
// default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithEventBus publishes lifecycle events on the given bus instead of a
// private one.
func WithEventBus(bus *ecs.EventBus) Option {
	return func(e *Engine) { e.bus = bus }
}

// Lifecycle events published on the engine's bus.
type (
	// BodyAttached fires when a Body component is bound to an entity.
	BodyAttached struct{ Entity ecs.Entity }
	// BodyDetached fires after an entity's simulation body is destroyed.
	BodyDetached struct{ Entity ecs.Entity }
	// ShapesDetached fires after an entity's shapes are destroyed.
	ShapesDetached struct {
		Entity ecs.Entity
		Count  int
	}
)

// Register wires the physics binding into w: component lifecycle hooks for
// Body and Shapes, constructors for BodyTemplate and ShapeTemplate, and the
// Engine itself as a world resource.
//
// Body is registered before Shapes on purpose: detach hooks on entity
// removal fire in descending component-ID order, so an entity's shapes are
// always destroyed before the body they attach to.
func Register(w *ecs.World, space *cm.Space, opts ...Option) *Engine {
	en := &Engine{
		space: space,
		refs:  NewRefTable(),
		bus:   &ecs.EventBus{},
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(en)
	}
	ecs.OnAttach(w, en.bodyAttached)
	ecs.OnDetach(w, en.bodyDetached)
	ecs.OnAttach(w, en.shapesAttached)
	ecs.OnDetach(w, en.shapesDetached)
	ecs.RegisterConstructor(w, en.constructBody)
	ecs.RegisterConstructor(w, en.constructShape)
	en.bodies = ecs.NewFilter2[Body, Transform](w)
	en.moving = ecs.NewFilter2[Body, Velocity](w)
	ecs.AddResource(w.Resources(), en)
	return en
}

// FromWorld returns the Engine registered on w, if any.
func FromWorld(w *ecs.World) (*Engine, bool) {
	return ecs.GetResource[Engine](w.Resources())
}

// Space returns the simulation space the engine mutates.
func (en *Engine) Space() *cm.Space {
	return en.space
}

// Refs returns the back-reference table, letting any system recover the
// owning entity from a bare body or shape handle.
func (en *Engine) Refs() *RefTable {
	return en.refs
}

// Bus returns the bus lifecycle events are published on.
func (en *Engine) Bus() *ecs.EventBus {
	return en.bus
}
