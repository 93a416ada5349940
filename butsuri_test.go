package butsuri_test

import (
	"errors"
	"math"
	"testing"

	"github.com/setanarut/v"

	"github.com/edwinsyarief/butsuri"
	"github.com/edwinsyarief/butsuri/ecs"
)

// go test -run ^TestAssembleGroundAndSensor$ . -count 1
func TestAssembleGroundAndSensor(t *testing.T) {
	w, space, en := newTestEngine()

	ground, err := ecs.With(ecs.With(ecs.NewBlueprint(w),
		butsuri.Transform{}),
		butsuri.BodyTemplate{Mass: 1, Radius: 1, Kind: butsuri.Static}).Spawn()
	if err != nil {
		t.Fatalf("ground spawn failed: %v", err)
	}

	gb := ecs.GetComponent[butsuri.Body](w, ground)
	if gb == nil || gb.Ref == nil {
		t.Fatal("ground carries no live body")
	}
	if gb.Kind != butsuri.Static {
		t.Errorf("expected static ground, got %v", gb.Kind)
	}
	if ecs.HasComponent[butsuri.BodyTemplate](w, ground) {
		t.Error("body template survived assembly")
	}

	// a second entity hangs its shape on the ground's body via Context
	sensor, err := ecs.With(ecs.NewBlueprint(w), butsuri.ShapeTemplate{
		Context:  ground,
		Geometry: butsuri.GeometrySegment,
		A:        v.Vec{X: -1},
		B:        v.Vec{X: 1},
		Radius:   0.1,
	}).Spawn()
	if err != nil {
		t.Fatalf("sensor spawn failed: %v", err)
	}
	if ecs.HasComponent[butsuri.ShapeTemplate](w, sensor) {
		t.Error("shape template survived assembly")
	}

	sc := ecs.GetComponent[butsuri.Shapes](w, sensor)
	if sc == nil || len(sc.Items) != 1 {
		t.Fatalf("expected 1 bound shape, got %+v", sc)
	}
	s := sc.Items[0]
	if s.Body != gb.Ref {
		t.Error("shape not attached to the ground's body")
	}
	ref, ok := en.Refs().ShapeRef(s)
	if !ok || ref.Owner != sensor {
		t.Errorf("expected back-reference to the sensor entity, got %+v", ref)
	}
	// a shape on a static body lives in the static index
	if space.StaticShapeCount() != 1 || space.DynamicShapeCount() != 0 {
		t.Errorf("expected 1 static shape, got %d static / %d dynamic",
			space.StaticShapeCount(), space.DynamicShapeCount())
	}

	// tearing down the sensor leaves the ground body alone
	w.RemoveEntity(sensor)
	if space.ShapeCount() != 0 {
		t.Errorf("sensor shapes survived removal, %d left", space.ShapeCount())
	}
	if !space.ContainsBody(gb.Ref) {
		t.Error("ground body destroyed by sensor teardown")
	}
}

// go test -run ^TestAssembleSelfContained$ . -count 1
func TestAssembleSelfContained(t *testing.T) {
	w, _, en := newTestEngine()

	// body and shape templates on one entity: the body constructs first and
	// the shape finds it on the entity itself
	e, err := ecs.With(ecs.With(ecs.With(ecs.NewBlueprint(w),
		butsuri.Transform{Pos: v.Vec{X: 0, Y: 10}}),
		butsuri.BodyTemplate{Mass: 2, Radius: 0.5}),
		butsuri.ShapeTemplate{Geometry: butsuri.GeometryCircle, Radius: 0.5, Friction: 0.4}).Spawn()
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	b := ecs.GetComponent[butsuri.Body](w, e)
	c := ecs.GetComponent[butsuri.Shapes](w, e)
	if b == nil || c == nil || len(c.Items) != 1 {
		t.Fatal("assembly incomplete")
	}
	if c.Items[0].Body != b.Ref {
		t.Error("shape attached to the wrong body")
	}
	if got := b.Ref.Position(); got != (v.Vec{X: 0, Y: 10}) {
		t.Errorf("body not placed at the transform, got %v", got)
	}
	owner, ok := en.Refs().BodyOwner(b.Ref)
	if !ok || owner != e {
		t.Errorf("expected body owner %v, got %v", e, owner)
	}
}

// go test -run ^TestAssembleAtomicFailure$ . -count 1
func TestAssembleAtomicFailure(t *testing.T) {
	w, space, _ := newTestEngine()

	// the body builds, then the malformed shape template fails; the whole
	// entity must come back out of the world and the space
	e, err := ecs.With(ecs.With(ecs.NewBlueprint(w),
		butsuri.BodyTemplate{Mass: 1, Radius: 1}),
		butsuri.ShapeTemplate{
			Geometry: butsuri.GeometryPolygon,
			Offset:   v.Vec{X: 1},
			Verts:    []v.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
		}).Spawn()
	if !errors.Is(err, butsuri.ErrBadGeometry) {
		t.Fatalf("expected ErrBadGeometry, got %v", err)
	}
	if e != ecs.NoEntity {
		t.Errorf("expected NoEntity on failure, got %v", e)
	}
	if space.DynamicBodyCount() != 0 || space.ShapeCount() != 0 {
		t.Errorf("failed assembly leaked simulation state: %d bodies, %d shapes",
			space.DynamicBodyCount(), space.ShapeCount())
	}
}

// go test -run ^TestAssembleShapeWithoutBody$ . -count 1
func TestAssembleShapeWithoutBody(t *testing.T) {
	w, _, _ := newTestEngine()

	_, err := ecs.With(ecs.NewBlueprint(w), butsuri.ShapeTemplate{
		Geometry: butsuri.GeometryCircle,
		Radius:   1,
	}).Spawn()
	if !errors.Is(err, butsuri.ErrNoBody) {
		t.Errorf("expected ErrNoBody for a shape with no body anywhere, got %v", err)
	}
}

// go test -run ^TestStepSyncsTransforms$ . -count 1
func TestStepSyncsTransforms(t *testing.T) {
	w, space, en := newTestEngine()
	space.SetGravity(v.Vec{Y: -10})

	e, err := ecs.With(ecs.With(ecs.With(ecs.NewBlueprint(w),
		butsuri.Transform{Pos: v.Vec{Y: 100}}),
		butsuri.Velocity{}),
		butsuri.BodyTemplate{Mass: 1, Radius: 0.5}).Spawn()
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		en.Step(1.0 / 60)
	}

	tr := ecs.GetComponent[butsuri.Transform](w, e)
	vc := ecs.GetComponent[butsuri.Velocity](w, e)
	b := ecs.GetComponent[butsuri.Body](w, e)
	if tr.Pos.Y >= 100 {
		t.Errorf("body did not fall, transform y %v", tr.Pos.Y)
	}
	if vc.Vel.Y >= 0 {
		t.Errorf("velocity not synced, got %v", vc.Vel)
	}
	if math.Abs(tr.Pos.Y-b.Ref.Position().Y) > 1e-9 {
		t.Errorf("transform drifted from body: %v vs %v", tr.Pos.Y, b.Ref.Position().Y)
	}
}

// go test -run ^TestFromWorld$ . -count 1
func TestFromWorld(t *testing.T) {
	w, _, en := newTestEngine()

	got, ok := butsuri.FromWorld(w)
	if !ok || got != en {
		t.Error("FromWorld did not return the registered engine")
	}
	if _, ok := butsuri.FromWorld(ecs.NewWorld(8)); ok {
		t.Error("FromWorld reported an engine on a bare world")
	}
}

// go test -run ^TestEntityRemovalOrdering$ . -count 1
func TestEntityRemovalOrdering(t *testing.T) {
	w, space, _ := newTestEngine()

	e, err := ecs.With(ecs.With(ecs.NewBlueprint(w),
		butsuri.BodyTemplate{Mass: 1, Radius: 1}),
		butsuri.ShapeTemplate{Geometry: butsuri.GeometryCircle, Radius: 1}).Spawn()
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	if space.ShapeCount() != 1 || space.DynamicBodyCount() != 1 {
		t.Fatalf("unexpected space population: %d shapes, %d bodies",
			space.ShapeCount(), space.DynamicBodyCount())
	}

	// shapes detach before the body they hang on, so removal never strands a
	// live shape on a dead body
	w.RemoveEntity(e)
	if space.ShapeCount() != 0 || space.DynamicBodyCount() != 0 {
		t.Errorf("teardown incomplete: %d shapes, %d bodies remain",
			space.ShapeCount(), space.DynamicBodyCount())
	}
}
