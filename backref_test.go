package butsuri_test

import (
	"math"
	"testing"

	"github.com/setanarut/cm"
	"github.com/setanarut/v"

	"github.com/edwinsyarief/butsuri"
	"github.com/edwinsyarief/butsuri/ecs"
)

// go test -run ^TestTagBody$ . -count 1
func TestTagBody(t *testing.T) {
	refs := butsuri.NewRefTable()
	b := cm.NewBody(1, 1)
	e1 := ecs.Entity{ID: 1, Version: 1}
	e2 := ecs.Entity{ID: 2, Version: 1}

	if _, ok := refs.BodyOwner(b); ok {
		t.Error("owner reported for an untagged body")
	}

	refs.TagBody(b, e1)
	owner, ok := refs.BodyOwner(b)
	if !ok || owner != e1 {
		t.Errorf("expected owner %v, got %v ok=%v", e1, owner, ok)
	}

	// re-tag overwrites, no duplicate record
	refs.TagBody(b, e2)
	owner, ok = refs.BodyOwner(b)
	if !ok || owner != e2 {
		t.Errorf("expected owner %v after re-tag, got %v", e2, owner)
	}

	refs.ReleaseBody(b)
	if _, ok := refs.BodyOwner(b); ok {
		t.Error("owner still reported after release")
	}
}

// go test -run ^TestReleaseBodyTwicePanics$ . -count 1
func TestReleaseBodyTwicePanics(t *testing.T) {
	refs := butsuri.NewRefTable()
	b := cm.NewBody(1, 1)
	refs.TagBody(b, ecs.Entity{ID: 1, Version: 1})
	refs.ReleaseBody(b)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on double release")
		}
	}()
	refs.ReleaseBody(b)
}

// go test -run ^TestTagShape$ . -count 1
func TestTagShape(t *testing.T) {
	refs := butsuri.NewRefTable()
	b := cm.NewBody(1, 1)
	s := cm.NewCircleShape(b, 1, v.Vec{})
	e := ecs.Entity{ID: 3, Version: 1}

	refs.TagShape(s, e, butsuri.GeometryCircle, v.Vec{X: 3, Y: 4})

	ref, ok := refs.ShapeRef(s)
	if !ok {
		t.Fatal("no record after TagShape")
	}
	if ref.Owner != e || ref.Kind != butsuri.GeometryCircle {
		t.Errorf("bad record: %+v", ref)
	}
	if ref.Dist != 5 {
		t.Errorf("expected polar distance 5, got %v", ref.Dist)
	}
	if want := math.Atan2(4, 3); ref.Angle != want {
		t.Errorf("expected polar angle %v, got %v", want, ref.Angle)
	}
}

// go test -run ^TestTagShapeInPlace$ . -count 1
func TestTagShapeInPlace(t *testing.T) {
	refs := butsuri.NewRefTable()
	b := cm.NewBody(1, 1)
	s := cm.NewCircleShape(b, 1, v.Vec{})

	refs.TagShape(s, ecs.Entity{ID: 1, Version: 1}, butsuri.GeometryCircle, v.Vec{X: 1})
	first, _ := refs.ShapeRef(s)

	refs.TagShape(s, ecs.Entity{ID: 2, Version: 1}, butsuri.GeometryBox, v.Vec{})
	second, _ := refs.ShapeRef(s)

	if first != second {
		t.Error("re-tag allocated a new record instead of overwriting")
	}
	if second.Owner.ID != 2 || second.Kind != butsuri.GeometryBox || second.Dist != 0 {
		t.Errorf("re-tag left stale fields: %+v", second)
	}
}

// go test -run ^TestReleaseShapeTwicePanics$ . -count 1
func TestReleaseShapeTwicePanics(t *testing.T) {
	refs := butsuri.NewRefTable()
	b := cm.NewBody(1, 1)
	s := cm.NewCircleShape(b, 1, v.Vec{})
	refs.TagShape(s, ecs.Entity{ID: 1, Version: 1}, butsuri.GeometryCircle, v.Vec{})
	refs.ReleaseShape(s)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on double release")
		}
	}()
	refs.ReleaseShape(s)
}

// go test -run ^TestWorldOffsetFollowsBody$ . -count 1
func TestWorldOffsetFollowsBody(t *testing.T) {
	ref := butsuri.ShapeRef{}
	// fill via the table so the polar form is consistent
	refs := butsuri.NewRefTable()
	b := cm.NewBody(1, 1)
	s := cm.NewCircleShape(b, 1, v.Vec{})
	refs.TagShape(s, ecs.Entity{ID: 1, Version: 1}, butsuri.GeometryCircle, v.Vec{X: 2, Y: 0})
	r, _ := refs.ShapeRef(s)
	ref = *r

	pos := v.Vec{X: 10, Y: -5}
	got := ref.WorldOffset(pos, math.Pi/2)
	// a (2,0) offset under a quarter turn lands at (0,2) relative to the body
	if math.Abs(got.X-10) > 1e-9 || math.Abs(got.Y-(-3)) > 1e-9 {
		t.Errorf("expected (10,-3), got %+v", got)
	}

	// unrotated body: offset applies directly
	got = ref.WorldOffset(pos, 0)
	if math.Abs(got.X-12) > 1e-9 || math.Abs(got.Y-(-5)) > 1e-9 {
		t.Errorf("expected (12,-5), got %+v", got)
	}
}
