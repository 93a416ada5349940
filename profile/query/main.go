// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query mem.pprof

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/setanarut/cm"
	"github.com/setanarut/v"

	"github.com/edwinsyarief/butsuri"
	"github.com/edwinsyarief/butsuri/ecs"
)

func main() {
	// CPU Profiling
	f, _ := os.Create("cpu.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	iters := 2000
	entities := 10000
	run(iters, entities)

	// Memory Profiling
	memFile, _ := os.Create("mem.prof")
	defer memFile.Close()
	runtime.GC()
	_ = pprof.WriteHeapProfile(memFile)
}

// run keeps one long-lived population and hammers the step/sync path, which
// is where the transform write-back filters spend their time.
func run(iters, numEntities int) {
	w := ecs.NewWorld(numEntities)
	space := cm.NewSpace()
	space.SetGravity(v.Vec{Y: -100})
	en := butsuri.Register(w, space)

	ball := ecs.With(ecs.With(ecs.With(ecs.With(ecs.NewBlueprint(w),
		butsuri.Transform{Pos: v.Vec{Y: 100}}),
		butsuri.Velocity{}),
		butsuri.BodyTemplate{Mass: 1, Radius: 0.5}),
		butsuri.ShapeTemplate{Geometry: butsuri.GeometryCircle, Radius: 0.5, Elasticity: 0.9})

	for range numEntities {
		if _, err := ball.Spawn(); err != nil {
			panic(err)
		}
	}
	for range iters {
		en.Step(1.0 / 60)
	}
}
