// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/pkg/profile"
	"github.com/setanarut/cm"
	"github.com/setanarut/v"

	"github.com/edwinsyarief/butsuri"
	"github.com/edwinsyarief/butsuri/ecs"
)

func main() {
	rounds := 50
	iters := 200
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, entities)
	p.Stop()
}

// run churns full assemble/teardown cycles: every iteration spawns a wave of
// body+shape entities, steps the simulation once, and removes the wave again
// so the hook and back-reference paths dominate the profile.
func run(rounds, iters, numEntities int) {
	for range rounds {
		w := ecs.NewWorld(numEntities)
		space := cm.NewSpace()
		space.SetGravity(v.Vec{Y: -100})
		en := butsuri.Register(w, space)

		ball := ecs.With(ecs.With(ecs.With(ecs.NewBlueprint(w),
			butsuri.Transform{Pos: v.Vec{Y: 50}}),
			butsuri.BodyTemplate{Mass: 1, Radius: 0.5}),
			butsuri.ShapeTemplate{Geometry: butsuri.GeometryCircle, Radius: 0.5, Friction: 0.5})

		wave := make([]ecs.Entity, 0, numEntities)
		for range iters {
			wave = wave[:0]
			for range numEntities {
				e, err := ball.Spawn()
				if err != nil {
					panic(err)
				}
				wave = append(wave, e)
			}
			en.Step(1.0 / 60)
			w.RemoveEntities(wave)
		}
	}
}
