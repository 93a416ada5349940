// A terminal sandbox for the physics binding: balls rain onto a static
// ground segment, entities are assembled from blueprints and torn down when
// they fall out of the world.
//
// Keys: space drops a ball, c clears all balls, q or esc quits.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/setanarut/cm"
	"github.com/setanarut/v"
	"go.uber.org/zap"

	"github.com/edwinsyarief/butsuri"
	"github.com/edwinsyarief/butsuri/ecs"
)

const (
	worldWidth   = 80.0
	worldHeight  = 40.0
	spawnEveryMs = 400
	maxBalls     = 150
)

type Sandbox struct {
	screen tcell.Screen
	world  *ecs.World
	engine *butsuri.Engine
	space  *cm.Space
	ball   *ecs.Blueprint
	balls  *ecs.Filter2[butsuri.Transform, butsuri.Velocity]

	lastSpawn time.Time
	count     int
}

func NewSandbox(log *zap.Logger) (*Sandbox, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	world := ecs.NewWorld(256)
	space := cm.NewSpace()
	space.SetGravity(v.Vec{Y: -60})
	engine := butsuri.Register(world, space, butsuri.WithLogger(log))

	s := &Sandbox{
		screen: screen,
		world:  world,
		engine: engine,
		space:  space,
		balls:  ecs.NewFilter2[butsuri.Transform, butsuri.Velocity](world),
	}

	if err := s.buildGround(); err != nil {
		screen.Fini()
		return nil, err
	}

	s.ball = ecs.With(ecs.With(ecs.With(ecs.With(ecs.NewBlueprint(world),
		butsuri.Transform{}),
		butsuri.Velocity{}),
		butsuri.BodyTemplate{Mass: 1, Radius: 0.8}),
		butsuri.ShapeTemplate{
			Geometry:   butsuri.GeometryCircle,
			Radius:     0.8,
			Elasticity: 0.8,
			Friction:   0.4,
		})
	return s, nil
}

// buildGround assembles a static body entity and hangs the floor and wall
// segments on it from a second entity, exercising the context-entity path.
func (s *Sandbox) buildGround() error {
	ground, err := ecs.With(ecs.With(ecs.NewBlueprint(s.world),
		butsuri.Transform{}),
		butsuri.BodyTemplate{Mass: 1, Kind: butsuri.Static}).Spawn()
	if err != nil {
		return err
	}

	segments := [][2]v.Vec{
		{{X: 2, Y: 2}, {X: worldWidth - 2, Y: 2}},
		{{X: 2, Y: 2}, {X: 2, Y: worldHeight}},
		{{X: worldWidth - 2, Y: 2}, {X: worldWidth - 2, Y: worldHeight}},
	}
	for _, seg := range segments {
		_, err := ecs.With(ecs.NewBlueprint(s.world), butsuri.ShapeTemplate{
			Context:    ground,
			Geometry:   butsuri.GeometrySegment,
			A:          seg[0],
			B:          seg[1],
			Radius:     0.5,
			Elasticity: 0.6,
			Friction:   0.9,
		}).Spawn()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Sandbox) dropBall() {
	if s.count >= maxBalls {
		return
	}
	x := 6 + rand.Float64()*(worldWidth-12)
	e, err := s.ball.Spawn()
	if err != nil {
		return
	}
	if tr := ecs.GetComponent[butsuri.Transform](s.world, e); tr != nil {
		tr.Pos = v.Vec{X: x, Y: worldHeight - 2}
	}
	if b := ecs.GetComponent[butsuri.Body](s.world, e); b != nil && b.Ref != nil {
		b.Ref.SetPosition(v.Vec{X: x, Y: worldHeight - 2})
		b.Ref.SetVelocityVector(v.Vec{X: rand.Float64()*20 - 10})
	}
	s.count++
}

func (s *Sandbox) clearBalls() {
	s.balls.Reset()
	var doomed []ecs.Entity
	for s.balls.Next() {
		doomed = append(doomed, s.balls.Entity())
	}
	s.world.RemoveEntities(doomed)
	s.count = 0
}

// cull removes balls that escaped below the floor so the world does not leak
// entities over a long run.
func (s *Sandbox) cull() {
	s.balls.Reset()
	var doomed []ecs.Entity
	for s.balls.Next() {
		tr, _ := s.balls.Get()
		if tr.Pos.Y < -5 {
			doomed = append(doomed, s.balls.Entity())
		}
	}
	if len(doomed) > 0 {
		s.world.RemoveEntities(doomed)
		s.count -= len(doomed)
	}
}

func (s *Sandbox) draw() {
	s.screen.Clear()
	sw, sh := s.screen.Size()
	sx := float64(sw) / worldWidth
	sy := float64(sh) / worldHeight

	// walls and floor
	wallStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	fx0, fx1 := int(2*sx), int((worldWidth-2)*sx)
	fy := sh - 1 - int(2*sy)
	for x := fx0; x <= fx1 && x < sw; x++ {
		s.screen.SetContent(x, fy, '=', nil, wallStyle)
	}
	for y := 0; y < fy; y++ {
		s.screen.SetContent(fx0, y, '|', nil, wallStyle)
		s.screen.SetContent(fx1, y, '|', nil, wallStyle)
	}

	ballStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	s.balls.Reset()
	for s.balls.Next() {
		tr, _ := s.balls.Get()
		x := int(tr.Pos.X * sx)
		y := sh - 1 - int(tr.Pos.Y*sy)
		if x >= 0 && x < sw && y >= 0 && y < sh {
			s.screen.SetContent(x, y, 'o', nil, ballStyle)
		}
	}

	status := fmt.Sprintf(" balls: %d  shapes: %d  [space] drop  [c] clear  [q] quit ",
		s.count, s.space.ShapeCount())
	statusStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	for i, r := range status {
		if i < sw {
			s.screen.SetContent(i, 0, r, nil, statusStyle)
		}
	}
	s.screen.Show()
}

func (s *Sandbox) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				s.dropBall()
			case 'c':
				s.clearBalls()
			}
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

func (s *Sandbox) run() {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- s.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !s.handleInput(ev) {
				return
			}
		case <-ticker.C:
			if time.Since(s.lastSpawn).Milliseconds() > spawnEveryMs && s.count < maxBalls {
				s.dropBall()
				s.lastSpawn = time.Now()
			}
			s.engine.Step(1.0 / 60)
			s.cull()
			s.draw()
		}
	}
}

func main() {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"sandbox.log"}
	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	s, err := NewSandbox(log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer s.screen.Fini()
	s.run()
}
