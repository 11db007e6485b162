package main

import (
	"context"
	"fmt"
	"math/rand"

	"rigidbox/internal/body"
	"rigidbox/internal/camera"
	"rigidbox/internal/engine"
	"rigidbox/internal/logging"
	"rigidbox/internal/physics"
	"rigidbox/internal/resolver"
	"rigidbox/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/atomic"
)

const (
	pokeImpulse  = 4.0
	pokeDistance = 500.0
)

type app struct {
	logger   logging.Logger
	scene    *scene.Scene
	savePath string

	world   *physics.World
	sim     *stepper
	spawned *scene.Spawned
	camera  *camera.Orbit
	rng     *rand.Rand

	debug      bool
	scheme     int32
	stages     resolver.Stages
	drops      int
	selected   engine.Handle
	status     *atomic.String
	collisions *atomic.Uint64
}

func newApp(sc *scene.Scene, savePath string, debug bool, logger logging.Logger) *app {
	a := &app{
		logger:     logger,
		scene:      sc,
		savePath:   savePath,
		world:      physics.New(logger.Named("world")),
		camera:     camera.New(rl.Vector3{Y: 1}, 18),
		rng:        rand.New(rand.NewSource(1)),
		debug:      debug,
		status:     atomic.NewString(""),
		collisions: atomic.NewUint64(0),
	}
	a.world.OnCollisionEnter.AddListener(func(physics.Pair) { a.collisions.Inc() })
	return a
}

// Reset stops the simulation, respawns the loaded scene and restarts.
func (a *app) Reset(ctx context.Context) error {
	if a.sim != nil {
		a.sim.Stop()
	}
	a.world.Clear()

	sp, err := a.scene.Spawn(a.world, a.logger.Named("scene"))
	if err != nil {
		return err
	}
	sp.OnTrigger.AddListener(func(ev scene.TriggerEvent) {
		verb := "left"
		if ev.Entered {
			verb = "entered"
		}
		a.status.Store(fmt.Sprintf("%s %s %s", ev.Target, verb, ev.Trigger))
	})
	a.spawned = sp
	a.scheme = int32(a.world.Scheme())
	a.stages = a.world.Stages()
	a.drops = 0
	a.selected = 0
	a.collisions.Store(0)
	a.status.Store("")

	a.sim = newStepper(a.world, sp.Settings.FixedStepOrDefault(), a.logger.Named("sim"))
	a.sim.Start(ctx)
	return nil
}

// Drop adds a crate above the scene at a random spot.
func (a *app) Drop() engine.Handle {
	a.drops++
	size := 0.6 + a.rng.Float32()*0.8
	def := scene.Object{
		Name:     fmt.Sprintf("drop-%d", a.drops),
		Position: scene.Vec3{a.rng.Float32()*6 - 3, 8 + a.rng.Float32()*4, a.rng.Float32()*6 - 3},
		Rotation: scene.Vec3{a.rng.Float32() * 90, a.rng.Float32() * 90, 0},
		Scale:    scene.Vec3{size, size, size},
	}.BoxDef(a.spawned.Settings.GravityOrDefault())
	return a.world.AddBox(def)
}

func (a *app) Save() {
	if err := scene.Save(a.savePath, a.world, a.spawned); err != nil {
		a.logger.Errorw("save failed", "path", a.savePath, "error", err)
		a.status.Store("save failed")
		return
	}
	a.logger.Infow("scene saved", "path", a.savePath, "bodies", a.world.Len())
	a.status.Store("saved " + a.savePath)
}

// Poke casts a ray from the mouse and pushes the first box it hits.
func (a *app) Poke(mouse rl.Vector2) {
	ray := rl.GetScreenToWorldRay(mouse, a.camera.GetRaylibCamera())
	hit, ok := a.world.Raycast(ray.Position, ray.Direction, pokeDistance)
	if !ok {
		a.selected = 0
		return
	}
	a.selected = hit.Handle
	impulse := rl.Vector3Scale(ray.Direction, pokeImpulse)
	a.world.Update(hit.Handle, func(rb *body.RigidBody) {
		rb.Resting = false
		rb.ApplyLinearImpulse(impulse)
		rb.ApplyAngularImpulse(impulse, rl.Vector3Subtract(hit.Point, rb.Position()))
	})
	a.logger.Debugw("poke", "handle", hit.Handle, "distance", hit.Distance)
}

func (a *app) applyScheme(i int32) {
	if i == a.scheme {
		return
	}
	a.scheme = i
	a.world.SetScheme(body.Scheme(i))
}

func (a *app) applyStages(s resolver.Stages) {
	if s == a.stages {
		return
	}
	a.stages = s
	a.world.SetStages(s)
	a.logger.Infow("resolver stages changed", "stages", stagesLabel(s))
	a.status.Store("stages: " + stagesLabel(s))
}

func (a *app) Update() {
	a.camera.Update()

	if rl.IsKeyPressed(rl.KeyF1) {
		a.debug = !a.debug
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.sim.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		a.sim.StepOnce()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Drop()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}

	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !rl.CheckCollisionPointRec(mouse, panelBounds) {
		a.Poke(mouse)
	}
}

func (a *app) reset() {
	if err := a.Reset(context.Background()); err != nil {
		a.logger.Errorw("reset failed", "error", err)
	}
}
