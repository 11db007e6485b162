package scene

import (
	"fmt"
	"os"
	"slices"

	"rigidbox/internal/body"
	"rigidbox/internal/collider"
	"rigidbox/internal/engine"
	"rigidbox/internal/logging"
	"rigidbox/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// TriggerEvent reports a target entering or leaving a trigger, by name.
type TriggerEvent struct {
	Trigger string
	Target  string
	Entered bool
}

// Spawned records what Spawn put into a world.
type Spawned struct {
	Settings Settings
	Handles  map[string]engine.Handle
	Names    map[engine.Handle]string
	Colors   map[engine.Handle]rl.Color

	// OnTrigger fires after the Step that detected the transition.
	OnTrigger engine.EventWithArg[TriggerEvent]

	// declared trigger targets by name; the live tables forget a target
	// once it has left
	targets map[engine.Handle][]string
	logger  logging.Logger
}

// Spawn applies the settings to w and adds every object. Trigger events go
// to logger, or to the global logger when it is nil.
func (s *Scene) Spawn(w *physics.World, logger logging.Logger) (*Spawned, error) {
	if logger == nil {
		logger = logging.Global().Named("scene")
	}
	sp := &Spawned{
		Settings: s.Settings,
		Handles:  make(map[string]engine.Handle, len(s.Objects)),
		Names:    make(map[engine.Handle]string, len(s.Objects)),
		Colors:   make(map[engine.Handle]rl.Color, len(s.Objects)),
		targets:  make(map[engine.Handle][]string),
		logger:   logger,
	}

	w.SetScheme(s.Settings.SchemeOrDefault())
	w.SetStages(s.Settings.StagesOrDefault())
	gravity := s.Settings.GravityOrDefault()

	for _, o := range s.Objects {
		state, _ := o.state()
		h := w.AddBox(o.BoxDef(gravity))
		sp.Handles[o.Name] = h
		sp.Names[h] = o.Name
		sp.Colors[h] = lookupColor(o.Color, state)
	}

	for _, o := range s.Objects {
		if len(o.TriggerTargets) > 0 {
			sp.targets[sp.Handles[o.Name]] = slices.Clone(o.TriggerTargets)
		}
		for _, target := range o.TriggerTargets {
			th, ok := sp.Handles[target]
			if !ok {
				return sp, errors.Errorf("object %q: unknown trigger target %q", o.Name, target)
			}
			w.SetTriggerTarget(sp.Handles[o.Name], th, sp.triggerCallback(true), sp.triggerCallback(false))
		}
	}
	return sp, nil
}

func (sp *Spawned) triggerCallback(entered bool) collider.TriggerFunc {
	return func(trigger, target engine.Handle) {
		ev := TriggerEvent{Trigger: sp.Names[trigger], Target: sp.Names[target], Entered: entered}
		if entered {
			sp.logger.Infow("trigger entered", "trigger", ev.Trigger, "target", ev.Target)
		} else {
			sp.logger.Infow("trigger exited", "trigger", ev.Trigger, "target", ev.Target)
		}
		sp.OnTrigger.Invoke(ev)
	}
}

// BoxDef converts the object to a world definition. Gravity becomes the
// base acceleration of dynamic objects only.
func (o Object) BoxDef(gravity rl.Vector3) physics.BoxDef {
	state, _ := o.state()

	mat := body.DefaultMaterial()
	setIf(&mat.LinearDamping, o.LinearDamping)
	setIf(&mat.AngularDamping, o.AngularDamping)
	setIf(&mat.Restitution, o.Restitution)
	setIf(&mat.Friction, o.Friction)
	setIf(&mat.Elasticity, o.Elasticity)

	mass := float32(1)
	setIf(&mass, o.Mass)

	def := physics.BoxDef{
		Name:            o.Name,
		Position:        o.Position.Vector3(),
		Orientation:     eulerToQuaternion(o.Rotation),
		Scale:           o.Scale.Vector3(),
		State:           state,
		Mass:            mass,
		Velocity:        o.Velocity.Vector3(),
		AngularVelocity: o.AngularVelocity.Vector3(),
		Material:        &mat,
		Resting:         o.Resting,
		Platform:        o.Platform,
	}
	if state == collider.Dynamic {
		def.Acceleration = gravity
	}
	return def
}

func setIf(dst *float32, v *float32) {
	if v != nil {
		*dst = *v
	}
}

func eulerToQuaternion(deg Vec3) rl.Quaternion {
	return rl.QuaternionFromEuler(deg[0]*rl.Deg2rad, deg[1]*rl.Deg2rad, deg[2]*rl.Deg2rad)
}

func quaternionToEuler(q rl.Quaternion) Vec3 {
	e := rl.QuaternionToEuler(q)
	return Vec3{e.X * rl.Rad2deg, e.Y * rl.Rad2deg, e.Z * rl.Rad2deg}
}

// Capture describes the current state of w as a scene. sp supplies
// settings, names and colors; it may be nil.
func Capture(w *physics.World, sp *Spawned) *Scene {
	var s Scene
	if sp != nil {
		s.Settings = sp.Settings
	}
	s.Settings.Scheme = w.Scheme().String()
	stages := w.Stages()
	s.Settings.Stages = &stages

	names := make(map[engine.Handle]string)
	for _, h := range w.Handles() {
		names[h] = objectName(w, sp, h)
	}

	for _, h := range w.Handles() {
		def, ok := w.Def(h)
		if !ok {
			continue
		}
		mass := def.Mass
		mat := def.Material
		o := Object{
			Name:            names[h],
			Position:        FromVector3(def.Position),
			Rotation:        quaternionToEuler(def.Orientation),
			Scale:           FromVector3(def.Scale),
			State:           def.State.String(),
			Mass:            &mass,
			Velocity:        FromVector3(def.Velocity),
			AngularVelocity: FromVector3(def.AngularVelocity),
			LinearDamping:   &mat.LinearDamping,
			AngularDamping:  &mat.AngularDamping,
			Restitution:     &mat.Restitution,
			Friction:        &mat.Friction,
			Elasticity:      &mat.Elasticity,
			Resting:         def.Resting,
			Platform:        def.Platform,
		}
		if sp != nil {
			if c, ok := sp.Colors[h]; ok {
				o.Color, _ = lookupColorName(c)
			}
		}
		if def.State == collider.Trigger {
			o.TriggerTargets = triggerTargets(w, sp, h, names)
		}
		s.Objects = append(s.Objects, o)
	}
	return &s
}

// triggerTargets prefers the targets declared at Spawn, dropping any whose
// object no longer exists, and falls back to the live trigger table.
func triggerTargets(w *physics.World, sp *Spawned, h engine.Handle, names map[engine.Handle]string) []string {
	var out []string
	if sp != nil {
		if declared, ok := sp.targets[h]; ok {
			alive := make(map[string]bool, len(names))
			for _, name := range names {
				alive[name] = true
			}
			for _, name := range declared {
				if alive[name] {
					out = append(out, name)
				}
			}
			return out
		}
	}
	for _, target := range w.TriggerTargets(h) {
		if name, ok := names[target]; ok {
			out = append(out, name)
		}
	}
	return out
}

func objectName(w *physics.World, sp *Spawned, h engine.Handle) string {
	if sp != nil {
		if name, ok := sp.Names[h]; ok && name != "" {
			return name
		}
	}
	if name, ok := w.Name(h); ok && name != "" {
		return name
	}
	return fmt.Sprintf("box-%d", h)
}

// Save writes the current state of w to path.
func Save(path string, w *physics.World, sp *Spawned) error {
	data, err := Capture(w, sp).Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write scene")
	}
	return nil
}
