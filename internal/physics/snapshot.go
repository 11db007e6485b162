package physics

import (
	"rigidbox/internal/collider"
	"rigidbox/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BodyState is a copy of one body as of the end of a tick.
type BodyState struct {
	Handle          engine.Handle
	Name            string
	Position        rl.Vector3
	Orientation     rl.Quaternion
	Velocity        rl.Vector3
	AngularVelocity rl.Vector3
	Scale           rl.Vector3
	State           collider.State
	Resting         bool
	Platform        bool
	Bounds          AABB
}

// Snapshot is the immutable view of one tick. Bodies are in handle order.
type Snapshot struct {
	Tick     uint64
	DT       float32
	Contacts int
	Bodies   []BodyState
}

// Find returns the state of h, if it was alive at this tick.
func (s *Snapshot) Find(h engine.Handle) (BodyState, bool) {
	for _, b := range s.Bodies {
		if b.Handle == h {
			return b, true
		}
	}
	return BodyState{}, false
}

// Snapshot returns the last published tick. It never blocks and never
// returns nil.
func (w *World) Snapshot() *Snapshot {
	return w.snapshot.Load()
}

// Tick returns the number of completed Steps. It moves after the snapshot
// for that Step is published, so Snapshot().Tick is never behind it.
func (w *World) Tick() uint64 {
	return w.tick.Load()
}

// publish stores a fresh snapshot. Called with w.mu held.
func (w *World) publish(tick uint64, dt float32, contacts int) {
	bodies := make([]BodyState, 0, len(w.order))
	for _, h := range w.order {
		e := w.entries[h]
		rb := e.body
		bodies = append(bodies, BodyState{
			Handle:          h,
			Name:            e.name,
			Position:        rb.Position(),
			Orientation:     rb.Orientation(),
			Velocity:        rb.Velocity(),
			AngularVelocity: rb.AngularVelocity(),
			Scale:           e.collider.Scale(),
			State:           e.collider.State(),
			Resting:         rb.Resting,
			Platform:        rb.Platform,
			Bounds:          BoundsOf(e.collider),
		})
	}
	w.snapshot.Store(&Snapshot{
		Tick:     tick,
		DT:       dt,
		Contacts: contacts,
		Bodies:   bodies,
	})
}
