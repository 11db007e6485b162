package collider

import (
	"rigidbox/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Contact describes one overlapping pair for a single tick.
type Contact struct {
	A, B *Collider

	Normal      rl.Vector3 // unit, from A towards B
	Point       rl.Vector3 // midpoint of the two centres
	Penetration float32

	Restitution float32
	Friction    float32
	Elasticity  float32

	// NormalImpulse is written by the resolver and read by the friction stage.
	NormalImpulse float32
}

// Handles returns the handles of A and B.
func (c Contact) Handles() (engine.Handle, engine.Handle) {
	var a, b engine.Handle
	if c.A != nil {
		a = c.A.handle
	}
	if c.B != nil {
		b = c.B.handle
	}
	return a, b
}

// IsTrigger reports whether either side is a trigger.
func (c Contact) IsTrigger() bool {
	return (c.A != nil && c.A.state == Trigger) || (c.B != nil && c.B.state == Trigger)
}
