// Package collider implements oriented-box colliders: the collider state
// machine, the trigger enter/exit protocol and the SAT narrow phase.
package collider

import (
	"fmt"
	"slices"
	"strings"

	"rigidbox/internal/body"
	"rigidbox/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// State is the collision role of a collider.
type State int

const (
	Dynamic State = iota
	Static
	Trigger
)

var stateNames = [...]string{
	Dynamic: "dynamic",
	Static:  "static",
	Trigger: "trigger",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseState maps "dynamic", "static" or "trigger" to a State.
func ParseState(name string) (State, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range stateNames {
		if n == name {
			return State(i), true
		}
	}
	return Dynamic, false
}

// ShapeKind tags the concrete shape of a collider. The set is closed.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	}
	return fmt.Sprintf("ShapeKind(%d)", int(k))
}

// TriggerFunc is called with the trigger's handle and the target's handle.
type TriggerFunc func(trigger, target engine.Handle)

type triggerLink struct {
	hasEntered bool
	hasExited  bool
	onEnter    TriggerFunc
	onExit     TriggerFunc
}

// Registry resolves handles to live colliders.
type Registry interface {
	Collider(h engine.Handle) (*Collider, bool)
}

// Collider attaches a shape to a body it does not own.
type Collider struct {
	handle engine.Handle
	body   *body.RigidBody
	kind   ShapeKind
	state  State

	// full extents of the box
	scale     rl.Vector3
	transform rl.Matrix

	triggers map[engine.Handle]*triggerLink
}

// NewBox returns a box collider of full extents scale attached to b.
func NewBox(h engine.Handle, b *body.RigidBody, scale rl.Vector3, state State) *Collider {
	c := &Collider{
		handle:   h,
		body:     b,
		kind:     ShapeBox,
		state:    state,
		scale:    scale,
		triggers: make(map[engine.Handle]*triggerLink),
	}
	c.updateTransform()
	return c
}

func (c *Collider) Handle() engine.Handle {
	return c.handle
}

func (c *Collider) Body() *body.RigidBody {
	return c.body
}

func (c *Collider) Kind() ShapeKind {
	return c.kind
}

func (c *Collider) State() State {
	return c.state
}

func (c *Collider) SetState(s State) {
	c.state = s
}

// Scale returns the full extents of the box.
func (c *Collider) Scale() rl.Vector3 {
	return c.scale
}

func (c *Collider) SetScale(scale rl.Vector3) {
	c.scale = scale
	c.updateTransform()
}

func (c *Collider) HalfExtents() rl.Vector3 {
	return rl.Vector3Scale(c.scale, 0.5)
}

// Transform returns the world transform cached by the last Update.
func (c *Collider) Transform() rl.Matrix {
	return c.transform
}

// IsStatic reports whether the collider takes no physical response,
// either by state or because its body has infinite mass.
func (c *Collider) IsStatic() bool {
	return c.state == Static || c.body.InverseMass() <= 0
}

func (c *Collider) updateTransform() {
	p := c.body.Position()
	scale := rl.MatrixScale(c.scale.X, c.scale.Y, c.scale.Z)
	rot := rl.QuaternionToMatrix(c.body.Orientation())
	trans := rl.MatrixTranslate(p.X, p.Y, p.Z)
	c.transform = rl.MatrixMultiply(rl.MatrixMultiply(scale, rot), trans)
}

// SetTriggerTarget associates target with this trigger. Calling it again for
// the same handle keeps the existing association.
func (c *Collider) SetTriggerTarget(target engine.Handle, onEnter, onExit TriggerFunc) {
	if !target.IsValid() {
		return
	}
	if _, ok := c.triggers[target]; ok {
		return
	}
	c.triggers[target] = &triggerLink{onEnter: onEnter, onExit: onExit}
}

// TriggerTargets returns the associated target handles in ascending order.
func (c *Collider) TriggerTargets() []engine.Handle {
	out := make([]engine.Handle, 0, len(c.triggers))
	for h := range c.triggers {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// DropTarget forgets a target that has not entered. Entered targets stay
// so the next Update can fire their onExit.
func (c *Collider) DropTarget(target engine.Handle) {
	if link, ok := c.triggers[target]; ok && !link.hasEntered {
		delete(c.triggers, target)
	}
}

// Inside reports whether target is currently inside this trigger.
func (c *Collider) Inside(target engine.Handle) bool {
	link, ok := c.triggers[target]
	return ok && link.hasEntered && !link.hasExited
}

// RegisterCollision records a detected overlap with other. Only trigger
// colliders react; a solid collider forwards to a trigger partner.
func (c *Collider) RegisterCollision(other *Collider) {
	if other == nil {
		return
	}
	switch {
	case c.state == Trigger && other.state == Trigger:
		return
	case other.state == Trigger:
		other.RegisterCollision(c)
	case c.state == Trigger:
		link, ok := c.triggers[other.handle]
		if !ok || link.hasEntered {
			return
		}
		link.hasEntered = true
		link.hasExited = false
		if link.onEnter != nil {
			link.onEnter(c.handle, other.handle)
		}
	}
}

// Update refreshes the cached transform and runs the exit sweep: every
// entered target that no longer overlaps (or no longer exists) fires onExit
// once and is dropped from the table.
func (c *Collider) Update(_ float32, reg Registry) {
	c.updateTransform()

	for _, h := range c.TriggerTargets() {
		link := c.triggers[h]
		if !link.hasEntered {
			continue
		}
		var colliding bool
		if reg != nil {
			if target, ok := reg.Collider(h); ok {
				_, colliding = CheckCollision(c, target)
			}
		}
		if colliding {
			continue
		}
		link.hasExited = true
		if link.onExit != nil {
			link.onExit(c.handle, h)
		}
		delete(c.triggers, h)
	}
}

// CheckCollision runs the narrow phase for a pair. The returned contact's
// normal points from a to b.
func CheckCollision(a, b *Collider) (Contact, bool) {
	if a == nil || b == nil || a.body == nil || b.body == nil {
		return Contact{}, false
	}
	if a.state == Static && b.state == Static {
		return Contact{}, false
	}
	switch [2]ShapeKind{a.kind, b.kind} {
	case [2]ShapeKind{ShapeBox, ShapeBox}:
		return boxBox(a, b)
	}
	return Contact{}, false
}
