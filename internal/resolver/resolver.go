// Package resolver turns a batch of contacts into positional corrections and
// velocity impulses. Each contact is resolved once, independently, by up to
// four stages run in order:
//
//  1. CorrectPosition pushes the pair apart along the normal.
//  2. ApplyNormalImpulse removes approaching velocity, with restitution.
//  3. ApplyFriction applies a Coulomb-bounded tangential impulse.
//  4. DampAngular settles spinning bodies that are in contact.
//
// A side is static when its collider is in the Static state or its body has
// no finite mass. Static sides never receive corrections or impulses.
package resolver

import (
	"math"

	"rigidbox/internal/body"
	"rigidbox/internal/collider"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	// PenetrationSlop is the depth left uncorrected to avoid jitter.
	PenetrationSlop = 0.01
	// CorrectionPercent is the fraction of the remaining depth removed per contact.
	CorrectionPercent = 0.8
	// SleepThreshold is the squared angular speed below which contact damping zeroes spin.
	SleepThreshold = 0.01

	minTangentLengthSqr = 1e-6
)

// Stages toggles individual resolver stages.
type Stages struct {
	Position bool `yaml:"position"`
	Normal   bool `yaml:"normal"`
	Friction bool `yaml:"friction"`
	Angular  bool `yaml:"angular"`
}

// AllStages enables every stage.
func AllStages() Stages {
	return Stages{Position: true, Normal: true, Friction: true, Angular: true}
}

// Resolver runs the enabled stages over contact batches.
type Resolver struct {
	Stages Stages
}

func New() *Resolver {
	return &Resolver{Stages: AllStages()}
}

// ResolveContacts resolves contacts with every stage enabled.
func ResolveContacts(contacts []collider.Contact, dt float32) {
	New().ResolveContacts(contacts, dt)
}

// ResolveContacts resolves each contact in order. NormalImpulse is written
// back into the slice.
func (r *Resolver) ResolveContacts(contacts []collider.Contact, dt float32) {
	for i := range contacts {
		c := &contacts[i]
		if c.A == nil || c.B == nil {
			continue
		}
		if c.A.IsStatic() && c.B.IsStatic() {
			continue
		}
		if c.IsTrigger() {
			continue
		}
		switch [2]collider.ShapeKind{c.A.Kind(), c.B.Kind()} {
		case [2]collider.ShapeKind{collider.ShapeBox, collider.ShapeBox}:
			r.resolveBoxBox(c, dt)
		}
	}
}

func (r *Resolver) resolveBoxBox(c *collider.Contact, dt float32) {
	if r.Stages.Position {
		CorrectPosition(c)
	}
	if r.Stages.Normal {
		ApplyNormalImpulse(c)
	}
	if r.Stages.Friction {
		ApplyFriction(c)
	}
	if r.Stages.Angular {
		DampAngular(c, dt)
	}
}

// CorrectPosition moves the pair apart by CorrectionPercent of the depth
// beyond PenetrationSlop. A moves against the normal, B along it.
func CorrectPosition(c *collider.Contact) {
	staticA, staticB := c.A.IsStatic(), c.B.IsStatic()
	if staticA && staticB {
		return
	}
	depth := c.Penetration - PenetrationSlop
	if depth <= 0 {
		return
	}
	correction := rl.Vector3Scale(c.Normal, depth*CorrectionPercent)

	a, b := c.A.Body(), c.B.Body()
	switch {
	case staticA:
		b.Translate(correction)
	case staticB:
		a.Translate(rl.Vector3Negate(correction))
	default:
		invA, invB := a.InverseMass(), b.InverseMass()
		total := invA + invB
		if total <= 0 {
			return
		}
		a.Translate(rl.Vector3Scale(correction, -invA/total))
		b.Translate(rl.Vector3Scale(correction, invB/total))
	}
}

// side is one participant of a contact as the impulse stages see it.
type side struct {
	body   *body.RigidBody
	arm    rl.Vector3
	static bool
}

func sides(c *collider.Contact) (side, side) {
	a, b := c.A.Body(), c.B.Body()
	return side{body: a, arm: rl.Vector3Subtract(c.Point, a.Position()), static: c.A.IsStatic()},
		side{body: b, arm: rl.Vector3Subtract(c.Point, b.Position()), static: c.B.IsStatic()}
}

func relativeVelocity(c *collider.Contact) rl.Vector3 {
	return rl.Vector3Subtract(c.B.Body().PointVelocity(c.Point), c.A.Body().PointVelocity(c.Point))
}

// effectiveMass returns the impulse denominator for direction dir.
func effectiveMass(dir rl.Vector3, sa, sb side) float32 {
	var den float32
	for _, s := range [2]side{sa, sb} {
		if s.static {
			continue
		}
		den += s.body.InverseMass()
		rn := rl.Vector3CrossProduct(s.arm, dir)
		den += rl.Vector3DotProduct(body.MulMat3(s.body.InverseInertiaWorld(), rn), rn)
	}
	return den
}

// applyImpulse pushes A by -impulse and B by +impulse at their lever arms.
func applyImpulse(impulse rl.Vector3, sa, sb side) {
	if !sa.static {
		neg := rl.Vector3Negate(impulse)
		sa.body.ApplyLinearImpulse(neg)
		sa.body.ApplyAngularImpulse(neg, sa.arm)
	}
	if !sb.static {
		sb.body.ApplyLinearImpulse(impulse)
		sb.body.ApplyAngularImpulse(impulse, sb.arm)
	}
}

// ApplyNormalImpulse resolves the relative velocity along the contact normal
// with restitution factor Restitution*Elasticity, and stores the impulse
// magnitude in c.NormalImpulse.
func ApplyNormalImpulse(c *collider.Contact) {
	sa, sb := sides(c)
	vn := rl.Vector3DotProduct(relativeVelocity(c), c.Normal)
	if vn > 0 && c.Penetration <= 0 {
		return
	}

	den := effectiveMass(c.Normal, sa, sb)
	if den <= 0 {
		return
	}
	e := c.Restitution * c.Elasticity
	j := -(1 + e) * vn / den
	c.NormalImpulse = j

	applyImpulse(rl.Vector3Scale(c.Normal, j), sa, sb)
}

// ApplyFriction opposes tangential sliding. The impulse magnitude is bounded
// by Friction * |NormalImpulse|.
func ApplyFriction(c *collider.Contact) {
	sa, sb := sides(c)
	rel := relativeVelocity(c)
	tangent := rl.Vector3Subtract(rel, rl.Vector3Scale(c.Normal, rl.Vector3DotProduct(rel, c.Normal)))
	if rl.Vector3LengthSqr(tangent) < minTangentLengthSqr {
		return
	}
	tangent = rl.Vector3Normalize(tangent)

	den := effectiveMass(tangent, sa, sb)
	if den <= 0 {
		return
	}
	jt := -rl.Vector3DotProduct(rel, tangent) / den

	limit := c.Friction * absf(c.NormalImpulse)
	if jt > limit {
		jt = limit
	} else if jt < -limit {
		jt = -limit
	}

	applyImpulse(rl.Vector3Scale(tangent, jt), sa, sb)
}

// DampAngular zeroes slow spin on both non-static sides and decays the rest
// by each body's angular damping.
func DampAngular(c *collider.Contact, dt float32) {
	for _, col := range [2]*collider.Collider{c.A, c.B} {
		if col.IsStatic() {
			continue
		}
		b := col.Body()
		w := b.AngularVelocity()
		if rl.Vector3LengthSqr(w) < SleepThreshold {
			b.SetAngularVelocity(rl.Vector3{})
			continue
		}
		factor := float32(math.Pow(float64(b.Material.AngularDamping), float64(dt)))
		b.SetAngularVelocity(rl.Vector3Scale(w, factor))
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
