package resolver

import (
	"testing"

	"rigidbox/internal/body"
	"rigidbox/internal/collider"
	"rigidbox/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func box(h uint64, pos rl.Vector3, state collider.State) *collider.Collider {
	rb := body.NewRigidBody()
	rb.SetPosition(pos)
	return collider.NewBox(engine.Handle(h), rb, rl.Vector3{X: 1, Y: 1, Z: 1}, state)
}

func assertVec(t *testing.T, want, got rl.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps)
	assert.InDelta(t, want.Y, got.Y, eps)
	assert.InDelta(t, want.Z, got.Z, eps)
}

// sliding returns a dynamic box moving over a static floor. The normal
// points from the box down into the floor.
func sliding(vel rl.Vector3) collider.Contact {
	a := box(1, rl.Vector3{Y: 1}, collider.Dynamic)
	b := box(2, rl.Vector3{}, collider.Static)
	a.Body().SetVelocity(vel)
	return collider.Contact{
		A:           a,
		B:           b,
		Normal:      rl.Vector3{Y: -1},
		Point:       rl.Vector3{Y: 0.5},
		Penetration: 0.01,
		Restitution: 0.5,
		Friction:    0.5,
		Elasticity:  1,
	}
}

func TestCorrectPositionOneStaticSide(t *testing.T) {
	floor := box(1, rl.Vector3{}, collider.Static)
	crate := box(2, rl.Vector3{Y: 0.95}, collider.Dynamic)

	c, ok := collider.CheckCollision(floor, crate)
	require.True(t, ok)
	require.InDelta(t, 0.05, c.Penetration, eps)

	CorrectPosition(&c)

	assertVec(t, rl.Vector3{Y: 0.95 + 0.032}, crate.Body().Position())
	assert.Equal(t, rl.Vector3{}, floor.Body().Position())
}

func TestCorrectPositionImmovableCountsAsStatic(t *testing.T) {
	a := box(1, rl.Vector3{}, collider.Dynamic)
	a.Body().SetInverseMass(0)
	b := box(2, rl.Vector3{X: 0.95}, collider.Dynamic)

	c, ok := collider.CheckCollision(a, b)
	require.True(t, ok)
	CorrectPosition(&c)

	assert.Equal(t, rl.Vector3{}, a.Body().Position())
	assertVec(t, rl.Vector3{X: 0.982}, b.Body().Position())
}

func TestCorrectPositionSplitsByInverseMass(t *testing.T) {
	a := box(1, rl.Vector3{}, collider.Dynamic)
	b := box(2, rl.Vector3{X: 0.9}, collider.Dynamic)
	b.Body().SetMass(3)

	c, ok := collider.CheckCollision(a, b)
	require.True(t, ok)
	CorrectPosition(&c)

	total := float32((0.1 - PenetrationSlop) * CorrectionPercent)
	assertVec(t, rl.Vector3{X: -total * 0.75}, a.Body().Position())
	assertVec(t, rl.Vector3{X: 0.9 + total*0.25}, b.Body().Position())
}

func TestCorrectPositionWithinSlop(t *testing.T) {
	c := sliding(rl.Vector3{})
	c.Penetration = PenetrationSlop
	CorrectPosition(&c)
	assert.Equal(t, rl.Vector3{Y: 1}, c.A.Body().Position())
}

func TestNormalImpulseHeadOn(t *testing.T) {
	a := box(1, rl.Vector3{}, collider.Dynamic)
	b := box(2, rl.Vector3{X: 0.8}, collider.Dynamic)
	a.Body().SetVelocity(rl.Vector3{X: 1})
	b.Body().SetVelocity(rl.Vector3{X: -1})

	c, ok := collider.CheckCollision(a, b)
	require.True(t, ok)
	ApplyNormalImpulse(&c)

	// e = 0.5 * 1, equal masses
	assert.InDelta(t, 1.5, c.NormalImpulse, eps)
	assertVec(t, rl.Vector3{X: -0.5}, a.Body().Velocity())
	assertVec(t, rl.Vector3{X: 0.5}, b.Body().Velocity())
}

func TestNormalImpulseRestitutionTimesElasticity(t *testing.T) {
	c := sliding(rl.Vector3{Y: -2})
	c.Restitution = 1
	c.Elasticity = 0.5
	ApplyNormalImpulse(&c)

	assertVec(t, rl.Vector3{Y: 1}, c.A.Body().Velocity())
	assert.Equal(t, rl.Vector3{}, c.B.Body().Velocity())
}

func TestNormalImpulseSkipsSeparatingWithoutPenetration(t *testing.T) {
	c := sliding(rl.Vector3{Y: 2})
	c.Penetration = 0
	ApplyNormalImpulse(&c)

	assertVec(t, rl.Vector3{Y: 2}, c.A.Body().Velocity())
	assert.Zero(t, c.NormalImpulse)
}

func TestNormalImpulseBothStaticHasNoDenominator(t *testing.T) {
	c := sliding(rl.Vector3{Y: -2})
	c.A.SetState(collider.Static)
	ApplyNormalImpulse(&c)

	assertVec(t, rl.Vector3{Y: -2}, c.A.Body().Velocity())
	assert.Zero(t, c.NormalImpulse)
}

func TestFrictionClampedByCoulombBound(t *testing.T) {
	c := sliding(rl.Vector3{X: 5, Y: -1})

	ApplyNormalImpulse(&c)
	require.InDelta(t, 1.5, c.NormalImpulse, eps)
	ApplyFriction(&c)

	// |jt| = friction * j = 0.75
	assertVec(t, rl.Vector3{X: 4.25, Y: 0.5}, c.A.Body().Velocity())
}

func TestFrictionStopsSlowSliding(t *testing.T) {
	c := sliding(rl.Vector3{X: 0.2, Y: -1})

	ApplyNormalImpulse(&c)
	ApplyFriction(&c)

	assertVec(t, rl.Vector3{X: 0, Y: 0.5}, c.A.Body().Velocity())
}

func TestFrictionNeverExceedsBound(t *testing.T) {
	for _, vel := range []rl.Vector3{
		{X: 10, Y: -0.1},
		{X: -3, Y: -4, Z: 7},
		{Z: 0.01, Y: -20},
		{X: 100},
	} {
		c := sliding(vel)
		ApplyNormalImpulse(&c)
		before := c.A.Body().Velocity()
		ApplyFriction(&c)
		after := c.A.Body().Velocity()

		// unit mass, no inertia: velocity change equals the impulse
		change := rl.Vector3Length(rl.Vector3Subtract(after, before))
		assert.LessOrEqual(t, change, c.Friction*absf(c.NormalImpulse)+eps, "velocity %v", vel)
	}
}

func TestFrictionSkipsWithoutTangentialMotion(t *testing.T) {
	c := sliding(rl.Vector3{Y: -1})
	c.NormalImpulse = 10
	ApplyFriction(&c)
	assert.Equal(t, rl.Vector3{Y: -1}, c.A.Body().Velocity())
}

func TestDampAngular(t *testing.T) {
	c := sliding(rl.Vector3{})
	c.A.Body().Material.AngularDamping = 0.5
	c.A.Body().SetAngularVelocity(rl.Vector3{Z: 2})
	c.B.Body().SetAngularVelocity(rl.Vector3{Z: 2})

	DampAngular(&c, 1)
	assertVec(t, rl.Vector3{Z: 1}, c.A.Body().AngularVelocity())
	assert.Equal(t, rl.Vector3{Z: 2}, c.B.Body().AngularVelocity(), "static side is untouched")

	c.A.Body().SetAngularVelocity(rl.Vector3{X: 0.05, Y: 0.05})
	DampAngular(&c, 1)
	assert.Equal(t, rl.Vector3{}, c.A.Body().AngularVelocity())
}

func TestAngularResponseFromOffCentreContact(t *testing.T) {
	a := box(1, rl.Vector3{}, collider.Dynamic)
	a.Body().ComputeInverseInertiaTensorBox(rl.Vector3{X: 1, Y: 1, Z: 1})
	floor := box(2, rl.Vector3{Y: -1}, collider.Static)
	a.Body().SetVelocity(rl.Vector3{Y: -1})

	c := collider.Contact{
		A:           a,
		B:           floor,
		Normal:      rl.Vector3{Y: -1},
		Point:       rl.Vector3{X: 0.5, Y: -0.5},
		Penetration: 0.01,
		Restitution: 0,
		Elasticity:  1,
	}
	ApplyNormalImpulse(&c)

	assert.Greater(t, c.NormalImpulse, float32(0))
	assert.NotZero(t, a.Body().AngularVelocity().Z, "an off-centre hit should spin the box")
}

func TestResolveContactsSkipsStaticPairsAndTriggers(t *testing.T) {
	a := box(1, rl.Vector3{}, collider.Static)
	b := box(2, rl.Vector3{X: 0.5}, collider.Dynamic)
	b.Body().SetInverseMass(0)
	b.Body().SetVelocity(rl.Vector3{X: -1})

	trig := box(3, rl.Vector3{}, collider.Trigger)
	solid := box(4, rl.Vector3{X: 0.5}, collider.Dynamic)
	solid.Body().SetVelocity(rl.Vector3{X: -1})

	contacts := []collider.Contact{
		{A: a, B: b, Normal: rl.Vector3{X: 1}, Penetration: 0.5, Restitution: 1, Elasticity: 1},
		{A: trig, B: solid, Normal: rl.Vector3{X: 1}, Penetration: 0.5, Restitution: 1, Elasticity: 1},
		{A: nil, B: solid},
	}
	ResolveContacts(contacts, 1.0/60)

	assert.Equal(t, rl.Vector3{X: 0.5}, b.Body().Position())
	assert.Equal(t, rl.Vector3{X: -1}, b.Body().Velocity())
	assert.Equal(t, rl.Vector3{X: 0.5}, solid.Body().Position())
	assert.Equal(t, rl.Vector3{X: -1}, solid.Body().Velocity())
}

func TestResolverStageToggles(t *testing.T) {
	a := box(1, rl.Vector3{}, collider.Static)
	b := box(2, rl.Vector3{Y: 0.9}, collider.Dynamic)
	b.Body().SetVelocity(rl.Vector3{Y: -1})

	c, ok := collider.CheckCollision(a, b)
	require.True(t, ok)
	contacts := []collider.Contact{c}

	r := New()
	r.Stages.Position = false
	r.ResolveContacts(contacts, 1.0/60)

	assert.Equal(t, rl.Vector3{Y: 0.9}, b.Body().Position(), "position stage disabled")
	assert.Greater(t, b.Body().Velocity().Y, float32(0))
	assert.Greater(t, contacts[0].NormalImpulse, float32(0), "impulse is written back")
}

func TestAllStages(t *testing.T) {
	assert.Equal(t, Stages{Position: true, Normal: true, Friction: true, Angular: true}, AllStages())
	assert.Equal(t, AllStages(), New().Stages)
}
