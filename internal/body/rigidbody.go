// Package body holds per-body rigid-body state: force accumulation, numerical
// integration, inertia tensors and impulse response.
//
// A RigidBody is not safe for concurrent use. The owning world mutates it from
// a single goroutine and publishes immutable snapshots for other readers.
package body

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Default material values for newly constructed bodies.
const (
	DefaultInverseMass    = 1.0
	DefaultLinearDamping  = 0.99
	DefaultAngularDamping = 0.95
	DefaultRestitution    = 0.5
	DefaultFriction       = 0.5
	DefaultElasticity     = 1.0
)

// Material groups the per-body response coefficients.
type Material struct {
	LinearDamping  float32 // fraction of linear velocity kept per second
	AngularDamping float32 // fraction of angular velocity kept per second
	Restitution    float32 // 0 = no bounce, 1 = perfect bounce
	Friction       float32 // Coulomb coefficient
	Elasticity     float32 // multiplies restitution during impulse response
}

// DefaultMaterial returns the material assigned by NewRigidBody.
func DefaultMaterial() Material {
	return Material{
		LinearDamping:  DefaultLinearDamping,
		AngularDamping: DefaultAngularDamping,
		Restitution:    DefaultRestitution,
		Friction:       DefaultFriction,
		Elasticity:     DefaultElasticity,
	}
}

type RigidBody struct {
	position     rl.Vector3
	velocity     rl.Vector3
	acceleration rl.Vector3 // base acceleration, e.g. gravity
	force        rl.Vector3

	orientation     rl.Quaternion
	angularVelocity rl.Vector3
	torque          rl.Vector3

	// Verlet shadow state
	previousPosition rl.Vector3
	needsReset       bool

	inverseMass float32

	inverseInertiaLocal mgl32.Mat3
	inverseInertiaWorld mgl32.Mat3

	Material Material
	Resting  bool
	Platform bool
}

// NewRigidBody returns a body at the origin with identity orientation,
// unit mass and the default material. Its inertia tensor is zero until one
// of the ComputeInverseInertiaTensor* builders is called.
func NewRigidBody() *RigidBody {
	return &RigidBody{
		orientation: rl.QuaternionIdentity(),
		inverseMass: DefaultInverseMass,
		Material:    DefaultMaterial(),
		needsReset:  true,
	}
}

func (r *RigidBody) Position() rl.Vector3 {
	return r.position
}

// SetPosition teleports the body. The Verlet history is rebuilt on the next step.
func (r *RigidBody) SetPosition(p rl.Vector3) {
	r.position = p
	r.needsReset = true
}

// Translate moves the body without touching the Verlet history, so the
// shift carries no implied velocity. Used by positional correction.
func (r *RigidBody) Translate(delta rl.Vector3) {
	r.position = rl.Vector3Add(r.position, delta)
	r.previousPosition = rl.Vector3Add(r.previousPosition, delta)
}

func (r *RigidBody) Velocity() rl.Vector3 {
	return r.velocity
}

// SetVelocity overrides the linear velocity. The Verlet history is rebuilt on the next step.
func (r *RigidBody) SetVelocity(v rl.Vector3) {
	r.velocity = v
	r.needsReset = true
}

func (r *RigidBody) Acceleration() rl.Vector3 {
	return r.acceleration
}

func (r *RigidBody) SetAcceleration(a rl.Vector3) {
	r.acceleration = a
}

func (r *RigidBody) Orientation() rl.Quaternion {
	return r.orientation
}

// SetOrientation stores q normalized. A zero quaternion resets to identity.
func (r *RigidBody) SetOrientation(q rl.Quaternion) {
	r.orientation = normalizeQuat(q)
}

func (r *RigidBody) AngularVelocity() rl.Vector3 {
	return r.angularVelocity
}

func (r *RigidBody) SetAngularVelocity(w rl.Vector3) {
	r.angularVelocity = w
}

func (r *RigidBody) InverseMass() float32 {
	return r.inverseMass
}

// SetInverseMass sets the inverse mass. Negative values clamp to 0 (immovable).
func (r *RigidBody) SetInverseMass(inv float32) {
	if inv < 0 {
		inv = 0
	}
	r.inverseMass = inv
}

// Mass returns 1/inverseMass, or 0 for an immovable body.
func (r *RigidBody) Mass() float32 {
	if r.inverseMass <= 0 {
		return 0
	}
	return 1 / r.inverseMass
}

// SetMass sets inverse mass from mass. Non-positive mass makes the body immovable.
func (r *RigidBody) SetMass(m float32) {
	if m <= 0 {
		r.inverseMass = 0
		return
	}
	r.inverseMass = 1 / m
}

// IsImmovable reports whether the body has infinite mass.
func (r *RigidBody) IsImmovable() bool {
	return r.inverseMass <= 0
}

// Force returns the force accumulated since the last Integrate.
func (r *RigidBody) Force() rl.Vector3 {
	return r.force
}

// Torque returns the torque accumulated since the last Integrate.
func (r *RigidBody) Torque() rl.Vector3 {
	return r.torque
}

func (r *RigidBody) AddForce(f rl.Vector3) {
	r.force = rl.Vector3Add(r.force, f)
}

func (r *RigidBody) AddTorque(t rl.Vector3) {
	r.torque = rl.Vector3Add(r.torque, t)
}

func (r *RigidBody) clearAccumulators() {
	r.force = rl.Vector3{}
	r.torque = rl.Vector3{}
}

// ApplyLinearImpulse changes velocity by impulse*inverseMass.
// Immovable bodies ignore it.
func (r *RigidBody) ApplyLinearImpulse(impulse rl.Vector3) {
	if r.inverseMass <= 0 {
		return
	}
	r.velocity = rl.Vector3Add(r.velocity, rl.Vector3Scale(impulse, r.inverseMass))
	r.needsReset = true
}

// ApplyAngularImpulse applies the torque leverArm x impulse through the world
// inverse inertia tensor. Immovable bodies are immovable rotationally too.
func (r *RigidBody) ApplyAngularImpulse(impulse, leverArm rl.Vector3) {
	if r.inverseMass <= 0 {
		return
	}
	torque := rl.Vector3CrossProduct(leverArm, impulse)
	r.angularVelocity = rl.Vector3Add(r.angularVelocity, MulMat3(r.inverseInertiaWorld, torque))
}

// PointVelocity returns the velocity of a world-space point rigidly attached
// to the body: v + w x (point - position).
func (r *RigidBody) PointVelocity(point rl.Vector3) rl.Vector3 {
	arm := rl.Vector3Subtract(point, r.position)
	return rl.Vector3Add(r.velocity, rl.Vector3CrossProduct(r.angularVelocity, arm))
}
