package body

import (
	"fmt"
	"math"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Scheme selects the numerical integrator used by Integrate.
type Scheme int

const (
	ExplicitEuler Scheme = iota
	SemiImplicitEuler
	Verlet
)

const (
	// MaxVerletAcceleration caps the acceleration magnitude fed to Verlet (units/s^2).
	MaxVerletAcceleration = 100.0

	// RestThreshold is the squared speed below which velocities snap to zero.
	RestThreshold = 1e-5
)

var schemeNames = map[Scheme]string{
	ExplicitEuler:     "explicit-euler",
	SemiImplicitEuler: "semi-implicit-euler",
	Verlet:            "verlet",
}

func (s Scheme) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

// Schemes lists every integrator in declaration order.
func Schemes() []Scheme {
	return []Scheme{ExplicitEuler, SemiImplicitEuler, Verlet}
}

// ParseScheme maps a scheme name (as printed by String) back to a Scheme.
func ParseScheme(name string) (Scheme, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range schemeNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// Integrate advances the body by dt seconds with the given scheme.
//
// Derived data is refreshed first, from the orientation left over by the
// previous step. Immovable bodies skip the translational part but still run
// the angular step. Force and torque accumulators are always cleared.
func (r *RigidBody) Integrate(dt float32, scheme Scheme) {
	r.orientation = normalizeQuat(r.orientation)
	r.updateWorldInertia()

	if r.inverseMass > 0 {
		switch scheme {
		case SemiImplicitEuler:
			r.integrateSemiImplicitEuler(dt)
		case Verlet:
			r.integrateVerlet(dt)
		default:
			r.integrateExplicitEuler(dt)
		}
		r.dampLinear(dt, scheme)
	}

	r.integrateAngular(dt)
	r.clearAccumulators()
}

// linearAcceleration is base acceleration plus force/mass.
func (r *RigidBody) linearAcceleration() rl.Vector3 {
	return rl.Vector3Add(r.acceleration, rl.Vector3Scale(r.force, r.inverseMass))
}

func (r *RigidBody) integrateExplicitEuler(dt float32) {
	acc := r.linearAcceleration()
	r.position = rl.Vector3Add(r.position, rl.Vector3Scale(r.velocity, dt))
	r.velocity = rl.Vector3Add(r.velocity, rl.Vector3Scale(acc, dt))
}

func (r *RigidBody) integrateSemiImplicitEuler(dt float32) {
	acc := r.linearAcceleration()
	r.velocity = rl.Vector3Add(r.velocity, rl.Vector3Scale(acc, dt))
	r.position = rl.Vector3Add(r.position, rl.Vector3Scale(r.velocity, dt))
}

func (r *RigidBody) integrateVerlet(dt float32) {
	if dt <= 0 {
		return
	}
	if r.needsReset {
		// rebuild history from the current velocity to avoid a one-frame jump
		r.previousPosition = rl.Vector3Subtract(r.position, rl.Vector3Scale(r.velocity, dt))
		r.needsReset = false
	}

	acc := clampLength(r.linearAcceleration(), MaxVerletAcceleration)

	step := rl.Vector3Subtract(r.position, r.previousPosition)
	next := rl.Vector3Add(rl.Vector3Add(r.position, step), rl.Vector3Scale(acc, dt*dt))

	r.previousPosition = r.position
	r.position = next
	r.velocity = rl.Vector3Scale(rl.Vector3Subtract(r.position, r.previousPosition), 1/dt)
}

// dampLinear applies frame-rate independent exponential damping and snaps
// residual jitter to rest.
func (r *RigidBody) dampLinear(dt float32, scheme Scheme) {
	r.velocity = rl.Vector3Scale(r.velocity, powf(r.Material.LinearDamping, dt))
	if rl.Vector3LengthSqr(r.velocity) < RestThreshold {
		r.velocity = rl.Vector3{}
	}
	if scheme == Verlet && dt > 0 {
		// keep the implicit Verlet velocity in sync with the damped one
		r.previousPosition = rl.Vector3Subtract(r.position, rl.Vector3Scale(r.velocity, dt))
	}
}

func (r *RigidBody) integrateAngular(dt float32) {
	angAcc := MulMat3(r.inverseInertiaWorld, r.torque)
	r.angularVelocity = rl.Vector3Add(r.angularVelocity, rl.Vector3Scale(angAcc, dt))
	r.angularVelocity = rl.Vector3Scale(r.angularVelocity, powf(r.Material.AngularDamping, dt))

	// q += 0.5 * dt * (w, 0) * q
	w := rl.NewQuaternion(r.angularVelocity.X, r.angularVelocity.Y, r.angularVelocity.Z, 0)
	spin := rl.QuaternionMultiply(w, r.orientation)
	half := 0.5 * dt
	r.orientation = normalizeQuat(rl.NewQuaternion(
		r.orientation.X+spin.X*half,
		r.orientation.Y+spin.Y*half,
		r.orientation.Z+spin.Z*half,
		r.orientation.W+spin.W*half,
	))

	if rl.Vector3LengthSqr(r.angularVelocity) < RestThreshold {
		r.angularVelocity = rl.Vector3{}
	}
}

// normalizeQuat returns q scaled to unit length, or identity for a zero quaternion.
func normalizeQuat(q rl.Quaternion) rl.Quaternion {
	l := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if l == 0 {
		return rl.QuaternionIdentity()
	}
	inv := 1 / l
	return rl.NewQuaternion(q.X*inv, q.Y*inv, q.Z*inv, q.W*inv)
}

func clampLength(v rl.Vector3, max float32) rl.Vector3 {
	l := rl.Vector3Length(v)
	if l <= max || l == 0 {
		return v
	}
	return rl.Vector3Scale(v, max/l)
}

func powf(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}
