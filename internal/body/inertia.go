package body

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// InverseInertiaLocal returns the body-space inverse inertia tensor.
func (r *RigidBody) InverseInertiaLocal() mgl32.Mat3 {
	return r.inverseInertiaLocal
}

// SetInverseInertiaLocal replaces the body-space inverse inertia tensor and
// refreshes the world-space tensor for the current orientation.
func (r *RigidBody) SetInverseInertiaLocal(m mgl32.Mat3) {
	r.inverseInertiaLocal = m
	r.updateWorldInertia()
}

// InverseInertiaWorld returns R * I^-1 * R^T as of the last refresh.
func (r *RigidBody) InverseInertiaWorld() mgl32.Mat3 {
	return r.inverseInertiaWorld
}

func (r *RigidBody) updateWorldInertia() {
	rot := quatToMgl(r.orientation).Mat4().Mat3()
	r.inverseInertiaWorld = rot.Mul3(r.inverseInertiaLocal).Mul3(rot.Transpose())
}

// ComputeInverseInertiaTensorBox sets the inverse inertia of a solid box with
// full extents size. A body without positive mass gets a zero tensor.
func (r *RigidBody) ComputeInverseInertiaTensorBox(size rl.Vector3) {
	m := r.Mass()
	if m <= 0 {
		r.SetInverseInertiaLocal(mgl32.Mat3{})
		return
	}
	w2, h2, d2 := size.X*size.X, size.Y*size.Y, size.Z*size.Z
	r.SetInverseInertiaLocal(inverseDiagonal(
		m/12*(h2+d2),
		m/12*(w2+d2),
		m/12*(w2+h2),
	))
}

// ComputeInverseInertiaTensorSphere sets the inverse inertia of a solid sphere.
func (r *RigidBody) ComputeInverseInertiaTensorSphere(radius float32) {
	m := r.Mass()
	if m <= 0 {
		r.SetInverseInertiaLocal(mgl32.Mat3{})
		return
	}
	i := 2.0 / 5.0 * m * radius * radius
	r.SetInverseInertiaLocal(inverseDiagonal(i, i, i))
}

// ComputeInverseInertiaTensorCapsule sets the inverse inertia of a solid
// capsule whose axis is local Y. height is the length of the cylindrical
// section, excluding the hemispherical caps.
func (r *RigidBody) ComputeInverseInertiaTensorCapsule(radius, height float32) {
	m := r.Mass()
	if m <= 0 || radius < 0 || height < 0 {
		r.SetInverseInertiaLocal(mgl32.Mat3{})
		return
	}

	// split the mass between cylinder and caps by volume
	rr := float64(radius)
	hh := float64(height)
	cylVol := math.Pi * rr * rr * hh
	capsVol := 4.0 / 3.0 * math.Pi * rr * rr * rr
	total := cylVol + capsVol
	if total <= 0 {
		r.SetInverseInertiaLocal(mgl32.Mat3{})
		return
	}
	mCyl := float64(m) * cylVol / total
	mHemi := float64(m) * capsVol / total / 2

	r2 := rr * rr
	iy := mCyl*r2/2 + 2*mHemi*(2*r2/5)
	ix := mCyl*(r2/4+hh*hh/12) + 2*mHemi*(2*r2/5+hh*hh/4+3*hh*rr/8)

	r.SetInverseInertiaLocal(inverseDiagonal(float32(ix), float32(iy), float32(ix)))
}

// inverseDiagonal inverts principal moments; non-positive moments get no
// rotational response about that axis.
func inverseDiagonal(ix, iy, iz float32) mgl32.Mat3 {
	inv := func(v float32) float32 {
		if v <= 0 {
			return 0
		}
		return 1 / v
	}
	return mgl32.Diag3(mgl32.Vec3{inv(ix), inv(iy), inv(iz)})
}

func quatToMgl(q rl.Quaternion) mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

// MulMat3 applies a 3x3 tensor to a raylib vector.
func MulMat3(m mgl32.Mat3, v rl.Vector3) rl.Vector3 {
	out := m.Mul3x1(mgl32.Vec3{v.X, v.Y, v.Z})
	return rl.Vector3{X: out[0], Y: out[1], Z: out[2]}
}
