package body

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertDiag(t *testing.T, m mgl32.Mat3, x, y, z float32) {
	t.Helper()
	assert.InDelta(t, x, m.At(0, 0), eps)
	assert.InDelta(t, y, m.At(1, 1), eps)
	assert.InDelta(t, z, m.At(2, 2), eps)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i != j {
				assert.InDelta(t, 0, m.At(i, j), eps, "off-diagonal (%d,%d)", i, j)
			}
		}
	}
}

func TestBoxInertia(t *testing.T) {
	rb := NewRigidBody()
	rb.SetMass(12)
	rb.ComputeInverseInertiaTensorBox(rl.Vector3{X: 1, Y: 2, Z: 3})

	// I = m/12 * (h^2+d^2, w^2+d^2, w^2+h^2) = (13, 10, 5)
	assertDiag(t, rb.InverseInertiaLocal(), 1.0/13, 1.0/10, 1.0/5)
	assertDiag(t, rb.InverseInertiaWorld(), 1.0/13, 1.0/10, 1.0/5)
}

func TestSphereInertia(t *testing.T) {
	rb := NewRigidBody()
	rb.SetMass(5)
	rb.ComputeInverseInertiaTensorSphere(1)

	assertDiag(t, rb.InverseInertiaLocal(), 0.5, 0.5, 0.5)
}

func TestCapsuleWithoutCylinderMatchesSphere(t *testing.T) {
	capsule := NewRigidBody()
	capsule.SetMass(3)
	capsule.ComputeInverseInertiaTensorCapsule(0.5, 0)

	sphere := NewRigidBody()
	sphere.SetMass(3)
	sphere.ComputeInverseInertiaTensorSphere(0.5)

	s := sphere.InverseInertiaLocal()
	assertDiag(t, capsule.InverseInertiaLocal(), s.At(0, 0), s.At(1, 1), s.At(2, 2))
}

func TestCapsuleIsHarderToTumbleThanSpin(t *testing.T) {
	rb := NewRigidBody()
	rb.ComputeInverseInertiaTensorCapsule(0.5, 2)

	m := rb.InverseInertiaLocal()
	assert.Less(t, m.At(0, 0), m.At(1, 1), "a long capsule resists tumbling more than spinning about its axis")
	assert.Equal(t, m.At(0, 0), m.At(2, 2))
}

func TestInertiaZeroForNonPositiveMass(t *testing.T) {
	builders := map[string]func(*RigidBody){
		"box":     func(rb *RigidBody) { rb.ComputeInverseInertiaTensorBox(rl.Vector3{X: 1, Y: 1, Z: 1}) },
		"sphere":  func(rb *RigidBody) { rb.ComputeInverseInertiaTensorSphere(1) },
		"capsule": func(rb *RigidBody) { rb.ComputeInverseInertiaTensorCapsule(1, 1) },
	}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			rb := NewRigidBody()
			rb.SetInverseMass(0)
			build(rb)
			assert.Equal(t, mgl32.Mat3{}, rb.InverseInertiaLocal())
			assert.Equal(t, mgl32.Mat3{}, rb.InverseInertiaWorld())
		})
	}
}

func TestWorldInertiaFollowsOrientation(t *testing.T) {
	rb := NewRigidBody()
	rb.SetMass(12)
	rb.SetOrientation(rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, math.Pi/2))
	rb.ComputeInverseInertiaTensorBox(rl.Vector3{X: 1, Y: 2, Z: 3})

	// a quarter turn about Z swaps the X and Y principal axes
	assertDiag(t, rb.InverseInertiaWorld(), 1.0/10, 1.0/13, 1.0/5)
	assertDiag(t, rb.InverseInertiaLocal(), 1.0/13, 1.0/10, 1.0/5)
}

func TestMulMat3(t *testing.T) {
	m := mgl32.Mat3FromRows(
		mgl32.Vec3{1, 2, 3},
		mgl32.Vec3{0, 1, 0},
		mgl32.Vec3{0, 0, 2},
	)
	got := MulMat3(m, rl.Vector3{X: 1, Y: 1, Z: 1})
	assert.Equal(t, rl.Vector3{X: 6, Y: 1, Z: 2}, got)
}
