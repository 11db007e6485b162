package collider

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// minAxisLengthSqr discards cross-product axes of near-parallel edges.
const minAxisLengthSqr = 1e-6

// obb is the world-space view of a box collider used by the SAT test.
type obb struct {
	center rl.Vector3
	half   [3]float32
	axes   [3]rl.Vector3
}

func (c *Collider) worldOBB() obb {
	q := c.body.Orientation()
	h := c.HalfExtents()
	return obb{
		center: c.body.Position(),
		half:   [3]float32{h.X, h.Y, h.Z},
		axes: [3]rl.Vector3{
			rl.Vector3Normalize(rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, q)),
			rl.Vector3Normalize(rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, q)),
			rl.Vector3Normalize(rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, q)),
		},
	}
}

// WorldAxes returns the box's local X, Y and Z axes in world space.
func (c *Collider) WorldAxes() [3]rl.Vector3 {
	return c.worldOBB().axes
}

// project returns the radius of the box projected onto axis.
func (o obb) project(axis rl.Vector3) float32 {
	return o.half[0]*absf(rl.Vector3DotProduct(o.axes[0], axis)) +
		o.half[1]*absf(rl.Vector3DotProduct(o.axes[1], axis)) +
		o.half[2]*absf(rl.Vector3DotProduct(o.axes[2], axis))
}

// satAxes lists the 15 candidate separating axes: the face normals of a,
// those of b, then a[i] x b[j] in row-major order. Degenerate cross
// products are dropped, the rest normalised.
func satAxes(a, b obb) []rl.Vector3 {
	axes := make([]rl.Vector3, 0, 15)
	axes = append(axes, a.axes[:]...)
	axes = append(axes, b.axes[:]...)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := rl.Vector3CrossProduct(a.axes[i], b.axes[j])
			if rl.Vector3LengthSqr(axis) < minAxisLengthSqr {
				continue
			}
			axes = append(axes, rl.Vector3Normalize(axis))
		}
	}
	return axes
}

func boxBox(a, b *Collider) (Contact, bool) {
	oa, ob := a.worldOBB(), b.worldOBB()
	t := rl.Vector3Subtract(ob.center, oa.center)

	minOverlap := float32(math.MaxFloat32)
	var normal rl.Vector3

	for _, axis := range satAxes(oa, ob) {
		ra := oa.project(axis)
		rb := ob.project(axis)
		dist := absf(rl.Vector3DotProduct(t, axis))
		if dist > ra+rb {
			return Contact{}, false
		}
		if overlap := ra + rb - dist; overlap < minOverlap {
			minOverlap = overlap
			normal = axis
		}
	}

	if minOverlap <= 0 {
		return Contact{}, false
	}
	if rl.Vector3DotProduct(normal, t) < 0 {
		normal = rl.Vector3Negate(normal)
	}

	restitution, friction, elasticity := CombineMaterials(a, b)
	return Contact{
		A:           a,
		B:           b,
		Normal:      normal,
		Point:       rl.Vector3Lerp(oa.center, ob.center, 0.5),
		Penetration: minOverlap,
		Restitution: restitution,
		Friction:    friction,
		Elasticity:  elasticity,
	}, true
}

// CombineMaterials mixes the coefficients of a pair: restitution and
// elasticity by arithmetic mean, friction by geometric mean.
func CombineMaterials(a, b *Collider) (restitution, friction, elasticity float32) {
	ma, mb := a.body.Material, b.body.Material
	restitution = (ma.Restitution + mb.Restitution) / 2
	friction = float32(math.Sqrt(float64(ma.Friction * mb.Friction)))
	elasticity = (ma.Elasticity + mb.Elasticity) / 2
	return restitution, friction, elasticity
}

// GetClosestPoint returns the point of the box nearest to p. Points inside
// the box are returned unchanged. A box with a non-positive extent has no
// usable frame and yields its centre.
func (c *Collider) GetClosestPoint(p rl.Vector3) rl.Vector3 {
	if c.scale.X <= 0 || c.scale.Y <= 0 || c.scale.Z <= 0 {
		return c.body.Position()
	}
	local := rl.Vector3Transform(p, rl.MatrixInvert(c.transform))
	local.X = clampf(local.X, -0.5, 0.5)
	local.Y = clampf(local.Y, -0.5, 0.5)
	local.Z = clampf(local.Z, -0.5, 0.5)
	return rl.Vector3Transform(local, c.transform)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
