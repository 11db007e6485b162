package physics

import (
	"rigidbox/internal/collider"
	"rigidbox/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size rl.Vector3) AABB {
	half := rl.Vector3{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2}
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

// BoundsOf returns the world-space AABB enclosing a rotated box.
func BoundsOf(c *collider.Collider) AABB {
	axes := c.WorldAxes()
	h := c.HalfExtents()
	half := [3]float32{h.X, h.Y, h.Z}

	var extent rl.Vector3
	for i, axis := range axes {
		extent.X += abs(axis.X) * half[i]
		extent.Y += abs(axis.Y) * half[i]
		extent.Z += abs(axis.Z) * half[i]
	}
	return NewAABBFromCenter(c.Body().Position(), rl.Vector3Scale(extent, 2))
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

func (a AABB) Contains(p rl.Vector3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

func (a AABB) Size() rl.Vector3 {
	return rl.Vector3Subtract(a.Max, a.Min)
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

// QueryAABB returns, in handle order, every body whose bounds overlap box.
func (w *World) QueryAABB(box AABB) []engine.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []engine.Handle
	for _, h := range w.order {
		if BoundsOf(w.entries[h].collider).Intersects(box) {
			out = append(out, h)
		}
	}
	return out
}
