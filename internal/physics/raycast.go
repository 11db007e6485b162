package physics

import (
	"rigidbox/internal/collider"
	"rigidbox/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type RaycastHit struct {
	Handle   engine.Handle
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// Raycast returns the closest solid box hit by the ray within maxDistance.
// Triggers are ignored.
func (w *World) Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	if rl.Vector3LengthSqr(direction) == 0 || maxDistance <= 0 {
		return RaycastHit{}, false
	}
	direction = rl.Vector3Normalize(direction)

	w.mu.Lock()
	defer w.mu.Unlock()

	var closestHit RaycastHit
	closestHit.Distance = maxDistance
	hit := false

	for _, h := range w.order {
		c := w.entries[h].collider
		if c.State() == collider.Trigger {
			continue
		}
		if hitInfo, ok := raycastBox(origin, direction, c, maxDistance); ok {
			if hitInfo.Distance < closestHit.Distance {
				closestHit = hitInfo
				closestHit.Handle = h
				hit = true
			}
		}
	}

	return closestHit, hit
}

// raycastBox runs the slab test in the box's local frame, where it is an
// axis-aligned box centred on the origin.
func raycastBox(origin, direction rl.Vector3, c *collider.Collider, maxDistance float32) (RaycastHit, bool) {
	rb := c.Body()
	q := rb.Orientation()
	inv := rl.QuaternionInvert(q)

	o := rl.Vector3RotateByQuaternion(rl.Vector3Subtract(origin, rb.Position()), inv)
	d := rl.Vector3RotateByQuaternion(direction, inv)
	h := c.HalfExtents()

	lo := [3]float32{-abs(h.X), -abs(h.Y), -abs(h.Z)}
	hi := [3]float32{abs(h.X), abs(h.Y), abs(h.Z)}
	ov := [3]float32{o.X, o.Y, o.Z}
	dv := [3]float32{d.X, d.Y, d.Z}

	tmin := float32(-1e30)
	tmax := float32(1e30)
	enterAxis := -1
	for i := 0; i < 3; i++ {
		if dv[i] == 0 {
			if ov[i] < lo[i] || ov[i] > hi[i] {
				return RaycastHit{}, false
			}
			continue
		}
		t1 := (lo[i] - ov[i]) / dv[i]
		t2 := (hi[i] - ov[i]) / dv[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
			enterAxis = i
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return RaycastHit{}, false
		}
	}

	if tmax < 0 || tmin > maxDistance {
		return RaycastHit{}, false
	}

	t := tmin
	exitAxis := false
	if t < 0 {
		// origin inside the box
		t = tmax
		exitAxis = true
	}
	if t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))

	local := rl.Vector3Add(o, rl.Vector3Scale(d, t))
	normal := faceNormal(local, h, enterAxis, dv, exitAxis)

	return RaycastHit{
		Point:    point,
		Normal:   rl.Vector3RotateByQuaternion(normal, q),
		Distance: t,
	}, true
}

// faceNormal picks the local face the ray crossed. For entry hits this is
// the last slab entered; for exits from inside it is the face nearest the
// exit point.
func faceNormal(local, half rl.Vector3, enterAxis int, dir [3]float32, exit bool) rl.Vector3 {
	if !exit && enterAxis >= 0 {
		var n [3]float32
		if dir[enterAxis] > 0 {
			n[enterAxis] = -1
		} else {
			n[enterAxis] = 1
		}
		return rl.Vector3{X: n[0], Y: n[1], Z: n[2]}
	}

	dx := abs(half.X) - abs(local.X)
	dy := abs(half.Y) - abs(local.Y)
	dz := abs(half.Z) - abs(local.Z)
	switch {
	case dx <= dy && dx <= dz:
		return rl.Vector3{X: sign(local.X)}
	case dy <= dz:
		return rl.Vector3{Y: sign(local.Y)}
	default:
		return rl.Vector3{Z: sign(local.Z)}
	}
}

func sign(x float32) float32 {
	if x < 0 {
		return -1
	}
	return 1
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
