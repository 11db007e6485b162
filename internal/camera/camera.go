package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Orbit circles a target point. Yaw and Pitch are in degrees.
type Orbit struct {
	Target   rl.Vector3
	Distance float32
	Yaw      float32
	Pitch    float32

	LookSpeed   float32
	ZoomSpeed   float32
	MinDistance float32
	MaxDistance float32
}

func New(target rl.Vector3, distance float32) *Orbit {
	return &Orbit{
		Target:      target,
		Distance:    distance,
		Yaw:         -135.0,
		Pitch:       30.0,
		LookSpeed:   0.3,
		ZoomSpeed:   1.5,
		MinDistance: 2,
		MaxDistance: 200,
	}
}

// Update applies mouse input: right drag orbits, the wheel zooms.
func (c *Orbit) Update() {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		c.Rotate(d.X*c.LookSpeed, -d.Y*c.LookSpeed)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.Zoom(-wheel * c.ZoomSpeed)
	}
}

// Rotate turns the camera around the target. Pitch stays within ±89.
func (c *Orbit) Rotate(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch += dPitch
	if c.Pitch > 89 {
		c.Pitch = 89
	}
	if c.Pitch < -89 {
		c.Pitch = -89
	}
}

func (c *Orbit) Zoom(delta float32) {
	c.Distance += delta
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// Position is the eye point implied by yaw, pitch and distance.
func (c *Orbit) Position() rl.Vector3 {
	yawRad := float64(c.Yaw) * math.Pi / 180
	pitchRad := float64(c.Pitch) * math.Pi / 180
	return rl.Vector3{
		X: c.Target.X + c.Distance*float32(math.Cos(yawRad)*math.Cos(pitchRad)),
		Y: c.Target.Y + c.Distance*float32(math.Sin(pitchRad)),
		Z: c.Target.Z + c.Distance*float32(math.Sin(yawRad)*math.Cos(pitchRad)),
	}
}

func (c *Orbit) GetRaylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Position(),
		Target:     c.Target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}
