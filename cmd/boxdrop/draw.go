package main

import (
	"fmt"

	"rigidbox/internal/collider"
	"rigidbox/internal/physics"
	"rigidbox/internal/resolver"
	"rigidbox/internal/scene"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorPanel  = rl.NewColor(24, 26, 34, 255)
	colorAccent = rl.NewColor(232, 156, 52, 255)
	colorText   = rl.NewColor(220, 222, 228, 255)
	colorMuted  = rl.NewColor(130, 134, 146, 255)
)

var panelBounds = rl.Rectangle{X: 10, Y: 10, Width: 260, Height: 330}

const schemeLabels = "Explicit;Semi-impl.;Verlet"

func initStyle() {
	base := rl.ColorBrightness(colorPanel, 0.1)
	hover := rl.ColorBrightness(colorPanel, 0.2)

	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorPanel))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(base))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(hover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorText))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorText))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorPanel))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

func (a *app) Draw() {
	snap := a.world.Snapshot()

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

	rl.BeginMode3D(a.camera.GetRaylibCamera())
	rl.DrawGrid(40, 1)
	for _, b := range snap.Bodies {
		a.drawBody(b)
	}
	rl.EndMode3D()

	a.drawPanel(snap)
	a.drawStatus(snap)
	rl.EndDrawing()
}

func (a *app) bodyColor(b physics.BodyState) rl.Color {
	if c, ok := a.spawned.Colors[b.Handle]; ok {
		return c
	}
	return scene.DefaultColor(b.State)
}

// drawBody draws one box in its own frame, so rotation is handled by the
// matrix stack rather than by transforming vertices here.
func (a *app) drawBody(b physics.BodyState) {
	color := a.bodyColor(b)

	var axis rl.Vector3
	var angle float32
	rl.QuaternionToAxisAngle(b.Orientation, &axis, &angle)

	rl.PushMatrix()
	rl.Translatef(b.Position.X, b.Position.Y, b.Position.Z)
	rl.Rotatef(angle*rl.Rad2deg, axis.X, axis.Y, axis.Z)
	if b.State == collider.Trigger {
		rl.DrawCubeWires(rl.Vector3{}, b.Scale.X, b.Scale.Y, b.Scale.Z, color)
	} else {
		if b.Resting {
			color = rl.ColorBrightness(color, -0.3)
		}
		rl.DrawCube(rl.Vector3{}, b.Scale.X, b.Scale.Y, b.Scale.Z, color)
		rl.DrawCubeWires(rl.Vector3{}, b.Scale.X, b.Scale.Y, b.Scale.Z, rl.Fade(rl.Black, 0.6))
	}
	if b.Handle == a.selected {
		pad := float32(0.05)
		rl.DrawCubeWires(rl.Vector3{}, b.Scale.X+pad, b.Scale.Y+pad, b.Scale.Z+pad, rl.Fade(colorAccent, 0.8))
	}
	rl.PopMatrix()

	if a.debug {
		rl.DrawBoundingBox(rl.NewBoundingBox(b.Bounds.Min, b.Bounds.Max), rl.Yellow)
		rl.DrawLine3D(b.Position, rl.Vector3Add(b.Position, rl.Vector3Scale(b.Velocity, 0.25)), rl.Green)
	}
}

func (a *app) drawPanel(snap *physics.Snapshot) {
	x, y := panelBounds.X+10, panelBounds.Y+30
	w := panelBounds.Width - 20

	gui.Panel(panelBounds, "Simulation")

	gui.Label(rl.Rectangle{X: x, Y: y, Width: w, Height: 20}, "Integrator")
	y += 22
	a.applyScheme(gui.ToggleGroup(rl.Rectangle{X: x, Y: y, Width: w/3 - 2, Height: 24}, schemeLabels, a.scheme))
	y += 34

	gui.Label(rl.Rectangle{X: x, Y: y, Width: w, Height: 20}, "Resolver stages")
	y += 24
	st := a.stages
	box := func(label string, v bool) bool {
		r := rl.Rectangle{X: x, Y: y, Width: 18, Height: 18}
		y += 24
		return gui.CheckBox(r, label, v)
	}
	st.Position = box("Position correction", st.Position)
	st.Normal = box("Normal impulse", st.Normal)
	st.Friction = box("Friction", st.Friction)
	st.Angular = box("Angular damping", st.Angular)
	a.applyStages(st)
	y += 8

	half := w/2 - 4
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 26}, "Drop box") {
		a.Drop()
	}
	if gui.Button(rl.Rectangle{X: x + half + 8, Y: y, Width: half, Height: 26}, "Reset") {
		a.reset()
	}
	y += 32
	pause := "Pause"
	if a.sim.Paused() {
		pause = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 26}, pause) {
		a.sim.TogglePause()
	}
	if gui.Button(rl.Rectangle{X: x + half + 8, Y: y, Width: half, Height: 26}, "Save") {
		a.Save()
	}
	y += 36

	gui.Label(rl.Rectangle{X: x, Y: y, Width: w, Height: 20},
		fmt.Sprintf("tick %d  bodies %d  contacts %d", snap.Tick, len(snap.Bodies), snap.Contacts))
}

func (a *app) drawStatus(snap *physics.Snapshot) {
	h := float32(rl.GetScreenHeight())
	text := a.status.Load()
	if text == "" {
		text = "right drag: orbit   wheel: zoom   click: poke   space: drop   P: pause   N: step   F1: debug"
	}
	gui.StatusBar(rl.Rectangle{X: 0, Y: h - 24, Width: float32(rl.GetScreenWidth()), Height: 24}, text)

	if !a.debug {
		return
	}
	rl.DrawFPS(int32(rl.GetScreenWidth())-90, 10)
	rl.DrawText(fmt.Sprintf("collisions %d", a.collisions.Load()), int32(panelBounds.X), int32(panelBounds.Y+panelBounds.Height+10), 16, colorMuted)
	if b, ok := snap.Find(a.selected); ok {
		rl.DrawText(fmt.Sprintf("%s  v=(%.2f, %.2f, %.2f)  %s", b.Name, b.Velocity.X, b.Velocity.Y, b.Velocity.Z, scene.ColorString(a.bodyColor(b))),
			int32(panelBounds.X), int32(panelBounds.Y+panelBounds.Height+30), 16, colorMuted)
	}
}

func stagesLabel(s resolver.Stages) string {
	on := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	return fmt.Sprintf("position %s, normal %s, friction %s, angular %s", on(s.Position), on(s.Normal), on(s.Friction), on(s.Angular))
}
