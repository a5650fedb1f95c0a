package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/ecs/system"
)

var modeColors = map[component.Mode]color.Color{
	component.ModeGrounded:       colornames.Cornflowerblue,
	component.ModeAirborne:       colornames.Lightskyblue,
	component.ModeSliding:        colornames.Orange,
	component.ModeGroundPounding: colornames.Crimson,
	component.ModeClimbing:       colornames.Yellowgreen,
	component.ModeDashing:        colornames.White,
	component.ModeFlying:         colornames.Violet,
}

// drawWorld fills every body as an axis-aligned box: level blocks, props and
// the player, tinted by locomotion mode.
func drawWorld(w *ecs.World, cam *system.Camera, screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	for _, e := range w.Query(component.StaticTagComponent.Kind(), component.BodyComponent.Kind()) {
		body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
		c := color.Color(colornames.Slategray)
		if body.Tag == "Climbable" {
			c = colornames.Darkolivegreen
		}
		fillBody(screen, cam, body, c)
	}

	for _, e := range w.Query(component.PropTagComponent.Kind(), component.BodyComponent.Kind()) {
		body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
		fillBody(screen, cam, body, colornames.Burlywood)
	}

	for _, e := range w.Query(component.PlayerTagComponent.Kind(), component.BodyComponent.Kind()) {
		body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
		c := color.Color(colornames.Cornflowerblue)
		facing := 1.0
		if loc, ok := ecs.Get(w, e, component.LocomotionComponent.Kind()); ok {
			if mc, ok := modeColors[loc.Mode]; ok {
				c = mc
			}
			if loc.Fly.Ghost {
				c = colornames.Lavender
			}
		}
		if view, ok := ecs.Get(w, e, component.ViewComponent.Kind()); ok && view.Forward.X < 0 {
			facing = -1
		}
		fillBody(screen, cam, body, c)

		eye := body.Top()
		ex, ey := cam.ToScreen(eye.X, eye.Y-body.Height*0.2)
		tx, ty := cam.ToScreen(eye.X+facing*body.Radius*1.5, eye.Y-body.Height*0.2)
		vector.StrokeLine(screen, float32(ex), float32(ey), float32(tx), float32(ty), 3, colornames.Black, true)
	}
}

func fillBody(screen *ebiten.Image, cam *system.Camera, body *component.Body, c color.Color) {
	left, top := cam.ToScreen(body.Position.X-body.Radius, body.Position.Y+body.Height)
	width := float32(2 * body.Radius * cam.Zoom)
	height := float32(body.Height * cam.Zoom)
	vector.FillRect(screen, float32(left), float32(top), width, height, c, false)
}
