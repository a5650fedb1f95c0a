package system

import (
	"math"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
)

// Camera maps world metres (Y up) to screen pixels (Y down). X and Y are the
// world point drawn at the centre of the screen.
type Camera struct {
	X, Y   float64
	Zoom   float64
	Width  float64
	Height float64
}

// ToScreen converts a world position to screen pixels.
func (c *Camera) ToScreen(x, y float64) (float64, float64) {
	return (x-c.X)*c.Zoom + c.Width/2, c.Height/2 - (y-c.Y)*c.Zoom
}

// ToWorld is the inverse of ToScreen.
func (c *Camera) ToWorld(sx, sy float64) (float64, float64) {
	if c.Zoom == 0 {
		return c.X, c.Y
	}
	return (sx-c.Width/2)/c.Zoom + c.X, (c.Height/2-sy)/c.Zoom + c.Y
}

// CameraSystem keeps the camera on the player's body centre. Stiffness is
// how quickly it closes the gap, per second; zero snaps.
type CameraSystem struct {
	Camera    *Camera
	Stiffness float64

	target ecs.Entity
}

func NewCameraSystem(cam *Camera, stiffness float64) *CameraSystem {
	return &CameraSystem{Camera: cam, Stiffness: stiffness}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if cs.Camera == nil {
		return
	}

	if !ecs.IsAlive(w, cs.target) {
		e, ok := w.First(component.PlayerTagComponent.Kind(), component.BodyComponent.Kind())
		if !ok {
			return
		}
		cs.target = e
	}

	body, ok := ecs.Get(w, cs.target, component.BodyComponent.Kind())
	if !ok {
		return
	}
	cs.Follow(body.Center(), w.Delta())
}

// Follow moves the camera toward focus over dt seconds.
func (cs *CameraSystem) Follow(focus common.Vec3, dt float64) {
	t := 1.0
	if cs.Stiffness > 0 {
		t = 1 - math.Exp(-cs.Stiffness*dt)
	}
	cs.Camera.X = common.Lerp(cs.Camera.X, focus.X, t)
	cs.Camera.Y = common.Lerp(cs.Camera.Y, focus.Y, t)
}

// Snap centres the camera on the target immediately, e.g. after a teleport.
func (cs *CameraSystem) Snap(w *ecs.World) {
	stiffness := cs.Stiffness
	cs.Stiffness = 0
	cs.Update(w)
	cs.Stiffness = stiffness
}
