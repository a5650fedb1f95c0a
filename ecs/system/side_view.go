package system

import (
	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
)

// SideViewSystem adapts 2D side-on controls to the controller. Left and
// right turn the camera so forward always points the way the player pushes;
// up and down only matter on a wall. It runs between input and locomotion.
type SideViewSystem struct {
	// EyeHeight is how far above the feet the camera sits.
	EyeHeight float64
}

func NewSideViewSystem(eyeHeight float64) *SideViewSystem {
	return &SideViewSystem{EyeHeight: eyeHeight}
}

func (s *SideViewSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach3(w, component.InputComponent.Kind(), component.ViewComponent.Kind(), component.BodyComponent.Kind(),
		func(e ecs.Entity, in *component.Input, view *component.View, body *component.Body) {
			facing := view.Forward.X
			switch {
			case in.MoveX > 0.1:
				facing = 1
			case in.MoveX < -0.1:
				facing = -1
			}
			if facing == 0 {
				facing = 1
			}

			climbing := false
			if loc, ok := ecs.Get(w, e, component.LocomotionComponent.Kind()); ok {
				climbing = loc.Mode == component.ModeClimbing
			}

			x := in.MoveX
			if x < 0 {
				x = -x
			}
			if !climbing || in.MoveZ == 0 {
				in.MoveZ = x
			}
			in.MoveX = 0

			view.Forward = common.V3(facing, 0, 0)
			view.Position = body.Position.Add(common.Up.Scale(s.EyeHeight))
		})
}
