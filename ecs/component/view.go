package component

import "github.com/milk9111/moveset/common"

// View is the camera pose the camera collaborator publishes each tick.
// Movement, dash and grab directions are resolved relative to it.
type View struct {
	Position common.Vec3
	Forward  common.Vec3
}

// FlatForward is the camera forward projected onto the ground plane.
func (v *View) FlatForward() common.Vec3 {
	if v == nil {
		return common.Forward
	}
	f := v.Forward.Horizontal().Normalized()
	if f.IsZero() {
		return common.Forward
	}
	return f
}

// FlatRight is perpendicular to FlatForward on the ground plane.
func (v *View) FlatRight() common.Vec3 {
	return common.Up.Cross(v.FlatForward())
}

var ViewComponent = NewComponent[View]()
