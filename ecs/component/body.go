package component

import "github.com/milk9111/moveset/common"

// LayerMask selects collision layers for physics queries.
type LayerMask uint32

const (
	LayerGround LayerMask = 1 << iota
	LayerProp
	LayerPlayer
	LayerTrigger

	LayerAll LayerMask = 0xffffffff
)

// Has reports whether m selects any layer in other.
func (m LayerMask) Has(other LayerMask) bool {
	return m&other != 0
}

// Body is the authoritative kinematic state of a simulated entity. Position
// is the bottom of the capsule (the feet).
type Body struct {
	Position common.Vec3
	Velocity common.Vec3
	Radius   float64
	Height   float64
	Mass     float64

	GravityEnabled  bool
	ColliderEnabled bool

	Layer LayerMask
	Tag   string
}

// Center returns the middle of the capsule.
func (b *Body) Center() common.Vec3 {
	return b.Position.Add(common.V3(0, b.Height/2, 0))
}

// Top returns the head position.
func (b *Body) Top() common.Vec3 {
	return b.Position.Add(common.V3(0, b.Height, 0))
}

var BodyComponent = NewComponent[Body]()
