package system

import (
	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
)

// Hit describes a shape returned by a physics query.
type Hit struct {
	Entity   ecs.Entity
	Point    common.Vec3
	Normal   common.Vec3
	Distance float64
	Layer    component.LayerMask
	Tag      string
	// Top is the highest point of the hit body's bounds.
	Top     float64
	Dynamic bool
	Mass    float64
}

// PhysicsQuery is everything the locomotion systems ask of the physics world.
// Queries never report the ignored entity.
type PhysicsQuery interface {
	Raycast(origin, dir common.Vec3, dist float64, mask component.LayerMask, ignore ecs.Entity) (Hit, bool)
	SphereCast(origin common.Vec3, radius float64, dir common.Vec3, dist float64, mask component.LayerMask, ignore ecs.Entity) (Hit, bool)
	// OverlapSphere returns the dynamic bodies within radius of center.
	OverlapSphere(center common.Vec3, radius float64, mask component.LayerMask) []Hit
	ApplyImpulse(e ecs.Entity, impulse, at common.Vec3)
}

type noPhysics struct{}

func (noPhysics) Raycast(common.Vec3, common.Vec3, float64, component.LayerMask, ecs.Entity) (Hit, bool) {
	return Hit{}, false
}

func (noPhysics) SphereCast(common.Vec3, float64, common.Vec3, float64, component.LayerMask, ecs.Entity) (Hit, bool) {
	return Hit{}, false
}

func (noPhysics) OverlapSphere(common.Vec3, float64, component.LayerMask) []Hit { return nil }

func (noPhysics) ApplyImpulse(ecs.Entity, common.Vec3, common.Vec3) {}

func queryOrNone(q PhysicsQuery) PhysicsQuery {
	if q == nil {
		return noPhysics{}
	}
	return q
}

// ExplosionImpulse is the impulse a body at target receives from an explosion
// of the given force. It falls off linearly to zero at radius.
func ExplosionImpulse(force float64, center common.Vec3, radius float64, target common.Vec3) common.Vec3 {
	if radius <= 0 {
		return common.Zero
	}
	delta := target.Sub(center)
	dist := delta.Len()
	if dist > radius {
		return common.Zero
	}
	dir := delta.Normalized()
	if dir.IsZero() {
		dir = common.Up
	}
	return dir.Scale(force * (1 - dist/radius))
}
