package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

// Teleport moves a controller to pos with zero velocity. Any active ability
// is cancelled; the next ground sample decides grounded or airborne.
func Teleport(w *ecs.World, e ecs.Entity, pos common.Vec3) bool {
	c, ok := newMoveContext(w, e, nil)
	if !ok {
		body, ok := ecs.Get(w, e, component.BodyComponent.Kind())
		if !ok {
			return false
		}
		body.Position = pos
		body.Velocity = common.Zero
		return true
	}

	if c.grab != nil && c.grab.Holding {
		c.release()
	}
	c.loc.Grounded = false
	c.switchMode(component.ModeAirborne)
	c.body.Position = pos
	c.body.Velocity = common.Zero
	c.loc.WasGrounded = false
	c.loc.JumpBuffer = 0
	c.loc.ResetAirState(pos.Y)
	c.loc.CoyoteSpent = true
	logger.Info("teleport", zap.Stringer("entity", e), zap.Float64("x", pos.X), zap.Float64("y", pos.Y), zap.Float64("z", pos.Z))
	return true
}
