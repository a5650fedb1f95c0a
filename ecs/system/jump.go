package system

import (
	"math"

	"go.uber.org/zap"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

// JumpVelocity is the launch speed that peaks at height under gravity.
func JumpVelocity(height, gravity float64) float64 {
	if height <= 0 || gravity <= 0 {
		return 0
	}
	return math.Sqrt(2 * gravity * height)
}

// bufferJump remembers a jump press for JumpBufferTime.
func (c *moveContext) bufferJump() {
	if !c.m.Abilities.Jump || !c.in.Pressed(component.ActionJump) {
		return
	}
	switch c.loc.Mode {
	case component.ModeDashing, component.ModeFlying:
		return
	case component.ModeSliding:
		c.cancelSlide()
	}
	c.loc.JumpBuffer = math.Max(c.m.Jump.JumpBufferTime, c.dt)
}

// handleJump consumes a buffered jump. Wall jumps win over ground jumps,
// ground jumps (including coyote time) over double jumps. An eligible
// attempt consumes the buffer even when stamina refuses it; an ineligible
// press stays buffered until it expires.
func (c *moveContext) handleJump() {
	l, a := c.loc, c.m.Abilities
	if l.JumpBuffer <= 0 || !a.Jump {
		return
	}

	canWall := a.WallJump && l.TouchingWall && !l.Grounded
	canGround := (l.Grounded || (l.SinceGrounded <= c.m.Jump.CoyoteTime && !l.CoyoteSpent)) && !l.Crouching
	canDouble := a.DoubleJump && !l.Grounded && l.DoubleJumpCount < c.m.Jump.MaxDoubleJumps
	if !canWall && !canGround && !canDouble {
		return
	}
	l.JumpBuffer = 0

	switch {
	case canWall:
		if !c.st.TryWallJump(c.now) {
			c.reject("wall_jump", "stamina")
			return
		}
		c.jumpOffWall()
	case canGround:
		if !c.st.TryJump(c.now) {
			c.reject("jump", "stamina")
			return
		}
		c.body.Velocity.Y = JumpVelocity(c.m.Jump.JumpHeight, c.m.Ground.Gravity)
		l.CoyoteSpent = true
		l.DoubleJumpCount = 0
		c.leaveGround()
		logger.Debug("jump", zap.Stringer("entity", c.e))
	default:
		if !c.st.TryDoubleJump(c.now) {
			c.reject("double_jump", "stamina")
			return
		}
		c.body.Velocity.Y = JumpVelocity(c.m.Jump.DoubleJumpHeight, c.m.Ground.Gravity)
		l.DoubleJumpCount++
		if a.DoubleJumpResetsDash {
			l.AirDashCount = 0
		}
		logger.Debug("double jump", zap.Stringer("entity", c.e), zap.Int("count", l.DoubleJumpCount))
	}
}

func (c *moveContext) jumpOffWall() {
	l, a := c.loc, c.m.Abilities
	dir := l.WallNormal.Add(common.Up).Normalized()
	impulse := dir.Scale(c.m.Jump.WallJumpForce * c.m.Jump.WallJumpDirectionMultiplier)
	c.body.Velocity = c.body.Velocity.WithY(0).Add(impulse)
	l.TouchingWall = false

	if a.ResetDoubleJumpOnWallJump {
		l.DoubleJumpCount = 0
	}
	if a.ResetDashOnWallJump {
		l.AirDashCount = 0
		l.DashCooldown = 0
	}
	c.turnToward(l.WallNormal)
	logger.Debug("wall jump", zap.Stringer("entity", c.e))
}

// leaveGround marks the body airborne for the rest of the tick so the
// vertical integrator does not pin it back to the ground.
func (c *moveContext) leaveGround() {
	c.loc.Grounded = false
	if c.loc.Mode == component.ModeGrounded {
		c.loc.Mode = component.ModeAirborne
	}
}
