package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

// durationEpsilon absorbs float drift when summing fixed ticks against a
// duration.
const durationEpsilon = 1e-9

// handleDashInput starts a dash on the press edge. Every precondition is
// checked before stamina is charged, so a refused dash costs nothing.
func (c *moveContext) handleDashInput() {
	l, a := c.loc, c.m.Abilities
	if !a.Dash || !c.in.Pressed(component.ActionDash) {
		return
	}
	switch l.Mode {
	case component.ModeSliding, component.ModeDashing, component.ModeFlying:
		return
	}
	if l.DashCooldown > 0 {
		c.reject("dash", "cooldown")
		return
	}
	if !l.Grounded && (!a.AirDash || l.AirDashCount >= c.m.Dash.MaxAirDashes) {
		c.reject("dash", "air dashes exhausted")
		return
	}
	if !c.st.TryDash(c.now) {
		c.reject("dash", "stamina")
		return
	}
	if !c.request(component.ModeDashing) {
		return
	}

	l.Dash.Direction = c.dashDirection()
	if !l.Grounded {
		l.AirDashCount++
	}
	if a.DashResetsDoubleJump {
		l.DoubleJumpCount = 0
	}
	l.DashCooldown = c.m.Dash.Cooldown
	logger.Debug("dash", zap.Stringer("entity", c.e), zap.Int("air_dashes", l.AirDashCount))
}

func (c *moveContext) dashDirection() common.Vec3 {
	a := c.m.Abilities
	switch {
	case a.DashToCamera && c.view != nil:
		if d := c.view.Forward.Normalized(); !d.IsZero() {
			return d
		}
	case a.OnlyForwardDash:
		return c.lookDir()
	}
	if c.moving() {
		return c.moveDir.Normalized()
	}
	return c.facingDir()
}

// updateDash forces the dash velocity until the duration is used up, then
// stops the body and falls back to grounded or airborne movement.
func (c *moveContext) updateDash() {
	d := &c.loc.Dash
	d.Elapsed += c.dt
	if d.Elapsed >= c.m.Dash.Duration-durationEpsilon {
		d.Elapsed = c.m.Dash.Duration
		c.body.Velocity = common.Zero
		c.settle()
		return
	}
	c.body.Velocity = d.Direction.Scale(c.m.Dash.Speed)
}
