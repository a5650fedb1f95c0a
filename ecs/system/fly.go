package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

func (c *moveContext) handleFlyToggle() {
	l, a := c.loc, c.m.Abilities
	flying := l.Mode == component.ModeFlying

	if flying && a.StopFlyingOnGrounded && l.Grounded && !l.WasGrounded {
		c.settle()
		c.flightEvent(false)
		return
	}

	if a.Fly && c.in.Pressed(component.ActionToggleFly) {
		if flying {
			c.settle()
			c.flightEvent(false)
			return
		}
		if c.request(component.ModeFlying) {
			c.flightEvent(true)
		}
		return
	}

	if flying && a.ToggleGhost && c.in.Pressed(component.ActionToggleGhost) {
		l.Fly.Ghost = !l.Fly.Ghost
		c.setCollider(!l.Fly.Ghost)
		logger.Debug("ghost", zap.Stringer("entity", c.e), zap.Bool("on", l.Fly.Ghost))
	}
}

func (c *moveContext) flightEvent(on bool) {
	v := 0.0
	if on {
		v = 1
	}
	c.w.Events().Push(ecs.Event{Type: ecs.EventFlightToggled, Entity: c.e, Value: v})
}

// updateFly steers along the camera in three dimensions. Jump rises and
// crouch sinks.
func (c *moveContext) updateFly() {
	fwd, right := common.Forward, common.Right
	if c.view != nil {
		fwd = c.view.Forward.Normalized()
		right = c.view.FlatRight()
	}
	dir := fwd.Scale(c.in.MoveZ).Add(right.Scale(c.in.MoveX))
	if c.in.Held(component.ActionJump) {
		dir = dir.Add(common.Up)
	}
	if c.in.Held(component.ActionCrouch) {
		dir = dir.Add(common.Down)
	}
	dir = dir.Normalized()

	f := c.m.Fly
	speed := f.BaseSpeed
	if c.sprinting() {
		speed *= f.SprintMultiplier
	}
	target := dir.Scale(speed)
	if f.SmoothingTime <= 0 {
		c.body.Velocity = target
	} else {
		c.body.Velocity = common.SmoothDamp(c.body.Velocity, target, &c.loc.Fly.SmoothVelocity, f.SmoothingTime, c.dt)
	}
	if c.view != nil {
		c.turnToward(c.view.FlatForward())
	}
}
