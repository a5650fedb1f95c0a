package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

func (c *moveContext) handleCrouch() {
	l, a := c.loc, c.m.Abilities
	if !a.Crouch {
		return
	}
	switch l.Mode {
	case component.ModeFlying, component.ModeDashing, component.ModeClimbing:
		return
	}

	if !l.Grounded {
		if l.Mode == component.ModeSliding {
			c.cancelSlide()
		}
		if l.Crouching {
			c.standUp()
		}
		return
	}

	pressed := c.in.Pressed(component.ActionCrouch)
	if a.CrouchIsToggle {
		if !pressed {
			return
		}
		switch {
		case l.Mode == component.ModeSliding:
			c.cancelSlide()
		case !l.Crouching:
			c.slideOrCrouch()
		case c.canStandUp():
			c.standUp()
		}
		return
	}

	if pressed && !l.Crouching && l.Mode != component.ModeSliding {
		c.slideOrCrouch()
	}
	if c.in.Held(component.ActionCrouch) {
		if l.Mode != component.ModeSliding {
			c.crouch()
		}
		l.AutoStandTimer = 0
		l.HadHeadObstruction = false
		return
	}

	switch {
	case l.Mode == component.ModeSliding:
		c.cancelSlide()
	case !l.Crouching:
	case !c.canStandUp():
		l.HadHeadObstruction = true
		l.AutoStandTimer = 0
	case l.HadHeadObstruction:
		l.AutoStandTimer += c.dt
		if l.AutoStandTimer >= c.m.Crouch.AutoStandDelay {
			c.standUp()
			l.HadHeadObstruction = false
			l.AutoStandTimer = 0
		}
	default:
		c.standUp()
	}
}

// slideOrCrouch slides when sprinting fast enough over the ground and crouches
// otherwise.
func (c *moveContext) slideOrCrouch() {
	l, a := c.loc, c.m.Abilities
	threshold := c.m.Walk.WalkSpeed * c.m.Walk.SprintMultiplier * c.m.Crouch.RequiredSpeedFactor
	canSlide := a.Slide && l.Grounded && c.sprinting() && c.moving() &&
		l.CurrentSpeed > threshold && (a.OmniMovement || c.forwardHeld())
	if !canSlide {
		c.crouch()
		return
	}
	if !c.st.TrySlide(c.now) {
		c.reject("slide", "stamina")
		return
	}
	c.startSlide()
}

func (c *moveContext) startSlide() {
	if !c.request(component.ModeSliding) {
		return
	}
	dir := c.body.Velocity.Horizontal().Normalized()
	c.body.Velocity = c.body.Velocity.Add(dir.Scale(c.m.Crouch.SlideSpeed))
	c.w.Events().Push(ecs.Event{Type: ecs.EventSlideStarted, Entity: c.e})
	logger.Debug("slide", zap.Stringer("entity", c.e))
}

// cancelSlide ends a slide, halving horizontal speed, and leaves the body
// crouched if there is no headroom.
func (c *moveContext) cancelSlide() {
	if c.loc.Mode != component.ModeSliding {
		return
	}
	c.settle()
	if c.canStandUp() {
		c.body.Height = c.m.Crouch.StandingHeight
		c.loc.Crouching = false
	} else {
		c.loc.Crouching = true
		c.body.Height = c.m.Crouch.CrouchingHeight
	}
	c.body.Velocity.X *= 0.5
	c.body.Velocity.Z *= 0.5
}

func (c *moveContext) crouch() {
	if c.loc.Crouching {
		return
	}
	c.loc.Crouching = true
	c.body.Height = c.m.Crouch.CrouchingHeight
}

func (c *moveContext) standUp() {
	if !c.loc.Crouching {
		return
	}
	c.loc.Crouching = false
	c.body.Height = c.m.Crouch.StandingHeight
	c.body.Velocity.Y = 0
}

// canStandUp checks for a ceiling above the crouched head.
func (c *moveContext) canStandUp() bool {
	if !c.m.Abilities.HeadObstructionCheck {
		return true
	}
	cr := c.m.Crouch
	origin := c.body.Position.Add(common.Up.Scale(c.body.Height))
	_, blocked := c.physics.Raycast(origin, common.Up, cr.HeadClearance, cr.HeadLayers, c.e)
	return !blocked
}
