package system

import (
	"math"

	"go.uber.org/zap"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

const (
	minVelocityChange = 0.01
	stepProbeAngle    = 45.0
	stepProbeLift     = 0.05
	// stepAngleSlack absorbs rounding so a vertical face measures 90.
	stepAngleSlack    = 1e-6
)

// Accelerate moves the horizontal velocity toward target. The step is
// rate-limited (scaled by airControl in the air) and never overshoots.
// With no target the deceleration rate applies.
func Accelerate(current, target common.Vec3, grounded bool, tuning component.WalkTuning, dt float64) common.Vec3 {
	current = current.Horizontal()
	target = target.Horizontal()
	air := 1.0
	if !grounded {
		air = tuning.AirControlFactor
	}

	change := target.Sub(current)
	gap := change.Len()
	if gap <= minVelocityChange {
		return target
	}
	rate := tuning.Acceleration
	if target.IsZero() {
		rate = tuning.Deceleration
	}
	step := rate * air * dt
	if step >= gap {
		return target
	}
	return current.Add(change.Scale(step / gap))
}

// IntegrateVertical advances the vertical velocity for one tick. A grounded
// body on walkable ground is held at the small stick velocity instead of
// accumulating gravity.
func IntegrateVertical(vy float64, grounded, steep, gravity bool, tuning component.GroundTuning, dt float64) float64 {
	if !gravity {
		return vy
	}
	if grounded && !steep && vy <= 0 {
		return tuning.GroundedVelocity
	}
	vy -= tuning.Gravity * dt
	if tuning.TerminalVelocity > 0 && vy < -tuning.TerminalVelocity {
		vy = -tuning.TerminalVelocity
	}
	return vy
}

// ProjectOnWall removes the part of a horizontal velocity that points into
// the wall. Velocity away from the wall is kept.
func ProjectOnWall(v, wallNormal common.Vec3) common.Vec3 {
	n := wallNormal.Horizontal().Normalized()
	if n.IsZero() {
		return v
	}
	if v.Dot(n) >= 0 {
		return v
	}
	return v.ProjectOnPlane(n)
}

func (c *moveContext) steep() bool {
	return c.loc.Grounded && slopeAngle(c.loc) > c.m.Slope.MaxSlopeAngle
}

func (c *moveContext) sprinting() bool {
	return c.m.Abilities.Sprint && (c.loc.Sprinting || c.loc.AutoSprinting)
}

// move drives the horizontal velocity for grounded and airborne movement.
func (c *moveContext) move() {
	l, body := c.loc, c.body

	if c.loc.Mode != component.ModeSliding {
		if c.view != nil {
			c.turnToward(c.view.FlatForward())
		} else if c.moving() {
			c.turnToward(c.moveDir)
		}
	}

	if c.steep() {
		c.slideDownSlope()
		return
	}

	dir := c.moveDir
	if l.Grounded && l.Mode != component.ModeSliding {
		speed := dir.Len()
		dir = dir.ProjectOnPlane(l.GroundNormal).Normalized().Scale(speed)
	}

	target := c.m.Walk.WalkSpeed
	if l.Grounded && c.sprinting() && c.moving() && !l.Crouching && l.Mode != component.ModeSliding &&
		(c.m.Abilities.OmniMovement || c.forwardHeld()) {
		if c.st.TrySprint(c.now, c.dt) {
			target *= c.m.Walk.SprintMultiplier
		} else {
			l.Sprinting = false
			l.AutoSprinting = false
			l.MoveTimer = 0
			c.reject("sprint", "stamina")
		}
	}
	if l.Grounded && l.Crouching && l.Mode != component.ModeSliding {
		target *= c.m.Crouch.CrouchSpeedMultiplier
	}

	targetVel := dir.Horizontal().Scale(target)
	if l.TouchingWall && !l.Grounded && c.m.Abilities.WallSlide {
		targetVel = ProjectOnWall(targetVel, l.WallNormal)
	}
	h := Accelerate(body.Velocity, targetVel, l.Grounded, c.m.Walk, c.dt)
	body.Velocity.X, body.Velocity.Z = h.X, h.Z
}

// slideDownSlope replaces normal movement on ground steeper than the limit.
func (c *moveContext) slideDownSlope() {
	n := c.loc.GroundNormal
	down := common.Down.ProjectOnPlane(n).Normalized()
	s := c.m.Slope
	c.body.Velocity = c.body.Velocity.Add(down.Scale(s.SlideDownSpeed * s.SlideForceMultiplier * c.dt))

	h := c.body.Velocity.Horizontal()
	if h.Len() > s.SlideDownSpeed {
		h = h.Normalized().Scale(s.SlideDownSpeed)
		c.body.Velocity.X, c.body.Velocity.Z = h.X, h.Z
	}
}

func (c *moveContext) integrateVertical() {
	l, body := c.loc, c.body
	vy := IntegrateVertical(body.Velocity.Y, l.Grounded, c.steep(), body.GravityEnabled, c.m.Ground, c.dt)
	if body.GravityEnabled && (l.Crouching || l.Mode == component.ModeSliding) {
		mass := body.Mass
		if mass <= 0 {
			mass = 1
		}
		vy -= c.m.Crouch.CrouchDownForce / mass * c.dt
	}
	if !l.Grounded && l.TouchingWall && c.m.Abilities.WallSlide && vy < -c.m.Jump.WallSlideSpeed {
		vy = -c.m.Jump.WallSlideSpeed
	}
	body.Velocity.Y = vy
}

// stepClimb lifts the body over low ledges in front of it. With auto-jump the
// ledge buffers a jump instead.
func (c *moveContext) stepClimb() {
	a, st := c.m.Abilities, c.m.Step
	if !a.StepClimb || !c.loc.Grounded || !c.moving() {
		return
	}
	fwd := c.moveDir.Horizontal().Normalized()
	lower := c.body.Position.Add(common.Up.Scale(stepProbeLift))
	upper := c.body.Position.Add(common.Up.Scale(st.StepHeight))
	lowerLen := c.body.Radius + st.LowerRayLength
	upperLen := c.body.Radius + st.UpperRayLength

	for _, angle := range [3]float64{0, stepProbeAngle, -stepProbeAngle} {
		dir := fwd.RotateY(angle)
		hit, ok := c.physics.Raycast(lower, dir, lowerLen, st.Layers, c.e)
		if !ok {
			continue
		}
		slope := common.Angle(common.Up, hit.Normal)
		if slope < st.MinStepSlopeAngle-stepAngleSlack || slope > st.MaxStepSlopeAngle+stepAngleSlack {
			continue
		}
		if _, blocked := c.physics.Raycast(upper, dir, upperLen, st.Layers, c.e); blocked {
			continue
		}
		if a.AutoJump && a.Jump && !c.loc.Crouching {
			c.loc.JumpBuffer = math.Max(c.m.Jump.JumpBufferTime, c.dt)
			return
		}
		c.body.Position.Y += st.StepSmooth * c.dt
		return
	}
}

// unstick nudges a body that has input but has not moved for a while.
func (c *moveContext) unstick() {
	u := c.m.Unstick
	if !c.m.Abilities.Unstick || !c.moving() || c.loc.CurrentSpeed >= u.MinMoveSpeed {
		c.loc.StuckTimer = 0
		return
	}
	c.loc.StuckTimer += c.dt
	if c.loc.StuckTimer < u.StuckThreshold {
		return
	}
	mass := c.body.Mass
	if mass <= 0 {
		mass = 1
	}
	impulse := common.Down.Scale(u.DownImpulse).Add(c.facingDir().Scale(u.ForwardImpulse))
	c.body.Velocity = c.body.Velocity.Add(impulse.Scale(1 / mass))
	c.loc.StuckTimer = 0
	logger.Debug("unstick", zap.Stringer("entity", c.e))
}
