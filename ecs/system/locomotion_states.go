package system

import (
	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs/component"
)

// modeState is the behavior attached to one locomotion mode. Enter and Exit
// run synchronously on every transition so an interrupted mode releases
// whatever it was holding within the same tick.
type modeState interface {
	Name() string
	Enter(c *moveContext)
	Exit(c *moveContext)
	Update(c *moveContext)
}

// Mode state singletons (avoid allocations on transitions).
var (
	modeStateWalk  modeState = &walkState{}
	modeStateSlide modeState = &slideState{}
	modeStateDash  modeState = &dashState{}
	modeStateClimb modeState = &climbState{}
	modeStatePound modeState = &poundState{}
	modeStateFly   modeState = &flyState{}
)

var modeStates = [...]modeState{
	component.ModeGrounded:       modeStateWalk,
	component.ModeAirborne:       modeStateWalk,
	component.ModeSliding:        modeStateSlide,
	component.ModeDashing:        modeStateDash,
	component.ModeClimbing:       modeStateClimb,
	component.ModeGroundPounding: modeStatePound,
	component.ModeFlying:         modeStateFly,
}

type walkState struct{}

type slideState struct{}

type dashState struct{}

type climbState struct{}

type poundState struct{}

type flyState struct{}

func (walkState) Name() string        { return "walk" }
func (walkState) Enter(c *moveContext) {}
func (walkState) Exit(c *moveContext)  {}
func (walkState) Update(c *moveContext) {
	c.move()
	c.handleJump()
	c.integrateVertical()
	c.stepClimb()
	c.unstick()
	c.trackDownward()
	c.handleMomentumPound()
}

func (slideState) Name() string { return "slide" }
func (slideState) Enter(c *moveContext) {
	c.body.Height = c.m.Crouch.CrouchingHeight
	c.loc.Crouching = false
	c.loc.JumpBuffer = 0
}
func (slideState) Exit(c *moveContext) {}
func (slideState) Update(c *moveContext) {
	c.move()
	c.integrateVertical()
	c.trackDownward()
}

func (dashState) Name() string { return "dash" }
func (dashState) Enter(c *moveContext) {
	c.loc.Dash.Elapsed = 0
}
func (dashState) Exit(c *moveContext) {
	c.loc.Dash = component.DashState{}
}
func (dashState) Update(c *moveContext) {
	c.updateDash()
}

func (climbState) Name() string { return "climb" }
func (climbState) Enter(c *moveContext) {
	c.body.GravityEnabled = false
	c.body.Velocity = common.Zero
	c.loc.TouchingWall = false
}
func (climbState) Exit(c *moveContext) {
	c.body.GravityEnabled = true
	c.loc.Climb = component.ClimbState{}
}
func (climbState) Update(c *moveContext) {
	c.updateClimb()
}

func (poundState) Name() string        { return "ground_pound" }
func (poundState) Enter(c *moveContext) {}
func (poundState) Exit(c *moveContext) {
	c.loc.Pound = component.PoundState{}
}
func (poundState) Update(c *moveContext) {
	c.move()
	c.integrateVertical()
	c.trackDownward()
}

func (flyState) Name() string { return "fly" }
func (flyState) Enter(c *moveContext) {
	c.body.GravityEnabled = false
	c.loc.Grounded = false
	c.loc.TouchingWall = false
	c.loc.Crouching = false
	c.body.Height = c.m.Crouch.StandingHeight
	c.loc.Fly.SmoothVelocity = common.Zero
	if c.loc.Fly.Ghost {
		c.setCollider(false)
	}
}
func (flyState) Exit(c *moveContext) {
	c.body.GravityEnabled = true
	c.body.Velocity.Y = 0
	c.loc.Fly.SmoothVelocity = common.Zero
	c.setCollider(true)
}
func (flyState) Update(c *moveContext) {
	c.updateFly()
}

func (c *moveContext) setCollider(enabled bool) {
	c.body.ColliderEnabled = enabled
	if !enabled {
		c.contacts.Reset()
		c.loc.TouchingWall = false
	}
}
