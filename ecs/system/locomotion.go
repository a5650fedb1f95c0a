package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

// LocomotionSystem runs mode arbitration and the ability modules for every
// controller. It must run after the ground sensor in the same tick.
type LocomotionSystem struct {
	physics PhysicsQuery
}

func NewLocomotionSystem(physics PhysicsQuery) *LocomotionSystem {
	return &LocomotionSystem{physics: queryOrNone(physics)}
}

// moveContext carries the references one controller needs for one tick.
// Everything is resolved once up front.
type moveContext struct {
	w   *ecs.World
	e   ecs.Entity
	now float64
	dt  float64

	m        *component.Movement
	loc      *component.Locomotion
	body     *component.Body
	in       *component.Input
	st       *component.Stamina
	view     *component.View
	grab     *component.Grab
	pull     *component.ExternalPull
	contacts *component.Contacts
	physics  PhysicsQuery

	// moveDir is the horizontal world direction of the movement input,
	// at most unit length.
	moveDir common.Vec3
}

var noInput component.Input

func newMoveContext(w *ecs.World, e ecs.Entity, physics PhysicsQuery) (*moveContext, bool) {
	loc, ok := ecs.Get(w, e, component.LocomotionComponent.Kind())
	if !ok {
		return nil, false
	}
	body, ok := ecs.Get(w, e, component.BodyComponent.Kind())
	if !ok {
		return nil, false
	}
	m, ok := ecs.Get(w, e, component.MovementComponent.Kind())
	if !ok {
		return nil, false
	}

	c := &moveContext{
		w:       w,
		e:       e,
		now:     w.Now(),
		dt:      w.Delta(),
		m:       m,
		loc:     loc,
		body:    body,
		physics: queryOrNone(physics),
	}
	c.in, _ = ecs.Get(w, e, component.InputComponent.Kind())
	if c.in == nil {
		c.in = &noInput
	}
	c.st, _ = ecs.Get(w, e, component.StaminaComponent.Kind())
	c.view, _ = ecs.Get(w, e, component.ViewComponent.Kind())
	c.grab, _ = ecs.Get(w, e, component.GrabComponent.Kind())
	c.pull, _ = ecs.Get(w, e, component.ExternalPullComponent.Kind())
	c.contacts, _ = ecs.Get(w, e, component.ContactsComponent.Kind())
	return c, true
}

func (s *LocomotionSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	for _, e := range w.Query(component.LocomotionComponent.Kind(), component.BodyComponent.Kind(), component.MovementComponent.Kind()) {
		c, ok := newMoveContext(w, e, s.physics)
		if !ok {
			continue
		}
		c.step()
	}
}

func (c *moveContext) step() {
	c.dropDisabled()
	if !c.m.Abilities.Movement {
		c.body.Velocity.Y = IntegrateVertical(c.body.Velocity.Y, c.loc.Grounded, false, c.body.GravityEnabled, c.m.Ground, c.dt)
		return
	}

	c.tickTimers()
	c.resolvePoundImpact()
	c.readMoveInput()
	c.handleAutoSprint()
	c.handleSprintInput()
	c.handleFlyToggle()
	c.bufferJump()
	c.handleCrouch()
	c.handleDashInput()
	c.handleClimb()
	c.handleGroundPoundInput()
	c.handleGrab()

	modeStates[c.loc.Mode].Update(c)

	c.applyExternalPull()
	c.loc.CurrentSpeed = c.body.Velocity.Horizontal().Len()
}

// dropDisabled leaves whatever the current abilities no longer allow. A
// preset swap can disable the ability that owns the current mode.
func (c *moveContext) dropDisabled() {
	l, a := c.loc, c.m.Abilities
	enabled := a.Movement
	switch l.Mode {
	case component.ModeFlying:
		enabled = enabled && a.Fly
	case component.ModeSliding:
		enabled = enabled && a.Crouch && a.Slide
	case component.ModeDashing:
		enabled = enabled && a.Dash
	case component.ModeClimbing:
		enabled = enabled && a.Climb
	case component.ModeGroundPounding:
		enabled = enabled && a.GroundPound
	}
	if prev := l.Mode; !enabled && prev != l.BaseMode() {
		if prev == component.ModeSliding {
			c.cancelSlide()
		} else {
			c.settle()
		}
		if prev == component.ModeFlying {
			c.flightEvent(false)
		}
		logger.Debug("mode disabled", zap.Stringer("entity", c.e), zap.Stringer("mode", prev))
	}

	if l.Fly.Ghost && (!a.GhostFly || !a.Movement) {
		l.Fly.Ghost = false
	}
	if !c.body.ColliderEnabled && !(l.Mode == component.ModeFlying && l.Fly.Ghost) {
		c.setCollider(true)
	}
	if l.Crouching && (!a.Crouch || !a.Movement) {
		c.standUp()
	}
	if c.grab != nil && c.grab.Holding && (!a.Grab || !a.Movement) {
		c.release()
	}
}

func (c *moveContext) tickTimers() {
	l := c.loc
	l.DashCooldown = clampPositive(l.DashCooldown - c.dt)
	l.PoundCooldown = clampPositive(l.PoundCooldown - c.dt)
	l.JumpBuffer = clampPositive(l.JumpBuffer - c.dt)
}

func (c *moveContext) readMoveInput() {
	x, z := c.in.MoveX, c.in.MoveZ
	if c.m.Abilities.AutoRun {
		z++
	}
	fwd, right := common.Forward, common.Right
	if c.view != nil {
		fwd, right = c.view.FlatForward(), c.view.FlatRight()
	}
	dir := fwd.Scale(z).Add(right.Scale(x))
	if dir.Len() > 1 {
		dir = dir.Normalized()
	}
	c.moveDir = dir
}

// moving reports meaningful movement input, counting auto-run.
func (c *moveContext) moving() bool {
	return c.moveDir.Dot(c.moveDir) > 0.01
}

func (c *moveContext) forwardHeld() bool {
	return c.in.Forward() || c.m.Abilities.AutoRun
}

func (c *moveContext) state() modeState {
	return modeStates[c.loc.Mode]
}

// request asks for a transition into next. It wins only against a mode of
// lower priority; the interrupted mode is exited in the same call.
func (c *moveContext) request(next component.Mode) bool {
	cur := c.loc.Mode
	if next == cur {
		return false
	}
	if next.Priority() <= cur.Priority() {
		logger.Debug("mode busy", zap.Stringer("entity", c.e), zap.Stringer("want", next), zap.Stringer("mode", cur))
		return false
	}
	c.switchMode(next)
	return true
}

// settle leaves the current mode for plain grounded or airborne movement.
func (c *moveContext) settle() {
	c.switchMode(c.loc.BaseMode())
}

func (c *moveContext) switchMode(next component.Mode) {
	cur := c.loc.Mode
	if cur == next {
		return
	}
	c.state().Exit(c)
	c.loc.Mode = next
	c.state().Enter(c)
	logger.Debug("mode", zap.Stringer("entity", c.e), zap.Stringer("from", cur), zap.Stringer("to", next))
}

func (c *moveContext) reject(ability, reason string) {
	c.w.Events().Push(ecs.Event{Type: ecs.EventAbilityRejected, Entity: c.e, Data: ability + ": " + reason})
	logger.Debug("ability rejected", zap.Stringer("entity", c.e), zap.String("ability", ability), zap.String("reason", reason))
}

func (c *moveContext) facingDir() common.Vec3 {
	f := c.loc.Facing.Horizontal().Normalized()
	if f.IsZero() {
		return common.Forward
	}
	return f
}

// lookDir is the flat direction probes are cast in: the camera forward when
// there is one, the body facing otherwise.
func (c *moveContext) lookDir() common.Vec3 {
	if c.view != nil {
		return c.view.FlatForward()
	}
	return c.facingDir()
}

func (c *moveContext) turnToward(target common.Vec3) {
	target = target.Horizontal().Normalized()
	if target.IsZero() {
		return
	}
	t := common.Clamp01(c.m.Walk.RotationSpeed * c.dt)
	f := common.LerpVec(c.facingDir(), target, t).Normalized()
	if f.IsZero() {
		f = target
	}
	c.loc.Facing = f
}

func (c *moveContext) applyExternalPull() {
	if c.pull == nil || !c.pull.Active {
		return
	}
	switch c.loc.Mode {
	case component.ModeDashing, component.ModeClimbing:
		return
	}
	c.body.Velocity = c.body.Velocity.Add(c.pull.Acceleration.Scale(c.dt))
}
