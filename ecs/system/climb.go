package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

// handleClimb decides whether the controller is on a climbable surface. It
// runs before the ground pound check so a forced exit happens first.
func (c *moveContext) handleClimb() {
	l, a := c.loc, c.m.Abilities
	climbing := l.Mode == component.ModeClimbing

	switch {
	case l.Mode == component.ModeFlying || l.Mode == component.ModeDashing:
		return
	case l.Grounded:
		if climbing {
			c.settle()
		}
		return
	case !a.Climb || l.ClimbLocked:
		if climbing {
			c.settle()
		}
		if l.ClimbLocked && (c.st == nil || c.st.Current >= c.st.Costs[component.StaminaClimb]) {
			l.ClimbLocked = false
		}
		return
	case c.in.Held(component.ActionDash):
		if climbing {
			c.settle()
		}
		return
	}

	if climbing && l.Climb.Vaulting {
		return
	}
	if climbing && !a.Lurch && l.Climb.Lurch != component.LurchIdle {
		l.Climb.Lurch = component.LurchIdle
	}

	hit, ok := c.climbProbe()
	if !ok {
		if climbing {
			c.settle()
		}
		return
	}
	if climbing {
		l.Climb.Normal = hit.Normal
		l.Climb.SurfaceTop = hit.Top
		return
	}
	if c.st != nil && c.st.Uses[component.StaminaClimb] && !c.st.CanAfford(c.st.Cost(component.StaminaClimb, 0, c.dt)) {
		c.reject("climb", "stamina")
		return
	}
	if !c.request(component.ModeClimbing) {
		return
	}
	l.Climb.Surface = uint64(hit.Entity)
	l.Climb.SurfaceTop = hit.Top
	l.Climb.Normal = hit.Normal
	logger.Debug("climb start", zap.Stringer("entity", c.e), zap.Stringer("surface", hit.Entity))
}

// climbProbe casts forward from the body center for a climbable surface.
func (c *moveContext) climbProbe() (Hit, bool) {
	cl := c.m.Climb
	origin := c.body.Center()
	hit, ok := c.physics.Raycast(origin, c.lookDir(), cl.RaycastDistance, component.LayerAll, c.e)
	if !ok {
		return Hit{}, false
	}
	if c.m.Abilities.RequireClimbableTag {
		return hit, hit.Tag == cl.ClimbableTag
	}
	angle := common.Angle(hit.Normal, common.Up)
	return hit, angle >= 90-cl.VerticalThreshold && angle <= 90+cl.VerticalThreshold
}

func (c *moveContext) atTopEdge() bool {
	return c.body.Center().Y >= c.loc.Climb.SurfaceTop-c.m.Climb.TopEdgeTolerance
}

// updateClimb drives the body while climbing. Vault and lurch phases move the
// body along a fixed path; otherwise input sets the velocity directly.
func (c *moveContext) updateClimb() {
	cs := &c.loc.Climb
	switch {
	case cs.Vaulting:
		c.advanceVault()
		return
	case cs.Lurch == component.LurchMoving:
		c.advanceLurch()
		return
	case cs.Lurch == component.LurchPausing:
		cs.LurchElapsed += c.dt
		if cs.LurchElapsed >= c.m.Climb.PauseBetweenLurches-durationEpsilon {
			cs.Lurch = component.LurchIdle
			cs.LurchElapsed = 0
			if c.wantsLurch() && !c.atTopEdge() {
				c.startLurch()
				return
			}
		}
	}

	vertical, horizontal := c.in.MoveZ, c.in.MoveX
	speed := c.m.Climb.HorizontalAndDownSpeed
	if vertical > 0 {
		speed = c.m.Climb.UpClimbSpeed
	}
	right := common.Up.Cross(c.lookDir())
	dir := common.Up.Scale(vertical).Add(right.Scale(horizontal)).Normalized()
	c.body.Velocity = dir.Scale(speed)

	if !c.st.TryClimb(c.now, c.dt) {
		c.exhaustClimb()
		return
	}

	if vertical > 0 && c.atTopEdge() {
		c.startVault()
		return
	}
	if cs.Lurch == component.LurchIdle && c.wantsLurch() {
		c.startLurch()
	}
}

func (c *moveContext) wantsLurch() bool {
	return c.m.Abilities.Lurch && c.in.Held(component.ActionLurch) && c.in.MoveZ > 0
}

// exhaustClimb ends the climb and locks it until stamina recovers.
func (c *moveContext) exhaustClimb() {
	c.loc.ClimbLocked = true
	c.reject("climb", "stamina")
	c.settle()
}

func (c *moveContext) startLurch() {
	cl := c.m.Climb
	if !c.st.TryClimb(c.now, cl.LurchDuration) {
		c.exhaustClimb()
		return
	}
	cs := &c.loc.Climb
	cs.Lurch = component.LurchMoving
	cs.LurchElapsed = 0
	cs.LurchStart = c.body.Position
	cs.LurchEnd = c.body.Position.Add(common.Up.Scale(cl.LurchDistance))
	c.body.Velocity = common.Zero
	c.w.Events().Push(ecs.Event{Type: ecs.EventClimbLurch, Entity: c.e})
}

func (c *moveContext) advanceLurch() {
	cs := &c.loc.Climb
	cs.LurchElapsed += c.dt
	t := common.Clamp01(cs.LurchElapsed / c.m.Climb.LurchDuration)
	c.body.Position = common.LerpVec(cs.LurchStart, cs.LurchEnd, t)
	c.body.Velocity = common.Zero

	if c.atTopEdge() || cs.LurchElapsed >= c.m.Climb.LurchDuration-durationEpsilon {
		c.body.Position = cs.LurchEnd
		cs.Lurch = component.LurchPausing
		cs.LurchElapsed = 0
	}
}

func (c *moveContext) startVault() {
	cl := c.m.Climb
	cs := &c.loc.Climb
	cs.Lurch = component.LurchIdle
	cs.Vaulting = true
	cs.VaultElapsed = 0
	cs.VaultStart = c.body.Position
	cs.VaultEnd = c.body.Position.
		Add(common.Up.Scale(cl.EdgeVaultHeight)).
		Add(c.lookDir().Scale(cl.VaultForward))
	c.body.Velocity = common.Zero
	logger.Debug("vault", zap.Stringer("entity", c.e))
}

// advanceVault moves the body over the edge; when it completes the climb
// ends unconditionally.
func (c *moveContext) advanceVault() {
	cs := &c.loc.Climb
	cs.VaultElapsed += c.dt
	t := common.Clamp01(cs.VaultElapsed / c.m.Climb.VaultDuration)
	c.body.Position = common.LerpVec(cs.VaultStart, cs.VaultEnd, t)
	c.body.Velocity = common.Zero
	if cs.VaultElapsed >= c.m.Climb.VaultDuration-durationEpsilon {
		c.body.Position = cs.VaultEnd
		c.settle()
	}
}
