package system

import "github.com/milk9111/moveset/ecs/component"

func (c *moveContext) handleSprintInput() {
	a := c.m.Abilities
	if !a.Sprint {
		c.loc.Sprinting = false
		return
	}
	allowed := a.OmniMovement || c.forwardHeld()
	if a.SprintIsToggle {
		if c.in.Pressed(component.ActionSprint) && c.moving() && allowed {
			c.loc.Sprinting = !c.loc.Sprinting
		}
		return
	}
	c.loc.Sprinting = c.in.Held(component.ActionSprint) && c.moving() && allowed
}

// handleAutoSprint starts sprinting after AutoSprintDelay seconds of
// continuous movement input.
func (c *moveContext) handleAutoSprint() {
	if !c.m.Abilities.AutoSprint {
		c.loc.AutoSprinting = false
		return
	}
	if !c.moving() {
		c.loc.MoveTimer = 0
		c.loc.AutoSprinting = false
		return
	}
	c.loc.MoveTimer += c.dt
	if !c.loc.AutoSprinting && c.loc.MoveTimer >= c.m.Walk.AutoSprintDelay {
		c.loc.AutoSprinting = true
	}
}
