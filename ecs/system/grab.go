package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

func (c *moveContext) handleGrab() {
	if !c.m.Abilities.Grab || c.grab == nil {
		return
	}
	g := c.grab
	if c.m.Abilities.GrabIsToggle {
		if c.in.Pressed(component.ActionGrab) {
			if g.Holding {
				c.release()
			} else {
				c.tryGrab()
			}
		}
	} else {
		switch {
		case c.in.Pressed(component.ActionGrab):
			c.tryGrab()
		case c.in.Released(component.ActionGrab):
			c.release()
		}
	}
	if !g.Holding {
		return
	}
	if !c.moveHeld() {
		return
	}
	if !c.st.TryGrab(c.now, g.Weight, c.dt) {
		c.reject("grab", "stamina")
		c.release()
	}
}

// heldBody returns the body of the held object if it still exists.
func (c *moveContext) heldBody() (*component.Body, bool) {
	target := ecs.Entity(c.grab.Target)
	if !ecs.IsAlive(c.w, target) {
		return nil, false
	}
	return ecs.Get(c.w, target, component.BodyComponent.Kind())
}

func (c *moveContext) tryGrab() {
	if c.view == nil || c.grab.Holding {
		return
	}
	gt := c.m.Grab
	hit, ok := c.physics.Raycast(c.view.Position, c.view.Forward.Normalized(), gt.Distance, gt.Layers, c.e)
	if !ok || !hit.Dynamic {
		return
	}
	body, ok := ecs.Get(c.w, hit.Entity, component.BodyComponent.Kind())
	if !ok {
		return
	}
	body.GravityEnabled = false
	c.grab.Holding = true
	c.grab.Target = uint64(hit.Entity)
	c.grab.Weight = body.Mass
	c.w.Events().Push(ecs.Event{Type: ecs.EventGrabStateChanged, Entity: c.e, Value: 1, Data: hit.Entity})
	logger.Debug("grab", zap.Stringer("entity", c.e), zap.Stringer("target", hit.Entity), zap.Float64("mass", body.Mass))
}

func (c *moveContext) release() {
	if !c.grab.Holding {
		return
	}
	if body, ok := c.heldBody(); ok {
		body.GravityEnabled = true
	}
	target := ecs.Entity(c.grab.Target)
	*c.grab = component.Grab{}
	c.w.Events().Push(ecs.Event{Type: ecs.EventGrabStateChanged, Entity: c.e, Value: 0, Data: target})
	logger.Debug("release", zap.Stringer("entity", c.e), zap.Stringer("target", target))
}

// moveHeld pulls the held object toward the hold point in front of the
// camera and drops it once it lags too far behind.
func (c *moveContext) moveHeld() bool {
	body, ok := c.heldBody()
	if !ok || c.view == nil {
		c.release()
		return false
	}
	gt := c.m.Grab
	hold := c.view.Position.Add(c.view.Forward.Normalized().Scale(gt.HoldDistance))
	if body.Position.Dist(hold) > gt.MaxHoldOffset {
		c.reject("grab", "out of reach")
		c.release()
		return false
	}
	body.Velocity = hold.Sub(body.Position).Scale(gt.Force)
	return true
}
