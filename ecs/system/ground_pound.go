package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

// PoundForce is the explosion force for a pound after falling d.
func PoundForce(t component.PoundTuning, d float64) float64 {
	if d < 0 {
		d = 0
	}
	return common.Clamp(t.MinExplosionForce+d*t.ExplosionForceMultiplier, t.MinExplosionForce, t.MaxExplosionForce)
}

// handleGroundPoundInput starts a key pound. Any fall distance qualifies.
func (c *moveContext) handleGroundPoundInput() {
	l := c.loc
	if !c.m.Abilities.GroundPound || !c.in.Pressed(component.ActionGroundPound) {
		return
	}
	if l.Grounded {
		return
	}
	if l.PoundCooldown > 0 {
		c.reject("ground_pound", "cooldown")
		return
	}
	if !c.request(component.ModeGroundPounding) {
		return
	}
	l.Pound.KeyInitiated = true
	c.body.Velocity.Y -= c.m.Pound.Speed
	logger.Debug("ground pound", zap.Stringer("entity", c.e), zap.Bool("key", true))
}

// handleMomentumPound turns a sustained fast fall into a pound. The velocity
// and duration thresholds stand in for the minimum fall distance.
func (c *moveContext) handleMomentumPound() {
	l, a, p := c.loc, c.m.Abilities, c.m.Pound
	if !a.GroundPound || !a.MomentumPound || l.Grounded || l.Mode != component.ModeAirborne {
		return
	}
	if l.PoundCooldown > 0 || c.body.Velocity.Y > -p.MomentumSpeedThreshold || l.DownwardTime < p.MomentumDurationThreshold {
		return
	}
	if !c.request(component.ModeGroundPounding) {
		return
	}
	l.Pound.Momentum = true
	c.body.Velocity = c.body.Velocity.Scale(p.MomentumSpeedMultiplier)
	logger.Debug("ground pound", zap.Stringer("entity", c.e), zap.Bool("momentum", true))
}

func (c *moveContext) trackDownward() {
	if c.body.Velocity.Y < 0 {
		c.loc.DownwardTime += c.dt
		return
	}
	c.loc.DownwardTime = clampPositive(c.loc.DownwardTime - c.dt)
}

// resolvePoundImpact fires the explosion on the tick a pound lands. Repeated
// landing notices are harmless because the mode is left immediately.
func (c *moveContext) resolvePoundImpact() {
	l := c.loc
	if l.Mode != component.ModeGroundPounding || !l.Landing {
		return
	}
	p := c.m.Pound
	force := PoundForce(p, l.LandingFall)
	center := c.body.Position

	hits := c.physics.OverlapSphere(center, p.ExplosionRadius, p.ExplosionLayers)
	pushed := 0
	for _, h := range hits {
		if !h.Dynamic || h.Entity == c.e {
			continue
		}
		c.physics.ApplyImpulse(h.Entity, ExplosionImpulse(force, center, p.ExplosionRadius, h.Point), h.Point)
		pushed++
	}

	c.w.Events().Push(ecs.Event{Type: ecs.EventGroundPound, Entity: c.e, Value: force, Data: pushed})
	logger.Debug("ground pound impact", zap.Stringer("entity", c.e), zap.Float64("fall", l.LandingFall),
		zap.Float64("force", force), zap.Int("bodies", pushed))

	l.PoundCooldown = p.Cooldown
	l.StoredFallDistance = 0
	l.DownwardTime = 0
	c.settle()
}
