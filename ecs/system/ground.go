package system

import (
	"math"

	"go.uber.org/zap"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

// separatingSpeed is the speed away from a surface above which a body is not
// considered supported, so the tick after a jump does not re-ground it.
const separatingSpeed = 1.0

// GroundSample is the support state found by SampleGround.
type GroundSample struct {
	Grounded bool
	Normal   common.Vec3
	Falling  bool
	Hit      Hit
}

// SampleGround casts a small sphere down from the feet. If it misses, four
// probes offset to the sides are tried so the body still stands on ledges.
func SampleGround(q PhysicsQuery, e ecs.Entity, body *component.Body, facing common.Vec3, tuning component.GroundTuning) GroundSample {
	out := GroundSample{Normal: common.Up}
	if body == nil {
		return out
	}
	q = queryOrNone(q)

	radius := tuning.ProbeRadiusFactor * body.Radius
	if radius <= 0 {
		radius = 0.05
	}
	center := body.Position.Add(common.Up.Scale(radius))

	fwd := facing.Horizontal().Normalized()
	if fwd.IsZero() {
		fwd = common.Forward
	}
	right := common.Up.Cross(fwd)
	offset := tuning.ProbeOffset * body.Radius

	probes := [5]common.Vec3{
		center,
		center.Add(right.Scale(offset)),
		center.Add(right.Scale(-offset)),
		center.Add(fwd.Scale(offset)),
		center.Add(fwd.Scale(-offset)),
	}
	for _, origin := range probes {
		hit, ok := q.SphereCast(origin, radius, common.Down, tuning.CheckDistance, tuning.Layers, e)
		if !ok {
			continue
		}
		if body.Velocity.Dot(hit.Normal) > separatingSpeed {
			break
		}
		out.Grounded = true
		out.Normal = hit.Normal.Normalized()
		out.Hit = hit
		return out
	}
	out.Falling = body.Velocity.Y < 0
	return out
}

// GroundSensorSystem classifies support state and handles the landing and
// take-off edges.
type GroundSensorSystem struct {
	physics PhysicsQuery
}

func NewGroundSensorSystem(physics PhysicsQuery) *GroundSensorSystem {
	return &GroundSensorSystem{physics: queryOrNone(physics)}
}

func (s *GroundSensorSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach3(w, component.LocomotionComponent.Kind(), component.BodyComponent.Kind(), component.MovementComponent.Kind(),
		func(e ecs.Entity, loc *component.Locomotion, body *component.Body, m *component.Movement) {
			loc.Landing = false
			loc.LandingFall = 0
			height := body.Position.Y

			contacts, _ := ecs.Get(w, e, component.ContactsComponent.Kind())
			for _, c := range contacts.TakeBegun() {
				if loc.Mode == component.ModeGroundPounding && c.Layer.Has(m.Ground.Layers) {
					if !loc.Landing {
						loc.Landing = true
						loc.LandingFall = loc.FallDistance(height)
					}
					continue
				}
				if d := loc.FallStartHeight - height; d > 0 {
					loc.StoredFallDistance += d
				}
				loc.FallStartHeight = height
			}

			sample := SampleGround(s.physics, e, body, loc.Facing, m.Ground)
			loc.WasGrounded = loc.Grounded
			loc.Grounded = sample.Grounded
			loc.GroundNormal = sample.Normal
			loc.Falling = sample.Falling

			loc.TouchingWall = false
			if !loc.Grounded && m.Abilities.WallSlide && body.ColliderEnabled {
				if n, ok := contacts.Wall(); ok {
					loc.TouchingWall = true
					loc.WallNormal = n.Horizontal().Normalized()
				}
			}

			switch {
			case loc.Grounded && !loc.WasGrounded:
				if !loc.Landing {
					loc.Landing = true
					loc.LandingFall = loc.FallDistance(height)
				}
				if loc.AirTime >= m.Ground.MinAirTime {
					w.Events().Push(ecs.Event{Type: ecs.EventLanded, Entity: e, Value: loc.AirTime})
					logger.Debug("landed", zap.Stringer("entity", e), zap.Float64("air_time", loc.AirTime),
						zap.Float64("fall", loc.LandingFall))
				}
				loc.ResetAirState(height)
			case loc.Grounded:
				loc.SinceGrounded = 0
			default:
				if loc.WasGrounded {
					loc.FallStartHeight = height
					loc.SinceGrounded = 0
				}
				if body.Velocity.Y > 0 && height > loc.FallStartHeight {
					loc.FallStartHeight = height
				}
				loc.AirTime += dt
				loc.SinceGrounded += dt
			}

			if loc.Mode.Base() {
				loc.Mode = loc.BaseMode()
			}
		})
}

// slopeAngle is the angle of the ground under the body in degrees.
func slopeAngle(loc *component.Locomotion) float64 {
	if !loc.Grounded {
		return 0
	}
	return common.Angle(loc.GroundNormal, common.Up)
}

func clampPositive(v float64) float64 {
	return math.Max(0, v)
}
