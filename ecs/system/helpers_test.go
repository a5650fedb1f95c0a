package system

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
)

const testDT = 0.02

// box is an axis-aligned solid in the fake physics world.
type box struct {
	e        ecs.Entity
	min, max common.Vec3
	layer    component.LayerMask
	tag      string
	dynamic  bool
	mass     float64
}

// fakePhysics answers queries against boxes. Sphere casts are approximated
// by casting a ray against boxes grown by the radius.
type fakePhysics struct {
	boxes    []box
	impulses map[ecs.Entity]common.Vec3
}

func newFakePhysics() *fakePhysics {
	return &fakePhysics{impulses: make(map[ecs.Entity]common.Vec3)}
}

func (f *fakePhysics) add(b box) {
	f.boxes = append(f.boxes, b)
}

func (f *fakePhysics) Raycast(origin, dir common.Vec3, dist float64, mask component.LayerMask, ignore ecs.Entity) (Hit, bool) {
	return f.SphereCast(origin, 0, dir, dist, mask, ignore)
}

func (f *fakePhysics) SphereCast(origin common.Vec3, radius float64, dir common.Vec3, dist float64, mask component.LayerMask, ignore ecs.Entity) (Hit, bool) {
	d := dir.Normalized()
	if d.IsZero() {
		return Hit{}, false
	}
	grow := common.V3(radius, radius, radius)
	var best Hit
	found := false
	for _, b := range f.boxes {
		if b.e == ignore || !mask.Has(b.layer) {
			continue
		}
		t, n, ok := rayBox(origin, d, b.min.Sub(grow), b.max.Add(grow))
		if !ok || t > dist {
			continue
		}
		if found && t >= best.Distance {
			continue
		}
		found = true
		best = Hit{
			Entity:   b.e,
			Point:    origin.Add(d.Scale(t)).Sub(n.Scale(radius)),
			Normal:   n,
			Distance: t,
			Layer:    b.layer,
			Tag:      b.tag,
			Top:      b.max.Y,
			Dynamic:  b.dynamic,
			Mass:     b.mass,
		}
	}
	return best, found
}

func (f *fakePhysics) OverlapSphere(center common.Vec3, radius float64, mask component.LayerMask) []Hit {
	var hits []Hit
	for _, b := range f.boxes {
		if !b.dynamic || !mask.Has(b.layer) {
			continue
		}
		mid := b.min.Add(b.max).Scale(0.5)
		if mid.Dist(center) > radius {
			continue
		}
		hits = append(hits, Hit{Entity: b.e, Point: mid, Layer: b.layer, Dynamic: true, Mass: b.mass})
	}
	return hits
}

func (f *fakePhysics) ApplyImpulse(e ecs.Entity, impulse, at common.Vec3) {
	f.impulses[e] = f.impulses[e].Add(impulse)
}

// rayBox is the slab test. It returns the entry distance and the normal of
// the entered face; a ray starting inside reports distance zero.
func rayBox(origin, dir, lo, hi common.Vec3) (float64, common.Vec3, bool) {
	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	l := [3]float64{lo.X, lo.Y, lo.Z}
	h := [3]float64{hi.X, hi.Y, hi.Z}

	tmin, tmax := math.Inf(-1), math.Inf(1)
	axis, sign := -1, 0.0
	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < l[i] || o[i] > h[i] {
				return 0, common.Zero, false
			}
			continue
		}
		t1 := (l[i] - o[i]) / d[i]
		t2 := (h[i] - o[i]) / d[i]
		s := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tmin {
			tmin, axis, sign = t1, i, s
		}
		tmax = math.Min(tmax, t2)
	}
	if tmax < 0 || tmin > tmax || axis < 0 {
		return 0, common.Zero, false
	}
	var n [3]float64
	n[axis] = sign
	return math.Max(tmin, 0), common.V3(n[0], n[1], n[2]), true
}

// sim runs the controller systems against the fake world with a simple
// kinematic integrator standing in for the physics step.
type sim struct {
	t       *testing.T
	w       *ecs.World
	phys    *fakePhysics
	sched   *ecs.Scheduler
	effects *EffectsSystem
	player  ecs.Entity
	events  []ecs.Event
	held    map[component.Action]bool
}

func newSim(t *testing.T) *sim {
	t.Helper()
	s := &sim{t: t, w: ecs.NewWorld(), phys: newFakePhysics()}
	s.effects = NewEffectsSystem()
	s.effects.OnAny(func(evt ecs.Event) { s.events = append(s.events, evt) })
	s.sched = ecs.NewScheduler(
		NewGroundSensorSystem(s.phys),
		NewLocomotionSystem(s.phys),
		kinematicStep{s},
		NewStaminaSystem(),
		s.effects,
	)
	s.floor()
	return s
}

// floor adds a wide ground slab with its top at y=0.
func (s *sim) floor() {
	e := ecs.CreateEntity(s.w)
	s.phys.add(box{e: e, min: common.V3(-100, -50, -100), max: common.V3(100, 0, 100), layer: component.LayerGround})
}

func (s *sim) wall(min, max common.Vec3, tag string) ecs.Entity {
	e := ecs.CreateEntity(s.w)
	s.phys.add(box{e: e, min: min, max: max, layer: component.LayerGround, tag: tag})
	return e
}

func (s *sim) prop(min, max common.Vec3, mass float64) ecs.Entity {
	e := ecs.CreateEntity(s.w)
	s.phys.add(box{e: e, min: min, max: max, layer: component.LayerProp, dynamic: true, mass: mass})
	return e
}

// spawn adds a controller with its feet at pos. tweak may adjust the
// tuning before it is attached.
func (s *sim) spawn(pos common.Vec3, st *component.Stamina, tweak func(*component.Movement)) ecs.Entity {
	s.t.Helper()
	m := component.DefaultMovement()
	m.Abilities.Unstick = false
	m.Abilities.StepClimb = false
	if tweak != nil {
		tweak(&m)
	}
	loc := component.NewLocomotion()
	loc.FallStartHeight = pos.Y

	e := ecs.CreateEntity(s.w)
	require.NoError(s.t, ecs.Add(s.w, e, component.MovementComponent.Kind(), &m))
	require.NoError(s.t, ecs.Add(s.w, e, component.LocomotionComponent.Kind(), loc))
	require.NoError(s.t, ecs.Add(s.w, e, component.BodyComponent.Kind(), &component.Body{
		Position: pos, Radius: 0.5, Height: m.Crouch.StandingHeight, Mass: 1,
		GravityEnabled: true, ColliderEnabled: true, Layer: component.LayerPlayer,
	}))
	require.NoError(s.t, ecs.Add(s.w, e, component.InputComponent.Kind(), &component.Input{}))
	require.NoError(s.t, ecs.Add(s.w, e, component.ContactsComponent.Kind(), &component.Contacts{}))
	require.NoError(s.t, ecs.Add(s.w, e, component.GrabComponent.Kind(), &component.Grab{}))
	if st != nil {
		require.NoError(s.t, ecs.Add(s.w, e, component.StaminaComponent.Kind(), st))
	}
	s.player = e
	return e
}

func (s *sim) loc() *component.Locomotion {
	l, ok := ecs.Get(s.w, s.player, component.LocomotionComponent.Kind())
	require.True(s.t, ok)
	return l
}

func (s *sim) body() *component.Body {
	b, ok := ecs.Get(s.w, s.player, component.BodyComponent.Kind())
	require.True(s.t, ok)
	return b
}

func (s *sim) input() *component.Input {
	in, ok := ecs.Get(s.w, s.player, component.InputComponent.Kind())
	require.True(s.t, ok)
	return in
}

// press taps actions: pressed and held for the next tick only.
func (s *sim) press(actions ...component.Action) {
	in := s.input()
	for _, a := range actions {
		in.Actions[a] = component.ActionState{Pressed: true, Held: true}
	}
}

// hold keeps actions held until release.
func (s *sim) hold(actions ...component.Action) {
	if s.held == nil {
		s.held = make(map[component.Action]bool)
	}
	for _, a := range actions {
		s.held[a] = true
		s.input().Actions[a].Held = true
	}
}

func (s *sim) release(actions ...component.Action) {
	for _, a := range actions {
		delete(s.held, a)
		s.input().Actions[a] = component.ActionState{Released: true}
	}
}

func (s *sim) tick() {
	s.sched.Step(s.w, testDT)
	in := s.input()
	for i := range in.Actions {
		in.Actions[i] = component.ActionState{Held: s.held[component.Action(i)]}
	}
}

func (s *sim) run(n int) {
	for i := 0; i < n; i++ {
		s.tick()
	}
}

// settle ticks until the controller reports grounded.
func (s *sim) settle() {
	s.t.Helper()
	for i := 0; i < 200; i++ {
		s.tick()
		if s.loc().Grounded {
			return
		}
	}
	s.t.Fatalf("controller never landed")
}

func (s *sim) eventsOf(typ ecs.EventType) []ecs.Event {
	var out []ecs.Event
	for _, evt := range s.events {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}

// kinematicStep integrates positions and pushes the controller out of solid
// boxes, reporting contacts the way the real physics world does.
type kinematicStep struct{ s *sim }

const touchSlop = 1e-3

func (k kinematicStep) Update(w *ecs.World) {
	dt := w.Delta()
	ecs.ForEach2(w, component.BodyComponent.Kind(), component.ContactsComponent.Kind(), func(e ecs.Entity, b *component.Body, contacts *component.Contacts) {
		move := b.Velocity.Scale(dt)
		b.Position = b.Position.Add(move)
		if !b.ColliderEnabled {
			return
		}
		for i, bx := range k.s.phys.boxes {
			if bx.dynamic {
				continue
			}
			id := uint64(i + 1)
			lo := common.V3(b.Position.X-b.Radius, b.Position.Y, b.Position.Z-b.Radius)
			hi := common.V3(b.Position.X+b.Radius, b.Position.Y+b.Height, b.Position.Z+b.Radius)
			n, depth, touching := overlap(lo, hi, bx.min, bx.max, move)
			if !touching {
				contacts.Notify(component.ContactEnd, component.Contact{ID: id})
				continue
			}
			if depth > 0 {
				b.Position = b.Position.Add(n.Scale(depth))
				if into := b.Velocity.Dot(n); into < 0 {
					b.Velocity = b.Velocity.Sub(n.Scale(into))
				}
			}
			contacts.Notify(component.ContactBegin, component.Contact{
				ID: id, Other: uint64(bx.e), Normal: n, Layer: bx.layer, Tag: bx.tag,
			})
		}
	})
}

// overlap returns the push-out normal and depth for two boxes, and whether
// they touch within touchSlop. The push-out axis is the one the mover was
// still separated on before moving by move, so fast falls resolve upward.
func overlap(alo, ahi, blo, bhi, move common.Vec3) (common.Vec3, float64, bool) {
	pen := penetration(alo, ahi, blo, bhi)
	for _, p := range pen {
		if p < -touchSlop {
			return common.Zero, 0, false
		}
	}
	prev := penetration(alo.Sub(move), ahi.Sub(move), blo, bhi)
	axis := -1
	for i := 0; i < 3; i++ {
		if prev[i] <= touchSlop && (axis < 0 || prev[i] < prev[axis]) {
			axis = i
		}
	}
	if axis < 0 {
		axis = 1
		for i := 0; i < 3; i++ {
			if pen[i] < pen[axis] {
				axis = i
			}
		}
	}
	ac := alo.Add(ahi).Scale(0.5)
	bc := blo.Add(bhi).Scale(0.5)
	delta := [3]float64{ac.X - bc.X, ac.Y - bc.Y, ac.Z - bc.Z}
	var n [3]float64
	n[axis] = 1
	if delta[axis] < 0 {
		n[axis] = -1
	}
	return common.V3(n[0], n[1], n[2]), math.Max(pen[axis], 0), true
}

func penetration(alo, ahi, blo, bhi common.Vec3) [3]float64 {
	return [3]float64{
		math.Min(ahi.X, bhi.X) - math.Max(alo.X, blo.X),
		math.Min(ahi.Y, bhi.Y) - math.Max(alo.Y, blo.Y),
		math.Min(ahi.Z, bhi.Z) - math.Max(alo.Z, blo.Z),
	}
}
