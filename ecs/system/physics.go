package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/logger"
)

// The chipmunk space is two dimensional: X is lateral, Y is up and Z is
// dropped. Bodies are axis-aligned boxes whose half width is Body.Radius.

const (
	collisionTypeController cp.CollisionType = iota + 1
	collisionTypeSolid
	collisionTypeProp
)

const (
	solverIterations = 20
	controllerRound  = 0.05
)

type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	// world is only set while Update runs so collision callbacks can reach
	// the contact components.
	world *ecs.World

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]ecs.Entity
	groups   map[ecs.Entity]uint
	pairs    map[shapePair]uint64
	pending  map[ecs.Entity]pendingImpulse

	nextGroup   uint
	nextContact uint64
}

type bodyInfo struct {
	body       *cp.Body
	shape      *cp.Shape
	static     bool
	controller bool
	gravity    bool

	radius, height float64
	layer          component.LayerMask
	tag            string
	collider       bool
}

type shapePair struct {
	a, b *cp.Shape
}

type pendingImpulse struct {
	impulse, at cp.Vector
}

func NewPhysicsSystem(gravity float64) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = solverIterations
	space.SetGravity(cp.Vector{X: 0, Y: -gravity})
	return &PhysicsSystem{
		space:     space,
		entities:  make(map[ecs.Entity]*bodyInfo),
		shapes:    make(map[*cp.Shape]ecs.Entity),
		groups:    make(map[ecs.Entity]uint),
		pairs:     make(map[shapePair]uint64),
		pending:   make(map[ecs.Entity]pendingImpulse),
		nextGroup: 1,
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil || ps.space == nil {
		return
	}
	dt := w.Delta()
	if dt <= 0 {
		return
	}

	ps.world = w
	defer func() { ps.world = nil }()

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.pushState(w)
	ps.flushImpulses()

	ps.space.Step(dt)

	ps.pullState(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}
	for _, other := range []cp.CollisionType{collisionTypeSolid, collisionTypeProp, collisionTypeController} {
		h := ps.space.NewCollisionHandler(collisionTypeController, other)
		h.UserData = ps
		h.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			if sys, ok := userData.(*PhysicsSystem); ok {
				sys.notify(arb, component.ContactBegin)
			}
			return true
		}
		h.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			if sys, ok := userData.(*PhysicsSystem); ok {
				sys.notify(arb, component.ContactStay)
			}
			return true
		}
		h.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
			if sys, ok := userData.(*PhysicsSystem); ok {
				sys.notify(arb, component.ContactEnd)
			}
		}
	}
	ps.handlersReady = true
}

// notify forwards a collision callback to the controller's contact set. Both
// orientations of a pair map to the same contact id.
func (ps *PhysicsSystem) notify(arb *cp.Arbiter, phase component.ContactPhase) {
	shapeA, shapeB := arb.Shapes()
	n := arb.Normal()
	ctrlShape, otherShape := shapeA, shapeB
	info := ps.infoFor(shapeA)
	if info == nil || !info.controller {
		ctrlShape, otherShape = shapeB, shapeA
		info = ps.infoFor(shapeB)
		n = n.Neg()
	}
	if info == nil || !info.controller || ps.world == nil {
		return
	}

	key := shapePair{a: ctrlShape, b: otherShape}
	id, known := ps.pairs[key]
	if !known {
		if phase == component.ContactEnd {
			return
		}
		ps.nextContact++
		id = ps.nextContact
		ps.pairs[key] = id
	}
	if phase == component.ContactEnd {
		delete(ps.pairs, key)
	}

	contact := component.Contact{
		ID: id,
		// Arbiter normals point from A to B; the surface normal faces the controller.
		Normal: common.V3(-n.X, -n.Y, 0).Normalized(),
	}
	if set := arb.ContactPointSet(); set.Count > 0 {
		p := set.Points[0].PointB
		contact.Point = common.V3(p.X, p.Y, 0)
	}
	if otherEnt, ok := ps.shapes[otherShape]; ok {
		contact.Other = uint64(otherEnt)
		if other := ps.entities[otherEnt]; other != nil {
			contact.Layer = other.layer
			contact.Tag = other.tag
		}
	}

	ctrl := ps.shapes[ctrlShape]
	contacts, ok := ecs.Get(ps.world, ctrl, component.ContactsComponent.Kind())
	if !ok {
		return
	}
	contacts.Notify(phase, contact)
}

func (ps *PhysicsSystem) infoFor(shape *cp.Shape) *bodyInfo {
	e, ok := ps.shapes[shape]
	if !ok {
		return nil
	}
	return ps.entities[e]
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach(w, component.BodyComponent.Kind(), func(e ecs.Entity, body *component.Body) {
		info := ps.entities[e]
		if info != nil && !info.static && (info.radius != body.Radius || info.height != body.Height) {
			ps.rebuildShape(e, info, body)
		}
		if info != nil {
			return
		}
		static := ecs.Has(w, e, component.StaticTagComponent.Kind())
		controller := ecs.Has(w, e, component.LocomotionComponent.Kind())
		info = ps.createBodyInfo(e, body, static, controller)
		if info == nil {
			return
		}
		ps.entities[e] = info
		ps.shapes[info.shape] = e
		logger.Debug("physics body added", zap.Stringer("entity", e), zap.Bool("static", static), zap.Bool("controller", controller))
	})
}

func (ps *PhysicsSystem) groupOf(e ecs.Entity) uint {
	g, ok := ps.groups[e]
	if !ok {
		g = ps.nextGroup
		ps.nextGroup++
		ps.groups[e] = g
	}
	return g
}

func (ps *PhysicsSystem) createBodyInfo(e ecs.Entity, body *component.Body, static, controller bool) *bodyInfo {
	width, height := body.Radius*2, body.Height
	if width <= 0 || height <= 0 {
		return nil
	}

	info := &bodyInfo{
		static:     static,
		controller: controller,
		gravity:    body.GravityEnabled,
		radius:     body.Radius,
		height:     body.Height,
		layer:      body.Layer,
		tag:        body.Tag,
		collider:   true,
	}

	if static {
		bb := cp.BB{
			L: body.Position.X - body.Radius,
			B: body.Position.Y,
			R: body.Position.X + body.Radius,
			T: body.Position.Y + body.Height,
		}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetFriction(1)
		shape.SetCollisionType(collisionTypeSolid)
		ps.applyFilter(e, shape, info)
		ps.space.AddShape(shape)
		info.body = ps.space.StaticBody
		info.shape = shape
		return info
	}

	mass := body.Mass
	if mass <= 0 {
		mass = 1
	}
	moment := cp.MomentForBox(mass, width, height)
	if controller {
		// Controllers never rotate.
		moment = math.Inf(1)
	}
	cpBody := cp.NewBody(mass, moment)
	cpBody.SetPosition(cp.Vector{X: body.Position.X, Y: body.Position.Y + height/2})
	cpBody.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping, dt float64) {
		// Controllers integrate their own vertical motion.
		if info.controller || !info.gravity {
			gravity = cp.Vector{}
		}
		cp.BodyUpdateVelocity(b, gravity, damping, dt)
	})
	ps.space.AddBody(cpBody)
	info.body = cpBody
	info.shape = ps.newBoxShape(e, info, width, height)
	return info
}

func (ps *PhysicsSystem) newBoxShape(e ecs.Entity, info *bodyInfo, width, height float64) *cp.Shape {
	round := 0.0
	if info.controller {
		round = controllerRound
	}
	shape := cp.NewBox(info.body, width, height, round)
	if info.controller {
		shape.SetFriction(0)
		shape.SetCollisionType(collisionTypeController)
	} else {
		shape.SetFriction(0.7)
		shape.SetCollisionType(collisionTypeProp)
	}
	ps.applyFilter(e, shape, info)
	ps.space.AddShape(shape)
	return shape
}

func (ps *PhysicsSystem) applyFilter(e ecs.Entity, shape *cp.Shape, info *bodyInfo) {
	filter := cp.ShapeFilter{Group: ps.groupOf(e), Categories: uint(info.layer), Mask: cp.ALL_CATEGORIES}
	if !info.collider {
		filter.Categories, filter.Mask = 0, 0
	}
	shape.SetFilter(filter)
}

// rebuildShape swaps the box when a crouch or stand changes the body size.
func (ps *PhysicsSystem) rebuildShape(e ecs.Entity, info *bodyInfo, body *component.Body) {
	ps.dropPairs(info.shape)
	ps.space.RemoveShape(info.shape)
	delete(ps.shapes, info.shape)

	info.radius, info.height = body.Radius, body.Height
	info.shape = ps.newBoxShape(e, info, body.Radius*2, body.Height)
	ps.shapes[info.shape] = e
	if contacts, ok := ecs.Get(ps.world, e, component.ContactsComponent.Kind()); ok && info.controller {
		contacts.Reset()
	}
}

func (ps *PhysicsSystem) dropPairs(shape *cp.Shape) {
	for key := range ps.pairs {
		if key.a == shape || key.b == shape {
			delete(ps.pairs, key)
		}
	}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.BodyComponent.Kind()) {
			continue
		}
		if info.shape != nil {
			ps.dropPairs(info.shape)
			ps.space.RemoveShape(info.shape)
			delete(ps.shapes, info.shape)
		}
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
		delete(ps.groups, e)
		delete(ps.pending, e)
		logger.Debug("physics body removed", zap.Stringer("entity", e))
	}
}

// pushState copies the authoritative body state into the space.
func (ps *PhysicsSystem) pushState(w *ecs.World) {
	for e, info := range ps.entities {
		if info.static {
			continue
		}
		body, ok := ecs.Get(w, e, component.BodyComponent.Kind())
		if !ok {
			continue
		}
		info.gravity = body.GravityEnabled
		if info.collider != body.ColliderEnabled || info.layer != body.Layer {
			info.collider = body.ColliderEnabled
			info.layer = body.Layer
			ps.applyFilter(e, info.shape, info)
			if !info.collider {
				ps.dropPairs(info.shape)
			}
		}
		info.tag = body.Tag
		info.body.SetPosition(cp.Vector{X: body.Position.X, Y: body.Position.Y + body.Height/2})
		info.body.SetVelocityVector(cp.Vector{X: body.Velocity.X, Y: body.Velocity.Y})
		info.body.Activate()
	}
}

func (ps *PhysicsSystem) flushImpulses() {
	for e, imp := range ps.pending {
		if info := ps.entities[e]; info != nil && !info.static {
			info.body.ApplyImpulseAtWorldPoint(imp.impulse, imp.at)
		}
		delete(ps.pending, e)
	}
}

// pullState copies the solved state back. Z is flattened.
func (ps *PhysicsSystem) pullState(w *ecs.World) {
	for e, info := range ps.entities {
		if info.static {
			continue
		}
		body, ok := ecs.Get(w, e, component.BodyComponent.Kind())
		if !ok {
			continue
		}
		pos := info.body.Position()
		vel := info.body.Velocity()
		body.Position = common.V3(pos.X, pos.Y-body.Height/2, 0)
		body.Velocity = common.V3(vel.X, vel.Y, 0)
	}
}

func (ps *PhysicsSystem) queryFilter(mask component.LayerMask, ignore ecs.Entity) cp.ShapeFilter {
	f := cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: uint(mask)}
	if g, ok := ps.groups[ignore]; ok {
		f.Group = g
	}
	return f
}

func (ps *PhysicsSystem) hitFor(shape *cp.Shape) Hit {
	e := ps.shapes[shape]
	hit := Hit{Entity: e, Top: shape.BB().T}
	if info := ps.entities[e]; info != nil {
		hit.Layer = info.layer
		hit.Tag = info.tag
		hit.Dynamic = !info.static && !info.controller
		if !info.static {
			hit.Mass = info.body.Mass()
		}
	}
	return hit
}

func (ps *PhysicsSystem) Raycast(origin, dir common.Vec3, dist float64, mask component.LayerMask, ignore ecs.Entity) (Hit, bool) {
	return ps.SphereCast(origin, 0, dir, dist, mask, ignore)
}

func (ps *PhysicsSystem) SphereCast(origin common.Vec3, radius float64, dir common.Vec3, dist float64, mask component.LayerMask, ignore ecs.Entity) (Hit, bool) {
	if ps == nil || ps.space == nil || dist <= 0 {
		return Hit{}, false
	}
	d := common.V3(dir.X, dir.Y, 0).Normalized()
	if d.IsZero() {
		return Hit{}, false
	}
	start := cp.Vector{X: origin.X, Y: origin.Y}
	end := cp.Vector{X: origin.X + d.X*dist, Y: origin.Y + d.Y*dist}
	info := ps.space.SegmentQueryFirst(start, end, radius, ps.queryFilter(mask, ignore))
	if info.Shape == nil {
		return Hit{}, false
	}
	hit := ps.hitFor(info.Shape)
	hit.Point = common.V3(info.Point.X, info.Point.Y, origin.Z)
	hit.Normal = common.V3(info.Normal.X, info.Normal.Y, 0).Normalized()
	hit.Distance = info.Alpha * dist
	return hit, true
}

func (ps *PhysicsSystem) OverlapSphere(center common.Vec3, radius float64, mask component.LayerMask) []Hit {
	if ps == nil || ps.space == nil || radius <= 0 {
		return nil
	}
	var hits []Hit
	filter := cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: uint(mask)}
	c := cp.Vector{X: center.X, Y: center.Y}
	ps.space.BBQuery(cp.NewBBForCircle(c, radius), filter, func(shape *cp.Shape, _ interface{}) {
		info := shape.PointQuery(c)
		if info.Distance > radius {
			return
		}
		hit := ps.hitFor(shape)
		if !hit.Dynamic {
			return
		}
		hit.Point = common.V3(info.Point.X, info.Point.Y, center.Z)
		hit.Distance = math.Max(info.Distance, 0)
		hits = append(hits, hit)
	}, nil)
	return hits
}

// ApplyImpulse is deferred to the next step so it lands after the body state
// has been pushed.
func (ps *PhysicsSystem) ApplyImpulse(e ecs.Entity, impulse, at common.Vec3) {
	if ps == nil {
		return
	}
	p := ps.pending[e]
	p.impulse = p.impulse.Add(cp.Vector{X: impulse.X, Y: impulse.Y})
	p.at = cp.Vector{X: at.X, Y: at.Y}
	ps.pending[e] = p
}
