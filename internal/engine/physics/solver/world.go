// Package solver implements the rigid-body world behind the physics
// bridge. It integrates dynamic bodies with semi-implicit Euler,
// resolves contacts with sequential impulses, and reports pair events
// through a ContactListener.
//
// The feature set is deliberately narrow. Dynamic bodies have rotation
// locked, mesh shapes are static-only, and the broad phase is a swept
// AABB test over all pairs.
package solver

import (
	"runtime"
	"sync"

	"github.com/mechanicchickendev/froggi/pkg/math"
)

// Settings configures a World.
type Settings struct {
	Gravity math.Vec3
}

// World owns bodies and steps the simulation. All exported methods
// must be called from a single goroutine; Step fans narrow-phase work
// out to an internal worker pool but returns only when the step is
// complete.
type World struct {
	gravity  math.Vec3
	bodies   []*Body
	byID     map[BodyID]*Body
	nextID   BodyID
	listener ContactListener

	// touching carries pair identity across steps to split added
	// from persisted events.
	touching map[pairKey]struct{}
}

// NewWorld creates an empty world.
func NewWorld(s Settings) *World {
	return &World{
		gravity:  s.Gravity,
		byID:     make(map[BodyID]*Body),
		nextID:   1,
		touching: make(map[pairKey]struct{}),
	}
}

// SetContactListener installs the pair event receiver. Pass nil to
// silence events.
func (w *World) SetContactListener(l ContactListener) {
	w.listener = l
}

// CreateBody adds a body and returns it. Zero Group and Mask default
// to "collide with everything" so plain bodies need no filter setup.
func (w *World) CreateBody(s BodySettings) *Body {
	if s.Group == 0 {
		s.Group = ^uint32(0)
	}
	if s.Mask == 0 {
		s.Mask = ^uint32(0)
	}
	rot := s.Rotation
	if rot == (math.Quat{}) {
		rot = math.QuatIdentity()
	}
	mass := s.Mass
	if mass <= 0 {
		mass = 1
	}

	b := &Body{
		id:             w.nextID,
		shape:          s.Shape,
		motion:         s.Motion,
		layer:          s.Layer,
		position:       s.Position,
		rotation:       rot,
		friction:       s.Friction,
		restitution:    s.Restitution,
		gravityFactor:  s.GravityFactor,
		linearDamping:  s.LinearDamping,
		angularDamping: s.AngularDamping,
		inertia:        s.Shape.Inertia(mass),
		sensor:         s.Sensor,
		group:          s.Group,
		mask:           s.Mask,
		userData:       s.UserData,
	}
	if s.Motion == Dynamic {
		b.invMass = 1 / mass
	}
	w.nextID++
	w.bodies = append(w.bodies, b)
	w.byID[b.id] = b
	return b
}

// RemoveBody detaches the body from the world.
func (w *World) RemoveBody(id BodyID) {
	b, ok := w.byID[id]
	if !ok {
		return
	}
	delete(w.byID, id)
	for i, cur := range w.bodies {
		if cur == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	for key := range w.touching {
		if key.lo == id || key.hi == id {
			delete(w.touching, key)
		}
	}
}

// Body returns the body with the given id, or nil.
func (w *World) Body(id BodyID) *Body {
	return w.byID[id]
}

// Bodies returns the live bodies in creation order.
func (w *World) Bodies() []*Body { return w.bodies }

// Gravity returns the world gravity vector.
func (w *World) Gravity() math.Vec3 { return w.gravity }

// Step advances the simulation by dt split into subSteps sub-steps.
// Contact events for the whole step are dispatched once at the end.
func (w *World) Step(dt float32, subSteps int) {
	if subSteps < 1 {
		subSteps = 1
	}
	h := dt / float32(subSteps)

	stepContacts := make(map[pairKey]Contact)
	for i := 0; i < subSteps; i++ {
		w.integrate(h)
		w.resolve(stepContacts)
	}
	for _, b := range w.bodies {
		b.force = math.Vec3{}
	}
	w.dispatch(stepContacts)
}

func (w *World) integrate(h float32) {
	for _, b := range w.bodies {
		if b.motion != Dynamic {
			continue
		}
		accel := w.gravity.Scale(b.gravityFactor).Add(b.force.Scale(b.invMass))
		b.velocity = b.velocity.Add(accel.Scale(h))
		b.velocity = b.velocity.Scale(1 / (1 + h*b.linearDamping))
		b.position = b.position.Add(b.velocity.Scale(h))
	}
}

// parallelCutoff is the pair count above which narrow-phase tests are
// spread over the worker pool.
const parallelCutoff = 64

func (w *World) resolve(contacts map[pairKey]Contact) {
	pairs := w.candidatePairs()

	found := w.narrowPhase(pairs)

	for _, c := range found {
		if !w.accept(c.BodyA, c.BodyB) {
			continue
		}
		contacts[makePairKey(c.BodyA.id, c.BodyB.id)] = c
		if c.BodyA.sensor || c.BodyB.sensor {
			continue
		}
		applyImpulse(c)
	}
}

type candidate struct {
	a, b *Body
}

func (w *World) candidatePairs() []candidate {
	var pairs []candidate
	for i := 0; i < len(w.bodies); i++ {
		a := w.bodies[i]
		boundsA := a.Bounds().Expand(0.01)
		for j := i + 1; j < len(w.bodies); j++ {
			b := w.bodies[j]
			if a.layer == LayerNonMoving && b.layer == LayerNonMoving {
				continue
			}
			if !boundsA.Overlaps(b.Bounds()) {
				continue
			}
			pairs = append(pairs, candidate{a: a, b: b})
		}
	}
	return pairs
}

// narrowPhase tests candidates, in parallel when the batch is large.
// Detection only reads body state, so workers need no locking.
func (w *World) narrowPhase(pairs []candidate) []Contact {
	if len(pairs) <= parallelCutoff {
		var out []Contact
		for _, p := range pairs {
			if c, ok := collide(p.a, p.b); ok {
				out = append(out, c)
			}
		}
		return out
	}

	workers := runtime.NumCPU()
	if workers > len(pairs) {
		workers = len(pairs)
	}
	results := make([][]Contact, workers)
	chunk := (len(pairs) + workers - 1) / workers

	var wg sync.WaitGroup
	for wi := 0; wi < workers; wi++ {
		lo := wi * chunk
		hi := lo + chunk
		if hi > len(pairs) {
			hi = len(pairs)
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(wi, lo, hi int) {
			defer wg.Done()
			for _, p := range pairs[lo:hi] {
				if c, ok := collide(p.a, p.b); ok {
					results[wi] = append(results[wi], c)
				}
			}
		}(wi, lo, hi)
	}
	wg.Wait()

	var out []Contact
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

// accept applies the group/mask filter and the listener veto.
func (w *World) accept(a, b *Body) bool {
	if a.group&b.mask == 0 || b.group&a.mask == 0 {
		return false
	}
	if w.listener != nil && !w.listener.OnContactValidate(a, b) {
		return false
	}
	return true
}

const (
	positionSlop       = 0.005
	positionCorrection = 0.8
)

// applyImpulse resolves one contact with an impulse along the normal,
// Coulomb friction on the tangent, and a positional pushout.
func applyImpulse(c Contact) {
	a, b := c.BodyA, c.BodyB
	invA := dynamicInvMass(a)
	invB := dynamicInvMass(b)
	invSum := invA + invB
	if invSum == 0 {
		return
	}

	n := c.Normal
	rv := b.velocity.Sub(a.velocity)
	alongNormal := rv.Dot(n)

	var j float32
	if alongNormal < 0 {
		e := a.restitution
		if b.restitution < e {
			e = b.restitution
		}
		j = -(1 + e) * alongNormal / invSum
		impulse := n.Scale(j)
		a.velocity = a.velocity.Sub(impulse.Scale(invA))
		b.velocity = b.velocity.Add(impulse.Scale(invB))

		rv = b.velocity.Sub(a.velocity)
		tangent := rv.Sub(n.Scale(rv.Dot(n)))
		if tLen := tangent.Length(); tLen > 1e-6 {
			t := tangent.Scale(1 / tLen)
			jt := -rv.Dot(t) / invSum
			mu := sqrtf(a.friction * b.friction)
			if jt > j*mu {
				jt = j * mu
			} else if jt < -j*mu {
				jt = -j * mu
			}
			fi := t.Scale(jt)
			a.velocity = a.velocity.Sub(fi.Scale(invA))
			b.velocity = b.velocity.Add(fi.Scale(invB))
		}
	}

	pen := c.Penetration - positionSlop
	if pen > 0 {
		corr := n.Scale(pen / invSum * positionCorrection)
		a.position = a.position.Sub(corr.Scale(invA))
		b.position = b.position.Add(corr.Scale(invB))
	}
}

func dynamicInvMass(b *Body) float32 {
	if b.motion != Dynamic {
		return 0
	}
	return b.invMass
}

func (w *World) dispatch(contacts map[pairKey]Contact) {
	if w.listener == nil {
		w.touching = keysOf(contacts)
		return
	}
	for key, c := range contacts {
		if _, was := w.touching[key]; was {
			w.listener.OnContactPersisted(c)
		} else {
			w.listener.OnContactAdded(c)
		}
	}
	w.touching = keysOf(contacts)
}

func keysOf(m map[pairKey]Contact) map[pairKey]struct{} {
	out := make(map[pairKey]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}
