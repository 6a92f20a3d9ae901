package solver

import "github.com/mechanicchickendev/froggi/pkg/math"

// Contact describes one touching pair for a step. Normal points from
// BodyA toward BodyB.
type Contact struct {
	BodyA, BodyB *Body
	Point        math.Vec3
	Normal       math.Vec3
	Penetration  float32
}

// ContactListener receives pair events during Step. Callbacks run on
// the stepping goroutine and must not add or remove bodies.
type ContactListener interface {
	// OnContactValidate may reject a detected contact. Rejected
	// contacts generate neither response nor events.
	OnContactValidate(a, b *Body) bool
	// OnContactAdded fires the first step a pair touches.
	OnContactAdded(c Contact)
	// OnContactPersisted fires on steps after the first while the
	// pair keeps touching.
	OnContactPersisted(c Contact)
}

type pairKey struct {
	lo, hi BodyID
}

func makePairKey(a, b BodyID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}
