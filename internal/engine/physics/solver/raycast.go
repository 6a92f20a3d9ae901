package solver

import "github.com/mechanicchickendev/froggi/pkg/math"

// RayHit describes the nearest body intersected by a ray.
type RayHit struct {
	Body     *Body
	Point    math.Vec3
	Normal   math.Vec3
	Distance float32
}

// CastRay finds the nearest body hit within maxDist along dir. Every
// body is tested, sensors included. dir need not be normalized.
func (w *World) CastRay(origin, dir math.Vec3, maxDist float32) (RayHit, bool) {
	return w.CastRayFiltered(origin, dir, maxDist, nil)
}

// CastRayFiltered is CastRay with a body predicate. Bodies for which
// skip returns true are never tested; a cast that starts inside a
// body uses this to keep that body out of the result.
func (w *World) CastRayFiltered(origin, dir math.Vec3, maxDist float32, skip func(*Body) bool) (RayHit, bool) {
	length := dir.Length()
	if length < 1e-6 || maxDist <= 0 {
		return RayHit{}, false
	}
	d := dir.Scale(1 / length)

	best := RayHit{Distance: maxDist}
	found := false
	for _, b := range w.bodies {
		if skip != nil && skip(b) {
			continue
		}
		if t, n, ok := rayBody(origin, d, best.Distance, b); ok {
			best = RayHit{
				Body:     b,
				Point:    origin.Add(d.Scale(t)),
				Normal:   n,
				Distance: t,
			}
			found = true
		}
	}
	if !found {
		return RayHit{}, false
	}
	return best, true
}

// rayBody returns the entry distance and surface normal when the ray
// hits the body closer than tMax.
func rayBody(origin, dir math.Vec3, tMax float32, b *Body) (float32, math.Vec3, bool) {
	switch s := b.shape.(type) {
	case Sphere:
		return raySphere(origin, dir, tMax, b.position, s.Radius)
	case Box:
		return rayAABB(origin, dir, tMax, b.Bounds())
	case Capsule:
		return rayCapsule(origin, dir, tMax, b, s)
	case Mesh:
		return rayMesh(origin, dir, tMax, b, s)
	}
	return 0, math.Vec3{}, false
}

func raySphere(origin, dir math.Vec3, tMax float32, center math.Vec3, radius float32) (float32, math.Vec3, bool) {
	m := origin.Sub(center)
	bq := m.Dot(dir)
	cq := m.Dot(m) - radius*radius
	if cq > 0 && bq > 0 {
		return 0, math.Vec3{}, false
	}
	disc := bq*bq - cq
	if disc < 0 {
		return 0, math.Vec3{}, false
	}
	t := -bq - sqrtf(disc)
	if t < 0 {
		t = 0
	}
	if t > tMax {
		return 0, math.Vec3{}, false
	}
	point := origin.Add(dir.Scale(t))
	return t, point.Sub(center).Normalize(), true
}

func rayAABB(origin, dir math.Vec3, tMax float32, box AABB) (float32, math.Vec3, bool) {
	tMin := float32(0)
	tExit := tMax
	normal := math.Vec3{}

	axes := [3]struct {
		o, d, lo, hi float32
		n            math.Vec3
	}{
		{origin.X, dir.X, box.Min.X, box.Max.X, math.Vec3{X: 1}},
		{origin.Y, dir.Y, box.Min.Y, box.Max.Y, math.Vec3{Y: 1}},
		{origin.Z, dir.Z, box.Min.Z, box.Max.Z, math.Vec3{Z: 1}},
	}

	for _, ax := range axes {
		if absf(ax.d) < 1e-8 {
			if ax.o < ax.lo || ax.o > ax.hi {
				return 0, math.Vec3{}, false
			}
			continue
		}
		inv := 1 / ax.d
		t1 := (ax.lo - ax.o) * inv
		t2 := (ax.hi - ax.o) * inv
		n := ax.n.Neg()
		if t1 > t2 {
			t1, t2 = t2, t1
			n = ax.n
		}
		if t1 > tMin {
			tMin = t1
			normal = n
		}
		if t2 < tExit {
			tExit = t2
		}
		if tMin > tExit {
			return 0, math.Vec3{}, false
		}
	}
	if normal == (math.Vec3{}) {
		// Origin inside the box.
		normal = dir.Neg()
	}
	return tMin, normal, true
}

// rayCapsule tests the swept-sphere segment: the infinite cylinder
// first, then the cap spheres.
func rayCapsule(origin, dir math.Vec3, tMax float32, b *Body, s Capsule) (float32, math.Vec3, bool) {
	p1, p2 := s.axis(b.position, b.rotation)
	axis := p2.Sub(p1)
	axisLenSq := axis.Dot(axis)

	bestT := tMax
	var bestN math.Vec3
	found := false

	if axisLenSq > 1e-12 {
		// Project out the axis component to reduce to a 2D circle test.
		ax := axis.Scale(1 / sqrtf(axisLenSq))
		m := origin.Sub(p1)
		dPerp := dir.Sub(ax.Scale(dir.Dot(ax)))
		mPerp := m.Sub(ax.Scale(m.Dot(ax)))

		a := dPerp.Dot(dPerp)
		if a > 1e-12 {
			bq := mPerp.Dot(dPerp)
			cq := mPerp.Dot(mPerp) - s.Radius*s.Radius
			disc := bq*bq - a*cq
			if disc >= 0 {
				t := (-bq - sqrtf(disc)) / a
				if t >= 0 && t < bestT {
					hit := origin.Add(dir.Scale(t))
					// Inside the segment span only.
					proj := hit.Sub(p1).Dot(ax)
					if proj >= 0 && proj*proj <= axisLenSq {
						onAxis := p1.Add(ax.Scale(proj))
						bestT = t
						bestN = hit.Sub(onAxis).Normalize()
						found = true
					}
				}
			}
		}
	}

	for _, capCenter := range [2]math.Vec3{p1, p2} {
		if t, n, ok := raySphere(origin, dir, bestT, capCenter, s.Radius); ok {
			bestT = t
			bestN = n
			found = true
		}
	}
	if !found {
		return 0, math.Vec3{}, false
	}
	return bestT, bestN, true
}

func rayMesh(origin, dir math.Vec3, tMax float32, b *Body, m Mesh) (float32, math.Vec3, bool) {
	bestT := tMax
	var bestN math.Vec3
	found := false
	for _, tri := range m.Triangles {
		wt := worldTriangle(tri, b.position, b.rotation)
		if t, ok := rayTriangle(origin, dir, wt); ok && t < bestT {
			bestT = t
			n := wt.Normal().Normalize()
			if n.Dot(dir) > 0 {
				n = n.Neg()
			}
			bestN = n
			found = true
		}
	}
	if !found {
		return 0, math.Vec3{}, false
	}
	return bestT, bestN, true
}

// rayTriangle is the Moller-Trumbore intersection, double sided.
func rayTriangle(origin, dir math.Vec3, tri Triangle) (float32, bool) {
	e1 := tri.B.Sub(tri.A)
	e2 := tri.C.Sub(tri.A)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if absf(det) < 1e-9 {
		return 0, false
	}
	inv := 1 / det
	s := origin.Sub(tri.A)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}
