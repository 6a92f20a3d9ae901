package solver

import "github.com/mechanicchickendev/froggi/pkg/math"

// collide runs the narrow phase for one pair. It returns the contact
// with the normal pointing from a toward b, or false when separated.
func collide(a, b *Body) (Contact, bool) {
	c, ok := collideShapes(a, b)
	if !ok {
		return Contact{}, false
	}
	c.BodyA = a
	c.BodyB = b
	return c, true
}

func collideShapes(a, b *Body) (Contact, bool) {
	// Mesh handling is one-sided. Flip so the mesh is always b.
	if _, ok := a.shape.(Mesh); ok {
		if _, alsoMesh := b.shape.(Mesh); !alsoMesh {
			c, hit := collideShapes(b, a)
			if hit {
				c.Normal = c.Normal.Neg()
			}
			return c, hit
		}
		// Mesh versus mesh is not supported; both are static soup.
		return Contact{}, false
	}

	switch sa := a.shape.(type) {
	case Sphere:
		return collideSphereAny(a.position, sa.Radius, b)
	case Capsule:
		return collideCapsuleAny(a, sa, b)
	case Box:
		return collideBoxAny(a, sa, b)
	}
	return Contact{}, false
}

// collideSphereAny tests a sphere at pos against b's shape.
func collideSphereAny(pos math.Vec3, radius float32, b *Body) (Contact, bool) {
	switch sb := b.shape.(type) {
	case Sphere:
		return sphereSphere(pos, radius, b.position, sb.Radius)
	case Box:
		return sphereBox(pos, radius, b)
	case Capsule:
		p1, p2 := sb.axis(b.position, b.rotation)
		closest := closestPointOnSegment(pos, p1, p2)
		return sphereSphere(pos, radius, closest, sb.Radius)
	case Mesh:
		return sphereMesh(pos, radius, b, sb)
	}
	return Contact{}, false
}

func collideCapsuleAny(a *Body, sa Capsule, b *Body) (Contact, bool) {
	a1, a2 := sa.axis(a.position, a.rotation)
	switch sb := b.shape.(type) {
	case Sphere:
		closest := closestPointOnSegment(b.position, a1, a2)
		return sphereSphere(closest, sa.Radius, b.position, sb.Radius)
	case Capsule:
		b1, b2 := sb.axis(b.position, b.rotation)
		pa, pb := closestSegmentSegment(a1, a2, b1, b2)
		return sphereSphere(pa, sa.Radius, pb, sb.Radius)
	case Box:
		// Probe with the capsule point nearest the box.
		box := b.Bounds()
		probe := closestPointOnSegment(box.Center(), a1, a2)
		return sphereBox(probe, sa.Radius, b)
	case Mesh:
		// Probe each triangle with the nearest capsule point.
		best := Contact{}
		found := false
		for _, tri := range sb.Triangles {
			wt := worldTriangle(tri, b.position, b.rotation)
			mid := wt.A.Add(wt.B).Add(wt.C).Scale(1.0 / 3.0)
			probe := closestPointOnSegment(mid, a1, a2)
			if c, ok := sphereTriangle(probe, sa.Radius, wt); ok && (!found || c.Penetration > best.Penetration) {
				best = c
				found = true
			}
		}
		return best, found
	}
	return Contact{}, false
}

func collideBoxAny(a *Body, sa Box, b *Body) (Contact, bool) {
	switch sb := b.shape.(type) {
	case Sphere:
		c, ok := sphereBox(b.position, sb.Radius, a)
		if ok {
			c.Normal = c.Normal.Neg()
		}
		return c, ok
	case Capsule:
		c, ok := collideCapsuleAny(b, sb, a)
		if ok {
			c.Normal = c.Normal.Neg()
		}
		return c, ok
	case Box:
		return boxBox(a.Bounds(), b.Bounds())
	case Mesh:
		return boxMesh(a, sa, b, sb)
	}
	return Contact{}, false
}

// sphereSphere treats both operands as spheres. The degenerate
// coincident case resolves upward.
func sphereSphere(pa math.Vec3, ra float32, pb math.Vec3, rb float32) (Contact, bool) {
	d := pb.Sub(pa)
	distSq := d.Dot(d)
	rsum := ra + rb
	if distSq > rsum*rsum {
		return Contact{}, false
	}
	dist := sqrtf(distSq)
	normal := math.Vec3{Z: 1}
	if dist > 1e-6 {
		normal = d.Scale(1 / dist)
	}
	return Contact{
		Point:       pa.Add(normal.Scale(ra)),
		Normal:      normal,
		Penetration: rsum - dist,
	}, true
}

// sphereBox tests a sphere against b's world AABB. Normal points from
// the sphere toward the box.
func sphereBox(pos math.Vec3, radius float32, b *Body) (Contact, bool) {
	box := b.Bounds()
	closest := closestPointOnAABB(pos, box)
	d := closest.Sub(pos)
	distSq := d.Dot(d)
	if distSq > radius*radius {
		return Contact{}, false
	}
	if distSq > 1e-12 {
		dist := sqrtf(distSq)
		return Contact{
			Point:       closest,
			Normal:      d.Scale(1 / dist),
			Penetration: radius - dist,
		}, true
	}
	// Center inside the box. Push out along the thinnest axis.
	normal, pen := deepestAxis(pos, box)
	return Contact{Point: pos, Normal: normal, Penetration: pen + radius}, true
}

// deepestAxis finds the cheapest exit for a point inside a box. The
// returned normal points from the point toward the nearest face.
func deepestAxis(p math.Vec3, box AABB) (math.Vec3, float32) {
	type exit struct {
		n math.Vec3
		d float32
	}
	exits := [6]exit{
		{math.Vec3{X: -1}, p.X - box.Min.X},
		{math.Vec3{X: 1}, box.Max.X - p.X},
		{math.Vec3{Y: -1}, p.Y - box.Min.Y},
		{math.Vec3{Y: 1}, box.Max.Y - p.Y},
		{math.Vec3{Z: -1}, p.Z - box.Min.Z},
		{math.Vec3{Z: 1}, box.Max.Z - p.Z},
	}
	best := exits[0]
	for _, e := range exits[1:] {
		if e.d < best.d {
			best = e
		}
	}
	return best.n, best.d
}

// boxBox resolves two world AABBs along the axis of least overlap.
// Dynamic bodies have rotation locked, so the axis-aligned test holds.
func boxBox(a, b AABB) (Contact, bool) {
	if !a.Overlaps(b) {
		return Contact{}, false
	}
	ca, cb := a.Center(), b.Center()
	ha, hb := a.HalfExtent(), b.HalfExtent()
	d := cb.Sub(ca)

	ox := ha.X + hb.X - absf(d.X)
	oy := ha.Y + hb.Y - absf(d.Y)
	oz := ha.Z + hb.Z - absf(d.Z)

	normal := math.Vec3{X: sign(d.X)}
	pen := ox
	if oy < pen {
		normal = math.Vec3{Y: sign(d.Y)}
		pen = oy
	}
	if oz < pen {
		normal = math.Vec3{Z: sign(d.Z)}
		pen = oz
	}
	return Contact{
		Point:       ca.Add(cb).Scale(0.5),
		Normal:      normal,
		Penetration: pen,
	}, true
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

// sphereTriangle tests a sphere against one world-space triangle.
// Normal points from the sphere toward the triangle surface.
func sphereTriangle(pos math.Vec3, radius float32, tri Triangle) (Contact, bool) {
	closest := closestPointOnTriangle(pos, tri)
	d := closest.Sub(pos)
	distSq := d.Dot(d)
	if distSq > radius*radius {
		return Contact{}, false
	}
	var normal math.Vec3
	if distSq > 1e-12 {
		normal = d.Scale(1 / sqrtf(distSq))
	} else {
		normal = tri.Normal().Normalize().Neg()
	}
	return Contact{
		Point:       closest,
		Normal:      normal,
		Penetration: radius - sqrtf(distSq),
	}, true
}

// sphereMesh keeps the deepest triangle contact.
func sphereMesh(pos math.Vec3, radius float32, b *Body, m Mesh) (Contact, bool) {
	probe := Sphere{Radius: radius}.Bounds(pos, math.QuatIdentity())
	best := Contact{}
	found := false
	for _, tri := range m.Triangles {
		wt := worldTriangle(tri, b.position, b.rotation)
		if !aabbFromPoints(wt.A, wt.B, wt.C).Overlaps(probe) {
			continue
		}
		if c, ok := sphereTriangle(pos, radius, wt); ok && (!found || c.Penetration > best.Penetration) {
			best = c
			found = true
		}
	}
	return best, found
}

// boxMesh approximates the box by its support sphere along each
// triangle normal. Good enough for crates resting on level geometry.
func boxMesh(a *Body, sa Box, b *Body, m Mesh) (Contact, bool) {
	bounds := a.Bounds()
	best := Contact{}
	found := false
	for _, tri := range m.Triangles {
		wt := worldTriangle(tri, b.position, b.rotation)
		if !aabbFromPoints(wt.A, wt.B, wt.C).Overlaps(bounds) {
			continue
		}
		n := wt.Normal().Normalize()
		h := sa.HalfExtent
		support := absf(n.X)*h.X + absf(n.Y)*h.Y + absf(n.Z)*h.Z
		if c, ok := sphereTriangle(a.position, support, wt); ok && (!found || c.Penetration > best.Penetration) {
			best = c
			found = true
		}
	}
	return best, found
}

// closestSegmentSegment returns the closest points between segments
// p1q1 and p2q2.
func closestSegmentSegment(p1, q1, p2, q2 math.Vec3) (math.Vec3, math.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float32
	if a <= 1e-12 && e <= 1e-12 {
		return p1, p2
	}
	if a <= 1e-12 {
		t = clamp01(f / e)
	} else {
		c := d1.Dot(r)
		if e <= 1e-12 {
			s = clamp01(-c / a)
		} else {
			bd := d1.Dot(d2)
			denom := a*e - bd*bd
			if denom > 1e-12 {
				s = clamp01((bd*f - c*e) / denom)
			}
			t = (bd*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((bd - c) / a)
			}
		}
	}
	return p1.Add(d1.Scale(s)), p2.Add(d2.Scale(t))
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
