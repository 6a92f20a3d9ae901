package solver

import (
	stdmath "math"

	"github.com/mechanicchickendev/froggi/pkg/math"
)

// Shape is the collision geometry of a body, expressed in the body's
// local frame with the body position at the shape center.
type Shape interface {
	// Bounds returns the world-space AABB for a body at the given
	// position and orientation.
	Bounds(pos math.Vec3, rot math.Quat) AABB
	// Inertia returns the diagonal of the local inertia tensor for
	// the given mass. Rotation is locked for dynamic bodies, so only
	// the magnitude matters for damping bookkeeping.
	Inertia(mass float32) math.Vec3
}

// Sphere is a ball of the given radius.
type Sphere struct {
	Radius float32
}

func (s Sphere) Bounds(pos math.Vec3, _ math.Quat) AABB {
	r := math.Vec3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return AABB{Min: pos.Sub(r), Max: pos.Add(r)}
}

func (s Sphere) Inertia(mass float32) math.Vec3 {
	i := 0.4 * mass * s.Radius * s.Radius
	return math.Vec3{X: i, Y: i, Z: i}
}

// Box has half extents on each local axis.
type Box struct {
	HalfExtent math.Vec3
}

func (b Box) Bounds(pos math.Vec3, rot math.Quat) AABB {
	h := b.HalfExtent
	corners := [8]math.Vec3{
		{X: -h.X, Y: -h.Y, Z: -h.Z},
		{X: +h.X, Y: -h.Y, Z: -h.Z},
		{X: +h.X, Y: +h.Y, Z: -h.Z},
		{X: -h.X, Y: +h.Y, Z: -h.Z},
		{X: -h.X, Y: -h.Y, Z: +h.Z},
		{X: +h.X, Y: -h.Y, Z: +h.Z},
		{X: +h.X, Y: +h.Y, Z: +h.Z},
		{X: -h.X, Y: +h.Y, Z: +h.Z},
	}
	box := AABB{Min: pos, Max: pos}
	for _, c := range corners {
		p := pos.Add(rot.RotateVec3(c))
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box
}

func (b Box) Inertia(mass float32) math.Vec3 {
	h := b.HalfExtent
	k := mass / 3
	return math.Vec3{
		X: k * (h.Y*h.Y + h.Z*h.Z),
		Y: k * (h.X*h.X + h.Z*h.Z),
		Z: k * (h.X*h.X + h.Y*h.Y),
	}
}

// Capsule is a sphere-swept segment along the local Z axis. HalfHeight
// measures the segment, excluding the caps.
type Capsule struct {
	HalfHeight float32
	Radius     float32
}

// axis returns the world-space capsule segment endpoints.
func (c Capsule) axis(pos math.Vec3, rot math.Quat) (math.Vec3, math.Vec3) {
	half := rot.RotateVec3(math.Vec3{Z: c.HalfHeight})
	return pos.Sub(half), pos.Add(half)
}

func (c Capsule) Bounds(pos math.Vec3, rot math.Quat) AABB {
	a, b := c.axis(pos, rot)
	box := aabbFromPoints(a, b)
	return box.Expand(c.Radius)
}

func (c Capsule) Inertia(mass float32) math.Vec3 {
	// Approximated by the bounding cylinder.
	r2 := c.Radius * c.Radius
	h := 2 * (c.HalfHeight + c.Radius)
	side := mass * (3*r2 + h*h) / 12
	return math.Vec3{X: side, Y: side, Z: mass * r2 / 2}
}

// Triangle is one face of a mesh shape, in body-local coordinates.
type Triangle struct {
	A, B, C math.Vec3
}

// Normal returns the unnormalized face normal.
func (t Triangle) Normal() math.Vec3 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A))
}

// Mesh is a static triangle soup. Mesh bodies must not be dynamic.
type Mesh struct {
	Triangles []Triangle
}

func (m Mesh) Bounds(pos math.Vec3, rot math.Quat) AABB {
	if len(m.Triangles) == 0 {
		return AABB{Min: pos, Max: pos}
	}
	first := pos.Add(rot.RotateVec3(m.Triangles[0].A))
	box := AABB{Min: first, Max: first}
	for _, t := range m.Triangles {
		for _, v := range [3]math.Vec3{t.A, t.B, t.C} {
			p := pos.Add(rot.RotateVec3(v))
			box.Min = box.Min.Min(p)
			box.Max = box.Max.Max(p)
		}
	}
	return box
}

func (m Mesh) Inertia(mass float32) math.Vec3 {
	// Mesh bodies are static; a box inertia of the bounds is enough.
	b := m.Bounds(math.Vec3{}, math.QuatIdentity())
	return Box{HalfExtent: b.HalfExtent()}.Inertia(mass)
}

// worldTriangle transforms a local triangle into world space.
func worldTriangle(t Triangle, pos math.Vec3, rot math.Quat) Triangle {
	return Triangle{
		A: pos.Add(rot.RotateVec3(t.A)),
		B: pos.Add(rot.RotateVec3(t.B)),
		C: pos.Add(rot.RotateVec3(t.C)),
	}
}

// closestPointOnSegment returns the point on segment ab closest to p.
func closestPointOnSegment(p, a, b math.Vec3) math.Vec3 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom < 1e-12 {
		return a
	}
	t := p.Sub(a).Dot(ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}

// closestPointOnTriangle returns the point on the triangle closest to p.
// Standard Voronoi-region walk.
func closestPointOnTriangle(p math.Vec3, tri Triangle) math.Vec3 {
	a, b, c := tri.A, tri.B, tri.C
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return a.Add(ab.Scale(d1 / (d1 - d3)))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return a.Add(ac.Scale(d2 / (d2 - d6)))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		return b.Add(c.Sub(b).Scale((d4 - d3) / ((d4 - d3) + (d5 - d6))))
	}

	denom := 1 / (va + vb + vc)
	return a.Add(ab.Scale(vb * denom)).Add(ac.Scale(vc * denom))
}

// closestPointOnAABB clamps p into the box.
func closestPointOnAABB(p math.Vec3, box AABB) math.Vec3 {
	return p.Max(box.Min).Min(box.Max)
}

func sqrtf(v float32) float32 {
	return float32(stdmath.Sqrt(float64(v)))
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
