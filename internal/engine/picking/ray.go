// Package picking converts screen positions into world-space rays and
// intersects them with simple shapes.
package picking

import (
	gomath "math"

	"github.com/mechanicchickendev/froggi/pkg/math"
)

// Ray is a world-space ray with a normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// AABB is an axis-aligned box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// ScreenToRay unprojects a pixel position through the inverse
// view-projection matrix. Depth unprojects from the [0, 1] range the
// projection writes.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH

	near := invViewProj.MulVec4(math.Vec4{X: ndcX, Y: ndcY, Z: 0, W: 1})
	far := invViewProj.MulVec4(math.Vec4{X: ndcX, Y: ndcY, Z: 1, W: 1})

	if near.W != 0 {
		near.X /= near.W
		near.Y /= near.W
		near.Z /= near.W
	}
	if far.W != 0 {
		far.X /= far.W
		far.Y /= far.W
		far.Z /= far.W
	}

	origin := math.Vec3{X: near.X, Y: near.Y, Z: near.Z}
	dir := math.Vec3{X: far.X - near.X, Y: far.Y - near.Y, Z: far.Z - near.Z}
	if l := dir.Length(); l > 0 {
		dir = math.Vec3{X: dir.X / l, Y: dir.Y / l, Z: dir.Z / l}
	}
	return Ray{Origin: origin, Direction: dir}
}

// At returns the point a distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(math.Vec3{X: r.Direction.X * t, Y: r.Direction.Y * t, Z: r.Direction.Z * t})
}

// IntersectPlaneZ intersects the ray with the horizontal plane at the
// given height. Z is up.
func (r Ray) IntersectPlaneZ(planeZ float32) (x, y float32, ok bool) {
	if gomath.Abs(float64(r.Direction.Z)) < 0.001 {
		return 0, 0, false
	}
	t := (planeZ - r.Origin.Z) / r.Direction.Z
	if t < 0 {
		return 0, 0, false
	}
	x = r.Origin.X + t*r.Direction.X
	y = r.Origin.Y + t*r.Direction.Y
	return x, y, true
}

// IntersectAABB returns the distance to the box, or the exit distance
// when the ray starts inside it.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	slab := func(origin, dir, lo, hi float32) bool {
		if dir != 0 {
			t1 := (lo - origin) / dir
			t2 := (hi - origin) / dir
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
			return true
		}
		return origin >= lo && origin <= hi
	}

	if !slab(r.Origin.X, r.Direction.X, box.Min.X, box.Max.X) {
		return 0, false
	}
	if !slab(r.Origin.Y, r.Direction.Y, box.Min.Y, box.Max.Y) {
		return 0, false
	}
	if !slab(r.Origin.Z, r.Direction.Z, box.Min.Z, box.Max.Z) {
		return 0, false
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// BoxAround builds an AABB from a center and half extents.
func BoxAround(center, half math.Vec3) AABB {
	return AABB{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}
