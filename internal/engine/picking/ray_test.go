package picking

import (
	"testing"

	"github.com/mechanicchickendev/froggi/pkg/math"
)

func approx(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestScreenToRayCenter(t *testing.T) {
	proj := math.OrthoZO(-13.333, 13.333, -7.5, 7.5, -150, 100)
	inv := proj.Inverse()

	ray := ScreenToRay(640, 360, 1280, 720, inv)
	if !approx(ray.Origin.X, 0, 1e-3) || !approx(ray.Origin.Y, 0, 1e-3) {
		t.Errorf("center origin = %+v, want on the view axis", ray.Origin)
	}
	if !approx(ray.Origin.Z, -150, 1e-2) {
		t.Errorf("origin Z = %f, want the near plane", ray.Origin.Z)
	}
	if !approx(ray.Direction.Z, 1, 1e-4) {
		t.Errorf("direction = %+v, want along +Z", ray.Direction)
	}
}

func TestScreenToRayCorner(t *testing.T) {
	proj := math.OrthoZO(-13.333, 13.333, -7.5, 7.5, -150, 100)
	inv := proj.Inverse()

	ray := ScreenToRay(0, 0, 1280, 720, inv)
	if !approx(ray.Origin.X, -13.333, 1e-2) {
		t.Errorf("top-left origin X = %f, want the left edge", ray.Origin.X)
	}
	if !approx(ray.Origin.Y, 7.5, 1e-2) {
		t.Errorf("top-left origin Y = %f, want the top edge", ray.Origin.Y)
	}
}

func TestIntersectPlaneZ(t *testing.T) {
	down := Ray{Origin: math.Vec3{X: 1, Y: 2, Z: 10}, Direction: math.Vec3{Z: -1}}
	x, y, ok := down.IntersectPlaneZ(0)
	if !ok || x != 1 || y != 2 {
		t.Errorf("hit = (%f, %f, %v), want (1, 2, true)", x, y, ok)
	}

	parallel := Ray{Origin: math.Vec3{Z: 10}, Direction: math.Vec3{X: 1}}
	if _, _, ok := parallel.IntersectPlaneZ(0); ok {
		t.Error("parallel ray should miss")
	}

	behind := Ray{Origin: math.Vec3{Z: 10}, Direction: math.Vec3{Z: 1}}
	if _, _, ok := behind.IntersectPlaneZ(0); ok {
		t.Error("plane behind the ray should miss")
	}
}

func TestIntersectAABB(t *testing.T) {
	box := BoxAround(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})

	hit := Ray{Origin: math.Vec3{X: -5}, Direction: math.Vec3{X: 1}}
	if d, ok := hit.IntersectAABB(box); !ok || !approx(d, 4, 1e-5) {
		t.Errorf("hit = (%f, %v), want (4, true)", d, ok)
	}

	miss := Ray{Origin: math.Vec3{X: -5, Y: 3}, Direction: math.Vec3{X: 1}}
	if _, ok := miss.IntersectAABB(box); ok {
		t.Error("offset ray should miss")
	}

	inside := Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: 1}}
	if d, ok := inside.IntersectAABB(box); !ok || !approx(d, 1, 1e-5) {
		t.Errorf("inside = (%f, %v), want exit at 1", d, ok)
	}

	away := Ray{Origin: math.Vec3{X: 5}, Direction: math.Vec3{X: 1}}
	if _, ok := away.IntersectAABB(box); ok {
		t.Error("ray pointing away should miss")
	}
}
