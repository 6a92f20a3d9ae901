package mesh

import (
	"testing"

	"github.com/mechanicchickendev/froggi/pkg/math"
)

func TestCubeGeometry(t *testing.T) {
	d := Cube(math.Vec3{X: 1, Y: 2, Z: 3})
	if len(d.Vertices) != 24 {
		t.Fatalf("vertices = %d, want 24", len(d.Vertices))
	}
	if len(d.Indices) != 36 {
		t.Fatalf("indices = %d, want 36", len(d.Indices))
	}

	for i, v := range d.Vertices {
		if absf(v.Position.X) != 1 || absf(v.Position.Y) != 2 || absf(v.Position.Z) != 3 {
			t.Fatalf("vertex %d position %+v not on the box surface", i, v.Position)
		}
		// Corners lie on the face their normal points out of.
		if v.Position.Dot(v.Normal) <= 0 {
			t.Fatalf("vertex %d normal %+v points into the box", i, v.Normal)
		}
	}
}

func TestPlaneGeometry(t *testing.T) {
	d := Plane(5, 3)
	if len(d.Vertices) != 4 || len(d.Indices) != 6 {
		t.Fatalf("got %d vertices and %d indices", len(d.Vertices), len(d.Indices))
	}
	for i, v := range d.Vertices {
		if v.Normal != (math.Vec3{Z: 1}) {
			t.Errorf("vertex %d normal %+v, want +Z", i, v.Normal)
		}
		if v.Position.Z != 0 {
			t.Errorf("vertex %d should lie in the XY plane", i)
		}
	}
	// UVs tile with world size so the texture repeats.
	if d.Vertices[2].UV.X != 10 || d.Vertices[2].UV.Y != 6 {
		t.Errorf("far corner UV = %+v, want (10, 6)", d.Vertices[2].UV)
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
