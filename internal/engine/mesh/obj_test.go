package mesh

import (
	"strings"
	"testing"

	"github.com/mechanicchickendev/froggi/pkg/math"
)

const triangleOBJ = `
# simple triangle
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 1 0
vt 0 0
vt 1 0
vt 0 1
f 1/1/1 2/2/1 3/3/1
`

const quadOBJ = `
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
f 1 2 3 4
`

func TestParseTriangle(t *testing.T) {
	d, err := Parse(strings.NewReader(triangleOBJ))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(d.Vertices) != 3 {
		t.Fatalf("vertices = %d, want 3", len(d.Vertices))
	}
	if len(d.Indices) != 3 {
		t.Fatalf("indices = %d, want 3", len(d.Indices))
	}

	// Y-up (0,1,0) becomes Z-up (0,0,1).
	want := math.Vec3{Z: 1}
	if d.Vertices[2].Position != want {
		t.Errorf("vertex 2 position = %v, want %v", d.Vertices[2].Position, want)
	}
	if d.Vertices[0].Normal != want {
		t.Errorf("vertex 0 normal = %v, want %v", d.Vertices[0].Normal, want)
	}
	if d.Vertices[1].UV != (math.Vec2{X: 1}) {
		t.Errorf("vertex 1 uv = %v, want (1, 0)", d.Vertices[1].UV)
	}
}

func TestParseQuadSplitsIntoTwoTriangles(t *testing.T) {
	d, err := Parse(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(d.Indices) != 6 {
		t.Fatalf("indices = %d, want 6 (two triangles)", len(d.Indices))
	}
	want := []uint32{0, 1, 2, 0, 2, 3}
	for i, w := range want {
		if d.Indices[i] != w {
			t.Errorf("index %d = %d, want %d", i, d.Indices[i], w)
		}
	}
	tris := d.Triangles()
	if len(tris) != 2 {
		t.Errorf("Triangles = %d, want 2", len(tris))
	}
}

func TestParseNegativeIndices(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	d, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(d.Indices) != 3 {
		t.Errorf("indices = %d, want 3", len(d.Indices))
	}
}

func TestParseSharedCorners(t *testing.T) {
	// Two faces sharing an edge reuse the shared vertices.
	src := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f 1 3 4
`
	d, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(d.Vertices) != 4 {
		t.Errorf("vertices = %d, want 4 (corners deduplicated)", len(d.Vertices))
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"out of range index": "v 0 0 0\nf 1 2 3\n",
		"bad float":          "v a b c\n",
		"short face":         "v 0 0 0\nv 1 0 0\nf 1 2\n",
	}
	for name, src := range cases {
		if _, err := Parse(strings.NewReader(src)); err == nil {
			t.Errorf("%s: expected parse error", name)
		}
	}
}

func TestInterleavedLayout(t *testing.T) {
	d, err := Parse(strings.NewReader(triangleOBJ))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	buf := d.Interleaved()
	if len(buf) != 24 {
		t.Fatalf("interleaved length = %d, want 24 (3 verts * 8 floats)", len(buf))
	}
	// Second vertex starts at offset 8: position (1,0,0).
	if buf[8] != 1 || buf[9] != 0 || buf[10] != 0 {
		t.Errorf("second vertex position = (%f, %f, %f), want (1, 0, 0)", buf[8], buf[9], buf[10])
	}
}
