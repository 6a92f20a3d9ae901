package mesh

import "github.com/mechanicchickendev/froggi/pkg/math"

// Cube builds an axis-aligned box centered on the origin with the
// given half extents. Each face has its own vertices so normals stay
// flat.
func Cube(half math.Vec3) *Data {
	hx, hy, hz := half.X, half.Y, half.Z
	faces := []struct {
		normal  math.Vec3
		corners [4]math.Vec3
	}{
		{math.Vec3{X: 1}, [4]math.Vec3{
			{X: hx, Y: -hy, Z: -hz}, {X: hx, Y: hy, Z: -hz}, {X: hx, Y: hy, Z: hz}, {X: hx, Y: -hy, Z: hz}}},
		{math.Vec3{X: -1}, [4]math.Vec3{
			{X: -hx, Y: hy, Z: -hz}, {X: -hx, Y: -hy, Z: -hz}, {X: -hx, Y: -hy, Z: hz}, {X: -hx, Y: hy, Z: hz}}},
		{math.Vec3{Y: 1}, [4]math.Vec3{
			{X: hx, Y: hy, Z: -hz}, {X: -hx, Y: hy, Z: -hz}, {X: -hx, Y: hy, Z: hz}, {X: hx, Y: hy, Z: hz}}},
		{math.Vec3{Y: -1}, [4]math.Vec3{
			{X: -hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: hz}, {X: -hx, Y: -hy, Z: hz}}},
		{math.Vec3{Z: 1}, [4]math.Vec3{
			{X: -hx, Y: -hy, Z: hz}, {X: hx, Y: -hy, Z: hz}, {X: hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: hz}}},
		{math.Vec3{Z: -1}, [4]math.Vec3{
			{X: -hx, Y: hy, Z: -hz}, {X: hx, Y: hy, Z: -hz}, {X: hx, Y: -hy, Z: -hz}, {X: -hx, Y: -hy, Z: -hz}}},
	}

	uvs := [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	d := &Data{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range faces {
		base := uint32(len(d.Vertices))
		for i, c := range f.corners {
			d.Vertices = append(d.Vertices, Vertex{Position: c, Normal: f.normal, UV: uvs[i]})
		}
		d.Indices = append(d.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return d
}

// Plane builds a quad in the XY plane facing +Z, with UVs tiling once
// per unit so textures repeat across large floors.
func Plane(halfX, halfY float32) *Data {
	n := math.Vec3{Z: 1}
	d := &Data{
		Vertices: []Vertex{
			{Position: math.Vec3{X: -halfX, Y: -halfY}, Normal: n, UV: math.Vec2{X: 0, Y: 0}},
			{Position: math.Vec3{X: halfX, Y: -halfY}, Normal: n, UV: math.Vec2{X: 2 * halfX, Y: 0}},
			{Position: math.Vec3{X: halfX, Y: halfY}, Normal: n, UV: math.Vec2{X: 2 * halfX, Y: 2 * halfY}},
			{Position: math.Vec3{X: -halfX, Y: halfY}, Normal: n, UV: math.Vec2{X: 0, Y: 2 * halfY}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
	return d
}
