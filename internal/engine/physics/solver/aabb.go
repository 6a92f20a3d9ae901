package solver

import "github.com/mechanicchickendev/froggi/pkg/math"

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min, Max math.Vec3
}

// Overlaps reports whether the boxes intersect, boundaries included.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Center returns the box midpoint.
func (a AABB) Center() math.Vec3 {
	return a.Min.Add(a.Max).Scale(0.5)
}

// HalfExtent returns half the box size on each axis.
func (a AABB) HalfExtent() math.Vec3 {
	return a.Max.Sub(a.Min).Scale(0.5)
}

// Expand grows the box by d on every side.
func (a AABB) Expand(d float32) AABB {
	v := math.Vec3{X: d, Y: d, Z: d}
	return AABB{Min: a.Min.Sub(v), Max: a.Max.Add(v)}
}

// Corners returns the 8 box corners. The ordering pairs with Edges.
func (a AABB) Corners() [8]math.Vec3 {
	return [8]math.Vec3{
		{X: a.Min.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Max.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Max.Z},
	}
}

// edgePairs indexes Corners to form the 12 box edges.
var edgePairs = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Edges returns the 12 edges as point pairs, for wireframe drawing.
func (a AABB) Edges() [12][2]math.Vec3 {
	c := a.Corners()
	var out [12][2]math.Vec3
	for i, p := range edgePairs {
		out[i] = [2]math.Vec3{c[p[0]], c[p[1]]}
	}
	return out
}

func aabbFromPoints(pts ...math.Vec3) AABB {
	box := AABB{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box
}
