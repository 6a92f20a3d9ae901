package math

// Vec4 is a 4-component vector, used for RGBA colors and homogeneous points.
type Vec4 struct {
	X, Y, Z, W float32
}
