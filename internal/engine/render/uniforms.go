package render

import (
	"encoding/binary"
	stdmath "math"

	"github.com/mechanicchickendev/froggi/pkg/math"
)

// UniformBlockSize is the std140 size of the MeshUniforms block:
// three mat4, one vec4, one float, and 12 bytes of tail padding.
const UniformBlockSize = 224

// PackUniforms lays the per-mesh uniforms out in std140 order for one
// buffer upload.
func PackUniforms(projection, view, model math.Mat4, color math.Vec4, time float32) [UniformBlockSize]byte {
	var buf [UniformBlockSize]byte
	off := 0
	for _, m := range [3]math.Mat4{projection, view, model} {
		for _, v := range m {
			putFloat(buf[:], &off, v)
		}
	}
	putFloat(buf[:], &off, color.X)
	putFloat(buf[:], &off, color.Y)
	putFloat(buf[:], &off, color.Z)
	putFloat(buf[:], &off, color.W)
	putFloat(buf[:], &off, time)
	return buf
}

func putFloat(buf []byte, off *int, v float32) {
	binary.LittleEndian.PutUint32(buf[*off:], stdmath.Float32bits(v))
	*off += 4
}

// EncodeObjectIndex maps a 1-based draw index into the red channel of
// the silhouette target. Index 0 is the background.
func EncodeObjectIndex(index int) float32 {
	return float32(index) / 255.0
}

// DecodeObjectIndex recovers the draw index from a sampled red value.
func DecodeObjectIndex(r float32) int {
	return int(stdmath.Round(float64(r) * 255.0))
}

// MaxObjectIndex is the largest draw index the red channel can carry.
const MaxObjectIndex = 254
