package scene

import "github.com/mechanicchickendev/froggi/pkg/math"

// MeshComponent makes an entity renderable. MeshName and TextureName
// are resolved against the renderer's registries at draw time, so an
// animator can swap MeshName every frame without touching GPU state.
type MeshComponent struct {
	BaseComponent

	MeshName    string
	TextureName string
	// Color multiplies the sampled texel. White leaves it unchanged.
	Color math.Vec4
}

// NewMeshComponent returns a mesh component with a white tint.
func NewMeshComponent(meshName, textureName string) *MeshComponent {
	return &MeshComponent{
		MeshName:    meshName,
		TextureName: textureName,
		Color:       math.Vec4{X: 1, Y: 1, Z: 1, W: 1},
	}
}
