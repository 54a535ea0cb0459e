package culling

import (
	"github.com/Carmen-Shannon/prism-go/engine/renderer/material"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/mesh"
)

// Object is one renderable scene object handed to a culling pass: a mesh, a
// material, and a world transform. The cullers resolve the handles against
// the mesh and material registries; an unresolved handle panics there.
type Object struct {
	// Mesh references geometry registered with the MeshBuffers registry.
	Mesh mesh.Handle
	// Material references a material registered with the MaterialManager.
	Material material.Handle
	// Transform is the object's model matrix (column-major).
	Transform [16]float32
}
