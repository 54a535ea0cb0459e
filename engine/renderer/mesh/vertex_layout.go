package mesh

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// VertexBufferLayout returns the vertex buffer layout matching GPUVertex and
// the WGSL VertexInput struct: positions, normals, texture coordinates, and
// per-vertex color at locations 0 through 3.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for vertex buffer slot 0
func VertexBufferLayout() wgpu.VertexBufferLayout {
	var v GPUVertex
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(v.Size()),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{ShaderLocation: 0, Offset: 0, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 1, Offset: 12, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 2, Offset: 24, Format: wgpu.VertexFormatFloat32x2},
			{ShaderLocation: 3, Offset: 32, Format: wgpu.VertexFormatFloat32x4},
		},
	}
}
