package mesh

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/prism-go/common"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for the depth and opaque pipelines.
// Matches GPUVertex layout exactly (48 bytes, std430 aligned).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
// Size: 48 bytes (std430 aligned, no padding required).
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
	Color    [4]float32 // offset 32: per-vertex RGBA color (16 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 48)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Normal[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Normal[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Normal[2]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.TexCoord[1]))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[40:44], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.Color[3]))
	return buf
}

// ComputeBoundingSphere calculates an object-space bounding sphere for a mesh.
// The center is the midpoint of the axis-aligned bounding box and the radius
// is the maximum vertex distance from that center.
//
// Parameters:
//   - vertices: the vertex data to compute the bounding sphere from
//
// Returns:
//   - common.BoundingSphere: a sphere covering every vertex in the slice
func ComputeBoundingSphere(vertices []GPUVertex) common.BoundingSphere {
	if len(vertices) == 0 {
		return common.BoundingSphere{}
	}

	minP := vertices[0].Position
	maxP := vertices[0].Position
	for _, v := range vertices[1:] {
		for i := range 3 {
			minP[i] = math32.Min(minP[i], v.Position[i])
			maxP[i] = math32.Max(maxP[i], v.Position[i])
		}
	}

	center := [3]float32{
		(minP[0] + maxP[0]) / 2,
		(minP[1] + maxP[1]) / 2,
		(minP[2] + maxP[2]) / 2,
	}

	var maxDistSq float32
	for _, v := range vertices {
		dx := v.Position[0] - center[0]
		dy := v.Position[1] - center[1]
		dz := v.Position[2] - center[2]
		distSq := dx*dx + dy*dy + dz*dz
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}

	return common.BoundingSphere{
		Center: center,
		Radius: math32.Sqrt(maxDistSq),
	}
}
