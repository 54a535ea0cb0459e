package culling

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/prism-go/common"
)

// GPUFrustumPlaneSource is the canonical WGSL definition of the FrustumPlane struct.
// Matches GPUFrustumPlane layout exactly (16 bytes).
//
//go:embed assets/frustum_plane.wgsl
var GPUFrustumPlaneSource string

// GPUFrustumPlane is the GPU-aligned representation of a single frustum plane.
// Matches the WGSL FrustumPlane struct layout exactly (see GPUFrustumPlaneSource).
// Size: 16 bytes (vec3 normal + f32 distance).
type GPUFrustumPlane struct {
	Normal   [3]float32 // offset  0: unit plane normal, points into the frustum (12 bytes)
	Distance float32    // offset 12: signed distance from origin (4 bytes)
}

// PlanesFromFrustum converts a frustum into the GPU plane layout uploaded to
// the culling compute shader. The planes are already normalized, so the GPU
// sphere test matches the CPU predicate in common.Frustum exactly.
//
// Parameters:
//   - f: the frustum to convert
//
// Returns:
//   - [6]GPUFrustumPlane: the six planes in GPU layout
func PlanesFromFrustum(f common.Frustum) [6]GPUFrustumPlane {
	var planes [6]GPUFrustumPlane
	for i, p := range f.Planes {
		planes[i] = GPUFrustumPlane{Normal: p.Normal, Distance: p.Distance}
	}
	return planes
}

// GPUCullGlobalsSource is the canonical WGSL definition of the CullGlobals struct.
// Matches GPUCullGlobals layout exactly (176 bytes, std430 aligned).
//
//go:embed assets/cull_globals.wgsl
var GPUCullGlobalsSource string

// GPUCullGlobals is the per-dispatch uniform for the culling compute shader:
// the camera's view-projection matrix, the six frustum planes, and the number
// of live objects in the input buffer.
// Matches the WGSL CullGlobals struct layout exactly (see GPUCullGlobalsSource).
// Size: 176 bytes (std430 aligned).
type GPUCullGlobals struct {
	ViewProjection [16]float32        // offset   0: combined projection * view matrix, column-major (64 bytes)
	Planes         [6]GPUFrustumPlane // offset  64: 6 x 16 bytes = 96 bytes
	ObjectCount    uint32             // offset 160: number of valid entries in the input buffer
	_pad1          uint32             // offset 164
	_pad2          uint32             // offset 168
	_pad3          uint32             // offset 172
}

// Size returns the size of the GPUCullGlobals struct in bytes.
//
// Returns:
//   - int: The size of the struct in bytes.
func (g *GPUCullGlobals) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCullGlobals struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 176-byte buffer ready for GPU upload.
func (g *GPUCullGlobals) Marshal() []byte {
	buf := make([]byte, 176)
	for i, f := range g.ViewProjection {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
	off := 64
	for i := range 6 {
		p := g.Planes[i]
		binary.LittleEndian.PutUint32(buf[off+0:off+4], math.Float32bits(p.Normal[0]))
		binary.LittleEndian.PutUint32(buf[off+4:off+8], math.Float32bits(p.Normal[1]))
		binary.LittleEndian.PutUint32(buf[off+8:off+12], math.Float32bits(p.Normal[2]))
		binary.LittleEndian.PutUint32(buf[off+12:off+16], math.Float32bits(p.Distance))
		off += 16
	}
	binary.LittleEndian.PutUint32(buf[160:164], g.ObjectCount)
	return buf
}

// GPUCullObjectSource is the canonical WGSL definition of the CullObject struct.
// Matches GPUCullObject layout exactly (96 bytes, std430 aligned).
//
//go:embed assets/cull_object.wgsl
var GPUCullObjectSource string

// GPUCullObject is one entry in the culling compute shader's input buffer:
// everything the shader needs to test visibility and emit indirect draw
// arguments for a single object.
// Matches the WGSL CullObject struct layout exactly (see GPUCullObjectSource).
// Size: 96 bytes (std430 aligned).
type GPUCullObject struct {
	Model         [16]float32 // offset  0: model matrix, column-major (64 bytes)
	BoundsCenter  [3]float32  // offset 64: bounding sphere center in object space (12 bytes)
	BoundsRadius  float32     // offset 76: bounding sphere radius in object space (4 bytes)
	FirstIndex    uint32      // offset 80: offset into the shared index buffer
	IndexCount    uint32      // offset 84: number of indices for the mesh
	BaseVertex    int32       // offset 88: added to each index value (signed)
	MaterialIndex uint32      // offset 92: slot into the material table
}

// Size returns the size of the GPUCullObject struct in bytes.
//
// Returns:
//   - int: The size of the struct in bytes.
func (g *GPUCullObject) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCullObject struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload.
func (g *GPUCullObject) Marshal() []byte {
	buf := make([]byte, 96)
	for i, f := range g.Model {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
	binary.LittleEndian.PutUint32(buf[64:68], math.Float32bits(g.BoundsCenter[0]))
	binary.LittleEndian.PutUint32(buf[68:72], math.Float32bits(g.BoundsCenter[1]))
	binary.LittleEndian.PutUint32(buf[72:76], math.Float32bits(g.BoundsCenter[2]))
	binary.LittleEndian.PutUint32(buf[76:80], math.Float32bits(g.BoundsRadius))
	binary.LittleEndian.PutUint32(buf[80:84], g.FirstIndex)
	binary.LittleEndian.PutUint32(buf[84:88], g.IndexCount)
	binary.LittleEndian.PutUint32(buf[88:92], uint32(g.BaseVertex))
	binary.LittleEndian.PutUint32(buf[92:96], g.MaterialIndex)
	return buf
}

// GPUObjectDataSource is the canonical WGSL definition of the ObjectData struct.
// Matches GPUObjectData layout exactly (144 bytes, std430 aligned).
//
//go:embed assets/object_data.wgsl
var GPUObjectDataSource string

// GPUObjectData is one entry in the culled output buffer read by the vertex
// shaders. The host culler writes it in draw order so the instance index maps
// straight into the array; the device culler writes slot i for object i and
// points the indirect first_instance at that slot.
// Matches the WGSL ObjectData struct layout exactly (see GPUObjectDataSource).
// Size: 144 bytes (std430 aligned).
type GPUObjectData struct {
	ModelViewProjection [16]float32 // offset   0: precomputed MVP matrix, column-major (64 bytes)
	Model               [16]float32 // offset  64: model matrix for normals and world position (64 bytes)
	MaterialIndex       uint32      // offset 128: slot into the material table
	_pad1               uint32      // offset 132
	_pad2               uint32      // offset 136
	_pad3               uint32      // offset 140
}

// Size returns the size of the GPUObjectData struct in bytes.
//
// Returns:
//   - int: The size of the struct in bytes.
func (g *GPUObjectData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUObjectData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 144-byte buffer ready for GPU upload.
func (g *GPUObjectData) Marshal() []byte {
	buf := make([]byte, 144)
	for i, f := range g.ModelViewProjection {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
	for i, f := range g.Model {
		binary.LittleEndian.PutUint32(buf[64+i*4:64+i*4+4], math.Float32bits(f))
	}
	binary.LittleEndian.PutUint32(buf[128:132], g.MaterialIndex)
	return buf
}

// GPUIndirectArgsSource is the canonical WGSL definition of the IndirectArgs struct.
// Matches GPUIndirectArgs layout exactly (20 bytes).
//
//go:embed assets/indirect_args.wgsl
var GPUIndirectArgsSource string

// GPUIndirectArgs is the GPU-aligned DrawIndexedIndirect arguments written by
// the culling compute shader. Culled objects get an instance count of zero so
// their draw is a no-op without any CPU readback.
// Matches the WGSL IndirectArgs struct layout exactly (see GPUIndirectArgsSource).
// Size: 20 bytes (5 x u32).
type GPUIndirectArgs struct {
	IndexCount    uint32 // offset 0: number of indices for the mesh
	InstanceCount uint32 // offset 4: 1 if visible, 0 if culled (written by compute shader)
	FirstIndex    uint32 // offset 8: offset into the shared index buffer
	BaseVertex    int32  // offset 12: added to each index value (signed)
	FirstInstance uint32 // offset 16: the object's slot in the output buffer
}

// Size returns the size of the GPUIndirectArgs struct in bytes.
//
// Returns:
//   - int: The size of the struct in bytes.
func (g *GPUIndirectArgs) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUIndirectArgs struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 20-byte buffer ready for GPU upload.
func (g *GPUIndirectArgs) Marshal() []byte {
	buf := make([]byte, 20)
	binary.LittleEndian.PutUint32(buf[0:4], g.IndexCount)
	binary.LittleEndian.PutUint32(buf[4:8], g.InstanceCount)
	binary.LittleEndian.PutUint32(buf[8:12], g.FirstIndex)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(g.BaseVertex))
	binary.LittleEndian.PutUint32(buf[16:20], g.FirstInstance)
	return buf
}
