package shader_interfaces

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUShaderUniformsSource is the canonical WGSL definition of the ShaderUniforms struct.
// Matches GPUShaderUniforms layout exactly (80 bytes, std430 aligned).
//
//go:embed assets/shader_uniforms.wgsl
var GPUShaderUniformsSource string

// GPUShaderUniforms is the per-frame camera uniform shared by the depth and
// opaque pipelines. Rebuilt each frame from the camera snapshot.
// Matches the WGSL ShaderUniforms struct layout exactly (see GPUShaderUniformsSource).
// Size: 80 bytes (std430 aligned, 4 bytes padding).
type GPUShaderUniforms struct {
	ViewProjection [16]float32 // offset  0: combined projection * view matrix, column-major (64 bytes)
	CameraPosition [3]float32  // offset 64: camera world-space position (12 bytes)
	_              float32     // offset 76: padding to 16-byte alignment (4 bytes)
}

// Size returns the size of the GPUShaderUniforms struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUShaderUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUShaderUniforms struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload.
func (g *GPUShaderUniforms) Marshal() []byte {
	buf := make([]byte, 80)
	for i, f := range g.ViewProjection {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
	binary.LittleEndian.PutUint32(buf[64:68], math.Float32bits(g.CameraPosition[0]))
	binary.LittleEndian.PutUint32(buf[68:72], math.Float32bits(g.CameraPosition[1]))
	binary.LittleEndian.PutUint32(buf[72:76], math.Float32bits(g.CameraPosition[2]))
	return buf
}

// GPUDirectionalLightSource is the canonical WGSL definition of the DirectionalLight struct.
// Matches GPUDirectionalLight layout exactly (32 bytes, std430 aligned).
//
//go:embed assets/directional_light.wgsl
var GPUDirectionalLightSource string

// GPUDirectionalLight is the single directional light uniform consumed by the
// opaque fragment shader.
// Matches the WGSL DirectionalLight struct layout exactly (see GPUDirectionalLightSource).
// Size: 32 bytes (std430 aligned, 4 bytes padding).
type GPUDirectionalLight struct {
	Direction [3]float32 // offset  0: normalized world-space light direction (12 bytes)
	_         float32    // offset 12: padding to 16-byte alignment (4 bytes)
	Color     [3]float32 // offset 16: RGB light color (12 bytes)
	Intensity float32    // offset 28: light intensity multiplier (4 bytes)
}

// Size returns the size of the GPUDirectionalLight struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUDirectionalLight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUDirectionalLight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUDirectionalLight) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Direction[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Direction[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Direction[2]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	return buf
}
