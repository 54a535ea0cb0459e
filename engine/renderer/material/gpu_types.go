package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialDataSource is the canonical WGSL definition of the MaterialData struct.
// Matches GPUMaterialData layout exactly (32 bytes, std430 aligned).
//
//go:embed assets/material_data.wgsl
var GPUMaterialDataSource string

// GPUMaterialData is the GPU-aligned surface description consumed by the opaque
// fragment shader. In host mode each material gets its own uniform buffer holding
// one of these; in device mode the whole table is one storage buffer indexed by
// the material slot written into the culled object data.
// Matches the WGSL MaterialData struct layout exactly (see GPUMaterialDataSource).
// Size: 32 bytes (std430 aligned, 8 bytes padding).
type GPUMaterialData struct {
	BaseColor [4]float32 // offset  0: albedo/diffuse RGBA color (16 bytes)
	Metallic  float32    // offset 16: metallic factor, 0.0 dielectric to 1.0 metal (4 bytes)
	Roughness float32    // offset 20: roughness factor, 0.0 smooth to 1.0 rough (4 bytes)
	_         [2]float32 // offset 24: padding to 32-byte alignment (8 bytes)
}

// Size returns the size of the GPUMaterialData struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUMaterialData) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.BaseColor[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.BaseColor[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.BaseColor[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.BaseColor[3]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Metallic))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Roughness))
	return buf
}
