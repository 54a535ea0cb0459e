package opaque_pass

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/prism-go/engine/renderer/culling"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/material"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/mesh"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/shader_interfaces"
)

//go:embed assets/depth.wgsl
var depthShaderBody string

//go:embed assets/opaque.wgsl
var opaqueShaderBody string

//go:embed assets/material_host.wgsl
var materialHostPrologue string

//go:embed assets/material_device.wgsl
var materialDevicePrologue string

// DepthShaderSource returns the complete WGSL source for the depth-only
// prepass vertex stage. The same source serves both culling modes: the
// prepass never reads materials, it only writes depth.
//
// Returns:
//   - string: the composed WGSL source
func DepthShaderSource() string {
	return strings.Join([]string{
		mesh.GPUVertexSource,
		culling.GPUObjectDataSource,
		depthShaderBody,
	}, "\n")
}

// OpaqueShaderSource returns the complete WGSL source for the opaque color
// pass. The material access differs per mode: host mode reads a single bound
// uniform, device mode indexes the material table and samples textures.
//
// Parameters:
//   - mode: the culling mode the shader will run under
//
// Returns:
//   - string: the composed WGSL source
func OpaqueShaderSource(mode culling.Mode) string {
	var prologue string
	switch mode {
	case culling.ModeHost:
		prologue = materialHostPrologue
	case culling.ModeDevice:
		prologue = materialDevicePrologue
	default:
		panic(fmt.Sprintf("opaque_pass: unknown culling mode %s", mode))
	}

	return strings.Join([]string{
		mesh.GPUVertexSource,
		culling.GPUObjectDataSource,
		material.GPUMaterialDataSource,
		shader_interfaces.GPUDirectionalLightSource,
		shader_interfaces.GPUShaderUniformsSource,
		prologue,
		opaqueShaderBody,
	}, "\n")
}

// PrepassBindGroupLayouts returns the depth prepass pipeline layout slots for
// a mode, matching the slot constants the pass recording binds against.
//
// Parameters:
//   - mode: the culling mode
//   - si: the shared layout registry
//
// Returns:
//   - []*wgpu.BindGroupLayout: the layouts, index i is bind group slot i
func PrepassBindGroupLayouts(mode culling.Mode, si shader_interfaces.ShaderInterfaces) []*wgpu.BindGroupLayout {
	switch mode {
	case culling.ModeHost:
		return []*wgpu.BindGroupLayout{
			si.SamplersBGL(),
			si.CulledObjectBGL(),
			si.PerMaterialBGL(),
		}
	case culling.ModeDevice:
		return []*wgpu.BindGroupLayout{
			si.SamplersBGL(),
			si.CulledObjectBGL(),
			si.MaterialTableBGL(),
			si.TexturesBGL(),
		}
	default:
		panic(fmt.Sprintf("opaque_pass: unknown culling mode %s", mode))
	}
}

// DrawBindGroupLayouts returns the opaque color pipeline layout slots for a
// mode, matching the slot constants the pass recording binds against.
//
// Parameters:
//   - mode: the culling mode
//   - si: the shared layout registry
//
// Returns:
//   - []*wgpu.BindGroupLayout: the layouts, index i is bind group slot i
func DrawBindGroupLayouts(mode culling.Mode, si shader_interfaces.ShaderInterfaces) []*wgpu.BindGroupLayout {
	switch mode {
	case culling.ModeHost:
		return []*wgpu.BindGroupLayout{
			si.SamplersBGL(),
			si.CulledObjectBGL(),
			si.DirectionalLightBGL(),
			si.ShaderUniformsBGL(),
			si.PerMaterialBGL(),
		}
	case culling.ModeDevice:
		return []*wgpu.BindGroupLayout{
			si.SamplersBGL(),
			si.CulledObjectBGL(),
			si.DirectionalLightBGL(),
			si.ShaderUniformsBGL(),
			si.MaterialTableBGL(),
			si.TexturesBGL(),
		}
	default:
		panic(fmt.Sprintf("opaque_pass: unknown culling mode %s", mode))
	}
}
