package opaque_pass

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/prism-go/engine/renderer/camera"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/culling"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/material"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/mesh"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/shader_interfaces"
)

// Bind group slot assignments for the opaque pass. The tables are fixed per
// mode: pipelines, shaders, and pass recording all agree on them, and they
// never change between frames.
const (
	// SlotSamplers holds the linear/nearest sampler pair in both passes.
	SlotSamplers = 0
	// SlotCulledObjects holds the culled per-object data in both passes.
	SlotCulledObjects = 1

	// PrepassSlotMaterial is the material slot during the depth prepass:
	// the per-material uniform in host mode, the material table in device mode.
	PrepassSlotMaterial = 2
	// PrepassSlotTextures is the texture slot during the depth prepass
	// (device mode only).
	PrepassSlotTextures = 3

	// DrawSlotDirectionalLight holds the directional light uniform during the
	// color pass.
	DrawSlotDirectionalLight = 2
	// DrawSlotShaderUniforms holds the per-frame camera uniform during the
	// color pass.
	DrawSlotShaderUniforms = 3
	// DrawSlotMaterial is the material slot during the color pass.
	DrawSlotMaterial = 4
	// DrawSlotTextures is the texture slot during the color pass
	// (device mode only).
	DrawSlotTextures = 5
)

// opaquePass is the implementation of the OpaquePass interface.
type opaquePass struct {
	mode       culling.Mode
	depth      *wgpu.RenderPipeline
	opaque     *wgpu.RenderPipeline
	host       culling.HostCuller
	device     culling.DeviceCuller
	interfaces shader_interfaces.ShaderInterfaces
}

// OpaquePass renders all opaque geometry: a culling step, a depth-only
// prepass, and a color pass that tests depth with EQUAL and so shades each
// pixel exactly once. The pass is constructed for one culling mode and keeps
// it for its lifetime; feeding it a CulledObjectSet from the other mode
// panics.
type OpaquePass interface {
	// Mode returns the culling mode this pass was constructed for.
	//
	// Returns:
	//   - culling.Mode: the pass's mode
	Mode() culling.Mode

	// Cull runs the pass's culling strategy for one frame.
	//
	// Parameters:
	//   - queue: the queue used for data uploads
	//   - encoder: the frame's command encoder (used by device culling only)
	//   - cam: the frame's camera snapshot
	//   - objects: the frame's full object list
	//   - meshes: the mesh registry used to resolve handles
	//   - materials: the material registry used to validate handles (device culling only)
	//
	// Returns:
	//   - culling.CulledObjectSet: the culling result, tagged with the pass's mode
	//   - error: an error if a GPU upload fails
	Cull(queue *wgpu.Queue, encoder *wgpu.CommandEncoder, cam camera.Camera, objects []culling.Object, meshes mesh.MeshBuffers, materials material.MaterialManager) (culling.CulledObjectSet, error)

	// Prepass records the depth-only prepass into an active render pass whose
	// only attachment is the depth buffer. Panics if the set's mode does not
	// match the pass's mode.
	//
	// Parameters:
	//   - rpass: the active depth-only render pass encoder
	//   - set: the frame's culling result
	//   - meshes: the shared mesh buffers
	//   - materials: the material registry
	Prepass(rpass *wgpu.RenderPassEncoder, set culling.CulledObjectSet, meshes mesh.MeshBuffers, materials material.MaterialManager)

	// Draw records the opaque color pass into an active render pass that
	// loads the prepass depth. Panics if the set's mode does not match the
	// pass's mode.
	//
	// Parameters:
	//   - rpass: the active color render pass encoder
	//   - set: the frame's culling result
	//   - meshes: the shared mesh buffers
	//   - materials: the material registry
	Draw(rpass *wgpu.RenderPassEncoder, set culling.CulledObjectSet, meshes mesh.MeshBuffers, materials material.MaterialManager)

	// Release releases the culler owned by the pass. The render pipelines are
	// owned by the caller that built them.
	Release()
}

var _ OpaquePass = &opaquePass{}

// NewOpaquePass creates an opaque pass for one culling mode. Exactly one of
// host/device must be non-nil and it must match the mode; anything else is a
// configuration error and panics.
//
// Parameters:
//   - mode: the culling mode the pass will run
//   - depth: the depth-only prepass pipeline
//   - opaque: the opaque color pipeline
//   - host: the host culler (required for ModeHost, nil otherwise)
//   - device: the device culler (required for ModeDevice, nil otherwise)
//   - interfaces: the shared bind group layouts and resources
//
// Returns:
//   - OpaquePass: a new opaque pass
func NewOpaquePass(mode culling.Mode, depth, opaque *wgpu.RenderPipeline, host culling.HostCuller, device culling.DeviceCuller, interfaces shader_interfaces.ShaderInterfaces) OpaquePass {
	switch mode {
	case culling.ModeHost:
		if host == nil || device != nil {
			panic("opaque_pass: host mode requires a host culler and no device culler")
		}
	case culling.ModeDevice:
		if device == nil || host != nil {
			panic("opaque_pass: device mode requires a device culler and no host culler")
		}
	default:
		panic(fmt.Sprintf("opaque_pass: unknown culling mode %s", mode))
	}

	return &opaquePass{
		mode:       mode,
		depth:      depth,
		opaque:     opaque,
		host:       host,
		device:     device,
		interfaces: interfaces,
	}
}

func (p *opaquePass) Mode() culling.Mode {
	return p.mode
}

func (p *opaquePass) Cull(queue *wgpu.Queue, encoder *wgpu.CommandEncoder, cam camera.Camera, objects []culling.Object, meshes mesh.MeshBuffers, materials material.MaterialManager) (culling.CulledObjectSet, error) {
	switch p.mode {
	case culling.ModeHost:
		return p.host.Cull(queue, cam, objects, meshes)
	case culling.ModeDevice:
		return p.device.Cull(queue, encoder, cam, objects, meshes, materials), nil
	default:
		panic(fmt.Sprintf("opaque_pass: unknown culling mode %s", p.mode))
	}
}

// checkMode guards every pass-recording entry point against sets produced by
// the other strategy.
func (p *opaquePass) checkMode(set culling.CulledObjectSet) {
	if set.Mode() != p.mode {
		panic(fmt.Sprintf("opaque_pass: %s culled set fed to a %s mode pass", set.Mode(), p.mode))
	}
}

func (p *opaquePass) Prepass(rpass *wgpu.RenderPassEncoder, set culling.CulledObjectSet, meshes mesh.MeshBuffers, materials material.MaterialManager) {
	p.checkMode(set)

	rpass.SetPipeline(p.depth)
	meshes.Bind(rpass)
	rpass.SetBindGroup(SlotSamplers, p.interfaces.SamplersBindGroup(), nil)
	rpass.SetBindGroup(SlotCulledObjects, set.BindGroup(), nil)

	switch p.mode {
	case culling.ModeHost:
		culling.RunHostDraws(rpass, set, materials, PrepassSlotMaterial)
	case culling.ModeDevice:
		rpass.SetBindGroup(PrepassSlotMaterial, materials.TableBindGroup(), nil)
		rpass.SetBindGroup(PrepassSlotTextures, p.interfaces.TexturesBindGroup(), nil)
		culling.RunDeviceDraws(rpass, set)
	}
}

func (p *opaquePass) Draw(rpass *wgpu.RenderPassEncoder, set culling.CulledObjectSet, meshes mesh.MeshBuffers, materials material.MaterialManager) {
	p.checkMode(set)

	rpass.SetPipeline(p.opaque)
	meshes.Bind(rpass)
	rpass.SetBindGroup(SlotSamplers, p.interfaces.SamplersBindGroup(), nil)
	rpass.SetBindGroup(SlotCulledObjects, set.BindGroup(), nil)
	rpass.SetBindGroup(DrawSlotDirectionalLight, p.interfaces.DirectionalLightBindGroup(), nil)
	rpass.SetBindGroup(DrawSlotShaderUniforms, p.interfaces.ShaderUniformsBindGroup(), nil)

	switch p.mode {
	case culling.ModeHost:
		culling.RunHostDraws(rpass, set, materials, DrawSlotMaterial)
	case culling.ModeDevice:
		rpass.SetBindGroup(DrawSlotMaterial, materials.TableBindGroup(), nil)
		rpass.SetBindGroup(DrawSlotTextures, p.interfaces.TexturesBindGroup(), nil)
		culling.RunDeviceDraws(rpass, set)
	}
}

func (p *opaquePass) Release() {
	switch p.mode {
	case culling.ModeHost:
		p.host.Release()
	case culling.ModeDevice:
		p.device.Release()
	}
}
