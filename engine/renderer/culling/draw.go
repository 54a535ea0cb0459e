package culling

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/prism-go/engine/renderer/material"
)

// RunHostDraws submits the batched draws from a host culling pass. The
// caller has already bound the pass-wide bind groups and the shared mesh
// buffers; this binds each batch's material at materialSlot and issues one
// indexed draw per batch. Panics if the set was not produced by a host
// culling pass.
//
// Parameters:
//   - rpass: the active render pass encoder
//   - set: the host-tagged culling result
//   - materials: the material registry providing per-material bind groups
//   - materialSlot: the bind group slot for the per-material uniform
func RunHostDraws(rpass *wgpu.RenderPassEncoder, set CulledObjectSet, materials material.MaterialManager, materialSlot uint32) {
	for _, d := range set.Draws() {
		rpass.SetBindGroup(materialSlot, materials.UniformBindGroup(d.Material), nil)
		rpass.DrawIndexed(d.Range.IndexCount, d.InstanceCount, d.Range.FirstIndex, d.Range.BaseVertex, d.FirstInstance)
	}
}

// RunDeviceDraws submits the indirect draws from a device culling pass: one
// DrawIndexedIndirect per submitted object, reading arguments the culling
// compute shader wrote. Culled slots carry a zero instance count and cost
// nothing beyond the argument fetch. Panics if the set was not produced by a
// device culling pass.
//
// Parameters:
//   - rpass: the active render pass encoder
//   - set: the device-tagged culling result
func RunDeviceDraws(rpass *wgpu.RenderPassEncoder, set CulledObjectSet) {
	buf := set.IndirectBuffer()
	var args GPUIndirectArgs
	stride := uint64(args.Size())
	for i := range set.ObjectCount() {
		rpass.DrawIndexedIndirect(buf, uint64(i)*stride)
	}
}
