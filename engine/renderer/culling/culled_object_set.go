package culling

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/prism-go/engine/renderer/material"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/mesh"
)

// DrawCall is one batched draw produced by the host culler. Objects sharing a
// (mesh, material) pair collapse into a single call; their per-object data
// occupies the contiguous instance range [FirstInstance, FirstInstance+InstanceCount)
// in the culled output buffer.
type DrawCall struct {
	// Mesh is the batch's mesh handle.
	Mesh mesh.Handle
	// Range is the mesh's resolved location in the megabuffers.
	Range mesh.Range
	// Material is the batch's material handle.
	Material material.Handle
	// FirstInstance is the batch's starting slot in the culled output buffer.
	FirstInstance uint32
	// InstanceCount is the number of visible objects in the batch.
	InstanceCount uint32
}

// culledObjectSet is the implementation of the CulledObjectSet interface.
type culledObjectSet struct {
	mode        Mode
	objectCount int
	bindGroup   *wgpu.BindGroup

	// Host payload, valid only when mode == ModeHost.
	draws []DrawCall

	// Device payload, valid only when mode == ModeDevice.
	indirectBuffer *wgpu.Buffer
}

// CulledObjectSet is the per-frame result of a culling pass, tagged with the
// mode that produced it. The draw passes consume it the same frame; the GPU
// buffers it references stay owned by the culler that ran the pass, so the
// set itself holds nothing to release.
//
// Mixing modes is a programming error: asking a host set for its indirect
// buffer (or a device set for its draw list) panics immediately instead of
// rendering garbage.
type CulledObjectSet interface {
	// Mode returns the strategy tag this set was produced under.
	//
	// Returns:
	//   - Mode: ModeHost or ModeDevice
	Mode() Mode

	// ObjectCount returns the number of slots in the culled output buffer:
	// the visible object count for host sets, the total submitted object
	// count for device sets (invisible slots carry zero-instance draws).
	//
	// Returns:
	//   - int: the slot count
	ObjectCount() int

	// BindGroup returns the bind group exposing the culled per-object data to
	// the vertex shaders. Valid in both modes.
	//
	// Returns:
	//   - *wgpu.BindGroup: the culled object data bind group
	BindGroup() *wgpu.BindGroup

	// Draws returns the batched draw calls. Panics unless the set was
	// produced by a host culling pass.
	//
	// Returns:
	//   - []DrawCall: the batched draws in first-seen batch order
	Draws() []DrawCall

	// IndirectBuffer returns the buffer of DrawIndexedIndirect arguments.
	// Panics unless the set was produced by a device culling pass.
	//
	// Returns:
	//   - *wgpu.Buffer: the indirect argument buffer
	IndirectBuffer() *wgpu.Buffer
}

var _ CulledObjectSet = &culledObjectSet{}

// NewHostCulledSet wraps the output of a host culling pass.
//
// Parameters:
//   - draws: the batched draw calls in submission order
//   - bindGroup: the culled object data bind group
//   - objectCount: the number of visible objects written to the output buffer
//
// Returns:
//   - CulledObjectSet: a host-tagged set
func NewHostCulledSet(draws []DrawCall, bindGroup *wgpu.BindGroup, objectCount int) CulledObjectSet {
	return &culledObjectSet{
		mode:        ModeHost,
		objectCount: objectCount,
		bindGroup:   bindGroup,
		draws:       draws,
	}
}

// NewDeviceCulledSet wraps the output of a device culling pass.
//
// Parameters:
//   - bindGroup: the culled object data bind group
//   - indirectBuffer: the buffer of per-slot DrawIndexedIndirect arguments
//   - objectCount: the number of submitted objects (one indirect slot each)
//
// Returns:
//   - CulledObjectSet: a device-tagged set
func NewDeviceCulledSet(bindGroup *wgpu.BindGroup, indirectBuffer *wgpu.Buffer, objectCount int) CulledObjectSet {
	return &culledObjectSet{
		mode:           ModeDevice,
		objectCount:    objectCount,
		bindGroup:      bindGroup,
		indirectBuffer: indirectBuffer,
	}
}

func (s *culledObjectSet) Mode() Mode {
	return s.mode
}

func (s *culledObjectSet) ObjectCount() int {
	return s.objectCount
}

func (s *culledObjectSet) BindGroup() *wgpu.BindGroup {
	return s.bindGroup
}

func (s *culledObjectSet) Draws() []DrawCall {
	if s.mode != ModeHost {
		panic(fmt.Sprintf("culling: Draws called on a %s culled set", s.mode))
	}
	return s.draws
}

func (s *culledObjectSet) IndirectBuffer() *wgpu.Buffer {
	if s.mode != ModeDevice {
		panic(fmt.Sprintf("culling: IndirectBuffer called on a %s culled set", s.mode))
	}
	return s.indirectBuffer
}
