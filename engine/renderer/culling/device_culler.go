package culling

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/camera"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/material"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/mesh"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/shader_interfaces"
)

// cullShaderBody is the culling compute shader entry point. The struct
// definitions it references are prepended from their canonical sources at
// pipeline creation, keeping the WGSL and Go layouts in one place each.
//
//go:embed assets/cull.wgsl
var cullShaderBody string

// defaultDeviceCapacity is the default maximum object count per device
// culling pass. The input, output, and indirect buffers are allocated at this
// capacity up front so a frame never reallocates mid-encode.
const defaultDeviceCapacity = 16384

// cullWorkgroupSize matches @workgroup_size in the compute shader.
const cullWorkgroupSize = 64

// bufferRingDepth is the number of in-flight buffer sets. Two is enough to
// stop frame N+1's uploads from stomping buffers frame N still reads.
const bufferRingDepth = 2

// cullBuffers is one ring slot of device culling resources.
type cullBuffers struct {
	globals  *wgpu.Buffer
	input    *wgpu.Buffer
	output   *wgpu.Buffer
	indirect *wgpu.Buffer

	// computeBG binds all four buffers for the compute dispatch.
	computeBG *wgpu.BindGroup
	// outputBG exposes the output buffer to the vertex shaders, created
	// against the shared culled object layout.
	outputBG *wgpu.BindGroup
}

func (cb *cullBuffers) release() {
	if cb.outputBG != nil {
		cb.outputBG.Release()
		cb.outputBG = nil
	}
	if cb.computeBG != nil {
		cb.computeBG.Release()
		cb.computeBG = nil
	}
	for _, buf := range []*wgpu.Buffer{cb.globals, cb.input, cb.output, cb.indirect} {
		if buf != nil {
			buf.Release()
		}
	}
	cb.globals, cb.input, cb.output, cb.indirect = nil, nil, nil, nil
}

// deviceCuller is the implementation of the DeviceCuller interface.
type deviceCuller struct {
	device     *wgpu.Device
	interfaces shader_interfaces.ShaderInterfaces

	capacity int

	layout       *wgpu.BindGroupLayout
	cullPipeline pipeline.Pipeline

	ring       [bufferRingDepth]cullBuffers
	frameIndex uint64
}

// DeviceCuller runs frustum culling in a compute shader. Each Cull uploads
// the frame's objects to a fixed-capacity input buffer and records a dispatch
// that writes per-object data plus DrawIndexedIndirect arguments; culled
// objects get a zero instance count so their draws are no-ops. Buffers are
// double buffered so consecutive frames never race on the same allocation.
//
// Submitting more objects than the configured capacity, or an object with an
// unresolved material handle, is a fatal configuration error and panics before
// any GPU work is recorded.
type DeviceCuller interface {
	// Cull records one culling dispatch into the frame's command encoder and
	// returns a device-tagged CulledObjectSet. The returned set borrows the
	// culler's GPU buffers and is valid for the frame being encoded.
	//
	// Parameters:
	//   - queue: the queue used to upload the object and globals data
	//   - encoder: the frame's command encoder, culling runs before the render passes
	//   - cam: the frame's camera snapshot
	//   - objects: the frame's full object list
	//   - meshes: the mesh registry used to resolve handles
	//   - materials: the material registry used to validate handles
	//
	// Returns:
	//   - CulledObjectSet: the recorded culling result
	Cull(queue *wgpu.Queue, encoder *wgpu.CommandEncoder, cam camera.Camera, objects []Object, meshes mesh.MeshBuffers, materials material.MaterialManager) CulledObjectSet

	// Capacity returns the maximum object count per culling pass.
	//
	// Returns:
	//   - int: the configured capacity
	Capacity() int

	// Release releases the culler's GPU resources.
	Release()
}

var _ DeviceCuller = &deviceCuller{}

// DeviceCullerOption configures a device culler during construction.
type DeviceCullerOption func(*deviceCuller)

// WithCapacity is an option builder that sets the maximum object count per
// culling pass. Buffers are sized to this capacity at first use.
//
// Parameters:
//   - capacity: the maximum object count
//
// Returns:
//   - DeviceCullerOption: a function that applies the capacity option
func WithCapacity(capacity int) DeviceCullerOption {
	return func(d *deviceCuller) {
		d.capacity = max(capacity, 1)
	}
}

// NewDeviceCuller creates a device culler and compiles its compute pipeline.
//
// Parameters:
//   - device: the WebGPU device used for buffers and the pipeline
//   - interfaces: the shared bind group layouts
//   - options: variadic list of DeviceCullerOption functions
//
// Returns:
//   - DeviceCuller: a new device culler
//   - error: an error if shader or pipeline creation fails
func NewDeviceCuller(device *wgpu.Device, interfaces shader_interfaces.ShaderInterfaces, options ...DeviceCullerOption) (DeviceCuller, error) {
	d := &deviceCuller{
		device:     device,
		interfaces: interfaces,
		capacity:   defaultDeviceCapacity,
	}
	for _, opt := range options {
		opt(d)
	}

	var err error
	d.layout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Cull Compute BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
			{Binding: 3, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cull bind group layout: %w", err)
	}

	d.cullPipeline = newCullPipeline(d.layout)
	if err := d.cullPipeline.Build(device, wgpu.TextureFormatUndefined); err != nil {
		return nil, fmt.Errorf("failed to build cull compute pipeline: %w", err)
	}

	return d, nil
}

// newCullPipeline configures (without building) the culling compute pipeline:
// the canonical struct sources concatenated with the dispatch body, entered at
// cs_cull, against the culler's single bind group layout.
func newCullPipeline(layout *wgpu.BindGroupLayout) pipeline.Pipeline {
	source := strings.Join([]string{
		GPUFrustumPlaneSource,
		GPUCullGlobalsSource,
		GPUCullObjectSource,
		GPUObjectDataSource,
		GPUIndirectArgsSource,
		cullShaderBody,
	}, "\n")

	return pipeline.NewPipeline("Cull Compute", pipeline.PipelineTypeCompute,
		pipeline.WithComputeShader(source, "cs_cull"),
		pipeline.WithBindGroupLayouts(layout),
	)
}

func (d *deviceCuller) Capacity() int {
	return d.capacity
}

func (d *deviceCuller) Cull(queue *wgpu.Queue, encoder *wgpu.CommandEncoder, cam camera.Camera, objects []Object, meshes mesh.MeshBuffers, materials material.MaterialManager) CulledObjectSet {
	if len(objects) > d.capacity {
		panic(fmt.Sprintf("culling: %d objects submitted to a device culler with capacity %d", len(objects), d.capacity))
	}

	// The compute shader indexes the material table by the raw handle, so an
	// unresolved handle must fail here rather than read out of bounds on the GPU.
	for _, obj := range objects {
		if int(obj.Material) >= materials.Count() {
			panic(fmt.Sprintf("culling: unresolved material handle %d (registered materials: %d)", obj.Material, materials.Count()))
		}
	}

	slot := &d.ring[d.frameIndex%bufferRingDepth]
	d.frameIndex++

	if slot.input == nil {
		if err := d.allocateSlot(slot); err != nil {
			panic(fmt.Sprintf("culling: failed to allocate device culling buffers: %v", err))
		}
	}

	// Stage and upload the input objects.
	input := make([]GPUCullObject, len(objects))
	for i, obj := range objects {
		r := meshes.Lookup(obj.Mesh)
		bounds := meshes.Bounds(obj.Mesh)
		input[i] = GPUCullObject{
			Model:         obj.Transform,
			BoundsCenter:  bounds.Center,
			BoundsRadius:  bounds.Radius,
			FirstIndex:    r.FirstIndex,
			IndexCount:    r.IndexCount,
			BaseVertex:    r.BaseVertex,
			MaterialIndex: uint32(obj.Material),
		}
	}
	if len(input) > 0 {
		queue.WriteBuffer(slot.input, 0, common.SliceToBytes(input))
	}

	vp := cam.ViewProjectionMatrix()
	globals := GPUCullGlobals{
		ViewProjection: vp,
		Planes:         PlanesFromFrustum(cam.Frustum()),
		ObjectCount:    uint32(len(objects)),
	}
	queue.WriteBuffer(slot.globals, 0, globals.Marshal())

	if len(objects) > 0 {
		workgroups := (uint32(len(objects)) + cullWorkgroupSize - 1) / cullWorkgroupSize
		pass := encoder.BeginComputePass(&wgpu.ComputePassDescriptor{Label: "Cull Compute Pass"})
		pass.SetPipeline(d.cullPipeline.ComputePipeline())
		pass.SetBindGroup(0, slot.computeBG, nil)
		pass.DispatchWorkgroups(workgroups, 1, 1)
		pass.End()
	}

	return NewDeviceCulledSet(slot.outputBG, slot.indirect, len(objects))
}

// allocateSlot creates one ring slot's buffers and bind groups at the
// configured capacity.
func (d *deviceCuller) allocateSlot(slot *cullBuffers) error {
	var g GPUCullGlobals
	var in GPUCullObject
	var out GPUObjectData
	var args GPUIndirectArgs

	var err error
	slot.globals, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Cull Globals Buffer",
		Size:  uint64(g.Size()),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create cull globals buffer: %w", err)
	}

	slot.input, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Cull Input Buffer",
		Size:  uint64(d.capacity * in.Size()),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create cull input buffer: %w", err)
	}

	slot.output, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Cull Output Buffer",
		Size:  uint64(d.capacity * out.Size()),
		Usage: wgpu.BufferUsageStorage,
	})
	if err != nil {
		return fmt.Errorf("failed to create cull output buffer: %w", err)
	}

	slot.indirect, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Cull Indirect Buffer",
		Size:  uint64(d.capacity * args.Size()),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageIndirect,
	})
	if err != nil {
		return fmt.Errorf("failed to create cull indirect buffer: %w", err)
	}

	slot.computeBG, err = d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Cull Compute Bind Group",
		Layout: d.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: slot.globals, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: slot.input, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: slot.output, Size: wgpu.WholeSize},
			{Binding: 3, Buffer: slot.indirect, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create cull compute bind group: %w", err)
	}

	slot.outputBG, err = d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Cull Output Bind Group",
		Layout: d.interfaces.CulledObjectBGL(),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: slot.output, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create cull output bind group: %w", err)
	}

	return nil
}

func (d *deviceCuller) Release() {
	for i := range d.ring {
		d.ring[i].release()
	}
	if d.cullPipeline != nil {
		d.cullPipeline.Release()
		d.cullPipeline = nil
	}
	if d.layout != nil {
		d.layout.Release()
		d.layout = nil
	}
}
