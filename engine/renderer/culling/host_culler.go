package culling

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/camera"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/mesh"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/shader_interfaces"
)

// defaultParallelThreshold is the object count above which the host culler
// fans visibility testing out across the worker pool. Below it the per-task
// overhead costs more than the plane tests save.
const defaultParallelThreshold = 4096

// hostCuller is the implementation of the HostCuller interface.
type hostCuller struct {
	device     *wgpu.Device
	interfaces shader_interfaces.ShaderInterfaces
	provider   bind_group_provider.BindGroupProvider

	// bufferSize is the current byte size of the culled output buffer. The
	// buffer grows as needed and is never shrunk.
	bufferSize uint64

	pool              worker.DynamicWorkerPool
	workers           int
	parallelThreshold int
}

// HostCuller runs frustum culling on the CPU. Each Cull walks the frame's
// object list, drops everything outside the camera frustum, batches the
// survivors by (mesh, material) pair, and uploads their per-object data to a
// storage buffer the vertex shaders index by instance. Large object lists are
// tested in parallel across a worker pool; the result is identical to the
// serial path because each worker owns a disjoint index range.
type HostCuller interface {
	// Cull runs one culling pass and returns a host-tagged CulledObjectSet.
	// Unresolved mesh handles panic. The returned set borrows the culler's
	// GPU buffers and is valid until the next Cull call.
	//
	// Parameters:
	//   - queue: the queue used to upload the culled object data
	//   - cam: the frame's camera snapshot
	//   - objects: the frame's full object list
	//   - meshes: the mesh registry used to resolve handles
	//
	// Returns:
	//   - CulledObjectSet: the batched, uploaded culling result
	//   - error: an error if GPU buffer creation fails
	Cull(queue *wgpu.Queue, cam camera.Camera, objects []Object, meshes mesh.MeshBuffers) (CulledObjectSet, error)

	// Release releases the culler's GPU resources.
	Release()
}

var _ HostCuller = &hostCuller{}

// HostCullerOption configures a host culler during construction.
type HostCullerOption func(*hostCuller)

// WithParallelThreshold is an option builder that sets the object count above
// which visibility testing runs on the worker pool.
//
// Parameters:
//   - threshold: the minimum object count for parallel culling
//
// Returns:
//   - HostCullerOption: a function that applies the threshold option
func WithParallelThreshold(threshold int) HostCullerOption {
	return func(h *hostCuller) {
		h.parallelThreshold = threshold
	}
}

// WithWorkers is an option builder that sets the worker pool size used for
// parallel visibility testing.
//
// Parameters:
//   - workers: the number of pool workers
//
// Returns:
//   - HostCullerOption: a function that applies the workers option
func WithWorkers(workers int) HostCullerOption {
	return func(h *hostCuller) {
		h.workers = max(workers, 1)
	}
}

// NewHostCuller creates a host culler bound to a device and the shared shader
// interfaces.
//
// Parameters:
//   - device: the WebGPU device used for the culled output buffer
//   - interfaces: the shared bind group layouts
//   - options: variadic list of HostCullerOption functions
//
// Returns:
//   - HostCuller: a new host culler
func NewHostCuller(device *wgpu.Device, interfaces shader_interfaces.ShaderInterfaces, options ...HostCullerOption) HostCuller {
	h := &hostCuller{
		device:            device,
		interfaces:        interfaces,
		provider:          bind_group_provider.NewBindGroupProvider("Host Culler"),
		workers:           max(runtime.NumCPU()-1, 1),
		parallelThreshold: defaultParallelThreshold,
	}
	for _, opt := range options {
		opt(h)
	}
	h.pool = worker.NewDynamicWorkerPool(h.workers, 256, 1*time.Second)
	return h
}

func (h *hostCuller) Cull(queue *wgpu.Queue, cam camera.Camera, objects []Object, meshes mesh.MeshBuffers) (CulledObjectSet, error) {
	frustum := cam.Frustum()

	visible := make([]bool, len(objects))
	if len(objects) >= h.parallelThreshold {
		h.testVisibilityParallel(&frustum, objects, meshes, visible)
	} else {
		for i, obj := range objects {
			visible[i] = isVisible(&frustum, obj, meshes.Bounds(obj.Mesh))
		}
	}

	draws, objectData := buildDraws(cam.ViewProjectionMatrix(), objects, visible, meshes)

	data := common.SliceToBytes(objectData)
	if len(data) == 0 {
		// Keep one zeroed slot so the bind group stays valid on empty frames.
		empty := GPUObjectData{}
		data = empty.Marshal()
	}

	if err := h.ensureBuffer(uint64(len(data))); err != nil {
		return nil, err
	}
	queue.WriteBuffer(h.provider.Buffer(0), 0, data)

	return NewHostCulledSet(draws, h.provider.BindGroup(), len(objectData)), nil
}

// testVisibilityParallel splits the object list into one contiguous chunk per
// worker. Workers write disjoint regions of the visible slice, so no locking
// is needed and the result matches the serial path exactly.
func (h *hostCuller) testVisibilityParallel(frustum *common.Frustum, objects []Object, meshes mesh.MeshBuffers, visible []bool) {
	chunk := (len(objects) + h.workers - 1) / h.workers

	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(objects); start += chunk {
		end := min(start+chunk, len(objects))

		wg.Add(1)
		lo, hi := start, end
		id := taskID
		taskID++
		h.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					visible[i] = isVisible(frustum, objects[i], meshes.Bounds(objects[i].Mesh))
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// ensureBuffer grows the culled output buffer and recreates its bind group
// when the frame needs more space than the current allocation.
func (h *hostCuller) ensureBuffer(size uint64) error {
	if h.provider.Buffer(0) != nil && size <= h.bufferSize {
		return nil
	}

	if old := h.provider.Buffer(0); old != nil {
		old.Release()
	}
	if old := h.provider.BindGroup(); old != nil {
		old.Release()
	}

	buf, err := h.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: h.provider.Label() + " Object Data Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create culled object buffer: %w", err)
	}
	h.provider.SetBuffer(0, buf)
	h.provider.SetSharedBindGroupLayout(h.interfaces.CulledObjectBGL())

	bg, err := h.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  h.provider.Label() + " Bind Group",
		Layout: h.interfaces.CulledObjectBGL(),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create culled object bind group: %w", err)
	}
	h.provider.SetBindGroup(bg)
	h.bufferSize = size

	return nil
}

func (h *hostCuller) Release() {
	h.provider.Release()
	h.bufferSize = 0
}
