package mesh

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/bind_group_provider"
)

// Handle identifies a mesh registered with a MeshBuffers registry.
// Handles are dense indices assigned in registration order.
type Handle uint32

// Range describes where a registered mesh lives inside the shared vertex and
// index megabuffers. The values map directly onto DrawIndexedIndirect
// arguments (first index, index count, base vertex).
type Range struct {
	FirstIndex uint32
	IndexCount uint32
	BaseVertex int32
}

// meshBuffers is the implementation of the MeshBuffers interface.
type meshBuffers struct {
	ranges []Range
	bounds []common.BoundingSphere

	// Staged CPU-side data appended by Register, consumed by Upload.
	stagedVertices []GPUVertex
	stagedIndices  []uint32

	provider bind_group_provider.BindGroupProvider
	uploaded bool
}

// MeshBuffers is the registry of GPU-resident mesh geometry. All meshes share
// one vertex buffer and one index buffer (a megabuffer layout), so a render
// pass binds geometry exactly once and every draw call addresses its mesh via
// a Range. Registration and range bookkeeping happen on the CPU; Upload
// creates the GPU buffers once all meshes are registered.
type MeshBuffers interface {
	// Register appends a mesh's vertex and index data to the staging arrays and
	// returns its handle. Must be called before Upload.
	//
	// Parameters:
	//   - vertices: the mesh's vertex data
	//   - indices: the mesh's index data (uint32 indices into vertices)
	//
	// Returns:
	//   - Handle: the dense handle assigned to the mesh
	Register(vertices []GPUVertex, indices []uint32) Handle

	// Lookup resolves a handle to its buffer range. An unresolved handle is a
	// fatal configuration error and panics: it means the scene manager handed
	// the renderer an object referencing a mesh that was never registered.
	//
	// Parameters:
	//   - h: the mesh handle to resolve
	//
	// Returns:
	//   - Range: the mesh's location in the megabuffers
	Lookup(h Handle) Range

	// Bounds returns the object-space bounding sphere computed for a mesh at
	// registration time. Panics on an unresolved handle, same as Lookup.
	//
	// Parameters:
	//   - h: the mesh handle to resolve
	//
	// Returns:
	//   - common.BoundingSphere: the mesh's bounding sphere
	Bounds(h Handle) common.BoundingSphere

	// Count returns the number of registered meshes.
	//
	// Returns:
	//   - int: the mesh count
	Count() int

	// Upload creates the GPU vertex and index megabuffers from the staged data
	// and writes the data through the queue. Further Register calls after a
	// successful Upload panic.
	//
	// Parameters:
	//   - device: the WebGPU device used to create the buffers
	//   - queue: the queue used to write the staged data
	//
	// Returns:
	//   - error: an error if buffer creation fails
	Upload(device *wgpu.Device, queue *wgpu.Queue) error

	// Bind binds the shared vertex and index buffers on a render pass. Called
	// once at the start of the prepass and again for the opaque pass. Panics
	// if Upload has not run.
	//
	// Parameters:
	//   - rpass: the active render pass encoder
	Bind(rpass *wgpu.RenderPassEncoder)

	// Release releases the GPU megabuffers.
	Release()
}

var _ MeshBuffers = &meshBuffers{}

// NewMeshBuffers creates an empty mesh registry.
//
// Returns:
//   - MeshBuffers: a new registry ready for Register calls
func NewMeshBuffers() MeshBuffers {
	return &meshBuffers{
		provider: bind_group_provider.NewBindGroupProvider("Mesh Buffers"),
	}
}

func (m *meshBuffers) Register(vertices []GPUVertex, indices []uint32) Handle {
	if m.uploaded {
		panic("mesh: Register called after Upload, all meshes must be registered before GPU upload")
	}

	h := Handle(len(m.ranges))
	m.ranges = append(m.ranges, Range{
		FirstIndex: uint32(len(m.stagedIndices)),
		IndexCount: uint32(len(indices)),
		BaseVertex: int32(len(m.stagedVertices)),
	})
	m.bounds = append(m.bounds, ComputeBoundingSphere(vertices))

	m.stagedVertices = append(m.stagedVertices, vertices...)
	m.stagedIndices = append(m.stagedIndices, indices...)
	return h
}

func (m *meshBuffers) Lookup(h Handle) Range {
	if int(h) >= len(m.ranges) {
		panic(fmt.Sprintf("mesh: unresolved mesh handle %d (registered meshes: %d)", h, len(m.ranges)))
	}
	return m.ranges[h]
}

func (m *meshBuffers) Bounds(h Handle) common.BoundingSphere {
	if int(h) >= len(m.bounds) {
		panic(fmt.Sprintf("mesh: unresolved mesh handle %d (registered meshes: %d)", h, len(m.bounds)))
	}
	return m.bounds[h]
}

func (m *meshBuffers) Count() int {
	return len(m.ranges)
}

func (m *meshBuffers) Upload(device *wgpu.Device, queue *wgpu.Queue) error {
	vertexData := common.SliceToBytes(m.stagedVertices)
	indexData := common.SliceToBytes(m.stagedIndices)

	if len(vertexData) > 0 {
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: m.provider.Label() + " Vertex Buffer",
			Size:  uint64(len(vertexData)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to create vertex megabuffer: %w", err)
		}
		queue.WriteBuffer(buf, 0, vertexData)
		m.provider.SetVertexBuffer(buf)
	}

	if len(indexData) > 0 {
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: m.provider.Label() + " Index Buffer",
			Size:  uint64(len(indexData)),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to create index megabuffer: %w", err)
		}
		queue.WriteBuffer(buf, 0, indexData)
		m.provider.SetIndexBuffer(buf)
	}

	m.provider.SetIndexCount(len(m.stagedIndices))
	m.uploaded = true

	// Staged data is no longer needed once it lives on the GPU.
	m.stagedVertices = nil
	m.stagedIndices = nil
	return nil
}

func (m *meshBuffers) Bind(rpass *wgpu.RenderPassEncoder) {
	if !m.uploaded {
		panic("mesh: Bind called before Upload")
	}
	rpass.SetVertexBuffer(0, m.provider.VertexBuffer(), 0, wgpu.WholeSize)
	rpass.SetIndexBuffer(m.provider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
}

func (m *meshBuffers) Release() {
	m.provider.Release()
	m.uploaded = false
}
