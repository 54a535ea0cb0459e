package material

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/prism-go/engine/renderer/bind_group_provider"
)

// Handle identifies a material registered with a MaterialManager.
// Handles are dense indices assigned in registration order; the handle value
// doubles as the material's slot in the device-mode material table.
type Handle uint32

// materialManager is the implementation of the MaterialManager interface.
type materialManager struct {
	materials []Material

	// uniformProviders holds one provider per material for host mode, where the
	// draw loop rebinds the active material's uniform between batches.
	uniformProviders []bind_group_provider.BindGroupProvider

	// tableProvider holds the single storage buffer with every material's data
	// for device mode, where the shader indexes the table per-instance.
	tableProvider bind_group_provider.BindGroupProvider

	uploaded bool
}

// MaterialManager is the registry of materials used by the opaque pass. It
// owns both GPU representations of the registered materials: per-material
// uniform bind groups for the host-driven draw loop, and a single storage
// buffer table for the device-driven (GPU culled) path. Registration happens
// before Upload; handles stay valid for the manager's lifetime.
type MaterialManager interface {
	// Register adds a material and returns its handle. Must be called before
	// Upload.
	//
	// Parameters:
	//   - m: the material to register
	//
	// Returns:
	//   - Handle: the dense handle assigned to the material
	Register(m Material) Handle

	// Lookup resolves a handle to its material. An unresolved handle is a fatal
	// configuration error and panics.
	//
	// Parameters:
	//   - h: the material handle to resolve
	//
	// Returns:
	//   - Material: the registered material
	Lookup(h Handle) Material

	// Count returns the number of registered materials.
	//
	// Returns:
	//   - int: the material count
	Count() int

	// Upload creates the GPU resources for every registered material: one
	// uniform buffer and bind group per material against uniformLayout, and one
	// storage buffer table bind group against tableLayout. Further Register
	// calls after a successful Upload panic.
	//
	// Parameters:
	//   - device: the WebGPU device used to create the resources
	//   - queue: the queue used to write the material data
	//   - uniformLayout: the shared per-material uniform bind group layout
	//   - tableLayout: the shared material table bind group layout
	//
	// Returns:
	//   - error: an error if resource creation fails
	Upload(device *wgpu.Device, queue *wgpu.Queue, uniformLayout, tableLayout *wgpu.BindGroupLayout) error

	// UniformBindGroup returns the per-material uniform bind group used by the
	// host-driven draw loop. Panics on an unresolved handle or if Upload has
	// not run.
	//
	// Parameters:
	//   - h: the material handle to resolve
	//
	// Returns:
	//   - *wgpu.BindGroup: the material's uniform bind group
	UniformBindGroup(h Handle) *wgpu.BindGroup

	// TableBindGroup returns the material table bind group used by the
	// device-driven draw path. Panics if Upload has not run.
	//
	// Returns:
	//   - *wgpu.BindGroup: the material table bind group
	TableBindGroup() *wgpu.BindGroup

	// Release releases all GPU resources held by the manager.
	Release()
}

var _ MaterialManager = &materialManager{}

// NewMaterialManager creates an empty material registry.
//
// Returns:
//   - MaterialManager: a new registry ready for Register calls
func NewMaterialManager() MaterialManager {
	return &materialManager{}
}

func (mm *materialManager) Register(m Material) Handle {
	if mm.uploaded {
		panic("material: Register called after Upload, all materials must be registered before GPU upload")
	}
	h := Handle(len(mm.materials))
	mm.materials = append(mm.materials, m)
	return h
}

func (mm *materialManager) Lookup(h Handle) Material {
	if int(h) >= len(mm.materials) {
		panic(fmt.Sprintf("material: unresolved material handle %d (registered materials: %d)", h, len(mm.materials)))
	}
	return mm.materials[h]
}

func (mm *materialManager) Count() int {
	return len(mm.materials)
}

func (mm *materialManager) Upload(device *wgpu.Device, queue *wgpu.Queue, uniformLayout, tableLayout *wgpu.BindGroupLayout) error {
	tableData := make([]byte, 0, len(mm.materials)*32)

	for i, m := range mm.materials {
		gpuData := m.GPUData()
		raw := gpuData.Marshal()
		tableData = append(tableData, raw...)

		provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Material %d (%s)", i, m.Name()))
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: provider.Label() + " Uniform Buffer",
			Size:  uint64(len(raw)),
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to create material uniform buffer: %w", err)
		}
		queue.WriteBuffer(buf, 0, raw)
		provider.SetBuffer(0, buf)
		provider.SetSharedBindGroupLayout(uniformLayout)

		bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  provider.Label() + " Bind Group",
			Layout: uniformLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create material bind group: %w", err)
		}
		provider.SetBindGroup(bg)
		mm.uniformProviders = append(mm.uniformProviders, provider)
	}

	mm.tableProvider = bind_group_provider.NewBindGroupProvider("Material Table")
	if len(tableData) == 0 {
		// Storage bindings reject zero-size buffers, keep one empty slot.
		empty := GPUMaterialData{}
		tableData = empty.Marshal()
	}
	tableBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: mm.tableProvider.Label() + " Storage Buffer",
		Size:  uint64(len(tableData)),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create material table buffer: %w", err)
	}
	queue.WriteBuffer(tableBuf, 0, tableData)
	mm.tableProvider.SetBuffer(0, tableBuf)
	mm.tableProvider.SetSharedBindGroupLayout(tableLayout)

	tableBG, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  mm.tableProvider.Label() + " Bind Group",
		Layout: tableLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: tableBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create material table bind group: %w", err)
	}
	mm.tableProvider.SetBindGroup(tableBG)

	mm.uploaded = true
	return nil
}

func (mm *materialManager) UniformBindGroup(h Handle) *wgpu.BindGroup {
	if !mm.uploaded {
		panic("material: UniformBindGroup called before Upload")
	}
	if int(h) >= len(mm.uniformProviders) {
		panic(fmt.Sprintf("material: unresolved material handle %d (registered materials: %d)", h, len(mm.uniformProviders)))
	}
	return mm.uniformProviders[h].BindGroup()
}

func (mm *materialManager) TableBindGroup() *wgpu.BindGroup {
	if !mm.uploaded {
		panic("material: TableBindGroup called before Upload")
	}
	return mm.tableProvider.BindGroup()
}

func (mm *materialManager) Release() {
	for _, p := range mm.uniformProviders {
		p.Release()
	}
	mm.uniformProviders = nil
	if mm.tableProvider != nil {
		mm.tableProvider.Release()
		mm.tableProvider = nil
	}
	mm.uploaded = false
}
