package shader_interfaces

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/prism-go/engine/renderer/bind_group_provider"
)

// shaderInterfaces is the implementation of the ShaderInterfaces interface.
type shaderInterfaces struct {
	device *wgpu.Device

	samplersBGL         *wgpu.BindGroupLayout
	culledObjectBGL     *wgpu.BindGroupLayout
	perMaterialBGL      *wgpu.BindGroupLayout
	materialTableBGL    *wgpu.BindGroupLayout
	texturesBGL         *wgpu.BindGroupLayout
	directionalLightBGL *wgpu.BindGroupLayout
	shaderUniformsBGL   *wgpu.BindGroupLayout

	linearSampler  *wgpu.Sampler
	nearestSampler *wgpu.Sampler
	samplersBG     *wgpu.BindGroup

	placeholderTexture *wgpu.Texture
	placeholderView    *wgpu.TextureView
	texturesBG         *wgpu.BindGroup

	lightProvider    bind_group_provider.BindGroupProvider
	uniformsProvider bind_group_provider.BindGroupProvider
}

// ShaderInterfaces owns the process-wide bind group layouts shared by every
// pipeline in the renderer, plus the GPU resources whose contents are
// pipeline-independent: the sampler pair, the texture bindings, the
// directional light uniform, and the per-frame shader uniforms. Layouts
// returned here are shared; providers created against them must use
// SetSharedBindGroupLayout so Release ownership stays with this component.
//
// Layout inventory:
//   - Samplers: linear at binding 0, nearest at binding 1 (fragment visible)
//   - CulledObject: read-only storage buffer of per-object data (vertex visible)
//   - PerMaterial: one material uniform (fragment visible, host-driven draws)
//   - MaterialTable: read-only storage of all materials (fragment visible, device-driven draws)
//   - Textures: sampled 2D texture at binding 0 (fragment visible)
//   - DirectionalLight: uniform (fragment visible)
//   - ShaderUniforms: per-frame camera uniform (vertex and fragment visible)
type ShaderInterfaces interface {
	// Release releases every layout and GPU resource owned by this component.
	Release()

	// SamplersBGL returns the shared sampler bind group layout.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the samplers layout
	SamplersBGL() *wgpu.BindGroupLayout

	// SamplersBindGroup returns the bind group holding the linear and nearest samplers.
	//
	// Returns:
	//   - *wgpu.BindGroup: the samplers bind group
	SamplersBindGroup() *wgpu.BindGroup

	// CulledObjectBGL returns the layout for the culled per-object data storage buffer.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the culled object layout
	CulledObjectBGL() *wgpu.BindGroupLayout

	// PerMaterialBGL returns the layout for a single material uniform, used by
	// the host-driven draw loop.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the per-material uniform layout
	PerMaterialBGL() *wgpu.BindGroupLayout

	// MaterialTableBGL returns the layout for the full material storage table,
	// used by the device-driven draw path.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the material table layout
	MaterialTableBGL() *wgpu.BindGroupLayout

	// TexturesBGL returns the layout for sampled texture bindings.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the textures layout
	TexturesBGL() *wgpu.BindGroupLayout

	// TexturesBindGroup returns the texture bind group. Until texture streaming
	// lands this binds a 1x1 white placeholder so pipelines and slot layouts
	// stay identical either way.
	//
	// Returns:
	//   - *wgpu.BindGroup: the textures bind group
	TexturesBindGroup() *wgpu.BindGroup

	// DirectionalLightBGL returns the directional light uniform layout.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the directional light layout
	DirectionalLightBGL() *wgpu.BindGroupLayout

	// DirectionalLightBindGroup returns the directional light bind group.
	//
	// Returns:
	//   - *wgpu.BindGroup: the directional light bind group
	DirectionalLightBindGroup() *wgpu.BindGroup

	// UpdateDirectionalLight writes new light data into the light uniform buffer.
	//
	// Parameters:
	//   - queue: the queue used for the buffer write
	//   - light: the light data to upload
	UpdateDirectionalLight(queue *wgpu.Queue, light GPUDirectionalLight)

	// ShaderUniformsBGL returns the per-frame shader uniform layout.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the shader uniforms layout
	ShaderUniformsBGL() *wgpu.BindGroupLayout

	// ShaderUniformsBindGroup returns the per-frame shader uniforms bind group.
	//
	// Returns:
	//   - *wgpu.BindGroup: the shader uniforms bind group
	ShaderUniformsBindGroup() *wgpu.BindGroup

	// UpdateShaderUniforms writes new camera data into the uniform buffer.
	// Called once at the start of each frame.
	//
	// Parameters:
	//   - queue: the queue used for the buffer write
	//   - uniforms: the camera data to upload
	UpdateShaderUniforms(queue *wgpu.Queue, uniforms GPUShaderUniforms)
}

var _ ShaderInterfaces = &shaderInterfaces{}

// NewShaderInterfaces creates every shared bind group layout and the
// pipeline-independent GPU resources on the given device. Layout creation
// failures are fatal configuration errors and panic.
//
// Parameters:
//   - device: the WebGPU device to create resources on
//   - queue: the queue used for the placeholder texture and initial uniform writes
//
// Returns:
//   - ShaderInterfaces: the shared interface registry
func NewShaderInterfaces(device *wgpu.Device, queue *wgpu.Queue) ShaderInterfaces {
	si := &shaderInterfaces{device: device}

	si.samplersBGL = mustCreateLayout(device, &wgpu.BindGroupLayoutDescriptor{
		Label: "Samplers BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment, Sampler: wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}},
			{Binding: 1, Visibility: wgpu.ShaderStageFragment, Sampler: wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}},
		},
	})

	si.culledObjectBGL = mustCreateLayout(device, &wgpu.BindGroupLayoutDescriptor{
		Label: "Culled Object BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
		},
	})

	si.perMaterialBGL = mustCreateLayout(device, &wgpu.BindGroupLayoutDescriptor{
		Label: "Per Material BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
		},
	})

	si.materialTableBGL = mustCreateLayout(device, &wgpu.BindGroupLayoutDescriptor{
		Label: "Material Table BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
		},
	})

	si.texturesBGL = mustCreateLayout(device, &wgpu.BindGroupLayoutDescriptor{
		Label: "Textures BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment, Texture: wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: wgpu.TextureViewDimension2D}},
		},
	})

	si.directionalLightBGL = mustCreateLayout(device, &wgpu.BindGroupLayoutDescriptor{
		Label: "Directional Light BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
		},
	})

	si.shaderUniformsBGL = mustCreateLayout(device, &wgpu.BindGroupLayoutDescriptor{
		Label: "Shader Uniforms BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
		},
	})

	si.initSamplers()
	si.initPlaceholderTexture(queue)
	si.initDirectionalLight(queue)
	si.initShaderUniforms(queue)

	return si
}

// mustCreateLayout wraps layout creation; a failure here means the device is
// unusable, so it panics rather than returning an error.
func mustCreateLayout(device *wgpu.Device, desc *wgpu.BindGroupLayoutDescriptor) *wgpu.BindGroupLayout {
	bgl, err := device.CreateBindGroupLayout(desc)
	if err != nil {
		panic(fmt.Sprintf("shader_interfaces: failed to create %s: %v", desc.Label, err))
	}
	return bgl
}

func (si *shaderInterfaces) initSamplers() {
	var err error
	si.linearSampler, err = si.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Linear Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0.0,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		panic(fmt.Sprintf("shader_interfaces: failed to create linear sampler: %v", err))
	}

	si.nearestSampler, err = si.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Nearest Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0.0,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		panic(fmt.Sprintf("shader_interfaces: failed to create nearest sampler: %v", err))
	}

	si.samplersBG, err = si.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Samplers Bind Group",
		Layout: si.samplersBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Sampler: si.linearSampler},
			{Binding: 1, Sampler: si.nearestSampler},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("shader_interfaces: failed to create samplers bind group: %v", err))
	}
}

func (si *shaderInterfaces) initPlaceholderTexture(queue *wgpu.Queue) {
	var err error
	si.placeholderTexture, err = si.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     "Placeholder Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              1,
			Height:             1,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		panic(fmt.Sprintf("shader_interfaces: failed to create placeholder texture: %v", err))
	}

	queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  si.placeholderTexture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		[]byte{255, 255, 255, 255},
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4,
			RowsPerImage: 1,
		},
		&wgpu.Extent3D{
			Width:              1,
			Height:             1,
			DepthOrArrayLayers: 1,
		},
	)

	si.placeholderView, err = si.placeholderTexture.CreateView(nil)
	if err != nil {
		panic(fmt.Sprintf("shader_interfaces: failed to create placeholder texture view: %v", err))
	}

	si.texturesBG, err = si.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Textures Bind Group",
		Layout: si.texturesBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: si.placeholderView},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("shader_interfaces: failed to create textures bind group: %v", err))
	}
}

func (si *shaderInterfaces) initDirectionalLight(queue *wgpu.Queue) {
	si.lightProvider = bind_group_provider.NewBindGroupProvider("Directional Light")

	light := GPUDirectionalLight{
		Direction: [3]float32{0, -1, 0},
		Color:     [3]float32{1, 1, 1},
		Intensity: 1.0,
	}
	raw := light.Marshal()

	buf, err := si.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: si.lightProvider.Label() + " Uniform Buffer",
		Size:  uint64(len(raw)),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(fmt.Sprintf("shader_interfaces: failed to create directional light buffer: %v", err))
	}
	queue.WriteBuffer(buf, 0, raw)
	si.lightProvider.SetBuffer(0, buf)
	si.lightProvider.SetSharedBindGroupLayout(si.directionalLightBGL)

	bg, err := si.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  si.lightProvider.Label() + " Bind Group",
		Layout: si.directionalLightBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("shader_interfaces: failed to create directional light bind group: %v", err))
	}
	si.lightProvider.SetBindGroup(bg)
}

func (si *shaderInterfaces) initShaderUniforms(queue *wgpu.Queue) {
	si.uniformsProvider = bind_group_provider.NewBindGroupProvider("Shader Uniforms")

	uniforms := GPUShaderUniforms{}
	raw := uniforms.Marshal()

	buf, err := si.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: si.uniformsProvider.Label() + " Uniform Buffer",
		Size:  uint64(len(raw)),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(fmt.Sprintf("shader_interfaces: failed to create shader uniforms buffer: %v", err))
	}
	queue.WriteBuffer(buf, 0, raw)
	si.uniformsProvider.SetBuffer(0, buf)
	si.uniformsProvider.SetSharedBindGroupLayout(si.shaderUniformsBGL)

	bg, err := si.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  si.uniformsProvider.Label() + " Bind Group",
		Layout: si.shaderUniformsBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("shader_interfaces: failed to create shader uniforms bind group: %v", err))
	}
	si.uniformsProvider.SetBindGroup(bg)
}

func (si *shaderInterfaces) SamplersBGL() *wgpu.BindGroupLayout {
	return si.samplersBGL
}

func (si *shaderInterfaces) SamplersBindGroup() *wgpu.BindGroup {
	return si.samplersBG
}

func (si *shaderInterfaces) CulledObjectBGL() *wgpu.BindGroupLayout {
	return si.culledObjectBGL
}

func (si *shaderInterfaces) PerMaterialBGL() *wgpu.BindGroupLayout {
	return si.perMaterialBGL
}

func (si *shaderInterfaces) MaterialTableBGL() *wgpu.BindGroupLayout {
	return si.materialTableBGL
}

func (si *shaderInterfaces) TexturesBGL() *wgpu.BindGroupLayout {
	return si.texturesBGL
}

func (si *shaderInterfaces) TexturesBindGroup() *wgpu.BindGroup {
	return si.texturesBG
}

func (si *shaderInterfaces) DirectionalLightBGL() *wgpu.BindGroupLayout {
	return si.directionalLightBGL
}

func (si *shaderInterfaces) DirectionalLightBindGroup() *wgpu.BindGroup {
	return si.lightProvider.BindGroup()
}

func (si *shaderInterfaces) UpdateDirectionalLight(queue *wgpu.Queue, light GPUDirectionalLight) {
	queue.WriteBuffer(si.lightProvider.Buffer(0), 0, light.Marshal())
}

func (si *shaderInterfaces) ShaderUniformsBGL() *wgpu.BindGroupLayout {
	return si.shaderUniformsBGL
}

func (si *shaderInterfaces) ShaderUniformsBindGroup() *wgpu.BindGroup {
	return si.uniformsProvider.BindGroup()
}

func (si *shaderInterfaces) UpdateShaderUniforms(queue *wgpu.Queue, uniforms GPUShaderUniforms) {
	queue.WriteBuffer(si.uniformsProvider.Buffer(0), 0, uniforms.Marshal())
}

func (si *shaderInterfaces) Release() {
	if si.uniformsProvider != nil {
		si.uniformsProvider.Release()
		si.uniformsProvider = nil
	}
	if si.lightProvider != nil {
		si.lightProvider.Release()
		si.lightProvider = nil
	}
	if si.texturesBG != nil {
		si.texturesBG.Release()
		si.texturesBG = nil
	}
	if si.placeholderView != nil {
		si.placeholderView.Release()
		si.placeholderView = nil
	}
	if si.placeholderTexture != nil {
		si.placeholderTexture.Release()
		si.placeholderTexture = nil
	}
	if si.samplersBG != nil {
		si.samplersBG.Release()
		si.samplersBG = nil
	}
	if si.nearestSampler != nil {
		si.nearestSampler.Release()
		si.nearestSampler = nil
	}
	if si.linearSampler != nil {
		si.linearSampler.Release()
		si.linearSampler = nil
	}

	for _, bgl := range []*wgpu.BindGroupLayout{
		si.samplersBGL,
		si.culledObjectBGL,
		si.perMaterialBGL,
		si.materialTableBGL,
		si.texturesBGL,
		si.directionalLightBGL,
		si.shaderUniformsBGL,
	} {
		if bgl != nil {
			bgl.Release()
		}
	}
	si.samplersBGL = nil
	si.culledObjectBGL = nil
	si.perMaterialBGL = nil
	si.materialTableBGL = nil
	si.texturesBGL = nil
	si.directionalLightBGL = nil
	si.shaderUniformsBGL = nil
}
