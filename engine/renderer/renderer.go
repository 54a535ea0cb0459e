package renderer

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/prism-go/engine/renderer/camera"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/culling"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/material"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/mesh"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/opaque_pass"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/shader_interfaces"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat    wgpu.TextureFormat
	presentMode      wgpu.PresentMode
	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView

	mode           culling.Mode
	deviceCapacity int

	interfaces shader_interfaces.ShaderInterfaces
	meshes     mesh.MeshBuffers
	materials  material.MaterialManager

	depthPipeline  pipeline.Pipeline
	opaquePipeline pipeline.Pipeline
	pass           opaque_pass.OpaquePass

	finalized bool
}

// Renderer owns the WebGPU device, the surface, and the opaque render path.
// Usage follows three phases: register meshes and materials through the
// registries, call Finalize once to upload them and build the pipelines, then
// call RenderFrame each frame. The culling mode is fixed at construction.
type Renderer interface {
	// Device returns the WebGPU device.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the device's queue.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// Meshes returns the mesh registry. Register all meshes before Finalize.
	//
	// Returns:
	//   - mesh.MeshBuffers: the mesh registry
	Meshes() mesh.MeshBuffers

	// Materials returns the material registry. Register all materials before Finalize.
	//
	// Returns:
	//   - material.MaterialManager: the material registry
	Materials() material.MaterialManager

	// Interfaces returns the shared bind group layout registry.
	//
	// Returns:
	//   - shader_interfaces.ShaderInterfaces: the shared layouts and resources
	Interfaces() shader_interfaces.ShaderInterfaces

	// Mode returns the culling mode the renderer was built with.
	//
	// Returns:
	//   - culling.Mode: the culling mode
	Mode() culling.Mode

	// ConfigureSurface (re)configures the swapchain and depth buffer for a
	// surface size. Must be called once before rendering and again on resize.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	ConfigureSurface(width, height int)

	// SetDirectionalLight updates the scene's directional light.
	//
	// Parameters:
	//   - light: the new light data
	SetDirectionalLight(light shader_interfaces.GPUDirectionalLight)

	// Finalize uploads the registered meshes and materials, builds the depth
	// and opaque pipelines, and constructs the culler for the configured mode.
	// Must be called exactly once, after registration and ConfigureSurface.
	//
	// Returns:
	//   - error: an error if any GPU resource creation fails
	Finalize() error

	// RenderFrame renders one frame: updates the per-frame uniforms, runs the
	// culling strategy, records the depth prepass and the opaque color pass,
	// and presents.
	//
	// Parameters:
	//   - cam: the frame's camera snapshot
	//   - objects: the frame's full object list
	//
	// Returns:
	//   - error: an error if surface acquisition or command encoding fails
	RenderFrame(cam camera.Camera, objects []culling.Object) error

	// Release releases every GPU resource owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// RendererOption configures a renderer during construction.
type RendererOption func(*renderer)

// WithMode is an option builder that selects the culling mode.
//
// Parameters:
//   - mode: culling.ModeHost or culling.ModeDevice
//
// Returns:
//   - RendererOption: a function that applies the mode option
func WithMode(mode culling.Mode) RendererOption {
	return func(r *renderer) {
		r.mode = mode
	}
}

// WithPresentMode is an option builder that sets the surface present mode.
//
// Parameters:
//   - mode: the present mode (e.g. wgpu.PresentModeFifo for vsync)
//
// Returns:
//   - RendererOption: a function that applies the present mode option
func WithPresentMode(mode wgpu.PresentMode) RendererOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithDeviceCullingCapacity is an option builder that sets the device
// culler's maximum object count. Ignored in host mode.
//
// Parameters:
//   - capacity: the maximum object count per frame
//
// Returns:
//   - RendererOption: a function that applies the capacity option
func WithDeviceCullingCapacity(capacity int) RendererOption {
	return func(r *renderer) {
		r.deviceCapacity = capacity
	}
}

// NewRenderer creates a renderer on a fresh WebGPU device compatible with the
// given surface. Adapter or device acquisition failure is fatal and panics;
// there is nothing to render without a device.
//
// Parameters:
//   - surfaceDescriptor: the platform surface to present to
//   - options: variadic list of RendererOption functions
//
// Returns:
//   - Renderer: a new renderer ready for mesh and material registration
func NewRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...RendererOption) Renderer {
	runtime.LockOSThread()

	r := &renderer{
		instance:       wgpu.CreateInstance(nil),
		presentMode:    wgpu.PresentModeFifo,
		mode:           culling.ModeHost,
		deviceCapacity: 0, // 0 keeps the culler's default
	}
	for _, opt := range options {
		opt(r)
	}

	r.surface = r.instance.CreateSurface(surfaceDescriptor)

	adapter, err := r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: r.surface,
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to acquire adapter: %v", err))
	}
	r.adapter = adapter

	device, err := adapter.RequestDevice(deviceDescriptor(r.mode))
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to acquire device: %v", err))
	}
	r.device = device
	r.queue = device.GetQueue()

	r.interfaces = shader_interfaces.NewShaderInterfaces(r.device, r.queue)
	r.meshes = mesh.NewMeshBuffers()
	r.materials = material.NewMaterialManager()

	return r
}

// deviceDescriptor builds the device request for a culling mode. The opaque
// color pass binds groups 0-5 in device mode, above the WebGPU default limit
// of 4. Device mode additionally draws with non-zero first_instance values
// through indirect args, which wgpu gates behind an explicit feature.
func deviceDescriptor(mode culling.Mode) *wgpu.DeviceDescriptor {
	limits := wgpu.DefaultLimits()
	limits.MaxBindGroups = 8

	desc := &wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	}
	if mode == culling.ModeDevice {
		desc.RequiredFeatures = []wgpu.FeatureName{wgpu.FeatureNameIndirectFirstInstance}
	}
	return desc
}

func (r *renderer) Device() *wgpu.Device {
	return r.device
}

func (r *renderer) Queue() *wgpu.Queue {
	return r.queue
}

func (r *renderer) Meshes() mesh.MeshBuffers {
	return r.meshes
}

func (r *renderer) Materials() material.MaterialManager {
	return r.materials
}

func (r *renderer) Interfaces() shader_interfaces.ShaderInterfaces {
	return r.interfaces
}

func (r *renderer) Mode() culling.Mode {
	return r.mode
}

func (r *renderer) ConfigureSurface(width, height int) {
	capabilities := r.surface.GetCapabilities(r.adapter)
	r.surfaceFormat = capabilities.Formats[0]

	r.surface.Configure(r.adapter, r.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      r.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: r.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if r.depthTextureView != nil {
		r.depthTextureView.Release()
	}
	if r.depthTexture != nil {
		r.depthTexture.Release()
	}

	depthTexture, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to create depth texture: %v", err))
	}
	r.depthTexture = depthTexture

	r.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to create depth texture view: %v", err))
	}
}

func (r *renderer) SetDirectionalLight(light shader_interfaces.GPUDirectionalLight) {
	r.interfaces.UpdateDirectionalLight(r.queue, light)
}

func (r *renderer) Finalize() error {
	if r.finalized {
		return fmt.Errorf("renderer already finalized")
	}

	if err := r.meshes.Upload(r.device, r.queue); err != nil {
		return fmt.Errorf("failed to upload meshes: %w", err)
	}
	if err := r.materials.Upload(r.device, r.queue, r.interfaces.PerMaterialBGL(), r.interfaces.MaterialTableBGL()); err != nil {
		return fmt.Errorf("failed to upload materials: %w", err)
	}

	r.depthPipeline = pipeline.NewPipeline("opaque depth prepass", pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(opaque_pass.DepthShaderSource(), "vs_depth"),
		pipeline.WithBindGroupLayouts(opaque_pass.PrepassBindGroupLayouts(r.mode, r.interfaces)...),
		pipeline.WithVertexBuffers(mesh.VertexBufferLayout()),
		pipeline.WithCullMode(wgpu.CullModeBack),
	)
	if err := r.depthPipeline.Build(r.device, r.surfaceFormat); err != nil {
		return fmt.Errorf("failed to build depth prepass pipeline: %w", err)
	}

	opaqueSource := opaque_pass.OpaqueShaderSource(r.mode)
	r.opaquePipeline = pipeline.NewPipeline("opaque draw", pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(opaqueSource, "vs_main"),
		pipeline.WithFragmentShader(opaqueSource, "fs_main"),
		pipeline.WithBindGroupLayouts(opaque_pass.DrawBindGroupLayouts(r.mode, r.interfaces)...),
		pipeline.WithVertexBuffers(mesh.VertexBufferLayout()),
		pipeline.WithCullMode(wgpu.CullModeBack),
		// The prepass already resolved depth; shade only the surviving surface.
		pipeline.WithDepthCompare(wgpu.CompareFunctionEqual),
		pipeline.WithDepthWrite(false),
	)
	if err := r.opaquePipeline.Build(r.device, r.surfaceFormat); err != nil {
		return fmt.Errorf("failed to build opaque pipeline: %w", err)
	}

	var host culling.HostCuller
	var deviceCuller culling.DeviceCuller
	switch r.mode {
	case culling.ModeHost:
		host = culling.NewHostCuller(r.device, r.interfaces)
	case culling.ModeDevice:
		var opts []culling.DeviceCullerOption
		if r.deviceCapacity > 0 {
			opts = append(opts, culling.WithCapacity(r.deviceCapacity))
		}
		var err error
		deviceCuller, err = culling.NewDeviceCuller(r.device, r.interfaces, opts...)
		if err != nil {
			return fmt.Errorf("failed to create device culler: %w", err)
		}
	default:
		panic(fmt.Sprintf("renderer: unknown culling mode %s", r.mode))
	}

	r.pass = opaque_pass.NewOpaquePass(
		r.mode,
		r.depthPipeline.RenderPipeline(),
		r.opaquePipeline.RenderPipeline(),
		host,
		deviceCuller,
		r.interfaces,
	)

	r.finalized = true
	return nil
}

// eyeFromView recovers the camera's world-space position from a column-major
// view matrix.
func eyeFromView(view [16]float32) [3]float32 {
	var eye [3]float32
	for j := range 3 {
		eye[j] = -(view[j*4]*view[12] + view[j*4+1]*view[13] + view[j*4+2]*view[14])
	}
	return eye
}

func (r *renderer) RenderFrame(cam camera.Camera, objects []culling.Object) error {
	if !r.finalized {
		return fmt.Errorf("renderer not finalized")
	}

	r.interfaces.UpdateShaderUniforms(r.queue, shader_interfaces.GPUShaderUniforms{
		ViewProjection: cam.ViewProjectionMatrix(),
		CameraPosition: eyeFromView(cam.ViewMatrix()),
	})

	surfaceTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	defer view.Release()
	defer surfaceTexture.Release()

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	set, err := r.pass.Cull(r.queue, encoder, cam, objects, r.meshes, r.materials)
	if err != nil {
		return fmt.Errorf("culling failed: %w", err)
	}

	// Depth-only prepass: no color attachments, the depth buffer is the output.
	prepass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Opaque Prepass",
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	r.pass.Prepass(prepass, set, r.meshes, r.materials)
	prepass.End()

	// Color pass: loads the prepass depth and shades with an EQUAL depth test.
	draw := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Opaque Draw",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: 0.1, G: 0.1, B: 0.1, A: 1.0,
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:         r.depthTextureView,
			DepthLoadOp:  wgpu.LoadOpLoad,
			DepthStoreOp: wgpu.StoreOpDiscard,
		},
	})
	r.pass.Draw(draw, set, r.meshes, r.materials)
	draw.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	r.queue.Submit(commandBuffer)
	commandBuffer.Release()

	r.surface.Present()
	return nil
}

func (r *renderer) Release() {
	if r.pass != nil {
		r.pass.Release()
		r.pass = nil
	}
	if r.opaquePipeline != nil {
		r.opaquePipeline.Release()
		r.opaquePipeline = nil
	}
	if r.depthPipeline != nil {
		r.depthPipeline.Release()
		r.depthPipeline = nil
	}
	if r.materials != nil {
		r.materials.Release()
	}
	if r.meshes != nil {
		r.meshes.Release()
	}
	if r.interfaces != nil {
		r.interfaces.Release()
	}
	if r.depthTextureView != nil {
		r.depthTextureView.Release()
		r.depthTextureView = nil
	}
	if r.depthTexture != nil {
		r.depthTexture.Release()
		r.depthTexture = nil
	}
	if r.device != nil {
		r.device.Release()
		r.device = nil
	}
}
