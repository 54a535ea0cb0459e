package pipeline

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineType identifies whether a pipeline is a compute pipeline or a render pipeline.
type PipelineType int

const (
	// PipelineTypeCompute indicates a compute pipeline with a single compute shader entry point.
	PipelineTypeCompute PipelineType = iota

	// PipelineTypeRender indicates a render pipeline with vertex and optionally fragment shader entry points.
	PipelineTypeRender
)

// pipeline is the implementation of the Pipeline interface.
// It holds the WGSL sources, explicit bind group layouts, and configuration used to
// create the underlying WebGPU pipeline object.
type pipeline struct {
	// pipelineType indicates the type of pipeline this is; compute or render
	pipelineType PipelineType
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// WGSL sources and entry points. A render pipeline with an empty fragment
	// source is depth-only: no fragment stage, no color targets.

	vertexSource, fragmentSource, computeSource             string
	vertexEntryPoint, fragmentEntryPoint, computeEntryPoint string

	// bindGroupLayouts are the explicit layouts for the pipeline layout, in slot order.
	// Slots must match the bind group indices the pass recording uses.
	bindGroupLayouts []*wgpu.BindGroupLayout
	// vertexBuffers describes the vertex buffer slots consumed by the vertex stage.
	vertexBuffers []wgpu.VertexBufferLayout

	// renderPipeline is the render pipeline if this is a render pipeline, nil otherwise
	renderPipeline *wgpu.RenderPipeline
	// computePipeline is the compute pipeline if this is a compute pipeline, nil otherwise
	computePipeline *wgpu.ComputePipeline

	// The following properties configure render pipeline creation and can be set with
	// the builder options. Compute pipelines keep the defaults and ignore them.

	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthCompare        wgpu.CompareFunction
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState
	sampleCount         int
}

// Pipeline defines the interface for a GPU pipeline, encapsulating either a render
// pipeline (vertex + fragment shaders) or a compute pipeline (compute shader). It holds
// all configuration state required for pipeline creation including depth, blend, cull,
// and topology settings, plus the explicit bind group layouts the pipeline binds against.
type Pipeline interface {
	// Type returns the type of the pipeline
	//
	// Returns:
	//   - PipelineType: the type of the pipeline (render or compute)
	Type() PipelineType

	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Build creates the underlying WebGPU pipeline object from the configured
	// sources, layouts, and state. Must be called once before RenderPipeline or
	// ComputePipeline is used.
	//
	// Parameters:
	//   - device: the WebGPU device to create the pipeline on
	//   - surfaceFormat: the color target format (ignored for depth-only and compute pipelines)
	//
	// Returns:
	//   - error: an error if shader module or pipeline creation fails
	Build(device *wgpu.Device, surfaceFormat wgpu.TextureFormat) error

	// RenderPipeline returns the created render pipeline, or nil if this is a
	// compute pipeline or Build has not run.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline or nil
	RenderPipeline() *wgpu.RenderPipeline

	// ComputePipeline returns the created compute pipeline, or nil if this is a
	// render pipeline or Build has not run.
	//
	// Returns:
	//   - *wgpu.ComputePipeline: the compute pipeline or nil
	ComputePipeline() *wgpu.ComputePipeline

	// Release releases the created pipeline object.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new Pipeline interface. A PipelineType must
// be specified and provided upon creation.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - pipelineType: the type of pipeline to create (render or compute)
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified type and configuration
func NewPipeline(pipelineKey string, pipelineType PipelineType, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:        pipelineKey,
		pipelineType:       pipelineType,
		vertexEntryPoint:   "vs_main",
		fragmentEntryPoint: "fs_main",
		computeEntryPoint:  "cs_main",
		depthTestEnabled:   true,
		depthWriteEnabled:  true,
		depthCompare:       wgpu.CompareFunctionLess,
		blendEnabled:       false,
		cullMode:           wgpu.CullModeNone,
		topology:           wgpu.PrimitiveTopologyTriangleList,
		frontFace:          wgpu.FrontFaceCCW,
		writeMask:          wgpu.ColorWriteMaskAll,
		sampleCount:        1,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Type() PipelineType {
	return p.pipelineType
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) ComputePipeline() *wgpu.ComputePipeline {
	return p.computePipeline
}

func (p *pipeline) Build(device *wgpu.Device, surfaceFormat wgpu.TextureFormat) error {
	switch p.pipelineType {
	case PipelineTypeRender:
		return p.buildRender(device, surfaceFormat)
	case PipelineTypeCompute:
		return p.buildCompute(device)
	default:
		return fmt.Errorf("unknown pipeline type %d", p.pipelineType)
	}
}

func (p *pipeline) buildRender(device *wgpu.Device, surfaceFormat wgpu.TextureFormat) error {
	if p.vertexSource == "" {
		return errors.New("a vertex shader source must be set to create a render pipeline")
	}

	vs, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.pipelineKey + " Vertex Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.vertexSource,
		},
	})
	if err != nil {
		return err
	}
	defer vs.Release()

	var fragment *wgpu.FragmentState
	if p.fragmentSource != "" {
		fs, fsErr := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label: p.pipelineKey + " Fragment Shader",
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: p.fragmentSource,
			},
		})
		if fsErr != nil {
			return fsErr
		}
		defer fs.Release()

		target := wgpu.ColorTargetState{
			Format:    surfaceFormat,
			WriteMask: p.writeMask,
		}
		if p.blendEnabled {
			target.Blend = p.blendState
		}
		fragment = &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: p.fragmentEntryPoint,
			Targets:    []wgpu.ColorTargetState{target},
		}
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.pipelineKey,
		BindGroupLayouts: p.bindGroupLayouts,
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	depthCompare := p.depthCompare
	if !p.depthTestEnabled {
		depthCompare = wgpu.CompareFunctionAlways
	}

	created, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.pipelineKey + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: p.vertexEntryPoint,
			Buffers:    p.vertexBuffers,
		},
		Fragment: fragment,
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(p.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled:   p.depthWriteEnabled,
			DepthCompare:        depthCompare,
			DepthBias:           p.depthBias,
			DepthBiasSlopeScale: p.depthBiasSlopeScale,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return err
	}

	p.renderPipeline = created
	return nil
}

func (p *pipeline) buildCompute(device *wgpu.Device) error {
	if p.computeSource == "" {
		return errors.New("a compute shader source must be set to create a compute pipeline")
	}

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.pipelineKey + " Compute Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.computeSource,
		},
	})
	if err != nil {
		return err
	}
	defer module.Release()

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.pipelineKey,
		BindGroupLayouts: p.bindGroupLayouts,
	})
	if err != nil {
		return err
	}
	defer layout.Release()

	created, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  p.pipelineKey + " Compute Pipeline",
		Layout: layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: p.computeEntryPoint,
		},
	})
	if err != nil {
		return err
	}

	p.computePipeline = created
	return nil
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.computePipeline != nil {
		p.computePipeline.Release()
		p.computePipeline = nil
	}
}
