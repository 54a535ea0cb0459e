package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/prism-go/common"
)

// PipelineBuilderOption is a function that configures a pipeline instance during construction.
type PipelineBuilderOption func(*pipeline)

// WithVertexShader is an option builder that sets the vertex shader source and entry point.
//
// Parameters:
//   - source: the WGSL source for the vertex stage
//   - entryPoint: the vertex entry point function name, empty keeps "vs_main"
//
// Returns:
//   - PipelineBuilderOption: a function that applies the vertex shader option to a pipeline
func WithVertexShader(source, entryPoint string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexSource = source
		p.vertexEntryPoint = common.Coalesce(entryPoint, p.vertexEntryPoint)
	}
}

// WithFragmentShader is an option builder that sets the fragment shader source and entry point.
// Render pipelines without a fragment shader are depth-only.
//
// Parameters:
//   - source: the WGSL source for the fragment stage
//   - entryPoint: the fragment entry point function name, empty keeps "fs_main"
//
// Returns:
//   - PipelineBuilderOption: a function that applies the fragment shader option to a pipeline
func WithFragmentShader(source, entryPoint string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentSource = source
		p.fragmentEntryPoint = common.Coalesce(entryPoint, p.fragmentEntryPoint)
	}
}

// WithComputeShader is an option builder that sets the compute shader source and entry point.
//
// Parameters:
//   - source: the WGSL source for the compute stage
//   - entryPoint: the compute entry point function name, empty keeps "cs_main"
//
// Returns:
//   - PipelineBuilderOption: a function that applies the compute shader option to a pipeline
func WithComputeShader(source, entryPoint string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.computeSource = source
		p.computeEntryPoint = common.Coalesce(entryPoint, p.computeEntryPoint)
	}
}

// WithBindGroupLayouts is an option builder that sets the explicit bind group layouts for
// the pipeline layout, in slot order. Slots must match the bind group indices the pass
// recording uses.
//
// Parameters:
//   - layouts: the bind group layouts, index i becomes slot i
//
// Returns:
//   - PipelineBuilderOption: a function that applies the layouts option to a pipeline
func WithBindGroupLayouts(layouts ...*wgpu.BindGroupLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.bindGroupLayouts = layouts
	}
}

// WithVertexBuffers is an option builder that sets the vertex buffer layouts consumed by
// the vertex stage.
//
// Parameters:
//   - layouts: the vertex buffer layouts, index i becomes vertex buffer slot i
//
// Returns:
//   - PipelineBuilderOption: a function that applies the vertex buffers option to a pipeline
func WithVertexBuffers(layouts ...wgpu.VertexBufferLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexBuffers = layouts
	}
}

// WithDepthTest is an option builder that toggles depth testing for the pipeline.
//
// Parameters:
//   - enabled: true to enable depth testing
//
// Returns:
//   - PipelineBuilderOption: a function that applies the depth test option to a pipeline
func WithDepthTest(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthWrite is an option builder that toggles depth writes for the pipeline.
//
// Parameters:
//   - enabled: true to write depth values
//
// Returns:
//   - PipelineBuilderOption: a function that applies the depth write option to a pipeline
func WithDepthWrite(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithDepthCompare is an option builder that sets the depth comparison function. The
// opaque color pipeline uses Equal so only the surfaces the prepass wrote are shaded.
//
// Parameters:
//   - compare: the depth comparison function
//
// Returns:
//   - PipelineBuilderOption: a function that applies the depth compare option to a pipeline
func WithDepthCompare(compare wgpu.CompareFunction) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthCompare = compare
	}
}

// WithCullMode is an option builder that sets the face culling mode.
//
// Parameters:
//   - mode: the cull mode (e.g. wgpu.CullModeBack)
//
// Returns:
//   - PipelineBuilderOption: a function that applies the cull mode option to a pipeline
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithBlend is an option builder that enables blending with the given state.
//
// Parameters:
//   - state: the blend state, nil keeps the default alpha blend
//
// Returns:
//   - PipelineBuilderOption: a function that applies the blend option to a pipeline
func WithBlend(state *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = true
		if state != nil {
			p.blendState = state
		}
	}
}

// WithSampleCount is an option builder that sets the multisample count.
//
// Parameters:
//   - count: the MSAA sample count (1 disables multisampling)
//
// Returns:
//   - PipelineBuilderOption: a function that applies the sample count option to a pipeline
func WithSampleCount(count int) PipelineBuilderOption {
	return func(p *pipeline) {
		p.sampleCount = max(count, 1)
	}
}
