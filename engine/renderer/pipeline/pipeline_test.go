package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("test", PipelineTypeRender).(*pipeline)

	assert.Equal(t, PipelineTypeRender, p.Type())
	assert.Equal(t, "test", p.PipelineKey())
	assert.True(t, p.depthTestEnabled)
	assert.True(t, p.depthWriteEnabled)
	assert.Equal(t, wgpu.CompareFunctionLess, p.depthCompare)
	assert.False(t, p.blendEnabled)
	assert.Equal(t, wgpu.CullModeNone, p.cullMode)
	assert.Equal(t, 1, p.sampleCount)
	assert.Equal(t, "vs_main", p.vertexEntryPoint)
}

func TestPipelineBuilderOptions(t *testing.T) {
	p := NewPipeline("depth prepass", PipelineTypeRender,
		WithVertexShader("// wgsl", "vs_depth"),
		WithDepthCompare(wgpu.CompareFunctionEqual),
		WithDepthWrite(false),
		WithCullMode(wgpu.CullModeBack),
		WithSampleCount(0),
	).(*pipeline)

	assert.Equal(t, "vs_depth", p.vertexEntryPoint)
	assert.Empty(t, p.fragmentSource)
	assert.Equal(t, wgpu.CompareFunctionEqual, p.depthCompare)
	assert.False(t, p.depthWriteEnabled)
	assert.Equal(t, wgpu.CullModeBack, p.cullMode)
	assert.Equal(t, 1, p.sampleCount)
}

func TestEmptyEntryPointKeepsDefault(t *testing.T) {
	p := NewPipeline("defaults", PipelineTypeRender,
		WithVertexShader("// wgsl", ""),
		WithFragmentShader("// wgsl", ""),
	).(*pipeline)

	assert.Equal(t, "vs_main", p.vertexEntryPoint)
	assert.Equal(t, "fs_main", p.fragmentEntryPoint)
}

func TestBuildRejectsMissingSources(t *testing.T) {
	render := NewPipeline("no vertex", PipelineTypeRender)
	assert.Error(t, render.Build(nil, wgpu.TextureFormatBGRA8Unorm))

	compute := NewPipeline("no compute", PipelineTypeCompute)
	assert.Error(t, compute.Build(nil, wgpu.TextureFormatBGRA8Unorm))
}
