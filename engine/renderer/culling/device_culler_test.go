package culling

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/prism-go/engine/renderer/material"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/pipeline"
)

func TestDeviceCullerCapacityOverflowPanics(t *testing.T) {
	mb, quad, _ := testMeshes(t)
	cam := testCamera()

	d := &deviceCuller{capacity: 2}
	objects := []Object{
		{Mesh: quad, Transform: translation(0, 0, -5)},
		{Mesh: quad, Transform: translation(1, 0, -5)},
		{Mesh: quad, Transform: translation(2, 0, -5)},
	}

	// The capacity guard fires before any GPU work is recorded.
	assert.Panics(t, func() {
		d.Cull(nil, nil, cam, objects, mb, nil)
	})
}

func TestDeviceCullerUnresolvedMaterialPanics(t *testing.T) {
	mb, quad, _ := testMeshes(t)
	cam := testCamera()

	mm := material.NewMaterialManager()
	mm.Register(material.NewMaterial(material.WithName("only")))

	d := &deviceCuller{capacity: 16}
	objects := []Object{
		{Mesh: quad, Material: 0, Transform: translation(0, 0, -5)},
		{Mesh: quad, Material: 3, Transform: translation(1, 0, -5)},
	}

	// Handle validation fires before any GPU work is recorded.
	assert.PanicsWithValue(t,
		fmt.Sprintf("culling: unresolved material handle %d (registered materials: %d)", 3, 1),
		func() {
			d.Cull(nil, nil, cam, objects, mb, mm)
		})
}

func TestCullPipelineConfiguration(t *testing.T) {
	p := newCullPipeline(nil)

	assert.Equal(t, pipeline.PipelineTypeCompute, p.Type())
	assert.Equal(t, "Cull Compute", p.PipelineKey())
	assert.Nil(t, p.ComputePipeline())
	assert.Nil(t, p.RenderPipeline())
}

func TestWithCapacityClampsToOne(t *testing.T) {
	d := &deviceCuller{}
	WithCapacity(0)(d)
	assert.Equal(t, 1, d.capacity)

	WithCapacity(4096)(d)
	assert.Equal(t, 4096, d.capacity)
}

func TestGPUCullTypeSizes(t *testing.T) {
	var globals GPUCullGlobals
	var obj GPUCullObject
	var data GPUObjectData
	var args GPUIndirectArgs

	assert.Equal(t, 176, globals.Size())
	assert.Equal(t, 96, obj.Size())
	assert.Equal(t, 144, data.Size())
	assert.Equal(t, 20, args.Size())

	assert.Len(t, globals.Marshal(), 176)
	assert.Len(t, obj.Marshal(), 96)
	assert.Len(t, data.Marshal(), 144)
	assert.Len(t, args.Marshal(), 20)
}

func TestPlanesFromFrustumPreservesPlanes(t *testing.T) {
	f := testCamera().Frustum()
	planes := PlanesFromFrustum(f)

	for i := range 6 {
		assert.Equal(t, f.Planes[i].Normal, planes[i].Normal)
		assert.Equal(t, f.Planes[i].Distance, planes[i].Distance)
	}
}
