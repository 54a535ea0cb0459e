package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func quadVertices() []GPUVertex {
	return []GPUVertex{
		{Position: [3]float32{-1, -1, 0}},
		{Position: [3]float32{1, -1, 0}},
		{Position: [3]float32{1, 1, 0}},
		{Position: [3]float32{-1, 1, 0}},
	}
}

func quadIndices() []uint32 {
	return []uint32{0, 1, 2, 0, 2, 3}
}

func TestRegisterAssignsCumulativeRanges(t *testing.T) {
	mb := NewMeshBuffers()

	first := mb.Register(quadVertices(), quadIndices())
	second := mb.Register(quadVertices()[:3], quadIndices()[:3])
	third := mb.Register(quadVertices(), quadIndices())

	assert.Equal(t, Handle(0), first)
	assert.Equal(t, Handle(1), second)
	assert.Equal(t, Handle(2), third)
	assert.Equal(t, 3, mb.Count())

	r0 := mb.Lookup(first)
	assert.Equal(t, uint32(0), r0.FirstIndex)
	assert.Equal(t, uint32(6), r0.IndexCount)
	assert.Equal(t, int32(0), r0.BaseVertex)

	r1 := mb.Lookup(second)
	assert.Equal(t, uint32(6), r1.FirstIndex)
	assert.Equal(t, uint32(3), r1.IndexCount)
	assert.Equal(t, int32(4), r1.BaseVertex)

	r2 := mb.Lookup(third)
	assert.Equal(t, uint32(9), r2.FirstIndex)
	assert.Equal(t, uint32(6), r2.IndexCount)
	assert.Equal(t, int32(7), r2.BaseVertex)
}

func TestLookupUnknownHandlePanics(t *testing.T) {
	mb := NewMeshBuffers()
	mb.Register(quadVertices(), quadIndices())

	assert.Panics(t, func() {
		mb.Lookup(Handle(5))
	})
	assert.Panics(t, func() {
		mb.Bounds(Handle(5))
	})
}

func TestBoundsCoversRegisteredMesh(t *testing.T) {
	mb := NewMeshBuffers()
	h := mb.Register(quadVertices(), quadIndices())

	b := mb.Bounds(h)
	assert.InDelta(t, 0.0, b.Center[0], 1e-5)
	assert.InDelta(t, 0.0, b.Center[1], 1e-5)
	// Corner vertices sit sqrt(2) from the center.
	assert.InDelta(t, 1.41421, b.Radius, 1e-4)
}

func TestComputeBoundingSphereOffsetMesh(t *testing.T) {
	verts := []GPUVertex{
		{Position: [3]float32{9, 0, 0}},
		{Position: [3]float32{11, 0, 0}},
		{Position: [3]float32{10, 1, 0}},
		{Position: [3]float32{10, -1, 0}},
	}

	b := ComputeBoundingSphere(verts)
	assert.InDelta(t, 10.0, b.Center[0], 1e-5)
	assert.InDelta(t, 0.0, b.Center[1], 1e-5)
	assert.InDelta(t, 1.0, b.Radius, 1e-5)
}

func TestComputeBoundingSphereEmpty(t *testing.T) {
	b := ComputeBoundingSphere(nil)
	assert.Zero(t, b.Radius)
}

func TestBindBeforeUploadPanics(t *testing.T) {
	mb := NewMeshBuffers()
	mb.Register(quadVertices(), quadIndices())

	assert.Panics(t, func() {
		mb.Bind(nil)
	})
}

func TestGPUVertexMarshalSize(t *testing.T) {
	v := GPUVertex{
		Position: [3]float32{1, 2, 3},
		Normal:   [3]float32{0, 1, 0},
		TexCoord: [2]float32{0.5, 0.5},
		Color:    [4]float32{1, 1, 1, 1},
	}
	assert.Equal(t, 48, v.Size())
	assert.Len(t, v.Marshal(), 48)
}
