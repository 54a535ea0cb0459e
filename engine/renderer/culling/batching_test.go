package culling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/camera"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/material"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/mesh"
)

// testCamera looks down -Z from the origin with a 90 degree vertical FOV, so
// the frustum half-extent at depth z is |z|.
func testCamera() camera.Camera {
	return camera.NewPerspectiveCamera(
		[3]float32{0, 0, 0},
		[3]float32{0, 0, -1},
		[3]float32{0, 1, 0},
		float32(math.Pi/2), 1.0, 0.1, 100.0,
	)
}

// testMeshes registers two meshes: a quad with radius sqrt(2) and a triangle
// with radius 1.
func testMeshes(t *testing.T) (mesh.MeshBuffers, mesh.Handle, mesh.Handle) {
	t.Helper()
	mb := mesh.NewMeshBuffers()

	quad := mb.Register([]mesh.GPUVertex{
		{Position: [3]float32{-1, -1, 0}},
		{Position: [3]float32{1, -1, 0}},
		{Position: [3]float32{1, 1, 0}},
		{Position: [3]float32{-1, 1, 0}},
	}, []uint32{0, 1, 2, 0, 2, 3})

	tri := mb.Register([]mesh.GPUVertex{
		{Position: [3]float32{-1, 0, 0}},
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 1, 0}},
	}, []uint32{0, 1, 2})

	return mb, quad, tri
}

func translation(x, y, z float32) [16]float32 {
	m := [16]float32{}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	m[12], m[13], m[14] = x, y, z
	return m
}

func allVisible(n int) []bool {
	v := make([]bool, n)
	for i := range v {
		v[i] = true
	}
	return v
}

func TestBuildDrawsGroupsByMeshAndMaterial(t *testing.T) {
	mb, quad, tri := testMeshes(t)
	matA, matB := material.Handle(0), material.Handle(1)

	objects := []Object{
		{Mesh: quad, Material: matA, Transform: translation(0, 0, -5)},
		{Mesh: tri, Material: matA, Transform: translation(1, 0, -5)},
		{Mesh: quad, Material: matA, Transform: translation(2, 0, -5)},
		{Mesh: quad, Material: matB, Transform: translation(3, 0, -5)},
	}

	vp := testCamera().ViewProjectionMatrix()
	draws, data := buildDraws(vp, objects, allVisible(len(objects)), mb)

	require.Len(t, draws, 3)
	require.Len(t, data, 4)

	// Batches in first-seen order of (mesh, material).
	assert.Equal(t, quad, draws[0].Mesh)
	assert.Equal(t, matA, draws[0].Material)
	assert.Equal(t, uint32(0), draws[0].FirstInstance)
	assert.Equal(t, uint32(2), draws[0].InstanceCount)

	assert.Equal(t, tri, draws[1].Mesh)
	assert.Equal(t, uint32(2), draws[1].FirstInstance)
	assert.Equal(t, uint32(1), draws[1].InstanceCount)

	assert.Equal(t, quad, draws[2].Mesh)
	assert.Equal(t, matB, draws[2].Material)
	assert.Equal(t, uint32(3), draws[2].FirstInstance)
	assert.Equal(t, uint32(1), draws[2].InstanceCount)

	// Object data follows batch order: objects 0, 2, then 1, then 3.
	assert.Equal(t, translation(0, 0, -5), data[0].Model)
	assert.Equal(t, translation(2, 0, -5), data[1].Model)
	assert.Equal(t, translation(1, 0, -5), data[2].Model)
	assert.Equal(t, translation(3, 0, -5), data[3].Model)
	assert.Equal(t, uint32(matB), data[3].MaterialIndex)

	// Mesh ranges resolve against the registry.
	assert.Equal(t, uint32(6), draws[0].Range.IndexCount)
	assert.Equal(t, uint32(6), draws[1].Range.FirstIndex)
	assert.Equal(t, int32(4), draws[1].Range.BaseVertex)
}

func TestBuildDrawsCoversEveryVisibleObjectExactlyOnce(t *testing.T) {
	mb, quad, tri := testMeshes(t)

	objects := make([]Object, 50)
	for i := range objects {
		m := quad
		if i%3 == 0 {
			m = tri
		}
		objects[i] = Object{
			Mesh:      m,
			Material:  material.Handle(i % 4),
			Transform: translation(float32(i), 0, -10),
		}
	}
	visible := allVisible(len(objects))
	visible[7] = false
	visible[13] = false

	vp := testCamera().ViewProjectionMatrix()
	draws, data := buildDraws(vp, objects, visible, mb)

	var total uint32
	for i, d := range draws {
		assert.NotZero(t, d.InstanceCount)
		if i > 0 {
			assert.Equal(t, draws[i-1].FirstInstance+draws[i-1].InstanceCount, d.FirstInstance)
		}
		total += d.InstanceCount
	}
	assert.Equal(t, uint32(48), total)
	assert.Len(t, data, 48)
}

func TestBuildDrawsSkipsInvisibleObjects(t *testing.T) {
	mb, quad, _ := testMeshes(t)

	objects := []Object{
		{Mesh: quad, Material: 0, Transform: translation(0, 0, -5)},
		{Mesh: quad, Material: 0, Transform: translation(0, 0, 50)},
	}
	visible := []bool{true, false}

	vp := testCamera().ViewProjectionMatrix()
	draws, data := buildDraws(vp, objects, visible, mb)

	require.Len(t, draws, 1)
	assert.Equal(t, uint32(1), draws[0].InstanceCount)
	require.Len(t, data, 1)
	assert.Equal(t, translation(0, 0, -5), data[0].Model)
}

func TestBuildDrawsEmptyInput(t *testing.T) {
	mb, _, _ := testMeshes(t)

	vp := testCamera().ViewProjectionMatrix()
	draws, data := buildDraws(vp, nil, nil, mb)

	assert.Empty(t, draws)
	assert.Empty(t, data)
}

func TestBuildDrawsIsDeterministic(t *testing.T) {
	mb, quad, tri := testMeshes(t)

	objects := make([]Object, 200)
	for i := range objects {
		m := quad
		if i%2 == 0 {
			m = tri
		}
		objects[i] = Object{
			Mesh:      m,
			Material:  material.Handle(i % 5),
			Transform: translation(float32(i%7), float32(i%3), -20),
		}
	}
	visible := allVisible(len(objects))

	vp := testCamera().ViewProjectionMatrix()
	firstDraws, firstData := buildDraws(vp, objects, visible, mb)
	for range 10 {
		draws, data := buildDraws(vp, objects, visible, mb)
		assert.Equal(t, firstDraws, draws)
		assert.Equal(t, firstData, data)
	}
}

func TestBuildDrawsUnresolvedMeshPanics(t *testing.T) {
	mb, _, _ := testMeshes(t)

	objects := []Object{
		{Mesh: mesh.Handle(99), Material: 0, Transform: translation(0, 0, -5)},
	}

	vp := testCamera().ViewProjectionMatrix()
	assert.Panics(t, func() {
		buildDraws(vp, objects, allVisible(1), mb)
	})
}

func TestWorldBoundsAppliesTransform(t *testing.T) {
	// Uniform scale 2 plus translation.
	m := [16]float32{}
	m[0], m[5], m[10], m[15] = 2, 2, 2, 1
	m[12], m[13], m[14] = 10, 0, -5

	center, radius := worldBounds(m, common.BoundingSphere{Center: [3]float32{1, 0, 0}, Radius: 1.5})

	assert.InDelta(t, 12.0, center[0], 1e-5)
	assert.InDelta(t, -5.0, center[2], 1e-5)
	assert.InDelta(t, 3.0, radius, 1e-5)
}

func TestIsVisibleMatchesFrustumPredicate(t *testing.T) {
	mb, quad, _ := testMeshes(t)
	cam := testCamera()
	frustum := cam.Frustum()

	cases := [][16]float32{
		translation(0, 0, -10),
		translation(0, 0, 10),
		translation(-12, 0, -10),
		translation(50, 0, -10),
		translation(0, 0, -99),
	}
	for _, m := range cases {
		obj := Object{Mesh: quad, Transform: m}
		bounds := mb.Bounds(quad)
		center, radius := worldBounds(m, bounds)

		assert.Equal(t, frustum.ContainsSphere(center, radius), isVisible(&frustum, obj, bounds))
	}
}
