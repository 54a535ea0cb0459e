package culling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/prism-go/engine/renderer/material"
)

func TestHostCullerOptions(t *testing.T) {
	h := &hostCuller{}

	WithParallelThreshold(128)(h)
	assert.Equal(t, 128, h.parallelThreshold)

	WithWorkers(0)(h)
	assert.Equal(t, 1, h.workers)
	WithWorkers(6)(h)
	assert.Equal(t, 6, h.workers)
}

func TestParallelVisibilityMatchesSerial(t *testing.T) {
	mb, quad, tri := testMeshes(t)
	cam := testCamera()
	frustum := cam.Frustum()

	// A spread of objects inside, outside, and straddling the frustum.
	objects := make([]Object, 1000)
	for i := range objects {
		m := quad
		if i%2 == 0 {
			m = tri
		}
		z := float32(-(i % 120))
		x := float32(i%40) - 20
		objects[i] = Object{
			Mesh:      m,
			Material:  material.Handle(i % 3),
			Transform: translation(x, 0, z),
		}
	}

	serial := make([]bool, len(objects))
	for i, obj := range objects {
		serial[i] = isVisible(&frustum, obj, mb.Bounds(obj.Mesh))
	}

	h := NewHostCuller(nil, nil, WithWorkers(4), WithParallelThreshold(1)).(*hostCuller)
	for range 5 {
		parallel := make([]bool, len(objects))
		h.testVisibilityParallel(&frustum, objects, mb, parallel)
		assert.Equal(t, serial, parallel)
	}
}

func TestParallelVisibilitySingleWorkerChunking(t *testing.T) {
	mb, quad, _ := testMeshes(t)
	cam := testCamera()
	frustum := cam.Frustum()

	objects := []Object{
		{Mesh: quad, Transform: translation(0, 0, -5)},
		{Mesh: quad, Transform: translation(0, 0, 50)},
		{Mesh: quad, Transform: translation(0, 0, -50)},
	}

	h := NewHostCuller(nil, nil, WithWorkers(1)).(*hostCuller)
	visible := make([]bool, len(objects))
	h.testVisibilityParallel(&frustum, objects, mb, visible)

	assert.Equal(t, []bool{true, false, true}, visible)
}
