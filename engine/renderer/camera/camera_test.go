package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCameraPrecomputesViewProjection(t *testing.T) {
	cam := NewPerspectiveCamera(
		[3]float32{0, 0, 0},
		[3]float32{0, 0, -1},
		[3]float32{0, 1, 0},
		float32(math.Pi/2), 1.0, 0.1, 100.0,
	)

	vp := cam.ViewProjectionMatrix()
	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()

	// Identity view (camera at origin looking down -Z) leaves the projection unchanged.
	assert.InDelta(t, proj[0], vp[0], 1e-5)
	assert.InDelta(t, proj[5], vp[5], 1e-5)
	assert.InDelta(t, float32(1), view[0], 1e-5)
}

func TestCameraFrustumCulls(t *testing.T) {
	cam := NewPerspectiveCamera(
		[3]float32{0, 0, 0},
		[3]float32{0, 0, -1},
		[3]float32{0, 1, 0},
		float32(math.Pi/2), 1.0, 0.1, 100.0,
	)

	f := cam.Frustum()
	assert.True(t, f.ContainsSphere([3]float32{0, 0, -10}, 1.0))
	assert.False(t, f.ContainsSphere([3]float32{0, 0, 10}, 1.0))
}

func TestCameraSnapshotIsStable(t *testing.T) {
	cam := NewPerspectiveCamera(
		[3]float32{1, 2, 3},
		[3]float32{0, 0, 0},
		[3]float32{0, 1, 0},
		float32(math.Pi/3), 16.0/9.0, 0.1, 500.0,
	)

	first := cam.ViewProjectionMatrix()
	for range 10 {
		assert.Equal(t, first, cam.ViewProjectionMatrix())
		assert.Equal(t, cam.Frustum(), cam.Frustum())
	}
}
