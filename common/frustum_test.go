package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testViewProj builds a view-projection matrix for a camera at the origin
// looking down -Z with a 90 degree vertical FOV and square aspect. At depth
// z = -10 the frustum half-extent is exactly 10 units in x and y, which makes
// the expected cull results below easy to reason about.
func testViewProj(t *testing.T) []float32 {
	t.Helper()
	view := make([]float32, 16)
	proj := make([]float32, 16)
	vp := make([]float32, 16)
	LookAt(view, 0, 0, 0, 0, 0, -1, 0, 1, 0)
	Perspective(proj, float32(math.Pi/2), 1.0, 0.1, 100.0)
	Mul4(vp, proj, view)
	return vp
}

func TestExtractFrustumNormalizesPlanes(t *testing.T) {
	f := ExtractFrustumFromMatrix(testViewProj(t))

	for i, p := range f.Planes {
		length := math.Sqrt(float64(
			p.Normal[0]*p.Normal[0] +
				p.Normal[1]*p.Normal[1] +
				p.Normal[2]*p.Normal[2],
		))
		assert.InDelta(t, 1.0, length, 1e-5, "plane %d normal should be unit length", i)
	}
}

func TestContainsSphereInside(t *testing.T) {
	f := ExtractFrustumFromMatrix(testViewProj(t))

	assert.True(t, f.ContainsSphere([3]float32{0, 0, -10}, 1.0))
	assert.True(t, f.ContainsSphere([3]float32{5, 5, -10}, 0.5))
}

func TestContainsSphereOutside(t *testing.T) {
	f := ExtractFrustumFromMatrix(testViewProj(t))

	// Far to the left of the frustum at depth 10.
	assert.False(t, f.ContainsSphere([3]float32{-100, 0, -10}, 1.0))
	// Beyond the far plane.
	assert.False(t, f.ContainsSphere([3]float32{0, 0, -1000}, 1.0))
	// Behind the camera.
	assert.False(t, f.ContainsSphere([3]float32{0, 0, 10}, 1.0))
}

func TestContainsSphereStraddlingPlane(t *testing.T) {
	f := ExtractFrustumFromMatrix(testViewProj(t))

	// At z = -10 the left frustum boundary is at x = -10. The sphere center
	// sits 2 units outside (signed distance -sqrt(2) to the left plane), so a
	// radius 3 sphere pokes into the frustum while a radius 1 sphere does not.
	center := [3]float32{-12, 0, -10}
	require.True(t, f.ContainsSphere(center, 3.0))
	require.False(t, f.ContainsSphere(center, 1.0))
}

func TestContainsSphereIsDeterministic(t *testing.T) {
	f := ExtractFrustumFromMatrix(testViewProj(t))
	center := [3]float32{3, -2, -40}

	first := f.ContainsSphere(center, 2.0)
	for range 100 {
		assert.Equal(t, first, f.ContainsSphere(center, 2.0))
	}
}
