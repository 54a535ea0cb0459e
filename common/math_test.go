package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMul4Identity(t *testing.T) {
	ident := make([]float32, 16)
	Identity(ident)

	m := make([]float32, 16)
	BuildModelMatrix(m, 1, 2, 3, 0.5, 0.25, 0.75, 2, 2, 2)

	out := make([]float32, 16)
	Mul4(out, ident, m)
	assert.Equal(t, m, out)

	Mul4(out, m, ident)
	assert.Equal(t, m, out)
}

func TestTransformPointTranslation(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, 5, -3, 2, 0, 0, 0, 1, 1, 1)

	p := TransformPoint(m, [3]float32{1, 1, 1})
	assert.InDelta(t, 6.0, p[0], 1e-5)
	assert.InDelta(t, -2.0, p[1], 1e-5)
	assert.InDelta(t, 3.0, p[2], 1e-5)
}

func TestMaxScale(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, 0, 0, 0, 0, 0, 0, 2, 5, 3)
	assert.InDelta(t, 5.0, MaxScale(m), 1e-5)

	Identity(m)
	assert.InDelta(t, 1.0, MaxScale(m), 1e-5)
}

func TestMaxScaleRotationInvariant(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, 0, 0, 0, 0.3, 1.2, -0.7, 4, 4, 4)
	assert.InDelta(t, 4.0, MaxScale(m), 1e-4)
}

func TestSliceToBytesLength(t *testing.T) {
	data := []float32{1, 2, 3, 4}
	b := SliceToBytes(data)
	assert.Len(t, b, 16)

	assert.Nil(t, SliceToBytes([]float32(nil)))
}

func TestCoalesceFallsThroughToDefault(t *testing.T) {
	assert.Equal(t, "vs_main", Coalesce("", "vs_main"))
	assert.Equal(t, "vs_depth", Coalesce("vs_depth", "vs_main"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
