package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAssignsDenseHandles(t *testing.T) {
	mm := NewMaterialManager()

	red := mm.Register(NewMaterial(WithName("red"), WithBaseColor([4]float32{1, 0, 0, 1})))
	blue := mm.Register(NewMaterial(WithName("blue"), WithBaseColor([4]float32{0, 0, 1, 1})))

	assert.Equal(t, Handle(0), red)
	assert.Equal(t, Handle(1), blue)
	assert.Equal(t, 2, mm.Count())
	assert.Equal(t, "red", mm.Lookup(red).Name())
	assert.Equal(t, "blue", mm.Lookup(blue).Name())
}

func TestLookupUnresolvedHandlePanics(t *testing.T) {
	mm := NewMaterialManager()
	mm.Register(NewMaterial(WithName("only")))

	assert.Panics(t, func() {
		mm.Lookup(Handle(3))
	})
}

func TestBindGroupAccessBeforeUploadPanics(t *testing.T) {
	mm := NewMaterialManager()
	mm.Register(NewMaterial(WithName("only")))

	assert.Panics(t, func() {
		mm.UniformBindGroup(Handle(0))
	})
	assert.Panics(t, func() {
		mm.TableBindGroup()
	})
}

func TestMaterialDefaults(t *testing.T) {
	m := NewMaterial()

	assert.Equal(t, [4]float32{1, 1, 1, 1}, m.BaseColor())
	assert.Equal(t, float32(0), m.Metallic())
	assert.Equal(t, float32(1), m.Roughness())
}

func TestGPUMaterialDataLayout(t *testing.T) {
	m := NewMaterial(
		WithBaseColor([4]float32{0.5, 0.25, 0.125, 1}),
		WithMetallic(0.75),
		WithRoughness(0.5),
	)

	data := m.GPUData()
	assert.Equal(t, 32, data.Size())

	buf := data.Marshal()
	assert.Len(t, buf, 32)
}
