package opaque_pass

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/prism-go/engine/renderer/culling"
)

func TestSlotTableIsStable(t *testing.T) {
	// The slot tables are load-bearing for every compiled shader; a change
	// here must be deliberate and mirrored in the WGSL.
	assert.Equal(t, 0, SlotSamplers)
	assert.Equal(t, 1, SlotCulledObjects)
	assert.Equal(t, 2, PrepassSlotMaterial)
	assert.Equal(t, 3, PrepassSlotTextures)
	assert.Equal(t, 2, DrawSlotDirectionalLight)
	assert.Equal(t, 3, DrawSlotShaderUniforms)
	assert.Equal(t, 4, DrawSlotMaterial)
	assert.Equal(t, 5, DrawSlotTextures)
}

func TestNewOpaquePassRejectsMismatchedCullers(t *testing.T) {
	host := culling.NewHostCuller(nil, nil)

	assert.Panics(t, func() {
		NewOpaquePass(culling.ModeHost, nil, nil, nil, nil, nil)
	})
	assert.Panics(t, func() {
		NewOpaquePass(culling.ModeDevice, nil, nil, host, nil, nil)
	})
	assert.Panics(t, func() {
		NewOpaquePass(culling.Mode(42), nil, nil, host, nil, nil)
	})

	assert.NotPanics(t, func() {
		p := NewOpaquePass(culling.ModeHost, nil, nil, host, nil, nil)
		assert.Equal(t, culling.ModeHost, p.Mode())
	})
}

func TestPrepassRejectsWrongModeSet(t *testing.T) {
	host := culling.NewHostCuller(nil, nil)
	pass := NewOpaquePass(culling.ModeHost, nil, nil, host, nil, nil)

	deviceSet := culling.NewDeviceCulledSet(nil, nil, 0)

	// The mode check fires before the pass touches the encoder.
	assert.Panics(t, func() {
		pass.Prepass(nil, deviceSet, nil, nil)
	})
	assert.Panics(t, func() {
		pass.Draw(nil, deviceSet, nil, nil)
	})
}
