package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/culling"
)

func TestEyeFromViewRecoversCameraPosition(t *testing.T) {
	cases := [][3]float32{
		{0, 0, 10},
		{5, 3, -7},
		{-12.5, 0.25, 4},
	}

	for _, eye := range cases {
		var view [16]float32
		common.LookAt(view[:], eye[0], eye[1], eye[2], 0, 0, 0, 0, 1, 0)

		got := eyeFromView(view)
		for i := range 3 {
			assert.InDelta(t, eye[i], got[i], 1e-4)
		}
	}
}

func TestRendererOptions(t *testing.T) {
	r := &renderer{
		presentMode: wgpu.PresentModeFifo,
		mode:        culling.ModeHost,
	}

	WithMode(culling.ModeDevice)(r)
	WithPresentMode(wgpu.PresentModeImmediate)(r)
	WithDeviceCullingCapacity(4096)(r)

	assert.Equal(t, culling.ModeDevice, r.mode)
	assert.Equal(t, wgpu.PresentModeImmediate, r.presentMode)
	assert.Equal(t, 4096, r.deviceCapacity)
}

func TestDeviceDescriptorPerMode(t *testing.T) {
	host := deviceDescriptor(culling.ModeHost)
	device := deviceDescriptor(culling.ModeDevice)

	for _, desc := range []*wgpu.DeviceDescriptor{host, device} {
		assert.Equal(t, uint32(8), desc.RequiredLimits.Limits.MaxBindGroups)
	}

	// Indirect draws carry non-zero first_instance values in device mode;
	// without this feature wgpu treats such draws as no-ops.
	assert.Empty(t, host.RequiredFeatures)
	assert.Contains(t, device.RequiredFeatures, wgpu.FeatureNameIndirectFirstInstance)
}

func TestRenderFrameBeforeFinalizeFails(t *testing.T) {
	r := &renderer{mode: culling.ModeHost}

	err := r.RenderFrame(nil, nil)
	assert.Error(t, err)
}
