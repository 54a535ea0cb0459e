package culling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostCulledSetAccessors(t *testing.T) {
	draws := []DrawCall{
		{FirstInstance: 0, InstanceCount: 3},
		{FirstInstance: 3, InstanceCount: 1},
	}
	set := NewHostCulledSet(draws, nil, 4)

	assert.Equal(t, ModeHost, set.Mode())
	assert.Equal(t, 4, set.ObjectCount())
	assert.Equal(t, draws, set.Draws())
}

func TestDeviceCulledSetAccessors(t *testing.T) {
	set := NewDeviceCulledSet(nil, nil, 7)

	assert.Equal(t, ModeDevice, set.Mode())
	assert.Equal(t, 7, set.ObjectCount())
	assert.Nil(t, set.IndirectBuffer())
}

func TestHostSetRejectsDeviceAccessors(t *testing.T) {
	set := NewHostCulledSet(nil, nil, 0)

	assert.PanicsWithValue(t, "culling: IndirectBuffer called on a host culled set", func() {
		set.IndirectBuffer()
	})
}

func TestDeviceSetRejectsHostAccessors(t *testing.T) {
	set := NewDeviceCulledSet(nil, nil, 0)

	assert.PanicsWithValue(t, "culling: Draws called on a device culled set", func() {
		set.Draws()
	})
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "host", ModeHost.String())
	assert.Equal(t, "device", ModeDevice.String())
	assert.Equal(t, "unknown(9)", Mode(9).String())
}
