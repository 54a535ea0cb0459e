package shader_interfaces

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGPUShaderUniformsLayout(t *testing.T) {
	u := GPUShaderUniforms{
		CameraPosition: [3]float32{1, 2, 3},
	}
	u.ViewProjection[0] = 1
	u.ViewProjection[15] = 1

	assert.Equal(t, 80, u.Size())

	buf := u.Marshal()
	assert.Len(t, buf, 80)
	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(buf[0:4]))
	assert.Equal(t, math.Float32bits(3), binary.LittleEndian.Uint32(buf[72:76]))
}

func TestGPUDirectionalLightLayout(t *testing.T) {
	l := GPUDirectionalLight{
		Direction: [3]float32{0, -1, 0},
		Color:     [3]float32{1, 0.9, 0.8},
		Intensity: 2.5,
	}

	assert.Equal(t, 32, l.Size())

	buf := l.Marshal()
	assert.Len(t, buf, 32)
	// Color starts after the vec3 direction plus its alignment padding.
	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(buf[16:20]))
	assert.Equal(t, math.Float32bits(2.5), binary.LittleEndian.Uint32(buf[28:32]))
}
