package opaque_pass

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/prism-go/engine/renderer/culling"
)

func TestDepthShaderSourceIsComplete(t *testing.T) {
	src := DepthShaderSource()

	assert.Contains(t, src, "struct VertexInput")
	assert.Contains(t, src, "struct ObjectData")
	assert.Contains(t, src, "fn vs_depth")
	assert.NotContains(t, src, "@fragment")
}

func TestOpaqueShaderSourcePerMode(t *testing.T) {
	host := OpaqueShaderSource(culling.ModeHost)
	device := OpaqueShaderSource(culling.ModeDevice)

	for _, src := range []string{host, device} {
		assert.Contains(t, src, "struct MaterialData")
		assert.Contains(t, src, "struct DirectionalLight")
		assert.Contains(t, src, "fn vs_main")
		assert.Contains(t, src, "fn fs_main")
		assert.Contains(t, src, "fn get_material")
	}

	assert.Contains(t, host, "var<uniform> material_uniform")
	assert.NotContains(t, host, "array<MaterialData>")

	assert.Contains(t, device, "array<MaterialData>")
	assert.Contains(t, device, "albedo_texture")
	// Each source carries exactly one material access definition.
	assert.Equal(t, 1, strings.Count(host, "fn get_material"))
	assert.Equal(t, 1, strings.Count(device, "fn get_material"))

	assert.Panics(t, func() {
		OpaqueShaderSource(culling.Mode(3))
	})
}
