package culling

import (
	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/material"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/mesh"
)

// batchKey groups objects that can share one draw call.
type batchKey struct {
	mesh     mesh.Handle
	material material.Handle
}

// worldBounds transforms an object-space bounding sphere into world space:
// the center goes through the model matrix, the radius is scaled by the
// largest axis scale so non-uniform scaling never shrinks the bound.
//
// Parameters:
//   - transform: the object's model matrix (column-major)
//   - bounds: the mesh's object-space bounding sphere
//
// Returns:
//   - [3]float32: the world-space sphere center
//   - float32: the world-space sphere radius
func worldBounds(transform [16]float32, bounds common.BoundingSphere) ([3]float32, float32) {
	center := common.TransformPoint(transform[:], bounds.Center)
	radius := bounds.Radius * common.MaxScale(transform[:])
	return center, radius
}

// isVisible runs the shared sphere-vs-frustum predicate for one object.
func isVisible(f *common.Frustum, obj Object, bounds common.BoundingSphere) bool {
	center, radius := worldBounds(obj.Transform, bounds)
	return f.ContainsSphere(center, radius)
}

// buildDraws turns the visibility results into batched draw calls plus the
// per-object data that backs them.
//
// Batches form by (mesh, material) pair in the order each pair is first seen
// among the visible objects; within a batch, objects keep their input order.
// The returned object data is laid out batch by batch, so a batch's instances
// occupy the contiguous range [FirstInstance, FirstInstance+InstanceCount)
// and the vertex shader can index the output buffer by instance index. The
// whole construction depends only on the input order, never on how the
// visibility slice was computed.
//
// Parameters:
//   - viewProj: the camera's combined view-projection matrix
//   - objects: the frame's full object list
//   - visible: per-object visibility flags, indexed like objects
//   - meshes: the mesh registry used to resolve handles (panics on unresolved)
//
// Returns:
//   - []DrawCall: the batched draws in first-seen batch order
//   - []GPUObjectData: the per-object data in draw order
func buildDraws(viewProj [16]float32, objects []Object, visible []bool, meshes mesh.MeshBuffers) ([]DrawCall, []GPUObjectData) {
	groups := make(map[batchKey]int)
	var order []batchKey
	members := make(map[batchKey][]int)

	for i, obj := range objects {
		if !visible[i] {
			continue
		}
		key := batchKey{mesh: obj.Mesh, material: obj.Material}
		if _, seen := groups[key]; !seen {
			groups[key] = len(order)
			order = append(order, key)
		}
		members[key] = append(members[key], i)
	}

	draws := make([]DrawCall, 0, len(order))
	var objectData []GPUObjectData

	var firstInstance uint32
	for _, key := range order {
		indices := members[key]
		draws = append(draws, DrawCall{
			Mesh:          key.mesh,
			Range:         meshes.Lookup(key.mesh),
			Material:      key.material,
			FirstInstance: firstInstance,
			InstanceCount: uint32(len(indices)),
		})

		for _, i := range indices {
			obj := objects[i]
			var data GPUObjectData
			common.Mul4(data.ModelViewProjection[:], viewProj[:], obj.Transform[:])
			data.Model = obj.Transform
			data.MaterialIndex = uint32(obj.Material)
			objectData = append(objectData, data)
		}
		firstInstance += uint32(len(indices))
	}

	return draws, objectData
}
