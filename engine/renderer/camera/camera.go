package camera

import (
	"github.com/Carmen-Shannon/prism-go/common"
)

// cameraImpl is the implementation of the Camera interface.
type cameraImpl struct {
	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32
	frustum              common.Frustum
}

// Camera is an immutable per-frame camera snapshot. It is built once at the
// start of a frame from the view and projection matrices and borrowed
// read-only by the culling strategies and draw passes for the rest of that
// frame. It never outlives the frame that created it.
type Camera interface {
	// ViewMatrix returns the 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the combined Projection * View matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// Frustum returns the view frustum extracted from the view-projection matrix,
	// with all six planes normalized.
	//
	// Returns:
	//   - common.Frustum: the camera's view frustum
	Frustum() common.Frustum
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera snapshot from explicit view and projection
// matrices, precomputing the view-projection matrix and frustum planes.
//
// Parameters:
//   - view: the 4x4 view matrix (column-major)
//   - projection: the 4x4 projection matrix (column-major)
//
// Returns:
//   - Camera: an immutable camera snapshot for the current frame
func NewCamera(view, projection [16]float32) Camera {
	c := &cameraImpl{
		viewMatrix:       view,
		projectionMatrix: projection,
	}
	common.Mul4(c.viewProjectionMatrix[:], projection[:], view[:])
	c.frustum = common.ExtractFrustumFromMatrix(c.viewProjectionMatrix[:])
	return c
}

// NewPerspectiveCamera creates a Camera snapshot from an eye position, a look
// target, and perspective projection settings. Convenience wrapper over
// NewCamera for callers that do not manage matrices themselves.
//
// Parameters:
//   - eye: camera position in world space
//   - target: point the camera looks at
//   - up: up vector (typically {0, 1, 0})
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - Camera: an immutable camera snapshot for the current frame
func NewPerspectiveCamera(eye, target, up [3]float32, fovY, aspect, near, far float32) Camera {
	var view, proj [16]float32
	common.LookAt(view[:], eye[0], eye[1], eye[2], target[0], target[1], target[2], up[0], up[1], up[2])
	common.Perspective(proj[:], fovY, aspect, near, far)
	return NewCamera(view, proj)
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Frustum() common.Frustum {
	return c.frustum
}
