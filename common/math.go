package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Matrix convention used throughout the engine: column-major storage with column vectors,
// so a point is transformed as M · p and composed transforms read right to left.
// A local TRS matrix is T · R · S and a world matrix is ParentWorld · Local.

// WorldUp is the engine-wide up axis.
var WorldUp = mgl32.Vec3{0, 1, 0}

// TRS builds a model matrix from translation, rotation, and scale.
// Scale is applied first, then rotation, then translation (M = T · R · S).
//
// Parameters:
//   - position: translation component
//   - rotation: unit quaternion orientation
//   - scale: per-axis scale factors
//
// Returns:
//   - mgl32.Mat4: the composed column-major matrix
func TRS(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(position[0], position[1], position[2])
	r := rotation.Mat4()
	s := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(r).Mul4(s)
}

// Translation extracts the translation column of a column-major matrix.
//
// Parameters:
//   - m: the matrix to read
//
// Returns:
//   - mgl32.Vec3: the translation component
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m[12], m[13], m[14]}
}

// ViewBasis reads the camera's world-space axes out of a view matrix.
// The rows of the view matrix's upper 3x3 block are the camera's right, up, and backward axes.
//
// Parameters:
//   - view: a rigid world-to-view matrix
//
// Returns:
//   - right, up, forward: world-space unit axes of the camera
func ViewBasis(view mgl32.Mat4) (right, up, forward mgl32.Vec3) {
	right = mgl32.Vec3{view[0], view[4], view[8]}
	up = mgl32.Vec3{view[1], view[5], view[9]}
	forward = mgl32.Vec3{-view[2], -view[6], -view[10]}
	return
}

// Perspective creates a right-handed perspective projection matrix that maps depth into the
// WebGPU clip space range [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// ClampAbs clamps v into the closed band [-limit, +limit].
// Values exactly on the boundary are returned unchanged.
//
// Parameters:
//   - v: the value to clamp
//   - limit: the non-negative half-width of the band
//
// Returns:
//   - float32: the clamped value
func ClampAbs(v, limit float32) float32 {
	return mgl32.Clamp(v, -limit, limit)
}
