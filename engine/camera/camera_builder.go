package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option applied to a camera during construction.
type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the initial eye position.
//
// Parameters:
//   - p: world-space position
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(p mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = p
	}
}

// WithEulerAngles sets the initial orientation. Pitch is clamped once all options are applied.
//
// Parameters:
//   - pitch: rotation about the right axis in radians
//   - yaw: rotation about world-up in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's orientation
func WithEulerAngles(pitch, yaw float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pitch = pitch
		c.yaw = yaw
	}
}

// WithWorldUp sets the fixed up axis. It is normalized on construction; a zero vector falls
// back to +Y.
//
// Parameters:
//   - up: the world-up direction
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's world-up axis
func WithWorldUp(up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.worldUp = up
	}
}

// WithPitchLimit sets the half-width of the pitch clamp band.
// Values are expected to be strictly less than π/2.
//
// Parameters:
//   - limit: the limit in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's pitch limit
func WithPitchLimit(limit float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pitchLimit = limit
	}
}

// WithMouseSensitivity sets the radians-per-pixel factors used by ApplyMouseDelta.
//
// Parameters:
//   - x: horizontal sensitivity
//   - y: vertical sensitivity
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's mouse sensitivity
func WithMouseSensitivity(x, y float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.sensitivityX = x
		c.sensitivityY = y
	}
}

// WithFov sets the camera's field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}
