package camera

import "github.com/Carmen-Shannon/oxy-core/engine/input"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithMoveSpeed sets the translation speed.
//
// Parameters:
//   - speed: world units per second
//
// Returns:
//   - CameraControllerOption: functional option to set move speed
func WithMoveSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.moveSpeed = speed
	}
}

// WithTurnSpeed sets the keyboard rotation speed.
//
// Parameters:
//   - speed: radians per second
//
// Returns:
//   - CameraControllerOption: functional option to set turn speed
func WithTurnSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.turnSpeed = speed
	}
}

// WithKeyBindings replaces the default key bindings.
//
// Parameters:
//   - b: the bindings to use
//
// Returns:
//   - CameraControllerOption: functional option to set key bindings
func WithKeyBindings(b KeyBindings) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.bindings = b
	}
}

// WithInputMapping overrides the platform default input mapping.
//
// Parameters:
//   - m: the mapping to apply to pitch input
//
// Returns:
//   - CameraControllerOption: functional option to set the input mapping
func WithInputMapping(m input.Mapping) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mapping = m
	}
}
