package camera

import "github.com/Carmen-Shannon/oxy-core/engine/input"

// KeyBindings maps camera actions to keys.
type KeyBindings struct {
	Forward   input.Key
	Backward  input.Key
	Left      input.Key
	Right     input.Key
	Up        input.Key
	Down      input.Key
	YawLeft   input.Key
	YawRight  input.Key
	PitchUp   input.Key
	PitchDown input.Key
}

// DefaultKeyBindings returns WASD movement, Space/X vertical movement, and arrow-key rotation.
//
// Returns:
//   - KeyBindings: the default bindings
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Forward:   input.KeyW,
		Backward:  input.KeyS,
		Left:      input.KeyA,
		Right:     input.KeyD,
		Up:        input.KeySpace,
		Down:      input.KeyX,
		YawLeft:   input.KeyLeft,
		YawRight:  input.KeyRight,
		PitchUp:   input.KeyUp,
		PitchDown: input.KeyDown,
	}
}

// CameraController drives a Camera from an input.Source once per tick.
// Platform input conventions are resolved by the controller's input.Mapping, never by the camera.
type CameraController interface {
	// Camera returns the controlled camera.
	//
	// Returns:
	//   - Camera: the camera this controller mutates
	Camera() Camera

	// Update reads held keys and the accumulated mouse delta from src and applies them.
	// Movement and keyboard rotation scale with deltaTime; mouse input does not.
	//
	// Parameters:
	//   - src: the input snapshot for this tick
	//   - deltaTime: seconds since the previous tick
	Update(src input.Source, deltaTime float32)

	// MoveSpeed returns the translation speed.
	//
	// Returns:
	//   - float32: world units per second
	MoveSpeed() float32

	// SetMoveSpeed sets the translation speed.
	//
	// Parameters:
	//   - speed: world units per second
	SetMoveSpeed(speed float32)

	// TurnSpeed returns the keyboard rotation speed.
	//
	// Returns:
	//   - float32: radians per second
	TurnSpeed() float32

	// SetTurnSpeed sets the keyboard rotation speed.
	//
	// Parameters:
	//   - speed: radians per second
	SetTurnSpeed(speed float32)

	// KeyBindings returns the active key bindings.
	//
	// Returns:
	//   - KeyBindings: the bindings
	KeyBindings() KeyBindings

	// Mapping returns the input mapping applied to pitch input.
	//
	// Returns:
	//   - input.Mapping: the mapping
	Mapping() input.Mapping
}
