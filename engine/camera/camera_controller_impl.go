package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-core/engine/input"
)

type cameraControllerImpl struct {
	mu *sync.Mutex

	camera Camera

	moveSpeed float32
	turnSpeed float32

	bindings KeyBindings
	mapping  input.Mapping
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller for cam with the platform's default input mapping.
//
// Parameters:
//   - cam: the camera to drive
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(cam Camera, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:        &sync.Mutex{},
		camera:    cam,
		moveSpeed: 5.0,
		turnSpeed: 1.5,
		bindings:  DefaultKeyBindings(),
		mapping:   input.DefaultMapping(),
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) Camera() Camera {
	return cc.camera
}

func (cc *cameraControllerImpl) Update(src input.Source, deltaTime float32) {
	if src == nil {
		return
	}

	cc.mu.Lock()
	move := cc.moveSpeed * deltaTime
	turn := cc.turnSpeed * deltaTime
	b := cc.bindings
	m := cc.mapping
	cc.mu.Unlock()

	cam := cc.camera
	if src.KeyDown(b.Forward) {
		cam.MoveForward(move)
	}
	if src.KeyDown(b.Backward) {
		cam.MoveBackward(move)
	}
	if src.KeyDown(b.Left) {
		cam.MoveLeft(move)
	}
	if src.KeyDown(b.Right) {
		cam.MoveRight(move)
	}
	if src.KeyDown(b.Up) {
		cam.MoveUp(move)
	}
	if src.KeyDown(b.Down) {
		cam.MoveDown(move)
	}

	if src.KeyDown(b.YawLeft) {
		cam.RotateYaw(turn)
	}
	if src.KeyDown(b.YawRight) {
		cam.RotateYaw(-turn)
	}
	if src.KeyDown(b.PitchUp) {
		cam.RotatePitch(m.Pitch(turn))
	}
	if src.KeyDown(b.PitchDown) {
		cam.RotatePitch(m.Pitch(-turn))
	}

	if dx, dy := src.MouseDelta(); dx != 0 || dy != 0 {
		cam.ApplyMouseDelta(dx, m.Pitch(dy))
	}
}

func (cc *cameraControllerImpl) MoveSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.moveSpeed
}

func (cc *cameraControllerImpl) SetMoveSpeed(speed float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.moveSpeed = speed
}

func (cc *cameraControllerImpl) TurnSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.turnSpeed
}

func (cc *cameraControllerImpl) SetTurnSpeed(speed float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.turnSpeed = speed
}

func (cc *cameraControllerImpl) KeyBindings() KeyBindings {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.bindings
}

func (cc *cameraControllerImpl) Mapping() input.Mapping {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mapping
}
