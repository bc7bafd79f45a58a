package renderer

import (
	"github.com/Carmen-Shannon/oxy-core/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderPacket carries the state one DrawFrame call needs.
type RenderPacket struct {
	DeltaTime    float32
	View         mgl32.Mat4
	Projection   mgl32.Mat4
	ViewPosition mgl32.Vec3
}

// NewRenderPacket snapshots cam's matrices for a frame. Reading the matrices recomputes any
// stale camera caches.
//
// Parameters:
//   - cam: the active camera
//   - deltaTime: seconds since the previous frame
//
// Returns:
//   - *RenderPacket: the packet
func NewRenderPacket(cam camera.Camera, deltaTime float32) *RenderPacket {
	return &RenderPacket{
		DeltaTime:    deltaTime,
		View:         cam.ViewMatrix(),
		Projection:   cam.ProjectionMatrix(),
		ViewPosition: cam.Position(),
	}
}

// GlobalState returns the backend-facing view of the packet.
//
// Returns:
//   - GlobalState: the view state
func (p *RenderPacket) GlobalState() GlobalState {
	return GlobalState{
		View:         p.View,
		Projection:   p.Projection,
		ViewPosition: p.ViewPosition,
		DeltaTime:    p.DeltaTime,
	}
}
