package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-core/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeSource struct {
	held   map[input.Key]bool
	dx, dy float32
}

func (f *fakeSource) KeyDown(key input.Key) bool {
	return f.held[key]
}

func (f *fakeSource) MouseDelta() (float32, float32) {
	dx, dy := f.dx, f.dy
	f.dx, f.dy = 0, 0
	return dx, dy
}

func newFakeSource(keys ...input.Key) *fakeSource {
	f := &fakeSource{held: map[input.Key]bool{}}
	for _, k := range keys {
		f.held[k] = true
	}
	return f
}

func TestControllerMovement(t *testing.T) {
	tests := []struct {
		name string
		keys []input.Key
		want mgl32.Vec3
	}{
		{"forward", []input.Key{input.KeyW}, mgl32.Vec3{0, 0, -1}},
		{"backward", []input.Key{input.KeyS}, mgl32.Vec3{0, 0, 1}},
		{"left", []input.Key{input.KeyA}, mgl32.Vec3{-1, 0, 0}},
		{"right", []input.Key{input.KeyD}, mgl32.Vec3{1, 0, 0}},
		{"up", []input.Key{input.KeySpace}, mgl32.Vec3{0, 1, 0}},
		{"down", []input.Key{input.KeyX}, mgl32.Vec3{0, -1, 0}},
		{"opposing keys cancel", []input.Key{input.KeyW, input.KeyS}, mgl32.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera()
			cc := NewCameraController(cam, WithMoveSpeed(2))
			cc.Update(newFakeSource(tt.keys...), 0.5)
			if p := cam.Position(); !p.ApproxEqualThreshold(tt.want, eps) {
				t.Fatalf("Position\nhave %v\nwant %v", p, tt.want)
			}
		})
	}
}

func TestControllerKeyboardRotation(t *testing.T) {
	cam := NewCamera()
	cc := NewCameraController(cam, WithTurnSpeed(1), WithInputMapping(input.Mapping{}))

	cc.Update(newFakeSource(input.KeyLeft, input.KeyUp), 0.25)
	pitch, yaw := cam.EulerAngles()
	if pitch != 0.25 || yaw != 0.25 {
		t.Fatalf("EulerAngles\nhave (%v, %v)\nwant (0.25, 0.25)", pitch, yaw)
	}

	cc.Update(newFakeSource(input.KeyRight, input.KeyDown), 0.25)
	pitch, yaw = cam.EulerAngles()
	if pitch != 0 || yaw != 0 {
		t.Fatalf("EulerAngles\nhave (%v, %v)\nwant (0, 0)", pitch, yaw)
	}
}

func TestControllerInvertedPitch(t *testing.T) {
	cam := NewCamera()
	cc := NewCameraController(cam, WithTurnSpeed(1), WithInputMapping(input.Mapping{InvertPitch: true}))

	cc.Update(newFakeSource(input.KeyUp), 0.5)
	if pitch, _ := cam.EulerAngles(); pitch != -0.5 {
		t.Fatalf("inverted keyboard pitch\nhave %v\nwant -0.5", pitch)
	}

	src := newFakeSource()
	src.dy = -10
	cc.Update(src, 0)
	want := -0.5 - 10*DefaultMouseSensitivity
	if pitch, _ := cam.EulerAngles(); !mgl32.FloatEqualThreshold(pitch, want, eps) {
		t.Fatalf("inverted mouse pitch\nhave %v\nwant %v", pitch, want)
	}
}

func TestControllerMouse(t *testing.T) {
	cam := NewCamera(WithMouseSensitivity(0.01, 0.01))
	cc := NewCameraController(cam, WithInputMapping(input.Mapping{}))

	src := newFakeSource()
	src.dx, src.dy = 50, -20
	cc.Update(src, 1.0/60)

	pitch, yaw := cam.EulerAngles()
	if !mgl32.FloatEqualThreshold(yaw, -0.5, eps) || !mgl32.FloatEqualThreshold(pitch, 0.2, eps) {
		t.Fatalf("EulerAngles\nhave (%v, %v)\nwant (0.2, -0.5)", pitch, yaw)
	}

	cc.Update(src, 1.0/60)
	if p2, y2 := cam.EulerAngles(); p2 != pitch || y2 != yaw {
		t.Fatal("mouse delta applied twice")
	}
}

func TestControllerCustomBindings(t *testing.T) {
	b := DefaultKeyBindings()
	b.Forward = input.KeyE
	cam := NewCamera()
	cc := NewCameraController(cam, WithKeyBindings(b), WithMoveSpeed(1))

	cc.Update(newFakeSource(input.KeyW), 1)
	if p := cam.Position(); p != (mgl32.Vec3{}) {
		t.Fatalf("unbound key moved the camera to %v", p)
	}
	cc.Update(newFakeSource(input.KeyE), 1)
	if p := cam.Position(); !p.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, eps) {
		t.Fatalf("Position\nhave %v\nwant [0 0 -1]", p)
	}
	if cc.KeyBindings() != b {
		t.Fatal("KeyBindings did not return the configured bindings")
	}
	if cc.Camera() != cam {
		t.Fatal("Camera returned a different camera")
	}
}
