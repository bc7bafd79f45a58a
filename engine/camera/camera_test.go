package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	if !c.Dirty() {
		t.Fatal("new camera is clean, want dirty")
	}
	if p := c.Position(); p != (mgl32.Vec3{}) {
		t.Fatalf("Position\nhave %v\nwant origin", p)
	}
	if pitch, yaw := c.EulerAngles(); pitch != 0 || yaw != 0 {
		t.Fatalf("EulerAngles\nhave (%v, %v)\nwant (0, 0)", pitch, yaw)
	}
	if v := c.ViewMatrix(); !v.ApproxEqualThreshold(mgl32.Ident4(), eps) {
		t.Fatalf("ViewMatrix\nhave %v\nwant identity", v)
	}
	if c.Dirty() {
		t.Fatal("camera still dirty after ViewMatrix")
	}
	if f := c.Forward(); !f.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, eps) {
		t.Fatalf("Forward\nhave %v\nwant [0 0 -1]", f)
	}
}

func TestCameraDirtyCycle(t *testing.T) {
	mutators := []struct {
		name string
		fn   func(Camera)
	}{
		{"SetPosition", func(c Camera) { c.SetPosition(mgl32.Vec3{1, 2, 3}) }},
		{"SetEulerAngles", func(c Camera) { c.SetEulerAngles(0.2, 0.4) }},
		{"MoveForward", func(c Camera) { c.MoveForward(1) }},
		{"MoveBackward", func(c Camera) { c.MoveBackward(1) }},
		{"MoveLeft", func(c Camera) { c.MoveLeft(1) }},
		{"MoveRight", func(c Camera) { c.MoveRight(1) }},
		{"MoveUp", func(c Camera) { c.MoveUp(1) }},
		{"MoveDown", func(c Camera) { c.MoveDown(1) }},
		{"RotateYaw", func(c Camera) { c.RotateYaw(0.3) }},
		{"RotatePitch", func(c Camera) { c.RotatePitch(0.3) }},
		{"ApplyMouseDelta", func(c Camera) { c.ApplyMouseDelta(4, -2) }},
		{"Reset", func(c Camera) { c.Reset() }},
	}

	for _, m := range mutators {
		t.Run(m.name, func(t *testing.T) {
			c := NewCamera(WithPosition(mgl32.Vec3{0, 1, 4}))
			c.ViewMatrix()
			m.fn(c)
			if !c.Dirty() {
				t.Fatalf("%s did not mark the camera dirty", m.name)
			}
			first := c.ViewMatrix()
			if c.Dirty() {
				t.Fatal("dirty after recompute")
			}
			if second := c.ViewMatrix(); second != first {
				t.Fatalf("consecutive reads differ\nfirst  %v\nsecond %v", first, second)
			}
		})
	}
}

func TestRotateYawQuarterTurn(t *testing.T) {
	c := NewCamera()
	c.RotateYaw(math.Pi / 2)

	if f := c.Forward(); !f.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, eps) {
		t.Fatalf("Forward after +90° yaw\nhave %v\nwant [-1 0 0]", f)
	}
	if r := c.Right(); !r.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, eps) {
		t.Fatalf("Right after +90° yaw\nhave %v\nwant [0 0 -1]", r)
	}
	if u := c.Up(); !u.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, eps) {
		t.Fatalf("Up after +90° yaw\nhave %v\nwant [0 1 0]", u)
	}
}

func TestRotatePitchSaturates(t *testing.T) {
	tests := []struct {
		name    string
		amounts []float32
		want    float32
	}{
		{"overshoot up", []float32{10}, DefaultPitchLimit},
		{"overshoot down", []float32{-10}, -DefaultPitchLimit},
		{"exact boundary", []float32{DefaultPitchLimit}, DefaultPitchLimit},
		{"accumulated", []float32{0.5, 0.5, 0.5, 0.5}, DefaultPitchLimit},
		{"inside band", []float32{0.25, -0.5}, -0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera()
			for _, a := range tt.amounts {
				c.RotatePitch(a)
			}
			if pitch, _ := c.EulerAngles(); pitch != tt.want {
				t.Fatalf("pitch\nhave %v\nwant %v", pitch, tt.want)
			}
		})
	}
}

func TestSetEulerAnglesClampsPitch(t *testing.T) {
	c := NewCamera(WithPitchLimit(0.5))
	c.SetEulerAngles(1, 7)
	pitch, yaw := c.EulerAngles()
	if pitch != 0.5 || yaw != 7 {
		t.Fatalf("EulerAngles\nhave (%v, %v)\nwant (0.5, 7)", pitch, yaw)
	}
}

func TestMoveDirections(t *testing.T) {
	c := NewCamera(WithEulerAngles(0.8, 0))
	c.MoveUp(2)
	if p := c.Position(); p != (mgl32.Vec3{0, 2, 0}) {
		t.Fatalf("MoveUp while pitched\nhave %v\nwant [0 2 0]", p)
	}
	c.MoveDown(2)

	c.SetEulerAngles(0, 0)
	c.MoveForward(3)
	c.MoveRight(1)
	if p := c.Position(); !p.ApproxEqualThreshold(mgl32.Vec3{1, 0, -3}, eps) {
		t.Fatalf("MoveForward+MoveRight\nhave %v\nwant [1 0 -3]", p)
	}
	c.MoveBackward(3)
	c.MoveLeft(1)
	if p := c.Position(); !p.ApproxEqualThreshold(mgl32.Vec3{}, eps) {
		t.Fatalf("round trip\nhave %v\nwant origin", p)
	}
}

func TestMoveForwardUsesRecomputedView(t *testing.T) {
	c := NewCamera()
	c.ViewMatrix()
	c.RotateYaw(math.Pi / 2)
	c.MoveForward(1)
	if p := c.Position(); !p.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, eps) {
		t.Fatalf("MoveForward after yaw\nhave %v\nwant [-1 0 0]", p)
	}
}

func TestApplyMouseDelta(t *testing.T) {
	c := NewCamera(WithMouseSensitivity(0.01, 0.02))
	c.ApplyMouseDelta(100, -10)
	pitch, yaw := c.EulerAngles()
	if !mgl32.FloatEqualThreshold(yaw, -1, eps) {
		t.Fatalf("yaw\nhave %v\nwant -1", yaw)
	}
	if !mgl32.FloatEqualThreshold(pitch, 0.2, eps) {
		t.Fatalf("pitch\nhave %v\nwant 0.2", pitch)
	}

	c.ApplyMouseDelta(0, -1e6)
	if pitch, _ := c.EulerAngles(); pitch != MousePitchLimit {
		t.Fatalf("mouse pitch clamp\nhave %v\nwant %v", pitch, MousePitchLimit)
	}
	c.ApplyMouseDelta(0, 1e6)
	if pitch, _ := c.EulerAngles(); pitch != -MousePitchLimit {
		t.Fatalf("mouse pitch clamp\nhave %v\nwant %v", pitch, -MousePitchLimit)
	}
}

func TestApplyMouseDeltaKeepsKeyboardPitch(t *testing.T) {
	c := NewCamera()
	c.RotatePitch(10)
	if pitch, _ := c.EulerAngles(); pitch != DefaultPitchLimit {
		t.Fatalf("keyboard pitch\nhave %v\nwant %v", pitch, DefaultPitchLimit)
	}

	c.ApplyMouseDelta(1, 0)
	pitch, yaw := c.EulerAngles()
	if pitch != DefaultPitchLimit {
		t.Fatalf("pitch after horizontal mouse move\nhave %v\nwant %v", pitch, DefaultPitchLimit)
	}
	if yaw == 0 {
		t.Fatal("horizontal mouse move did not change yaw")
	}

	c.ApplyMouseDelta(0, 1)
	if pitch, _ := c.EulerAngles(); pitch != MousePitchLimit {
		t.Fatalf("pitch after vertical mouse move\nhave %v\nwant %v", pitch, MousePitchLimit)
	}
}

func TestResetCustomWorldUp(t *testing.T) {
	up := mgl32.Vec3{0, 0, 1}
	c := NewCamera(WithWorldUp(up))
	c.SetPosition(mgl32.Vec3{1, 2, 3})
	c.RotateYaw(0.7)
	c.ViewMatrix()

	c.Reset()
	want := NewCamera(WithWorldUp(up)).ViewMatrix()
	v := c.ViewMatrix()
	if !v.ApproxEqualThreshold(want, eps) {
		t.Fatalf("ViewMatrix after Reset\nhave %v\nwant rest frame %v", v, want)
	}
	if v.ApproxEqualThreshold(mgl32.Ident4(), eps) {
		t.Fatal("custom world up reset to the identity view")
	}
	if u := c.WorldUp(); u != up {
		t.Fatalf("WorldUp after Reset\nhave %v\nwant %v", u, up)
	}
}

func TestReset(t *testing.T) {
	c := NewCamera()
	c.SetPosition(mgl32.Vec3{3, 4, 5})
	c.RotateYaw(1)
	c.RotatePitch(0.4)
	c.ViewMatrix()

	c.Reset()
	if p := c.Position(); p != (mgl32.Vec3{}) {
		t.Fatalf("Position after Reset\nhave %v\nwant origin", p)
	}
	if pitch, yaw := c.EulerAngles(); pitch != 0 || yaw != 0 {
		t.Fatalf("EulerAngles after Reset\nhave (%v, %v)\nwant (0, 0)", pitch, yaw)
	}
	if v := c.ViewMatrix(); !v.ApproxEqualThreshold(mgl32.Ident4(), eps) {
		t.Fatalf("ViewMatrix after Reset\nhave %v\nwant identity", v)
	}
}

func TestLookAtCamera(t *testing.T) {
	tests := []struct {
		name      string
		position  mgl32.Vec3
		target    mgl32.Vec3
		wantPitch float32
		wantYaw   float32
	}{
		{"down -Z", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 0}, 0, 0},
		{"toward -X", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{-10, 0, 5}, 0, math.Pi / 2},
		{"toward +X", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{4, 0, 0}, 0, -math.Pi / 2},
		{"elevated", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 5, 0}, math.Pi / 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := mgl32.Vec3{0, 1, 0}
			c := NewLookAtCamera(tt.position, tt.target, up)

			pitch, yaw := c.EulerAngles()
			if !mgl32.FloatEqualThreshold(pitch, tt.wantPitch, eps) || !mgl32.FloatEqualThreshold(yaw, tt.wantYaw, eps) {
				t.Fatalf("EulerAngles\nhave (%v, %v)\nwant (%v, %v)", pitch, yaw, tt.wantPitch, tt.wantYaw)
			}

			want := mgl32.LookAtV(tt.position, tt.target, up)
			if v := c.ViewMatrix(); !v.ApproxEqualThreshold(want, eps) {
				t.Fatalf("ViewMatrix\nhave %v\nwant %v", v, want)
			}

			f, r, u := c.Forward(), c.Right(), c.Up()
			if dir := tt.target.Sub(tt.position).Normalize(); !f.ApproxEqualThreshold(dir, eps) {
				t.Fatalf("Forward\nhave %v\nwant %v", f, dir)
			}
			assertOrthonormal(t, f, r, u)
		})
	}
}

func TestLookAtCameraClampsVertical(t *testing.T) {
	c := NewLookAtCamera(mgl32.Vec3{}, mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0, 1, 0})
	if pitch, _ := c.EulerAngles(); pitch != DefaultPitchLimit {
		t.Fatalf("pitch\nhave %v\nwant %v", pitch, DefaultPitchLimit)
	}
	assertOrthonormal(t, c.Forward(), c.Right(), c.Up())
}

func TestLookAtCameraCustomUp(t *testing.T) {
	up := mgl32.Vec3{0, 0, 1}
	pos := mgl32.Vec3{1, 1, 1}
	target := mgl32.Vec3{1, 6, 1}
	c := NewLookAtCamera(pos, target, up)

	if f := c.Forward(); !f.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, eps) {
		t.Fatalf("Forward\nhave %v\nwant [0 1 0]", f)
	}
	c.MoveUp(1)
	if p := c.Position(); p != (mgl32.Vec3{1, 1, 2}) {
		t.Fatalf("MoveUp\nhave %v\nwant [1 1 2]", p)
	}
}

func TestLookAtBasis(t *testing.T) {
	f, r, u, ok := lookAtBasis(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{-4, 0, 7}, mgl32.Vec3{0, 1, 0})
	if !ok {
		t.Fatal("lookAtBasis reported a degenerate frame")
	}
	assertOrthonormal(t, f, r, u)

	if _, _, _, ok := lookAtBasis(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, 1, 0}); ok {
		t.Fatal("coincident target accepted")
	}
}

func TestProjection(t *testing.T) {
	c := NewCamera(WithFov(math.Pi/2), WithAspect(2), WithNear(1), WithFar(10))
	p := c.ProjectionMatrix()
	if !mgl32.FloatEqualThreshold(p[0], 0.5, eps) || !mgl32.FloatEqualThreshold(p[5], 1, eps) {
		t.Fatalf("projection scale\nhave (%v, %v)\nwant (0.5, 1)", p[0], p[5])
	}

	c.SetAspect(1)
	if p := c.ProjectionMatrix(); !mgl32.FloatEqualThreshold(p[0], 1, eps) {
		t.Fatalf("projection after SetAspect\nhave %v\nwant 1", p[0])
	}

	c.SetPosition(mgl32.Vec3{0, 0, 3})
	want := c.ProjectionMatrix().Mul4(c.ViewMatrix())
	if vp := c.ViewProjectionMatrix(); vp != want {
		t.Fatalf("ViewProjectionMatrix\nhave %v\nwant %v", vp, want)
	}

	u := c.Uniform()
	if u.ViewProj != [16]float32(want) {
		t.Fatalf("Uniform.ViewProj\nhave %v\nwant %v", u.ViewProj, want)
	}
	if u.CameraPosition != [3]float32{0, 0, 3} {
		t.Fatalf("Uniform.CameraPosition\nhave %v\nwant [0 0 3]", u.CameraPosition)
	}
	if b := u.Marshal(); len(b) != GPUCameraUniformSize {
		t.Fatalf("Marshal length\nhave %d\nwant %d", len(b), GPUCameraUniformSize)
	}
}

func assertOrthonormal(t *testing.T, f, r, u mgl32.Vec3) {
	t.Helper()
	for name, v := range map[string]mgl32.Vec3{"forward": f, "right": r, "up": u} {
		if !mgl32.FloatEqualThreshold(v.Len(), 1, eps) {
			t.Errorf("%s length\nhave %v\nwant 1", name, v.Len())
		}
	}
	if d := f.Dot(r); !mgl32.FloatEqualThreshold(d, 0, eps) {
		t.Errorf("forward·right\nhave %v\nwant 0", d)
	}
	if d := f.Dot(u); !mgl32.FloatEqualThreshold(d, 0, eps) {
		t.Errorf("forward·up\nhave %v\nwant 0", d)
	}
	if d := r.Dot(u); !mgl32.FloatEqualThreshold(d, 0, eps) {
		t.Errorf("right·up\nhave %v\nwant 0", d)
	}
	if want := r.Cross(f); !u.ApproxEqualThreshold(want, eps) {
		t.Errorf("up is not right × forward\nhave %v\nwant %v", u, want)
	}
}

func TestCameraFrustumFollowsYaw(t *testing.T) {
	c := NewCamera()
	ahead, left := mgl32.Vec3{0, 0, -5}, mgl32.Vec3{-5, 0, 0}

	f := c.Frustum()
	if !f.ContainsPoint(ahead) || f.ContainsPoint(left) {
		t.Fatalf("rest frustum: ahead=%v left=%v, want true false", f.ContainsPoint(ahead), f.ContainsPoint(left))
	}

	c.SetEulerAngles(0, math.Pi/2)
	f = c.Frustum()
	if f.ContainsPoint(ahead) || !f.ContainsPoint(left) {
		t.Fatalf("yawed frustum: ahead=%v left=%v, want false true", f.ContainsPoint(ahead), f.ContainsPoint(left))
	}
}
