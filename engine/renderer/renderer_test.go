package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-core/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeBackend struct {
	cfg BackendConfig

	initErr  error
	beginErr error
	endErr   error

	calls       []string
	frameNumber uint64
	states      []GlobalState
	resized     [2]int
	shutdowns   int
}

func (f *fakeBackend) Initialize(appName string, surface PlatformSurface) error {
	f.calls = append(f.calls, "Initialize")
	return f.initErr
}

func (f *fakeBackend) Shutdown() {
	f.calls = append(f.calls, "Shutdown")
	f.shutdowns++
}

func (f *fakeBackend) Resize(width, height int) {
	f.calls = append(f.calls, "Resize")
	f.resized = [2]int{width, height}
}

func (f *fakeBackend) FrameNumber(n uint64) {
	f.frameNumber = n
}

func (f *fakeBackend) BeginFrame(deltaTime float32) error {
	f.calls = append(f.calls, "BeginFrame")
	return f.beginErr
}

func (f *fakeBackend) UpdateGlobalState(state GlobalState) {
	f.calls = append(f.calls, "UpdateGlobalState")
	f.states = append(f.states, state)
}

func (f *fakeBackend) EndFrame(deltaTime float32) error {
	f.calls = append(f.calls, "EndFrame")
	return f.endErr
}

func (f *fakeBackend) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

type fakeSurface struct{}

func (fakeSurface) Size() (int, int)                           { return 640, 480 }
func (fakeSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return &wgpu.SurfaceDescriptor{} }

func newTestRenderer(t *testing.T, fb *fakeBackend, options ...RendererBuilderOption) Renderer {
	t.Helper()
	built := 0
	options = append(options, WithBackendFactory(func(cfg BackendConfig) RendererBackend {
		built++
		fb.cfg = cfg
		return fb
	}))
	r := NewRenderer(BackendTypeWGPU, options...)
	if err := r.Initialize("test", fakeSurface{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if built != 1 {
		t.Fatalf("backend constructed %d times, want 1", built)
	}
	return r
}

func TestDrawFrameSuccess(t *testing.T) {
	fb := &fakeBackend{}
	r := newTestRenderer(t, fb)

	packet := &RenderPacket{DeltaTime: 0.016, View: mgl32.Ident4(), Projection: mgl32.Ident4(), ViewPosition: mgl32.Vec3{1, 2, 3}}
	for i := 0; i < 3; i++ {
		if err := r.DrawFrame(packet); err != nil {
			t.Fatalf("DrawFrame %d: %v", i, err)
		}
		if fb.frameNumber != uint64(i) {
			t.Fatalf("backend frame number\nhave %d\nwant %d", fb.frameNumber, i)
		}
	}
	if n := r.FrameNumber(); n != 3 {
		t.Fatalf("FrameNumber\nhave %d\nwant 3", n)
	}

	want := []string{"Initialize", "BeginFrame", "UpdateGlobalState", "EndFrame"}
	for i, c := range want {
		if fb.calls[i] != c {
			t.Fatalf("call order\nhave %v\nwant prefix %v", fb.calls, want)
		}
	}
	if fb.states[0].ViewPosition != (mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("global state position\nhave %v\nwant [1 2 3]", fb.states[0].ViewPosition)
	}
}

func TestDrawFrameBeginFailureSkips(t *testing.T) {
	fb := &fakeBackend{beginErr: ErrSurfaceOutOfDate}
	r := newTestRenderer(t, fb)

	if err := r.DrawFrame(&RenderPacket{}); err != nil {
		t.Fatalf("DrawFrame with failing BeginFrame\nhave %v\nwant nil", err)
	}
	if n := r.FrameNumber(); n != 0 {
		t.Fatalf("FrameNumber after skipped frame\nhave %d\nwant 0", n)
	}
	if n := fb.count("EndFrame"); n != 0 {
		t.Fatalf("EndFrame called %d times on a skipped frame", n)
	}
	if n := fb.count("UpdateGlobalState"); n != 0 {
		t.Fatalf("UpdateGlobalState called %d times on a skipped frame", n)
	}

	// The next tick retries unconditionally.
	fb.beginErr = nil
	if err := r.DrawFrame(&RenderPacket{}); err != nil {
		t.Fatalf("DrawFrame retry: %v", err)
	}
	if n := r.FrameNumber(); n != 1 {
		t.Fatalf("FrameNumber after retry\nhave %d\nwant 1", n)
	}
}

func TestDrawFrameEndFailureAdvances(t *testing.T) {
	fb := &fakeBackend{endErr: ErrSubmission}
	r := newTestRenderer(t, fb)

	err := r.DrawFrame(&RenderPacket{})
	if !errors.Is(err, ErrDrawFailed) || !errors.Is(err, ErrSubmission) {
		t.Fatalf("DrawFrame error\nhave %v\nwant %v wrapping %v", err, ErrDrawFailed, ErrSubmission)
	}
	if n := r.FrameNumber(); n != 1 {
		t.Fatalf("FrameNumber after failed EndFrame\nhave %d\nwant 1", n)
	}

	// A failed EndFrame still closes the frame.
	fb.endErr = nil
	if err := r.DrawFrame(&RenderPacket{}); err != nil {
		t.Fatalf("DrawFrame after failure: %v", err)
	}
}

func TestDrawFrameNilPacket(t *testing.T) {
	fb := &fakeBackend{}
	r := newTestRenderer(t, fb)
	if err := r.DrawFrame(nil); err != nil {
		t.Fatalf("DrawFrame(nil): %v", err)
	}
	if n := fb.count("UpdateGlobalState"); n != 0 {
		t.Fatalf("UpdateGlobalState called %d times for a nil packet", n)
	}
	if n := r.FrameNumber(); n != 1 {
		t.Fatalf("FrameNumber\nhave %d\nwant 1", n)
	}
}

func TestInitializeFailureLeavesRendererUnusable(t *testing.T) {
	fb := &fakeBackend{initErr: ErrDeviceRejected}
	r := NewRenderer(BackendTypeWGPU, WithBackendFactory(func(BackendConfig) RendererBackend { return fb }))

	err := r.Initialize("test", fakeSurface{})
	if !errors.Is(err, ErrDeviceRejected) {
		t.Fatalf("Initialize\nhave %v\nwant %v", err, ErrDeviceRejected)
	}
	if fb.shutdowns != 1 {
		t.Fatalf("backend shut down %d times after failed Initialize, want 1", fb.shutdowns)
	}
	if r.Initialized() {
		t.Fatal("renderer reports initialized after failure")
	}
	if err := r.DrawFrame(&RenderPacket{}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("DrawFrame on unusable renderer\nhave %v\nwant %v", err, ErrNotInitialized)
	}

	r.OnResize(10, 10)
	r.Shutdown()
	r.Shutdown()
	if fb.count("Resize") != 0 || fb.shutdowns != 1 {
		t.Fatalf("unusable renderer touched its dropped backend: %v", fb.calls)
	}
}

func TestShutdownIdempotent(t *testing.T) {
	fb := &fakeBackend{}
	r := newTestRenderer(t, fb)

	r.Shutdown()
	r.Shutdown()
	if fb.shutdowns != 1 {
		t.Fatalf("backend Shutdown called %d times, want 1", fb.shutdowns)
	}
	if err := r.DrawFrame(&RenderPacket{}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("DrawFrame after Shutdown\nhave %v\nwant %v", err, ErrNotInitialized)
	}
}

func TestInitializeTwice(t *testing.T) {
	fb := &fakeBackend{}
	r := newTestRenderer(t, fb)
	if err := r.Initialize("again", fakeSurface{}); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Initialize\nhave %v\nwant %v", err, ErrAlreadyInitialized)
	}
}

func TestOnResizeForwards(t *testing.T) {
	fb := &fakeBackend{}
	r := newTestRenderer(t, fb)
	r.OnResize(800, 600)
	if fb.resized != [2]int{800, 600} {
		t.Fatalf("backend Resize\nhave %v\nwant [800 600]", fb.resized)
	}
	if n := fb.count("BeginFrame"); n != 0 {
		t.Fatal("OnResize began a frame")
	}
}

func TestExplicitFrameBracket(t *testing.T) {
	fb := &fakeBackend{}
	r := newTestRenderer(t, fb)

	if err := r.EndFrame(0); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("EndFrame without BeginFrame\nhave %v\nwant %v", err, ErrNoFrame)
	}
	if err := r.BeginFrame(0); err != nil {
		t.Fatal(err)
	}
	if err := r.BeginFrame(0); !errors.Is(err, ErrFrameInProgress) {
		t.Fatalf("nested BeginFrame\nhave %v\nwant %v", err, ErrFrameInProgress)
	}
	if err := r.DrawFrame(&RenderPacket{}); !errors.Is(err, ErrFrameInProgress) {
		t.Fatalf("DrawFrame inside open frame\nhave %v\nwant %v", err, ErrFrameInProgress)
	}
	r.UpdateGlobalState(GlobalState{DeltaTime: 1})
	if err := r.EndFrame(0); err != nil {
		t.Fatal(err)
	}
	if n := r.FrameNumber(); n != 1 {
		t.Fatalf("FrameNumber\nhave %d\nwant 1", n)
	}
	if len(fb.states) != 1 {
		t.Fatalf("UpdateGlobalState forwarded %d times, want 1", len(fb.states))
	}
}

func TestBuilderOptions(t *testing.T) {
	fb := &fakeBackend{}
	newTestRenderer(t, fb,
		WithPresentMode(PresentModeUncapped),
		WithMSAA(MSAAOff),
		WithForceSoftwareRenderer(true),
		WithFramesInFlight(0),
	)
	want := BackendConfig{
		PresentMode:          PresentModeUncapped,
		SampleCount:          MSAAOff,
		ForceFallbackAdapter: true,
		FramesInFlight:       1,
	}
	if fb.cfg != want {
		t.Fatalf("BackendConfig\nhave %+v\nwant %+v", fb.cfg, want)
	}
}

func TestNewRenderPacket(t *testing.T) {
	cam := camera.NewCamera(camera.WithPosition(mgl32.Vec3{0, 0, 4}), camera.WithAspect(2))
	p := NewRenderPacket(cam, 0.5)
	if p.DeltaTime != 0.5 {
		t.Fatalf("DeltaTime\nhave %v\nwant 0.5", p.DeltaTime)
	}
	if p.View != cam.ViewMatrix() || p.Projection != cam.ProjectionMatrix() {
		t.Fatal("packet matrices do not match the camera")
	}
	if p.ViewPosition != (mgl32.Vec3{0, 0, 4}) {
		t.Fatalf("ViewPosition\nhave %v\nwant [0 0 4]", p.ViewPosition)
	}
	if s := p.GlobalState(); s.View != p.View || s.DeltaTime != p.DeltaTime {
		t.Fatalf("GlobalState\nhave %+v", s)
	}
}
