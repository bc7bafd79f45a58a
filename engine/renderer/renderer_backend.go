package renderer

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNotInitialized is returned by operations on a renderer or backend that has no live device,
	// either because Initialize was never called, it failed, or Shutdown already ran.
	ErrNotInitialized = errors.New("renderer: not initialized")

	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("renderer: already initialized")

	// ErrInvalidSurface is a configuration error: the platform surface is missing, has no native
	// handle, or reports no usable formats.
	ErrInvalidSurface = errors.New("renderer: invalid platform surface")

	// ErrDeviceRejected is a configuration error: no adapter or device could be obtained.
	ErrDeviceRejected = errors.New("renderer: device creation rejected")

	// ErrSurfaceOutOfDate is a transient frame error: the swapchain no longer matches the surface
	// and is recreated on the next BeginFrame.
	ErrSurfaceOutOfDate = errors.New("renderer: surface out of date")

	// ErrSurfaceUnavailable is a transient frame error: the surface has a zero-sized extent,
	// usually because the window is minimized.
	ErrSurfaceUnavailable = errors.New("renderer: surface unavailable")

	// ErrFrameInProgress is returned by BeginFrame while a previous frame has not been ended.
	ErrFrameInProgress = errors.New("renderer: frame already in progress")

	// ErrNoFrame is returned by EndFrame when no frame was begun.
	ErrNoFrame = errors.New("renderer: no frame in progress")

	// ErrSubmission is a submission error raised while closing, submitting, or presenting a frame.
	ErrSubmission = errors.New("renderer: frame submission failed")
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	default:
		return "unknown"
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4; higher values are adapter-dependent.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// PlatformSurface supplies the native surface handle and its pixel size.
// A backend reads it only during Initialize; later size changes arrive through Resize.
type PlatformSurface interface {
	// Size returns the drawable size in pixels.
	//
	// Returns:
	//   - width, height: the surface extent
	Size() (width, height int)

	// SurfaceDescriptor returns the platform-specific WebGPU surface descriptor.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil if the native window is gone
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// GlobalState is the per-frame scene state a backend uploads before drawing.
type GlobalState struct {
	View         mgl32.Mat4
	Projection   mgl32.Mat4
	ViewPosition mgl32.Vec3
	DeltaTime    float32
}

// BackendConfig is the construction-time configuration handed to a backend factory.
type BackendConfig struct {
	PresentMode          PresentMode
	SampleCount          MSAASampleCount
	ForceFallbackAdapter bool
	FramesInFlight       int
}

// BackendFactory constructs an uninitialized backend.
type BackendFactory func(cfg BackendConfig) RendererBackend

// RendererBackend is implemented once per native graphics API. A backend is bound to one platform
// surface for its whole lifetime; binding another surface requires Shutdown and a new backend.
//
// Frames follow a strict order: BeginFrame, any number of UpdateGlobalState calls, EndFrame.
// A frame that began must be ended before the next one begins.
type RendererBackend interface {
	// Initialize allocates every API object needed to present frames.
	//
	// Parameters:
	//   - appName: application name used for object labels
	//   - surface: the platform surface to present to
	//
	// Returns:
	//   - error: ErrInvalidSurface or ErrDeviceRejected (wrapped) on failure
	Initialize(appName string, surface PlatformSurface) error

	// Shutdown releases every API object. It is idempotent and safe after a failed Initialize.
	Shutdown()

	// Resize marks the swapchain and render targets for recreation on the next BeginFrame.
	//
	// Parameters:
	//   - width, height: the new surface size in pixels
	Resize(width, height int)

	// FrameNumber informs the backend of the frontend frame counter ahead of BeginFrame.
	//
	// Parameters:
	//   - n: the number of frames completed so far
	FrameNumber(n uint64)

	// BeginFrame acquires the next presentable target and opens a recording context.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	//
	// Returns:
	//   - error: a transient error signalling that this frame should be skipped
	BeginFrame(deltaTime float32) error

	// UpdateGlobalState uploads the frame's view state. Only valid between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - state: the view state for this frame
	UpdateGlobalState(state GlobalState)

	// EndFrame closes recording, submits, and presents.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	//
	// Returns:
	//   - error: ErrSubmission (wrapped) on submission or presentation failure
	EndFrame(deltaTime float32) error
}

func newBackend(backendType RendererBackendType, cfg BackendConfig) RendererBackend {
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		return newWGPURendererBackend(cfg)
	}
}
