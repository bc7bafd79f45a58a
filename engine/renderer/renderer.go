package renderer

import (
	"cmp"
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-core/common"
)

// ErrDrawFailed wraps an EndFrame failure reported by DrawFrame.
var ErrDrawFailed = errors.New("renderer: draw failed")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	factory     BackendFactory
	cfg         BackendConfig

	// backend is owned exclusively by the renderer and nil whenever the renderer is unusable.
	backend RendererBackend

	frameNumber uint64
	inFrame     bool
}

// Renderer is the frontend that owns exactly one backend and drives its frame lifecycle.
//
// A renderer is unusable until Initialize succeeds and again after Shutdown. The frame counter
// advances once per ended frame, including frames whose EndFrame failed, and never moves backwards.
type Renderer interface {
	// Initialize constructs the backend selected at construction and initializes it against surface.
	// On failure the backend is shut down and dropped, and the renderer stays unusable.
	//
	// Parameters:
	//   - appName: application name passed to the backend
	//   - surface: the platform surface to present to
	//
	// Returns:
	//   - error: the wrapped backend configuration error
	Initialize(appName string, surface PlatformSurface) error

	// DrawFrame runs one frame: BeginFrame, UpdateGlobalState, EndFrame.
	// If BeginFrame fails the frame is skipped: EndFrame is not called, the counter is unchanged,
	// and DrawFrame returns nil.
	//
	// Parameters:
	//   - packet: the frame's view state; nil skips the global state upload
	//
	// Returns:
	//   - error: ErrNotInitialized, ErrFrameInProgress, or an EndFrame failure wrapped in ErrDrawFailed
	DrawFrame(packet *RenderPacket) error

	// BeginFrame opens a frame for callers that interleave their own submissions.
	// Must be paired with EndFrame when it returns nil.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	//
	// Returns:
	//   - error: the backend's transient error when the frame should be skipped
	BeginFrame(deltaTime float32) error

	// UpdateGlobalState forwards per-frame view state to the backend inside an open frame.
	//
	// Parameters:
	//   - state: the view state for this frame
	UpdateGlobalState(state GlobalState)

	// EndFrame closes the open frame and advances the frame counter, even when the backend fails.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	//
	// Returns:
	//   - error: ErrNoFrame, or the backend's submission error
	EndFrame(deltaTime float32) error

	// FrameNumber returns the number of frames ended so far.
	//
	// Returns:
	//   - uint64: the frame counter
	FrameNumber() uint64

	// OnResize forwards a surface size change to the backend. It never touches GPU objects itself.
	//
	// Parameters:
	//   - width, height: the new surface size in pixels
	OnResize(width, height int)

	// Shutdown shuts the backend down and releases it. Safe to call at any time, any number of times.
	Shutdown()

	// Initialized reports whether the renderer owns a live backend.
	//
	// Returns:
	//   - bool: true between a successful Initialize and Shutdown
	Initialized() bool

	// BackendType returns the backend selected at construction.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	BackendType() RendererBackendType
}

var _ Renderer = &renderer{}

// NewRenderer creates an uninitialized Renderer. The backend API is chosen here, once;
// the backend itself is constructed by Initialize.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		cfg: BackendConfig{
			PresentMode:    PresentModeVSync,
			SampleCount:    MSAA4x,
			FramesInFlight: 2,
		},
	}
	for _, opt := range options {
		opt(r)
	}
	if r.factory == nil {
		r.factory = func(cfg BackendConfig) RendererBackend {
			return newBackend(r.backendType, cfg)
		}
	}
	return r
}

func (r *renderer) Initialize(appName string, surface PlatformSurface) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.backend != nil {
		return ErrAlreadyInitialized
	}

	appName = cmp.Or(appName, "oxy")
	b := r.factory(r.cfg)
	if err := b.Initialize(appName, surface); err != nil {
		common.Logger().Error("renderer backend initialization failed",
			"backend", r.backendType.String(),
			"app", appName,
			"err", err,
		)
		b.Shutdown()
		return fmt.Errorf("renderer: initialize %s backend: %w", r.backendType, err)
	}

	r.backend = b
	r.frameNumber = 0
	r.inFrame = false
	return nil
}

func (r *renderer) DrawFrame(packet *RenderPacket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var dt float32
	if packet != nil {
		dt = packet.DeltaTime
	}

	if err := r.beginFrameLocked(dt); err != nil {
		if errors.Is(err, ErrNotInitialized) || errors.Is(err, ErrFrameInProgress) {
			return err
		}
		common.Logger().Debug("frame skipped", "frame", r.frameNumber, "err", err)
		return nil
	}

	if packet != nil {
		r.backend.UpdateGlobalState(packet.GlobalState())
	}

	if err := r.endFrameLocked(dt); err != nil {
		return fmt.Errorf("%w: frame %d: %w", ErrDrawFailed, r.frameNumber-1, err)
	}
	return nil
}

func (r *renderer) BeginFrame(deltaTime float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.beginFrameLocked(deltaTime)
}

func (r *renderer) UpdateGlobalState(state GlobalState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend == nil || !r.inFrame {
		return
	}
	r.backend.UpdateGlobalState(state)
}

func (r *renderer) EndFrame(deltaTime float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.endFrameLocked(deltaTime)
}

func (r *renderer) FrameNumber() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameNumber
}

func (r *renderer) OnResize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend == nil {
		return
	}
	r.backend.Resize(width, height)
}

func (r *renderer) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend == nil {
		return
	}
	r.backend.Shutdown()
	r.backend = nil
	r.inFrame = false
}

func (r *renderer) Initialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend != nil
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

// beginFrameLocked informs the backend of the frame counter and opens a frame.
// Caller must hold the mutex.
func (r *renderer) beginFrameLocked(deltaTime float32) error {
	if r.backend == nil {
		return ErrNotInitialized
	}
	if r.inFrame {
		return ErrFrameInProgress
	}
	r.backend.FrameNumber(r.frameNumber)
	if err := r.backend.BeginFrame(deltaTime); err != nil {
		return err
	}
	r.inFrame = true
	return nil
}

// endFrameLocked closes the open frame. The counter advances whether or not the backend
// succeeds, since GPU-side state may already have changed.
// Caller must hold the mutex.
func (r *renderer) endFrameLocked(deltaTime float32) error {
	if r.backend == nil {
		return ErrNotInitialized
	}
	if !r.inFrame {
		return ErrNoFrame
	}
	err := r.backend.EndFrame(deltaTime)
	r.inFrame = false
	r.frameNumber++
	return err
}
