// Package window provides the GLFW platform window: the surface provider for the renderer and the
// input source for camera controllers.
package window

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-core/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// It satisfies renderer.PlatformSurface and input.Source.
type Window interface {
	input.Source

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up, negative = down)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(key input.Key))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(key input.Key))

	// SetCursorCaptured hides and locks the cursor for mouse-look, or releases it.
	//
	// Parameters:
	//   - captured: true to capture the cursor
	SetCursorCaptured(captured bool)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Size returns the framebuffer size in pixels.
	//
	// Returns:
	//   - width, height: the framebuffer extent
	Size() (width, height int)

	// Title returns the window title.
	//
	// Returns:
	//   - string: the title
	Title() string

	// PollEvents processes pending platform events without blocking and dispatches callbacks.
	//
	// Returns:
	//   - bool: true while the window is still running
	PollEvents() bool

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never opened or is already closed
	Close() error
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, platform state, input state, and event callbacks.
type engineWindow struct {
	mu *sync.Mutex

	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height are the framebuffer size in pixels.
	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// keys is the held state of every key, indexed by key code.
	keys [input.MaxKey + 1]bool

	// cursor tracking for MouseDelta; the first sample after capture only seeds the position.
	cursorSeeded bool
	lastX, lastY float64
	dx, dy       float32

	onResize  func(width, height int)
	onScroll  func(delta float32)
	onKeyDown func(key input.Key)
	onKeyUp   func(key input.Key)
}

var _ Window = &engineWindow{}

// NewWindow creates and opens a platform window.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the opened window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		mu:        &sync.Mutex{},
		title:     "oxy",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  320,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(key input.Key)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(key input.Key)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onKeyUp = callback
}

func (w *engineWindow) SetCursorCaptured(captured bool) {
	platformSetCursorCaptured(w, captured)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cursorSeeded = false
	w.dx, w.dy = 0, 0
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Size() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) PollEvents() bool {
	return platformProcessMessages(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) KeyDown(key input.Key) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if key > input.MaxKey {
		return false
	}
	return w.keys[key]
}

func (w *engineWindow) MouseDelta() (dx, dy float32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	dx, dy = w.dx, w.dy
	w.dx, w.dy = 0, 0
	return dx, dy
}

// handleKey records a key transition and fires the matching callback outside the lock.
func (w *engineWindow) handleKey(key input.Key, down bool) {
	w.mu.Lock()
	if key <= input.MaxKey {
		w.keys[key] = down
	}
	cb := w.onKeyUp
	if down {
		cb = w.onKeyDown
	}
	w.mu.Unlock()

	if cb != nil {
		cb(key)
	}
}

// handleCursor accumulates cursor movement since the previous MouseDelta call.
func (w *engineWindow) handleCursor(x, y float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cursorSeeded {
		w.dx += float32(x - w.lastX)
		w.dy += float32(y - w.lastY)
	}
	w.lastX, w.lastY = x, y
	w.cursorSeeded = true
}

func (w *engineWindow) handleScroll(delta float32) {
	w.mu.Lock()
	cb := w.onScroll
	w.mu.Unlock()
	if cb != nil {
		cb(delta)
	}
}

func (w *engineWindow) handleResize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	cb := w.onResize
	w.mu.Unlock()
	if cb != nil {
		cb(width, height)
	}
}
