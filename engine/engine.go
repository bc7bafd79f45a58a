package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-core/common"
	"github.com/Carmen-Shannon/oxy-core/engine/camera"
	"github.com/Carmen-Shannon/oxy-core/engine/profiler"
	"github.com/Carmen-Shannon/oxy-core/engine/renderer"
	"github.com/Carmen-Shannon/oxy-core/engine/window"
)

var (
	ErrNoWindow       = errors.New("engine: no window configured")
	ErrNoRenderer     = errors.New("engine: no renderer configured")
	ErrAlreadyRunning = errors.New("engine: already running")
)

// engine implements the Engine interface.
// Drives window, simulation, camera, and renderer from one loop on the calling goroutine.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window     window.Window
	renderer   renderer.Renderer
	camera     camera.Camera
	controller camera.CameraController

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)

	renderFrameLimit time.Duration // minimum time between draws; 0 = every tick
}

// Engine is the main entry point for the engine.
// Each tick it polls the window, runs the tick callback, applies camera input, and draws one frame.
type Engine interface {
	// Window returns the window the engine polls and presents to.
	//
	// Returns:
	//   - window.Window: the window instance, or nil if none was configured
	Window() window.Window

	// Renderer returns the renderer the engine draws with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer, or nil if none was configured
	Renderer() renderer.Renderer

	// Camera returns the camera whose view is rendered.
	//
	// Returns:
	//   - camera.Camera: the active camera, never nil
	Camera() camera.Camera

	// CameraController returns the controller driving the camera from window input.
	//
	// Returns:
	//   - camera.CameraController: the controller, or nil if the camera is driven manually
	CameraController() camera.CameraController

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the loop rate in ticks per second. Takes effect immediately when running.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each tick before the camera update and draw.
	// Use this to mutate transforms and other simulation state.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit caps how often a tick also draws a frame.
	// Pass 0 to draw on every tick (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = every tick)
	SetRenderFrameLimit(fps float64)

	// Run initializes the renderer against the window if needed and runs the loop on the calling
	// goroutine. It blocks until the window closes, ctx is cancelled, or Quit is called, then
	// shuts the renderer down and closes the window.
	//
	// Parameters:
	//   - ctx: cancelling ctx stops the loop
	//
	// Returns:
	//   - error: configuration or initialization errors, or a non-recoverable draw error
	Run(ctx context.Context) error

	// Quit signals the loop to stop after the current tick.
	// Safe to call multiple times and from any goroutine.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// When no camera is given, the controller's camera is used, or a default camera is created.
// The camera aspect follows the window size.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, camera, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(time.Second),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.camera == nil && e.controller != nil {
		e.camera = e.controller.Camera()
	}
	if e.camera == nil {
		e.camera = camera.NewCamera()
	}

	if e.window != nil {
		if w, h := e.window.Size(); w > 0 && h > 0 {
			e.camera.SetAspect(float32(w) / float32(h))
		}
		e.window.SetResizeCallback(e.handleResize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) CameraController() camera.CameraController {
	return e.controller
}

func (e *engine) Run(ctx context.Context) (err error) {
	if e.window == nil {
		return ErrNoWindow
	}
	if e.renderer == nil {
		return ErrNoRenderer
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	e.running = true
	tickRate := e.engineTickRate
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	if !e.renderer.Initialized() {
		if err := e.renderer.Initialize(e.window.Title(), e.window); err != nil {
			return fmt.Errorf("engine: %w", err)
		}
	}
	defer e.shutdown()

	// Recover from panics inside tick callbacks to release the GPU and window cleanly.
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("engine loop recovered from panic", "panic", r)
			err = fmt.Errorf("engine: recovered from panic: %v", r)
		}
	}()

	common.Logger().Info("engine started",
		"tick_rate", tickRate,
		"backend", e.renderer.BackendType().String(),
	)

	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	lastTick := time.Now()
	var lastDraw time.Time

	for {
		select {
		case <-ctx.Done():
			common.Logger().Info("engine stopped", "reason", ctx.Err())
			return nil
		case <-e.quitChannel:
			common.Logger().Info("engine stopped", "reason", "quit")
			return nil
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
		case now := <-ticker.C:
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			open, err := e.tick(now, dt, &lastDraw)
			if err != nil {
				return err
			}
			if !open {
				common.Logger().Info("engine stopped", "reason", "window closed")
				return nil
			}
		}
	}
}

// tick runs one pass of the frame timeline. lastDraw is advanced when a frame is drawn.
//
// Returns:
//   - bool: false once the window has closed
//   - error: a draw error the loop cannot recover from
func (e *engine) tick(now time.Time, dt float32, lastDraw *time.Time) (bool, error) {
	if !e.window.PollEvents() {
		return false, nil
	}

	e.mu.Lock()
	cb := e.tickCallback
	limit := e.renderFrameLimit
	profiling := e.profilingEnabled
	e.mu.Unlock()

	if cb != nil {
		cb(dt)
	}
	if e.controller != nil {
		e.controller.Update(e.window, dt)
	}

	if limit > 0 && !lastDraw.IsZero() && now.Sub(*lastDraw) < limit {
		return true, nil
	}
	frameDt := dt
	if !lastDraw.IsZero() {
		frameDt = float32(now.Sub(*lastDraw).Seconds())
	}
	*lastDraw = now

	if err := e.renderer.DrawFrame(renderer.NewRenderPacket(e.camera, frameDt)); err != nil {
		if !errors.Is(err, renderer.ErrDrawFailed) {
			return false, fmt.Errorf("engine: draw: %w", err)
		}
		common.Logger().Warn("frame submission failed", "err", err)
	}

	if profiling && e.profiler != nil {
		e.profiler.Tick(e.renderer.FrameNumber())
	}
	return true, nil
}

// shutdown releases the renderer before the window whose surface it presents to.
func (e *engine) shutdown() {
	e.renderer.Shutdown()
	// A window closed by the user still holds its native handle until Close.
	if err := e.window.Close(); err != nil && !errors.Is(err, window.ErrWindowClosed) {
		common.Logger().Warn("window close failed", "err", err)
	}
}

// handleResize forwards a framebuffer size change to the renderer and the camera aspect.
// A zero-sized (minimized) window leaves the aspect unchanged.
func (e *engine) handleResize(width, height int) {
	if e.renderer != nil {
		e.renderer.OnResize(width, height)
	}
	if width > 0 && height > 0 {
		e.camera.SetAspect(float32(width) / float32(height))
	}
}

// Quit signals the loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate sets the loop rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.engineTickRate = newRate
	if !e.running {
		return
	}

	// Replace any pending update that the loop has not consumed yet.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

// SetTickCallback registers the function called each tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to draw on every tick.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = frameLimit(fps)
}

func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

func frameLimit(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
