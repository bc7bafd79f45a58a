package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.cfg.PresentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.cfg.SampleCount = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.cfg.ForceFallbackAdapter = force
	}
}

// WithFramesInFlight sets how many frames the backend may record ahead of the GPU.
// Per-frame resources such as the camera uniform ring are sized by it. Values below 1 are raised to 1.
//
// Parameters:
//   - n: the number of frames in flight (default 2)
//
// Returns:
//   - RendererBuilderOption: a function that applies the frames-in-flight option to a renderer
func WithFramesInFlight(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.cfg.FramesInFlight = max(n, 1)
	}
}

// WithBackendFactory replaces the backend constructor selected by the backend type.
// Initialize calls the factory exactly once per successful or failed initialization.
//
// Parameters:
//   - f: the factory producing an uninitialized backend
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend factory option to a renderer
func WithBackendFactory(f BackendFactory) RendererBuilderOption {
	return func(r *renderer) {
		r.factory = f
	}
}
