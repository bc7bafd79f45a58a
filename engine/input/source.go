// Package input defines the input collaborator consumed by camera controllers and the engine loop.
package input

// Source is a per-frame snapshot of keyboard and mouse state.
// The window implements it; tests drive controllers with fakes.
type Source interface {
	// KeyDown reports whether key is currently held.
	//
	// Parameters:
	//   - key: the virtual key code
	//
	// Returns:
	//   - bool: true while the key is pressed
	KeyDown(key Key) bool

	// MouseDelta returns the cursor movement accumulated since the previous call and resets it.
	// dy is in screen space: positive means the cursor moved down on platforms with a top-left origin.
	//
	// Returns:
	//   - float32: horizontal movement in pixels
	//   - float32: vertical movement in pixels
	MouseDelta() (dx, dy float32)
}
