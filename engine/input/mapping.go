package input

import "runtime"

// Mapping converts raw device input into the engine's rotation convention.
// The camera never sees platform conventions; they are resolved here.
type Mapping struct {
	// InvertPitch flips the sign of pitch input.
	InvertPitch bool
}

// DefaultMapping returns the mapping for the running platform.
// macOS reports vertical input with the opposite sign, so pitch is inverted there.
//
// Returns:
//   - Mapping: the platform default
func DefaultMapping() Mapping {
	return mappingFor(runtime.GOOS)
}

func mappingFor(goos string) Mapping {
	return Mapping{InvertPitch: goos == "darwin"}
}

// Pitch applies the mapping to a pitch input value.
//
// Parameters:
//   - v: raw pitch input
//
// Returns:
//   - float32: v, negated when InvertPitch is set
func (m Mapping) Pitch(v float32) float32 {
	if m.InvertPitch {
		return -v
	}
	return v
}
