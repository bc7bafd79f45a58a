package transform

import "github.com/go-gl/mathgl/mgl32"

// TransformBuilderOption is a functional option applied to a transform during construction via NewTransform.
type TransformBuilderOption func(*transformImpl)

// WithPosition sets the initial local position.
//
// Parameters:
//   - p: the position relative to the parent
//
// Returns:
//   - TransformBuilderOption: a function that sets the transform's position
func WithPosition(p mgl32.Vec3) TransformBuilderOption {
	return func(t *transformImpl) {
		t.position = p
	}
}

// WithRotation sets the initial local orientation.
//
// Parameters:
//   - q: a unit quaternion
//
// Returns:
//   - TransformBuilderOption: a function that sets the transform's rotation
func WithRotation(q mgl32.Quat) TransformBuilderOption {
	return func(t *transformImpl) {
		t.rotation = q
	}
}

// WithScale sets the initial local scale.
//
// Parameters:
//   - s: per-axis scale factors
//
// Returns:
//   - TransformBuilderOption: a function that sets the transform's scale
func WithScale(s mgl32.Vec3) TransformBuilderOption {
	return func(t *transformImpl) {
		t.scale = s
	}
}

// WithParent sets the initial non-owning parent reference.
//
// Parameters:
//   - p: the parent transform
//
// Returns:
//   - TransformBuilderOption: a function that sets the transform's parent
func WithParent(p Transform) TransformBuilderOption {
	return func(t *transformImpl) {
		t.parent = p
	}
}
