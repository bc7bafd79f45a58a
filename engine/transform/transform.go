// Package transform implements hierarchical transforms with lazily cached local matrices.
package transform

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-core/common"
	"github.com/go-gl/mathgl/mgl32"
)

type transformImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	local mgl32.Mat4
	dirty bool

	// parent is a non-owning reference. Its lifetime is managed by whoever holds the node
	// (usually a Graph) and the parent chain must never contain a cycle.
	parent Transform
}

// Transform defines a position, rotation, and scale with an optional parent.
// The local matrix is cached and only recomputed on read after a mutation.
//
// A Transform is safe for concurrent reads, but the engine assumes a single writer per
// object per frame.
type Transform interface {
	// Position returns the local position.
	//
	// Returns:
	//   - mgl32.Vec3: the position relative to the parent
	Position() mgl32.Vec3

	// Rotation returns the local orientation.
	//
	// Returns:
	//   - mgl32.Quat: the orientation relative to the parent
	Rotation() mgl32.Quat

	// Scale returns the local scale.
	//
	// Returns:
	//   - mgl32.Vec3: the per-axis scale factors
	Scale() mgl32.Vec3

	// Dirty reports whether the cached local matrix is stale.
	//
	// Returns:
	//   - bool: true if the next call to Local will recompute
	Dirty() bool

	// SetPosition replaces the local position and marks the transform dirty.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// SetRotation replaces the local orientation and marks the transform dirty.
	//
	// Parameters:
	//   - q: the new orientation, expected to be a unit quaternion
	SetRotation(q mgl32.Quat)

	// SetScale replaces the local scale and marks the transform dirty.
	//
	// Parameters:
	//   - s: the new per-axis scale
	SetScale(s mgl32.Vec3)

	// Translate offsets the local position by delta and marks the transform dirty.
	//
	// Parameters:
	//   - delta: the offset to add
	Translate(delta mgl32.Vec3)

	// Rotate composes delta onto the current orientation (rotation · delta), so delta is
	// expressed in the object's local frame at the time of the call. Marks the transform dirty.
	//
	// Parameters:
	//   - delta: the relative rotation to apply
	Rotate(delta mgl32.Quat)

	// ScaleBy multiplies the local scale component-wise by factor and marks the transform dirty.
	//
	// Parameters:
	//   - factor: the per-axis multiplier
	ScaleBy(factor mgl32.Vec3)

	// Local returns the local matrix T · R · S, recomputing it only if the transform is dirty.
	//
	// Returns:
	//   - mgl32.Mat4: the local matrix
	Local() mgl32.Mat4

	// World returns ParentWorld · Local, or Local when there is no parent.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	World() mgl32.Mat4

	// Parent returns the parent transform, or nil.
	//
	// Returns:
	//   - Transform: the non-owning parent reference
	Parent() Transform

	// SetParent reassigns the parent reference and marks the transform dirty.
	// The caller guarantees that the assignment does not create a cycle.
	//
	// Parameters:
	//   - p: the new parent, or nil to detach
	SetParent(p Transform)
}

var _ Transform = &transformImpl{}

// NewTransform creates a Transform at the origin with identity rotation and unit scale.
// The transform starts dirty so the first Local call computes the matrix.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Transform: the new transform
func NewTransform(options ...TransformBuilderOption) Transform {
	t := &transformImpl{
		mu:       &sync.Mutex{},
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
		local:    mgl32.Ident4(),
		dirty:    true,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *transformImpl) Position() mgl32.Vec3 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

func (t *transformImpl) Rotation() mgl32.Quat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rotation
}

func (t *transformImpl) Scale() mgl32.Vec3 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scale
}

func (t *transformImpl) Dirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dirty
}

func (t *transformImpl) SetPosition(p mgl32.Vec3) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = p
	t.dirty = true
}

func (t *transformImpl) SetRotation(q mgl32.Quat) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rotation = q
	t.dirty = true
}

func (t *transformImpl) SetScale(s mgl32.Vec3) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scale = s
	t.dirty = true
}

func (t *transformImpl) Translate(delta mgl32.Vec3) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = t.position.Add(delta)
	t.dirty = true
}

func (t *transformImpl) Rotate(delta mgl32.Quat) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rotation = t.rotation.Mul(delta)
	t.dirty = true
}

func (t *transformImpl) ScaleBy(factor mgl32.Vec3) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scale = mgl32.Vec3{t.scale[0] * factor[0], t.scale[1] * factor[1], t.scale[2] * factor[2]}
	t.dirty = true
}

func (t *transformImpl) Local() mgl32.Mat4 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.localLocked()
}

func (t *transformImpl) World() mgl32.Mat4 {
	t.mu.Lock()
	local := t.localLocked()
	parent := t.parent
	t.mu.Unlock()

	if parent == nil {
		return local
	}
	return parent.World().Mul4(local)
}

func (t *transformImpl) Parent() Transform {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.parent
}

func (t *transformImpl) SetParent(p Transform) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.parent = p
	t.dirty = true
}

// localLocked returns the cached local matrix, recomputing it when dirty.
// The cache is written before the flag is cleared.
// Caller must hold the mutex.
func (t *transformImpl) localLocked() mgl32.Mat4 {
	if !t.dirty {
		return t.local
	}
	t.local = common.TRS(t.position, t.rotation, t.scale)
	t.dirty = false
	return t.local
}
