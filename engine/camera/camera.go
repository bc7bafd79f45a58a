package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-core/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultPitchLimit is the gimbal-lock guard band for keyboard and programmatic pitch (89.5°).
	DefaultPitchLimit = float32(89.5 * math.Pi / 180.0)

	// MousePitchLimit bounds pitch accumulated from mouse deltas (89°).
	MousePitchLimit = float32(89.0 * math.Pi / 180.0)

	// DefaultMouseSensitivity is the default radians-per-pixel factor on both axes.
	DefaultMouseSensitivity = float32(0.005)
)

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	pitch    float32
	yaw      float32

	// worldUp is fixed for the camera's lifetime. refForward and refRight span the plane
	// orthogonal to it and define the orientation at pitch = yaw = 0.
	worldUp    mgl32.Vec3
	refForward mgl32.Vec3
	refRight   mgl32.Vec3

	pitchLimit   float32
	sensitivityX float32
	sensitivityY float32

	view  mgl32.Mat4
	dirty bool

	fov        float32
	aspect     float32
	near       float32
	far        float32
	projection mgl32.Mat4
	projDirty  bool
}

// Camera holds view-space state and derives view and projection matrices on demand.
// Orientation is a (pitch, yaw) pair about a fixed world-up axis. At pitch = yaw = 0 with the
// default +Y up the camera looks down -Z, and positive yaw turns toward -X.
//
// The view matrix is cached: any position or orientation mutation marks it dirty and the next
// read recomputes it. A clean read has no side effect.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// SetPosition sets the world-space position and marks the view dirty.
	//
	// Parameters:
	//   - p: the new eye position
	SetPosition(p mgl32.Vec3)

	// EulerAngles returns the current orientation.
	//
	// Returns:
	//   - pitch: rotation about the right axis in radians
	//   - yaw: rotation about world-up in radians
	EulerAngles() (pitch, yaw float32)

	// SetEulerAngles replaces the orientation and marks the view dirty. Pitch is clamped to the
	// camera's pitch limit.
	//
	// Parameters:
	//   - pitch: rotation about the right axis in radians
	//   - yaw: rotation about world-up in radians
	SetEulerAngles(pitch, yaw float32)

	// WorldUp returns the fixed world-up axis.
	//
	// Returns:
	//   - mgl32.Vec3: the unit up axis
	WorldUp() mgl32.Vec3

	// PitchLimit returns the half-width of the pitch clamp band.
	//
	// Returns:
	//   - float32: the limit in radians
	PitchLimit() float32

	// Dirty reports whether the cached view matrix is stale.
	//
	// Returns:
	//   - bool: true if the next ViewMatrix call recomputes
	Dirty() bool

	// ViewMatrix returns the world-to-view matrix, recomputing it only when dirty.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// Forward returns the viewing direction read from the current view matrix.
	//
	// Returns:
	//   - mgl32.Vec3: the unit forward axis
	Forward() mgl32.Vec3

	// Right returns the camera's right axis read from the current view matrix.
	//
	// Returns:
	//   - mgl32.Vec3: the unit right axis
	Right() mgl32.Vec3

	// Up returns the camera's local up axis read from the current view matrix.
	//
	// Returns:
	//   - mgl32.Vec3: the unit up axis
	Up() mgl32.Vec3

	// MoveForward moves the camera along its forward axis.
	//
	// Parameters:
	//   - amount: distance in world units
	MoveForward(amount float32)

	// MoveBackward moves the camera against its forward axis.
	//
	// Parameters:
	//   - amount: distance in world units
	MoveBackward(amount float32)

	// MoveLeft moves the camera against its right axis.
	//
	// Parameters:
	//   - amount: distance in world units
	MoveLeft(amount float32)

	// MoveRight moves the camera along its right axis.
	//
	// Parameters:
	//   - amount: distance in world units
	MoveRight(amount float32)

	// MoveUp moves the camera along world-up, so vertical motion stays level regardless of pitch.
	//
	// Parameters:
	//   - amount: distance in world units
	MoveUp(amount float32)

	// MoveDown moves the camera against world-up.
	//
	// Parameters:
	//   - amount: distance in world units
	MoveDown(amount float32)

	// RotateYaw adds amount to yaw. Yaw is not clamped.
	//
	// Parameters:
	//   - amount: radians, positive turns left
	RotateYaw(amount float32)

	// RotatePitch adds amount to pitch and clamps the result to [-PitchLimit, +PitchLimit].
	//
	// Parameters:
	//   - amount: radians, positive looks up
	RotatePitch(amount float32)

	// ApplyMouseDelta updates orientation from screen-space cursor movement. dx > 0 is a move to
	// the right and dy > 0 a move down; each axis is scaled by its own sensitivity. Pitch is
	// clamped to MousePitchLimit.
	//
	// Parameters:
	//   - dx: horizontal movement in pixels
	//   - dy: vertical movement in pixels
	ApplyMouseDelta(dx, dy float32)

	// Reset restores the origin and zero rotation. The view returns to the at-rest LookAt, which is
	// the identity for the default +Y world up; a custom world up keeps its rotated rest frame.
	Reset()

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// SetFov sets the field of view in radians.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height).
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// ProjectionMatrix returns the perspective projection with WebGPU [0, 1] depth.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns Projection · View.
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Frustum returns the world-space view frustum for visibility tests.
	//
	// Returns:
	//   - common.Frustum: the frustum extracted from the view-projection matrix
	Frustum() common.Frustum

	// Uniform packs the view-projection matrix and eye position for GPU upload.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform block
	Uniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates an Euler-driven Camera at the origin with zero rotation. The camera starts
// dirty; with the default +Y up its first view read is the identity.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	return newCamera(options...)
}

// NewLookAtCamera creates a Camera at position looking at target. The basis is derived as
// forward = normalize(target - position), right = normalize(forward × worldUp), and
// up = normalize(right × forward), then converted to the equivalent pitch and yaw.
// A target that coincides with position keeps the rest orientation. The explicit worldUp
// overrides any WithWorldUp option.
//
// Parameters:
//   - position: the eye position
//   - target: the point to look at
//   - worldUp: the fixed up axis for this camera
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewLookAtCamera(position, target, worldUp mgl32.Vec3, options ...CameraBuilderOption) Camera {
	c := newCamera(options...)
	c.setWorldUp(worldUp)
	c.position = position

	forward, _, _, ok := lookAtBasis(position, target, c.worldUp)
	if ok {
		c.pitch = common.ClampAbs(float32(math.Asin(float64(mgl32.Clamp(forward.Dot(c.worldUp), -1, 1)))), c.pitchLimit)
		c.yaw = float32(math.Atan2(float64(-forward.Dot(c.refRight)), float64(forward.Dot(c.refForward))))
	}
	c.dirty = true
	return c
}

func newCamera(options ...CameraBuilderOption) *cameraImpl {
	c := &cameraImpl{
		mu:           &sync.Mutex{},
		worldUp:      common.WorldUp,
		pitchLimit:   DefaultPitchLimit,
		sensitivityX: DefaultMouseSensitivity,
		sensitivityY: DefaultMouseSensitivity,
		view:         mgl32.Ident4(),
		dirty:        true,
		fov:          45.0 * (math.Pi / 180.0),
		aspect:       1.0,
		near:         0.1,
		far:          100.0,
		projDirty:    true,
	}
	for _, option := range options {
		option(c)
	}
	c.setWorldUp(c.worldUp)
	c.pitch = common.ClampAbs(c.pitch, c.pitchLimit)
	return c
}

// lookAtBasis derives the orthonormal right-handed frame of an eye looking at target.
// ok is false when target coincides with position or the view direction is parallel to up.
func lookAtBasis(position, target, up mgl32.Vec3) (forward, right, camUp mgl32.Vec3, ok bool) {
	d := target.Sub(position)
	if d.Len() < 1e-6 {
		return forward, right, camUp, false
	}
	forward = d.Normalize()
	r := forward.Cross(up)
	if r.Len() < 1e-6 {
		return forward, right, camUp, true
	}
	right = r.Normalize()
	camUp = right.Cross(forward).Normalize()
	return forward, right, camUp, true
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
	c.dirty = true
}

func (c *cameraImpl) EulerAngles() (pitch, yaw float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pitch, c.yaw
}

func (c *cameraImpl) SetEulerAngles(pitch, yaw float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pitch = common.ClampAbs(pitch, c.pitchLimit)
	c.yaw = yaw
	c.dirty = true
}

func (c *cameraImpl) WorldUp() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.worldUp
}

func (c *cameraImpl) PitchLimit() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pitchLimit
}

func (c *cameraImpl) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _, f := common.ViewBasis(c.viewLocked())
	return f
}

func (c *cameraImpl) Right() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, _, _ := common.ViewBasis(c.viewLocked())
	return r
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, u, _ := common.ViewBasis(c.viewLocked())
	return u
}

func (c *cameraImpl) MoveForward(amount float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _, f := common.ViewBasis(c.viewLocked())
	c.moveLocked(f, amount)
}

func (c *cameraImpl) MoveBackward(amount float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _, f := common.ViewBasis(c.viewLocked())
	c.moveLocked(f, -amount)
}

func (c *cameraImpl) MoveLeft(amount float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, _, _ := common.ViewBasis(c.viewLocked())
	c.moveLocked(r, -amount)
}

func (c *cameraImpl) MoveRight(amount float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, _, _ := common.ViewBasis(c.viewLocked())
	c.moveLocked(r, amount)
}

func (c *cameraImpl) MoveUp(amount float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveLocked(c.worldUp, amount)
}

func (c *cameraImpl) MoveDown(amount float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveLocked(c.worldUp, -amount)
}

func (c *cameraImpl) RotateYaw(amount float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw += amount
	c.dirty = true
}

func (c *cameraImpl) RotatePitch(amount float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pitch = common.ClampAbs(c.pitch+amount, c.pitchLimit)
	c.dirty = true
}

func (c *cameraImpl) ApplyMouseDelta(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw -= dx * c.sensitivityX
	// Horizontal-only motion leaves a keyboard pitch beyond the mouse limit alone.
	if dy != 0 {
		c.pitch = common.ClampAbs(c.pitch-dy*c.sensitivityY, min(MousePitchLimit, c.pitchLimit))
	}
	c.dirty = true
}

func (c *cameraImpl) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = mgl32.Vec3{}
	c.pitch = 0
	c.yaw = 0
	c.view = mgl32.Ident4()
	c.dirty = true
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.projDirty = true
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.projDirty = true
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.projDirty = true
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.projDirty = true
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionLocked()
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionLocked().Mul4(c.viewLocked())
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.ExtractFrustum(c.projectionLocked().Mul4(c.viewLocked()))
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       [16]float32(c.projectionLocked().Mul4(c.viewLocked())),
		CameraPosition: [3]float32(c.position),
	}
}

// setWorldUp normalizes up and derives the rest frame spanning the plane orthogonal to it.
// The rest forward is -Z projected onto that plane, or +Y when up is parallel to Z.
// Caller must hold the mutex or own the camera exclusively.
func (c *cameraImpl) setWorldUp(up mgl32.Vec3) {
	if up.Len() < 1e-6 {
		up = common.WorldUp
	}
	c.worldUp = up.Normalize()

	f := mgl32.Vec3{0, 0, -1}
	f = f.Sub(c.worldUp.Mul(f.Dot(c.worldUp)))
	if f.Len() < 1e-6 {
		f = mgl32.Vec3{0, 1, 0}
		f = f.Sub(c.worldUp.Mul(f.Dot(c.worldUp)))
	}
	c.refForward = f.Normalize()
	c.refRight = c.refForward.Cross(c.worldUp).Normalize()
	c.dirty = true
}

// forwardLocked returns the unit viewing direction for the current pitch and yaw.
// Caller must hold the mutex.
func (c *cameraImpl) forwardLocked() mgl32.Vec3 {
	sp, cp := math.Sincos(float64(c.pitch))
	sy, cy := math.Sincos(float64(c.yaw))
	horizontal := c.refForward.Mul(float32(cy)).Sub(c.refRight.Mul(float32(sy)))
	return horizontal.Mul(float32(cp)).Add(c.worldUp.Mul(float32(sp)))
}

// viewLocked returns the cached view matrix, recomputing it when dirty.
// Caller must hold the mutex.
func (c *cameraImpl) viewLocked() mgl32.Mat4 {
	if !c.dirty {
		return c.view
	}
	c.view = mgl32.LookAtV(c.position, c.position.Add(c.forwardLocked()), c.worldUp)
	c.dirty = false
	return c.view
}

// projectionLocked returns the cached projection matrix, recomputing it when dirty.
// Caller must hold the mutex.
func (c *cameraImpl) projectionLocked() mgl32.Mat4 {
	if !c.projDirty {
		return c.projection
	}
	c.projection = common.Perspective(c.fov, c.aspect, c.near, c.far)
	c.projDirty = false
	return c.projection
}

// moveLocked offsets the position by dir · amount and marks the view dirty.
// Caller must hold the mutex.
func (c *cameraImpl) moveLocked(dir mgl32.Vec3, amount float32) {
	c.position = c.position.Add(dir.Mul(amount))
	c.dirty = true
}
