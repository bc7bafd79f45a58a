package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane is the half-space n·p + d >= 0. Normal is unit length once extracted.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// Frustum holds the six inward-facing planes of a view volume.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// ExtractFrustum extracts the view frustum from a Projection · View matrix using the
// Gribb/Hartmann method. The near plane assumes WebGPU clip depth [0, 1], matching Perspective.
//
// Parameters:
//   - viewProj: the combined view-projection matrix
//
// Returns:
//   - Frustum: the frustum with normalized planes
func ExtractFrustum(viewProj mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)

	var f Frustum
	f.Planes[FrustumLeft] = planeFromRow(r3.Add(r0))
	f.Planes[FrustumRight] = planeFromRow(r3.Sub(r0))
	f.Planes[FrustumBottom] = planeFromRow(r3.Add(r1))
	f.Planes[FrustumTop] = planeFromRow(r3.Sub(r1))
	f.Planes[FrustumNear] = planeFromRow(r2)
	f.Planes[FrustumFar] = planeFromRow(r3.Sub(r2))
	return f
}

// ContainsPoint reports whether p lies inside or on every plane.
//
// Parameters:
//   - p: the world-space point
//
// Returns:
//   - bool: true if the point is inside the frustum
func (f Frustum) ContainsPoint(p mgl32.Vec3) bool {
	return f.IntersectsSphere(p, 0)
}

// IntersectsSphere reports whether a sphere is at least partly inside the frustum.
// Conservative near the frustum corners.
//
// Parameters:
//   - center: the sphere center in world space
//   - radius: the sphere radius
//
// Returns:
//   - bool: false only when the sphere is fully outside some plane
func (f Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for _, pl := range f.Planes {
		if pl.Normal.Dot(center)+pl.Distance < -radius {
			return false
		}
	}
	return true
}

func planeFromRow(r mgl32.Vec4) Plane {
	p := Plane{Normal: r.Vec3(), Distance: r[3]}
	if l := p.Normal.Len(); l > 0 {
		p.Normal = p.Normal.Mul(1 / l)
		p.Distance /= l
	}
	return p
}
