package core

import "math"

// SurfaceInfo describes a point on a surface together with its local
// shading frame. The frame is right-handed with x = Dpdu, y = Normal and
// z = Dpdv, so in local space the normal is always (0, 1, 0).
type SurfaceInfo struct {
	Position Vec3 // Point on the surface
	Normal   Vec3 // Geometric outward normal (unit length)
	Dpdu     Vec3 // First tangent (unit length)
	Dpdv     Vec3 // Second tangent (unit length)
}

// NewSurfaceInfo builds a SurfaceInfo whose tangents are derived from the normal
func NewSurfaceInfo(position, normal Vec3) SurfaceInfo {
	n := normal.Normalize()
	dpdu, dpdv := OrthonormalBasis(n)
	return SurfaceInfo{
		Position: position,
		Normal:   n,
		Dpdu:     dpdu,
		Dpdv:     dpdv,
	}
}

// WorldToLocal expresses a world-space direction in the surface frame
func (s SurfaceInfo) WorldToLocal(v Vec3) Vec3 {
	return WorldToLocal(v, s.Dpdu, s.Normal, s.Dpdv)
}

// LocalToWorld maps a direction from the surface frame back to world space
func (s SurfaceInfo) LocalToWorld(v Vec3) Vec3 {
	return LocalToWorld(v, s.Dpdu, s.Normal, s.Dpdv)
}

// OrthonormalBasis returns two unit tangents (t, b) such that (t, n, b)
// forms a right-handed orthonormal frame: t × n = b.
func OrthonormalBasis(n Vec3) (Vec3, Vec3) {
	var t Vec3
	if math.Abs(n.Y) < 0.9 {
		t = n.Cross(NewVec3(0, 1, 0)).Normalize()
	} else {
		t = n.Cross(NewVec3(0, 0, -1)).Normalize()
	}
	b := t.Cross(n).Normalize()
	return t, b
}

// WorldToLocal projects v onto the frame axes (lx, ly, lz)
func WorldToLocal(v, lx, ly, lz Vec3) Vec3 {
	return Vec3{X: v.Dot(lx), Y: v.Dot(ly), Z: v.Dot(lz)}
}

// LocalToWorld is the inverse of WorldToLocal for an orthonormal frame
func LocalToWorld(v, lx, ly, lz Vec3) Vec3 {
	return lx.Multiply(v.X).Add(ly.Multiply(v.Y)).Add(lz.Multiply(v.Z))
}

// SphericalToCartesian converts polar angle theta (measured from +Y) and
// azimuth phi into a unit direction in the y-up local frame.
func SphericalToCartesian(theta, phi float64) Vec3 {
	sinTheta := math.Sin(theta)
	return Vec3{
		X: math.Cos(phi) * sinTheta,
		Y: math.Cos(theta),
		Z: math.Sin(phi) * sinTheta,
	}
}

// CosTheta returns the cosine of the angle between a local direction and the normal
func CosTheta(w Vec3) float64 {
	return w.Y
}

// AbsCosTheta returns |cos θ| of a local direction
func AbsCosTheta(w Vec3) float64 {
	return math.Abs(w.Y)
}
