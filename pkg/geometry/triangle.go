package geometry

import (
	"github.com/df07/go-photon-mapper/pkg/core"
)

// Triangle represents a single triangle defined by three vertices.
// The outward normal follows the winding: (V1-V0) × (V2-V0).
type Triangle struct {
	V0, V1, V2 core.Vec3 // The three vertices
	normal     core.Vec3 // Cached normal vector
	dpdu, dpdv core.Vec3 // Cached tangent frame
	area       float64
	bbox       core.AABB // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3) *Triangle {
	cross := v1.Subtract(v0).Cross(v2.Subtract(v0))
	normal := cross.Normalize()
	dpdu, dpdv := core.OrthonormalBasis(normal)

	return &Triangle{
		V0:     v0,
		V1:     v1,
		V2:     v2,
		normal: normal,
		dpdu:   dpdu,
		dpdv:   dpdv,
		area:   0.5 * cross.Length(),
		bbox:   core.NewAABBFromPoints(v0, v1, v2).Expand(flatBoxPadding),
	}
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	const epsilon = 1e-12

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle
	if a > -epsilon && a < epsilon {
		return Hit{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return Hit{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return Hit{}, false
	}

	tParam := f * edge2.Dot(q)
	if tParam < tMin || tParam > tMax {
		return Hit{}, false
	}

	return Hit{T: tParam, Surface: t.surfaceAt(ray.At(tParam))}, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Normal returns the triangle's normal vector
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Area returns the triangle's surface area
func (t *Triangle) Area() float64 {
	return t.area
}

// SamplePoint samples a point uniformly on the triangle
func (t *Triangle) SamplePoint(sampler core.Sampler) (core.SurfaceInfo, float64) {
	b1, b2 := core.SampleTriangleBarycentric(sampler.Get2D())
	point := t.V0.Multiply(1.0 - b1 - b2).Add(t.V1.Multiply(b1)).Add(t.V2.Multiply(b2))
	return t.surfaceAt(point), 1.0 / t.area
}

func (t *Triangle) surfaceAt(point core.Vec3) core.SurfaceInfo {
	return core.SurfaceInfo{
		Position: point,
		Normal:   t.normal,
		Dpdu:     t.dpdu,
		Dpdv:     t.dpdv,
	}
}
