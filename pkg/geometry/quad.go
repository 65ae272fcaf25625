package geometry

import (
	"math"

	"github.com/df07/go-photon-mapper/pkg/core"
)

// Quad represents a parallelogram defined by a corner and two edge vectors.
// Its outward normal is U × V.
type Quad struct {
	Corner core.Vec3 // One corner of the quad
	U      core.Vec3 // First edge vector
	V      core.Vec3 // Second edge vector
	Normal core.Vec3 // Normal vector (computed from U × V)
	D      float64   // Plane equation constant: n · p = d
	W      core.Vec3 // Cached n / (n · (u × v)) for planar coordinates
	area   float64
	dpdu   core.Vec3
	dpdv   core.Vec3
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()
	dpdu, dpdv := core.OrthonormalBasis(normal)

	return &Quad{
		Corner: corner,
		U:      u,
		V:      v,
		Normal: normal,
		D:      normal.Dot(corner),
		W:      normal.Multiply(1.0 / normal.Dot(cross)),
		area:   cross.Length(),
		dpdu:   dpdu,
		dpdv:   dpdv,
	}
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	denominator := ray.Direction.Dot(q.Normal)

	// Ray parallel to the plane
	if math.Abs(denominator) < 1e-12 {
		return Hit{}, false
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return Hit{}, false
	}

	hitPoint := ray.At(t)
	hitVector := hitPoint.Subtract(q.Corner)

	// Planar coordinates of the hit relative to the edges
	alpha := q.W.Dot(hitVector.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return Hit{}, false
	}

	return Hit{T: t, Surface: q.surfaceAt(hitPoint)}, true
}

// BoundingBox returns the axis-aligned bounding box for this quad
func (q *Quad) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	).Expand(flatBoxPadding)
}

// Area returns |U × V|
func (q *Quad) Area() float64 {
	return q.area
}

// SamplePoint samples a point uniformly on the quad
func (q *Quad) SamplePoint(sampler core.Sampler) (core.SurfaceInfo, float64) {
	sample := sampler.Get2D()
	point := q.Corner.Add(q.U.Multiply(sample.X)).Add(q.V.Multiply(sample.Y))
	return q.surfaceAt(point), 1.0 / q.area
}

func (q *Quad) surfaceAt(point core.Vec3) core.SurfaceInfo {
	return core.SurfaceInfo{
		Position: point,
		Normal:   q.Normal,
		Dpdu:     q.dpdu,
		Dpdv:     q.dpdv,
	}
}
