package geometry

import (
	"github.com/df07/go-photon-mapper/pkg/core"
)

// Hit is the result of a successful ray-shape intersection
type Hit struct {
	T       float64          // Ray parameter of the hit
	Surface core.SurfaceInfo // Position and local frame at the hit
}

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (Hit, bool)
	BoundingBox() core.AABB
}

// AreaSampler is a shape that can be sampled uniformly by area, which is
// what an area light needs to emit from it.
type AreaSampler interface {
	Shape

	// Area returns the surface area of the shape
	Area() float64

	// SamplePoint returns a uniformly distributed surface point and its
	// density with respect to area (1/Area for uniform sampling)
	SamplePoint(sampler core.Sampler) (core.SurfaceInfo, float64)
}

// flatBoxPadding thickens the bounding boxes of planar shapes
const flatBoxPadding = 1e-6
