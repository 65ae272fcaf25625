package lights

import (
	"math"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/geometry"
)

// AreaLight emits constant radiance from the front face of a shape
type AreaLight struct {
	Emission core.Vec3            // Radiance leaving the front face
	Shape    geometry.AreaSampler // Emitting surface
}

// NewAreaLight creates a new area light over shape
func NewAreaLight(emission core.Vec3, shape geometry.AreaSampler) *AreaLight {
	return &AreaLight{Emission: emission, Shape: shape}
}

func (al *AreaLight) Type() LightType {
	return LightTypeArea
}

// SamplePoint samples the shape uniformly by area
func (al *AreaLight) SamplePoint(sampler core.Sampler) (core.SurfaceInfo, float64) {
	return al.Shape.SamplePoint(sampler)
}

// SampleDirection samples a cosine-weighted direction around the surface normal
func (al *AreaLight) SampleDirection(surf core.SurfaceInfo, sampler core.Sampler) (core.Vec3, float64) {
	local, pdf := core.SampleCosineHemisphere(sampler.Get2D())
	return surf.LocalToWorld(local), pdf
}

// Le returns the emission for directions leaving the front face, zero otherwise
func (al *AreaLight) Le(surf core.SurfaceInfo, dir core.Vec3) core.Vec3 {
	if dir.Dot(surf.Normal) <= 0 {
		return core.Vec3{}
	}
	return al.Emission
}

// Power returns π * area * Le
func (al *AreaLight) Power() core.Vec3 {
	return al.Emission.Multiply(math.Pi * al.Shape.Area())
}
