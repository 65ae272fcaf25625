package lights

import "github.com/df07/go-photon-mapper/pkg/core"

type LightType string

const (
	LightTypeArea LightType = "area"
)

// Light interface for emitters that photons can be traced from
type Light interface {
	Type() LightType

	// SamplePoint samples a point on the light surface.
	// Returns the surface and its density with respect to area.
	SamplePoint(sampler core.Sampler) (core.SurfaceInfo, float64)

	// SampleDirection samples an emission direction leaving surf.
	// Returns the world-space direction and its solid-angle density.
	SampleDirection(surf core.SurfaceInfo, sampler core.Sampler) (core.Vec3, float64)

	// Le returns the radiance emitted from surf along dir
	Le(surf core.SurfaceInfo, dir core.Vec3) core.Vec3

	// Power returns the total emitted flux, for power-weighted light selection
	Power() core.Vec3
}

// LightSampler interface for different light selection strategies
type LightSampler interface {
	// SampleLight selects a light and returns the light, its selection probability and its index
	SampleLight(u float64) (Light, float64, int)

	// Probability returns the selection probability of the light at lightIndex
	Probability(lightIndex int) float64

	// Count returns the number of lights in this sampler
	Count() int
}
