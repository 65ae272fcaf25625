package material

import (
	"math"

	"github.com/df07/go-photon-mapper/pkg/core"
)

// Lambert represents a perfectly diffuse surface. It scatters on whichever
// side wo arrives from.
type Lambert struct {
	Rho core.Vec3 // Reflectance
}

// NewLambert creates a new lambert BxDF
func NewLambert(rho core.Vec3) *Lambert {
	return &Lambert{Rho: rho}
}

func (l *Lambert) Type() BxDFType {
	return Diffuse
}

// Evaluate returns rho/π for directions on the same side of the surface
func (l *Lambert) Evaluate(wo, wi core.Vec3) core.Vec3 {
	if !sameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	return l.Rho.Multiply(1.0 / math.Pi)
}

// SampleDirection samples a cosine-weighted direction on wo's side
func (l *Lambert) SampleDirection(wo core.Vec3, sampler core.Sampler) (core.Vec3, core.Vec3, float64) {
	wi, pdf := core.SampleCosineHemisphere(sampler.Get2D())
	if wo.Y < 0 {
		wi.Y = -wi.Y
	}
	return l.Evaluate(wo, wi), wi, pdf
}

// SampleAllDirections returns nil: a diffuse surface has no discrete directions
func (l *Lambert) SampleAllDirections(wo core.Vec3) []DirectionPair {
	return nil
}
