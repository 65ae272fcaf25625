package material

import (
	"github.com/df07/go-photon-mapper/pkg/core"
)

// Mirror is a perfect specular reflector
type Mirror struct {
	Rho core.Vec3 // Reflectance
}

// NewMirror creates a new mirror BxDF
func NewMirror(rho core.Vec3) *Mirror {
	return &Mirror{Rho: rho}
}

func (m *Mirror) Type() BxDFType {
	return Specular
}

// Evaluate is zero: the mirror is a delta distribution
func (m *Mirror) Evaluate(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// SampleDirection returns the mirror direction with f = rho/|cos| and pdf 1
func (m *Mirror) SampleDirection(wo core.Vec3, sampler core.Sampler) (core.Vec3, core.Vec3, float64) {
	wi := reflect(wo)
	cos := core.AbsCosTheta(wi)
	if cos == 0 {
		return core.Vec3{}, wi, 0
	}
	return m.Rho.Multiply(1.0 / cos), wi, 1.0
}

func (m *Mirror) SampleAllDirections(wo core.Vec3) []DirectionPair {
	return []DirectionPair{{Direction: reflect(wo), Weight: m.Rho}}
}
