package material

import (
	"math"

	"github.com/df07/go-photon-mapper/pkg/core"
)

// Phong is a normalized Phong lobe around the mirror direction
type Phong struct {
	Ks       core.Vec3 // Specular reflectance
	Exponent float64   // Lobe sharpness
}

// NewPhong creates a new phong BxDF. Negative exponents are clamped to zero.
func NewPhong(ks core.Vec3, exponent float64) *Phong {
	return &Phong{Ks: ks, Exponent: math.Max(0, exponent)}
}

func (p *Phong) Type() BxDFType {
	return Glossy
}

func (p *Phong) Evaluate(wo, wi core.Vec3) core.Vec3 {
	if !sameHemisphere(wo, wi) {
		return core.Vec3{}
	}
	cosAlpha := wi.Dot(reflect(wo))
	if cosAlpha <= 0 {
		return core.Vec3{}
	}
	return p.Ks.Multiply((p.Exponent + 2) / (2 * math.Pi) * math.Pow(cosAlpha, p.Exponent))
}

// lobePDF is the density of sampling wi around the mirror direction of wo
func (p *Phong) lobePDF(wo, wi core.Vec3) float64 {
	cosAlpha := wi.Dot(reflect(wo))
	if cosAlpha <= 0 {
		return 0
	}
	return (p.Exponent + 1) / (2 * math.Pi) * math.Pow(cosAlpha, p.Exponent)
}

// SampleDirection samples the lobe around the mirror direction. Samples that
// fall through the surface return pdf 0.
func (p *Phong) SampleDirection(wo core.Vec3, sampler core.Sampler) (core.Vec3, core.Vec3, float64) {
	sample := sampler.Get2D()
	cosAlpha := math.Pow(sample.X, 1.0/(p.Exponent+1))
	phi := 2 * math.Pi * sample.Y

	r := reflect(wo)
	t, b := core.OrthonormalBasis(r)
	wi := core.LocalToWorld(core.SphericalToCartesian(math.Acos(cosAlpha), phi), t, r, b)

	if !sameHemisphere(wo, wi) {
		return core.Vec3{}, wi, 0
	}
	return p.Evaluate(wo, wi), wi, p.lobePDF(wo, wi)
}

// SampleAllDirections returns the lobe peak only
func (p *Phong) SampleAllDirections(wo core.Vec3) []DirectionPair {
	return []DirectionPair{{Direction: reflect(wo), Weight: p.Ks}}
}
