package material

import (
	"math"

	"github.com/df07/go-photon-mapper/pkg/core"
)

// Glass is a smooth dielectric that reflects or refracts. The side wo lies on
// (sign of wo.Y against the outward normal) decides whether light enters or leaves.
type Glass struct {
	Tint core.Vec3 // Color applied to both lobes (1,1,1 for clear glass)
	IOR  float64   // Index of refraction (e.g., 1.5 for glass)
}

// NewGlass creates a new glass BxDF
func NewGlass(tint core.Vec3, ior float64) *Glass {
	return &Glass{Tint: tint, IOR: ior}
}

func (g *Glass) Type() BxDFType {
	return Specular
}

// Evaluate is zero: both lobes are delta distributions
func (g *Glass) Evaluate(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// SampleDirection picks reflection with probability equal to the Fresnel
// reflectance and refraction otherwise
func (g *Glass) SampleDirection(wo core.Vec3, sampler core.Sampler) (core.Vec3, core.Vec3, float64) {
	fresnel, refracted, ok := g.split(wo)

	if !ok || sampler.Get1D() < fresnel {
		wi := reflect(wo)
		cos := core.AbsCosTheta(wi)
		if cos == 0 {
			return core.Vec3{}, wi, 0
		}
		pdf := 1.0
		if ok {
			pdf = fresnel
		}
		return g.Tint.Multiply(pdf / cos), wi, pdf
	}

	cos := core.AbsCosTheta(refracted)
	if cos == 0 {
		return core.Vec3{}, refracted, 0
	}
	pdf := 1.0 - fresnel
	return g.Tint.Multiply(pdf / cos), refracted, pdf
}

func (g *Glass) SampleAllDirections(wo core.Vec3) []DirectionPair {
	fresnel, refracted, ok := g.split(wo)
	if !ok {
		return []DirectionPair{{Direction: reflect(wo), Weight: g.Tint}}
	}
	return []DirectionPair{
		{Direction: reflect(wo), Weight: g.Tint.Multiply(fresnel)},
		{Direction: refracted, Weight: g.Tint.Multiply(1.0 - fresnel)},
	}
}

// split returns the Fresnel reflectance and the refracted direction for wo.
// ok is false on total internal reflection.
func (g *Glass) split(wo core.Vec3) (float64, core.Vec3, bool) {
	entering := wo.Y > 0
	eta := 1.0 / g.IOR // Ratio of indices etaI / etaT
	normal := core.NewVec3(0, 1, 0)
	if !entering {
		eta = g.IOR
		normal = normal.Negate()
	}

	cosI := core.AbsCosTheta(wo)
	sin2T := eta * eta * math.Max(0, 1.0-cosI*cosI)
	if sin2T >= 1.0 {
		return 1.0, core.Vec3{}, false
	}
	cosT := math.Sqrt(1.0 - sin2T)

	refracted := wo.Multiply(-eta).Add(normal.Multiply(eta*cosI - cosT))
	return Reflectance(cosI, eta), refracted.Normalize(), true
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
