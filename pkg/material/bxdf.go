package material

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/df07/go-photon-mapper/pkg/core"
)

// BxDFType classifies how a surface scatters light. Photons are only
// deposited on Diffuse surfaces.
type BxDFType int

const (
	Diffuse BxDFType = iota
	Specular
	Glossy
)

var bxdfTypeNames = map[BxDFType]string{
	Diffuse:  "diffuse",
	Specular: "specular",
	Glossy:   "glossy",
}

var bxdfTypesByName = lo.Invert(bxdfTypeNames)

func (t BxDFType) String() string {
	if name, ok := bxdfTypeNames[t]; ok {
		return name
	}
	return "invalid"
}

// ParseBxDFType looks up a BxDF type by its name
func ParseBxDFType(name string) (BxDFType, error) {
	t, ok := bxdfTypesByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown bxdf type %q", name)
	}
	return t, nil
}

// DirectionPair is one discrete scattering direction together with the
// throughput weight carried along it
type DirectionPair struct {
	Direction core.Vec3
	Weight    core.Vec3
}

// BxDF is a scattering model expressed in the local shading frame, where the
// surface normal is +Y. All directions point away from the surface.
type BxDF interface {
	// Type returns the scattering class of this BxDF
	Type() BxDFType

	// Evaluate returns f(wo, wi). Delta distributions evaluate to zero.
	Evaluate(wo, wi core.Vec3) core.Vec3

	// SampleDirection samples wi given wo and returns (f, wi, pdf).
	// Callers weight by f * |cos(wi)| / pdf.
	SampleDirection(wo core.Vec3, sampler core.Sampler) (core.Vec3, core.Vec3, float64)

	// SampleAllDirections returns every discrete direction this BxDF can
	// scatter wo into. Non-delta BxDFs may return nil.
	SampleAllDirections(wo core.Vec3) []DirectionPair
}

// reflect mirrors w about the local normal (+Y)
func reflect(w core.Vec3) core.Vec3 {
	return core.NewVec3(-w.X, w.Y, -w.Z)
}

// sameHemisphere reports whether both directions lie on the same side of the surface
func sameHemisphere(a, b core.Vec3) bool {
	return a.Y*b.Y > 0
}
