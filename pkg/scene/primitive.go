package scene

import (
	"errors"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/geometry"
	"github.com/df07/go-photon-mapper/pkg/lights"
	"github.com/df07/go-photon-mapper/pkg/material"
)

// ErrNoAreaLight is returned when emission is requested from a primitive
// that has no area light attached
var ErrNoAreaLight = errors.New("primitive has no area light")

// Primitive binds a shape to its BxDF and an optional area light. It is the
// surface shading adapter: callers work in world space and the BxDF works in
// the local frame of the hit (x = dpdu, y = normal, z = dpdv).
type Primitive struct {
	Shape     geometry.Shape
	BxDF      material.BxDF
	AreaLight lights.Light // nil unless the surface emits
}

// NewPrimitive creates a new primitive. areaLight may be nil.
func NewPrimitive(shape geometry.Shape, bxdf material.BxDF, areaLight lights.Light) *Primitive {
	return &Primitive{Shape: shape, BxDF: bxdf, AreaLight: areaLight}
}

// HasAreaLight reports whether the primitive emits light
func (p *Primitive) HasAreaLight() bool {
	return p.AreaLight != nil
}

// EmittedRadiance returns the radiance leaving surf along dir
func (p *Primitive) EmittedRadiance(surf core.SurfaceInfo, dir core.Vec3) (core.Vec3, error) {
	if p.AreaLight == nil {
		return core.Vec3{}, ErrNoAreaLight
	}
	return p.AreaLight.Le(surf, dir), nil
}

func (p *Primitive) BxDFType() material.BxDFType {
	return p.BxDF.Type()
}

// EvaluateBxDF evaluates f(wo, wi) for world-space directions at surf
func (p *Primitive) EvaluateBxDF(wo, wi core.Vec3, surf core.SurfaceInfo) core.Vec3 {
	return p.BxDF.Evaluate(surf.WorldToLocal(wo), surf.WorldToLocal(wi))
}

// SampleBxDF samples an incident direction for the world-space outgoing direction wo.
// Returns (f, wi, pdf) with wi in world space; callers divide by pdf.
func (p *Primitive) SampleBxDF(wo core.Vec3, surf core.SurfaceInfo, sampler core.Sampler) (core.Vec3, core.Vec3, float64) {
	f, wiLocal, pdf := p.BxDF.SampleDirection(surf.WorldToLocal(wo), sampler)
	return f, surf.LocalToWorld(wiLocal), pdf
}

// SampleAllBxDF returns every discrete direction of the BxDF in world space
func (p *Primitive) SampleAllBxDF(wo core.Vec3, surf core.SurfaceInfo) []material.DirectionPair {
	pairs := p.BxDF.SampleAllDirections(surf.WorldToLocal(wo))
	for i := range pairs {
		pairs[i].Direction = surf.LocalToWorld(pairs[i].Direction)
	}
	return pairs
}
