package integrator

import (
	"fmt"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/material"
	"github.com/df07/go-photon-mapper/pkg/scene"
)

// PathTracing is a unidirectional path tracer with next event estimation.
// It serves as the reference estimator for scenes used with photon mapping.
type PathTracing struct {
	config PathTracingConfig
	built  bool
}

// NewPathTracing creates a new path tracing integrator
func NewPathTracing(config PathTracingConfig) *PathTracing {
	return &PathTracing{config: config}
}

// Build validates the configuration and the scene. No preprocessing is needed.
func (pt *PathTracing) Build(s *scene.Scene, sampler core.Sampler) error {
	if pt.built {
		return ErrAlreadyBuilt
	}
	if err := pt.config.Validate(); err != nil {
		return err
	}
	if s == nil || len(s.Lights) == 0 {
		return fmt.Errorf("%w: path tracing needs at least one area light", ErrNoLights)
	}
	pt.built = true
	return nil
}

// Integrate estimates the radiance arriving along ray
func (pt *PathTracing) Integrate(ray core.Ray, s *scene.Scene, sampler core.Sampler) (core.Vec3, error) {
	if !pt.built {
		return core.Vec3{}, ErrNotBuilt
	}

	radiance := core.Vec3{}
	throughput := core.NewVec3(1, 1, 1)
	specularBounce := true

	for depth := 0; depth < pt.config.MaxDepth; depth++ {
		hit, ok := s.Intersect(ray)
		if !ok {
			break
		}

		prim := hit.Primitive
		surf := hit.SurfaceInfo
		wo := ray.Direction.Negate()

		// Emission already counted by next event estimation is skipped
		if prim.HasAreaLight() && specularBounce {
			le, err := prim.EmittedRadiance(surf, wo)
			if err != nil {
				return core.Vec3{}, err
			}
			radiance = radiance.Add(throughput.MultiplyVec(le))
		}

		specularBounce = prim.BxDFType() == material.Specular
		if !specularBounce {
			radiance = radiance.Add(throughput.MultiplyVec(pt.directLight(s, prim, surf, wo, sampler)))
		}

		if depth >= pt.config.RussianRouletteMinBounces {
			var survived bool
			if throughput, survived = russianRoulette(throughput, sampler.Get1D()); !survived {
				break
			}
		}

		f, wi, pdf := prim.SampleBxDF(wo, surf, sampler)
		if !usablePDF(pdf) || !usableDirection(wi) {
			break
		}
		throughput = throughput.MultiplyVec(f).Multiply(wi.AbsDot(surf.Normal) / pdf)
		if !usableThroughput(throughput) {
			break
		}

		ray = core.NewRay(surf.Position, wi)
	}

	return radiance, nil
}

// directLight samples one point on one light and returns its unoccluded
// contribution at surf
func (pt *PathTracing) directLight(s *scene.Scene, prim *scene.Primitive, surf core.SurfaceInfo, wo core.Vec3, sampler core.Sampler) core.Vec3 {
	light, lightPdf := s.SampleLight(sampler)
	if light == nil || !usablePDF(lightPdf) {
		return core.Vec3{}
	}
	lightSurf, positionPdf := light.SamplePoint(sampler)
	if !usablePDF(positionPdf) {
		return core.Vec3{}
	}

	toLight := lightSurf.Position.Subtract(surf.Position)
	distSq := toLight.LengthSquared()
	if distSq < core.RayEpsilon*core.RayEpsilon {
		return core.Vec3{}
	}
	dist := toLight.Length()
	wi := toLight.Multiply(1.0 / dist)

	le := light.Le(lightSurf, wi.Negate())
	if le.IsZero() {
		return core.Vec3{}
	}

	f := prim.EvaluateBxDF(wo, wi, surf)
	if f.IsZero() {
		return core.Vec3{}
	}

	if occluder, ok := s.Intersect(core.NewRay(surf.Position, wi)); ok && occluder.T < dist*(1-1e-4) {
		return core.Vec3{}
	}

	g := wi.AbsDot(surf.Normal) * wi.AbsDot(lightSurf.Normal) / distSq
	return f.MultiplyVec(le).Multiply(g / (lightPdf * positionPdf))
}
