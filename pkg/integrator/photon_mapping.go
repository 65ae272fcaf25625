package integrator

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/lights"
	"github.com/df07/go-photon-mapper/pkg/material"
	"github.com/df07/go-photon-mapper/pkg/parallel"
	"github.com/df07/go-photon-mapper/pkg/photonmap"
	"github.com/df07/go-photon-mapper/pkg/scene"
	"github.com/samber/lo"
)

// photonScene is the part of a scene a photon walk needs
type photonScene interface {
	SampleLight(sampler core.Sampler) (lights.Light, float64)
	Intersect(ray core.Ray) (scene.IntersectInfo, bool)
}

// walkResult holds the outcome of one photon walk
type walkResult struct {
	photon    photonmap.Photon
	deposited bool
}

// PhotonMapping traces photons from the scene lights and stores the first
// diffuse hit of every walk in a photon map.
type PhotonMapping struct {
	config    PhotonMappingConfig
	logger    core.Logger
	photonMap *photonmap.PhotonMap
}

// NewPhotonMapping creates a photon mapping integrator. A nil logger discards output.
func NewPhotonMapping(config PhotonMappingConfig, logger core.Logger) *PhotonMapping {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &PhotonMapping{config: config, logger: logger}
}

// Config returns the integrator configuration
func (pm *PhotonMapping) Config() PhotonMappingConfig {
	return pm.config
}

// PhotonMap returns the built photon map, or nil before Build succeeds
func (pm *PhotonMapping) PhotonMap() *photonmap.PhotonMap {
	return pm.photonMap
}

// Build traces NumPhotons independent walks in parallel, each with its own
// sampler stream, then merges the deposits in walk order and builds the map.
// On error the integrator stays unbuilt.
func (pm *PhotonMapping) Build(s *scene.Scene, sampler core.Sampler) error {
	if pm.photonMap != nil {
		return ErrAlreadyBuilt
	}
	if err := pm.config.Validate(); err != nil {
		return err
	}
	if s == nil || len(s.Lights) == 0 {
		return fmt.Errorf("%w: nothing to trace photons from (was scene.Build called?)", ErrNoLights)
	}

	n := pm.config.NumPhotons
	streams := core.StreamsFrom(sampler)
	results := make([]walkResult, n)

	pool := parallel.NewPool(pm.config.NumWorkers)
	pool.OnProgress = pm.progressLogger(n)

	pm.logger.Printf("[PhotonMapping] Tracing %d photons in %s with %d workers\n", n, s.Name, pool.NumWorkers())
	start := time.Now()

	pool.Run(n, pm.config.ChunkSize, func(i int) {
		photon, ok := pm.traceWalk(s, streams(uint64(i)))
		results[i] = walkResult{photon: photon, deposited: ok}
	})

	photons := lo.FilterMap(results, func(r walkResult, _ int) (photonmap.Photon, bool) {
		return r.photon, r.deposited
	})
	pm.logger.Printf("[PhotonMapping] %d of %d walks deposited a photon (%v)\n", len(photons), n, time.Since(start))

	photonMap := photonmap.NewPhotonMap()
	for _, p := range photons {
		if err := photonMap.Add(p); err != nil {
			return fmt.Errorf("add photon: %w", err)
		}
	}
	if err := photonMap.Build(); err != nil {
		return fmt.Errorf("build photon map: %w", err)
	}

	pm.photonMap = photonMap
	pm.logger.Printf("[PhotonMapping] Photon map built in %v\n", time.Since(start))
	return nil
}

// progressLogger reports tracing progress every 10%
func (pm *PhotonMapping) progressLogger(total int) func(done, total int) {
	var lastDecile atomic.Int64
	return func(done, _ int) {
		decile := int64(done * 10 / total)
		for {
			prev := lastDecile.Load()
			if decile <= prev {
				return
			}
			if lastDecile.CompareAndSwap(prev, decile) {
				pm.logger.Printf("[PhotonMapping] %d%% (%d/%d walks)\n", decile*10, done, total)
				return
			}
		}
	}
}

// Integrate is the radiance estimation hook. Density estimation is not part
// of this integrator, so a built integrator returns zero radiance.
func (pm *PhotonMapping) Integrate(ray core.Ray, s *scene.Scene, sampler core.Sampler) (core.Vec3, error) {
	if pm.photonMap == nil {
		return core.Vec3{}, ErrNotBuilt
	}
	return core.Vec3{}, nil
}

// traceWalk performs one photon random walk. It emits a photon from a light
// and records the first diffuse surface it reaches. The walk keeps going
// after the deposit until it escapes, is absorbed by Russian roulette, or
// hits MaxDepth, but nothing later is recorded.
func (pm *PhotonMapping) traceWalk(s photonScene, sampler core.Sampler) (photonmap.Photon, bool) {
	light, lightPdf := s.SampleLight(sampler)
	if light == nil || !usablePDF(lightPdf) {
		return photonmap.Photon{}, false
	}

	lightSurf, positionPdf := light.SamplePoint(sampler)
	if !usablePDF(positionPdf) {
		return photonmap.Photon{}, false
	}

	dir, directionPdf := light.SampleDirection(lightSurf, sampler)
	if !usablePDF(directionPdf) || !usableDirection(dir) {
		return photonmap.Photon{}, false
	}

	// The cosine-weighted direction density cancels against the cosine in
	// the flux integrand, so only the selection and area densities remain.
	throughput := light.Le(lightSurf, dir).Multiply(dir.AbsDot(lightSurf.Normal) / (lightPdf * positionPdf))
	if !usableThroughput(throughput) {
		return photonmap.Photon{}, false
	}

	var deposit photonmap.Photon
	deposited := false
	ray := core.NewRay(lightSurf.Position, dir)

	for k := 0; k < pm.config.MaxDepth; k++ {
		hit, ok := s.Intersect(ray)
		if !ok {
			break
		}

		if !deposited && hit.Primitive.BxDFType() == material.Diffuse {
			deposit = photonmap.Photon{
				Power:             throughput,
				Position:          hit.SurfaceInfo.Position,
				IncomingDirection: ray.Direction.Negate(),
			}
			deposited = true
		}

		if k > 0 {
			var survived bool
			if throughput, survived = russianRoulette(throughput, sampler.Get1D()); !survived {
				break
			}
		}

		wo := ray.Direction.Negate()
		f, wi, pdf := hit.Primitive.SampleBxDF(wo, hit.SurfaceInfo, sampler)
		if !usablePDF(pdf) || !usableDirection(wi) {
			break
		}

		throughput = throughput.MultiplyVec(f).Multiply(wi.AbsDot(hit.SurfaceInfo.Normal) / pdf)
		if !usableThroughput(throughput) {
			break
		}

		ray = core.NewRay(hit.SurfaceInfo.Position, wi)
	}

	return deposit, deposited
}
