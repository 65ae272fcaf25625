package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/samber/lo"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/material"
	"github.com/df07/go-photon-mapper/pkg/photonmap"
)

// VisualizerConfig controls the photon map debug view
type VisualizerConfig struct {
	MaxDistance      float64 // Largest photon distance shown; 0 uses sqrt(0.001)
	Exposure         float64 // Scale applied to photon power; 0 maps the mean photon luminance to 0.5
	MaxSpecularDepth int     // Specular bounces followed before giving up
}

// DefaultVisualizerConfig returns the default debug view settings
func DefaultVisualizerConfig() VisualizerConfig {
	return VisualizerConfig{MaxDistance: defaultMaxDistance, MaxSpecularDepth: 16}
}

var defaultMaxDistance = math.Sqrt(0.001)

// VisualizePhotonMap renders the photon map directly: each pixel follows its
// camera ray through specular surfaces to the first diffuse hit and shows
// the power of the nearest photon if it lies within MaxDistance. Pixels
// with no photon close enough stay black.
func (r *Renderer) VisualizePhotonMap(pm *photonmap.PhotonMap, config VisualizerConfig) (*image.RGBA, error) {
	photons, err := pm.Photons()
	if err != nil {
		return nil, fmt.Errorf("visualize photon map: %w", err)
	}

	maxDistance := config.MaxDistance
	if maxDistance <= 0 {
		maxDistance = defaultMaxDistance
	}

	exposure := config.Exposure
	if exposure <= 0 {
		exposure = autoExposure(photons)
	}

	width, height := r.camera.Width(), r.camera.Height()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	black := color.RGBA{A: 255}

	r.logger.Printf("Visualizing %d photons (max distance %.4f, exposure %.4g)\n", len(photons), maxDistance, exposure)

	r.forEachRow(height, func(j int) {
		for i := 0; i < width; i++ {
			img.SetRGBA(i, j, black)

			ray := r.camera.PixelRay(i, j, core.NewVec2(0.5, 0.5))
			position, ok := r.firstDiffuseHit(ray, config.MaxSpecularDepth)
			if !ok {
				continue
			}

			nearest, found, err := pm.Nearest(position)
			if err != nil || !found || nearest.Distance > maxDistance {
				continue
			}
			img.SetRGBA(i, j, vec3ToColor(photons[nearest.Index].Power.Multiply(exposure)))
		}
	})

	return img, nil
}

// firstDiffuseHit follows the strongest discrete direction of every
// non-diffuse surface until a diffuse surface is reached
func (r *Renderer) firstDiffuseHit(ray core.Ray, maxSpecularDepth int) (core.Vec3, bool) {
	for depth := 0; depth <= maxSpecularDepth; depth++ {
		hit, ok := r.scene.Intersect(ray)
		if !ok {
			return core.Vec3{}, false
		}
		if hit.Primitive.BxDFType() == material.Diffuse {
			return hit.SurfaceInfo.Position, true
		}

		pairs := hit.Primitive.SampleAllBxDF(ray.Direction.Negate(), hit.SurfaceInfo)
		if len(pairs) == 0 {
			return core.Vec3{}, false
		}
		strongest := lo.MaxBy(pairs, func(a, b material.DirectionPair) bool {
			return a.Weight.Luminance() > b.Weight.Luminance()
		})
		ray = core.NewRay(hit.SurfaceInfo.Position, strongest.Direction)
	}
	return core.Vec3{}, false
}

// autoExposure maps the mean photon luminance to 0.5
func autoExposure(photons []photonmap.Photon) float64 {
	if len(photons) == 0 {
		return 1
	}
	mean := lo.SumBy(photons, func(p photonmap.Photon) float64 {
		return p.Power.Luminance()
	}) / float64(len(photons))
	if mean <= 0 {
		return 1
	}
	return 0.5 / mean
}
