package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/integrator"
	"github.com/df07/go-photon-mapper/pkg/parallel"
	"github.com/df07/go-photon-mapper/pkg/scene"
)

// Renderer turns a built scene into an image
type Renderer struct {
	scene      *scene.Scene
	camera     *Camera
	numWorkers int
	logger     core.Logger
}

// NewRenderer creates a renderer for the scene's camera. numWorkers <= 0
// uses runtime.NumCPU(); a nil logger discards output.
func NewRenderer(s *scene.Scene, numWorkers int, logger core.Logger) *Renderer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Renderer{
		scene:      s,
		camera:     NewCamera(s.CameraConfig),
		numWorkers: numWorkers,
		logger:     logger,
	}
}

// Camera returns the renderer's camera
func (r *Renderer) Camera() *Camera {
	return r.camera
}

// Render estimates every pixel with samplesPerPixel jittered camera rays.
// The integrator must already be built. Each pixel draws from its own
// sampler stream, so the image does not depend on the worker count.
func (r *Renderer) Render(integ integrator.Integrator, samplesPerPixel int, sampler core.Sampler) (*image.RGBA, RenderStats, error) {
	if samplesPerPixel <= 0 {
		return nil, RenderStats{}, fmt.Errorf("samples per pixel must be positive, got %d", samplesPerPixel)
	}

	width, height := r.camera.Width(), r.camera.Height()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	streams := core.StreamsFrom(sampler)
	rowErrs := make([]error, height)
	start := time.Now()

	r.logger.Printf("Rendering %dx%d at %d spp\n", width, height, samplesPerPixel)

	r.forEachRow(height, func(j int) {
		for i := 0; i < width; i++ {
			pixelSampler := streams(uint64(j*width + i))
			var ps PixelStats
			for s := 0; s < samplesPerPixel; s++ {
				ray := r.camera.PixelRay(i, j, pixelSampler.Get2D())
				radiance, err := integ.Integrate(ray, r.scene, pixelSampler)
				if err != nil {
					rowErrs[j] = fmt.Errorf("pixel (%d, %d): %w", i, j, err)
					return
				}
				ps.AddSample(radiance)
			}
			img.SetRGBA(i, j, vec3ToColor(ps.GetColor()))
		}
	})

	stats := RenderStats{
		TotalPixels:     width * height,
		TotalSamples:    width * height * samplesPerPixel,
		SamplesPerPixel: samplesPerPixel,
		Elapsed:         time.Since(start),
	}
	if err := errors.Join(rowErrs...); err != nil {
		return nil, stats, err
	}

	r.logger.Printf("Render completed in %v\n", stats.Elapsed)
	return img, stats, nil
}

// forEachRow runs fn for every image row on the worker pool
func (r *Renderer) forEachRow(height int, fn func(j int)) {
	parallel.NewPool(r.numWorkers).Run(height, 1, fn)
}

// vec3ToColor converts a Vec3 color to RGBA with clamping and gamma correction
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
