package renderer

import (
	"errors"
	"testing"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/geometry"
	"github.com/df07/go-photon-mapper/pkg/integrator"
	"github.com/df07/go-photon-mapper/pkg/material"
	"github.com/df07/go-photon-mapper/pkg/photonmap"
	"github.com/df07/go-photon-mapper/pkg/scene"
)

// newTopDownScene is a floor lit by a square light, viewed from above
func newTopDownScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.NewScene("top-down")
	s.CameraConfig = scene.CameraConfig{
		Position: core.NewVec3(0, 3, 0),
		LookAt:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 0, 1),
		VFov:     40,
		Width:    16,
		Height:   12,
	}
	s.AddShape(geometry.NewQuad(core.NewVec3(-5, 0, -5), core.NewVec3(0, 0, 10), core.NewVec3(10, 0, 0)),
		material.NewLambert(core.NewVec3(0.7, 0.7, 0.7)), core.Vec3{})
	// Light faces down, outside the camera's view
	s.AddShape(geometry.NewQuad(core.NewVec3(2, 1, -0.5), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1)),
		material.NewLambert(core.Vec3{}), core.NewVec3(8, 8, 8))
	if err := s.Build(); err != nil {
		t.Fatalf("Failed to build scene: %v", err)
	}
	return s
}

func TestRenderer_PathTracing(t *testing.T) {
	s := newTopDownScene(t)
	pt := integrator.NewPathTracing(integrator.DefaultPathTracingConfig())
	if err := pt.Build(s, core.NewPCGSampler(1)); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	r := NewRenderer(s, 2, nil)
	img, stats, err := r.Render(pt, 4, core.NewPCGSampler(2))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 12 {
		t.Errorf("Expected 16x12 image, got %v", img.Bounds())
	}
	if stats.TotalSamples != 16*12*4 {
		t.Errorf("Expected %d samples, got %d", 16*12*4, stats.TotalSamples)
	}

	// Center pixel sees the lit floor
	if c := img.RGBAAt(8, 6); c.R == 0 {
		t.Errorf("Expected a lit center pixel, got %v", c)
	}
}

func TestRenderer_DeterministicAcrossWorkers(t *testing.T) {
	s := newTopDownScene(t)
	pt := integrator.NewPathTracing(integrator.DefaultPathTracingConfig())
	if err := pt.Build(s, core.NewPCGSampler(1)); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	a, _, err := NewRenderer(s, 1, nil).Render(pt, 2, core.NewPCGSampler(5))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	b, _, err := NewRenderer(s, 4, nil).Render(pt, 2, core.NewPCGSampler(5))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("Images differ at byte %d", i)
		}
	}
}

func TestRenderer_Errors(t *testing.T) {
	s := newTopDownScene(t)
	r := NewRenderer(s, 2, nil)

	unbuilt := integrator.NewPathTracing(integrator.DefaultPathTracingConfig())
	if _, _, err := r.Render(unbuilt, 1, core.NewPCGSampler(1)); !errors.Is(err, integrator.ErrNotBuilt) {
		t.Errorf("Expected ErrNotBuilt, got %v", err)
	}
	if _, _, err := r.Render(unbuilt, 0, core.NewPCGSampler(1)); err == nil {
		t.Error("Expected an error for zero samples per pixel")
	}
	if _, err := r.VisualizePhotonMap(photonmap.NewPhotonMap(), DefaultVisualizerConfig()); !errors.Is(err, photonmap.ErrNotBuilt) {
		t.Errorf("Expected photonmap.ErrNotBuilt, got %v", err)
	}
}

func TestRenderer_VisualizePhotonMap(t *testing.T) {
	s := newTopDownScene(t)
	config := integrator.DefaultPhotonMappingConfig()
	config.NumPhotons = 20000
	pm := integrator.NewPhotonMapping(config, nil)
	if err := pm.Build(s, core.NewPCGSampler(3)); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	r := NewRenderer(s, 0, nil)
	img, err := r.VisualizePhotonMap(pm.PhotonMap(), VisualizerConfig{MaxDistance: 0.2, MaxSpecularDepth: 4})
	if err != nil {
		t.Fatalf("Visualize failed: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 12 {
		t.Errorf("Expected 16x12 image, got %v", img.Bounds())
	}

	lit := 0
	for j := 0; j < 12; j++ {
		for i := 0; i < 16; i++ {
			c := img.RGBAAt(i, j)
			if c.A != 255 {
				t.Fatalf("Expected opaque pixels, got %v at (%d, %d)", c, i, j)
			}
			if c.R > 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("Expected some pixels to show photons")
	}
}

func TestRenderer_FirstDiffuseHitThroughMirror(t *testing.T) {
	s := scene.NewScene("mirror")
	s.CameraConfig = scene.CameraConfig{Position: core.NewVec3(0, 1, 0), LookAt: core.NewVec3(0, 0, 0), Up: core.NewVec3(0, 0, 1), VFov: 30, Width: 4, Height: 4}
	// Mirror floor facing up, diffuse ceiling facing down
	s.AddShape(geometry.NewQuad(core.NewVec3(-1, 0, -1), core.NewVec3(0, 0, 2), core.NewVec3(2, 0, 0)),
		material.NewMirror(core.NewVec3(1, 1, 1)), core.Vec3{})
	s.AddShape(geometry.NewQuad(core.NewVec3(-1, 2, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2)),
		material.NewLambert(core.NewVec3(0.5, 0.5, 0.5)), core.Vec3{})
	if err := s.Build(); err != nil {
		t.Fatalf("Failed to build scene: %v", err)
	}

	r := NewRenderer(s, 1, nil)
	down := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	position, ok := r.firstDiffuseHit(down, 4)
	if !ok {
		t.Fatal("Expected to reach the diffuse ceiling")
	}
	if !vecApprox(position, core.NewVec3(0, 2, 0), 1e-9) {
		t.Errorf("Expected ceiling hit at (0,2,0), got %v", position)
	}

	if _, ok := r.firstDiffuseHit(down, 0); ok {
		t.Error("Expected no diffuse hit without specular bounces")
	}
}
