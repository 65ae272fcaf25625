package scene

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/geometry"
	"github.com/df07/go-photon-mapper/pkg/lights"
	"github.com/df07/go-photon-mapper/pkg/material"
)

// LightSelection names the strategy used to pick a light per photon
type LightSelection string

const (
	LightSelectionUniform LightSelection = "uniform"
	LightSelectionPower   LightSelection = "power"
)

// CameraConfig describes the pinhole camera that views the scene
type CameraConfig struct {
	Position core.Vec3 // Eye position
	LookAt   core.Vec3 // Point the camera looks at
	Up       core.Vec3 // Up direction (defaults to +Y)
	VFov     float64   // Vertical field of view in degrees
	Width    int       // Image width in pixels
	Height   int       // Image height in pixels
}

// IntersectInfo describes the closest hit of a ray with the scene
type IntersectInfo struct {
	Primitive   *Primitive
	SurfaceInfo core.SurfaceInfo
	T           float64
}

// Scene contains all the elements needed for photon tracing and rendering
type Scene struct {
	Name           string
	CameraConfig   CameraConfig
	Primitives     []*Primitive
	Lights         []lights.Light      // Collected from emitting primitives by Build
	LightSampler   lights.LightSampler // Light selection, set by Build unless provided
	LightSelection LightSelection

	bvh *geometry.BVH
}

// NewScene creates an empty scene
func NewScene(name string) *Scene {
	return &Scene{Name: name, LightSelection: LightSelectionUniform}
}

// AddPrimitive appends a primitive to the scene
func (s *Scene) AddPrimitive(p *Primitive) {
	s.Primitives = append(s.Primitives, p)
}

// AddShape wraps shape in a primitive. A non-zero emission attaches an area light.
func (s *Scene) AddShape(shape geometry.AreaSampler, bxdf material.BxDF, emission core.Vec3) *Primitive {
	var light lights.Light
	if !emission.IsZero() {
		light = lights.NewAreaLight(emission, shape)
	}
	p := NewPrimitive(shape, bxdf, light)
	s.AddPrimitive(p)
	return p
}

// AddMesh adds one primitive per triangle of an indexed mesh
func (s *Scene) AddMesh(vertices []core.Vec3, faces []int, bxdf material.BxDF, emission core.Vec3) error {
	if len(faces)%3 != 0 {
		return fmt.Errorf("face index count %d is not a multiple of 3", len(faces))
	}
	for i := 0; i < len(faces); i += 3 {
		a, b, c := faces[i], faces[i+1], faces[i+2]
		for _, idx := range []int{a, b, c} {
			if idx < 0 || idx >= len(vertices) {
				return fmt.Errorf("face %d references vertex %d of %d", i/3, idx, len(vertices))
			}
		}
		s.AddShape(geometry.NewTriangle(vertices[a], vertices[b], vertices[c]), bxdf, emission)
	}
	return nil
}

// Build constructs the acceleration structure, collects the area lights and
// sets up light selection. It must be called before Intersect or SampleLight.
func (s *Scene) Build() error {
	for i, p := range s.Primitives {
		if p.Shape == nil || p.BxDF == nil {
			return fmt.Errorf("primitive %d is missing a shape or bxdf", i)
		}
	}

	shapes := lo.Map(s.Primitives, func(p *Primitive, _ int) geometry.Shape { return p.Shape })
	s.bvh = geometry.NewBVH(shapes)

	s.Lights = lo.FilterMap(s.Primitives, func(p *Primitive, _ int) (lights.Light, bool) {
		return p.AreaLight, p.HasAreaLight()
	})

	if s.LightSampler == nil {
		switch s.LightSelection {
		case LightSelectionUniform, "":
			s.LightSampler = lights.NewUniformLightSampler(s.Lights)
		case LightSelectionPower:
			s.LightSampler = lights.NewPowerLightSampler(s.Lights)
		default:
			return fmt.Errorf("unknown light selection %q", s.LightSelection)
		}
	}
	return nil
}

// Intersect returns the closest hit along ray
func (s *Scene) Intersect(ray core.Ray) (IntersectInfo, bool) {
	if s.bvh == nil {
		return IntersectInfo{}, false
	}
	idx, hit, ok := s.bvh.Hit(ray, core.RayEpsilon, math.Inf(1))
	if !ok {
		return IntersectInfo{}, false
	}
	return IntersectInfo{
		Primitive:   s.Primitives[idx],
		SurfaceInfo: hit.Surface,
		T:           hit.T,
	}, true
}

// SampleLight selects a light with one sampler draw and returns it with its
// selection probability. Returns (nil, 0) for a scene without lights.
func (s *Scene) SampleLight(sampler core.Sampler) (lights.Light, float64) {
	if s.LightSampler == nil || s.LightSampler.Count() == 0 {
		return nil, 0
	}
	light, pdf, _ := s.LightSampler.SampleLight(sampler.Get1D())
	return light, pdf
}

// PrimitiveCount returns the number of primitives in the scene
func (s *Scene) PrimitiveCount() int {
	return len(s.Primitives)
}

// Bounds returns the center and radius of the scene's bounding sphere
func (s *Scene) Bounds() (core.Vec3, float64) {
	if s.bvh == nil {
		return core.Vec3{}, 0
	}
	return s.bvh.Center, s.bvh.Radius
}
