package scene

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/geometry"
	"github.com/df07/go-photon-mapper/pkg/material"
)

// cornellQuad is a wall of the box: corner plus two edges, normal = u × v
type cornellQuad struct {
	corner, u, v core.Vec3
}

var (
	cornellShortBox = []cornellQuad{
		{core.NewVec3(1.3, 1.65, 0.65), core.NewVec3(-0.48, 0, 1.6), core.NewVec3(1.6, 0, 0.49)},
		{core.NewVec3(2.9, 0, 1.14), core.NewVec3(0, 1.65, 0), core.NewVec3(-0.5, 0, 1.58)},
		{core.NewVec3(1.3, 0, 0.65), core.NewVec3(0, 1.65, 0), core.NewVec3(1.6, 0, 0.49)},
		{core.NewVec3(0.82, 0, 2.25), core.NewVec3(0, 1.65, 0), core.NewVec3(0.48, 0, -1.6)},
		{core.NewVec3(2.4, 0, 2.72), core.NewVec3(0, 1.65, 0), core.NewVec3(-1.58, 0, -0.47)},
	}
	cornellTallBox = []cornellQuad{
		{core.NewVec3(4.23, 3.30, 2.47), core.NewVec3(-1.58, 0, 0.49), core.NewVec3(0.49, 0, 1.59)},
		{core.NewVec3(4.23, 0, 2.47), core.NewVec3(0, 3.3, 0), core.NewVec3(0.49, 0, 1.59)},
		{core.NewVec3(4.72, 0, 4.06), core.NewVec3(0, 3.3, 0), core.NewVec3(-1.58, 0, 0.5)},
		{core.NewVec3(3.14, 0, 4.56), core.NewVec3(0, 3.3, 0), core.NewVec3(-0.49, 0, -1.6)},
		{core.NewVec3(2.65, 0, 2.96), core.NewVec3(0, 3.3, 0), core.NewVec3(1.58, 0, -0.49)},
	}
)

// Cornell box emission and light placement
var (
	cornellLightEmission = core.NewVec3(34, 19, 10)
	cornellLight         = cornellQuad{core.NewVec3(3.43, 5.486, 2.27), core.NewVec3(0, 0, 1.05), core.NewVec3(-1.3, 0, 0)}
)

func cornellCamera() CameraConfig {
	return CameraConfig{
		Position: core.NewVec3(2.78, 2.73, -9),
		LookAt:   core.NewVec3(2.78, 2.73, 2.796),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     38,
		Width:    512,
		Height:   512,
	}
}

// NewCornellScene creates the classic Cornell box: white floor, ceiling and
// back wall, red right wall, green left wall, two white boxes and a warm
// area light just below the ceiling
func NewCornellScene() *Scene {
	return newCornellBox("cornell", material.NewLambert(core.NewVec3(0.8, 0.8, 0.8)))
}

// NewCornellMirrorScene replaces the floor of the Cornell box with a mirror
func NewCornellMirrorScene() *Scene {
	return newCornellBox("cornell-mirror", material.NewMirror(core.NewVec3(0.9, 0.9, 0.9)))
}

// NewCornellGlassScene adds a glass sphere and a glossy sphere to the Cornell box
func NewCornellGlassScene() *Scene {
	s := newCornellBox("cornell-glass", material.NewLambert(core.NewVec3(0.8, 0.8, 0.8)))
	s.AddShape(geometry.NewSphere(core.NewVec3(1.8, 2.3, 1.2), 0.6), material.NewGlass(core.NewVec3(1, 1, 1), 1.5), core.Vec3{})
	s.AddShape(geometry.NewSphere(core.NewVec3(3.8, 3.9, 3.4), 0.55), material.NewPhong(core.NewVec3(0.8, 0.8, 0.8), 50), core.Vec3{})
	return s
}

func newCornellBox(name string, floorBxDF material.BxDF) *Scene {
	white := material.NewLambert(core.NewVec3(0.8, 0.8, 0.8))
	red := material.NewLambert(core.NewVec3(0.8, 0.05, 0.05))
	green := material.NewLambert(core.NewVec3(0.05, 0.8, 0.05))

	s := NewScene(name)
	s.CameraConfig = cornellCamera()

	add := func(q cornellQuad, bxdf material.BxDF, emission core.Vec3) {
		s.AddShape(geometry.NewQuad(q.corner, q.u, q.v), bxdf, emission)
	}

	// Floor
	add(cornellQuad{core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 5.592), core.NewVec3(5.56, 0, 0)}, floorBxDF, core.Vec3{})
	// Right wall
	add(cornellQuad{core.NewVec3(0, 0, 0), core.NewVec3(0, 5.488, 0), core.NewVec3(0, 0, 5.592)}, red, core.Vec3{})
	// Left wall
	add(cornellQuad{core.NewVec3(5.56, 0, 0), core.NewVec3(0, 0, 5.592), core.NewVec3(0, 5.488, 0)}, green, core.Vec3{})
	// Ceiling
	add(cornellQuad{core.NewVec3(0, 5.488, 0), core.NewVec3(5.56, 0, 0), core.NewVec3(0, 0, 5.592)}, white, core.Vec3{})
	// Back wall
	add(cornellQuad{core.NewVec3(0, 0, 5.592), core.NewVec3(0, 5.488, 0), core.NewVec3(5.56, 0, 0)}, white, core.Vec3{})

	for _, q := range cornellShortBox {
		add(q, white, core.Vec3{})
	}
	for _, q := range cornellTallBox {
		add(q, white, core.Vec3{})
	}

	add(cornellLight, white, cornellLightEmission)
	return s
}

var builtinScenes = map[string]func() *Scene{
	"cornell":        NewCornellScene,
	"cornell-mirror": NewCornellMirrorScene,
	"cornell-glass":  NewCornellGlassScene,
}

// BuiltinNames returns the names of the built-in scenes in sorted order
func BuiltinNames() []string {
	names := lo.Keys(builtinScenes)
	sort.Strings(names)
	return names
}

// NewBuiltinScene creates a built-in scene by name
func NewBuiltinScene(name string) (*Scene, error) {
	create, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, BuiltinNames())
	}
	return create(), nil
}
