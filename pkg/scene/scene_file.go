package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/geometry"
	"github.com/df07/go-photon-mapper/pkg/material"
)

// Vec is a JSON triple: [x, y, z] or [r, g, b]
type Vec [3]float64

func (v Vec) toVec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// CameraDescription describes the viewpoint in a scene file
type CameraDescription struct {
	Position Vec     `json:"position"`
	LookAt   Vec     `json:"look_at"`
	Up       *Vec    `json:"up,omitempty"`
	VFov     float64 `json:"vfov"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

// MaterialDescription describes a BxDF
type MaterialDescription struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"` // lambert, mirror, glass, phong
	Color    Vec     `json:"color"`
	IOR      float64 `json:"ior,omitempty"`      // glass
	Exponent float64 `json:"exponent,omitempty"` // phong
}

// ObjectDescription is a single shape in a scene file
type ObjectDescription struct {
	Type     string `json:"type"` // quad, triangle, sphere, mesh
	Material string `json:"material"`
	Emission *Vec   `json:"emission,omitempty"`

	// quad
	Corner *Vec `json:"corner,omitempty"`
	U      *Vec `json:"u,omitempty"`
	V      *Vec `json:"v,omitempty"`

	// triangle
	Vertices []Vec `json:"vertices,omitempty"`

	// sphere
	Center *Vec    `json:"center,omitempty"`
	Radius float64 `json:"radius,omitempty"`

	// mesh: path to a PLY file, relative to the scene file
	Path string `json:"path,omitempty"`
}

// Description is the on-disk form of a scene
type Description struct {
	Name           string                `json:"name"`
	Camera         CameraDescription     `json:"camera"`
	LightSelection LightSelection        `json:"light_selection,omitempty"`
	Materials      []MaterialDescription `json:"materials"`
	Objects        []ObjectDescription   `json:"objects"`
}

// LoadDescription reads a scene description from a JSON file.
func LoadDescription(path string) (*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	var desc Description
	if err := json.NewDecoder(f).Decode(&desc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &desc, nil
}

// SaveDescription writes a scene description to a JSON file.
func SaveDescription(path string, desc *Description) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(desc); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

// LoadScene reads a scene file and instantiates the (unbuilt) scene it describes
func LoadScene(path string) (*Scene, error) {
	desc, err := LoadDescription(path)
	if err != nil {
		return nil, err
	}
	return desc.Scene(filepath.Dir(path))
}

// Scene instantiates the description. Mesh paths are resolved against baseDir.
// The returned scene is not built yet.
func (d *Description) Scene(baseDir string) (*Scene, error) {
	s := NewScene(d.Name)
	if d.LightSelection != "" {
		s.LightSelection = d.LightSelection
	}

	up := core.NewVec3(0, 1, 0)
	if d.Camera.Up != nil {
		up = d.Camera.Up.toVec3()
	}
	s.CameraConfig = CameraConfig{
		Position: d.Camera.Position.toVec3(),
		LookAt:   d.Camera.LookAt.toVec3(),
		Up:       up,
		VFov:     d.Camera.VFov,
		Width:    d.Camera.Width,
		Height:   d.Camera.Height,
	}

	bxdfs := make(map[string]material.BxDF, len(d.Materials))
	for _, m := range d.Materials {
		if _, dup := bxdfs[m.ID]; dup {
			return nil, fmt.Errorf("duplicate material id %q", m.ID)
		}
		bxdf, err := m.bxdf()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", m.ID, err)
		}
		bxdfs[m.ID] = bxdf
	}

	for i, obj := range d.Objects {
		bxdf, ok := bxdfs[obj.Material]
		if !ok {
			return nil, fmt.Errorf("object %d: unknown material %q", i, obj.Material)
		}
		var emission core.Vec3
		if obj.Emission != nil {
			emission = obj.Emission.toVec3()
		}
		if err := obj.add(s, bxdf, emission, baseDir); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}
	return s, nil
}

func (m MaterialDescription) bxdf() (material.BxDF, error) {
	color := m.Color.toVec3()
	switch m.Type {
	case "lambert":
		return material.NewLambert(color), nil
	case "mirror":
		return material.NewMirror(color), nil
	case "glass":
		ior := m.IOR
		if ior == 0 {
			ior = 1.5
		}
		return material.NewGlass(color, ior), nil
	case "phong":
		return material.NewPhong(color, m.Exponent), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", m.Type)
	}
}

func (obj ObjectDescription) add(s *Scene, bxdf material.BxDF, emission core.Vec3, baseDir string) error {
	switch obj.Type {
	case "quad":
		if obj.Corner == nil || obj.U == nil || obj.V == nil {
			return fmt.Errorf("quad needs corner, u and v")
		}
		s.AddShape(geometry.NewQuad(obj.Corner.toVec3(), obj.U.toVec3(), obj.V.toVec3()), bxdf, emission)
	case "triangle":
		if len(obj.Vertices) != 3 {
			return fmt.Errorf("triangle needs 3 vertices, got %d", len(obj.Vertices))
		}
		s.AddShape(geometry.NewTriangle(obj.Vertices[0].toVec3(), obj.Vertices[1].toVec3(), obj.Vertices[2].toVec3()), bxdf, emission)
	case "sphere":
		if obj.Center == nil || obj.Radius <= 0 {
			return fmt.Errorf("sphere needs a center and a positive radius")
		}
		s.AddShape(geometry.NewSphere(obj.Center.toVec3(), obj.Radius), bxdf, emission)
	case "mesh":
		path := obj.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		mesh, err := LoadPLY(path)
		if err != nil {
			return err
		}
		return s.AddMesh(mesh.Vertices, mesh.Faces, bxdf, emission)
	default:
		return fmt.Errorf("unknown object type %q", obj.Type)
	}
	return nil
}
