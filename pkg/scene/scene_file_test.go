package scene

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/material"
)

const asciiTetrahedron = `ply
format ascii 1.0
comment unit tetrahedron
element vertex 4
property float x
property float y
property float z
property uchar red
element face 3
property list uchar int vertex_indices
end_header
0 0 0 255
1 0 0 255
0 1 0 255
0 0 1 255
3 0 2 1
3 0 1 3
4 0 3 2 1
`

func TestReadPLY_ASCII(t *testing.T) {
	mesh, err := ReadPLY(strings.NewReader(asciiTetrahedron))
	if err != nil {
		t.Fatalf("ReadPLY failed: %v", err)
	}
	if len(mesh.Vertices) != 4 {
		t.Errorf("Expected 4 vertices, got %d", len(mesh.Vertices))
	}
	// Two triangles plus a quad fan-triangulated into two
	if len(mesh.Faces) != 4*3 {
		t.Errorf("Expected 4 triangles, got %d indices", len(mesh.Faces))
	}
	if mesh.Vertices[3] != core.NewVec3(0, 0, 1) {
		t.Errorf("Unexpected vertex 3: %v", mesh.Vertices[3])
	}
	if mesh.Faces[9] != 0 || mesh.Faces[10] != 2 || mesh.Faces[11] != 1 {
		t.Errorf("Unexpected fan triangle: %v", mesh.Faces[9:12])
	}
}

func TestReadPLY_BinaryLittleEndian(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("ply\nformat binary_little_endian 1.0\nelement vertex 3\n" +
		"property float x\nproperty float y\nproperty float z\n" +
		"element face 1\nproperty list uchar uint vertex_indices\nend_header\n")
	for _, v := range [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 0, 2}} {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	buf.WriteByte(3)
	binary.Write(&buf, binary.LittleEndian, [3]uint32{0, 2, 1})

	mesh, err := ReadPLY(&buf)
	if err != nil {
		t.Fatalf("ReadPLY failed: %v", err)
	}
	if len(mesh.Vertices) != 3 || len(mesh.Faces) != 3 {
		t.Fatalf("Expected one triangle, got %d vertices / %d indices", len(mesh.Vertices), len(mesh.Faces))
	}
	if mesh.Vertices[1] != core.NewVec3(2, 0, 0) {
		t.Errorf("Unexpected vertex 1: %v", mesh.Vertices[1])
	}
}

func TestReadPLY_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing magic", "format ascii 1.0\nend_header\n"},
		{"unknown format", "ply\nformat weird 1.0\nelement vertex 0\nproperty float x\nproperty float y\nproperty float z\nend_header\n"},
		{"missing z", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nend_header\n0 0\n"},
		{"index out of range", "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\n" +
			"element face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n3 0 1 7\n"},
		{"truncated", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 0 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadPLY(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestDescription_RoundTripAndBuild(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "tetra.ply"), []byte(asciiTetrahedron), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	emission := Vec{10, 10, 10}
	up := Vec{0, 1, 0}
	desc := &Description{
		Name: "file-scene",
		Camera: CameraDescription{
			Position: Vec{0, 1, -5}, LookAt: Vec{0, 1, 0}, Up: &up, VFov: 40, Width: 64, Height: 48,
		},
		LightSelection: LightSelectionPower,
		Materials: []MaterialDescription{
			{ID: "white", Type: "lambert", Color: Vec{0.8, 0.8, 0.8}},
			{ID: "glass", Type: "glass", Color: Vec{1, 1, 1}, IOR: 1.5},
			{ID: "shiny", Type: "phong", Color: Vec{0.5, 0.5, 0.5}, Exponent: 30},
		},
		Objects: []ObjectDescription{
			{Type: "quad", Material: "white", Corner: &Vec{-5, 0, -5}, U: &Vec{0, 0, 10}, V: &Vec{10, 0, 0}},
			{Type: "quad", Material: "white", Emission: &emission, Corner: &Vec{-0.5, 3, -0.5}, U: &Vec{1, 0, 0}, V: &Vec{0, 0, 1}},
			{Type: "sphere", Material: "glass", Center: &Vec{0, 1, 0}, Radius: 0.5},
			{Type: "triangle", Material: "shiny", Vertices: []Vec{{1, 0, 1}, {2, 0, 1}, {1, 1, 1}}},
			{Type: "mesh", Material: "white", Path: "tetra.ply"},
		},
	}

	path := filepath.Join(dir, "scene.json")
	if err := SaveDescription(path, desc); err != nil {
		t.Fatalf("SaveDescription failed: %v", err)
	}

	s, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	if err := s.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// 2 quads + sphere + triangle + 4 mesh triangles
	if s.PrimitiveCount() != 8 {
		t.Errorf("Expected 8 primitives, got %d", s.PrimitiveCount())
	}
	if len(s.Lights) != 1 {
		t.Errorf("Expected 1 light, got %d", len(s.Lights))
	}
	if s.LightSelection != LightSelectionPower {
		t.Errorf("Expected power light selection, got %q", s.LightSelection)
	}
	if s.CameraConfig.Width != 64 || math.Abs(s.CameraConfig.VFov-40) > 1e-12 {
		t.Errorf("Camera config not loaded: %+v", s.CameraConfig)
	}
	if s.Primitives[2].BxDFType() != material.Specular || s.Primitives[3].BxDFType() != material.Glossy {
		t.Error("Materials not assigned in order")
	}
}

func TestDescription_Errors(t *testing.T) {
	tests := []struct {
		name string
		desc Description
	}{
		{"unknown material", Description{Objects: []ObjectDescription{{Type: "sphere", Material: "nope", Center: &Vec{}, Radius: 1}}}},
		{"unknown material type", Description{Materials: []MaterialDescription{{ID: "m", Type: "velvet"}}}},
		{"duplicate material", Description{Materials: []MaterialDescription{{ID: "m", Type: "lambert"}, {ID: "m", Type: "mirror"}}}},
		{"bad quad", Description{
			Materials: []MaterialDescription{{ID: "m", Type: "lambert"}},
			Objects:   []ObjectDescription{{Type: "quad", Material: "m"}},
		}},
		{"unknown object", Description{
			Materials: []MaterialDescription{{ID: "m", Type: "lambert"}},
			Objects:   []ObjectDescription{{Type: "torus", Material: "m"}},
		}},
		{"missing mesh", Description{
			Materials: []MaterialDescription{{ID: "m", Type: "lambert"}},
			Objects:   []ObjectDescription{{Type: "mesh", Material: "m", Path: "missing.ply"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.desc.Scene(t.TempDir()); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoadDescription_MissingFile(t *testing.T) {
	if _, err := LoadDescription(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
