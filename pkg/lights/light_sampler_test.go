package lights

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/geometry"
)

func newTestQuadLight(emission core.Vec3, size float64) *AreaLight {
	quad := geometry.NewQuad(core.NewVec3(0, 1, 0), core.NewVec3(size, 0, 0), core.NewVec3(0, 0, size))
	return NewAreaLight(emission, quad)
}

func TestUniformLightSampler(t *testing.T) {
	lights := []Light{
		newTestQuadLight(core.NewVec3(1, 1, 1), 1),
		newTestQuadLight(core.NewVec3(2, 2, 2), 1),
		newTestQuadLight(core.NewVec3(3, 3, 3), 1),
	}
	sampler := NewUniformLightSampler(lights)

	tests := []struct {
		u       float64
		wantIdx int
	}{
		{0.0, 0},
		{0.33, 0},
		{0.34, 1},
		{0.99, 2},
		{1.0, 2}, // Clamped
	}

	for _, tt := range tests {
		light, pdf, idx := sampler.SampleLight(tt.u)
		if idx != tt.wantIdx {
			t.Errorf("u=%f: expected index %d, got %d", tt.u, tt.wantIdx, idx)
		}
		if light != lights[tt.wantIdx] {
			t.Errorf("u=%f: wrong light returned", tt.u)
		}
		if math.Abs(pdf-1.0/3.0) > 1e-12 {
			t.Errorf("u=%f: expected pdf 1/3, got %f", tt.u, pdf)
		}
	}

	if sampler.Probability(5) != 0 {
		t.Error("Expected zero probability for out-of-range index")
	}
	if sampler.Count() != 3 {
		t.Errorf("Expected 3 lights, got %d", sampler.Count())
	}

	if light, pdf, idx := NewUniformLightSampler(nil).SampleLight(0.5); light != nil || pdf != 0 || idx != -1 {
		t.Error("Expected no light from an empty sampler")
	}
}

func TestWeightedLightSampler_Frequencies(t *testing.T) {
	lights := []Light{
		newTestQuadLight(core.NewVec3(1, 1, 1), 1),
		newTestQuadLight(core.NewVec3(1, 1, 1), 1),
		newTestQuadLight(core.NewVec3(1, 1, 1), 1),
	}
	sampler := NewWeightedLightSampler(lights, []float64{1, 0, 3})

	if math.Abs(sampler.Probability(0)-0.25) > 1e-12 || math.Abs(sampler.Probability(2)-0.75) > 1e-12 {
		t.Fatalf("Unexpected normalized weights: %f, %f", sampler.Probability(0), sampler.Probability(2))
	}

	random := rand.New(rand.NewSource(42))
	counts := make([]int, 3)
	const n = 100000
	for i := 0; i < n; i++ {
		_, pdf, idx := sampler.SampleLight(random.Float64())
		if pdf != sampler.Probability(idx) {
			t.Fatalf("Returned pdf %f does not match Probability(%d)=%f", pdf, idx, sampler.Probability(idx))
		}
		counts[idx]++
	}

	if counts[1] != 0 {
		t.Errorf("Zero-weight light was selected %d times", counts[1])
	}
	if got := float64(counts[2]) / n; math.Abs(got-0.75) > 0.01 {
		t.Errorf("Expected light 2 fraction 0.75, got %f", got)
	}

	// u at the very top of the range lands on the last light with weight
	if _, _, idx := sampler.SampleLight(1.0); idx != 2 {
		t.Errorf("Expected index 2 for u=1, got %d", idx)
	}
}

func TestWeightedLightSampler_Panics(t *testing.T) {
	lights := []Light{newTestQuadLight(core.NewVec3(1, 1, 1), 1)}

	for name, weights := range map[string][]float64{
		"mismatched length": {1, 2},
		"negative weight":   {-1},
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Expected panic")
				}
			}()
			NewWeightedLightSampler(lights, weights)
		})
	}
}

func TestPowerLightSampler(t *testing.T) {
	dim := newTestQuadLight(core.NewVec3(1, 1, 1), 1)
	bright := newTestQuadLight(core.NewVec3(1, 1, 1), 3) // 9x the area
	sampler := NewPowerLightSampler([]Light{dim, bright})

	if got := sampler.Probability(1); math.Abs(got-0.9) > 1e-9 {
		t.Errorf("Expected bright light probability 0.9, got %f", got)
	}
}

func TestAreaLight_PowerAndEmission(t *testing.T) {
	emission := core.NewVec3(2, 4, 6)
	light := newTestQuadLight(emission, 2)

	expected := emission.Multiply(math.Pi * 4)
	if light.Power().Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected power %v, got %v", expected, light.Power())
	}

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))
	surf, areaPDF := light.SamplePoint(sampler)
	if math.Abs(areaPDF-0.25) > 1e-12 {
		t.Errorf("Expected area pdf 1/4, got %f", areaPDF)
	}

	for i := 0; i < 200; i++ {
		dir, pdf := light.SampleDirection(surf, sampler)
		cos := dir.Dot(surf.Normal)
		if cos < 0 {
			t.Fatalf("Sampled direction %v behind the light", dir)
		}
		if math.Abs(pdf-cos/math.Pi) > 1e-9 {
			t.Fatalf("Expected pdf cos/π=%f, got %f", cos/math.Pi, pdf)
		}
		if light.Le(surf, dir) != emission {
			t.Fatalf("Expected emission %v along sampled direction", emission)
		}
	}

	if !light.Le(surf, surf.Normal.Negate()).IsZero() {
		t.Error("Expected no emission from the back face")
	}
}
