package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestFrame_RoundTrip(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sampler := NewRandomSampler(random)

	for i := 0; i < 1000; i++ {
		normal := SampleUniformSphere(sampler.Get2D())
		surf := NewSurfaceInfo(NewVec3(0, 0, 0), normal)

		// Arbitrary, not necessarily unit, direction
		v := NewVec3(2*random.Float64()-1, 2*random.Float64()-1, 2*random.Float64()-1).Multiply(3)

		got := surf.LocalToWorld(surf.WorldToLocal(v))
		if got.Subtract(v).Length() > 1e-5 {
			t.Fatalf("Round trip failed for normal %v: got %v, expected %v", normal, got, v)
		}
	}
}

func TestFrame_NormalMapsToLocalY(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(0, -1, 0),
		NewVec3(1, 0, 0),
		NewVec3(0, 0, 1),
		NewVec3(1, 1, 1).Normalize(),
	}

	for _, n := range normals {
		surf := NewSurfaceInfo(Vec3{}, n)
		local := surf.WorldToLocal(n)
		if local.Subtract(NewVec3(0, 1, 0)).Length() > 1e-9 {
			t.Errorf("Normal %v should map to local +Y, got %v", n, local)
		}

		// Right-handed: dpdu × normal = dpdv
		if surf.Dpdu.Cross(surf.Normal).Subtract(surf.Dpdv).Length() > 1e-9 {
			t.Errorf("Frame for normal %v is not right-handed", n)
		}
		if math.Abs(surf.Dpdu.Dot(surf.Normal)) > 1e-9 || math.Abs(surf.Dpdv.Dot(surf.Normal)) > 1e-9 {
			t.Errorf("Tangents not orthogonal to normal %v", n)
		}
	}
}

func TestSampleCosineHemisphere(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))

	const numSamples = 20000
	sumCos := 0.0
	for i := 0; i < numSamples; i++ {
		dir, pdf := SampleCosineHemisphere(sampler.Get2D())

		if dir.Y < 0 {
			t.Fatalf("Direction below hemisphere: %v", dir)
		}
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("Direction not normalized: %v", dir)
		}
		if math.Abs(pdf-dir.Y/math.Pi) > 1e-9 {
			t.Fatalf("PDF mismatch: got %f, expected %f", pdf, dir.Y/math.Pi)
		}
		sumCos += dir.Y
	}

	// E[cos θ] under cos/π density is 2/3
	mean := sumCos / numSamples
	if math.Abs(mean-2.0/3.0) > 0.01 {
		t.Errorf("Mean cosine %f, expected ~0.667", mean)
	}
}

func TestPCGSampler_StreamsAreReproducible(t *testing.T) {
	root := NewPCGSampler(7)

	a := root.Stream(3)
	b := NewPCGSampler(7).Stream(3)
	other := root.Stream(4)

	same := true
	differs := false
	for i := 0; i < 16; i++ {
		x, y, z := a.Get1D(), b.Get1D(), other.Get1D()
		if x != y {
			same = false
		}
		if x != z {
			differs = true
		}
		if x < 0 || x >= 1 {
			t.Fatalf("Sample out of [0,1): %f", x)
		}
	}

	if !same {
		t.Error("Same seed and stream index should give identical sequences")
	}
	if !differs {
		t.Error("Different stream indices should give different sequences")
	}
}

func TestStreamsFrom_PlainSampler(t *testing.T) {
	streams := StreamsFrom(NewRandomSampler(rand.New(rand.NewSource(1))))
	again := StreamsFrom(NewRandomSampler(rand.New(rand.NewSource(1))))

	for i := uint64(0); i < 4; i++ {
		if streams(i).Get1D() != again(i).Get1D() {
			t.Errorf("Stream %d not reproducible from the same parent seed", i)
		}
	}
}

func TestSampleTriangleBarycentric(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))
	for i := 0; i < 1000; i++ {
		b1, b2 := SampleTriangleBarycentric(sampler.Get2D())
		if b1 < 0 || b2 < 0 || b1+b2 > 1+1e-12 {
			t.Fatalf("Barycentric outside triangle: (%f, %f)", b1, b2)
		}
	}
}
