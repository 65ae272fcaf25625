package core

import (
	"math"
	"math/rand"
	randv2 "math/rand/v2"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// StreamSampler is a Sampler that can hand out independent, uncorrelated
// child streams. Stream(i) must return the same sequence every time it is
// called with the same i, so parallel work stays reproducible per unit.
type StreamSampler interface {
	Sampler
	Stream(index uint64) Sampler
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// streamMix decorrelates consecutive stream indices (golden ratio increment)
const streamMix = 0x9e3779b97f4a7c15

// PCGSampler draws from a PCG generator. Unlike rand.Rand over the default
// source it is cheap to create, so one can be made per photon walk.
type PCGSampler struct {
	seed   uint64
	random *randv2.Rand
}

// NewPCGSampler creates the root stream for the given seed
func NewPCGSampler(seed uint64) *PCGSampler {
	return newPCGStream(seed, 0)
}

func newPCGStream(seed, stream uint64) *PCGSampler {
	return &PCGSampler{
		seed:   seed,
		random: randv2.New(randv2.NewPCG(seed, stream*streamMix+1)),
	}
}

// Stream returns the independent child stream with the given index
func (p *PCGSampler) Stream(index uint64) Sampler {
	return newPCGStream(p.seed, index+1)
}

// Seed returns the seed this sampler was created with
func (p *PCGSampler) Seed() uint64 {
	return p.seed
}

// Get1D returns a random float64 in [0, 1)
func (p *PCGSampler) Get1D() float64 {
	return p.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (p *PCGSampler) Get2D() Vec2 {
	return NewVec2(p.random.Float64(), p.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (p *PCGSampler) Get3D() Vec3 {
	return NewVec3(p.random.Float64(), p.random.Float64(), p.random.Float64())
}

// StreamsFrom returns a function producing independent per-unit samplers.
// Stream samplers are forked directly; any other sampler is consumed once
// to seed a PCG family.
func StreamsFrom(sampler Sampler) func(index uint64) Sampler {
	if ss, ok := sampler.(StreamSampler); ok {
		return ss.Stream
	}
	root := NewPCGSampler(uint64(sampler.Get1D() * (1 << 53)))
	return root.Stream
}

// SampleCosineHemisphere samples a direction in the y-up local hemisphere
// with density cos(θ)/π and returns the direction with its pdf.
func SampleCosineHemisphere(sample Vec2) (Vec3, float64) {
	theta := 0.5 * math.Acos(max(-1, min(1, 1-2*sample.X)))
	phi := 2.0 * math.Pi * sample.Y
	pdf := math.Cos(theta) / math.Pi
	return SphericalToCartesian(theta, phi), pdf
}

// SampleUniformSphere generates a uniform random direction on the unit sphere
func SampleUniformSphere(sample Vec2) Vec3 {
	y := 1.0 - 2.0*sample.X // y ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-y*y))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), y, r*math.Sin(phi))
}

// SampleTriangleBarycentric maps a square sample to uniformly distributed
// barycentric coordinates (b1, b2); the first vertex weight is 1-b1-b2.
func SampleTriangleBarycentric(sample Vec2) (float64, float64) {
	su0 := math.Sqrt(sample.X)
	return 1.0 - su0, sample.Y * su0
}
