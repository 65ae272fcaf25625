package lights

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
)

// UniformLightSampler selects every light with equal probability
type UniformLightSampler struct {
	lights []Light
}

// NewUniformLightSampler creates a light sampler with equal weights for all lights
func NewUniformLightSampler(lights []Light) *UniformLightSampler {
	return &UniformLightSampler{lights: lights}
}

// SampleLight picks index floor(n*u), clamped to the last light
func (uls *UniformLightSampler) SampleLight(u float64) (Light, float64, int) {
	n := len(uls.lights)
	if n == 0 {
		return nil, 0.0, -1
	}
	idx := min(int(math.Floor(float64(n)*u)), n-1)
	idx = max(idx, 0)
	return uls.lights[idx], 1.0 / float64(n), idx
}

func (uls *UniformLightSampler) Probability(lightIndex int) float64 {
	if lightIndex < 0 || lightIndex >= len(uls.lights) {
		return 0.0
	}
	return 1.0 / float64(len(uls.lights))
}

func (uls *UniformLightSampler) Count() int {
	return len(uls.lights)
}

// WeightedLightSampler implements light selection with user-specified weights.
// Weights must match the order of the lights slice.
type WeightedLightSampler struct {
	lights  []Light
	weights []float64
	cdf     []float64
}

// NewWeightedLightSampler creates a light sampler with specified weights.
// Weights are normalized to sum to 1.0; all-zero weights fall back to uniform.
func NewWeightedLightSampler(lights []Light, weights []float64) *WeightedLightSampler {
	if len(lights) != len(weights) {
		panic(fmt.Sprintf("lights length (%d) must match weights length (%d)", len(lights), len(weights)))
	}
	if lo.SomeBy(weights, func(w float64) bool { return w < 0 }) {
		panic("weights must be non-negative")
	}

	normalized := make([]float64, len(weights))
	totalWeight := lo.Sum(weights)
	for i, weight := range weights {
		if totalWeight == 0 {
			normalized[i] = 1.0 / float64(len(weights))
		} else {
			normalized[i] = weight / totalWeight
		}
	}

	cdf := make([]float64, len(normalized))
	cumulative := 0.0
	for i, w := range normalized {
		cumulative += w
		cdf[i] = cumulative
	}

	return &WeightedLightSampler{lights: lights, weights: normalized, cdf: cdf}
}

// NewPowerLightSampler weights each light by the luminance of its emitted power
func NewPowerLightSampler(lights []Light) *WeightedLightSampler {
	weights := lo.Map(lights, func(light Light, _ int) float64 {
		return math.Max(0, light.Power().Luminance())
	})
	return NewWeightedLightSampler(lights, weights)
}

// SampleLight selects a light from the cumulative distribution of weights
func (wls *WeightedLightSampler) SampleLight(u float64) (Light, float64, int) {
	if len(wls.lights) == 0 {
		return nil, 0.0, -1
	}

	idx := sort.Search(len(wls.cdf), func(i int) bool { return u < wls.cdf[i] })
	if idx >= len(wls.lights) {
		// u at or past the final cdf value: fall back to the last light with weight
		idx = len(wls.lights) - 1
		for idx > 0 && wls.weights[idx] == 0 {
			idx--
		}
	}
	return wls.lights[idx], wls.weights[idx], idx
}

func (wls *WeightedLightSampler) Probability(lightIndex int) float64 {
	if lightIndex < 0 || lightIndex >= len(wls.weights) {
		return 0.0
	}
	return wls.weights[lightIndex]
}

func (wls *WeightedLightSampler) Count() int {
	return len(wls.lights)
}

// String returns a string representation for debugging
func (wls *WeightedLightSampler) String() string {
	if len(wls.lights) == 0 {
		return "WeightedLightSampler{no lights}"
	}

	result := fmt.Sprintf("WeightedLightSampler{%d lights with fixed weights:\n", len(wls.lights))
	for i, light := range wls.lights {
		result += fmt.Sprintf("  [%d] %s: %.1f%%\n", i, light.Type(), wls.weights[i]*100)
	}
	result += "}"
	return result
}
