package integrator

import (
	"errors"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/scene"
)

var (
	// ErrInvalidConfig is returned by Build when the configuration is unusable
	ErrInvalidConfig = errors.New("invalid integrator configuration")
	// ErrNoLights is returned by Build when the scene has nothing to trace from
	ErrNoLights = errors.New("scene has no lights")
	// ErrAlreadyBuilt is returned by a second call to Build
	ErrAlreadyBuilt = errors.New("integrator is already built")
	// ErrNotBuilt is returned by Integrate before Build has succeeded
	ErrNotBuilt = errors.New("integrator is not built")
)

// Integrator defines the interface for light transport algorithms.
// Build runs once and moves the integrator from unbuilt to built; Integrate
// is only valid afterwards and may be called concurrently.
type Integrator interface {
	// Build performs the preliminary work for the scene (e.g. photon tracing)
	Build(scene *scene.Scene, sampler core.Sampler) error

	// Integrate computes the radiance arriving along ray
	Integrate(ray core.Ray, scene *scene.Scene, sampler core.Sampler) (core.Vec3, error)
}

// russianRoulette decides whether a path with the given throughput survives
// the draw u. The survival probability is the largest throughput component
// clamped to 1; survivors are divided by it to stay unbiased.
func russianRoulette(throughput core.Vec3, u float64) (core.Vec3, bool) {
	p := min(throughput.MaxComponent(), 1.0)
	if u >= p {
		return core.Vec3{}, false
	}
	return throughput.Multiply(1.0 / p), true
}

// usablePDF reports whether a density can be divided by
func usablePDF(pdf float64) bool {
	return pdf > 0 && core.IsFinite(pdf)
}

// usableDirection reports whether a direction is finite and not degenerate
func usableDirection(d core.Vec3) bool {
	return d.IsFinite() && d.LengthSquared() > 1e-24
}

// usableThroughput reports whether a throughput can keep propagating
func usableThroughput(t core.Vec3) bool {
	return t.IsFinite() && t.IsNonNegative()
}
