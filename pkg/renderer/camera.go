package renderer

import (
	"math"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/scene"
)

// Camera is a pinhole camera that generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	forward         core.Vec3
	width           int
	height          int
}

// NewCamera creates a camera from the scene's camera description.
// A zero Up vector defaults to +Y.
func NewCamera(config scene.CameraConfig) *Camera {
	up := config.Up
	if up.IsZero() {
		up = core.NewVec3(0, 1, 0)
	}

	aspectRatio := float64(config.Width) / float64(config.Height)
	theta := config.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * math.Tan(theta/2.0)
	viewportWidth := aspectRatio * viewportHeight

	// Orthonormal camera basis; w points backwards
	w := config.Position.Subtract(config.LookAt).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeftCorner := config.Position.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		origin:          config.Position,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		forward:         w.Negate(),
		width:           config.Width,
		height:          config.Height,
	}
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1
// and (0, 0) is the lower left corner. The direction is normalized.
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction.Normalize())
}

// PixelRay generates a ray through pixel (i, j), with (0, 0) the top left
// pixel. offset places the ray inside the pixel; (0.5, 0.5) is its center.
func (c *Camera) PixelRay(i, j int, offset core.Vec2) core.Ray {
	s := (float64(i) + offset.X) / float64(c.width)
	t := 1.0 - (float64(j)+offset.Y)/float64(c.height)
	return c.GetRay(s, t)
}

// Forward returns the viewing direction
func (c *Camera) Forward() core.Vec3 {
	return c.forward
}

// Width returns the image width in pixels
func (c *Camera) Width() int {
	return c.width
}

// Height returns the image height in pixels
func (c *Camera) Height() int {
	return c.height
}
