package viewport

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera defaults.
const (
	DefaultFOV      = 45
	DefaultNear     = 0.1
	DefaultFar      = 100
	DefaultDistance = 5
)

// Camera is a perspective camera on the +Z axis looking at the origin.
type Camera struct {
	FOV      float64 // vertical field of view in degrees
	Aspect   float64
	Near     float64
	Far      float64
	Position mgl64.Vec3
}

// NewCamera returns a camera at distance on +Z with the default frustum.
func NewCamera(fov, distance float64) *Camera {
	return &Camera{
		FOV:      fov,
		Aspect:   1,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Position: mgl64.Vec3{0, 0, distance},
	}
}

// Distance is the camera's distance from the z=0 plane.
func (c *Camera) Distance() float64 {
	return c.Position.Z()
}

// SetAspect updates the aspect ratio from a screen, ignoring invalid screens.
func (c *Camera) SetAspect(screen ScreenSize) {
	if a := screen.Aspect(); a > 0 {
		c.Aspect = a
	}
}

// View returns the world to camera transform.
func (c *Camera) View() mgl64.Mat4 {
	center := c.Position.Sub(mgl64.Vec3{0, 0, 1})
	return mgl64.LookAtV(c.Position, center, mgl64.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.ProjectionMatrix().Mul4(c.View())
}

// Project maps a world point to screen pixels with the origin at the top-left.
// ok is false for points behind the camera.
func (c *Camera) Project(world mgl64.Vec3, screen ScreenSize) (x, y float64, ok bool) {
	return ProjectWith(c.ViewProjection(), world, screen)
}

// ProjectWith projects using a precomputed view-projection matrix, for callers
// projecting many vertices per frame.
func ProjectWith(vp mgl64.Mat4, world mgl64.Vec3, screen ScreenSize) (x, y float64, ok bool) {
	clip := vp.Mul4x1(world.Vec4(1))
	w := clip.W()
	if w <= 0 || math.IsNaN(w) {
		return 0, 0, false
	}
	ndcX := clip.X() / w
	ndcY := clip.Y() / w
	x = (ndcX + 1) / 2 * screen.Width
	y = (1 - ndcY) / 2 * screen.Height
	return x, y, true
}
