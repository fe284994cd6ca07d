// Package viewport maps screen pixel space into the world units seen by a
// perspective camera.
package viewport

import (
	"errors"
	"math"
)

// ErrDegenerateScreen is returned when a screen has no area.
var ErrDegenerateScreen = errors.New("viewport: degenerate screen size")

// ScreenSize is the drawable surface in device pixels.
type ScreenSize struct {
	Width  float64
	Height float64
}

// Valid reports whether the screen has a positive, finite area.
func (s ScreenSize) Valid() bool {
	return s.Width > 0 && s.Height > 0 && !math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// Aspect returns width over height, or 0 for an invalid screen.
func (s ScreenSize) Aspect() float64 {
	if !s.Valid() {
		return 0
	}
	return s.Width / s.Height
}

// Size is the visible area of the z=0 plane in world units.
type Size struct {
	Width  float64
	Height float64
}

// Rect is a layout bounding box in device pixels, relative to the screen's
// top-left corner.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Projector derives world viewport sizes from a camera and a screen.
// It holds no state; every call recomputes from the camera it is given.
type Projector struct{}

// Recompute returns the size of the z=0 plane visible to camera on screen.
func (Projector) Recompute(screen ScreenSize, camera *Camera) (Size, error) {
	if !screen.Valid() {
		return Size{}, ErrDegenerateScreen
	}
	fov := camera.FOV * math.Pi / 180
	height := 2 * math.Tan(fov/2) * camera.Distance()
	width := height * (screen.Width / screen.Height)
	return Size{Width: width, Height: height}, nil
}

// GalleryHeight projects a container's pixel height into world units.
func GalleryHeight(vp Size, container Rect, screen ScreenSize) float64 {
	if !screen.Valid() {
		return 0
	}
	return vp.Height * container.Height / screen.Height
}
