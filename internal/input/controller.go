// Package input turns wheel and drag gestures into scroll target changes.
package input

import "github.com/nicky-ayoub/ebitgallery/internal/scroll"

const (
	DefaultDragSensitivity = 0.1
	DefaultWheelMultiplier = 1.0
)

// Controller owns the drag state and writes scroll targets. It never touches
// the eased Current value; every change reaches the screen through Step.
type Controller struct {
	state *scroll.State

	DragSensitivity float64
	WheelMultiplier float64

	dragging       bool
	startY         float64
	positionAtDrag float64
}

// NewController creates a Controller writing into state.
func NewController(state *scroll.State) *Controller {
	return &Controller{
		state:           state,
		DragSensitivity: DefaultDragSensitivity,
		WheelMultiplier: DefaultWheelMultiplier,
	}
}

// OnWheel normalizes a raw wheel reading and applies it.
func (c *Controller) OnWheel(ev WheelEvent) {
	c.OnWheelDelta(Normalize(ev).PixelY)
}

// OnWheelDelta adds an already normalized pixel delta to the target.
func (c *Controller) OnWheelDelta(pixelDeltaY float64) {
	c.state.Target += pixelDeltaY * c.WheelMultiplier
}

// OnDragStart captures the pointer and the eased offset it grabbed.
func (c *Controller) OnDragStart(pointerY float64) {
	c.dragging = true
	c.positionAtDrag = c.state.Current
	c.startY = pointerY
}

// OnDragMove retargets relative to the drag origin. Moves outside a drag are
// ignored.
func (c *Controller) OnDragMove(pointerY float64) {
	if !c.dragging {
		return
	}
	distance := (c.startY - pointerY) * c.DragSensitivity
	c.state.Target = c.positionAtDrag + distance
}

// OnDragEnd releases the drag. The target stays where the drag left it.
func (c *Controller) OnDragEnd() {
	c.dragging = false
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}
