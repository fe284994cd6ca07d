// Package gallery positions image planes for an endlessly looping, scroll
// driven gallery and runs its frame loop.
package gallery

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nicky-ayoub/ebitgallery/internal/input"
	"github.com/nicky-ayoub/ebitgallery/internal/render"
	"github.com/nicky-ayoub/ebitgallery/internal/scroll"
	"github.com/nicky-ayoub/ebitgallery/internal/viewport"
)

var (
	ErrNoContainer = errors.New("gallery: missing container")
	ErrNoItems     = errors.New("gallery: no items")
)

// Options configures a Controller.
type Options struct {
	Screen          viewport.ScreenSize
	FOV             float64
	CameraDistance  float64
	Scroll          scroll.Options
	DragSensitivity float64
	WheelMultiplier float64
	Item            ItemOptions
	Logger          *slog.Logger
}

// DefaultOptions returns the stock camera, scroll and item settings.
func DefaultOptions() Options {
	return Options{
		FOV:             viewport.DefaultFOV,
		CameraDistance:  viewport.DefaultDistance,
		Scroll:          scroll.DefaultOptions(),
		DragSensitivity: input.DefaultDragSensitivity,
		WheelMultiplier: input.DefaultWheelMultiplier,
		Item: ItemOptions{
			Segments:     DefaultSegments,
			StrengthGain: DefaultStrengthGain,
		},
	}
}

// Controller owns the items, camera and scene and advances them one frame at
// a time. It is not safe for concurrent use; input and ticks share the frame
// goroutine.
type Controller struct {
	doc       Document
	backend   render.Backend
	camera    *viewport.Camera
	scene     *render.Scene
	projector viewport.Projector
	scroll    *scroll.State
	input     *input.Controller
	items     []*Item
	log       *slog.Logger

	screen        viewport.ScreenSize
	vp            viewport.Size
	galleryHeight float64

	frame      uint64
	failures   uint64
	pausedBias float64
}

// New builds a controller with one item per document element. Any invalid
// element aborts construction.
func New(doc Document, backend render.Backend, opts Options) (*Controller, error) {
	if doc == nil || doc.Container() == nil {
		return nil, ErrNoContainer
	}
	elements := doc.Items()
	if len(elements) == 0 {
		return nil, ErrNoItems
	}
	if opts.FOV <= 0 {
		opts.FOV = viewport.DefaultFOV
	}
	if opts.CameraDistance <= 0 {
		opts.CameraDistance = viewport.DefaultDistance
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Item.Logger == nil {
		opts.Item.Logger = opts.Logger
	}

	c := &Controller{
		doc:     doc,
		backend: backend,
		camera:  viewport.NewCamera(opts.FOV, opts.CameraDistance),
		scene:   render.NewScene(),
		scroll:  scroll.NewState(opts.Scroll),
		log:     opts.Logger,
	}
	c.input = input.NewController(c.scroll)
	if opts.DragSensitivity != 0 {
		c.input.DragSensitivity = opts.DragSensitivity
	}
	if opts.WheelMultiplier != 0 {
		c.input.WheelMultiplier = opts.WheelMultiplier
	}

	if err := c.project(opts.Screen); err != nil {
		c.log.Warn("initial screen size unusable, waiting for resize", "width", opts.Screen.Width, "height", opts.Screen.Height)
	}

	sizes := c.sizes()
	c.items = make([]*Item, 0, len(elements))
	for i, el := range elements {
		it, err := NewItem(i, el, c.scene, backend, sizes, opts.Item)
		if err != nil {
			return nil, fmt.Errorf("gallery item %d: %w", i, err)
		}
		c.items = append(c.items, it)
	}
	c.log.Debug("gallery created", "items", len(c.items), "galleryHeight", c.galleryHeight)
	return c, nil
}

func (c *Controller) sizes() Sizes {
	return Sizes{GalleryHeight: c.galleryHeight, Screen: c.screen, Viewport: c.vp}
}

// project recomputes the camera aspect, world viewport and gallery height
// for screen. Nothing changes when screen is degenerate.
func (c *Controller) project(screen viewport.ScreenSize) error {
	if !screen.Valid() {
		return viewport.ErrDegenerateScreen
	}
	c.camera.SetAspect(screen)
	vp, err := c.projector.Recompute(screen, c.camera)
	if err != nil {
		return err
	}
	c.screen = screen
	c.vp = vp
	c.galleryHeight = viewport.GalleryHeight(vp, c.doc.Container().Bounds(), screen)
	return nil
}

// Resize re-projects the viewport for screen and propagates the new sizes to
// every item. Degenerate sizes are skipped and reported as false.
func (c *Controller) Resize(screen viewport.ScreenSize) bool {
	if err := c.project(screen); err != nil {
		c.log.Debug("skipping resize", "width", screen.Width, "height", screen.Height, "err", err)
		return false
	}
	sizes := c.sizes()
	for _, it := range c.items {
		it.OnResize(sizes)
	}
	return true
}

// Tick runs one frame: advance the scroll, update every item, render, then
// roll the scroll value over for the next frame's velocity.
func (c *Controller) Tick() {
	c.scroll.Step()
	dir := c.scroll.Direction()
	for _, it := range c.items {
		c.updateItem(it, dir)
	}
	c.render()
	c.scroll.Settle()
	c.frame++
}

func (c *Controller) updateItem(it *Item, dir scroll.Direction) {
	defer func() {
		if r := recover(); r != nil {
			c.failures++
			c.log.Error("item update failed", "item", it.Index(), "source", it.Source(), "frame", c.frame, "panic", r)
		}
	}()
	it.Update(c.scroll, dir)
}

func (c *Controller) render() {
	defer func() {
		if r := recover(); r != nil {
			c.failures++
			c.log.Error("render failed", "frame", c.frame, "panic", r)
		}
	}()
	c.backend.Render(c.scene, c.camera)
}

// ToggleAutoscroll pauses or resumes the autoscroll bias and reports whether
// autoscroll is now running.
func (c *Controller) ToggleAutoscroll() bool {
	if b := c.scroll.Bias(); b != 0 {
		c.pausedBias = b
		c.scroll.SetBias(0)
		return false
	}
	if c.pausedBias == 0 {
		return false
	}
	c.scroll.SetBias(c.pausedBias)
	return true
}

// Scroll returns the shared scroll state.
func (c *Controller) Scroll() *scroll.State { return c.scroll }

// Input returns the input controller writing scroll targets.
func (c *Controller) Input() *input.Controller { return c.input }

// Direction returns the current scroll direction.
func (c *Controller) Direction() scroll.Direction { return c.scroll.Direction() }

// Items returns the gallery items in document order.
func (c *Controller) Items() []*Item { return c.items }

// Camera returns the perspective camera.
func (c *Controller) Camera() *viewport.Camera { return c.camera }

// Scene returns the scene holding every item's mesh.
func (c *Controller) Scene() *render.Scene { return c.scene }

// Screen returns the last valid screen size.
func (c *Controller) Screen() viewport.ScreenSize { return c.screen }

// Viewport returns the world viewport size.
func (c *Controller) Viewport() viewport.Size { return c.vp }

// GalleryHeight returns the gallery column height in world units.
func (c *Controller) GalleryHeight() float64 { return c.galleryHeight }

// Frame returns the number of completed ticks.
func (c *Controller) Frame() uint64 { return c.frame }

// Stats is a snapshot for on-screen diagnostics.
type Stats struct {
	Frame         uint64
	Current       float64
	Target        float64
	Velocity      float64
	Direction     scroll.Direction
	Autoscroll    bool
	Items         int
	TexturesReady int
	TextureErrors int
	Failures      uint64
}

// Stats reports the controller's current state.
func (c *Controller) Stats() Stats {
	s := Stats{
		Frame:      c.frame,
		Current:    c.scroll.Current,
		Target:     c.scroll.Target,
		Velocity:   c.scroll.Velocity(),
		Direction:  c.scroll.Direction(),
		Autoscroll: c.scroll.Bias() != 0,
		Items:      len(c.items),
		Failures:   c.failures,
	}
	for _, it := range c.items {
		if it.TextureReady() {
			s.TexturesReady++
		}
		if it.TextureErr() != nil {
			s.TextureErrors++
		}
	}
	return s
}
