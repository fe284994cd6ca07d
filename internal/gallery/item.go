package gallery

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/nicky-ayoub/ebitgallery/internal/render"
	"github.com/nicky-ayoub/ebitgallery/internal/scroll"
	"github.com/nicky-ayoub/ebitgallery/internal/viewport"
)

var (
	ErrNoElement = errors.New("gallery: missing element")
	ErrNoImage   = errors.New("gallery: element has no image source")
)

const (
	DefaultSegments     = 32
	DefaultStrengthGain = 15
)

// Phase is an item's position relative to the viewport for the current frame.
type Phase int

const (
	Visible Phase = iota
	// ExitingBefore: the plane's top edge is below the viewport.
	ExitingBefore
	// ExitingAfter: the plane's bottom edge is above the viewport.
	ExitingAfter
	// Wrapped: the item moved by one gallery height this frame.
	Wrapped
)

func (p Phase) String() string {
	switch p {
	case ExitingBefore:
		return "exiting-before"
	case ExitingAfter:
		return "exiting-after"
	case Wrapped:
		return "wrapped"
	default:
		return "visible"
	}
}

// Sizes carries the measurements an item is laid out against. Zero fields
// mean "unchanged" when passed to OnResize.
type Sizes struct {
	GalleryHeight float64
	Screen        viewport.ScreenSize
	Viewport      viewport.Size
}

// ItemOptions configures item construction.
type ItemOptions struct {
	Segments     int
	StrengthGain float64
	// Fragment is handed to the backend; nil selects its built-in program.
	Fragment []byte
	Logger   *slog.Logger
}

// Item is one textured plane in the gallery.
type Item struct {
	index   int
	element Element
	backend render.Backend
	mesh    *render.Mesh
	texture <-chan render.TextureResult
	log     *slog.Logger

	sizes     Sizes
	bounds    viewport.Rect
	transform viewport.Transform
	extra     float64
	phase     Phase
	strength  float64
	gain      float64

	textureErr error
}

// NewItem builds the plane for el, adds it to scene and starts loading its
// texture. A missing element or image source is an error and leaves the
// scene untouched.
func NewItem(index int, el Element, scene *render.Scene, backend render.Backend, sizes Sizes, opts ItemOptions) (*Item, error) {
	if el == nil {
		return nil, ErrNoElement
	}
	src := el.Source()
	if src == "" {
		return nil, ErrNoImage
	}
	if opts.Segments <= 0 {
		opts.Segments = DefaultSegments
	}
	if opts.StrengthGain == 0 {
		opts.StrengthGain = DefaultStrengthGain
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	plane := backend.CreatePlane(opts.Segments, opts.Segments)
	effect, err := backend.CreateShaderEffect(render.Bend, opts.Fragment, render.GalleryUniforms)
	if err != nil {
		return nil, fmt.Errorf("creating effect for %s: %w", src, err)
	}

	it := &Item{
		index:   index,
		element: el,
		backend: backend,
		mesh:    render.NewMesh(plane, effect),
		log:     opts.Logger.With("item", index, "source", src),
		sizes:   sizes,
		gain:    opts.StrengthGain,
	}
	backend.SetUniform(effect, render.UniformViewportSize, [2]float64{sizes.Viewport.Width, sizes.Viewport.Height})
	scene.Add(it.mesh)
	it.texture = backend.LoadTexture(src)
	it.CreateBounds()
	return it, nil
}

// CreateBounds re-reads the element's bounds and places the plane with the
// scroll origin at zero.
func (it *Item) CreateBounds() {
	it.bounds = it.element.Bounds()
	it.transform = viewport.Place(it.bounds, it.sizes.Screen, it.sizes.Viewport, 0, it.extra)
	it.mesh.Scale = mgl64.Vec3{it.transform.ScaleX, it.transform.ScaleY, 1}
	it.mesh.Position = mgl64.Vec3{it.transform.X, it.transform.Y, 0}
	it.backend.SetUniform(it.mesh.Effect, render.UniformPlaneSize, [2]float64{it.transform.ScaleX, it.transform.ScaleY})
}

// Update positions the plane for the frame's scroll offset, feeds the
// distortion strength and wraps the item at most once.
func (it *Item) Update(s *scroll.State, dir scroll.Direction) {
	it.pollTexture()

	it.transform.Y = viewport.PlaneY(it.bounds, it.sizes.Screen, it.sizes.Viewport, it.transform.ScaleY, s.Current, it.extra)
	it.mesh.Position[1] = it.transform.Y

	it.strength = 0
	if it.sizes.Screen.Width > 0 {
		it.strength = (s.Current - s.Last) / it.sizes.Screen.Width * it.gain
	}
	it.backend.SetUniform(it.mesh.Effect, render.UniformStrength, it.strength)

	it.advance(dir)
}

// advance evaluates the phase for this frame and applies at most one wrap.
// A wrap only fires from an Exiting phase and always ends in Wrapped, so a
// second shift in the same frame is impossible.
func (it *Item) advance(dir scroll.Direction) {
	half := it.transform.ScaleY / 2
	edge := it.sizes.Viewport.Height / 2
	y := it.transform.Y

	switch {
	case y+half < -edge:
		it.phase = ExitingBefore
	case y-half > edge:
		it.phase = ExitingAfter
	default:
		it.phase = Visible
	}

	switch {
	case dir == scroll.Up && it.phase == ExitingBefore:
		it.extra -= it.sizes.GalleryHeight
		it.phase = Wrapped
	case dir == scroll.Down && it.phase == ExitingAfter:
		it.extra += it.sizes.GalleryHeight
		it.phase = Wrapped
	}
}

// OnResize applies changed sizes, recentres the loop and rebuilds bounds.
func (it *Item) OnResize(s Sizes) {
	if s.GalleryHeight != 0 {
		it.sizes.GalleryHeight = s.GalleryHeight
	}
	if s.Screen.Valid() {
		it.sizes.Screen = s.Screen
	}
	if s.Viewport != (viewport.Size{}) {
		it.sizes.Viewport = s.Viewport
		it.backend.SetUniform(it.mesh.Effect, render.UniformViewportSize, [2]float64{s.Viewport.Width, s.Viewport.Height})
	}
	it.extra = 0
	it.phase = Visible
	it.CreateBounds()
}

func (it *Item) pollTexture() {
	if it.texture == nil {
		return
	}
	select {
	case res := <-it.texture:
		it.texture = nil
		if res.Err == nil && res.Texture == nil {
			res.Err = errors.New("backend returned no texture")
		}
		if res.Err != nil {
			it.textureErr = res.Err
			it.log.Warn("texture unavailable, plane stays empty", "err", res.Err)
			return
		}
		it.mesh.Texture = res.Texture
		w, h := res.Texture.Size()
		it.backend.SetUniform(it.mesh.Effect, render.UniformImageSize, [2]float64{float64(w), float64(h)})
	default:
	}
}

// Index is the item's position in the gallery.
func (it *Item) Index() int { return it.index }

// Source is the image the item displays.
func (it *Item) Source() string { return it.element.Source() }

// Phase returns the phase computed by the last Update.
func (it *Item) Phase() Phase { return it.phase }

// IsBefore reports whether the plane has left the viewport at the bottom.
func (it *Item) IsBefore() bool { return it.phase == ExitingBefore }

// IsAfter reports whether the plane has left the viewport at the top.
func (it *Item) IsAfter() bool { return it.phase == ExitingAfter }

// LoopOffset is the accumulated wraparound shift in world units.
func (it *Item) LoopOffset() float64 { return it.extra }

// Strength is the distortion strength sent in the last Update.
func (it *Item) Strength() float64 { return it.strength }

// Transform returns the plane's current scale and position.
func (it *Item) Transform() viewport.Transform { return it.transform }

// Bounds returns the layout bounds read by the last CreateBounds.
func (it *Item) Bounds() viewport.Rect { return it.bounds }

// Mesh returns the item's scene mesh.
func (it *Item) Mesh() *render.Mesh { return it.mesh }

// TextureReady reports whether the texture has been attached.
func (it *Item) TextureReady() bool { return it.mesh.Texture != nil }

// TextureErr returns the texture load failure, if any.
func (it *Item) TextureErr() error { return it.textureErr }
