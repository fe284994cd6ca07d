// Package snapshot renders the gallery scene off-screen with gg, for headless
// runs and tests.
//
// Bending only moves vertices along Z, so every row of a plane projects to an
// axis aligned strip. Each strip is drawn as a scaled slice of the cover
// cropped texture.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/nicky-ayoub/ebitgallery/internal/render"
	"github.com/nicky-ayoub/ebitgallery/internal/viewport"
)

// ImageLoader decodes an image source.
type ImageLoader interface {
	LoadTexture(src string) (image.Image, error)
}

// Texture is a decoded image.
type Texture struct {
	img image.Image
}

// NewTexture wraps img.
func NewTexture(img image.Image) *Texture {
	return &Texture{img: img}
}

// Size returns the texture size in pixels.
func (t *Texture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Backend draws scenes into an in-memory RGBA image.
type Backend struct {
	loader ImageLoader
	log    *slog.Logger
	dc     *gg.Context

	width, height int
	pending       sync.WaitGroup

	// Background fills the canvas before each frame.
	Background color.Color
	// Outlines strokes planes whose texture has not arrived yet.
	Outlines bool
}

// New creates a backend with a width x height canvas.
func New(loader ImageLoader, width, height int, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		loader:     loader,
		log:        logger,
		dc:         gg.NewContext(width, height),
		width:      width,
		height:     height,
		Background: color.Black,
		Outlines:   true,
	}
}

func (b *Backend) CreatePlane(widthSegments, heightSegments int) *render.Plane {
	return render.NewPlane(widthSegments, heightSegments)
}

// CreateShaderEffect keeps fragment for bookkeeping only; the cover fit it
// would perform is applied when strips are cut from the texture.
func (b *Backend) CreateShaderEffect(vertex render.VertexFunc, fragment []byte, spec render.UniformSpec) (*render.Effect, error) {
	return render.NewEffect(vertex, fragment, spec)
}

func (b *Backend) SetUniform(effect *render.Effect, name string, value any) {
	effect.Set(name, value)
}

// LoadTexture decodes src on its own goroutine.
func (b *Backend) LoadTexture(src string) <-chan render.TextureResult {
	future := make(chan render.TextureResult, 1)
	b.pending.Add(1)
	go func() {
		defer b.pending.Done()
		img, err := b.loader.LoadTexture(src)
		if err != nil {
			b.log.Warn("texture load failed", "src", src, "err", err)
			future <- render.TextureResult{Err: err}
			return
		}
		future <- render.TextureResult{Texture: NewTexture(img)}
	}()
	return future
}

// Wait blocks until every texture requested so far has resolved.
func (b *Backend) Wait() {
	b.pending.Wait()
}

// Render draws every visible mesh.
func (b *Backend) Render(scene *render.Scene, camera *viewport.Camera) {
	b.dc.SetColor(b.Background)
	b.dc.Clear()

	screen := viewport.ScreenSize{Width: float64(b.width), Height: float64(b.height)}
	viewProj := camera.ViewProjection()
	for _, m := range scene.Meshes() {
		if !m.Visible {
			continue
		}
		b.drawMesh(m, viewProj, screen)
	}
}

func (b *Backend) drawMesh(m *render.Mesh, viewProj mgl64.Mat4, screen viewport.ScreenSize) {
	model := m.Model()
	tex, _ := m.Texture.(*Texture)
	if tex == nil {
		if b.Outlines {
			b.outline(m, model, viewProj, screen)
		}
		return
	}

	tw, th := tex.Size()
	pw, ph := m.Effect.Uniforms.Vec2(render.UniformPlaneSize)
	rx, ry := render.CoverRatio(pw, ph, float64(tw), float64(th))

	p := m.Plane
	for r := 0; r < p.HeightSegments; r++ {
		top, _ := p.Row(r)
		_, bottom := p.Row(r + 1)
		x0, y0, ok0 := viewport.ProjectWith(viewProj, m.World(model, top), screen)
		x1, y1, ok1 := viewport.ProjectWith(viewProj, m.World(model, bottom-1), screen)
		if !ok0 || !ok1 || y1 <= y0 || x1 <= x0 {
			continue
		}
		if y1 < 0 || y0 > screen.Height || x1 < 0 || x0 > screen.Width {
			continue
		}
		u0, v0 := render.CoverUV(p.UVs[top].X(), p.UVs[top].Y(), rx, ry)
		u1, v1 := render.CoverUV(p.UVs[bottom-1].X(), p.UVs[bottom-1].Y(), rx, ry)
		src := Crop(tex.img, u0, v0, u1, v1)
		b.drawStrip(src, x0, y0, x1-x0, y1-y0)
	}
}

func (b *Backend) drawStrip(src image.Image, x, y, w, h float64) {
	sb := src.Bounds()
	if sb.Empty() {
		return
	}
	b.dc.Push()
	b.dc.Translate(x, y)
	b.dc.Scale(w/float64(sb.Dx()), h/float64(sb.Dy()))
	b.dc.Translate(-float64(sb.Min.X), -float64(sb.Min.Y))
	b.dc.DrawImage(src, 0, 0)
	b.dc.Pop()
}

func (b *Backend) outline(m *render.Mesh, model, viewProj mgl64.Mat4, screen viewport.ScreenSize) {
	last := len(m.Plane.Positions) - 1
	x0, y0, ok0 := viewport.ProjectWith(viewProj, m.World(model, 0), screen)
	x1, y1, ok1 := viewport.ProjectWith(viewProj, m.World(model, last), screen)
	if !ok0 || !ok1 {
		return
	}
	b.dc.SetRGBA(1, 1, 1, 0.3)
	b.dc.SetLineWidth(1)
	b.dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	b.dc.Stroke()
}

// Crop returns the part of img between texture coordinates (u0, v0) and
// (u1, v1). The result is at least one pixel in each direction.
func Crop(img image.Image, u0, v0, u1, v1 float64) image.Image {
	b := img.Bounds()
	r := image.Rect(
		b.Min.X+int(math.Floor(u0*float64(b.Dx()))),
		b.Min.Y+int(math.Floor(v0*float64(b.Dy()))),
		b.Min.X+int(math.Ceil(u1*float64(b.Dx()))),
		b.Min.Y+int(math.Ceil(v1*float64(b.Dy()))),
	)
	if r.Dx() < 1 {
		r.Max.X = r.Min.X + 1
	}
	if r.Dy() < 1 {
		r.Max.Y = r.Min.Y + 1
	}
	r = r.Intersect(b)
	if si, ok := img.(subImager); ok {
		return si.SubImage(r)
	}
	return img
}

// Image returns the canvas.
func (b *Backend) Image() image.Image {
	return b.dc.Image()
}

// SavePNG writes the canvas to path.
func (b *Backend) SavePNG(path string) error {
	if err := b.dc.SavePNG(path); err != nil {
		return fmt.Errorf("saving snapshot %s: %w", path, err)
	}
	return nil
}
