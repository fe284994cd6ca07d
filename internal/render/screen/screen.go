// Package screen renders the gallery scene with ebiten.
package screen

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/nicky-ayoub/ebitgallery/internal/render"
	"github.com/nicky-ayoub/ebitgallery/internal/viewport"
)

//go:embed distort.kage
var distortKage []byte

// DistortProgram returns the built-in Kage fragment program.
func DistortProgram() []byte {
	return distortKage
}

// ImageLoader decodes an image source off the frame goroutine.
type ImageLoader interface {
	LoadTexture(src string) (image.Image, error)
}

// Texture is a texture uploaded to ebiten.
type Texture struct {
	img *ebiten.Image
}

// Size returns the texture size in pixels.
func (t *Texture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the ebiten image.
func (t *Texture) Image() *ebiten.Image {
	return t.img
}

// textureJob represents a request to load a texture.
type textureJob struct {
	src    string
	future chan render.TextureResult
}

// textureResult holds a decoded image, ready to be converted to an ebiten.Image.
type textureResult struct {
	job textureJob
	img image.Image
	err error
}

// Backend draws scenes into an offscreen canvas that the host blits to the
// window. Decoding happens on loader goroutines; ebiten images are created on
// the frame goroutine inside Render.
type Backend struct {
	loader ImageLoader
	log    *slog.Logger

	canvas        *ebiten.Image
	width, height int
	placeholder   *ebiten.Image
	shaders       map[string]*ebiten.Shader

	queue     []textureJob
	jobs      chan textureJob
	results   chan textureResult
	closeOnce sync.Once

	// Outlines strokes every plane's projected bounds.
	Outlines bool

	projected []render.ScreenVertex
	vertices  []ebiten.Vertex
}

// New creates a backend with the given number of loader goroutines.
func New(loader ImageLoader, workers int, logger *slog.Logger) *Backend {
	if workers <= 0 {
		workers = 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backend{
		loader:      loader,
		log:         logger,
		placeholder: ebiten.NewImage(1, 1),
		shaders:     make(map[string]*ebiten.Shader),
		jobs:        make(chan textureJob, 16),
		results:     make(chan textureResult, 16),
	}
	for i := 0; i < workers; i++ {
		go b.load()
	}
	return b
}

// load is a background worker that decodes queued textures.
func (b *Backend) load() {
	for job := range b.jobs {
		img, err := b.loader.LoadTexture(job.src)
		b.results <- textureResult{job: job, img: img, err: err}
	}
}

// Close stops the loader goroutines.
func (b *Backend) Close() {
	b.closeOnce.Do(func() { close(b.jobs) })
}

// SetSize sets the canvas size in pixels. The canvas is reallocated on the
// next Render.
func (b *Backend) SetSize(width, height int) {
	b.width, b.height = width, height
}

// Canvas returns the image produced by the last Render, or nil before the
// first one.
func (b *Backend) Canvas() *ebiten.Image {
	return b.canvas
}

func (b *Backend) CreatePlane(widthSegments, heightSegments int) *render.Plane {
	return render.NewPlane(widthSegments, heightSegments)
}

// CreateShaderEffect compiles fragment as a Kage program, or the built-in
// distortion program when fragment is nil. Identical programs share one
// compiled shader.
func (b *Backend) CreateShaderEffect(vertex render.VertexFunc, fragment []byte, spec render.UniformSpec) (*render.Effect, error) {
	if fragment == nil {
		fragment = distortKage
	}
	e, err := render.NewEffect(vertex, fragment, spec)
	if err != nil {
		return nil, err
	}
	key := string(fragment)
	shader, ok := b.shaders[key]
	if !ok {
		shader, err = ebiten.NewShader(fragment)
		if err != nil {
			return nil, fmt.Errorf("compiling shader: %w", err)
		}
		b.shaders[key] = shader
	}
	e.Program = shader
	return e, nil
}

func (b *Backend) SetUniform(effect *render.Effect, name string, value any) {
	effect.Set(name, value)
}

// LoadTexture queues src for decoding and returns immediately.
func (b *Backend) LoadTexture(src string) <-chan render.TextureResult {
	future := make(chan render.TextureResult, 1)
	b.queue = append(b.queue, textureJob{src: src, future: future})
	return future
}

// pump hands queued jobs to the loaders without blocking and uploads any
// decoded images. It must run on the frame goroutine.
func (b *Backend) pump() {
	n := 0
	for _, job := range b.queue {
		sent := false
		select {
		case b.jobs <- job:
			sent = true
		default:
			// Job queue is full, we'll try again on the next frame.
		}
		if !sent {
			break
		}
		n++
	}
	b.queue = b.queue[n:]

	for {
		select {
		case res := <-b.results:
			if res.err != nil {
				b.log.Warn("texture load failed", "src", res.job.src, "err", res.err)
				res.job.future <- render.TextureResult{Err: res.err}
				continue
			}
			res.job.future <- render.TextureResult{Texture: &Texture{img: ebiten.NewImageFromImage(res.img)}}
		default:
			return
		}
	}
}

// Render draws every visible mesh into the canvas.
func (b *Backend) Render(scene *render.Scene, camera *viewport.Camera) {
	b.pump()

	if b.width <= 0 || b.height <= 0 {
		return
	}
	if b.canvas == nil || b.canvas.Bounds().Dx() != b.width || b.canvas.Bounds().Dy() != b.height {
		if b.canvas != nil {
			b.canvas.Deallocate()
		}
		b.canvas = ebiten.NewImage(b.width, b.height)
	}
	b.canvas.Clear()

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
	var ok bool
	b.projected, ok = m.Project(viewProj, screen, b.projected)
	if !ok {
		return
	}
	minX, minY, maxX, maxY := bounds(b.projected)
	if maxX < 0 || maxY < 0 || minX > screen.Width || minY > screen.Height {
		return
	}

	src := b.placeholder
	if t, ok := m.Texture.(*Texture); ok {
		src = t.img
	}
	sw := float64(src.Bounds().Dx())
	sh := float64(src.Bounds().Dy())

	b.vertices = b.vertices[:0]
	for _, v := range b.projected {
		b.vertices = append(b.vertices, ebiten.Vertex{
			DstX:   float32(v.X),
			DstY:   float32(v.Y),
			SrcX:   float32(v.U * sw),
			SrcY:   float32(v.V * sh),
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		})
	}

	shader, _ := m.Effect.Program.(*ebiten.Shader)
	if shader != nil {
		op := &ebiten.DrawTrianglesShaderOptions{Uniforms: m.Effect.Uniforms}
		op.Images[0] = src
		b.canvas.DrawTrianglesShader(b.vertices, m.Plane.Indices, shader, op)
	}

	if b.Outlines {
		vector.StrokeRect(b.canvas, float32(minX), float32(minY), float32(maxX-minX), float32(maxY-minY), 1,
			color.RGBA{R: 0xff, G: 0xff, B: 0, A: 0xff}, false)
	}
}

func bounds(vs []render.ScreenVertex) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, v := range vs {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	return minX, minY, maxX, maxY
}
