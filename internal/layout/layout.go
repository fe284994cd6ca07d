// Package layout flows gallery figures into a centred vertical column and
// reports their bounding boxes in screen pixels.
package layout

import (
	"math"

	"github.com/nicky-ayoub/ebitgallery/internal/viewport"
)

const (
	DefaultMaxWidth = 800
	DefaultGap      = 40
	DefaultPadding  = 16
)

// Column describes the flow: figures are full column width up to MaxWidth,
// separated by Gap, inside Padding on every side.
type Column struct {
	MaxWidth float64
	Gap      float64
	Padding  float64
}

// DefaultColumn returns the stock column metrics.
func DefaultColumn() Column {
	return Column{MaxWidth: DefaultMaxWidth, Gap: DefaultGap, Padding: DefaultPadding}
}

// Source is one image to place, with its natural pixel size.
type Source struct {
	Path   string
	Width  int
	Height int
}

// Box is a laid out element.
type Box struct {
	bounds viewport.Rect
}

// Bounds returns the current bounding box.
func (b *Box) Bounds() viewport.Rect {
	return b.bounds
}

func (b *Box) set(r viewport.Rect) {
	b.bounds = r
}

// Figure is a box holding one image.
type Figure struct {
	Box
	src    string
	aspect float64 // height / width
}

// Source returns the image path.
func (f *Figure) Source() string {
	return f.src
}

// Document is the gallery container and its figures.
type Document struct {
	column    Column
	container *Box
	figures   []*Figure
}

// New creates a document for sources. Bounds are empty until Reflow.
func New(sources []Source, column Column) *Document {
	d := &Document{column: column, container: &Box{}}
	for _, s := range sources {
		aspect := 0.0
		if s.Width > 0 && s.Height > 0 {
			aspect = float64(s.Height) / float64(s.Width)
		}
		d.figures = append(d.figures, &Figure{src: s.Path, aspect: aspect})
	}
	return d
}

// Container returns the box enclosing every figure.
func (d *Document) Container() *Box {
	return d.container
}

// Figures returns the figures in flow order.
func (d *Document) Figures() []*Figure {
	return d.figures
}

// Reflow lays every figure out for screen.
func (d *Document) Reflow(screen viewport.ScreenSize) {
	c := d.column
	width := math.Max(screen.Width-2*c.Padding, 0)
	if c.MaxWidth > 0 {
		width = math.Min(width, c.MaxWidth)
	}
	left := (screen.Width - width) / 2

	y := c.Padding
	for i, f := range d.figures {
		if i > 0 {
			y += c.Gap
		}
		h := width * f.aspect
		f.set(viewport.Rect{Top: y, Left: left, Width: width, Height: h})
		y += h
	}
	y += c.Padding

	d.container.set(viewport.Rect{Top: 0, Left: 0, Width: screen.Width, Height: y})
}
