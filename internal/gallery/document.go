package gallery

import (
	"github.com/nicky-ayoub/ebitgallery/internal/layout"
	"github.com/nicky-ayoub/ebitgallery/internal/viewport"
)

// Bounder reports a layout bounding box in screen pixels.
type Bounder interface {
	Bounds() viewport.Rect
}

// Element is one laid out gallery entry with its image source.
type Element interface {
	Bounder
	Source() string
}

// Document is the gallery structure the controller reads. It is never
// modified by the gallery.
type Document interface {
	Container() Bounder
	Items() []Element
}

type layoutDocument struct {
	doc *layout.Document
}

// FromLayout adapts a column layout into a Document.
func FromLayout(doc *layout.Document) Document {
	return layoutDocument{doc: doc}
}

func (d layoutDocument) Container() Bounder {
	if d.doc == nil {
		return nil
	}
	return d.doc.Container()
}

func (d layoutDocument) Items() []Element {
	if d.doc == nil {
		return nil
	}
	figs := d.doc.Figures()
	els := make([]Element, len(figs))
	for i, f := range figs {
		els[i] = f
	}
	return els
}
