package layout

import (
	"testing"

	"github.com/nicky-ayoub/ebitgallery/internal/viewport"
)

func TestReflowColumn(t *testing.T) {
	doc := New([]Source{
		{Path: "a.jpg", Width: 1600, Height: 900},
		{Path: "b.jpg", Width: 1000, Height: 1000},
	}, DefaultColumn())
	doc.Reflow(viewport.ScreenSize{Width: 1920, Height: 1080})

	figs := doc.Figures()
	if len(figs) != 2 {
		t.Fatalf("figures = %d", len(figs))
	}
	a, b := figs[0].Bounds(), figs[1].Bounds()
	if a != (viewport.Rect{Top: 16, Left: 560, Width: 800, Height: 450}) {
		t.Errorf("a = %+v", a)
	}
	if b != (viewport.Rect{Top: 16 + 450 + 40, Left: 560, Width: 800, Height: 800}) {
		t.Errorf("b = %+v", b)
	}
	if got := doc.Container().Bounds().Height; got != 16+450+40+800+16 {
		t.Errorf("container height = %v", got)
	}
	if figs[1].Source() != "b.jpg" {
		t.Errorf("source = %q", figs[1].Source())
	}
}

func TestReflowNarrowScreen(t *testing.T) {
	doc := New([]Source{{Path: "a.jpg", Width: 2, Height: 1}}, DefaultColumn())
	doc.Reflow(viewport.ScreenSize{Width: 432, Height: 800})
	got := doc.Figures()[0].Bounds()
	if got.Width != 400 || got.Left != 16 || got.Height != 200 {
		t.Fatalf("got %+v", got)
	}

	doc.Reflow(viewport.ScreenSize{Width: 10, Height: 10})
	if got := doc.Figures()[0].Bounds(); got.Width != 0 || got.Height != 0 {
		t.Fatalf("tiny screen: %+v", got)
	}
}

func TestReflowIsRepeatable(t *testing.T) {
	doc := New([]Source{{Path: "a", Width: 3, Height: 4}, {Path: "b", Width: 4, Height: 3}}, DefaultColumn())
	screen := viewport.ScreenSize{Width: 1280, Height: 720}
	doc.Reflow(screen)
	first := doc.Figures()[1].Bounds()
	doc.Reflow(screen)
	if second := doc.Figures()[1].Bounds(); second != first {
		t.Fatalf("%+v != %+v", second, first)
	}
}
