package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/nicky-ayoub/ebitgallery/internal/gallery"
	"github.com/nicky-ayoub/ebitgallery/internal/layout"
	"github.com/nicky-ayoub/ebitgallery/internal/render/screen"
	"github.com/nicky-ayoub/ebitgallery/internal/ui"
	"github.com/nicky-ayoub/ebitgallery/internal/viewport"
)

// Game hosts the gallery in an ebiten window. Input, ticks and rendering all
// happen in Update; Draw only blits the finished canvas.
type Game struct {
	ctrl    *gallery.Controller
	loop    *gallery.Loop
	backend *screen.Backend
	doc     *layout.Document

	width, height int
	showHUD       bool
}

func newGame(ctrl *gallery.Controller, backend *screen.Backend, doc *layout.Document, showHUD bool) *Game {
	s := ctrl.Screen()
	backend.SetSize(int(s.Width), int(s.Height))
	backend.Outlines = showHUD
	return &Game{
		ctrl:    ctrl,
		loop:    gallery.NewLoop(ctrl.Tick),
		backend: backend,
		doc:     doc,
		width:   int(s.Width),
		height:  int(s.Height),
		showHUD: showHUD,
	}
}

func (g *Game) Update() error {
	// 1. Poll all input at the beginning of the frame.
	input := ui.PollInput()

	// 2. Handle window level input immediately.
	if input.Quit {
		g.loop.Stop()
	}
	if input.ToggleFullscreen {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if input.ToggleHUD {
		g.showHUD = !g.showHUD
		g.backend.Outlines = g.showHUD
	}
	if input.ToggleAutoscroll {
		if g.ctrl.ToggleAutoscroll() {
			log.Printf("Autoscroll resumed")
		} else {
			log.Printf("Autoscroll paused")
		}
	}

	// 3. Scroll input writes targets before the tick reads them.
	ui.ApplyScroll(input, g.ctrl.Input())

	// 4. Advance and render the gallery.
	if !g.loop.Step() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if canvas := g.backend.Canvas(); canvas != nil {
		screen.DrawImage(canvas, nil)
	}
	if g.showHUD {
		ui.DrawHUD(screen, g.ctrl.Stats())
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	// The logical screen matches the window so the canvas maps 1:1 to pixels.
	if outsideWidth != g.width || outsideHeight != g.height {
		g.resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// resize reflows the page for the new window and re-projects the gallery.
func (g *Game) resize(width, height int) {
	size := viewport.ScreenSize{Width: float64(width), Height: float64(height)}
	if !size.Valid() {
		return
	}
	g.width, g.height = width, height
	g.backend.SetSize(width, height)
	g.doc.Reflow(size)
	g.ctrl.Resize(size)
}
