// Package ui polls ebiten input for the gallery and draws its diagnostics.
package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/nicky-ayoub/ebitgallery/internal/gallery"
)

// HUDText formats controller stats for the debug overlay.
func HUDText(s gallery.Stats, tps float64) string {
	auto := "off"
	if s.Autoscroll {
		auto = "on"
	}
	return fmt.Sprintf("TPS: %0.1f\nFrame: %d\nScroll: %0.2f -> %0.2f (%s, v=%0.3f)\nAutoscroll: %s\nTextures: %d/%d (%d failed)\nFailures: %d",
		tps,
		s.Frame,
		s.Current, s.Target, s.Direction, s.Velocity,
		auto,
		s.TexturesReady, s.Items, s.TextureErrors,
		s.Failures)
}

// DrawHUD prints the stats in the top-left corner of screen.
func DrawHUD(screen *ebiten.Image, s gallery.Stats) {
	ebitenutil.DebugPrint(screen, HUDText(s, ebiten.ActualTPS()))
}
