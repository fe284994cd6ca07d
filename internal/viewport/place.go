package viewport

// Transform is a plane's scale and centre position in world units.
type Transform struct {
	ScaleX float64
	ScaleY float64
	X      float64
	Y      float64
}

// Place maps layout bounds to a plane transform. scrollY is the vertical
// scroll origin in pixels and loopOffset the accumulated wraparound shift in
// world units. An invalid screen yields the zero Transform.
func Place(bounds Rect, screen ScreenSize, vp Size, scrollY, loopOffset float64) Transform {
	if !screen.Valid() {
		return Transform{}
	}
	t := Transform{
		ScaleX: vp.Width * bounds.Width / screen.Width,
		ScaleY: vp.Height * bounds.Height / screen.Height,
	}
	t.X = PlaneX(bounds, screen, vp, t.ScaleX, 0)
	t.Y = PlaneY(bounds, screen, vp, t.ScaleY, scrollY, loopOffset)
	return t
}

// PlaneX centres a plane of width scaleX on its layout left edge, measured
// from the horizontal scroll origin scrollX.
func PlaneX(bounds Rect, screen ScreenSize, vp Size, scaleX, scrollX float64) float64 {
	if !screen.Valid() {
		return 0
	}
	return -(vp.Width / 2) + scaleX/2 + ((bounds.Left-scrollX)/screen.Width)*vp.Width
}

// PlaneY mirrors the layout top edge into world space, where Y grows upward,
// and subtracts the loop offset.
func PlaneY(bounds Rect, screen ScreenSize, vp Size, scaleY, scrollY, loopOffset float64) float64 {
	if !screen.Valid() {
		return 0
	}
	return vp.Height/2 - scaleY/2 - ((bounds.Top-scrollY)/screen.Height)*vp.Height - loopOffset
}
