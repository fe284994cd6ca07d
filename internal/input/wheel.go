package input

// DeltaMode is the unit of a raw wheel delta.
type DeltaMode int

const (
	DeltaPixel DeltaMode = iota
	DeltaLine
	DeltaPage
)

// Reasonable defaults for converting wheel units to pixels.
const (
	PixelStep  = 10
	LineHeight = 40
	PageHeight = 800
)

// WheelEvent is a raw wheel reading. Positive DeltaY scrolls toward the end of
// the gallery.
type WheelEvent struct {
	DeltaY float64
	// SpinY is the discrete notch count when the device reports one.
	SpinY float64
	Mode  DeltaMode
}

// Wheel is a wheel reading expressed both in notches and in pixels.
type Wheel struct {
	SpinY  float64
	PixelY float64
}

// Normalize converts a device specific wheel reading into a stable pixel
// delta. Line and page deltas are scaled to pixels; a device that only reports
// notches gets PixelStep pixels per notch, and a device that only reports
// pixels gets a spin of one notch in the same direction.
func Normalize(ev WheelEvent) Wheel {
	w := Wheel{SpinY: ev.SpinY, PixelY: ev.DeltaY}

	if w.PixelY == 0 && w.SpinY != 0 {
		w.PixelY = w.SpinY * PixelStep
	}

	switch ev.Mode {
	case DeltaLine:
		w.PixelY *= LineHeight
	case DeltaPage:
		w.PixelY *= PageHeight
	}

	if w.PixelY != 0 && w.SpinY == 0 {
		if w.PixelY < 1 {
			w.SpinY = -1
		} else {
			w.SpinY = 1
		}
	}
	return w
}
