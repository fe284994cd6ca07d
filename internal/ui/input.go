package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/nicky-ayoub/ebitgallery/internal/input"
)

// InputState holds the polled state of inputs for a single frame.
// This separates input polling from input handling logic.
type InputState struct {
	Quit             bool
	ToggleFullscreen bool
	ToggleHUD        bool
	ToggleAutoscroll bool
	NudgeUp          bool
	NudgeDown        bool

	// Pointer state, from the mouse or the first touch
	WheelY     float64 // ebiten wheel offset, positive when the wheel moves away from the user
	DragStart  bool    // Button or touch just pressed
	DragActive bool    // Button or touch is being held down
	PointerY   int
}

// PollInput gathers all raw input events for the current frame.
func PollInput() InputState {
	_, wheelY := ebiten.Wheel()
	_, my := ebiten.CursorPosition()
	in := InputState{
		Quit:             inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		ToggleFullscreen: inpututil.IsKeyJustPressed(ebiten.KeyF11),
		ToggleHUD:        inpututil.IsKeyJustPressed(ebiten.KeyH),
		ToggleAutoscroll: inpututil.IsKeyJustPressed(ebiten.KeySpace),
		NudgeUp:          inpututil.IsKeyJustPressed(ebiten.KeyArrowUp),
		NudgeDown:        inpututil.IsKeyJustPressed(ebiten.KeyArrowDown),

		WheelY:     wheelY,
		DragStart:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		DragActive: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		PointerY:   my,
	}

	// Touch screens drag with the first finger down.
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		_, ty := ebiten.TouchPosition(ids[0])
		in.DragActive = true
		in.PointerY = ty
		in.DragStart = inpututil.IsTouchJustPressed(ids[0])
	}
	return in
}

// ApplyScroll feeds the wheel, arrow and drag parts of in to c.
func ApplyScroll(in InputState, c *input.Controller) {
	if in.WheelY != 0 {
		c.OnWheel(input.WheelEvent{DeltaY: -in.WheelY, Mode: input.DeltaLine})
	}
	if in.NudgeUp {
		c.OnWheel(input.WheelEvent{DeltaY: -1, Mode: input.DeltaLine})
	}
	if in.NudgeDown {
		c.OnWheel(input.WheelEvent{DeltaY: 1, Mode: input.DeltaLine})
	}

	// --- Dragging ---
	if in.DragStart {
		c.OnDragStart(float64(in.PointerY))
	}
	if c.Dragging() {
		if in.DragActive {
			c.OnDragMove(float64(in.PointerY))
		} else {
			// Stop dragging when the button is released
			c.OnDragEnd()
		}
	}
}
