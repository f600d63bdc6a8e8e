package ui

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// TouchPoint is one active touch contact in screen pixels.
type TouchPoint struct {
	ID   ebiten.TouchID
	X, Y int
}

// InputState is one frame of canvas input: wheel, pointer drag, touch
// contacts and the view keys. PollInput fills it from ebiten so Canvas.step
// can be driven with plain values.
type InputState struct {
	Quit                bool
	ToggleFullscreen    bool
	ToggleDebug         bool
	ResetViewFit        bool
	ResetViewActualSize bool

	// Pointer state. A single touch drives these the same way the left
	// mouse button does.
	WheelY         float64 // ebiten convention: positive scrolls up
	PanStart       bool    // button or touch just pressed
	PanActive      bool    // button or touch is being held down
	MouseX, MouseY int

	// Touches holds every active contact ordered by ID.
	Touches []TouchPoint
}

// PollInput gathers all raw input events for the current frame. touchBuf
// is reused to avoid a per-frame allocation.
func PollInput(touchBuf []ebiten.TouchID) (InputState, []ebiten.TouchID) {
	_, wheelY := ebiten.Wheel()
	mx, my := ebiten.CursorPosition()
	in := InputState{
		Quit:                inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		ToggleFullscreen:    inpututil.IsKeyJustPressed(ebiten.KeyF11),
		ToggleDebug:         inpututil.IsKeyJustPressed(ebiten.KeyD),
		ResetViewFit:        inpututil.IsKeyJustPressed(ebiten.KeyF),
		ResetViewActualSize: inpututil.IsKeyJustPressed(ebiten.KeyO),

		WheelY:    wheelY,
		PanStart:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		PanActive: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		MouseX:    mx,
		MouseY:    my,
	}

	touchBuf = ebiten.AppendTouchIDs(touchBuf[:0])
	sort.Slice(touchBuf, func(i, j int) bool { return touchBuf[i] < touchBuf[j] })
	for _, id := range touchBuf {
		x, y := ebiten.TouchPosition(id)
		in.Touches = append(in.Touches, TouchPoint{ID: id, X: x, Y: y})
	}

	if len(in.Touches) == 1 && !in.PanActive {
		t := in.Touches[0]
		in.MouseX, in.MouseY = t.X, t.Y
		in.PanActive = true
		in.PanStart = inpututil.TouchPressDuration(t.ID) == 1
	}
	return in, touchBuf
}
