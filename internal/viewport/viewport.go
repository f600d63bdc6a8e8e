// Package viewport holds the transform math for a pannable, zoomable image:
// fitting an image into a container, zooming around an anchor point, and
// tracking two-finger pinch gestures.
package viewport

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ZoomStep is the multiplicative scale change for one wheel event.
const ZoomStep = 1.1

var (
	// ErrEmptyContainer is returned by Fit when the container has no area,
	// for example while its window is minimized.
	ErrEmptyContainer = errors.New("viewport: container has zero area")
	// ErrEmptyImage is returned when an image has no pixels to fit.
	ErrEmptyImage = errors.New("viewport: image has zero area")
)

// Point is a 2D coordinate in either screen space or image space.
type Point = r2.Vec

// Size is the pixel size of a container or an image.
type Size struct {
	W, H int
}

// Empty reports whether s has no area.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

func (s Size) vec() Point {
	return Point{X: float64(s.W), Y: float64(s.H)}
}

// State is the viewport transform mapping image space to screen space:
// screen = image*Scale + Offset. A State is a value; every operation
// returns a new one so Scale and Offset always change together.
type State struct {
	Scale  float64
	Offset Point
}

// Identity is the 1:1 transform at the origin.
var Identity = State{Scale: 1}

// Fit returns the transform that inscribes img in container without
// cropping and centers it.
func Fit(container, img Size) (State, error) {
	if container.Empty() {
		return State{}, ErrEmptyContainer
	}
	if img.Empty() {
		return State{}, ErrEmptyImage
	}
	scale := math.Min(float64(container.W)/float64(img.W), float64(container.H)/float64(img.H))
	return centered(container, img, scale), nil
}

// ActualSize returns the 1:1 transform with img centered in container.
func ActualSize(container, img Size) State {
	return centered(container, img, 1)
}

func centered(container, img Size, scale float64) State {
	// (container - img*scale) / 2
	offset := r2.Scale(0.5, r2.Sub(container.vec(), r2.Scale(scale, img.vec())))
	return State{Scale: scale, Offset: offset}
}

// ToImage maps a screen point into image space.
func (s State) ToImage(p Point) Point {
	return r2.Scale(1/s.Scale, r2.Sub(p, s.Offset))
}

// ToScreen maps an image point into screen space.
func (s State) ToScreen(p Point) Point {
	return r2.Add(r2.Scale(s.Scale, p), s.Offset)
}

// ZoomAt changes the scale to newScale while keeping the image point under
// anchor at the same screen position.
func (s State) ZoomAt(anchor Point, newScale float64) State {
	pointTo := s.ToImage(anchor)
	return State{
		Scale:  newScale,
		Offset: r2.Sub(anchor, r2.Scale(newScale, pointTo)),
	}
}

// Wheel applies one wheel event at pointer. deltaY uses the DOM sign
// convention: negative (scroll up) zooms in, positive zooms out.
func (s State) Wheel(pointer Point, deltaY float64) State {
	switch {
	case deltaY < 0:
		return s.ZoomAt(pointer, s.Scale*ZoomStep)
	case deltaY > 0:
		return s.ZoomAt(pointer, s.Scale/ZoomStep)
	default:
		return s
	}
}

// PanTo returns s translated so its origin sits at offset.
func (s State) PanTo(offset Point) State {
	s.Offset = offset
	return s
}

// Center returns the midpoint of p1 and p2.
func Center(p1, p2 Point) Point {
	return r2.Scale(0.5, r2.Add(p1, p2))
}

// Distance returns the euclidean distance between p1 and p2.
func Distance(p1, p2 Point) float64 {
	return r2.Norm(r2.Sub(p2, p1))
}
