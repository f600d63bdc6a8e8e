package viewport

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestFit(t *testing.T) {
	tests := []struct {
		name      string
		container Size
		img       Size
		want      State
	}{
		{
			name:      "wide image in landscape container",
			container: Size{W: 800, H: 600},
			img:       Size{W: 1600, H: 900},
			want:      State{Scale: 0.5, Offset: Point{X: 0, Y: 75}},
		},
		{
			name:      "tall image is height bound",
			container: Size{W: 800, H: 600},
			img:       Size{W: 300, H: 1200},
			want:      State{Scale: 0.5, Offset: Point{X: 325, Y: 0}},
		},
		{
			name:      "small image is scaled up",
			container: Size{W: 400, H: 400},
			img:       Size{W: 100, H: 50},
			want:      State{Scale: 4, Offset: Point{X: 0, Y: 100}},
		},
		{
			name:      "exact fit",
			container: Size{W: 640, H: 480},
			img:       Size{W: 640, H: 480},
			want:      State{Scale: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fit(tt.container, tt.img)
			if err != nil {
				t.Fatalf("Fit() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Fit() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFitCentersScaledImage(t *testing.T) {
	containers := []Size{{800, 600}, {1, 1}, {1920, 1080}, {333, 777}}
	images := []Size{{1600, 900}, {1, 1000}, {4000, 3}, {640, 480}}
	for _, c := range containers {
		for _, img := range images {
			s, err := Fit(c, img)
			if err != nil {
				t.Fatalf("Fit(%v, %v) error = %v", c, img, err)
			}
			w, h := float64(img.W)*s.Scale, float64(img.H)*s.Scale
			if w > float64(c.W)+1e-9 || h > float64(c.H)+1e-9 {
				t.Errorf("Fit(%v, %v): scaled image %vx%v overflows container", c, img, w, h)
			}
			left, right := s.Offset.X, float64(c.W)-(s.Offset.X+w)
			top, bottom := s.Offset.Y, float64(c.H)-(s.Offset.Y+h)
			if diff := cmp.Diff([2]float64{left, top}, [2]float64{right, bottom}, approx); diff != "" {
				t.Errorf("Fit(%v, %v) not centered (-left/top +right/bottom):\n%s", c, img, diff)
			}
		}
	}
}

func TestFitEmpty(t *testing.T) {
	if _, err := Fit(Size{}, Size{W: 10, H: 10}); !errors.Is(err, ErrEmptyContainer) {
		t.Errorf("Fit(empty container) error = %v, want %v", err, ErrEmptyContainer)
	}
	if _, err := Fit(Size{W: 10, H: 0}, Size{W: 10, H: 10}); !errors.Is(err, ErrEmptyContainer) {
		t.Errorf("Fit(zero height) error = %v, want %v", err, ErrEmptyContainer)
	}
	if _, err := Fit(Size{W: 10, H: 10}, Size{}); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Fit(empty image) error = %v, want %v", err, ErrEmptyImage)
	}
}

func TestActualSize(t *testing.T) {
	got := ActualSize(Size{W: 800, H: 600}, Size{W: 1600, H: 900})
	want := State{Scale: 1, Offset: Point{X: -400, Y: -150}}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("ActualSize() mismatch (-want +got):\n%s", diff)
	}
}

func TestScreenImageRoundTrip(t *testing.T) {
	s := State{Scale: 2.5, Offset: Point{X: -40, Y: 13}}
	p := Point{X: 123, Y: -7}
	if diff := cmp.Diff(p, s.ToScreen(s.ToImage(p)), approx); diff != "" {
		t.Errorf("ToScreen(ToImage(p)) mismatch (-want +got):\n%s", diff)
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	states := []State{
		{Scale: 0.5, Offset: Point{X: 0, Y: 75}},
		{Scale: 3, Offset: Point{X: -1200, Y: 40}},
		{Scale: 0.01, Offset: Point{X: 5, Y: -5}},
	}
	anchors := []Point{{X: 0, Y: 0}, {X: 400, Y: 300}, {X: -20, Y: 999}}
	scales := []float64{0.1, 0.55, 1, 7.25}
	for _, s := range states {
		for _, p := range anchors {
			for _, ns := range scales {
				got := s.ZoomAt(p, ns)
				if got.Scale != ns {
					t.Errorf("ZoomAt scale = %v, want %v", got.Scale, ns)
				}
				if diff := cmp.Diff(s.ToImage(p), got.ToImage(p), approx); diff != "" {
					t.Errorf("ZoomAt(%v, %v) from %+v moved anchor (-before +after):\n%s", p, ns, s, diff)
				}
			}
		}
	}
}

func TestWheel(t *testing.T) {
	start := State{Scale: 0.5, Offset: Point{X: 0, Y: 75}}
	pointer := Point{X: 400, Y: 300}
	tests := []struct {
		name      string
		deltaY    float64
		wantScale float64
	}{
		{name: "scroll up zooms in", deltaY: -100, wantScale: 0.55},
		{name: "scroll down zooms out", deltaY: 100, wantScale: 0.5 / ZoomStep},
		{name: "no delta", deltaY: 0, wantScale: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := start.Wheel(pointer, tt.deltaY)
			if diff := cmp.Diff(tt.wantScale, got.Scale, approx); diff != "" {
				t.Errorf("Wheel() scale mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(start.ToImage(pointer), got.ToImage(pointer), approx); diff != "" {
				t.Errorf("Wheel() moved the point under the pointer (-before +after):\n%s", diff)
			}
		})
	}
}

func TestWheelInThenOutRestores(t *testing.T) {
	start := State{Scale: 1.7, Offset: Point{X: -31, Y: 220}}
	p := Point{X: 17, Y: 412}
	got := start.Wheel(p, -1).Wheel(p, 1)
	if diff := cmp.Diff(start, got, approx); diff != "" {
		t.Errorf("zoom in then out mismatch (-want +got):\n%s", diff)
	}
}

func TestPanTo(t *testing.T) {
	s := State{Scale: 2, Offset: Point{X: 1, Y: 1}}
	got := s.PanTo(Point{X: 50, Y: -20})
	want := State{Scale: 2, Offset: Point{X: 50, Y: -20}}
	if got != want {
		t.Errorf("PanTo() = %+v, want %+v", got, want)
	}
	if s.Offset != (Point{X: 1, Y: 1}) {
		t.Errorf("PanTo mutated receiver: %+v", s)
	}
}

func TestCenterDistance(t *testing.T) {
	p1, p2 := Point{X: 100, Y: 100}, Point{X: 200, Y: 100}
	if got := Center(p1, p2); got != (Point{X: 150, Y: 100}) {
		t.Errorf("Center() = %v", got)
	}
	if got := Distance(p1, p2); got != 100 {
		t.Errorf("Distance() = %v, want 100", got)
	}
	if got := Distance(Point{}, Point{X: 3, Y: 4}); got != 5 {
		t.Errorf("Distance() = %v, want 5", got)
	}
}
