// Package ui hosts the zoomable, pannable image canvas on the ebiten game
// loop.
package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/nicky-ayoub/ebitview/internal/service"
	"github.com/nicky-ayoub/ebitview/internal/viewport"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultMargin is the gap between the window edge and the container.
const DefaultMargin = 50

var borderColor = color.White

// Config controls the canvas layout.
type Config struct {
	// Margin insets the container from each window edge, in pixels.
	Margin int
	// Debug starts with the state overlay visible.
	Debug bool
}

// dragState tracks an in-progress pan. While active the surface is drawn
// at pos; the canvas state only learns the new offset when the drag ends.
type dragState struct {
	active      bool
	start       viewport.Point
	startOffset viewport.Point
	pos         viewport.Point
}

// Canvas is the viewport controller. It owns the container size, the loaded
// image and the viewport transform, and turns wheel, pinch and drag input
// into transform updates. All methods except Close run on the game
// goroutine.
type Canvas struct {
	cfg    Config
	log    *zap.Logger
	src    service.Source
	loader *service.Loader
	cancel context.CancelFunc

	size       viewport.Size
	asset      *service.Asset
	img        *ebiten.Image
	state      viewport.State
	fitPending bool
	pinch      viewport.Pinch
	drag       dragState
	debug      bool
	loading    string

	resize    resizeRegistry
	touchBuf  []ebiten.TouchID
	closeOnce sync.Once
}

// NewCanvas creates a canvas that will display src once Start is called.
func NewCanvas(cfg Config, svc *service.ImageService, src service.Source, log *zap.Logger) *Canvas {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Margin < 0 {
		cfg.Margin = 0
	}
	return &Canvas{
		cfg:    cfg,
		log:    log,
		src:    src,
		loader: service.NewLoader(svc, log.Named("loader")),
		state:  viewport.Identity,
		debug:  cfg.Debug,
	}
}

// Start begins loading the image in the background.
func (c *Canvas) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.loader.Start(ctx)
	if c.loader.Request(c.src) {
		c.loading = c.src.Name()
		c.log.Info("loading image", zap.String("name", c.loading))
	}
}

// Close stops the loader and drops every resize handler. It is safe to
// call more than once.
func (c *Canvas) Close() {
	c.closeOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
			c.loader.Wait()
		}
		c.resize.clear()
	})
}

// OnResize registers fn to run whenever the container size changes.
func (c *Canvas) OnResize(fn func(viewport.Size)) ResizeHandle {
	return c.resize.add(fn)
}

// Ready reports whether the image is loaded and fitted.
func (c *Canvas) Ready() bool {
	return c.asset != nil && !c.fitPending
}

// State returns the committed viewport transform.
func (c *Canvas) State() viewport.State {
	return c.state
}

// ContainerSize returns the last measured container size.
func (c *Canvas) ContainerSize() viewport.Size {
	return c.size
}

func (c *Canvas) Update() error {
	var in InputState
	in, c.touchBuf = PollInput(c.touchBuf)
	return c.step(in)
}

// step applies one frame of input. It is separate from Update so it can be
// driven without a running game loop.
func (c *Canvas) step(in InputState) error {
	if in.Quit {
		return ebiten.Termination
	}
	if in.ToggleFullscreen {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if in.ToggleDebug {
		c.debug = !c.debug
	}

	select {
	case r := <-c.loader.Results():
		c.applyResult(r)
	default:
	}

	// Nothing to transform until the image has natural dimensions.
	if !c.Ready() {
		return nil
	}

	if in.ResetViewFit {
		c.endDrag()
		c.fit()
	}
	if in.ResetViewActualSize {
		c.endDrag()
		c.state = viewport.ActualSize(c.size, c.asset.Size())
	}

	c.handleTouches(in.Touches)
	c.handleWheel(in)
	c.handleDrag(in)
	return nil
}

func (c *Canvas) applyResult(r service.Result) {
	if r.Name != c.loading {
		return
	}
	c.loading = ""
	if r.Err != nil {
		c.log.Error("image load failed", zap.String("name", r.Name), zap.Error(r.Err))
		return
	}
	c.asset = r.Asset
	c.img = nil
	c.log.Info("image ready",
		zap.String("name", r.Name),
		zap.Int("width", r.Asset.Info.Width),
		zap.Int("height", r.Asset.Info.Height))
	c.fitPending = true
	c.fit()
}

// fit resets the transform to the fit scale. With an empty container the
// fit is deferred until Layout reports a usable size.
func (c *Canvas) fit() {
	s, err := viewport.Fit(c.size, c.asset.Size())
	if err != nil {
		c.fitPending = true
		c.log.Debug("fit deferred", zap.Error(err))
		return
	}
	c.state = s
	c.fitPending = false
	c.log.Debug("fitted", zap.Float64("scale", s.Scale), zap.Float64("x", s.Offset.X), zap.Float64("y", s.Offset.Y))
}

// toLocal converts window coordinates to container coordinates.
func (c *Canvas) toLocal(x, y int) viewport.Point {
	m := float64(c.cfg.Margin)
	return viewport.Point{X: float64(x) - m, Y: float64(y) - m}
}

// surface returns the transform the surface is drawn with, which differs
// from the committed state while a drag is in progress.
func (c *Canvas) surface() viewport.State {
	if c.drag.active {
		return c.state.PanTo(c.drag.pos)
	}
	return c.state
}

func (c *Canvas) handleTouches(touches []TouchPoint) {
	if len(touches) < 2 {
		if c.pinch.Active() {
			c.pinch.End()
		}
		return
	}
	c.endDrag()
	p1 := c.toLocal(touches[0].X, touches[0].Y)
	p2 := c.toLocal(touches[1].X, touches[1].Y)
	c.state, _ = c.pinch.Move(c.state, p1, p2)
}

func (c *Canvas) handleWheel(in InputState) {
	if in.WheelY == 0 {
		return
	}
	pointer := c.toLocal(in.MouseX, in.MouseY)
	// ebiten reports scroll-up as positive; Wheel expects the DOM sign.
	c.state = c.surface().Wheel(pointer, -in.WheelY)
	if c.drag.active {
		c.drag.start = pointer
		c.drag.startOffset = c.state.Offset
		c.drag.pos = c.state.Offset
	}
}

func (c *Canvas) handleDrag(in InputState) {
	if c.pinch.Active() {
		return
	}
	p := c.toLocal(in.MouseX, in.MouseY)
	if !c.drag.active {
		if in.PanStart && in.PanActive && c.inside(p) {
			c.drag = dragState{active: true, start: p, startOffset: c.state.Offset, pos: c.state.Offset}
		}
		return
	}
	if in.PanActive {
		c.drag.pos = r2.Add(c.drag.startOffset, r2.Sub(p, c.drag.start))
		return
	}
	c.endDrag()
}

// endDrag commits the surface position of an active drag to the state.
func (c *Canvas) endDrag() {
	if !c.drag.active {
		return
	}
	c.state = c.state.PanTo(c.drag.pos)
	c.drag = dragState{}
	c.log.Debug("drag end", zap.Float64("x", c.state.Offset.X), zap.Float64("y", c.state.Offset.Y))
}

func (c *Canvas) inside(p viewport.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(c.size.W) && p.Y < float64(c.size.H)
}

func (c *Canvas) containerRect() image.Rectangle {
	m := c.cfg.Margin
	return image.Rect(m, m, m+c.size.W, m+c.size.H)
}

// surfaceGeoM maps image space to window space for the current surface.
func (c *Canvas) surfaceGeoM() ebiten.GeoM {
	s := c.surface()
	var g ebiten.GeoM
	g.Scale(s.Scale, s.Scale)
	g.Translate(s.Offset.X+float64(c.cfg.Margin), s.Offset.Y+float64(c.cfg.Margin))
	return g
}

// shouldDrawImage reports whether the surface in rect gets the image. Until
// the image is loaded and fitted the container stays empty.
func (c *Canvas) shouldDrawImage(rect image.Rectangle) bool {
	return c.Ready() && !rect.Empty()
}

func (c *Canvas) Draw(screen *ebiten.Image) {
	rect := c.containerRect()
	if !rect.Empty() {
		vector.StrokeRect(screen,
			float32(rect.Min.X)-1, float32(rect.Min.Y)-1,
			float32(rect.Dx())+2, float32(rect.Dy())+2,
			1, borderColor, false)
	}

	if !c.shouldDrawImage(rect) {
		if c.debug && c.loading != "" {
			ebitenutil.DebugPrint(screen, fmt.Sprintf("Loading: %s", c.loading))
		}
		return
	}

	// ebiten images must be created on the game goroutine.
	if c.img == nil {
		c.img = ebiten.NewImageFromImage(c.asset.Image)
	}

	surface := screen.SubImage(rect).(*ebiten.Image)
	bg := BackgroundImage{
		Image:  c.img,
		Width:  float64(c.asset.Info.Width),
		Height: float64(c.asset.Info.Height),
	}
	bg.Draw(surface, c.surfaceGeoM())

	if c.debug {
		s := c.surface()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Image: %s (%dx%d %s)\nScale: %.3f\nOffset: %.1f, %.1f\nContainer: %dx%d",
			c.asset.Name, c.asset.Info.Width, c.asset.Info.Height, c.asset.Info.Format,
			s.Scale, s.Offset.X, s.Offset.Y,
			c.size.W, c.size.H))
	}
}

// Layout measures the container as the window minus the margin on every
// side. A size change only resizes the surface; the transform is kept.
func (c *Canvas) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	size := viewport.Size{
		W: max(outsideWidth-2*c.cfg.Margin, 0),
		H: max(outsideHeight-2*c.cfg.Margin, 0),
	}
	if size != c.size {
		c.size = size
		c.resize.fire(size)
		if c.asset != nil && c.fitPending {
			c.fit()
		}
	}
	return outsideWidth, outsideHeight
}
