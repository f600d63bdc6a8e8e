package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/nicky-ayoub/ebitview/assets"
	"github.com/nicky-ayoub/ebitview/internal/service"
	"github.com/nicky-ayoub/ebitview/internal/ui"
	"github.com/nicky-ayoub/ebitview/internal/viewport"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// options holds the parsed command-line flags.
type options struct {
	imagePath string
	width     int
	height    int
	margin    int
	title     string
	debug     bool
	logLevel  string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("ebitview", flag.ContinueOnError)
	fs.StringVar(&o.imagePath, "image", "", "Image to display instead of the bundled background. Can also be provided as a positional argument.")
	fs.IntVar(&o.width, "width", 1920, "Initial window width")
	fs.IntVar(&o.height, "height", 980, "Initial window height")
	fs.IntVar(&o.margin, "margin", ui.DefaultMargin, "Gap between the window edge and the canvas, in pixels")
	fs.StringVar(&o.title, "title", "ebitview", "Window title")
	fs.BoolVar(&o.debug, "debug", false, "Show the viewport state overlay")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	// If -image is not used, check for a positional argument.
	if o.imagePath == "" && fs.NArg() > 0 {
		o.imagePath = fs.Arg(0)
	}
	if o.width <= 0 || o.height <= 0 {
		return o, fmt.Errorf("window size must be positive, got %dx%d", o.width, o.height)
	}
	if o.margin < 0 {
		return o, fmt.Errorf("margin must not be negative, got %d", o.margin)
	}
	return o, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func (o options) source() service.Source {
	if o.imagePath != "" {
		return service.FileSource(o.imagePath)
	}
	return assets.Background()
}

func run(o options, log *zap.Logger) error {
	canvas := ui.NewCanvas(ui.Config{Margin: o.margin, Debug: o.debug}, service.NewImageService(log.Named("image")), o.source(), log.Named("canvas"))
	defer canvas.Close()

	canvas.OnResize(func(s viewport.Size) {
		log.Debug("container resized", zap.Int("width", s.W), zap.Int("height", s.H))
	})
	canvas.Start(context.Background())

	ebiten.SetWindowSize(o.width, o.height)
	ebiten.SetWindowTitle(o.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(canvas); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := newLogger(o.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	if err := run(o, log); err != nil {
		log.Error("viewer exited", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}
