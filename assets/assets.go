// Package assets bundles the default background image.
package assets

import (
	_ "embed"

	"github.com/nicky-ayoub/ebitview/internal/service"
)

//go:embed background.jpg
var background []byte

// Background returns the bundled background image as a loadable source.
func Background() service.Source {
	return service.BytesSource("background.jpg", background)
}
