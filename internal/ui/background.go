package ui

import "github.com/hajimehoshi/ebiten/v2"

// BackgroundImage draws a bitmap at the origin of its local space,
// stretched to Width x Height. It does not preserve aspect ratio; zoom and
// pan come from the parent transform passed to Draw.
type BackgroundImage struct {
	Image         *ebiten.Image
	Width, Height float64
}

// Draw renders the bitmap onto dst through parent. The caller must not
// call Draw before the bitmap is loaded.
func (b BackgroundImage) Draw(dst *ebiten.Image, parent ebiten.GeoM) {
	if b.Image == nil {
		return
	}
	bounds := b.Image.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM = b.geoM(bounds.Dx(), bounds.Dy(), parent)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(b.Image, op)
}

// geoM maps a srcW x srcH bitmap onto the Width x Height box at the
// origin, then applies parent.
func (b BackgroundImage) geoM(srcW, srcH int, parent ebiten.GeoM) ebiten.GeoM {
	var g ebiten.GeoM
	g.Scale(b.Width/float64(srcW), b.Height/float64(srcH))
	g.Concat(parent)
	return g
}
