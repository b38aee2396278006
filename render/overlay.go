package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// logoQuietZone is the padding, in pixels, painted around the logo box.
const logoQuietZone = 8

var quietZoneColor = color.White

// DrawLogo composites logo onto the center of the current frame: a solid
// quiet zone first, then the logo scaled to Size×Size at Opacity. Circular
// logos are clipped to a disc of radius Size/2.
func DrawLogo(s *Surface, logo Logo) error {
	if !s.Rendered() {
		return ErrEmptyCanvas
	}
	if logo.Image == nil {
		return logoDecodeFailed(errors.New("logo image not decoded"))
	}

	b := s.img.Bounds()
	size := logo.Size
	x := (b.Dx() - size) / 2
	y := (b.Dy() - size) / 2
	r := float64(size) / 2
	cx := float64(x) + r
	cy := float64(y) + r

	dc := gg.NewContextForRGBA(s.img)
	dc.SetColor(quietZoneColor)

	switch logo.Style {
	case LogoSquare:
		dc.DrawRectangle(
			float64(x-logoQuietZone), float64(y-logoQuietZone),
			float64(size+2*logoQuietZone), float64(size+2*logoQuietZone),
		)
		dc.Fill()
	default:
		dc.DrawCircle(cx, cy, r+logoQuietZone)
		dc.Fill()
		dc.DrawCircle(cx, cy, r)
		dc.Clip()
	}

	dc.DrawImage(scaleLogo(logo.Image, size, logo.Opacity), x, y)
	dc.ResetClip()
	return nil
}

// scaleLogo resamples src to exactly size×size, ignoring its aspect ratio,
// and applies opacity as a uniform alpha mask.
func scaleLogo(src image.Image, size int, opacity float64) *image.RGBA {
	scaled := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	if opacity >= 1 {
		return scaled
	}

	out := image.NewRGBA(scaled.Bounds())
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(opacity * 0xff))})
	draw.DrawMask(out, out.Bounds(), scaled, image.Point{}, mask, image.Point{}, draw.Over)
	return out
}
