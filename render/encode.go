package render

import (
	"image/color"

	"github.com/skip2/go-qrcode"
)

// Margin is the quiet zone painted around the symbol, in modules.
const Margin = 2

// fallbackScale is used when the requested width cannot fit one pixel per
// module plus the margin.
const fallbackScale = 4

// EncodeOptions configures the base symbol.
type EncodeOptions struct {
	Width  int
	Dark   color.Color
	Light  color.Color
	Margin int
}

// Encode paints the QR symbol for content onto s. The symbol always uses
// the highest (H, 30%) error-correction level so that a logo overlay can
// cover modules without breaking the code. The surface is resized to
// exactly Width×Width pixels and modules are mapped by fractional scale.
//
// On failure the surface is left untouched.
func Encode(s *Surface, content string, opts EncodeOptions) error {
	q, err := qrcode.New(content, qrcode.Highest)
	if err != nil {
		return encodingFailed(err)
	}
	q.DisableBorder = true
	bitmap := q.Bitmap()

	modules := len(bitmap)
	total := modules + 2*opts.Margin
	width := opts.Width
	scale := float64(width) / float64(total)
	if width < total {
		scale = fallbackScale
		width = total * fallbackScale
	}

	dark := color.RGBAModel.Convert(opts.Dark).(color.RGBA)
	light := color.RGBAModel.Convert(opts.Light).(color.RGBA)

	s.Reset(width)
	img := s.img
	offset := float64(opts.Margin) * scale
	limit := float64(width) - offset

	for y := 0; y < width; y++ {
		fy := float64(y)
		for x := 0; x < width; x++ {
			fx := float64(x)
			c := light
			if fy >= offset && fx >= offset && fy < limit && fx < limit {
				row := int((fy - offset) / scale)
				col := int((fx - offset) / scale)
				if row < modules && col < modules && bitmap[row][col] {
					c = dark
				}
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}

	s.rendered = true
	return nil
}

// Validate reports whether content fits a symbol at the pipeline's
// error-correction level without drawing anything.
func Validate(content string) error {
	if _, err := qrcode.New(content, qrcode.Highest); err != nil {
		return encodingFailed(err)
	}
	return nil
}
