package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"time"
)

// Surface is the long-lived drawing target a controller renders into. Every
// render replaces its pixels; nothing accumulates between frames. A Surface
// is not safe for concurrent use.
type Surface struct {
	img      *image.RGBA
	rendered bool
}

// NewSurface returns an empty surface. It reports no content until the
// first successful encode.
func NewSurface() *Surface {
	return &Surface{}
}

// Reset discards the current frame and allocates a fresh, fully transparent
// size×size raster.
func (s *Surface) Reset(size int) {
	s.img = image.NewRGBA(image.Rect(0, 0, size, size))
}

// Image returns the current raster, or nil before the first reset.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Rendered reports whether a base symbol has ever been drawn.
func (s *Surface) Rendered() bool {
	return s.rendered && s.img != nil
}

// PNG encodes the current frame losslessly.
func (s *Surface) PNG() ([]byte, error) {
	if !s.Rendered() {
		return nil, ErrEmptyCanvas
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFilename returns the download name for a frame exported at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("qr-code-%d.png", t.UnixMilli())
}
