// Package render draws QR codes: a base symbol from the encoder, an optional
// centered logo overlay, and the PNG export of the resulting frame.
package render

import (
	"errors"
	"image/color"
	"log/slog"
)

// Request is everything needed to draw one frame. It is rebuilt from the
// form state on every change and discarded after drawing.
type Request struct {
	Generation uint64
	Content    string
	PixelSize  int
	Dark       color.NRGBA
	Light      color.NRGBA
	Logo       *Logo
}

// Pipeline renders requests onto surfaces.
type Pipeline struct {
	log *slog.Logger
}

// NewPipeline returns a Pipeline logging through log.
func NewPipeline(log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{log: log}
}

// Render encodes req.Content onto s and composites the logo when one is set.
// An encoding failure leaves s untouched and returns ErrEncodingFailed. A
// logo failure returns ErrLogoDecodeFailed but the base symbol already on s
// remains valid.
func (p *Pipeline) Render(s *Surface, req Request) error {
	err := Encode(s, req.Content, EncodeOptions{
		Width:  req.PixelSize,
		Dark:   req.Dark,
		Light:  req.Light,
		Margin: Margin,
	})
	if err != nil {
		p.log.Debug("encode failed", "generation", req.Generation, "error", err)
		return err
	}

	if req.Logo == nil {
		return nil
	}
	if err := DrawLogo(s, *req.Logo); err != nil {
		if !errors.Is(err, ErrLogoDecodeFailed) {
			err = logoDecodeFailed(err)
		}
		p.log.Debug("logo overlay failed", "generation", req.Generation, "error", err)
		return err
	}
	return nil
}
