package render

import (
	"bytes"
	"errors"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	// Registered with image.Decode, which imaging.Decode delegates to.
	_ "golang.org/x/image/webp"
)

// svgRasterSize is the square size SVG logos are rasterized at. It is
// larger than the biggest logo box so the later downscale stays sharp.
const svgRasterSize = 256

// LogoStyle selects the shape of the logo quiet zone and clip.
type LogoStyle string

const (
	LogoCircular LogoStyle = "circular"
	LogoSquare   LogoStyle = "square"
)

// ParseLogoStyle returns the style named by s.
func ParseLogoStyle(s string) (LogoStyle, bool) {
	switch LogoStyle(strings.ToLower(strings.TrimSpace(s))) {
	case LogoCircular:
		return LogoCircular, true
	case LogoSquare:
		return LogoSquare, true
	}
	return "", false
}

// Logo is a decoded overlay image with its drawing parameters.
type Logo struct {
	Image   image.Image
	Size    int
	Style   LogoStyle
	Opacity float64
}

// DecodeLogo turns uploaded bytes into an image. Raster formats go through
// imaging with EXIF orientation applied; SVG documents are rasterized.
// Any failure is reported as ErrLogoDecodeFailed.
func DecodeLogo(data []byte, mimeType string) (image.Image, error) {
	if len(data) == 0 {
		return nil, logoDecodeFailed(errors.New("empty logo data"))
	}

	if isSVG(data, mimeType) {
		img, err := rasterizeSVG(data)
		if err != nil {
			return nil, logoDecodeFailed(err)
		}
		return img, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, logoDecodeFailed(err)
	}
	return img, nil
}

func isSVG(data []byte, mimeType string) bool {
	if strings.HasPrefix(strings.ToLower(mimeType), "image/svg") {
		return true
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

func rasterizeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	w, h := svgRasterSize, svgRasterSize
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return rgba, nil
}
