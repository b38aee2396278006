package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
)

// Scan decodes the QR symbol in img and returns its text. The image is
// framed with extra white space first since the pipeline only paints a
// two-module quiet zone and some detectors want more.
func Scan(img image.Image) (string, error) {
	b := img.Bounds()
	pad := b.Dx() / 8
	framed := imaging.New(b.Dx()+2*pad, b.Dy()+2*pad, color.White)
	framed = imaging.Overlay(framed, img, image.Pt(pad, pad), 1.0)

	bmp, err := gozxing.NewBinaryBitmapFromImage(framed)
	if err != nil {
		return "", fmt.Errorf("creating bitmap: %w", err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := zxqr.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", fmt.Errorf("no QR code found in image: %w", err)
	}
	return result.GetText(), nil
}
