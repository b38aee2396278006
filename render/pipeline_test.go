package render_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/qrgen/render"
)

var (
	black = color.NRGBA{A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.NRGBA{R: 0xff, A: 0xff}
)

func baseRequest() render.Request {
	return render.Request{
		Generation: 1,
		Content:    "https://example.com",
		PixelSize:  300,
		Dark:       black,
		Light:      white,
	}
}

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func renderFrame(t *testing.T, req render.Request) *image.RGBA {
	t.Helper()
	s := render.NewSurface()
	require.NoError(t, render.NewPipeline(nil).Render(s, req))
	return s.Image()
}

func TestRenderExportsScannablePNG(t *testing.T) {
	s := render.NewSurface()
	require.NoError(t, render.NewPipeline(nil).Render(s, baseRequest()))

	data, err := s.PNG()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())

	text, err := render.Scan(img)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", text)
}

func TestRenderQuietZoneUsesLightColor(t *testing.T) {
	req := baseRequest()
	req.Light = color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}
	img := renderFrame(t, req)

	assert.Equal(t, color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}, img.RGBAAt(299, 299))
}

func TestRenderIsIdempotent(t *testing.T) {
	req := baseRequest()
	req.Logo = &render.Logo{Image: solidImage(40, 20, red), Size: 60, Style: render.LogoCircular, Opacity: 0.7}

	first := renderFrame(t, req)
	second := renderFrame(t, req)
	assert.True(t, bytes.Equal(first.Pix, second.Pix), "fresh surfaces must match")

	s := render.NewSurface()
	p := render.NewPipeline(nil)
	require.NoError(t, p.Render(s, req))
	require.NoError(t, p.Render(s, req))
	assert.True(t, bytes.Equal(first.Pix, s.Image().Pix), "re-rendering must not accumulate")
}

func TestRenderCircularLogoOnlyTouchesCenter(t *testing.T) {
	plain := renderFrame(t, baseRequest())

	req := baseRequest()
	req.Logo = &render.Logo{Image: solidImage(40, 20, red), Size: 60, Style: render.LogoCircular, Opacity: 1}
	withLogo := renderFrame(t, req)

	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, withLogo.RGBAAt(150, 150))
	assert.NotEqual(t, plain.RGBAAt(150, 150), withLogo.RGBAAt(150, 150))

	// Everything beyond the quiet-zone disc (plus an anti-aliasing pixel)
	// is untouched.
	limit := 30.0 + 8 + 2
	for y := 0; y < 300; y++ {
		for x := 0; x < 300; x++ {
			if math.Hypot(float64(x)+0.5-150, float64(y)+0.5-150) <= limit {
				continue
			}
			if plain.RGBAAt(x, y) != withLogo.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) changed outside the overlay", x, y)
			}
		}
	}

	text, err := render.Scan(withLogo)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", text)
}

func TestRenderSquareLogoPaintsQuietZone(t *testing.T) {
	req := baseRequest()
	req.Dark = red
	req.Logo = &render.Logo{Image: solidImage(10, 10, black), Size: 60, Style: render.LogoSquare, Opacity: 1}
	img := renderFrame(t, req)

	// Logo box spans [120,180); the quiet zone extends 8px beyond it.
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, img.RGBAAt(114, 114))
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, img.RGBAAt(185, 185))
	assert.Equal(t, color.RGBA{A: 0xff}, img.RGBAAt(122, 122))
	assert.Equal(t, color.RGBA{A: 0xff}, img.RGBAAt(177, 177))
}

func TestRenderLogoOpacityBlendsWithQuietZone(t *testing.T) {
	req := baseRequest()
	req.Logo = &render.Logo{Image: solidImage(10, 10, black), Size: 60, Style: render.LogoSquare, Opacity: 0.5}
	img := renderFrame(t, req)

	c := img.RGBAAt(150, 150)
	assert.InDelta(t, 0x7f, int(c.R), 2)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, uint8(0xff), c.A)
}

func TestRenderEncodingFailureLeavesSurface(t *testing.T) {
	s := render.NewSurface()
	req := baseRequest()
	req.Content = strings.Repeat("x", 4000)

	err := render.NewPipeline(nil).Render(s, req)
	require.ErrorIs(t, err, render.ErrEncodingFailed)
	assert.Equal(t, render.CodeEncodingFailed, render.GetCode(err))
	assert.False(t, s.Rendered())

	_, err = s.PNG()
	assert.ErrorIs(t, err, render.ErrEmptyCanvas)
}

func TestRenderEncodingFailureKeepsPreviousFrame(t *testing.T) {
	s := render.NewSurface()
	p := render.NewPipeline(nil)
	require.NoError(t, p.Render(s, baseRequest()))
	before := append([]byte(nil), s.Image().Pix...)

	req := baseRequest()
	req.Content = ""
	require.ErrorIs(t, p.Render(s, req), render.ErrEncodingFailed)
	assert.Equal(t, before, s.Image().Pix)
}

func TestRenderMissingLogoImage(t *testing.T) {
	s := render.NewSurface()
	req := baseRequest()
	req.Logo = &render.Logo{Size: 60, Style: render.LogoCircular, Opacity: 1}

	err := render.NewPipeline(nil).Render(s, req)
	require.ErrorIs(t, err, render.ErrLogoDecodeFailed)
	assert.True(t, s.Rendered(), "base symbol stays usable")
}

func TestEncodeFallsBackWhenTooNarrow(t *testing.T) {
	s := render.NewSurface()
	err := render.Encode(s, "hello", render.EncodeOptions{Width: 10, Dark: black, Light: white, Margin: render.Margin})
	require.NoError(t, err)
	// Version 1 is 21 modules; with a 2-module margin at 4px per module.
	assert.Equal(t, (21+4)*4, s.Image().Bounds().Dx())
}
