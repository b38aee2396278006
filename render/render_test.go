package render_test

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/qrgen/render"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#000000", want: color.NRGBA{A: 0xff}},
		{in: "#FFFFFF", want: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{in: "ff8000", want: color.NRGBA{R: 0xff, G: 0x80, A: 0xff}},
		{in: "#abc", want: color.NRGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}},
		{in: "#11223380", want: color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}},
		{in: "#12345", wantErr: true},
		{in: "#GGGGGG", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := render.ParseHexColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#FF8000", render.HexColor(color.NRGBA{R: 0xff, G: 0x80, A: 0xff}))
	assert.Equal(t, "#11223380", render.HexColor(color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}))
}

func TestExportFilename(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	assert.Equal(t, "qr-code-1700000000123.png", render.ExportFilename(ts))
}

func TestDecodeLogo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(32, 16, red)))

	img, err := render.DecodeLogo(buf.Bytes(), "image/png")
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestDecodeLogoSVG(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect width="10" height="10" fill="#ff0000"/></svg>`

	img, err := render.DecodeLogo([]byte(svg), "image/svg+xml")
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	r, _, _, a := img.At(128, 128).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), a)
}

func TestDecodeLogoFailures(t *testing.T) {
	_, err := render.DecodeLogo(nil, "image/png")
	assert.ErrorIs(t, err, render.ErrLogoDecodeFailed)

	_, err = render.DecodeLogo([]byte("definitely not an image"), "image/png")
	assert.ErrorIs(t, err, render.ErrLogoDecodeFailed)
}

func TestParseLogoStyle(t *testing.T) {
	s, ok := render.ParseLogoStyle(" Square ")
	assert.True(t, ok)
	assert.Equal(t, render.LogoSquare, s)

	_, ok = render.ParseLogoStyle("hexagon")
	assert.False(t, ok)
}

func TestWriteTerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.WriteTerminal(&buf, "tel:+1234567890"))
	assert.NotZero(t, buf.Len())

	assert.ErrorIs(t, render.WriteTerminal(&buf, ""), render.ErrEncodingFailed)
}
