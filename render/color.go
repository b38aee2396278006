package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses "#RRGGBB", "#RGB" or "#RRGGBBAA". The leading '#'
// is optional and case is ignored.
func ParseHexColor(s string) (color.NRGBA, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(v) {
	case 3:
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]}) + "ff"
	case 6:
		v += "ff"
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.NRGBA{
		R: uint8(n >> 24),
		G: uint8(n >> 16),
		B: uint8(n >> 8),
		A: uint8(n),
	}, nil
}

// HexColor formats c as "#RRGGBB", appending the alpha byte only when the
// color is not fully opaque.
func HexColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
