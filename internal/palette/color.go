package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
)

// ErrHexFormat is returned by ParseHex for strings that are not "#RRGGBB" or
// "#RRGGBBAA".
var ErrHexFormat = errors.New("malformed hex color")

// Color is a non-premultiplied RGBA color with 8-bit channels.
//
// Alpha takes part in distance like any other channel; it is not a blend factor.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA returns c as a standard library color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Hex formats c as "#RRGGBB", or "#RRGGBBAA" when c is not fully opaque.
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// FromColor converts any color.Color to a non-premultiplied Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// Distance returns the Euclidean distance between a and b over all four channels.
func Distance(a, b Color) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	da := float64(a.A) - float64(b.A)
	return math.Sqrt(dr*dr + dg*dg + db*db + da*da)
}

// ParseHex decodes "#RRGGBB" (opaque) or "#RRGGBBAA".
//
// Any other length is rejected rather than truncated; "#ABC" shorthand is not
// accepted.
func ParseHex(hex string) (Color, error) {
	if len(hex) == 0 || hex[0] != '#' {
		return Color{}, fmt.Errorf("%w: %q must start with '#'", ErrHexFormat, hex)
	}
	digits := hex[1:]

	switch len(digits) {
	case 6:
		val, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q: %v", ErrHexFormat, hex, err)
		}
		return Color{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 0xff}, nil
	case 8:
		val, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q: %v", ErrHexFormat, hex, err)
		}
		return Color{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	default:
		return Color{}, fmt.Errorf("%w: %q has %d hex digits, want 6 or 8", ErrHexFormat, hex, len(digits))
	}
}
