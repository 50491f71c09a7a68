package palette

import "fmt"

// Cube builds a uniform RGB palette with depth+1 levels per channel.
//
// Level k maps to k*255/depth, so depth 1 yields the eight corners of the RGB
// cube. Colors are ordered red-major, then green, then blue, all opaque.
func Cube(depth int) (*Palette, error) {
	if depth < 1 || depth > 255 {
		return nil, fmt.Errorf("cube depth %d out of range [1,255]", depth)
	}

	levels := depth + 1
	p := &Palette{colors: make([]Color, 0, levels*levels*levels)}
	for r := range levels {
		for g := range levels {
			for b := range levels {
				p.Append(Color{
					R: uint8(r * 255 / depth),
					G: uint8(g * 255 / depth),
					B: uint8(b * 255 / depth),
					A: 0xff,
				})
			}
		}
	}
	return p, nil
}
