package mapper

import (
	"fmt"
	"image"
	"iter"

	"github.com/ironsheep/floss-pattern-mcp/internal/palette"
)

// Grid is a width × height raster of colors stored in row-major order.
type Grid struct {
	Width  int
	Height int
	Pix    []palette.Color
}

// NewGrid allocates a grid with every pixel set to the zero color.
func NewGrid(width, height int) *Grid {
	return &Grid{Width: width, Height: height, Pix: make([]palette.Color, width*height)}
}

// GridFromPixels wraps pix as a grid, checking that the dimensions match.
func GridFromPixels(width, height int, pix []palette.Color) (*Grid, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid grid size %dx%d", width, height)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("grid %dx%d needs %d pixels, got %d", width, height, width*height, len(pix))
	}
	return &Grid{Width: width, Height: height, Pix: pix}, nil
}

// GridFromImage reads every pixel of img into a grid.
//
// *image.NRGBA sources are copied straight from their backing buffer; other
// image types go through the color model conversion.
func GridFromImage(img image.Image) *Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())

	if src, ok := img.(*image.NRGBA); ok {
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := src.PixOffset(b.Min.X, y)
			for x := 0; x < g.Width; x++ {
				p := src.Pix[off+x*4 : off+x*4+4 : off+x*4+4]
				g.Pix[i] = palette.Color{R: p[0], G: p[1], B: p[2], A: p[3]}
				i++
			}
		}
		return g
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Pix[i] = palette.FromColor(img.At(x, y))
			i++
		}
	}
	return g
}

// Len returns the number of pixels.
func (g *Grid) Len() int { return len(g.Pix) }

// At returns the color at column x, row y.
func (g *Grid) At(x, y int) palette.Color {
	return g.Pix[y*g.Width+x]
}

// All iterates over the pixels with their linear index.
func (g *Grid) All() iter.Seq2[int, palette.Color] {
	return func(yield func(int, palette.Color) bool) {
		for i, c := range g.Pix {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Image converts the grid to an *image.NRGBA with its origin at (0,0).
func (g *Grid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	copy(img.Pix, g.Bytes())
	return img
}

// Bytes returns the pixels as a flat R, G, B, A byte sequence in row-major order.
func (g *Grid) Bytes() []byte {
	out := make([]byte, 0, len(g.Pix)*4)
	for _, c := range g.Pix {
		out = append(out, c.R, c.G, c.B, c.A)
	}
	return out
}
