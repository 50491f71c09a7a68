package palette

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyPalette is returned when a lookup is attempted against a palette with
// no colors.
var ErrEmptyPalette = errors.New("palette has no colors")

// Palette is an ordered set of reference colors.
//
// Insertion order is kept and duplicates are allowed. Order decides exact ties
// in Nearest: the earliest color wins.
//
// A Palette is safe for concurrent Nearest calls as long as no Append runs at
// the same time.
type Palette struct {
	colors []Color
}

// New creates a palette holding colors in the given order.
func New(colors ...Color) *Palette {
	p := &Palette{colors: make([]Color, len(colors))}
	copy(p.colors, colors)
	return p
}

// HexSource is any record carrying a hex color string.
type HexSource interface {
	HexColor() string
}

// FromThreads builds a palette by decoding the hex color of every record, in order.
//
// The first malformed hex string aborts construction; no partial palette is
// returned.
func FromThreads[S ~[]T, T HexSource](records S) (*Palette, error) {
	colors := make([]Color, 0, len(records))
	for i, r := range records {
		c, err := ParseHex(r.HexColor())
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		colors = append(colors, c)
	}
	return &Palette{colors: colors}, nil
}

// Append adds c to the end of the palette.
func (p *Palette) Append(c Color) {
	p.colors = append(p.colors, c)
}

// Len returns the number of colors in the palette.
func (p *Palette) Len() int {
	return len(p.colors)
}

// At returns the color stored at index i.
func (p *Palette) At(i int) Color {
	return p.colors[i]
}

// Colors returns a copy of the palette colors in insertion order.
func (p *Palette) Colors() []Color {
	out := make([]Color, len(p.colors))
	copy(out, p.colors)
	return out
}

// Nearest returns the palette color closest to q.
func (p *Palette) Nearest(q Color) (Color, error) {
	i, err := p.NearestIndex(q)
	if err != nil {
		return Color{}, err
	}
	return p.colors[i], nil
}

// NearestIndex returns the index of the palette color closest to q.
//
// The scan is linear. Only a strictly smaller distance replaces the current
// best, so the first of several equidistant colors is the one returned.
func (p *Palette) NearestIndex(q Color) (int, error) {
	if len(p.colors) == 0 {
		return -1, ErrEmptyPalette
	}

	best := -1
	bestDistance := math.Inf(1)
	for i, c := range p.colors {
		if d := Distance(q, c); d < bestDistance {
			best = i
			bestDistance = d
		}
	}
	return best, nil
}
