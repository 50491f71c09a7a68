package pattern

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/floss-pattern-mcp/internal/mapper"
	"github.com/ironsheep/floss-pattern-mcp/internal/palette"
)

// HSL is a hue/saturation/lightness triple for display.
type HSL struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// LegendEntry describes one palette color used by a pattern.
type LegendEntry struct {
	Symbol     int           `json:"symbol"`          // 1-based legend number
	Index      int           `json:"palette_index"`   // Position in the palette
	Floss      string        `json:"floss,omitempty"` // Thread identifier, when known
	Name       string        `json:"name,omitempty"`  // Thread name, when known
	Hex        string        `json:"hex"`             // Same form as palette.Color.Hex
	Color      palette.Color `json:"rgba"`
	HSL        HSL           `json:"hsl"`
	Stitches   int           `json:"stitches"`
	Percentage float64       `json:"percentage"` // Share of all stitches, 0-100
}

// BuildLegend counts the stitches of every palette color used in grid.
//
// Entries are ordered by stitch count, most used first; equal counts keep
// palette order. Every stitch color must be a palette member.
func BuildLegend(grid *mapper.Grid, src Source) ([]LegendEntry, error) {
	index := make(map[palette.Color]int, src.Palette.Len())
	for i, c := range src.Palette.Colors() {
		// Duplicates resolve to the first occurrence, the one Nearest returns.
		if _, ok := index[c]; !ok {
			index[c] = i
		}
	}

	counts := make(map[int]int)
	for i, c := range grid.All() {
		pi, ok := index[c]
		if !ok {
			return nil, fmt.Errorf("stitch %d color %s is not in the palette", i, c.Hex())
		}
		counts[pi]++
	}

	entries := make([]LegendEntry, 0, len(counts))
	for pi, n := range counts {
		c := src.Palette.At(pi)
		cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
		h, s, l := cf.Hsl()
		if math.IsNaN(h) {
			h = 0
		}

		e := LegendEntry{
			Index:      pi,
			Hex:        c.Hex(),
			Color:      c,
			HSL:        HSL{H: int(math.Round(h)) % 360, S: int(math.Round(s * 100)), L: int(math.Round(l * 100))},
			Stitches:   n,
			Percentage: math.Round(float64(n)/float64(grid.Len())*10000) / 100,
		}
		if th, ok := src.Catalog.Thread(pi); ok {
			e.Floss = th.Floss
			e.Name = th.Name
		}
		entries = append(entries, e)
	}

	slices.SortFunc(entries, func(a, b LegendEntry) int {
		if c := cmp.Compare(b.Stitches, a.Stitches); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	for i := range entries {
		entries[i].Symbol = i + 1
	}
	return entries, nil
}
