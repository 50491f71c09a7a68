// Package mapper replaces every pixel of a grid with its nearest palette color.
//
// Lookups run on a worker pool and complete in any order. Each work item
// carries the linear index of its pixel, and results are written back to that
// index in a single reassembly step, so the output is the same no matter how
// the work was scheduled.
package mapper

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/floss-pattern-mcp/internal/palette"
	"github.com/ironsheep/floss-pattern-mcp/internal/workers"
)

// ErrIncomplete is returned when reassembly finds a pixel index that was
// never written or written more than once.
var ErrIncomplete = errors.New("mapped grid is incomplete")

// Matcher finds the closest reference color for a query. *palette.Palette
// satisfies it.
//
// Nearest must be safe for concurrent use.
type Matcher interface {
	Len() int
	Nearest(palette.Color) (palette.Color, error)
}

// Options tunes a mapping pass.
type Options struct {
	// Workers is the number of concurrent lookups. Zero means runtime.NumCPU.
	Workers int
}

type item struct {
	index int
	color palette.Color
	err   error
}

// Map returns a new grid where each pixel is m.Nearest of the input pixel at
// the same index.
//
// An empty matcher is rejected before any work starts. An empty grid yields an
// empty grid without querying m. On error no grid is returned.
func Map(ctx context.Context, g *Grid, m Matcher, opts Options) (*Grid, error) {
	if m.Len() == 0 {
		return nil, palette.ErrEmptyPalette
	}
	n := g.Len()
	if n == 0 {
		return NewGrid(g.Width, g.Height), nil
	}

	pool := workers.New(opts.Workers, func(in item) item {
		c, err := m.Nearest(in.color)
		return item{index: in.index, color: c, err: err}
	})
	log.Debug("mapping grid", "width", g.Width, "height", g.Height, "palette", m.Len(), "workers", pool.Cap())

	out := make([]palette.Color, n)
	written := make([]bool, n)
	count := 0
	for r := range pool.Run(ctx, items(g)) {
		if r.err != nil {
			return nil, fmt.Errorf("pixel %d: %w", r.index, r.err)
		}
		if r.index < 0 || r.index >= n || written[r.index] {
			return nil, fmt.Errorf("%w: index %d written twice or out of range", ErrIncomplete, r.index)
		}
		out[r.index] = r.color
		written[r.index] = true
		count++
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if count != n {
		return nil, fmt.Errorf("%w: %d of %d pixels mapped", ErrIncomplete, count, n)
	}

	return &Grid{Width: g.Width, Height: g.Height, Pix: out}, nil
}

func items(g *Grid) iter.Seq[item] {
	return func(yield func(item) bool) {
		for i, c := range g.All() {
			if !yield(item{index: i, color: c}) {
				return
			}
		}
	}
}
