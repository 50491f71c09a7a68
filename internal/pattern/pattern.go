// Package pattern turns a source image into a stitch pattern: a small raster
// where every stitch is a palette color, plus a legend of the colors used.
package pattern

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/floss-pattern-mcp/internal/imaging"
	"github.com/ironsheep/floss-pattern-mcp/internal/mapper"
	"github.com/ironsheep/floss-pattern-mcp/internal/palette"
	"github.com/ironsheep/floss-pattern-mcp/internal/threads"
)

// Source is the reference color set a pattern is matched against.
//
// Catalog is optional. When set, its palette must be Palette and legend
// entries carry thread identifiers and names.
type Source struct {
	Palette *palette.Palette
	Catalog *threads.Catalog
}

// SourceFromCatalog uses the palette of c.
func SourceFromCatalog(c *threads.Catalog) Source {
	return Source{Palette: c.Palette, Catalog: c}
}

// Options configures pattern generation.
type Options struct {
	Preprocess imaging.PreprocessOptions
	Workers    int
}

// DefaultOptions returns 100×100 stitches with a radius 1 blur.
func DefaultOptions() Options {
	return Options{Preprocess: imaging.DefaultPreprocessOptions()}
}

// Pattern is a generated stitch pattern.
type Pattern struct {
	Grid   *mapper.Grid
	Legend []LegendEntry
}

// Image returns the pattern as an image, one pixel per stitch.
func (p *Pattern) Image() *image.NRGBA {
	return p.Grid.Image()
}

// Generate reduces img to the configured stitch size and replaces every stitch
// with its nearest palette color.
func Generate(ctx context.Context, img image.Image, src Source, opts Options) (*Pattern, error) {
	if src.Palette == nil || src.Palette.Len() == 0 {
		return nil, palette.ErrEmptyPalette
	}
	if src.Catalog != nil && src.Catalog.Palette != src.Palette {
		return nil, errors.New("catalog does not back the given palette")
	}

	start := time.Now()
	small, err := imaging.Preprocess(img, opts.Preprocess)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	grid, err := mapper.Map(ctx, mapper.GridFromImage(small), src.Palette, mapper.Options{Workers: opts.Workers})
	if err != nil {
		return nil, fmt.Errorf("map colors: %w", err)
	}

	legend, err := BuildLegend(grid, src)
	if err != nil {
		return nil, err
	}

	log.Info("generated pattern",
		"width", grid.Width,
		"height", grid.Height,
		"palette", src.Palette.Len(),
		"colors_used", len(legend),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return &Pattern{Grid: grid, Legend: legend}, nil
}
