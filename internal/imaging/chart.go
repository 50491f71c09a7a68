package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
)

// MaxChartPixels bounds the area of a rendered chart.
const MaxChartPixels = 64 << 20

// ChartOptions controls chart rendering.
type ChartOptions struct {
	// CellSize is the edge length of one stitch in output pixels.
	CellSize int

	// MajorEvery draws a heavier line every N stitches. Zero disables major lines.
	MajorEvery int

	// ShowCoordinates labels each major intersection with its stitch position.
	ShowCoordinates bool

	// GridColor and MajorColor are "#RRGGBB" or "#RRGGBBAA" strings. Empty
	// strings select the defaults.
	GridColor  string
	MajorColor string
}

// DefaultChartOptions returns the usual cross-stitch layout: 10px cells and a
// heavy line every 10 stitches.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		CellSize:   10,
		MajorEvery: 10,
		GridColor:  "#80808080",
		MajorColor: "#000000",
	}
}

// ChartResult contains a rendered chart image.
type ChartResult struct {
	Width       int    `json:"width"`                  // Chart width in pixels
	Height      int    `json:"height"`                 // Chart height in pixels
	Columns     int    `json:"columns"`                // Stitches across
	Rows        int    `json:"rows"`                   // Stitches down
	CellSize    int    `json:"cell_size"`              // Pixels per stitch
	ImageBase64 string `json:"image_base64,omitempty"` // PNG data
	MimeType    string `json:"mime_type,omitempty"`
}

// RenderChart enlarges every stitch of pattern to a CellSize square and draws
// the stitch grid over it.
func RenderChart(pattern image.Image, opts ChartOptions) (*image.NRGBA, error) {
	if opts.CellSize < 2 {
		return nil, fmt.Errorf("cell size %d too small, need at least 2", opts.CellSize)
	}
	gridColor, err := chartColor(opts.GridColor, color.NRGBA{128, 128, 128, 128})
	if err != nil {
		return nil, fmt.Errorf("grid color: %w", err)
	}
	majorColor, err := chartColor(opts.MajorColor, color.NRGBA{0, 0, 0, 255})
	if err != nil {
		return nil, fmt.Errorf("major color: %w", err)
	}

	cols, rows := pattern.Bounds().Dx(), pattern.Bounds().Dy()
	if cols == 0 || rows == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0)), nil
	}
	cell := opts.CellSize
	if area := MaxChartPixels / (cols * rows); cell > area || cell*cell > area {
		return nil, fmt.Errorf("chart of %dx%d stitches at cell size %d exceeds %d pixels", cols, rows, cell, MaxChartPixels)
	}
	chart := imaging.Resize(pattern, cols*cell, rows*cell, imaging.NearestNeighbor)
	width, height := chart.Bounds().Dx(), chart.Bounds().Dy()

	for c := 0; c <= cols; c++ {
		lc := gridColor
		if opts.MajorEvery > 0 && c%opts.MajorEvery == 0 {
			lc = majorColor
		}
		x := min(c*cell, width-1)
		fillRect(chart, image.Rect(x, 0, x+1, height), lc)
	}
	for r := 0; r <= rows; r++ {
		lc := gridColor
		if opts.MajorEvery > 0 && r%opts.MajorEvery == 0 {
			lc = majorColor
		}
		y := min(r*cell, height-1)
		fillRect(chart, image.Rect(0, y, width, y+1), lc)
	}

	if opts.ShowCoordinates && opts.MajorEvery > 0 {
		labelColor := color.NRGBA{255, 255, 255, 255}
		bgColor := color.NRGBA{0, 0, 0, 180}
		for r := opts.MajorEvery; r < rows; r += opts.MajorEvery {
			for c := opts.MajorEvery; c < cols; c += opts.MajorEvery {
				drawLabel(chart, c*cell+2, r*cell+2, strconv.Itoa(c)+","+strconv.Itoa(r), labelColor, bgColor)
			}
		}
	}

	return chart, nil
}

// Chart renders pattern and returns it as base64 PNG.
func Chart(pattern image.Image, opts ChartOptions) (*ChartResult, error) {
	chart, err := RenderChart(pattern, opts)
	if err != nil {
		return nil, err
	}
	encoded, err := EncodePNG(chart)
	if err != nil {
		return nil, err
	}

	return &ChartResult{
		Width:       chart.Bounds().Dx(),
		Height:      chart.Bounds().Dy(),
		Columns:     pattern.Bounds().Dx(),
		Rows:        pattern.Bounds().Dy(),
		CellSize:    opts.CellSize,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

func chartColor(hex string, def color.NRGBA) (color.NRGBA, error) {
	if hex == "" {
		return def, nil
	}
	return parseHexColor(hex)
}

// fillRect blends c over r, so translucent grid lines leave the stitch
// color visible.
func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// drawLabel draws a small digit label at the given position.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	// 3x5 pixel font for digits and comma
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
	}

	const charWidth, labelHeight = 4, 7
	fillRect(img, image.Rect(x-1, y-1, x+len(text)*charWidth, y+labelHeight), bg)

	bounds := img.Bounds()
	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				p := image.Pt(cx+col, y+row)
				if pixel == '1' && p.In(bounds) {
					img.SetNRGBA(p.X, p.Y, fg)
				}
			}
		}
		cx += charWidth
	}
}
