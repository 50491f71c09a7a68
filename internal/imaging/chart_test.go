package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestRenderChart_Size(t *testing.T) {
	pattern := createInMemoryImage(12, 7, color.RGBA{0, 0, 255, 255})

	chart, err := RenderChart(pattern, DefaultChartOptions())
	if err != nil {
		t.Fatalf("RenderChart failed: %v", err)
	}
	if chart.Bounds() != image.Rect(0, 0, 120, 70) {
		t.Errorf("bounds: got %v, want 120x70", chart.Bounds())
	}
}

func TestRenderChart_GridLines(t *testing.T) {
	pattern := createInMemoryImage(20, 20, color.RGBA{255, 255, 255, 255})

	opts := ChartOptions{CellSize: 5, MajorEvery: 10, GridColor: "#FF0000", MajorColor: "#0000FF"}
	chart, err := RenderChart(pattern, opts)
	if err != nil {
		t.Fatalf("RenderChart failed: %v", err)
	}

	tests := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"minor vertical", 5, 2, color.NRGBA{255, 0, 0, 255}},
		{"minor horizontal", 2, 15, color.NRGBA{255, 0, 0, 255}},
		{"major vertical", 50, 2, color.NRGBA{0, 0, 255, 255}},
		{"major border", 0, 33, color.NRGBA{0, 0, 255, 255}},
		{"cell interior", 7, 7, color.NRGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chart.NRGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("at (%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRenderChart_StitchColorsPreserved(t *testing.T) {
	pattern := createQuadrantImage(4, 4)

	chart, err := RenderChart(pattern, ChartOptions{CellSize: 8})
	if err != nil {
		t.Fatalf("RenderChart failed: %v", err)
	}

	// Center of stitch (3,0) is green, stitch (0,3) is blue.
	if got := chart.NRGBAAt(3*8+4, 4); got != (color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("stitch (3,0): got %v, want green", got)
	}
	if got := chart.NRGBAAt(4, 3*8+4); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("stitch (0,3): got %v, want blue", got)
	}
}

func TestRenderChart_InvalidOptions(t *testing.T) {
	pattern := createInMemoryImage(4, 4, color.White)

	if _, err := RenderChart(pattern, ChartOptions{CellSize: 1}); err == nil {
		t.Error("expected error for cell size 1")
	}
	if _, err := RenderChart(pattern, ChartOptions{CellSize: 4, GridColor: "#ABC"}); err == nil {
		t.Error("expected error for malformed grid color")
	}
	if _, err := RenderChart(pattern, ChartOptions{CellSize: 1 << 40}); err == nil {
		t.Error("expected error for huge cell size")
	}

	// 100x100 stitches at cell size 1000 is 10^10 pixels.
	large := createInMemoryImage(100, 100, color.White)
	if _, err := RenderChart(large, ChartOptions{CellSize: 1000}); err == nil {
		t.Error("expected error for oversized chart")
	}
}

func TestChart_WithCoordinates(t *testing.T) {
	pattern := createInMemoryImage(30, 30, color.RGBA{128, 128, 128, 255})
	opts := DefaultChartOptions()
	opts.ShowCoordinates = true

	result, err := Chart(pattern, opts)
	if err != nil {
		t.Fatalf("Chart failed: %v", err)
	}
	if result.Columns != 30 || result.Rows != 30 || result.CellSize != 10 {
		t.Errorf("got %dx%d cell %d, want 30x30 cell 10", result.Columns, result.Rows, result.CellSize)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	if img.Bounds().Dx() != result.Width || img.Bounds().Dy() != result.Height {
		t.Errorf("decoded size %v does not match %dx%d", img.Bounds(), result.Width, result.Height)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "pattern.png")
	if err := Save(createInMemoryImage(3, 3, color.Black), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("saved file is not a png: %v", err)
	}
	if cfg.Width != 3 || cfg.Height != 3 {
		t.Errorf("saved size %dx%d, want 3x3", cfg.Width, cfg.Height)
	}
}
