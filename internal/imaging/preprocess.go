package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// Default preprocessing settings: a light blur to suppress noise and JPEG
// artifacts, then a 100×100 stitch grid.
const (
	DefaultWidth      = 100
	DefaultHeight     = 100
	DefaultBlurRadius = 1.0

	// MaxStitches bounds each side of a pattern.
	MaxStitches = 2000
)

// PreprocessOptions controls how a source image is reduced to a stitch grid.
type PreprocessOptions struct {
	// Width and Height are the output size in stitches. When one of them is
	// zero the aspect ratio of the source is kept.
	Width  int
	Height int

	// BlurRadius is the Gaussian blur radius applied before resizing.
	// Zero disables the blur.
	BlurRadius float64

	// Fit scales the image to fit inside Width×Height keeping the aspect
	// ratio instead of stretching it to the exact size.
	Fit bool
}

// DefaultPreprocessOptions returns the standard 100×100 settings.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		BlurRadius: DefaultBlurRadius,
	}
}

// Preprocess blurs img and resamples it with a Lanczos filter to the
// requested stitch size.
//
// The result always has its origin at (0,0).
func Preprocess(img image.Image, opts PreprocessOptions) (*image.NRGBA, error) {
	if opts.Width < 0 || opts.Height < 0 || (opts.Width == 0 && opts.Height == 0) {
		return nil, fmt.Errorf("invalid pattern size %dx%d", opts.Width, opts.Height)
	}
	if opts.Fit && (opts.Width == 0 || opts.Height == 0) {
		return nil, fmt.Errorf("fit needs both width and height, got %dx%d", opts.Width, opts.Height)
	}
	if opts.BlurRadius < 0 {
		return nil, fmt.Errorf("invalid blur radius %g", opts.BlurRadius)
	}
	if opts.Width > MaxStitches || opts.Height > MaxStitches {
		return nil, fmt.Errorf("pattern size %dx%d exceeds %d stitches per side", opts.Width, opts.Height, MaxStitches)
	}
	if img.Bounds().Empty() {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0)), nil
	}
	if w, h := outputSize(img.Bounds(), opts); w > MaxStitches || h > MaxStitches {
		return nil, fmt.Errorf("pattern size %dx%d from a %dx%d source exceeds %d stitches per side",
			w, h, img.Bounds().Dx(), img.Bounds().Dy(), MaxStitches)
	}

	src := img
	if opts.BlurRadius > 0 {
		src = blur.Gaussian(img, opts.BlurRadius)
	}

	if opts.Fit {
		return imaging.Fit(src, opts.Width, opts.Height, imaging.Lanczos), nil
	}
	return imaging.Resize(src, opts.Width, opts.Height, imaging.Lanczos), nil
}

// outputSize returns the size Resize or Fit will produce for a source with
// bounds b. A zero side is derived from the source aspect ratio.
func outputSize(b image.Rectangle, opts PreprocessOptions) (int, int) {
	w, h := opts.Width, opts.Height
	if opts.Fit {
		return min(w, b.Dx()), min(h, b.Dy())
	}
	sw, sh := float64(b.Dx()), float64(b.Dy())
	switch {
	case w == 0:
		w = int(math.Max(1, math.Round(float64(h)*sw/sh)))
	case h == 0:
		h = int(math.Max(1, math.Round(float64(w)*sh/sw)))
	}
	return w, h
}
