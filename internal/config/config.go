// Package config reads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/ironsheep/floss-pattern-mcp/internal/imaging"
)

// Environment variable names.
const (
	EnvLogLevel   = "FLOSS_LOG_LEVEL"
	EnvThreads    = "FLOSS_THREADS"
	EnvCubeDepth  = "FLOSS_CUBE_DEPTH"
	EnvWidth      = "FLOSS_WIDTH"
	EnvHeight     = "FLOSS_HEIGHT"
	EnvBlurRadius = "FLOSS_BLUR_RADIUS"
	EnvWorkers    = "FLOSS_WORKERS"
)

// DefaultCubeDepth gives a 125 color palette when no thread catalog is set.
const DefaultCubeDepth = 4

// Config holds the resolved settings.
type Config struct {
	LogLevel   log.Level
	Threads    string // Thread catalog CSV; empty selects the cube palette
	CubeDepth  int
	Width      int
	Height     int
	BlurRadius float64
	Workers    int
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel:   log.InfoLevel,
		CubeDepth:  DefaultCubeDepth,
		Width:      imaging.DefaultWidth,
		Height:     imaging.DefaultHeight,
		BlurRadius: imaging.DefaultBlurRadius,
		Workers:    runtime.NumCPU(),
	}
}

// Load reads the given .env files (".env" when none are named) into the
// process environment, without overriding variables already set, then
// parses the configuration. Missing .env files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv parses the configuration using getenv for lookups.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	var err error

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		if cfg.LogLevel, err = log.ParseLevel(strings.ToLower(v)); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}
	cfg.Threads = strings.TrimSpace(getenv(EnvThreads))

	ints := []struct {
		name string
		dst  *int
		min  int
	}{
		{EnvCubeDepth, &cfg.CubeDepth, 1},
		{EnvWidth, &cfg.Width, 0},
		{EnvHeight, &cfg.Height, 0},
		{EnvWorkers, &cfg.Workers, 1},
	}
	for _, iv := range ints {
		v := strings.TrimSpace(getenv(iv.name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %q is not an integer", iv.name, v)
		}
		if n < iv.min {
			return Config{}, fmt.Errorf("%s: %d is below the minimum %d", iv.name, n, iv.min)
		}
		*iv.dst = n
	}
	if cfg.Width == 0 && cfg.Height == 0 {
		return Config{}, fmt.Errorf("%s and %s cannot both be 0", EnvWidth, EnvHeight)
	}

	if v := strings.TrimSpace(getenv(EnvBlurRadius)); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 {
			return Config{}, fmt.Errorf("%s: %q is not a non-negative number", EnvBlurRadius, v)
		}
		cfg.BlurRadius = r
	}

	return cfg, nil
}

// PreprocessOptions returns the pattern size and blur as imaging options.
func (c Config) PreprocessOptions() imaging.PreprocessOptions {
	return imaging.PreprocessOptions{
		Width:      c.Width,
		Height:     c.Height,
		BlurRadius: c.BlurRadius,
	}
}
