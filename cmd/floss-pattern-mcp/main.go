package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/ironsheep/floss-pattern-mcp/internal/config"
	"github.com/ironsheep/floss-pattern-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("floss-pattern-mcp - MCP server that turns images into stitch patterns")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  floss-pattern-mcp                     Serve MCP over stdin/stdout")
	fmt.Println("  floss-pattern-mcp pattern <in> <out>  Write a pattern PNG")
	fmt.Println("  floss-pattern-mcp chart <in> <out>    Write a gridded chart PNG")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from ./.env):")
	fmt.Printf("  %-18s debug, info, warn or error (default info)\n", config.EnvLogLevel)
	fmt.Printf("  %-18s Thread catalog CSV; unset uses the RGB cube\n", config.EnvThreads)
	fmt.Printf("  %-18s Cube levels per channel minus one (default %d)\n", config.EnvCubeDepth, config.DefaultCubeDepth)
	fmt.Printf("  %-18s Pattern width in stitches (default 100)\n", config.EnvWidth)
	fmt.Printf("  %-18s Pattern height in stitches (default 100)\n", config.EnvHeight)
	fmt.Printf("  %-18s Gaussian blur radius, 0 disables (default 1)\n", config.EnvBlurRadius)
	fmt.Printf("  %-18s Matching workers (default: CPU count)\n", config.EnvWorkers)
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("floss-pattern-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	// Logs go to stderr; stdout carries the MCP protocol.
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "floss",
	})
	logger.SetColorProfile(termenv.NewOutput(os.Stderr).EnvColorProfile())
	log.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	logger.SetLevel(cfg.LogLevel)
	log.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	server.Version = Version
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatal("failed to load palette", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 {
		if err := runCommand(ctx, srv, os.Args[1:]); err != nil {
			stop()
			log.Fatal(err)
		}
		return
	}

	if err := srv.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("shutting down")
			return
		}
		stop()
		log.Fatal("server error", "err", err)
	}
}

func runCommand(ctx context.Context, srv *server.Server, args []string) error {
	switch args[0] {
	case "pattern", "chart":
	default:
		return fmt.Errorf("unknown command %q, see --help", args[0])
	}
	if len(args) != 3 {
		return fmt.Errorf("usage: floss-pattern-mcp %s <in> <out>", args[0])
	}
	in, out := args[1], args[2]

	if args[0] == "chart" {
		c, err := srv.WriteChart(ctx, in, out)
		if err != nil {
			return err
		}
		log.Info("chart written", "path", out, "columns", c.Columns, "rows", c.Rows, "colors", len(c.Legend))
		return nil
	}

	p, err := srv.WritePattern(ctx, in, out)
	if err != nil {
		return err
	}
	log.Info("pattern written", "path", out, "width", p.Width, "height", p.Height, "colors", len(p.Legend))
	return nil
}
