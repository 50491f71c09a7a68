// Package server implements the MCP (Model Context Protocol) server for
// stitch pattern generation.
//
// This package provides a JSON-RPC 2.0 server that turns photos into
// paint-by-number or cross-stitch patterns matched against a thread palette.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Source Images:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Palette Operations:
//   - palette_load: Switch to a thread catalog CSV or a uniform RGB cube
//   - palette_info: Describe (and optionally list) the active palette
//   - palette_nearest: Match hex colors against the palette
//
// Pattern Operations:
//   - pattern_generate: Image to stitch pattern plus legend
//   - pattern_chart: Pattern rendered as a gridded chart
//
// # Palette Lifecycle
//
// The active palette is built at startup from the configuration and can be
// replaced with palette_load. A palette is never modified once published;
// palette_load builds a new one and swaps it in, so pattern requests already
// running keep matching against the palette they started with.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	cfg, _ := config.Load()
//	srv, err := server.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
package server
