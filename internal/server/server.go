package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/floss-pattern-mcp/internal/config"
	"github.com/ironsheep/floss-pattern-mcp/internal/imaging"
	"github.com/ironsheep/floss-pattern-mcp/internal/palette"
	"github.com/ironsheep/floss-pattern-mcp/internal/pattern"
	"github.com/ironsheep/floss-pattern-mcp/internal/threads"
)

// Version is reported in the initialize handshake.
var Version = "dev"

// Server handles MCP protocol communication
type Server struct {
	cfg   config.Config
	cache *imaging.ImageCache

	mu          sync.RWMutex
	source      pattern.Source
	sourceLabel string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server and loads the palette named by cfg: the thread
// catalog when cfg.Threads is set, the RGB cube otherwise.
func New(cfg config.Config) (*Server, error) {
	s := &Server{
		cfg:   cfg,
		cache: imaging.NewImageCache(),
	}
	var err error
	if cfg.Threads != "" {
		err = s.loadCatalog(cfg.Threads)
	} else {
		err = s.loadCube(cfg.CubeDepth)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Run serves MCP over stdin and stdout until stdin closes.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w.
//
// Serve returns nil when r reaches EOF and ctx.Err() once ctx is cancelled,
// even while a read is blocked. A blocked read is left to finish in the
// background.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		defer func() { scanErr <- scanner.Err() }()
		for scanner.Scan() {
			select {
			case lines <- bytes.Clone(scanner.Bytes()):
			case <-ctx.Done():
				return
			}
		}
	}()

	encoder := json.NewEncoder(w)

	for {
		var line []byte
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := <-scanErr; err != nil {
					return fmt.Errorf("scanner error: %w", err)
				}
				return nil
			}
			line = l
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Warn("failed to parse request", "err", err)
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Error("failed to encode response", "err", err)
			}
		}
	}
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	log.Debug("request", "method", req.Method, "id", req.ID)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "floss-pattern-mcp",
				"version": Version,
			},
		},
	}
}

// Source returns the active palette.
func (s *Server) Source() (pattern.Source, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source, s.sourceLabel
}

// setSource swaps the active palette. Palettes are never modified after
// they are published here, so a pattern pass that already took a snapshot is
// unaffected.
func (s *Server) setSource(src pattern.Source, label string) {
	s.mu.Lock()
	s.source = src
	s.sourceLabel = label
	s.mu.Unlock()
	log.Info("active palette", "source", label, "colors", src.Palette.Len())
}

func (s *Server) loadCatalog(path string) error {
	catalog, err := threads.Load(path)
	if err != nil {
		return err
	}
	if catalog.Palette.Len() == 0 {
		return fmt.Errorf("%s: %w", path, palette.ErrEmptyPalette)
	}
	s.setSource(pattern.SourceFromCatalog(catalog), path)
	return nil
}

func (s *Server) loadCube(depth int) error {
	p, err := palette.Cube(depth)
	if err != nil {
		return err
	}
	s.setSource(pattern.Source{Palette: p}, fmt.Sprintf("cube:%d", depth))
	return nil
}
