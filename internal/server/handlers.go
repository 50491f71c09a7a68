package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/floss-pattern-mcp/internal/imaging"
	"github.com/ironsheep/floss-pattern-mcp/internal/palette"
	"github.com/ironsheep/floss-pattern-mcp/internal/pattern"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "pattern_generate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		log.Warn("tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Source Images
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Palette Operations
	case "palette_load":
		return s.handlePaletteLoad(args)
	case "palette_info":
		return s.handlePaletteInfo(args)
	case "palette_nearest":
		return s.handlePaletteNearest(args)

	// Pattern Operations
	case "pattern_generate":
		return s.handlePatternGenerate(ctx, args)
	case "pattern_chart":
		return s.handlePatternChart(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments, treating a missing body as {}.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	return json.Unmarshal(args, v)
}

// === Source Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Palette Handlers ===

type paletteLoadArgs struct {
	ThreadsPath string `json:"threads_path"`
	CubeDepth   int    `json:"cube_depth"`
}

// PaletteInfo describes the active palette.
type PaletteInfo struct {
	Source string         `json:"source"`
	Colors int            `json:"colors"`
	Items  []PaletteColor `json:"items,omitempty"`
}

// PaletteColor is one palette entry, with its thread when known.
type PaletteColor struct {
	Index int    `json:"index"`
	Hex   string `json:"hex"`
	Floss string `json:"floss,omitempty"`
	Name  string `json:"name,omitempty"`
}

func (s *Server) handlePaletteLoad(args json.RawMessage) (interface{}, error) {
	var a paletteLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	var err error
	switch {
	case a.ThreadsPath != "" && a.CubeDepth != 0:
		return nil, errors.New("give threads_path or cube_depth, not both")
	case a.ThreadsPath != "":
		err = s.loadCatalog(a.ThreadsPath)
	case a.CubeDepth != 0:
		err = s.loadCube(a.CubeDepth)
	default:
		return nil, errors.New("threads_path or cube_depth is required")
	}
	if err != nil {
		return nil, err
	}
	return s.paletteInfo(false), nil
}

type paletteInfoArgs struct {
	List bool `json:"list"`
}

func (s *Server) handlePaletteInfo(args json.RawMessage) (interface{}, error) {
	var a paletteInfoArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.paletteInfo(a.List), nil
}

func (s *Server) paletteInfo(list bool) *PaletteInfo {
	src, label := s.Source()
	info := &PaletteInfo{Source: label, Colors: src.Palette.Len()}
	if !list {
		return info
	}
	for i, c := range src.Palette.Colors() {
		info.Items = append(info.Items, paletteColor(src, i, c))
	}
	return info
}

func paletteColor(src pattern.Source, i int, c palette.Color) PaletteColor {
	pc := PaletteColor{Index: i, Hex: c.Hex()}
	if th, ok := src.Catalog.Thread(i); ok {
		pc.Floss = th.Floss
		pc.Name = th.Name
	}
	return pc
}

type paletteNearestArgs struct {
	Colors []string `json:"colors"`
}

// NearestMatch pairs a query color with its closest palette entry.
type NearestMatch struct {
	Query    string       `json:"query"`
	Match    PaletteColor `json:"match"`
	Distance float64      `json:"distance"`
}

// NearestResult lists matches in query order.
type NearestResult struct {
	Matches []NearestMatch `json:"matches"`
}

func (s *Server) handlePaletteNearest(args json.RawMessage) (interface{}, error) {
	var a paletteNearestArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Colors) == 0 {
		return nil, errors.New("colors must not be empty")
	}

	// Validate every query before matching any.
	queries := make([]palette.Color, len(a.Colors))
	for i, hex := range a.Colors {
		q, err := palette.ParseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("colors[%d]: %w", i, err)
		}
		queries[i] = q
	}

	src, _ := s.Source()
	result := &NearestResult{Matches: make([]NearestMatch, 0, len(queries))}
	for i, q := range queries {
		pi, err := src.Palette.NearestIndex(q)
		if err != nil {
			return nil, err
		}
		c := src.Palette.At(pi)
		result.Matches = append(result.Matches, NearestMatch{
			Query:    a.Colors[i],
			Match:    paletteColor(src, pi, c),
			Distance: palette.Distance(q, c),
		})
	}
	return result, nil
}

// === Pattern Handlers ===

type patternArgs struct {
	Path       string   `json:"path"`
	Width      *int     `json:"width"`
	Height     *int     `json:"height"`
	BlurRadius *float64 `json:"blur_radius"`
	Fit        bool     `json:"fit"`
	OutputPath string   `json:"output_path"`
}

// options merges explicit arguments over the configured defaults.
func (a patternArgs) options(s *Server) pattern.Options {
	pre := s.cfg.PreprocessOptions()
	if a.Width != nil {
		pre.Width = *a.Width
	}
	if a.Height != nil {
		pre.Height = *a.Height
	}
	if a.BlurRadius != nil {
		pre.BlurRadius = *a.BlurRadius
	}
	pre.Fit = a.Fit
	return pattern.Options{Preprocess: pre, Workers: s.cfg.Workers}
}

// PatternResult is returned by pattern_generate.
type PatternResult struct {
	Width       int                   `json:"width"`  // Stitches across
	Height      int                   `json:"height"` // Stitches down
	Palette     string                `json:"palette"`
	Legend      []pattern.LegendEntry `json:"legend"`
	ImageBase64 string                `json:"image_base64,omitempty"`
	MimeType    string                `json:"mime_type,omitempty"`
	OutputPath  string                `json:"output_path,omitempty"`
}

func (s *Server) generate(ctx context.Context, a patternArgs) (*pattern.Pattern, string, error) {
	if a.Path == "" {
		return nil, "", errors.New("path is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, "", err
	}
	src, label := s.Source()
	p, err := pattern.Generate(ctx, img, src, a.options(s))
	if err != nil {
		return nil, "", err
	}
	return p, label, nil
}

func (s *Server) handlePatternGenerate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a patternArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.patternGenerate(ctx, a)
}

// WritePattern generates a pattern from the image at in with the configured
// settings and saves it as PNG to out.
func (s *Server) WritePattern(ctx context.Context, in, out string) (*PatternResult, error) {
	return s.patternGenerate(ctx, patternArgs{Path: in, OutputPath: out})
}

func (s *Server) patternGenerate(ctx context.Context, a patternArgs) (*PatternResult, error) {
	p, label, err := s.generate(ctx, a)
	if err != nil {
		return nil, err
	}

	result := &PatternResult{
		Width:   p.Grid.Width,
		Height:  p.Grid.Height,
		Palette: label,
		Legend:  p.Legend,
	}
	if a.OutputPath != "" {
		if err := imaging.Save(p.Image(), a.OutputPath); err != nil {
			return nil, err
		}
		result.OutputPath = a.OutputPath
		return result, nil
	}

	encoded, err := imaging.EncodePNG(p.Image())
	if err != nil {
		return nil, err
	}
	result.ImageBase64 = encoded
	result.MimeType = "image/png"
	return result, nil
}

type patternChartArgs struct {
	patternArgs
	CellSize        *int `json:"cell_size"`
	MajorEvery      *int `json:"major_every"`
	ShowCoordinates bool `json:"show_coordinates"`
}

// ChartToolResult is returned by pattern_chart.
type ChartToolResult struct {
	*imaging.ChartResult
	Palette    string                `json:"palette"`
	Legend     []pattern.LegendEntry `json:"legend"`
	OutputPath string                `json:"output_path,omitempty"`
}

func (s *Server) handlePatternChart(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a patternChartArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.patternChart(ctx, a)
}

// WriteChart generates a pattern from the image at in and saves it to out as
// a chart with the default grid layout.
func (s *Server) WriteChart(ctx context.Context, in, out string) (*ChartToolResult, error) {
	return s.patternChart(ctx, patternChartArgs{patternArgs: patternArgs{Path: in, OutputPath: out}})
}

func (s *Server) patternChart(ctx context.Context, a patternChartArgs) (*ChartToolResult, error) {
	opts := imaging.DefaultChartOptions()
	if a.CellSize != nil {
		opts.CellSize = *a.CellSize
	}
	if a.MajorEvery != nil {
		opts.MajorEvery = *a.MajorEvery
	}
	opts.ShowCoordinates = a.ShowCoordinates

	p, label, err := s.generate(ctx, a.patternArgs)
	if err != nil {
		return nil, err
	}

	if a.OutputPath != "" {
		chart, err := imaging.RenderChart(p.Image(), opts)
		if err != nil {
			return nil, err
		}
		if err := imaging.Save(chart, a.OutputPath); err != nil {
			return nil, err
		}
		return &ChartToolResult{
			ChartResult: &imaging.ChartResult{
				Width:    chart.Bounds().Dx(),
				Height:   chart.Bounds().Dy(),
				Columns:  p.Grid.Width,
				Rows:     p.Grid.Height,
				CellSize: opts.CellSize,
			},
			Palette:    label,
			Legend:     p.Legend,
			OutputPath: a.OutputPath,
		}, nil
	}

	chart, err := imaging.Chart(p.Image(), opts)
	if err != nil {
		return nil, err
	}
	return &ChartToolResult{ChartResult: chart, Palette: label, Legend: p.Legend}, nil
}
