package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the common "path" argument of image tools.
var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the source image (PNG, JPEG, GIF or WebP)",
}

// patternProperties are shared by pattern_generate and pattern_chart.
func patternProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty,
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Pattern width in stitches. Default from FLOSS_WIDTH (100)",
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Pattern height in stitches. 0 keeps the aspect ratio. Default from FLOSS_HEIGHT (100)",
		},
		"blur_radius": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius applied before resizing. 0 disables. Default from FLOSS_BLUR_RADIUS (1.0)",
		},
		"fit": map[string]interface{}{
			"type":        "boolean",
			"description": "Fit inside width x height keeping the aspect ratio instead of stretching",
			"default":     false,
		},
		"output_path": map[string]interface{}{
			"type":        "string",
			"description": "Optional file to write the PNG to. When set, no base64 image is returned",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	chartProps := patternProperties()
	chartProps["cell_size"] = map[string]interface{}{
		"type":        "integer",
		"description": "Pixels per stitch in the chart. Default 10",
		"default":     10,
	}
	chartProps["major_every"] = map[string]interface{}{
		"type":        "integer",
		"description": "Draw a heavy grid line every N stitches. Default 10",
		"default":     10,
	}
	chartProps["show_coordinates"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Label heavy grid intersections with stitch coordinates",
		"default":     false,
	}

	return []Tool{
		// Source Images
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Palette Operations
		{
			Name:        "palette_load",
			Description: "Replace the active palette. Give either a thread catalog CSV (Floss,DMC Name,R,G,B,Hex) or a cube depth for a uniform RGB palette.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"threads_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a thread catalog CSV",
					},
					"cube_depth": map[string]interface{}{
						"type":        "integer",
						"description": "Levels per channel minus one; depth 4 gives 125 colors",
					},
				},
			},
		},
		{
			Name:        "palette_info",
			Description: "Describe the active palette: where it came from and how many colors it has. Optionally list the colors.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"list": map[string]interface{}{
						"type":        "boolean",
						"description": "Include every palette color (and thread, if known)",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "palette_nearest",
			Description: "Find the palette colors closest to one or more hex colors (#RRGGBB or #RRGGBBAA). Exact ties go to the color listed first in the palette.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"colors": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Hex colors to match",
					},
				},
				"required": []string{"colors"},
			},
		},

		// Pattern Operations
		{
			Name:        "pattern_generate",
			Description: "Blur and resize an image to a stitch grid, then replace every stitch with its nearest palette color. Returns the pattern PNG (one pixel per stitch) and a legend of thread usage.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": patternProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "pattern_chart",
			Description: "Generate a pattern and render it as a printable chart: each stitch enlarged to a square cell with grid lines, heavier every 10 stitches.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": chartProps,
				"required":   []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
