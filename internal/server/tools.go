package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// gridProperties are the arguments shared by every hexgrid_* tool that
// resolves a grid.
func gridProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the map image",
		},
		"mask_path": map[string]interface{}{
			"type":        "string",
			"description": "Optional pre-computed edge mask with the same size as the image. Any non-zero pixel is an edge. Default: derived from the image",
		},
		"expected_tiles": map[string]interface{}{
			"type":        "integer",
			"description": "Approximate number of tiles on the map, used when the edge signal is weak (default 34)",
			"default":     34,
		},
		"rows": map[string]interface{}{
			"type":        "integer",
			"description": "Override the number of rows. Together with cols this skips detection (manual mode)",
		},
		"cols": map[string]interface{}{
			"type":        "integer",
			"description": "Override the number of columns. Together with rows this skips detection (manual mode)",
		},
		"vert_spacing": map[string]interface{}{
			"type":        "number",
			"description": "Override the vertical center-to-center spacing in pixels",
		},
		"invert_offset": map[string]interface{}{
			"type":        "boolean",
			"description": "Shift even rows instead of odd rows (default false)",
			"default":     false,
		},
		"blur_radius": map[string]interface{}{
			"type":        "number",
			"description": "Blur radius applied before edge detection (default 1.0)",
			"default":     1.0,
		},
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Gradient threshold for edge detection, 1-255 (default 64)",
			"default":     64,
		},
	}
}

// withProperties returns gridProperties plus extra.
func withProperties(extra map[string]interface{}) map[string]interface{} {
	props := gridProperties()
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Edge Detection
		{
			Name:        "hexgrid_edge_mask",
			Description: "Compute the binary edge mask the grid detector works from. Returns the mask as base64 PNG and optionally writes it to disk.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the map image",
					},
					"blur_radius": map[string]interface{}{
						"type":        "number",
						"description": "Blur radius applied before edge detection (default 1.0)",
						"default":     1.0,
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Gradient threshold, 1-255 (default 64)",
						"default":     64,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the mask to",
					},
				},
				"required": []string{"path"},
			},
		},

		// Grid Inference
		{
			Name:        "hexgrid_analyze",
			Description: "Infer the hex grid of a map: outer boundaries, hex side length, tile size, rows, columns, origin and spacing.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": gridProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "hexgrid_cells",
			Description: "List the center of every hex cell that falls inside the image, in row-major order.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": gridProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "hexgrid_grid_overlay",
			Description: "Draw the inferred center lattice over the map and return it as base64 PNG. Use this to check the detected grid visually.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"path"},
			},
		},

		// Tile Extraction
		{
			Name:        "hexgrid_tile_preview",
			Description: "Extract a single hex tile with its transparent background and return it as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"row": map[string]interface{}{
						"type":        "integer",
						"description": "Row of the cell (0-based)",
					},
					"col": map[string]interface{}{
						"type":        "integer",
						"description": "Column of the cell (0-based)",
					},
					"margin": map[string]interface{}{
						"type":        "integer",
						"description": "Padding in pixels around the hex (default 5)",
						"default":     5,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"path", "row", "col"},
			},
		},
		{
			Name:        "hexgrid_split",
			Description: "Extract every hex tile of a map into a directory as RR_CC.png files with transparent backgrounds, plus a manifest.json describing the run.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the directory to write tiles to",
					},
					"tile_format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "tiff"},
						"description": "Tile file format (default png)",
						"default":     "png",
					},
					"margin": map[string]interface{}{
						"type":        "integer",
						"description": "Padding in pixels around each hex (default 5)",
						"default":     5,
					},
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Concurrent tile workers (default: number of CPUs)",
					},
					"debug_dir": map[string]interface{}{
						"type":        "string",
						"description": "Optional directory for debug images of every stage",
					},
				}),
				"required": []string{"path", "output_dir"},
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
