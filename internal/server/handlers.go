package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/hexmap-tools/internal/config"
	"github.com/ironsheep/hexmap-tools/internal/hexgrid"
	"github.com/ironsheep/hexmap-tools/internal/imaging"
	"github.com/ironsheep/hexmap-tools/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "hexgrid_split").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Runs the pipeline stage the tool exposes
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)

	// Edge Detection
	case "hexgrid_edge_mask":
		return s.handleEdgeMask(args)

	// Grid Inference
	case "hexgrid_analyze":
		return s.handleAnalyze(args)
	case "hexgrid_cells":
		return s.handleCells(args)
	case "hexgrid_grid_overlay":
		return s.handleGridOverlay(args)

	// Tile Extraction
	case "hexgrid_tile_preview":
		return s.handleTilePreview(args)
	case "hexgrid_split":
		return s.handleSplit(args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Shared Grid Arguments ===

// gridArgs are accepted by every tool that resolves a grid. Pointer fields
// distinguish "not given" from zero.
type gridArgs struct {
	Path          string   `json:"path"`
	MaskPath      string   `json:"mask_path"`
	ExpectedTiles int      `json:"expected_tiles"`
	Rows          *int     `json:"rows"`
	Cols          *int     `json:"cols"`
	VertSpacing   *float64 `json:"vert_spacing"`
	InvertOffset  bool     `json:"invert_offset"`
	BlurRadius    *float64 `json:"blur_radius"`
	Threshold     *int     `json:"threshold"`
}

// config layers the arguments over the default configuration.
func (a gridArgs) config() (*config.Config, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	cfg := config.DefaultConfig()
	if a.ExpectedTiles != 0 {
		cfg.ExpectedTiles = a.ExpectedTiles
	}
	cfg.Rows = a.Rows
	cfg.Cols = a.Cols
	cfg.VertSpacing = a.VertSpacing
	cfg.InvertOffset = a.InvertOffset

	edges, err := edgeOptions(a.BlurRadius, a.Threshold)
	if err != nil {
		return nil, err
	}
	cfg.Edges = edges
	return cfg, nil
}

func (a gridArgs) request() (pipeline.Request, error) {
	cfg, err := a.config()
	if err != nil {
		return pipeline.Request{}, err
	}
	if err := cfg.Validate(); err != nil {
		return pipeline.Request{}, err
	}
	return pipeline.RequestFromConfig(cfg, a.Path, a.MaskPath), nil
}

func edgeOptions(blurRadius *float64, threshold *int) (imaging.EdgeOptions, error) {
	opts := imaging.DefaultEdgeOptions()
	if blurRadius != nil {
		if *blurRadius < 0 {
			return opts, fmt.Errorf("blur_radius must be >= 0, got %g", *blurRadius)
		}
		opts.BlurRadius = *blurRadius
	}
	if threshold != nil {
		if *threshold < 1 || *threshold > 255 {
			return opts, fmt.Errorf("threshold must be between 1 and 255, got %d", *threshold)
		}
		opts.Threshold = uint8(*threshold)
	}
	return opts, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Edge Detection Handlers ===

type edgeMaskArgs struct {
	Path       string   `json:"path"`
	BlurRadius *float64 `json:"blur_radius"`
	Threshold  *int     `json:"threshold"`
	OutputPath string   `json:"output_path"`
}

type edgeMaskResult struct {
	*imaging.EdgeDetectResult
	OutputPath string `json:"output_path,omitempty"`
}

func (s *Server) handleEdgeMask(args json.RawMessage) (interface{}, error) {
	var a edgeMaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts, err := edgeOptions(a.BlurRadius, a.Threshold)
	if err != nil {
		return nil, err
	}
	mask, err := s.runner.EdgeMask(pipeline.Request{ImagePath: a.Path, Edges: opts})
	if err != nil {
		return nil, err
	}
	if a.OutputPath != "" {
		if err := imaging.Save(mask, a.OutputPath); err != nil {
			return nil, err
		}
	}
	encoded, err := imaging.EncodeEdgeMask(mask)
	if err != nil {
		return nil, err
	}
	return &edgeMaskResult{EdgeDetectResult: encoded, OutputPath: a.OutputPath}, nil
}

// === Grid Inference Handlers ===

// analyzeResult is a plan without its cell list.
type analyzeResult struct {
	Source    string             `json:"source"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Manual    bool               `json:"manual"`
	Analysis  *hexgrid.Analysis  `json:"analysis,omitempty"`
	Params    hexgrid.GridParams `json:"params"`
	Offset    hexgrid.OffsetMode `json:"offset_mode"`
	CellCount int                `json:"cell_count"`
}

func (s *Server) plan(args json.RawMessage) (*pipeline.Plan, error) {
	var a gridArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	req, err := a.request()
	if err != nil {
		return nil, err
	}
	return s.runner.Plan(req)
}

func (s *Server) handleAnalyze(args json.RawMessage) (interface{}, error) {
	plan, err := s.plan(args)
	if err != nil {
		return nil, err
	}
	return &analyzeResult{
		Source:    plan.Source,
		Width:     plan.Width,
		Height:    plan.Height,
		Manual:    plan.Manual,
		Analysis:  plan.Analysis,
		Params:    plan.Params,
		Offset:    plan.Offset,
		CellCount: len(plan.Cells),
	}, nil
}

type cellsResult struct {
	Params hexgrid.GridParams `json:"params"`
	Offset hexgrid.OffsetMode `json:"offset_mode"`
	Count  int                `json:"count"`
	Cells  []hexgrid.HexCell  `json:"cells"`
}

func (s *Server) handleCells(args json.RawMessage) (interface{}, error) {
	plan, err := s.plan(args)
	if err != nil {
		return nil, err
	}
	return &cellsResult{
		Params: plan.Params,
		Offset: plan.Offset,
		Count:  len(plan.Cells),
		Cells:  plan.Cells,
	}, nil
}

type gridOverlayArgs struct {
	gridArgs
	Scale float64 `json:"scale"`
}

func (s *Server) handleGridOverlay(args json.RawMessage) (interface{}, error) {
	var a gridOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	req, err := a.request()
	if err != nil {
		return nil, err
	}
	plan, err := s.runner.Plan(req)
	if err != nil {
		return nil, err
	}
	grid, err := imaging.GridOverlay(plan.Image(), imaging.GridSpec{
		OriginX:         plan.Params.StartX,
		OriginY:         plan.Params.StartY,
		SpacingX:        plan.Params.SpacingX,
		SpacingY:        plan.Params.SpacingY,
		ShowCoordinates: true,
	})
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(grid, a.Scale)
}

// === Tile Extraction Handlers ===

type tilePreviewArgs struct {
	gridArgs
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	Margin *int    `json:"margin"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleTilePreview(args json.RawMessage) (interface{}, error) {
	var a tilePreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	req, err := a.request()
	if err != nil {
		return nil, err
	}
	if a.Margin != nil {
		if *a.Margin < 0 {
			return nil, fmt.Errorf("margin must be >= 0, got %d", *a.Margin)
		}
		req.Margin = *a.Margin
	}
	plan, err := s.runner.Plan(req)
	if err != nil {
		return nil, err
	}

	var cell *hexgrid.HexCell
	for i := range plan.Cells {
		if plan.Cells[i].Row == a.Row && plan.Cells[i].Col == a.Col {
			cell = &plan.Cells[i]
			break
		}
	}
	if cell == nil {
		return nil, fmt.Errorf("no cell %s in a %dx%d grid", hexgrid.CellID(a.Row, a.Col), plan.Params.Rows, plan.Params.Cols)
	}

	tile, err := s.runner.Extractor(req).ExtractCell(plan.Image(), plan.Params, *cell)
	if err != nil {
		return nil, err
	}
	if tile == nil {
		return nil, fmt.Errorf("cell %s lies outside the image", cell.ID())
	}
	return imaging.EncodePNG(tile.Image, a.Scale)
}

type splitArgs struct {
	gridArgs
	OutputDir  string `json:"output_dir"`
	TileFormat string `json:"tile_format"`
	Margin     *int   `json:"margin"`
	Workers    int    `json:"workers"`
	DebugDir   string `json:"debug_dir"`
}

func (s *Server) handleSplit(args json.RawMessage) (interface{}, error) {
	var a splitArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputDir == "" {
		return nil, fmt.Errorf("output_dir is required")
	}

	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	cfg.OutputDir = a.OutputDir
	if a.TileFormat != "" {
		cfg.TileFormat = a.TileFormat
	}
	if a.Margin != nil {
		cfg.Margin = *a.Margin
	}
	if a.Workers > 0 {
		cfg.Workers = a.Workers
	}
	if a.DebugDir != "" {
		cfg.Debug = true
		cfg.DebugDir = a.DebugDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return s.runner.Split(context.Background(), pipeline.RequestFromConfig(cfg, a.Path, a.MaskPath))
}
