// Package server implements the MCP (Model Context Protocol) server for the
// hex map tools.
//
// This package provides a JSON-RPC 2.0 server that exposes grid inference
// and tile extraction to MCP-compatible clients, so an assistant can check
// the grid detected on a map before splitting it.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//
// Edge Detection:
//   - hexgrid_edge_mask: Binary edge mask the detector works from
//
// Grid Inference:
//   - hexgrid_analyze: Boundaries, hex size and grid dimensions
//   - hexgrid_cells: Center of every cell inside the image
//   - hexgrid_grid_overlay: Center lattice drawn over the map
//
// Tile Extraction:
//   - hexgrid_tile_preview: One masked tile as base64 PNG
//   - hexgrid_split: Write every tile and a manifest to a directory
//
// Every grid tool accepts rows, cols and vert_spacing overrides. Giving
// both rows and cols skips edge detection entirely.
//
// # Image Caching
//
// Decoded images are kept in a bounded LRU cache keyed by path and shared by
// every tool call, so inspecting a map and then splitting it decodes it once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(hexgrid.LogSink{Logger: log.Default(), MinLevel: hexgrid.LevelInfo})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
