// Package server implements an MCP (Model Context Protocol) server for
// palette extraction and color naming.
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
//   - image_dimensions: Get width, height, format and prepared size
//   - palette_analyze: Extract dominant colors with names and sample points
//   - palette_overlay: Same analysis, returned as an annotated PNG
//   - color_name: Nearest named color for a hex value
//
// # Image Caching
//
// Decoded images and their prepared pixel buffers are cached by path, so
// palette_analyze followed by palette_overlay on the same file decodes it
// once. The cache lives as long as the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with
// code -32000 and the Go error string as data. Malformed request lines get
// -32700, malformed tools/call params get -32602.
//
// # Usage
//
//	srv := server.New(a, logger, version)
//	if err := srv.Serve(ctx, os.Stdin, os.Stdout); err != nil {
//	    return err
//	}
package server
