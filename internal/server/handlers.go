package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
	"github.com/afalcongonzalez/chromaviews/internal/imaging"
	"github.com/afalcongonzalez/chromaviews/internal/names"
	"github.com/afalcongonzalez/chromaviews/internal/palette"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "palette_analyze", "color_name").
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
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
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
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "palette_analyze":
		return s.handlePaletteAnalyze(ctx, args)
	case "palette_overlay":
		return s.handlePaletteOverlay(ctx, args)
	case "color_name":
		return s.handleColorName(args)
	case "color_sample":
		return s.handleColorSample(args)
	case "cache_clear":
		return s.handleCacheClear(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response. Empty data is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	mcpErr := &MCPError{Code: code, Message: message}
	if data != "" {
		mcpErr.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   mcpErr,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(args)) == 0 || bytes.Equal(bytes.TrimSpace(args), []byte("null")) {
		return errors.New("missing arguments")
	}
	return json.Unmarshal(args, v)
}

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path, s.analyzer.Options().Prepare.MaxDimension)
}

type paletteArgs struct {
	Path string `json:"path"`
	K    int    `json:"k"`
}

func (s *Server) handlePaletteAnalyze(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a paletteArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.analyzePath(ctx, a)
}

type paletteOverlayArgs struct {
	paletteArgs
	Radius int `json:"radius"`
}

// paletteOverlayResult is the annotated image plus the palette its markers
// refer to.
type paletteOverlayResult struct {
	*imaging.OverlayResult
	Palette []palette.Entry `json:"palette"`
}

func (s *Server) handlePaletteOverlay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a paletteOverlayArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	buf, err := s.cache.Prepared(a.Path, s.analyzer.Options().Prepare)
	if err != nil {
		return nil, err
	}
	res, err := s.analyzer.AnalyzeBuffer(ctx, buf, defaultK(a.K))
	if err != nil {
		return nil, err
	}

	markers := res.Markers()
	encoded, err := imaging.EncodePNGBase64(imaging.Overlay(buf, markers, a.Radius), len(markers))
	if err != nil {
		return nil, err
	}
	return &paletteOverlayResult{OverlayResult: encoded, Palette: res.Palette}, nil
}

type colorNameArgs struct {
	Hex string `json:"hex"`
}

func (s *Server) handleColorName(args json.RawMessage) (interface{}, error) {
	var a colorNameArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.analyzer.Name(a.Hex)
}

type colorSampleArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type colorSampleResult struct {
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Hex   string         `json:"hex"`
	RGB   colorspace.RGB `json:"rgb"`
	Name  string         `json:"name"`
	Match names.Match    `json:"match"`
}

// handleColorSample names the color of one pixel of the prepared image, the
// same image palette_analyze sample coordinates refer to.
func (s *Server) handleColorSample(args json.RawMessage) (interface{}, error) {
	var a colorSampleArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	buf, err := s.cache.Prepared(a.Path, s.analyzer.Options().Prepare)
	if err != nil {
		return nil, err
	}
	rgb, err := buf.At(a.X, a.Y)
	if err != nil {
		return nil, err
	}
	m, err := s.analyzer.Name(rgb.Hex())
	if err != nil {
		return nil, err
	}

	return &colorSampleResult{
		X:     a.X,
		Y:     a.Y,
		Hex:   rgb.Hex(),
		RGB:   rgb,
		Name:  m.Display(),
		Match: m,
	}, nil
}

type cacheClearArgs struct {
	Path string `json:"path"`
}

// handleCacheClear drops one path from the image cache, or everything when
// no path is given. Arguments are optional.
func (s *Server) handleCacheClear(args json.RawMessage) (interface{}, error) {
	var a cacheClearArgs
	if trimmed := bytes.TrimSpace(args); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}

	cleared := a.Path
	if a.Path == "" {
		s.cache.Clear()
		cleared = "all"
	} else {
		s.cache.Evict(a.Path)
	}
	s.logger.Debug("image cache cleared", "path", cleared)

	return map[string]interface{}{
		"cleared":       cleared,
		"cached_images": s.cache.Len(),
	}, nil
}

func (s *Server) analyzePath(ctx context.Context, a paletteArgs) (interface{}, error) {
	buf, err := s.cache.Prepared(a.Path, s.analyzer.Options().Prepare)
	if err != nil {
		return nil, err
	}
	return s.analyzer.AnalyzeBuffer(ctx, buf, defaultK(a.K))
}

// defaultK maps an omitted k to the default palette size.
func defaultK(k int) int {
	if k == 0 {
		return palette.DefaultK
	}
	return k
}
