package server

import (
	"fmt"

	"github.com/afalcongonzalez/chromaviews/internal/imaging"
	"github.com/afalcongonzalez/chromaviews/internal/palette"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func kProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": fmt.Sprintf("Number of clusters before near-duplicates are merged (%d-%d). Default %d", palette.MinK, palette.MaxK, palette.DefaultK),
		"minimum":     palette.MinK,
		"maximum":     palette.MaxK,
		"default":     palette.DefaultK,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_dimensions",
			Description: "Get the width, height and format of an image file, plus the size it is scaled to before palette analysis.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "palette_analyze",
			Description: "Extract the dominant colors of an image. Returns each color's hex, name, coverage percent, RGB and Lab values, " +
				"and sample pixel coordinates where each color appears. Coordinates refer to the prepared (possibly downscaled) image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"k":    kProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "palette_overlay",
			Description: "Extract the dominant colors of an image and return the image as base64-encoded PNG with a numbered ring drawn at every sample point.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"k":    kProperty(),
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": fmt.Sprintf("Marker ring radius in pixels. Default %d", imaging.DefaultMarkerRadius),
						"default":     imaging.DefaultMarkerRadius,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "color_sample",
			Description: "Get the color of one pixel and its nearest name. Coordinates refer to the prepared image, like palette_analyze samples.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0 = left edge)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0 = top edge)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "color_name",
			Description: "Find the nearest named color for a hex value, with its primary color family and perceptual distance.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hex": map[string]interface{}{
						"type":        "string",
						"description": "Six hex digits, with or without a leading '#' (e.g. 4682B4)",
					},
				},
				"required": []string{"hex"},
			},
		},
		{
			Name:        "cache_clear",
			Description: "Release cached images. Pass a path to drop one file, or no arguments to drop everything. Use after a file changes on disk.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
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
