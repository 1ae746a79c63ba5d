package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the scanned form image",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "form_load",
			Description: "Load a scanned form and return its dimensions, format and the region searched for the digit box.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "form_detect_corners",
			Description: "Find the four corners of the digit box. Returns corners in top-left, bottom-left, bottom-right, top-right order, the boundary lines and the candidate lines, or a failure reason (no_boundary, degenerate_boundary, degenerate_corners).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "form_rectify",
			Description: "Rectify the digit box onto an axis-aligned canvas and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas width. Defaults to the configured width (150)",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas height. Defaults to the configured height (400)",
					},
					"show_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw the 4x3 digit cell grid on the canvas. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "form_debug_overlay",
			Description: "Render the form region with candidate lines (red), boundary lines (green) and numbered corners (blue) as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"show_mask": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw over the binary mask instead of the scan. Default false",
						"default":     false,
					},
					"line_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for candidate lines",
					},
					"boundary_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for boundary lines",
					},
					"corner_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for corners",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "form_extract_digits",
			Description: "Rectify the digit box and save each grid cell as <output_dir>/<digit>/<count>.png, labelled from the annotation file. Crop numbering continues across calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"annotation": map[string]interface{}{
						"type":        "string",
						"description": "Annotation file. Defaults to the image path with a .txt extension",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Output directory. Defaults to the configured output directory",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Crop scale factor. Defaults to the configured scale",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the tool definitions
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
