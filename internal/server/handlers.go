package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/form-digits/internal/detection"
	"github.com/ironsheep/form-digits/internal/extract"
	"github.com/ironsheep/form-digits/internal/geometry"
	"github.com/ironsheep/form-digits/internal/imaging"
	"github.com/ironsheep/form-digits/internal/rectify"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "form_load", "form_rectify").
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
		s.log.WithField("tool", params.Name).WithError(err).Warn("Tool execution failed")
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
//  2. Applies configured defaults for optional parameters
//  3. Loads and prepares the scan through the cache
//  4. Runs the corner pipeline or the extractor
//  5. Returns the result or error
//
// A scan in which no box can be found is not a tool error: form_detect_corners
// and form_debug_overlay report it through the found and reason fields.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "form_load":
		return s.handleFormLoad(args)
	case "form_detect_corners":
		return s.handleFormDetectCorners(args)
	case "form_rectify":
		return s.handleFormRectify(args)
	case "form_debug_overlay":
		return s.handleFormDebugOverlay(args)
	case "form_extract_digits":
		return s.handleFormExtractDigits(args)
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

// prepare loads a scan and reduces its form region to a binary mask.
func (s *Server) prepare(path string) (image.Image, *imaging.Prepared, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("path is required")
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, nil, err
	}
	prepared, err := imaging.PrepareForm(img, s.cfg.PrepareOptions())
	if err != nil {
		return nil, nil, err
	}
	return img, prepared, nil
}

func regionArray(r image.Rectangle) [4]int {
	return [4]int{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y}
}

// === Form Handlers ===

type formPathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleFormLoad(args json.RawMessage) (interface{}, error) {
	var a formPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// DetectCornersResult is the result of form_detect_corners. Coordinates are
// relative to Region.
type DetectCornersResult struct {
	Found      bool                `json:"found"`
	Reason     string              `json:"reason,omitempty"`
	Region     [4]int              `json:"region"`
	Level      uint8               `json:"threshold_level"`
	InkPixels  int                 `json:"ink_pixels"`
	Corners    *rectify.CornerSet  `json:"corners,omitempty"`
	Boundary   *detection.Boundary `json:"boundary,omitempty"`
	Vertical   []geometry.Line     `json:"vertical_lines"`
	Horizontal []geometry.Line     `json:"horizontal_lines"`
}

func (s *Server) handleFormDetectCorners(args json.RawMessage) (interface{}, error) {
	var a formPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, prepared, err := s.prepare(a.Path)
	if err != nil {
		return nil, err
	}

	corners, trace, err := rectify.New(s.cfg.PipelineOptions()).FindCorners(prepared.Mask)
	result := &DetectCornersResult{
		Region:     regionArray(prepared.Region),
		Level:      prepared.Level,
		InkPixels:  prepared.Mask.Count(),
		Boundary:   trace.Boundary,
		Vertical:   trace.Vertical,
		Horizontal: trace.Horizontal,
	}
	if err != nil {
		result.Reason = rectify.Reason(err)
		return result, nil
	}
	result.Found = true
	result.Corners = &corners
	return result, nil
}

type formRectifyArgs struct {
	Path     string `json:"path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	ShowGrid bool   `json:"show_grid"`
}

// RectifyResult is the result of form_rectify.
type RectifyResult struct {
	imaging.EncodedImage
	Corners rectify.CornerSet `json:"corners"`
}

func (s *Server) handleFormRectify(args json.RawMessage) (interface{}, error) {
	var a formRectifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Width < 0 || a.Height < 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", a.Width, a.Height)
	}

	_, prepared, err := s.prepare(a.Path)
	if err != nil {
		return nil, err
	}

	opts := s.cfg.PipelineOptions()
	if a.Width > 0 {
		opts.Width = a.Width
	}
	if a.Height > 0 {
		opts.Height = a.Height
	}

	res, err := rectify.New(opts).Rectify(prepared.Mask)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rectify.Reason(err), err)
	}

	var canvas image.Image = res.Canvas
	if a.ShowGrid {
		canvas = imaging.DrawOverlay(res.Canvas, imaging.Overlay{
			GridRows: extract.Rows,
			GridCols: extract.Columns,
		})
	}

	encoded, err := imaging.EncodePNG(canvas)
	if err != nil {
		return nil, err
	}
	return &RectifyResult{EncodedImage: *encoded, Corners: res.Corners}, nil
}

type formDebugOverlayArgs struct {
	Path          string `json:"path"`
	ShowMask      bool   `json:"show_mask"`
	LineColor     string `json:"line_color"`
	BoundaryColor string `json:"boundary_color"`
	CornerColor   string `json:"corner_color"`
}

// DebugOverlayResult is the result of form_debug_overlay.
type DebugOverlayResult struct {
	imaging.EncodedImage
	Found  bool   `json:"found"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleFormDebugOverlay(args json.RawMessage) (interface{}, error) {
	var a formDebugOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, prepared, err := s.prepare(a.Path)
	if err != nil {
		return nil, err
	}

	var base image.Image = prepared.Mask.Gray()
	if !a.ShowMask {
		base, err = imaging.Crop(img, prepared.Region, 1)
		if err != nil {
			return nil, err
		}
	}

	corners, trace, findErr := rectify.New(s.cfg.PipelineOptions()).FindCorners(prepared.Mask)

	o := imaging.Overlay{
		Lines:         append(append([]geometry.Line{}, trace.Vertical...), trace.Horizontal...),
		LineColor:     a.LineColor,
		BoundaryColor: a.BoundaryColor,
		CornerColor:   a.CornerColor,
	}
	if trace.Boundary != nil {
		lines := trace.Boundary.Lines()
		o.Boundary = lines[:]
	}
	if findErr == nil {
		o.Corners = corners[:]
	}

	encoded, err := imaging.EncodePNG(imaging.DrawOverlay(base, o))
	if err != nil {
		return nil, err
	}
	return &DebugOverlayResult{
		EncodedImage: *encoded,
		Found:        findErr == nil,
		Reason:       rectify.Reason(findErr),
	}, nil
}

type formExtractDigitsArgs struct {
	Path       string  `json:"path"`
	Annotation string  `json:"annotation"`
	OutputDir  string  `json:"output_dir"`
	Scale      float64 `json:"scale"`
}

// ExtractDigitsResult is the result of form_extract_digits.
type ExtractDigitsResult struct {
	*extract.Outcome
	Tally extract.Tally `json:"tally"`
}

func (s *Server) handleFormExtractDigits(args json.RawMessage) (interface{}, error) {
	var a formExtractDigitsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if a.Annotation == "" {
		a.Annotation = extract.AnnotationPath(a.Path)
	}
	opts := extract.Options{OutputDir: a.OutputDir, Scale: a.Scale}
	if opts.OutputDir == "" {
		opts.OutputDir = s.cfg.OutputDir
	}
	if opts.Scale == 0 {
		opts.Scale = s.cfg.CropScale
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, tally, err := s.extractor.Process(a.Path, a.Annotation, opts, s.tally)
	s.tally = tally
	if err != nil {
		return nil, fmt.Errorf("%s: %w", extract.FailureReason(err), err)
	}

	s.log.WithFields(logrus.Fields{
		"image": a.Path,
		"crops": len(outcome.Crops),
	}).Info("Digits extracted")

	return &ExtractDigitsResult{Outcome: outcome, Tally: tally}, nil
}
