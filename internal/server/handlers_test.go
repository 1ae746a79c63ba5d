package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/form-digits/internal/imaging"
)

// createFormFile writes a white 480x1000 scan and returns its path. When
// boxed, a one pixel black rectangle is drawn inside the form region at
// region coordinates (5,10)-(80,220).
func createFormFile(t *testing.T, boxed bool) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 480, 1000))
	for y := 0; y < 1000; y++ {
		for x := 0; x < 480; x++ {
			img.Set(x, y, color.White)
		}
	}

	if boxed {
		roi := imaging.FormRegion(img.Bounds())
		x0, y0 := roi.Min.X+5, roi.Min.Y+10
		x1, y1 := roi.Min.X+80, roi.Min.Y+220
		for x := x0; x <= x1; x++ {
			img.Set(x, y0, color.Black)
			img.Set(x, y1, color.Black)
		}
		for y := y0; y <= y1; y++ {
			img.Set(x0, y, color.Black)
			img.Set(x1, y, color.Black)
		}
	}

	path := filepath.Join(t.TempDir(), "form.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs a tools/call request and decodes the text content into out.
// It returns the JSON-RPC error, if any.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) *MCPError {
	t.Helper()

	paramsJSON, _ := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: paramsJSON})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return resp.Error
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
	return nil
}

func decodePNG(t *testing.T, b64 string) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("bad base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("bad png: %v", err)
	}
	return img
}

func TestHandleToolsCall_FormLoad(t *testing.T) {
	s := newTestServer(t)
	path := createFormFile(t, false)

	var info imaging.ImageInfo
	if err := callTool(t, s, "form_load", map[string]interface{}{"path": path}, &info); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if info.Width != 480 || info.Height != 1000 {
		t.Errorf("size: got %dx%d, want 480x1000", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
	if want := [4]int{380, 176, 480, 411}; info.FormRegion != want {
		t.Errorf("form region: got %v, want %v", info.FormRegion, want)
	}
}

func TestHandleToolsCall_DetectCorners(t *testing.T) {
	s := newTestServer(t)

	t.Run("boxed form", func(t *testing.T) {
		var res DetectCornersResult
		if err := callTool(t, s, "form_detect_corners", map[string]interface{}{"path": createFormFile(t, true)}, &res); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if !res.Found || res.Corners == nil {
			t.Fatalf("expected corners, got reason %q", res.Reason)
		}
		if res.Boundary == nil {
			t.Error("boundary should be reported")
		}
		tl := res.Corners[0]
		if (tl.X-5)*(tl.X-5)+(tl.Y-10)*(tl.Y-10) > 9 {
			t.Errorf("top-left corner: got %v, want near (5,10)", tl)
		}
		br := res.Corners[2]
		if (br.X-80)*(br.X-80)+(br.Y-220)*(br.Y-220) > 9 {
			t.Errorf("bottom-right corner: got %v, want near (80,220)", br)
		}
	})

	t.Run("blank form", func(t *testing.T) {
		var res DetectCornersResult
		if err := callTool(t, s, "form_detect_corners", map[string]interface{}{"path": createFormFile(t, false)}, &res); err != nil {
			t.Fatalf("a missing box is not a tool error: %v", err)
		}
		if res.Found || res.Reason != "no_boundary" {
			t.Errorf("got found=%v reason=%q, want no_boundary", res.Found, res.Reason)
		}
		if res.InkPixels != 0 {
			t.Errorf("blank form should have no ink, got %d", res.InkPixels)
		}
	})
}

func TestHandleToolsCall_Rectify(t *testing.T) {
	s := newTestServer(t)
	path := createFormFile(t, true)

	var res RectifyResult
	if err := callTool(t, s, "form_rectify", map[string]interface{}{"path": path}, &res); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Width != 150 || res.Height != 400 || res.MimeType != "image/png" {
		t.Errorf("got %dx%d %s, want 150x400 image/png", res.Width, res.Height, res.MimeType)
	}
	if b := decodePNG(t, res.ImageBase64).Bounds(); b.Dx() != 150 || b.Dy() != 400 {
		t.Errorf("decoded size: got %v", b)
	}

	var custom RectifyResult
	if err := callTool(t, s, "form_rectify", map[string]interface{}{"path": path, "width": 60, "height": 80}, &custom); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if custom.Width != 60 || custom.Height != 80 {
		t.Errorf("custom canvas: got %dx%d, want 60x80", custom.Width, custom.Height)
	}

	var ignored RectifyResult
	if err := callTool(t, s, "form_rectify", map[string]interface{}{"path": createFormFile(t, false)}, &ignored); err == nil {
		t.Error("blank form should fail to rectify")
	}
}

func TestHandleToolsCall_RectifyGrid(t *testing.T) {
	s := newTestServer(t)
	path := createFormFile(t, true)

	var plain, gridded RectifyResult
	if err := callTool(t, s, "form_rectify", map[string]interface{}{"path": path}, &plain); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := callTool(t, s, "form_rectify", map[string]interface{}{"path": path, "show_grid": true}, &gridded); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gridded.Width != 150 || gridded.Height != 400 {
		t.Errorf("got %dx%d, want 150x400", gridded.Width, gridded.Height)
	}

	isRed := func(img image.Image, x, y int) bool {
		r, g, b, _ := img.At(x, y).RGBA()
		return r == 0xffff && g == 0 && b == 0
	}

	// Cell borders of the 4x3 digit grid on a 150x400 canvas.
	borders := [][2]int{{50, 20}, {100, 380}, {20, 100}, {75, 200}, {130, 300}}
	grid := decodePNG(t, gridded.ImageBase64)
	for _, p := range borders {
		if !isRed(grid, p[0], p[1]) {
			t.Errorf("grid line missing at %v", p)
		}
	}
	if isRed(grid, 25, 50) {
		t.Error("cell interior should not be drawn")
	}

	canvas := decodePNG(t, plain.ImageBase64)
	for _, p := range borders {
		if isRed(canvas, p[0], p[1]) {
			t.Errorf("grid drawn at %v without show_grid", p)
		}
	}
}

func TestHandleToolsCall_DebugOverlay(t *testing.T) {
	s := newTestServer(t)

	for _, showMask := range []bool{false, true} {
		var res DebugOverlayResult
		err := callTool(t, s, "form_debug_overlay", map[string]interface{}{
			"path":      createFormFile(t, true),
			"show_mask": showMask,
		}, &res)
		if err != nil {
			t.Fatalf("show_mask=%v: unexpected error: %v", showMask, err)
		}
		if !res.Found {
			t.Errorf("show_mask=%v: expected corners, got reason %q", showMask, res.Reason)
		}
		// The overlay covers the form region.
		if res.Width != 100 || res.Height != 235 {
			t.Errorf("show_mask=%v: got %dx%d, want 100x235", showMask, res.Width, res.Height)
		}
		decodePNG(t, res.ImageBase64)
	}
}

func TestHandleToolsCall_ExtractDigits(t *testing.T) {
	s := newTestServer(t)
	path := createFormFile(t, true)
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "form.txt"), []byte("h\n1,23,456,7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var first ExtractDigitsResult
	if err := callTool(t, s, "form_extract_digits", map[string]interface{}{"path": path}, &first); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(first.Crops) != 12 {
		t.Errorf("expected 12 crops, got %d", len(first.Crops))
	}
	if first.Tally[0] != 5 {
		t.Errorf("zeros after first call: got %d, want 5", first.Tally[0])
	}

	// Numbering continues across calls.
	var second ExtractDigitsResult
	if err := callTool(t, s, "form_extract_digits", map[string]interface{}{"path": path}, &second); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if second.Tally[0] != 10 {
		t.Errorf("zeros after second call: got %d, want 10", second.Tally[0])
	}
	if _, err := os.Stat(filepath.Join(s.cfg.OutputDir, "0", "10.png")); err != nil {
		t.Errorf("expected tenth zero crop: %v", err)
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"unknown tool", "form_nonexistent", map[string]interface{}{}},
		{"missing path", "form_detect_corners", map[string]interface{}{}},
		{"missing file", "form_load", map[string]interface{}{"path": "/nonexistent/form.png"}},
		{"negative canvas", "form_rectify", map[string]interface{}{"path": "/x.png", "width": -1}},
		{"missing annotation", "form_extract_digits", map[string]interface{}{"path": createFormFile(t, true)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out map[string]interface{}
			err := callTool(t, s, tt.tool, tt.args, &out)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Code != -32000 {
				t.Errorf("code: got %d, want -32000", err.Code)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: json.RawMessage(`not json`)})

	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}
