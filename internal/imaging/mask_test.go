package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestNewMask(t *testing.T) {
	m := NewMask(4, 3)
	if w, h := m.Size(); w != 4 || h != 3 {
		t.Errorf("Size: got %dx%d, want 4x3", w, h)
	}
	if len(m.Pix) != 12 {
		t.Errorf("Pix length: got %d, want 12", len(m.Pix))
	}
	if m.Count() != 0 {
		t.Errorf("new mask should be empty, got %d ink pixels", m.Count())
	}

	if neg := NewMask(-1, 5); neg.Width != 0 || len(neg.Pix) != 0 {
		t.Errorf("negative width should give an empty mask, got %+v", neg)
	}
}

func TestMask_SetInk(t *testing.T) {
	m := NewMask(5, 5)
	m.Set(2, 3, true)
	m.Set(-1, 0, true)
	m.Set(5, 5, true)

	if !m.Ink(2, 3) {
		t.Error("(2,3) should be ink")
	}
	if m.Value(2, 3) != 1 || m.Value(3, 2) != 0 {
		t.Errorf("Value: got %v and %v", m.Value(2, 3), m.Value(3, 2))
	}
	if m.Count() != 1 {
		t.Errorf("out of range Set should be ignored, got %d ink pixels", m.Count())
	}
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {5, 0}, {0, 5}} {
		if m.Ink(p.X, p.Y) {
			t.Errorf("out of range %v should not be ink", p)
		}
	}

	m.Set(2, 3, false)
	if m.Ink(2, 3) {
		t.Error("Set false should clear the pixel")
	}
}

func TestMask_ClearRight(t *testing.T) {
	tests := []struct {
		name      string
		frac      float64
		wantCount int
	}{
		{"cut at 0.9", 0.9, 9},
		{"cut at half", 0.5, 5},
		{"zero disables", 0, 10},
		{"one disables", 1, 10},
		{"negative disables", -0.5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMask(10, 1)
			for x := 0; x < 10; x++ {
				m.Set(x, 0, true)
			}
			m.ClearRight(tt.frac)
			if m.Count() != tt.wantCount {
				t.Errorf("got %d ink pixels, want %d", m.Count(), tt.wantCount)
			}
		})
	}
}

func TestMask_Gray(t *testing.T) {
	m := NewMask(3, 2)
	m.Set(1, 1, true)

	g := m.Gray()
	if g.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Errorf("bounds: got %v", g.Bounds())
	}
	if g.GrayAt(1, 1).Y != 255 || g.GrayAt(0, 0).Y != 0 {
		t.Errorf("ink should be white on black, got %d and %d", g.GrayAt(1, 1).Y, g.GrayAt(0, 0).Y)
	}
}

func TestMaskFromGray(t *testing.T) {
	g := image.NewGray(image.Rect(10, 20, 13, 21))
	g.SetGray(10, 20, color.Gray{Y: 0})
	g.SetGray(11, 20, color.Gray{Y: 99})
	g.SetGray(12, 20, color.Gray{Y: 100})

	m := MaskFromGray(g, 100)

	if w, h := m.Size(); w != 3 || h != 1 {
		t.Fatalf("size: got %dx%d, want 3x1", w, h)
	}
	want := []bool{true, true, false}
	for x, ink := range want {
		if m.Ink(x, 0) != ink {
			t.Errorf("x=%d: got %v, want %v", x, m.Ink(x, 0), ink)
		}
	}
}
