package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestParseGrayModel(t *testing.T) {
	tests := []struct {
		name    string
		want    GrayModel
		wantErr bool
	}{
		{"", GrayLuma, false},
		{"luma", GrayLuma, false},
		{"lab", GrayLab, false},
		{"hsv", "", true},
	}

	for _, tt := range tests {
		got, err := ParseGrayModel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGrayModel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseGrayModel(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestGrayscale_Luma(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.White)
	img.Set(1, 0, color.Black)
	img.Set(2, 0, color.RGBA{100, 100, 100, 255})

	for _, model := range []GrayModel{GrayLuma, ""} {
		g, err := Grayscale(img, model)
		if err != nil {
			t.Fatalf("Grayscale(%q) failed: %v", model, err)
		}
		if g.Bounds() != img.Bounds() {
			t.Errorf("Grayscale(%q) bounds: got %v, want %v", model, g.Bounds(), img.Bounds())
		}

		want := []uint8{255, 0, 100}
		for x, w := range want {
			if got := g.GrayAt(x, 0).Y; got != w {
				t.Errorf("Grayscale(%q) x=%d: got %d, want %d", model, x, got, w)
			}
		}
	}
}

func TestGrayscale_Lab(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.White)
	img.Set(1, 0, color.Black)
	img.Set(2, 0, color.NRGBA{}) // transparent

	g, err := Grayscale(img, GrayLab)
	if err != nil {
		t.Fatalf("Grayscale failed: %v", err)
	}

	want := []uint8{255, 0, 255}
	for x, w := range want {
		if got := g.GrayAt(x, 0).Y; got != w {
			t.Errorf("x=%d: got %d, want %d", x, got, w)
		}
	}
}

func TestGrayscale_UnknownModel(t *testing.T) {
	if _, err := Grayscale(createInMemoryImage(2, 2, color.White), "sepia"); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestOtsuLevel(t *testing.T) {
	tests := []struct {
		name  string
		fill  func(x, y int) uint8
		level uint8
	}{
		{
			name:  "two classes",
			fill: func(x, y int) uint8 {
				if x < 5 {
					return 50
				}
				return 200
			},
			level: 51,
		},
		{
			name:  "uniform",
			fill:  func(x, y int) uint8 { return 128 },
			level: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := image.NewGray(image.Rect(0, 0, 10, 10))
			for y := 0; y < 10; y++ {
				for x := 0; x < 10; x++ {
					g.SetGray(x, y, color.Gray{Y: tt.fill(x, y)})
				}
			}
			if got := OtsuLevel(g); got != tt.level {
				t.Errorf("got %d, want %d", got, tt.level)
			}
		})
	}
}

func TestBinarize(t *testing.T) {
	for _, model := range []GrayModel{GrayLuma, GrayLab} {
		t.Run(string(model), func(t *testing.T) {
			img := createInMemoryImage(20, 10, color.White)
			for y := 0; y < 10; y++ {
				img.Set(4, y, color.Black)
			}
			for x := 0; x < 20; x++ {
				img.Set(x, 7, color.Black)
			}

			m, level, err := Binarize(img, model)
			if err != nil {
				t.Fatalf("Binarize failed: %v", err)
			}
			if level == 0 {
				t.Error("level should be positive")
			}
			if m.Count() != 29 {
				t.Errorf("ink pixels: got %d, want 29", m.Count())
			}
			if !m.Ink(4, 0) || !m.Ink(15, 7) || m.Ink(15, 0) {
				t.Error("ink should follow the dark pixels")
			}
		})
	}
}
