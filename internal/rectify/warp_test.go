package rectify

import (
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/form-digits/internal/geometry"
	"github.com/ironsheep/form-digits/internal/imaging"
)

// checkerMask returns a mask with a pattern that has no symmetry the warp
// could hide behind.
func checkerMask(width, height int) *imaging.Mask {
	m := imaging.NewMask(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/3+y/5)%2 == 0 || x == y {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

func TestWarp_Identity(t *testing.T) {
	src := checkerMask(30, 40)

	out, err := Warp(src, CanvasCorners(30, 40), 30, 40)
	if err != nil {
		t.Fatalf("Warp failed: %v", err)
	}

	want := src.Gray()
	if out.Bounds() != want.Bounds() {
		t.Fatalf("bounds: got %v, want %v", out.Bounds(), want.Bounds())
	}
	for y := 0; y < 40; y++ {
		for x := 0; x < 30; x++ {
			if got, exp := out.GrayAt(x, y).Y, want.GrayAt(x, y).Y; got != exp {
				t.Fatalf("pixel (%d,%d): got %d, want %d", x, y, got, exp)
			}
		}
	}
}

func TestWarp_IdentityCropsLargerSource(t *testing.T) {
	src := checkerMask(50, 60)

	out, err := Warp(src, CanvasCorners(30, 40), 30, 40)
	if err != nil {
		t.Fatalf("Warp failed: %v", err)
	}

	for y := 0; y < 40; y++ {
		for x := 0; x < 30; x++ {
			want := uint8(src.Value(x, y) * 255)
			if got := out.GrayAt(x, y).Y; got != want {
				t.Fatalf("pixel (%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestWarp_ScalesQuad(t *testing.T) {
	// A solid block inside the quad (10,10)-(50,90) fills the whole canvas.
	src := imaging.NewMask(100, 100)
	for y := 10; y <= 90; y++ {
		for x := 10; x <= 50; x++ {
			src.Set(x, y, true)
		}
	}
	corners := CornerSet{geometry.Pt(10, 10), geometry.Pt(10, 90), geometry.Pt(50, 90), geometry.Pt(50, 10)}

	out, err := Warp(src, corners, 20, 40)
	if err != nil {
		t.Fatalf("Warp failed: %v", err)
	}
	if out.Bounds().Dx() != 20 || out.Bounds().Dy() != 40 {
		t.Fatalf("size: got %v, want 20x40", out.Bounds())
	}
	for y := 0; y < 40; y++ {
		for x := 0; x < 20; x++ {
			if v := out.GrayAt(x, y).Y; v != 255 {
				t.Fatalf("pixel (%d,%d): got %d, want 255", x, y, v)
			}
		}
	}
}

func TestWarp_InvalidSize(t *testing.T) {
	if _, err := Warp(imaging.NewMask(10, 10), CanvasCorners(10, 10), 0, 10); err == nil {
		t.Error("Warp should reject a zero-width canvas")
	}
}

func TestWarp_CollinearCorners(t *testing.T) {
	corners := CornerSet{geometry.Pt(0, 0), geometry.Pt(0, 10), geometry.Pt(0, 20), geometry.Pt(10, 0)}

	_, err := Warp(imaging.NewMask(30, 30), corners, 10, 10)
	if !errors.Is(err, ErrDegenerateCorners) {
		t.Errorf("expected ErrDegenerateCorners, got %v", err)
	}
}

func TestPiecewiseAffine_MapsCorners(t *testing.T) {
	canvas := CanvasCorners(150, 400)
	source := CornerSet{geometry.Pt(2, 3), geometry.Pt(3, 96), geometry.Pt(196, 95), geometry.Pt(197, 5)}

	tform, err := NewPiecewiseAffine(canvas, source)
	if err != nil {
		t.Fatalf("NewPiecewiseAffine failed: %v", err)
	}

	for i := range canvas {
		got, ok := tform.Map(canvas[i])
		if !ok {
			t.Fatalf("corner %d not inside the canvas", i)
		}
		if math.Abs(got.X-source[i].X) > 1e-9 || math.Abs(got.Y-source[i].Y) > 1e-9 {
			t.Errorf("corner %d: got %v, want %v", i, got, source[i])
		}
	}

	// The canvas center sits on the shared diagonal and maps to the midpoint
	// of the source diagonal.
	mid, ok := tform.Map(geometry.Pt(75, 200))
	if !ok {
		t.Fatal("center not inside the canvas")
	}
	want := geometry.Pt((2+196)/2.0, (3+95)/2.0)
	if math.Abs(mid.X-want.X) > 1e-9 || math.Abs(mid.Y-want.Y) > 1e-9 {
		t.Errorf("center: got %v, want %v", mid, want)
	}

	if _, ok := tform.Map(geometry.Pt(-1, 200)); ok {
		t.Error("point left of the canvas should not map")
	}
}

func TestBilinear(t *testing.T) {
	m := imaging.NewMask(2, 2)
	m.Set(1, 0, true)
	m.Set(1, 1, true)

	tests := []struct {
		x, y float64
		want float64
	}{
		{0, 0, 0},
		{1, 0, 1},
		{0.5, 0, 0.5},
		{0.25, 0.75, 0.25},
		{1.5, 0, 0.5}, // right neighbour is outside
		{-5, -5, 0},
	}

	for _, tt := range tests {
		if got := bilinear(m, tt.x, tt.y); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("bilinear(%v,%v): got %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
