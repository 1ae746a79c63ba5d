package imaging

import (
	"image"
	"image/color"
)

// Mask is a binary raster. True marks an ink pixel.
//
// Pixels are stored row-major; the pixel at (x, y) is Pix[y*Width+x]. Reads
// outside the raster report false, so callers can sample freely near the
// border.
type Mask struct {
	Width  int
	Height int
	Pix    []bool
}

// NewMask returns an all-false mask of the given size.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}
}

// Size returns the mask dimensions.
func (m *Mask) Size() (width, height int) {
	return m.Width, m.Height
}

// Bounds returns the mask rectangle anchored at the origin.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

func (m *Mask) inside(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// Ink reports whether (x, y) is an ink pixel.
func (m *Mask) Ink(x, y int) bool {
	if !m.inside(x, y) {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set marks (x, y). Out of range coordinates are ignored.
func (m *Mask) Set(x, y int, ink bool) {
	if m.inside(x, y) {
		m.Pix[y*m.Width+x] = ink
	}
}

// Value returns 1 for ink and 0 otherwise.
func (m *Mask) Value(x, y int) float64 {
	if m.Ink(x, y) {
		return 1
	}
	return 0
}

// Count returns the number of ink pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// ClearRight clears every column at or beyond Width*frac.
//
// Scanned forms carry a printed margin along the right side of the digit box
// which otherwise shows up as a strong vertical line.
func (m *Mask) ClearRight(frac float64) {
	if frac <= 0 || frac >= 1 {
		return
	}
	x0 := int(float64(m.Width) * frac)
	for y := 0; y < m.Height; y++ {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		for x := x0; x < m.Width; x++ {
			row[x] = false
		}
	}
}

// Gray renders the mask as an image with ink in white on black.
func (m *Mask) Gray() *image.Gray {
	img := image.NewGray(m.Bounds())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Pix[y*m.Width+x] {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// MaskFromGray builds a mask that is true wherever g is darker than level.
func MaskFromGray(g *image.Gray, level uint8) *Mask {
	bounds := g.Bounds()
	m := NewMask(bounds.Dx(), bounds.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if g.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y < level {
				m.Pix[y*m.Width+x] = true
			}
		}
	}
	return m
}
