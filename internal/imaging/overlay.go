package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/ironsheep/form-digits/internal/geometry"
)

// Overlay describes debug annotations drawn over a mask or rectified canvas.
type Overlay struct {
	// Lines are drawn end to end, e.g. Hough candidates or boundary lines.
	Lines []geometry.Line

	// Boundary lines are drawn on top of Lines in BoundaryColor.
	Boundary []geometry.Line

	// Corners are marked with a square and labelled with their index.
	Corners []geometry.Point

	// GridRows and GridCols draw an evenly spaced grid when both are positive.
	GridRows int
	GridCols int

	LineColor     string
	BoundaryColor string
	CornerColor   string
}

// DrawOverlay renders base and draws the overlay on top of it.
// Colors are hex strings; invalid or empty colors fall back to defaults.
func DrawOverlay(base image.Image, o Overlay) *image.RGBA {
	bounds := base.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, base, bounds.Min, draw.Src)

	lineColor := colorOr(o.LineColor, color.RGBA{255, 0, 0, 255})
	boundaryColor := colorOr(o.BoundaryColor, color.RGBA{0, 200, 0, 255})
	cornerColor := colorOr(o.CornerColor, color.RGBA{0, 64, 255, 255})

	if o.GridRows > 0 && o.GridCols > 0 {
		drawGrid(result, o.GridRows, o.GridCols, lineColor)
	}
	for _, l := range o.Lines {
		drawLine(result, l, lineColor)
	}
	for _, l := range o.Boundary {
		drawLine(result, l, boundaryColor)
	}
	for i, p := range o.Corners {
		x, y := int(math.Round(p.X)), int(math.Round(p.Y))
		for dy := -3; dy <= 3; dy++ {
			for dx := -3; dx <= 3; dx++ {
				setClipped(result, x+dx, y+dy, cornerColor)
			}
		}
		drawLabel(result, x+5, y+5, strconv.Itoa(i), color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
	}

	return result
}

// drawGrid splits the image into rows x cols cells.
func drawGrid(img *image.RGBA, rows, cols int, c color.RGBA) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	for i := 1; i < cols; i++ {
		x := bounds.Min.X + i*width/cols
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			img.Set(x, y, c)
		}
	}
	for i := 1; i < rows; i++ {
		y := bounds.Min.Y + i*height/rows
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

// drawLine steps along l one pixel at a time, dropping pixels outside img.
func drawLine(img *image.RGBA, l geometry.Line, c color.RGBA) {
	dx := l.P2.X - l.P1.X
	dy := l.P2.Y - l.P1.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		setClipped(img, int(math.Round(l.P1.X)), int(math.Round(l.P1.Y)), c)
		return
	}
	// Hough lines for skewed boxes can have endpoints far outside the image.
	if steps > 1<<16 {
		steps = 1 << 16
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(l.P1.X + t*dx))
		y := int(math.Round(l.P1.Y + t*dy))
		setClipped(img, x, y, c)
	}
}

func setClipped(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func colorOr(hex string, fallback color.RGBA) color.RGBA {
	c, err := parseHexColor(hex)
	if err != nil {
		return fallback
	}
	return c
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// drawLabel draws a small digit label with a background box at (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	// 3x5 pixel font for digits and comma
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
	}

	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			setClipped(img, x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					setClipped(img, cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
