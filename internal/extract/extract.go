package extract

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ironsheep/form-digits/internal/imaging"
)

// Crop is one saved digit cell.
type Crop struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Digit  int    `json:"digit"`
	Path   string `json:"path"`
}

// Options controls where and how crops are written.
type Options struct {
	// OutputDir receives one sub-directory per digit.
	OutputDir string

	// Scale resizes each crop; 1 keeps the cell size.
	Scale float64
}

// Cells returns the grid cells of a canvas, indexed [row][column]. Row
// height is H/4 and column width W/3, truncated; any remainder on the
// right and bottom is not covered.
func Cells(bounds image.Rectangle) [Rows][Columns]image.Rectangle {
	var cells [Rows][Columns]image.Rectangle
	rowHeight := bounds.Dy() / Rows
	colWidth := bounds.Dx() / Columns

	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			x0 := bounds.Min.X + col*colWidth
			y0 := bounds.Min.Y + row*rowHeight
			cells[row][col] = image.Rect(x0, y0, x0+colWidth, y0+rowHeight)
		}
	}
	return cells
}

// PrepareOutput creates the digit directories 0..9 under dir.
func PrepareOutput(dir string) error {
	for d := 0; d < 10; d++ {
		if err := os.MkdirAll(filepath.Join(dir, strconv.Itoa(d)), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return nil
}

// Extract saves every cell of canvas under the digit the annotation fields
// assign to it and returns the crops with the updated tally. Cells are
// written column by column, top to bottom. Labels are validated before any
// file is written.
func Extract(canvas image.Image, fields []string, opts Options, tally Tally) ([]Crop, Tally, error) {
	labels, err := GridLabels(fields)
	if err != nil {
		return nil, tally, err
	}

	cells := Cells(canvas.Bounds())
	if cells[0][0].Empty() {
		return nil, tally, fmt.Errorf("canvas %dx%d is too small for a %dx%d grid",
			canvas.Bounds().Dx(), canvas.Bounds().Dy(), Rows, Columns)
	}

	if err := PrepareOutput(opts.OutputDir); err != nil {
		return nil, tally, err
	}

	crops := make([]Crop, 0, Rows*Columns)
	for col := 0; col < Columns; col++ {
		for row := 0; row < Rows; row++ {
			img, err := imaging.Crop(canvas, cells[row][col], opts.Scale)
			if err != nil {
				return crops, tally, fmt.Errorf("cell (%d,%d): %w", row, col, err)
			}

			digit := labels[row][col]
			path := filepath.Join(opts.OutputDir, strconv.Itoa(digit), strconv.Itoa(tally[digit]+1)+".png")
			if err := imaging.SavePNG(img, path); err != nil {
				return crops, tally, err
			}
			tally.Add(digit)

			crops = append(crops, Crop{Row: row, Column: col, Digit: digit, Path: path})
		}
	}
	return crops, tally, nil
}
