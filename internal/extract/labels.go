package extract

import "fmt"

// Grid layout of the digit box.
const (
	Rows    = 4
	Columns = 3
)

// Column places.
const (
	Hundreds = iota
	Tens
	Ones
)

// DigitLabel returns the digit expected in the given column for an annotated
// number. Numbers are right-aligned in the grid, so missing leading places
// read as '0':
//
//	"7"   -> 0 0 7
//	"42"  -> 0 4 2
//	"305" -> 3 0 5
//
// Values longer than three characters only keep their ones place.
func DigitLabel(value string, column int) (int, error) {
	n := len(value)

	ch := byte('0')
	switch column {
	case Hundreds:
		if n >= 3 {
			ch = value[0]
		}
	case Tens:
		switch n {
		case 3:
			ch = value[1]
		case 2:
			ch = value[0]
		}
	case Ones:
		if n >= 1 && n <= 3 {
			ch = value[n-1]
		}
	default:
		return 0, fmt.Errorf("column %d out of range", column)
	}

	if ch < '0' || ch > '9' {
		return 0, fmt.Errorf("%w: %q is not a digit in %q", ErrAnnotation, ch, value)
	}
	return int(ch - '0'), nil
}

// GridLabels returns the digit of every grid cell, indexed [row][column].
func GridLabels(fields []string) ([Rows][Columns]int, error) {
	var labels [Rows][Columns]int
	if len(fields) < Rows {
		return labels, fmt.Errorf("%w: got %d fields, want at least %d", ErrAnnotation, len(fields), Rows)
	}

	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			d, err := DigitLabel(fields[row], col)
			if err != nil {
				return labels, fmt.Errorf("row %d: %w", row, err)
			}
			labels[row][col] = d
		}
	}
	return labels, nil
}
