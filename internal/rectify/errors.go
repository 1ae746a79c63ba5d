package rectify

import (
	"errors"

	"github.com/ironsheep/form-digits/internal/detection"
)

var (
	// ErrNoBoundary reports that a line family had fewer than two lines.
	ErrNoBoundary = detection.ErrNoBoundary

	// ErrDegenerateBoundary reports that two of the four boundary lines are
	// identical, or that a vertical and a horizontal boundary are parallel.
	ErrDegenerateBoundary = errors.New("degenerate boundary")

	// ErrDegenerateCorners reports that two resolved corners coincide.
	ErrDegenerateCorners = errors.New("degenerate corners")
)

// Reason returns a stable name for the failure behind err: "no_boundary",
// "degenerate_boundary", "degenerate_corners", "error" for anything else and
// "" for nil.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoBoundary):
		return "no_boundary"
	case errors.Is(err, ErrDegenerateBoundary):
		return "degenerate_boundary"
	case errors.Is(err, ErrDegenerateCorners):
		return "degenerate_corners"
	default:
		return "error"
	}
}
