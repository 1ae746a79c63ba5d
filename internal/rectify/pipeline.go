package rectify

import (
	"fmt"
	"image"

	"github.com/ironsheep/form-digits/internal/detection"
	"github.com/ironsheep/form-digits/internal/geometry"
)

// Raster is the binary input of the pipeline: the Hough transform reads its
// ink pixels and the warp samples its values.
type Raster interface {
	detection.BinaryRaster
	Value(x, y int) float64
}

// Options configures a Pipeline.
type Options struct {
	// Width and Height are the canvas size.
	Width  int
	Height int

	// Epsilon is the squared distance under which two corners coincide.
	Epsilon float64

	// Lines controls peak selection and the orientation windows of the
	// line families.
	Lines detection.FamilyOptions
}

// DefaultOptions returns a 150x400 canvas, eps 1e-10, a minimum peak
// separation of 9 bins in both ρ and θ and a 30° orientation spread.
func DefaultOptions() Options {
	return Options{
		Width:   150,
		Height:  400,
		Epsilon: 1e-10,
		Lines: detection.FamilyOptions{
			PeakOptions: detection.PeakOptions{
				MinDistance:    9,
				MinAngle:       9,
				ThresholdRatio: 0.5,
			},
			Spread: 30,
		},
	}
}

// Trace records the intermediate results of one FindCorners run. Fields are
// filled as far as the run got before failing.
type Trace struct {
	Vertical   []geometry.Line     `json:"vertical"`
	Horizontal []geometry.Line     `json:"horizontal"`
	Boundary   *detection.Boundary `json:"boundary,omitempty"`
}

// Result is a rectified box.
type Result struct {
	Canvas  *image.Gray
	Corners CornerSet
	Trace   *Trace
}

// Pipeline finds the box in a binary raster and rectifies it. A Pipeline
// holds no per-image state and may be shared between goroutines.
type Pipeline struct {
	opts Options
}

// New returns a pipeline using opts.
func New(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

// Options returns the pipeline configuration.
func (p *Pipeline) Options() Options {
	return p.opts
}

// FindCorners detects the boundary lines of the box in r and resolves them
// into corners in canvas order. The trace is returned even on failure.
func (p *Pipeline) FindCorners(r Raster) (CornerSet, *Trace, error) {
	width, height := r.Size()
	trace := &Trace{}

	acc := detection.HoughTransform(r)
	trace.Vertical, trace.Horizontal = acc.Families(p.opts.Lines)

	boundary, err := detection.SelectBoundaries(trace.Vertical, trace.Horizontal, width, height)
	if err != nil {
		return CornerSet{}, trace, err
	}
	trace.Boundary = &boundary

	corners, err := ResolveCorners(boundary, width, height, p.opts.Epsilon)
	if err != nil {
		return CornerSet{}, trace, err
	}
	return corners, trace, nil
}

// Rectify finds the box in r and warps it onto the configured canvas.
// On failure the returned Result still carries the trace.
func (p *Pipeline) Rectify(r Raster) (*Result, error) {
	corners, trace, err := p.FindCorners(r)
	if err != nil {
		return &Result{Trace: trace}, err
	}

	canvas, err := Warp(r, corners, p.opts.Width, p.opts.Height)
	if err != nil {
		return &Result{Corners: corners, Trace: trace}, fmt.Errorf("failed to warp: %w", err)
	}

	return &Result{
		Canvas:  canvas,
		Corners: corners,
		Trace:   trace,
	}, nil
}
