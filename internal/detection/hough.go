package detection

import (
	"math"
	"sort"

	"github.com/ironsheep/form-digits/internal/geometry"
)

// numAngles is the θ resolution of the accumulator: one bin per degree.
const numAngles = 180

// BinaryRaster is a two-level image. Ink pixels vote in the Hough transform.
type BinaryRaster interface {
	Size() (width, height int)
	Ink(x, y int) bool
}

// Accumulator holds Hough votes for a raster.
type Accumulator struct {
	// Votes is indexed [rho+MaxRho][theta].
	Votes [][]int

	// Thetas are the bin angles in radians, from -π/2 upward.
	Thetas []float64

	// MaxRho is the largest representable |ρ|.
	MaxRho int

	// Width and Height are the dimensions of the transformed raster.
	Width  int
	Height int
}

// Peak is a ranked maximum of the accumulator.
type Peak struct {
	Votes int     `json:"votes"`
	Theta float64 `json:"theta"` // radians
	Rho   float64 `json:"rho"`

	ThetaIndex int `json:"-"`
	RhoIndex   int `json:"-"`
}

// HoughTransform votes every ink pixel of r into a new accumulator.
//
// Parameters:
//   - r: The binary raster to scan. Only pixels where r.Ink reports true vote.
//
// Returns:
//   - *Accumulator: Vote counts indexed [ρ + MaxRho][θ]. θ runs from -90° to
//     89° in 1° steps and ρ is rounded to whole pixels, so MaxRho is the
//     raster diagonal rounded up.
//
// Each ink pixel (x, y) votes once per θ for ρ = x·cos θ + y·sin θ. An
// empty raster yields an accumulator with all counts zero.
func HoughTransform(r BinaryRaster) *Accumulator {
	width, height := r.Size()

	maxRho := int(math.Ceil(math.Hypot(float64(width), float64(height))))
	acc := &Accumulator{
		Votes:  make([][]int, 2*maxRho+1),
		Thetas: make([]float64, numAngles),
		MaxRho: maxRho,
		Width:  width,
		Height: height,
	}
	for i := range acc.Votes {
		acc.Votes[i] = make([]int, numAngles)
	}

	cosT := make([]float64, numAngles)
	sinT := make([]float64, numAngles)
	for t := 0; t < numAngles; t++ {
		angle := float64(t-numAngles/2) * math.Pi / 180.0
		acc.Thetas[t] = angle
		cosT[t] = math.Cos(angle)
		sinT[t] = math.Sin(angle)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !r.Ink(x, y) {
				continue
			}
			for t := 0; t < numAngles; t++ {
				rho := float64(x)*cosT[t] + float64(y)*sinT[t]
				acc.Votes[int(math.Round(rho))+maxRho][t]++
			}
		}
	}

	return acc
}

// PeakOptions selects and thins accumulator peaks.
type PeakOptions struct {
	// MinDistance is the ρ radius, in bins, suppressed around an accepted peak.
	MinDistance int

	// MinAngle is the θ radius, in bins (degrees), suppressed around an
	// accepted peak.
	MinAngle int

	// ThresholdRatio is the fraction of the window's highest vote count a bin
	// needs to qualify. Zero means 0.5.
	ThresholdRatio float64

	// MaxPeaks limits the result. Zero means no limit.
	MaxPeaks int

	// InWindow restricts the search to θ bins it accepts. Nil means all bins.
	InWindow func(thetaDegrees float64) bool
}

// Peaks returns the accumulator maxima that satisfy opts, strongest first.
// Equal vote counts are ordered by θ then ρ, so the ranking is deterministic.
//
// Parameters:
//   - opts: Suppression radii, threshold ratio, peak limit and θ window.
//
// Returns:
//   - []Peak: Accepted peaks in rank order. Nil when the window holds no votes.
//
// # Selection
//
// A bin qualifies when its count reaches ThresholdRatio times the highest
// count inside the window, rounded up and at least 1. Candidates are accepted
// greedily; one is suppressed when an accepted peak lies within MinDistance
// ρ bins and MinAngle θ bins of it. The θ axis wraps at ±90°, where ρ
// changes sign.
func (a *Accumulator) Peaks(opts PeakOptions) []Peak {
	ratio := opts.ThresholdRatio
	if ratio <= 0 {
		ratio = 0.5
	}

	inWindow := make([]bool, numAngles)
	for t, theta := range a.Thetas {
		inWindow[t] = opts.InWindow == nil || opts.InWindow(theta*180/math.Pi)
	}

	maxVotes := 0
	for _, row := range a.Votes {
		for t, v := range row {
			if inWindow[t] && v > maxVotes {
				maxVotes = v
			}
		}
	}
	if maxVotes == 0 {
		return nil
	}
	threshold := int(math.Ceil(ratio * float64(maxVotes)))
	if threshold < 1 {
		threshold = 1
	}

	candidates := make([]Peak, 0)
	for r, row := range a.Votes {
		for t, v := range row {
			if !inWindow[t] || v < threshold {
				continue
			}
			candidates = append(candidates, Peak{
				Votes:      v,
				Theta:      a.Thetas[t],
				Rho:        float64(r - a.MaxRho),
				ThetaIndex: t,
				RhoIndex:   r,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if ci.Votes != cj.Votes {
			return ci.Votes > cj.Votes
		}
		if ci.ThetaIndex != cj.ThetaIndex {
			return ci.ThetaIndex < cj.ThetaIndex
		}
		return ci.RhoIndex < cj.RhoIndex
	})

	peaks := make([]Peak, 0)
	for _, c := range candidates {
		if opts.MaxPeaks > 0 && len(peaks) >= opts.MaxPeaks {
			break
		}
		suppressed := false
		for _, p := range peaks {
			if near(c, p, opts.MinDistance, opts.MinAngle) {
				suppressed = true
				break
			}
		}
		if !suppressed {
			peaks = append(peaks, c)
		}
	}

	return peaks
}

// near reports whether p and q fall within each other's suppression box.
// Across the ±90° seam the same line reappears with ρ negated.
func near(p, q Peak, minDistance, minAngle int) bool {
	dt := absInt(p.ThetaIndex - q.ThetaIndex)
	dr := math.Abs(p.Rho - q.Rho)
	if wrapped := numAngles - dt; wrapped < dt {
		dt = wrapped
		dr = math.Abs(p.Rho + q.Rho)
	}
	return dt <= minAngle && dr <= float64(minDistance)
}

// FamilyOptions configures Families.
type FamilyOptions struct {
	PeakOptions

	// Spread is the largest deviation, in degrees, from the vertical (θ = 0)
	// and horizontal (θ = ±90°) axes. Zero means 30.
	Spread float64
}

// Families splits the accumulator peaks into near-vertical and
// near-horizontal lines. opts.InWindow is ignored; the windows come from
// opts.Spread.
//
// A vertical peak becomes the segment from its crossing of the top edge
// (y = 0) to its crossing of the bottom edge (y = Height). A horizontal peak
// becomes the segment from the left edge (x = 0) to the right edge
// (x = Width). Lines are returned in peak rank order.
func (a *Accumulator) Families(opts FamilyOptions) (vertical, horizontal []geometry.Line) {
	spread := opts.Spread
	if spread <= 0 {
		spread = 30
	}
	rows := float64(a.Height)
	cols := float64(a.Width)

	vOpts := opts.PeakOptions
	vOpts.InWindow = func(deg float64) bool { return math.Abs(deg) <= spread }
	for _, p := range a.Peaks(vOpts) {
		cos, sin := math.Cos(p.Theta), math.Sin(p.Theta)
		x0 := p.Rho / cos
		x1 := (p.Rho - rows*sin) / cos
		vertical = append(vertical, geometry.Ln(x0, 0, x1, rows))
	}

	hOpts := opts.PeakOptions
	hOpts.InWindow = func(deg float64) bool { return math.Abs(deg) >= 90-spread }
	for _, p := range a.Peaks(hOpts) {
		cos, sin := math.Cos(p.Theta), math.Sin(p.Theta)
		y0 := p.Rho / sin
		y1 := (p.Rho - cols*cos) / sin
		horizontal = append(horizontal, geometry.Ln(0, y0, cols, y1))
	}

	return vertical, horizontal
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
