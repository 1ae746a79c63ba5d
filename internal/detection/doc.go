// Package detection finds the boundary lines of a skewed rectangular box in a
// binary raster.
//
// # Hough Transform
//
// HoughTransform votes every ink pixel into an accumulator indexed by the line
// normal angle θ and the signed offset ρ:
//
//	ρ = x·cos θ + y·sin θ
//
// θ runs from -90° to 89° in 1° steps and ρ is rounded to whole pixels. A
// near-vertical line has θ close to 0, a near-horizontal one has θ close to
// ±90°.
//
// # Peaks
//
// Accumulator.Peaks ranks local maxima by vote count inside a θ window. A
// candidate is suppressed when an already accepted peak lies within
// MinDistance ρ bins and MinAngle θ bins of it, which keeps near-duplicate
// lines out while still reporting parallel lines at different offsets. The
// θ axis wraps at ±90° with ρ changing sign, so a horizontal line voted at
// both ends of the axis is reported once.
//
// # Boundary Selection
//
// Accumulator.Families turns the vertical and horizontal peaks into line
// segments spanning the raster. SelectBoundaries then keeps, per raster edge,
// the segment whose endpoints lie closest to that edge's endpoints.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
package detection
