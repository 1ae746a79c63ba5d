// Package rectify turns the boundary of a skewed box into four ordered
// corners and warps the box onto a fixed-size canvas.
//
// # Corner Order
//
// Corners always follow the canvas order
//
//	0: (0, 0)  1: (0, H)  2: (W, H)  3: (W, 0)
//
// that is top-left, bottom-left, bottom-right, top-right in image
// coordinates. ResolveCorners assigns each boundary intersection to the
// closest of these positions in the source raster, and Warp relies on the
// order without sorting again.
//
// # Failures
//
// Expected failures are reported as errors wrapping one of the sentinels
// ErrNoBoundary, ErrDegenerateBoundary or ErrDegenerateCorners. They are
// final for the image: detection is deterministic, so retrying with the same
// raster and options cannot succeed. Reason maps an error to a short stable
// name for logs and tool output.
//
// # Warp
//
// The canvas is split along its (0,0)-(W,H) diagonal into two triangles and
// each triangle gets its own affine map into the source raster. With four
// correspondences this is exact at every corner and tolerates boxes that are
// not a perfect perspective image of a rectangle.
package rectify
