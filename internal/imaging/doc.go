// Package imaging turns scanned forms into the binary rasters the corner
// detector works on, and provides the image I/O around it.
//
// A scan goes through PrepareForm: FormRegion picks the part of the page
// that holds the digit box, Grayscale converts it (luma or CIE L*), Otsu's
// method picks a threshold, and the right-hand margin is cleared. The result
// is a Mask in region coordinates.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with (0,0) at the
// top-left corner, X increasing rightward and Y downward. Rectangles follow
// image.Rectangle: Min is inclusive, Max is exclusive.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Mask is not; a Mask is
// owned by the pipeline run that created it.
//
// # Error Handling
//
// Functions return errors for invalid input (out-of-bounds regions,
// undecodable files) and wrap underlying errors with %w.
package imaging
