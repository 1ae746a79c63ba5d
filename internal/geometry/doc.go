// Package geometry provides the planar primitives used by corner detection.
//
// Points are real-valued and use the image convention: X is the column and
// grows rightward, Y is the row and grows downward. A Line is a pair of points
// standing in for the infinite line through them.
//
// # Nearest-Match Search
//
// ClosestPoint and ClosestLine are plain linear scans. Both rank candidates by
// squared distance and keep the first candidate seen on ties, so the result
// depends on candidate order only when two candidates score exactly the same.
//
// ClosestLine compares endpoints in order (first to first, second to second).
// A candidate whose endpoints are listed in the opposite order scores badly
// even if it describes the same infinite line. Line sources in this module
// always emit endpoints in a fixed order, so the metric is stable for them.
package geometry
