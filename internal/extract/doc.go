// Package extract cuts the handwritten digits out of rectified forms.
//
// A rectified form canvas holds a grid of four rows and three columns: each
// row is one number of up to three digits, and the columns are the hundreds,
// tens and ones place. The expected numbers come from an annotation file
// stored next to the scan, and each cell is saved as a PNG under a directory
// named after its digit:
//
//	<out>/<digit>/<count>.png
//
// where count is the running number of crops with that digit, kept in a
// Tally. The Tally is passed in and returned by every call, so a batch can
// resume numbering from an earlier run.
//
// # Batch Runs
//
// Run processes every scan that matches the configured pattern, in sorted
// order. A scan that fails is logged with its failure reason and counted;
// the run continues with the next scan.
package extract
