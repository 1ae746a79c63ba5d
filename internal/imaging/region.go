package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// FormRegion returns the part of a scanned form that holds the digit box.
//
// The box sits in the right-hand 5/24 of the page, and its vertical position
// depends on the scan resolution, estimated from the page height h:
//
//	h < 1100         rows h*300/1700 .. +h*400/1700
//	1700 < h < 2400  rows 350 .. 800
//	otherwise        rows h*350/1700 .. +h*450/1700
//
// The result is clamped to bounds.
func FormRegion(bounds image.Rectangle) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()

	var y0, y1 int
	switch {
	case h < 1100:
		y0 = h * 300 / 1700
		y1 = y0 + h*400/1700
	case h > 1700 && h < 2400:
		y0 = 350
		y1 = y0 + 450
	default:
		y0 = h * 350 / 1700
		y1 = y0 + h*450/1700
	}
	x0 := w * 19 / 24

	r := image.Rect(x0, y0, w, y1).Add(bounds.Min)
	return r.Intersect(bounds)
}

// PrepareOptions controls how a form image is turned into a binary mask.
type PrepareOptions struct {
	// Model is the gray conversion used before thresholding.
	Model GrayModel

	// EdgeCut clears mask columns at or beyond Width*EdgeCut. Zero or one
	// disables it.
	EdgeCut float64

	// FullImage skips FormRegion and binarizes the whole image.
	FullImage bool
}

// Prepared is a form image reduced to the binary raster the corner
// detector works on.
type Prepared struct {
	// Region is the area of the source image covered by Mask.
	Region image.Rectangle

	// Level is the Otsu threshold that produced Mask.
	Level uint8

	Mask *Mask
}

// PrepareForm crops the digit region out of img, binarizes it and removes the
// right-hand margin.
func PrepareForm(img image.Image, opts PrepareOptions) (*Prepared, error) {
	region := img.Bounds()
	if !opts.FullImage {
		region = FormRegion(region)
	}
	if region.Empty() {
		return nil, fmt.Errorf("form region is empty for image bounds %v", img.Bounds())
	}

	cropped := imaging.Crop(img, region)
	mask, level, err := Binarize(cropped, opts.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to binarize form region: %w", err)
	}
	mask.ClearRight(opts.EdgeCut)

	return &Prepared{
		Region: region,
		Level:  level,
		Mask:   mask,
	}, nil
}
