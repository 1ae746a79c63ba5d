package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
	"github.com/anthonynsimon/bild/segment"
	"github.com/lucasb-eyer/go-colorful"
)

// GrayModel selects how color pixels are reduced to a single intensity.
type GrayModel string

const (
	// GrayLuma uses a weighted sum of the RGB channels.
	GrayLuma GrayModel = "luma"

	// GrayLab uses the CIE L*a*b* lightness channel.
	GrayLab GrayModel = "lab"
)

// ParseGrayModel validates a gray model name. An empty name selects GrayLuma.
func ParseGrayModel(name string) (GrayModel, error) {
	switch GrayModel(name) {
	case "", GrayLuma:
		return GrayLuma, nil
	case GrayLab:
		return GrayLab, nil
	default:
		return "", fmt.Errorf("unknown gray model %q (want %q or %q)", name, GrayLuma, GrayLab)
	}
}

// Grayscale converts img to an 8-bit gray image using the given model.
// The result keeps the bounds of img.
func Grayscale(img image.Image, model GrayModel) (*image.Gray, error) {
	switch model {
	case "", GrayLuma:
		luma := effect.Grayscale(img)
		out := image.NewGray(img.Bounds())
		draw.Draw(out, out.Bounds(), luma, luma.Bounds().Min, draw.Src)
		return out, nil
	case GrayLab:
		return labLightness(img), nil
	default:
		return nil, fmt.Errorf("unknown gray model %q", model)
	}
}

// labLightness maps each pixel to its L* value scaled to 0-255.
// Fully transparent pixels are treated as white paper.
func labLightness(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				out.SetGray(x, y, color.Gray{Y: 255})
				continue
			}
			l, _, _ := c.Lab()
			l = math.Max(0, math.Min(1, l))
			out.SetGray(x, y, color.Gray{Y: uint8(math.Round(l * 255))})
		}
	}
	return out
}

// OtsuLevel returns the threshold that best separates the two intensity
// classes of g. Pixels strictly below the returned level form the dark class.
//
// The level maximizes the between-class variance
//
//	w0 * w1 * (mu0 - mu1)^2
//
// over all splits of the 256-bin histogram. A uniform image has no valid
// split and yields level 1, so only pure black counts as dark.
func OtsuLevel(g *image.Gray) uint8 {
	bins := histogram.NewRGBAHistogram(g).R.Bins

	var total, sum float64
	for v, n := range bins {
		total += float64(n)
		sum += float64(v) * float64(n)
	}
	if total == 0 {
		return 1
	}

	var w0, sum0 float64
	best, bestVar := 0, -1.0
	for k := 0; k < len(bins)-1; k++ {
		w0 += float64(bins[k])
		sum0 += float64(k) * float64(bins[k])
		w1 := total - w0
		if w0 == 0 || w1 == 0 {
			continue
		}
		mu0 := sum0 / w0
		mu1 := (sum - sum0) / w1
		between := w0 * w1 * (mu0 - mu1) * (mu0 - mu1)
		if between > bestVar {
			bestVar = between
			best = k
		}
	}
	return uint8(best + 1)
}

// Binarize converts img to a mask in which dark pixels are ink, using Otsu's
// method to pick the threshold. It returns the mask and the level used.
func Binarize(img image.Image, model GrayModel) (*Mask, uint8, error) {
	gray, err := Grayscale(img, model)
	if err != nil {
		return nil, 0, err
	}
	level := OtsuLevel(gray)
	// Threshold paints pixels below level black and the rest white.
	return MaskFromGray(segment.Threshold(gray, level), 1), level, nil
}
