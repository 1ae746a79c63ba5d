package extract

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/form-digits/internal/config"
	"github.com/ironsheep/form-digits/internal/imaging"
	"github.com/ironsheep/form-digits/internal/rectify"
)

// Outcome describes one processed scan.
type Outcome struct {
	Image   string            `json:"image"`
	Region  image.Rectangle   `json:"region"`
	Level   uint8             `json:"level"`
	Corners rectify.CornerSet `json:"corners"`
	Crops   []Crop            `json:"crops"`
}

// Failure is a scan the batch could not process.
type Failure struct {
	Image  string `json:"image"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// Summary is the result of a batch run.
type Summary struct {
	Success  int       `json:"success"`
	Fail     int       `json:"fail"`
	Tally    Tally     `json:"tally"`
	Failures []Failure `json:"failures,omitempty"`
}

// FailureReason maps a processing error to a stable reason string.
func FailureReason(err error) string {
	if errors.Is(err, ErrAnnotation) {
		return "bad_annotation"
	}
	return rectify.Reason(err)
}

// Extractor runs the whole per-scan chain: load, prepare, rectify and crop.
type Extractor struct {
	cache    *imaging.ImageCache
	prepare  imaging.PrepareOptions
	pipeline *rectify.Pipeline
}

// NewExtractor returns an extractor configured by cfg. Scans are loaded
// through cache.
func NewExtractor(cfg config.Config, cache *imaging.ImageCache) *Extractor {
	return &Extractor{
		cache:    cache,
		prepare:  cfg.PrepareOptions(),
		pipeline: rectify.New(cfg.PipelineOptions()),
	}
}

// Rectify loads a scan and rectifies its digit box. The prepared raster is
// returned along with the result so callers can inspect a failed run.
func (e *Extractor) Rectify(imagePath string) (*imaging.Prepared, *rectify.Result, error) {
	img, err := e.cache.Load(imagePath)
	if err != nil {
		return nil, nil, err
	}

	prepared, err := imaging.PrepareForm(img, e.prepare)
	if err != nil {
		return nil, nil, err
	}

	res, err := e.pipeline.Rectify(prepared.Mask)
	return prepared, res, err
}

// Process rectifies a scan and saves its digit cells, labelled by the
// annotation at annotationPath.
func (e *Extractor) Process(imagePath, annotationPath string, opts Options, tally Tally) (*Outcome, Tally, error) {
	prepared, res, err := e.Rectify(imagePath)
	if err != nil {
		return nil, tally, err
	}

	fields, err := ReadAnnotation(annotationPath)
	if err != nil {
		return nil, tally, err
	}

	crops, tally, err := Extract(res.Canvas, fields, opts, tally)
	if err != nil {
		return nil, tally, err
	}

	return &Outcome{
		Image:   imagePath,
		Region:  prepared.Region,
		Level:   prepared.Level,
		Corners: res.Corners,
		Crops:   crops,
	}, tally, nil
}

// Run processes every scan matching cfg.Pattern in cfg.InputDir.
func Run(cfg config.Config, log logrus.FieldLogger) (Summary, error) {
	return RunWithTally(cfg, log, Tally{})
}

// RunWithTally is Run with crop numbering continuing from tally.
func RunWithTally(cfg config.Config, log logrus.FieldLogger, tally Tally) (Summary, error) {
	paths, err := filepath.Glob(filepath.Join(cfg.InputDir, cfg.Pattern))
	if err != nil {
		return Summary{Tally: tally}, fmt.Errorf("invalid pattern %q: %w", cfg.Pattern, err)
	}
	sort.Strings(paths)

	cache := imaging.NewImageCache()
	ex := NewExtractor(cfg, cache)
	opts := Options{OutputDir: cfg.OutputDir, Scale: cfg.CropScale}

	summary := Summary{Tally: tally}
	for _, path := range paths {
		entry := log.WithField("image", path)
		entry.Info("Extracting")

		var outcome *Outcome
		outcome, summary.Tally, err = ex.Process(path, AnnotationPath(path), opts, summary.Tally)
		cache.Evict(path)

		if err != nil {
			reason := FailureReason(err)
			entry.WithFields(logrus.Fields{
				"reason": reason,
				"error":  err,
			}).Warn("Extraction failed")
			summary.Fail++
			summary.Failures = append(summary.Failures, Failure{Image: path, Reason: reason, Err: err})
			continue
		}

		entry.WithField("crops", len(outcome.Crops)).Debug("Extraction succeeded")
		summary.Success++
	}

	log.WithFields(logrus.Fields{
		"success": summary.Success,
		"fail":    summary.Fail,
		"tally":   summary.Tally,
	}).Info("Batch complete")

	return summary, nil
}
