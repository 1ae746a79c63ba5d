// Package config reads form-digits settings from the environment.
//
// An optional .env file in the working directory is loaded first; variables
// already present in the environment take precedence over it. Every setting
// has a default, so an empty environment yields a usable configuration.
//
//	FORM_DIGITS_INPUT_DIR     directory of scans (select)
//	FORM_DIGITS_PATTERN       scan file glob (*.jpg)
//	FORM_DIGITS_OUTPUT_DIR    crop output directory (extracted)
//	FORM_DIGITS_WIDTH         canvas width (150)
//	FORM_DIGITS_HEIGHT        canvas height (400)
//	FORM_DIGITS_EPSILON       corner coincidence threshold (1e-10)
//	FORM_DIGITS_MIN_ANGLE     peak separation in θ bins (9)
//	FORM_DIGITS_MIN_DISTANCE  peak separation in ρ bins (9)
//	FORM_DIGITS_ANGLE_SPREAD  orientation window in degrees (30)
//	FORM_DIGITS_EDGE_CUT      right margin cut as a width fraction (0.9)
//	FORM_DIGITS_GRAY_MODEL    luma or lab (luma)
//	FORM_DIGITS_CROP_SCALE    digit crop scale factor (1.0)
//	FORM_DIGITS_LOG_LEVEL     logrus level (info)
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/form-digits/internal/imaging"
	"github.com/ironsheep/form-digits/internal/rectify"
)

const envPrefix = "FORM_DIGITS_"

// Config holds the settings of a batch run and of the MCP server.
type Config struct {
	InputDir  string
	Pattern   string
	OutputDir string

	Width       int
	Height      int
	Epsilon     float64
	MinAngle    int
	MinDistance int
	AngleSpread float64

	EdgeCut   float64
	GrayModel imaging.GrayModel
	CropScale float64

	LogLevel logrus.Level
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		InputDir:    "select",
		Pattern:     "*.jpg",
		OutputDir:   "extracted",
		Width:       150,
		Height:      400,
		Epsilon:     1e-10,
		MinAngle:    9,
		MinDistance: 9,
		AngleSpread: 30,
		EdgeCut:     0.9,
		GrayModel:   imaging.GrayLuma,
		CropScale:   1.0,
		LogLevel:    logrus.InfoLevel,
	}
}

// Load reads .env (if present) and the environment, and validates the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment without touching .env.
func FromEnv() (Config, error) {
	cfg := Default()
	r := &envReader{}

	cfg.InputDir = r.readString("INPUT_DIR", cfg.InputDir)
	cfg.Pattern = r.readString("PATTERN", cfg.Pattern)
	cfg.OutputDir = r.readString("OUTPUT_DIR", cfg.OutputDir)
	cfg.Width = r.readInt("WIDTH", cfg.Width)
	cfg.Height = r.readInt("HEIGHT", cfg.Height)
	cfg.Epsilon = r.readFloat("EPSILON", cfg.Epsilon)
	cfg.MinAngle = r.readInt("MIN_ANGLE", cfg.MinAngle)
	cfg.MinDistance = r.readInt("MIN_DISTANCE", cfg.MinDistance)
	cfg.AngleSpread = r.readFloat("ANGLE_SPREAD", cfg.AngleSpread)
	cfg.EdgeCut = r.readFloat("EDGE_CUT", cfg.EdgeCut)
	cfg.CropScale = r.readFloat("CROP_SCALE", cfg.CropScale)

	if raw := r.readString("GRAY_MODEL", ""); raw != "" {
		model, err := imaging.ParseGrayModel(raw)
		if err != nil {
			r.fail("GRAY_MODEL", err)
		}
		cfg.GrayModel = model
	}
	if raw := r.readString("LOG_LEVEL", ""); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			r.fail("LOG_LEVEL", err)
		}
		cfg.LogLevel = level
	}

	if r.err != nil {
		return Config{}, r.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Width, c.Height)
	case c.Epsilon <= 0:
		return fmt.Errorf("epsilon must be positive, got %g", c.Epsilon)
	case c.MinAngle < 0 || c.MinDistance < 0:
		return fmt.Errorf("peak separation must not be negative, got angle %d distance %d", c.MinAngle, c.MinDistance)
	case c.AngleSpread <= 0 || c.AngleSpread >= 45:
		return fmt.Errorf("angle spread must be in (0, 45), got %g", c.AngleSpread)
	case c.EdgeCut < 0 || c.EdgeCut > 1:
		return fmt.Errorf("edge cut must be in [0, 1], got %g", c.EdgeCut)
	case c.CropScale <= 0:
		return fmt.Errorf("crop scale must be positive, got %g", c.CropScale)
	case c.Pattern == "":
		return fmt.Errorf("file pattern must not be empty")
	}
	return nil
}

// PipelineOptions converts the detection settings into rectify options.
func (c Config) PipelineOptions() rectify.Options {
	opts := rectify.DefaultOptions()
	opts.Width = c.Width
	opts.Height = c.Height
	opts.Epsilon = c.Epsilon
	opts.Lines.PeakOptions.MinAngle = c.MinAngle
	opts.Lines.PeakOptions.MinDistance = c.MinDistance
	opts.Lines.Spread = c.AngleSpread
	return opts
}

// PrepareOptions converts the raster settings into imaging options.
func (c Config) PrepareOptions() imaging.PrepareOptions {
	return imaging.PrepareOptions{
		Model:   c.GrayModel,
		EdgeCut: c.EdgeCut,
	}
}

// NewLogger returns a logrus logger writing text to stderr at the
// configured level. Stdout is reserved for the MCP protocol.
func (c Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(c.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

// envReader reads prefixed variables and keeps the first parse error.
type envReader struct {
	err error
}

func (r *envReader) readString(key, fallback string) string {
	raw := strings.TrimSpace(os.Getenv(envPrefix + key))
	if raw == "" {
		return fallback
	}
	return raw
}

func (r *envReader) readInt(key string, fallback int) int {
	raw := r.readString(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(key, err)
		return fallback
	}
	return v
}

func (r *envReader) readFloat(key string, fallback float64) float64 {
	raw := r.readString(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.fail(key, err)
		return fallback
	}
	return v
}

func (r *envReader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
	}
}
