package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/form-digits/internal/config"
	"github.com/ironsheep/form-digits/internal/extract"
	"github.com/ironsheep/form-digits/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	mode := "extract"
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("form-digits %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "mcp":
			mode = "mcp"
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q (see --help)\n", os.Args[1])
			os.Exit(2)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Configuration error: %v", err)
	}

	// Logs go to stderr; stdout is for the MCP protocol
	log := cfg.NewLogger()
	log.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("form-digits starting")

	switch mode {
	case "mcp":
		server.Version = Version
		srv := server.New(cfg, log)
		if err := srv.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	default:
		summary, err := extract.Run(cfg, log)
		if err != nil {
			log.Fatalf("Extraction error: %v", err)
		}
		fmt.Printf("total success: %d\n", summary.Success)
		fmt.Printf("total fail: %d\n", summary.Fail)
		fmt.Printf("statistic: %v\n", summary.Tally)
		if summary.Success == 0 && summary.Fail > 0 {
			os.Exit(1)
		}
	}
}

func printHelp() {
	fmt.Println("form-digits - extract handwritten digits from scanned forms")
	fmt.Println()
	fmt.Println("Usage: form-digits [command]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  (none)           Extract digits from every scan in the input directory")
	fmt.Println("  mcp              Serve the form tools over MCP on stdin/stdout")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Println("  FORM_DIGITS_INPUT_DIR=select        Directory of scans")
	fmt.Println("  FORM_DIGITS_PATTERN=*.jpg           Scan file pattern")
	fmt.Println("  FORM_DIGITS_OUTPUT_DIR=extracted    Crop output directory")
	fmt.Println("  FORM_DIGITS_WIDTH=150               Rectified canvas width")
	fmt.Println("  FORM_DIGITS_HEIGHT=400              Rectified canvas height")
	fmt.Println("  FORM_DIGITS_EPSILON=1e-10           Corner coincidence threshold")
	fmt.Println("  FORM_DIGITS_MIN_ANGLE=9             Hough peak separation (degrees)")
	fmt.Println("  FORM_DIGITS_MIN_DISTANCE=9          Hough peak separation (pixels)")
	fmt.Println("  FORM_DIGITS_ANGLE_SPREAD=30         Line orientation window (degrees)")
	fmt.Println("  FORM_DIGITS_EDGE_CUT=0.9            Right margin cut (fraction of width)")
	fmt.Println("  FORM_DIGITS_GRAY_MODEL=luma         Gray conversion: luma or lab")
	fmt.Println("  FORM_DIGITS_CROP_SCALE=1.0          Digit crop scale factor")
	fmt.Println("  FORM_DIGITS_LOG_LEVEL=info          debug, info, warn or error")
}
