package extract

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrAnnotation marks a missing or malformed annotation file.
var ErrAnnotation = errors.New("invalid annotation")

// AnnotationPath returns the annotation file of a scan: the same path with
// a .txt extension.
func AnnotationPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".txt"
}

// ReadAnnotation reads the expected numbers from an annotation file.
func ReadAnnotation(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnnotation, err)
	}
	defer f.Close()

	fields, err := ParseAnnotation(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fields, nil
}

// ParseAnnotation skips the header line and splits the second line on
// commas. At least one field per grid row is required; surrounding
// whitespace is trimmed from every field.
func ParseAnnotation(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAnnotation, err)
		}
		return nil, fmt.Errorf("%w: missing header line", ErrAnnotation)
	}
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAnnotation, err)
		}
		return nil, fmt.Errorf("%w: missing value line", ErrAnnotation)
	}

	parts := strings.Split(scanner.Text(), ",")
	if len(parts) < Rows {
		return nil, fmt.Errorf("%w: got %d fields, want at least %d", ErrAnnotation, len(parts), Rows)
	}

	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
	}
	return fields, nil
}
