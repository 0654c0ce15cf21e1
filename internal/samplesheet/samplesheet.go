package samplesheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	ErrNotFound       = errors.New("samplesheet not found")
	ErrAmbiguous      = errors.New("multiple samplesheets match")
	ErrExperimentName = errors.New("experiment name missing or malformed")
)

// Locate returns the SampleSheet path for a run. The canonical location is
// <root>/<runName>_SampleSheet.csv; when it is absent the root is searched
// recursively, since operators file sheets under per-year or per-instrument
// subfolders. Exactly one match is required.
func Locate(root, runName string) (string, error) {
	filename := runName + "_SampleSheet.csv"
	canonical := filepath.Join(root, filename)
	if info, err := os.Stat(canonical); err == nil && !info.IsDir() {
		return canonical, nil
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(root, "**", filename))
	if err != nil {
		return "", fmt.Errorf("search samplesheet root %s: %w", root, err)
	}

	files := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			files = append(files, m)
		}
	}

	switch len(files) {
	case 0:
		return "", fmt.Errorf("%w: expected %s under %s", ErrNotFound, filename, root)
	case 1:
		return files[0], nil
	default:
		return "", fmt.Errorf("%w for run %s: %s", ErrAmbiguous, runName, strings.Join(files, ", "))
	}
}

// Experiment is the identifier pair encoded in the SampleSheet's
// Experiment Name field as <reference>_<bds-id>.
type Experiment struct {
	Reference string
	BDSID     string
	Raw       string
}

// ReadExperiment scans the SampleSheet for the Experiment Name row and
// splits its value on the first underscore.
func ReadExperiment(path string) (*Experiment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open samplesheet %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read samplesheet %s: %w", path, err)
		}
		if len(row) == 0 || !strings.EqualFold(strings.TrimSpace(row[0]), "experiment name") {
			continue
		}
		if len(row) < 2 || strings.TrimSpace(row[1]) == "" {
			break
		}

		raw := strings.TrimSpace(row[1])
		reference, bdsID, ok := strings.Cut(raw, "_")
		if !ok || reference == "" || bdsID == "" {
			return nil, fmt.Errorf("%w: value %q does not contain the expected BDS component", ErrExperimentName, raw)
		}
		return &Experiment{Reference: reference, BDSID: bdsID, Raw: raw}, nil
	}

	return nil, fmt.Errorf("%w: no Experiment Name entry in %s", ErrExperimentName, path)
}
