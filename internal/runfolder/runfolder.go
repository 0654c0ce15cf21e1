package runfolder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// ErrNoBaseCalls marks a run folder without the Data/Intensities/BaseCalls
// directory the uploader requires.
var ErrNoBaseCalls = errors.New("BaseCalls directory not found")

// RunFolder is one sequencing run's output directory. The run name is the
// folder's base name and is the key used to locate its SampleSheet.
type RunFolder struct {
	Path string
	Name string
}

// Resolve makes the path absolute and verifies it is an existing directory.
func Resolve(path string) (*RunFolder, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve run folder path %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("run folder not found: %s", abs)
	}
	return &RunFolder{Path: abs, Name: filepath.Base(abs)}, nil
}

// BaseCalls returns the expected raw-data directory for the run.
func (r *RunFolder) BaseCalls() string {
	return filepath.Join(r.Path, "Data", "Intensities", "BaseCalls")
}

// CheckBaseCalls verifies the raw-data directory exists.
func (r *RunFolder) CheckBaseCalls() error {
	info, err := os.Stat(r.BaseCalls())
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w at %s", ErrNoBaseCalls, r.BaseCalls())
	}
	return nil
}

// NameParts are the components of an Illumina-convention run name,
// <YYMMDD>_<instrument>_<run number>_<flowcell>. Parsed for display only;
// the run name itself stays authoritative.
type NameParts struct {
	Date       string
	Instrument string
	RunNumber  string
	Flowcell   string
}

var runNameRe = regexp.MustCompile(`^(\d{6,8})_([A-Za-z0-9]+)_(\d+)_([A-Za-z0-9-]+)$`)

// ParseName splits a conventional run name into its components. The second
// return value is false when the folder does not follow the convention.
func ParseName(name string) (NameParts, bool) {
	m := runNameRe.FindStringSubmatch(name)
	if m == nil {
		return NameParts{}, false
	}
	return NameParts{
		Date:       m[1],
		Instrument: m[2],
		RunNumber:  m[3],
		Flowcell:   m[4],
	}, true
}
