// Package deps checks the local preconditions of the upload tooling without
// touching the wrapper or the network.
package deps

import (
	"fmt"
	"os"

	"github.com/seqlab/ddmup/internal/config"
)

type Kind string

const (
	KindExecutable Kind = "executable"
	KindDirectory  Kind = "directory"
)

// Requirement is one local item the tooling relies on.
type Requirement struct {
	Name     string
	Path     string
	Kind     Kind
	Optional bool
}

// Status reports a requirement's availability.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// Check evaluates the requirements in order.
func Check(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := Status{Requirement: req}
		if req.Path == "" {
			status.Detail = "path not configured"
			results = append(results, status)
			continue
		}
		info, err := os.Stat(req.Path)
		if err != nil {
			status.Detail = fmt.Sprintf("%s not found at %s", req.Kind, req.Path)
			results = append(results, status)
			continue
		}
		switch req.Kind {
		case KindDirectory:
			if !info.IsDir() {
				status.Detail = fmt.Sprintf("%s is not a directory", req.Path)
				results = append(results, status)
				continue
			}
		case KindExecutable:
			if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
				status.Detail = fmt.Sprintf("%s is not an executable file", req.Path)
				results = append(results, status)
				continue
			}
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired counts unavailable, non-optional items.
func MissingRequired(statuses []Status) int {
	n := 0
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			n++
		}
	}
	return n
}

// ForUpload lists the launcher's local requirements.
func ForUpload(cfg *config.UploadConfig) []Requirement {
	return []Requirement{
		{Name: "upload wrapper", Path: cfg.WrapperPath, Kind: KindExecutable},
		{Name: "samplesheets root", Path: cfg.SamplesheetsRoot, Kind: KindDirectory},
	}
}

// ForValidation lists the validator's local requirements. Fixture folders
// are optional here: the validator itself reports them as check failures.
func ForValidation(cfg *config.ValidationConfig) []Requirement {
	reqs := []Requirement{
		{Name: "upload wrapper", Path: cfg.WrapperPath, Kind: KindExecutable},
	}
	for _, ft := range cfg.FastqTests {
		reqs = append(reqs, Requirement{
			Name:     "fixture: " + ft.Label,
			Path:     ft.Folder,
			Kind:     KindDirectory,
			Optional: true,
		})
	}
	return reqs
}
