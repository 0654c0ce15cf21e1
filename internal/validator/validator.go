package validator

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/seqlab/ddmup/internal/config"
	"github.com/seqlab/ddmup/internal/logging"
	"github.com/seqlab/ddmup/internal/wrapper"
)

// ErrLocked means another validator instance holds the run lock.
var ErrLocked = errors.New("another validator instance is already running")

// Validator runs the fixed check sequence against the wrapper.
type Validator struct {
	cfg    *config.ValidationConfig
	runner wrapper.Runner
	logger *logging.Logger
	alert  logging.Emitter
}

// Report aggregates one validator run. The ID correlates stderr output with
// the system-log entries of the same run.
type Report struct {
	ID      string
	Results []Result
}

func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			n++
		}
	}
	return n
}

func (r *Report) AllPassed() bool { return r.Failed() == 0 }

func New(cfg *config.ValidationConfig, runner wrapper.Runner, logger *logging.Logger, alert logging.Emitter) *Validator {
	return &Validator{cfg: cfg, runner: runner, logger: logger, alert: alert}
}

// Checks returns the check sequence in its fixed order: identity, recency,
// pipeline availability, then one negative-path check per fixture.
func (v *Validator) Checks() []Check {
	checks := []Check{
		loginCheck{wrapperPath: v.cfg.WrapperPath, expected: v.cfg.ExpectedLoginIAMMessage},
		recentRunsCheck{wrapperPath: v.cfg.WrapperPath, minimum: v.cfg.RecentRunsToCheck},
		pipelineCheck{wrapperPath: v.cfg.WrapperPath, pipelineID: v.cfg.PipelineID},
	}
	for _, ft := range v.cfg.FastqTests {
		checks = append(checks, fastqCheck{
			wrapperPath:   v.cfg.WrapperPath,
			label:         ft.Label,
			folder:        ft.Folder,
			reference:     v.cfg.ReferenceName,
			pipelineID:    v.cfg.PipelineID,
			expectedError: ft.ExpectedError,
		})
	}
	return checks
}

// Run executes every check to completion regardless of earlier failures.
// Each wrapper invocation gets its own timeout; each failure is emitted to
// the system log as it happens.
func (v *Validator) Run(ctx context.Context) *Report {
	report := &Report{ID: uuid.NewString()}
	timeout := v.cfg.CommandTimeout()

	// The wrapper executable missing is an unrecoverable setup error: mark
	// every check failed without invoking anything.
	if err := wrapper.CheckPresent(v.cfg.WrapperPath); err != nil {
		for _, check := range v.Checks() {
			res := Result{Check: check.Name(), Status: StatusFailed, Detail: err.Error()}
			report.Results = append(report.Results, res)
		}
		v.alert.Emit("validation report %s: %v", report.ID, err)
		return report
	}

	for _, check := range v.Checks() {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		res := check.Run(cctx, v.runner)
		cancel()

		report.Results = append(report.Results, res)
		if res.Status == StatusFailed {
			v.logger.Error("check %s failed: %s", res.Check, res.Detail)
			v.alert.Emit("validation report %s: check %s failed: %s", report.ID, res.Check, res.Detail)
		} else {
			v.logger.Debug("check %s passed", res.Check)
		}
	}
	return report
}

// AcquireLock takes a non-blocking file lock so overlapping scheduled runs
// exit cleanly instead of interleaving output. The returned release func
// must be called once validation finishes.
func AcquireLock(path string) (func(), error) {
	l := flock.New(path)
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire validator lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, path)
	}
	return func() { _ = l.Unlock() }, nil
}
