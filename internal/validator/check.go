// Package validator probes the upload environment through the external
// wrapper and aggregates the outcome. Checks run in a fixed order and are
// independent: one failure never stops the rest.
package validator

import (
	"context"
	"fmt"

	"github.com/seqlab/ddmup/internal/wrapper"
)

type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// Result of one check. Detail is empty on success and carries the
// expected-vs-actual mismatch on failure.
type Result struct {
	Check  string
	Status Status
	Detail string
}

// Check probes one aspect of the upload environment.
type Check interface {
	Name() string
	Run(ctx context.Context, r wrapper.Runner) Result
}

func pass(c Check) Result {
	return Result{Check: c.Name(), Status: StatusPassed}
}

func fail(c Check, format string, args ...interface{}) Result {
	return Result{Check: c.Name(), Status: StatusFailed, Detail: fmt.Sprintf(format, args...)}
}
