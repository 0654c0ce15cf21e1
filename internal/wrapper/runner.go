package wrapper

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Result of a synchronous wrapper invocation. Output combines stdout and
// stderr in arrival order, matching what an operator sees in a terminal.
type Result struct {
	ExitCode int
	Output   string
}

// Runner executes wrapper commands. The validator takes this interface so
// tests can substitute a stub for the real executable.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner runs commands via os/exec, synchronously to completion. A
// non-zero exit is a Result, not an error; errors mean the command could not
// be run at all (missing binary, canceled context, timeout).
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	out, err := c.CombinedOutput()
	res := &Result{Output: string(out)}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("wrapper command %q: %w", cmd.String(), ctx.Err())
	}
	return nil, fmt.Errorf("wrapper command %q: %w", cmd.String(), err)
}
