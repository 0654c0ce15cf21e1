package validator

import (
	"context"
	"regexp"
	"strings"

	"github.com/seqlab/ddmup/internal/wrapper"
)

// loginCheck asserts the wrapper reports an active IAM session.
type loginCheck struct {
	wrapperPath string
	expected    string
}

func (c loginCheck) Name() string { return "login-iam" }

func (c loginCheck) Run(ctx context.Context, r wrapper.Runner) Result {
	res, err := r.Run(ctx, wrapper.LoginIAM(c.wrapperPath))
	if err != nil {
		return fail(c, "wrapper did not run: %v", err)
	}
	if res.ExitCode != 0 {
		return fail(c, "exit status %d, output:\n%s", res.ExitCode, res.Output)
	}
	if !strings.Contains(res.Output, c.expected) {
		return fail(c, "expected login message %q not found, output:\n%s", c.expected, res.Output)
	}
	return pass(c)
}

// recentRunsCheck asserts the status listing reports at least the configured
// number of runs. Run entries look like "<number>: <status>".
type recentRunsCheck struct {
	wrapperPath string
	minimum     int
}

var runLineRe = regexp.MustCompile(`^\s*\d+:\s+\S+`)

func (c recentRunsCheck) Name() string { return "recent-runs" }

func (c recentRunsCheck) Run(ctx context.Context, r wrapper.Runner) Result {
	res, err := r.Run(ctx, wrapper.Status(c.wrapperPath, c.minimum))
	if err != nil {
		return fail(c, "wrapper did not run: %v", err)
	}
	if res.ExitCode != 0 {
		return fail(c, "exit status %d, output:\n%s", res.ExitCode, res.Output)
	}

	found := 0
	for _, line := range strings.Split(res.Output, "\n") {
		if runLineRe.MatchString(line) {
			found++
		}
	}
	if found < c.minimum {
		return fail(c, "expected at least %d recent runs, found %d, output:\n%s", c.minimum, found, res.Output)
	}
	return pass(c)
}

// pipelineCheck asserts the configured pipeline id is available.
type pipelineCheck struct {
	wrapperPath string
	pipelineID  string
}

func (c pipelineCheck) Name() string { return "pipeline-available" }

func (c pipelineCheck) Run(ctx context.Context, r wrapper.Runner) Result {
	res, err := r.Run(ctx, wrapper.PipelineList(c.wrapperPath))
	if err != nil {
		return fail(c, "wrapper did not run: %v", err)
	}
	if res.ExitCode != 0 {
		return fail(c, "exit status %d, output:\n%s", res.ExitCode, res.Output)
	}
	if !strings.Contains(res.Output, c.pipelineID) {
		return fail(c, "pipeline %q not found in listing:\n%s", c.pipelineID, res.Output)
	}
	return pass(c)
}

// fastqCheck drives the wrapper against a fixture folder it must reject,
// asserting both the error text and a non-zero exit.
type fastqCheck struct {
	wrapperPath   string
	label         string
	folder        string
	reference     string
	pipelineID    string
	expectedError string
}

func (c fastqCheck) Name() string { return "fastq:" + c.label }

func (c fastqCheck) Run(ctx context.Context, r wrapper.Runner) Result {
	cmd := wrapper.NewUpload(c.wrapperPath, c.folder, c.reference, c.pipelineID, false)
	res, err := r.Run(ctx, cmd)
	if err != nil {
		return fail(c, "wrapper did not run: %v", err)
	}
	if !strings.Contains(res.Output, c.expectedError) {
		return fail(c, "expected error %q for %s not found, output:\n%s", c.expectedError, c.label, res.Output)
	}
	if res.ExitCode == 0 {
		return fail(c, "wrapper accepted the %s fixture (exit 0), output:\n%s", c.label, res.Output)
	}
	return pass(c)
}
