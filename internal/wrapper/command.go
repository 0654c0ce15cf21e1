// Package wrapper is the seam to the external DDM upload CLI. The wrapper
// executable is an opaque black box: this package only builds its argument
// lists, runs it, and captures text output and exit codes.
package wrapper

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrNotFound marks an absent wrapper executable.
var ErrNotFound = errors.New("upload wrapper not found")

// Command is one invocation of the wrapper. Built per call, never persisted.
type Command struct {
	Path string
	Args []string
}

func New(path string, args ...string) Command {
	return Command{Path: path, Args: args}
}

// Argv returns the full argument vector including the executable.
func (c Command) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}

func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// LoginIAM asks the wrapper for the current IAM login status.
func LoginIAM(path string) Command {
	return New(path, "login-iam")
}

// Status lists the most recent runs known to the remote DDM service.
func Status(path string, limit int) Command {
	return New(path, "status", "-l", strconv.Itoa(limit))
}

// PipelineList lists the analysis pipelines available to this account.
func PipelineList(path string) Command {
	return New(path, "pipeline", "--list")
}

// NewUpload registers a new run from folder under the given reference and
// pipeline. With upload set the wrapper also starts the data transfer;
// without it the call stops at registration, which the validator relies on
// for its negative-path fixtures.
func NewUpload(path, folder, reference, pipeline string, upload bool) Command {
	args := []string{"new", "--folder", folder, "--ref", reference, "--pipeline", pipeline}
	if upload {
		args = append(args, "--upload")
	}
	return New(path, args...)
}

// CheckPresent verifies the wrapper executable exists on disk.
func CheckPresent(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w at %s", ErrNotFound, path)
	}
	return nil
}
