package validator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seqlab/ddmup/internal/config"
	"github.com/seqlab/ddmup/internal/logging"
	"github.com/seqlab/ddmup/internal/wrapper"
)

// healthyWrapperScript imitates the real upload wrapper: a login banner, a
// status listing, a pipeline listing, and FASTQ rejection on `new`.
const healthyWrapperScript = `#!/bin/sh
case "$1" in
  login-iam)
    echo "You are already logged in with IAM as ops@lab"
    ;;
  status)
    echo " 1: DONE"
    echo " 2: RUNNING"
    echo " 3: DONE"
    ;;
  pipeline)
    echo "pipeline_41"
    echo "pipeline_42"
    ;;
  new)
    echo "Error: No FASTQ files found in folder. Refusing unpaired FASTQ input." >&2
    exit 2
    ;;
  *)
    echo "unknown subcommand: $1" >&2
    exit 64
    ;;
esac
`

// brokenPipelineScript is the same wrapper with pipeline_42 withdrawn.
const brokenPipelineScript = `#!/bin/sh
case "$1" in
  login-iam)
    echo "You are already logged in with IAM as ops@lab"
    ;;
  status)
    echo " 1: DONE"
    echo " 2: RUNNING"
    echo " 3: DONE"
    ;;
  pipeline)
    echo "pipeline_41"
    ;;
  new)
    echo "Error: No FASTQ files found in folder. Refusing unpaired FASTQ input." >&2
    exit 2
    ;;
esac
`

func writeWrapper(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sg-upload-v2-wrapper")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func integrationConfig(wrapperPath string) *config.ValidationConfig {
	return &config.ValidationConfig{
		WrapperPath:             wrapperPath,
		ExpectedLoginIAMMessage: "You are already logged in with IAM",
		RecentRunsToCheck:       3,
		PipelineID:              "pipeline_42",
		ReferenceName:           "validation_ref",
		FastqTests: []config.FastqTest{
			{Label: "empty folder", Folder: "/fixtures/empty", ExpectedError: "No FASTQ files found"},
			{Label: "single fastq", Folder: "/fixtures/single", ExpectedError: "unpaired FASTQ"},
		},
		CommandTimeoutSeconds: 30,
	}
}

func TestEndToEnd_HealthyEnvironment(t *testing.T) {
	cfg := integrationConfig(writeWrapper(t, healthyWrapperScript))
	alert := &recordingEmitter{}
	logger := logging.NewLoggerWithWriter("error", &bytes.Buffer{})

	report := New(cfg, wrapper.ExecRunner{}, logger, alert).Run(context.Background())

	if !report.AllPassed() {
		t.Fatalf("expected a clean report, got %#v", report.Results)
	}
	if len(alert.messages) != 0 {
		t.Fatalf("no syslog emission expected, got %v", alert.messages)
	}
}

func TestEndToEnd_PipelineWithdrawn(t *testing.T) {
	cfg := integrationConfig(writeWrapper(t, brokenPipelineScript))
	alert := &recordingEmitter{}
	logger := logging.NewLoggerWithWriter("error", &bytes.Buffer{})

	report := New(cfg, wrapper.ExecRunner{}, logger, alert).Run(context.Background())

	if report.Failed() != 1 {
		t.Fatalf("expected only the pipeline check to fail, got %#v", report.Results)
	}
	if len(alert.messages) != 1 || !strings.Contains(alert.messages[0], "pipeline-available") {
		t.Fatalf("expected one emission naming the pipeline check, got %v", alert.messages)
	}

	var buf bytes.Buffer
	report.Render(&buf, true)
	if !strings.Contains(buf.String(), "FAIL pipeline-available") {
		t.Fatalf("rendered report should name the failing check: %q", buf.String())
	}
}
