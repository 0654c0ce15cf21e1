package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/seqlab/ddmup/internal/config"
	"github.com/seqlab/ddmup/internal/logging"
	"github.com/seqlab/ddmup/internal/samplesheet"
)

type fixture struct {
	svc     *Service
	runPath string
	root    string
}

func newFixture(t *testing.T, experimentValue string) *fixture {
	t.Helper()
	base := t.TempDir()

	runPath := filepath.Join(base, "250101_NB551234_0042_AHXYZ")
	if err := os.MkdirAll(filepath.Join(runPath, "Data", "Intensities", "BaseCalls"), 0o755); err != nil {
		t.Fatal(err)
	}

	root := filepath.Join(base, "samplesheets")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	sheet := "Experiment Name," + experimentValue + "\n"
	if err := os.WriteFile(filepath.Join(root, "250101_NB551234_0042_AHXYZ_SampleSheet.csv"), []byte(sheet), 0o644); err != nil {
		t.Fatal(err)
	}

	wrapperPath := filepath.Join(base, "sg-upload-v2-wrapper")
	if err := os.WriteFile(wrapperPath, []byte("#!/bin/sh\necho \"upload started $*\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := &config.UploadConfig{
		WrapperPath:      wrapperPath,
		SamplesheetsRoot: root,
		PipelineID:       "pipeline_42",
	}
	logger := logging.NewLoggerWithWriter("error", os.Stderr)
	return &fixture{svc: New(cfg, logger), runPath: runPath, root: root}
}

func TestResolve(t *testing.T) {
	fx := newFixture(t, "refA_bds123")

	res, err := fx.svc.Resolve(&Request{RunFolder: fx.runPath})
	if err != nil {
		t.Fatal(err)
	}
	if res.Experiment.Reference != "refA" || res.Experiment.BDSID != "bds123" {
		t.Fatalf("unexpected experiment: %#v", res.Experiment)
	}
	if res.LogPath != filepath.Join(fx.runPath, "nohup.out") {
		t.Fatalf("unexpected default log path: %q", res.LogPath)
	}

	argv := res.Command.Argv()
	joined := strings.Join(argv, " ")
	if !strings.Contains(joined, "new --folder "+filepath.Join(fx.runPath, "Data", "Intensities", "BaseCalls")) {
		t.Fatalf("unexpected command: %s", joined)
	}
	if !strings.Contains(joined, "--ref refA --pipeline pipeline_42 --upload") {
		t.Fatalf("unexpected command: %s", joined)
	}
}

func TestResolve_Overrides(t *testing.T) {
	fx := newFixture(t, "refA_bds123")

	altRoot := filepath.Join(t.TempDir(), "alt")
	if err := os.MkdirAll(altRoot, 0o755); err != nil {
		t.Fatal(err)
	}
	sheet := "Experiment Name,refB_bds456\n"
	if err := os.WriteFile(filepath.Join(altRoot, "250101_NB551234_0042_AHXYZ_SampleSheet.csv"), []byte(sheet), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := fx.svc.Resolve(&Request{
		RunFolder:       fx.runPath,
		SamplesheetRoot: altRoot,
		NohupLog:        "/tmp/custom.log",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Experiment.Reference != "refB" {
		t.Fatalf("override root was ignored: %#v", res.Experiment)
	}
	if res.LogPath != "/tmp/custom.log" {
		t.Fatalf("unexpected log path: %q", res.LogPath)
	}
}

func TestResolve_SampleSheetMissing(t *testing.T) {
	fx := newFixture(t, "refA_bds123")
	if err := os.Remove(filepath.Join(fx.root, "250101_NB551234_0042_AHXYZ_SampleSheet.csv")); err != nil {
		t.Fatal(err)
	}

	_, err := fx.svc.Resolve(&Request{RunFolder: fx.runPath})
	if !errors.Is(err, samplesheet.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_MalformedExperimentName(t *testing.T) {
	fx := newFixture(t, "noseparator")

	_, err := fx.svc.Resolve(&Request{RunFolder: fx.runPath})
	if !errors.Is(err, samplesheet.ErrExperimentName) {
		t.Fatalf("expected ErrExperimentName, got %v", err)
	}
}

func TestLaunch(t *testing.T) {
	fx := newFixture(t, "refA_bds123")

	res, err := fx.svc.Resolve(&Request{RunFolder: fx.runPath})
	if err != nil {
		t.Fatal(err)
	}

	pid, err := fx.svc.Launch(res)
	if err != nil {
		t.Fatal(err)
	}
	if pid <= 0 {
		t.Fatalf("expected a real pid, got %d", pid)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		data, readErr := os.ReadFile(res.LogPath)
		if readErr == nil && strings.Contains(string(data), "upload started") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("upload log never appeared at %s", res.LogPath)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
