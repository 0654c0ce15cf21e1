// Package launcher resolves a run folder to its upload command and starts
// the upload as a detached background process.
package launcher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/seqlab/ddmup/internal/config"
	"github.com/seqlab/ddmup/internal/logging"
	"github.com/seqlab/ddmup/internal/runfolder"
	"github.com/seqlab/ddmup/internal/samplesheet"
	"github.com/seqlab/ddmup/internal/wrapper"
)

// DefaultLogName is the upload log written inside the run folder when no
// override is given.
const DefaultLogName = "nohup.out"

// Request carries the operator's inputs for one launch.
type Request struct {
	RunFolder       string
	SamplesheetRoot string // overrides the configured root when set
	NohupLog        string // overrides <run folder>/nohup.out when set
}

// Resolution is everything needed to start an upload. Producing one has no
// side effects; dry-run stops here.
type Resolution struct {
	Run         *runfolder.RunFolder
	SampleSheet string
	Experiment  *samplesheet.Experiment
	Command     wrapper.Command
	LogPath     string
}

type Service struct {
	cfg    *config.UploadConfig
	logger *logging.Logger
}

func New(cfg *config.UploadConfig, logger *logging.Logger) *Service {
	return &Service{cfg: cfg, logger: logger}
}

// Resolve locates the run's SampleSheet, extracts the experiment
// identifiers, and validates every precondition for the upload. Any failure
// here means no process is ever spawned.
func (s *Service) Resolve(req *Request) (*Resolution, error) {
	run, err := runfolder.Resolve(req.RunFolder)
	if err != nil {
		return nil, err
	}

	root := req.SamplesheetRoot
	if root == "" {
		root = s.cfg.SamplesheetsRoot
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("samplesheet root not found: %s", root)
	}

	sheet, err := samplesheet.Locate(root, run.Name)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("samplesheet for run %s: %s", run.Name, sheet)

	exp, err := samplesheet.ReadExperiment(sheet)
	if err != nil {
		return nil, err
	}

	if err := run.CheckBaseCalls(); err != nil {
		return nil, err
	}
	if err := wrapper.CheckPresent(s.cfg.WrapperPath); err != nil {
		return nil, err
	}

	logPath := req.NohupLog
	if logPath == "" {
		logPath = filepath.Join(run.Path, DefaultLogName)
	}

	return &Resolution{
		Run:         run,
		SampleSheet: sheet,
		Experiment:  exp,
		Command:     wrapper.NewUpload(s.cfg.WrapperPath, run.BaseCalls(), exp.Reference, s.cfg.PipelineID, true),
		LogPath:     logPath,
	}, nil
}

// Launch spawns the resolved upload detached from this process and returns
// the child PID. The exit status of the upload itself is never observed.
func (s *Service) Launch(res *Resolution) (int, error) {
	pid, err := wrapper.StartDetached(res.Command, res.Run.Path, res.LogPath)
	if err != nil {
		return 0, err
	}
	s.logger.Info("upload for run %s started, pid=%d log=%s", res.Run.Name, pid, res.LogPath)
	return pid, nil
}
