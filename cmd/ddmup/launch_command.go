package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/seqlab/ddmup/internal/config"
	"github.com/seqlab/ddmup/internal/launcher"
	"github.com/seqlab/ddmup/internal/logging"
	"github.com/seqlab/ddmup/internal/runfolder"
)

func newLaunchCmd() *cobra.Command {
	var (
		configPath      string
		dryRun          bool
		samplesheetRoot string
		nohupLog        string
	)

	cmd := &cobra.Command{
		Use:   "launch <run_folder>",
		Short: "Resolve run metadata and start a detached upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger(logLevel)
			alert := logging.NewSyslogEmitter("ddmup-launch")

			cfgPath := config.ResolvePath(configPath, config.EnvUploadConfig, config.DefaultUploadFile)
			cfg, err := config.LoadUpload(cfgPath)
			if err != nil {
				alert.Emit("error preparing upload: %v", err)
				return err
			}

			svc := launcher.New(cfg, logger)
			res, err := svc.Resolve(&launcher.Request{
				RunFolder:       args[0],
				SamplesheetRoot: samplesheetRoot,
				NohupLog:        nohupLog,
			})
			if err != nil {
				alert.Emit("error preparing upload: %v", err)
				return fmt.Errorf("error preparing upload: %w", err)
			}

			out := cmd.OutOrStdout()
			printResolution(out, res)

			if dryRun {
				fmt.Fprintln(out, "Dry run: upload not started.")
				return nil
			}

			pid, err := svc.Launch(res)
			if err != nil {
				alert.Emit("failed to launch upload: %v", err)
				return fmt.Errorf("failed to launch upload: %w", err)
			}

			fmt.Fprintf(out, "Upload started (PID %d).\n", pid)
			fmt.Fprintf(out, "Output redirected to %s\n", res.LogPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Upload config file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the upload command without executing it")
	cmd.Flags().StringVar(&samplesheetRoot, "samplesheet-root", "", "Override the configured SampleSheet root")
	cmd.Flags().StringVar(&nohupLog, "nohup-log", "", "Path for upload stdout/stderr (defaults to nohup.out in the run folder)")
	return cmd
}

func printResolution(w io.Writer, res *launcher.Resolution) {
	fmt.Fprintf(w, "Run folder: %s\n", res.Run.Path)
	if parts, ok := runfolder.ParseName(res.Run.Name); ok {
		fmt.Fprintf(w, "Run: %s (instrument %s, flowcell %s)\n", res.Run.Name, parts.Instrument, parts.Flowcell)
	} else {
		fmt.Fprintf(w, "Run: %s\n", res.Run.Name)
	}
	fmt.Fprintf(w, "SampleSheet: %s\n", res.SampleSheet)
	fmt.Fprintf(w, "SampleSheet entry: %s\n", res.Experiment.Raw)
	fmt.Fprintf(w, "Reference: %s\n", res.Experiment.Reference)
	fmt.Fprintf(w, "BDS identifier: %s\n", res.Experiment.BDSID)
	fmt.Fprintf(w, "Upload command:\n%s\n", res.Command)
}
