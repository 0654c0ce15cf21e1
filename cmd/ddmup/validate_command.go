package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seqlab/ddmup/internal/config"
	"github.com/seqlab/ddmup/internal/logging"
	"github.com/seqlab/ddmup/internal/validator"
	"github.com/seqlab/ddmup/internal/wrapper"
)

func newValidateCmd() *cobra.Command {
	var (
		configPath string
		format     string
		noLock     bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Probe the upload environment and report pass/fail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger(logLevel)

			cfgPath := config.ResolvePath(configPath, config.EnvValidationConfig, config.DefaultValidationFile)
			cfg, err := config.LoadValidation(cfgPath)
			if err != nil {
				return err
			}

			if !noLock {
				release, err := validator.AcquireLock(cfg.LockFile(cfgPath))
				if err != nil {
					return err
				}
				defer release()
			}

			alert := logging.NewSyslogEmitter("ddmup-validate")
			v := validator.New(cfg, wrapper.ExecRunner{}, logger, alert)
			report := v.Run(cmd.Context())

			report.Render(cmd.OutOrStdout(), format == "plain")
			for _, res := range report.Results {
				if res.Status == validator.StatusFailed {
					fmt.Fprintf(os.Stderr, "validation failed [%s] %s: %s\n", report.ID, res.Check, res.Detail)
				}
			}

			if failed := report.Failed(); failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(report.Results))
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"Validation passed: IAM login confirmed, %d runs listed, pipeline %s available, FASTQ error handling verified.\n",
				cfg.RecentRunsToCheck, cfg.PipelineID)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Validation config file")
	cmd.Flags().StringVar(&format, "format", "auto", "Output format (auto|plain)")
	cmd.Flags().BoolVar(&noLock, "no-lock", false, "Skip the single-instance lock")
	return cmd
}
