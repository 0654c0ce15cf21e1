package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/seqlab/ddmup/internal/config"
	"github.com/seqlab/ddmup/internal/deps"
	"github.com/seqlab/ddmup/internal/logging"
)

func newDoctorCmd() *cobra.Command {
	var (
		uploadConfigPath     string
		validationConfigPath string
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check local preconditions without invoking the wrapper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger(logLevel)
			out := cmd.OutOrStdout()

			uploadPath := config.ResolvePath(uploadConfigPath, config.EnvUploadConfig, config.DefaultUploadFile)
			uploadCfg, err := config.LoadUpload(uploadPath)
			if err != nil {
				return err
			}
			requirements := deps.ForUpload(uploadCfg)

			validationPath := config.ResolvePath(validationConfigPath, config.EnvValidationConfig, config.DefaultValidationFile)
			if validationCfg, err := config.LoadValidation(validationPath); err == nil {
				requirements = append(requirements, deps.ForValidation(validationCfg)...)
			} else {
				logger.Warn("validation config skipped: %v", err)
			}

			statuses := deps.Check(requirements)
			printStatuses(out, statuses)

			if missing := deps.MissingRequired(statuses); missing > 0 {
				return fmt.Errorf("%d required item(s) missing", missing)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&uploadConfigPath, "config", "", "Upload config file")
	cmd.Flags().StringVar(&validationConfigPath, "validation-config", "", "Validation config file")
	return cmd
}

func printStatuses(w io.Writer, statuses []deps.Status) {
	for _, s := range statuses {
		mark := "ok"
		detail := s.Path
		if !s.Available {
			mark = "MISSING"
			detail = s.Detail
			if s.Optional {
				mark = "missing (optional)"
			}
		}
		fmt.Fprintf(w, "%-24s %-18s %s\n", s.Name, mark, detail)
	}
}
