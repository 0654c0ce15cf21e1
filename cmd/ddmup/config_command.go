package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/seqlab/ddmup/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
	}

	var configPath string

	showCmd := &cobra.Command{
		Use:       "show <upload|validation>",
		Short:     "Print the effective config as YAML",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"upload", "validation"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				loaded interface{}
				err    error
			)
			switch args[0] {
			case "upload":
				path := config.ResolvePath(configPath, config.EnvUploadConfig, config.DefaultUploadFile)
				loaded, err = config.LoadUpload(path)
			case "validation":
				path := config.ResolvePath(configPath, config.EnvValidationConfig, config.DefaultValidationFile)
				loaded, err = config.LoadValidation(path)
			default:
				return fmt.Errorf("unknown config kind: %s", args[0])
			}
			if err != nil {
				return err
			}

			data, _ := yaml.Marshal(loaded)
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	showCmd.Flags().StringVar(&configPath, "config", "", "Config file to show")

	cmd.AddCommand(showCmd)
	return cmd
}
