package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func configCmd(flags *globalFlags) *cobra.Command {
	var showPath bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Long: `Print the configuration after applying the config file, the
REACTIVE_* environment variables and command-line flags.

Examples:
  reactive config
  reactive config --path
  REACTIVE_DEV=1 reactive config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showPath {
				path := cfg.Path()
				if path == "" {
					path = "(defaults)"
				}
				fmt.Fprintln(out, path)
				return nil
			}

			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&showPath, "path", false, "Print only the config file path")

	return cmd
}
