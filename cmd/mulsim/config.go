package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration or write it to a file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if path := GetString(cmd, "write"); path != "" {
				if err := config.SaveConfig(path); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(config)
		},
	}

	cmd.Flags().StringP("write", "w", "", "write the configuration to this path")

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in scenarios.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			programs, err := selectPrograms(nil, nil)
			if err != nil {
				return err
			}
			for _, p := range programs {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-18s %5d cycles  %s\n",
					p.Name, p.Cycles(), p.Description)
			}
			return nil
		},
	}
}
