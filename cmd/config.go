package cmd

import (
	"fmt"

	"semgraph/config"
	"semgraph/ui"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

func configCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the semgraph settings file",
	}
	cmd.AddCommand(
		configInitCmd(e),
		configShowCmd(e),
		configPathCmd(e),
	)
	return cmd
}

func configInitCmd(e *env) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the default settings file",
		Annotations: map[string]string{optionalConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := config.Path()
			if e.configPath != "" {
				path = e.configPath
			}

			if force || e.configPath != "" {
				if err := config.SaveFile(path, config.Default()); err != nil {
					return err
				}
				fmt.Fprintf(out, "  %s wrote %s\n", ui.StatusIcon(true), path)
				return nil
			}
			created, err := config.EnsureExists()
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(out, "  %s wrote %s\n", ui.StatusIcon(true), path)
			} else {
				fmt.Fprintf(out, "  %s %s already exists (use --force to overwrite)\n", ui.WarnIcon(), path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func configShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(e.cfg)
		},
	}
}

func configPathCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the settings file path",
		Annotations: map[string]string{optionalConfigAnnotation: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			if e.configPath != "" {
				fmt.Fprintln(cmd.OutOrStdout(), e.configPath)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.Path())
		},
	}
}
