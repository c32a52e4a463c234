package cmd

import (
	"fmt"
	"sort"

	"semgraph/ui"
	"semgraph/validation"

	"github.com/spf13/cobra"
)

func validateCmd(e *env) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <snapshot.json>",
		Short: "Report what sanitizing would drop or patch in a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSnapshot(cmd, args[0])
			if err != nil {
				return err
			}
			clean, issues := validation.New(e.logger).Sanitize(s)
			out := cmd.OutOrStdout()

			summary := fmt.Sprintf("%d nodes, %d edges, %d clusters", len(clean.Nodes), len(clean.Edges), len(clean.Clusters))
			if len(issues) == 0 {
				fmt.Fprintf(out, "  %s snapshot is clean (%s)\n", ui.StatusIcon(true), summary)
				return nil
			}

			rows := make([][]string, len(issues))
			dropped := 0
			for i, is := range issues {
				action := "patched"
				if is.Kind.Dropped() {
					action = "dropped"
					dropped++
				}
				rows[i] = []string{is.Kind.String(), action, is.Subject, is.Message}
			}
			ui.Table(out, []string{"KIND", "ACTION", "SUBJECT", "DETAIL"}, rows)

			counts := validation.Count(issues)
			kinds := make([]validation.Kind, 0, len(counts))
			for k := range counts {
				kinds = append(kinds, k)
			}
			sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
			fmt.Fprintln(out)
			for _, k := range kinds {
				fmt.Fprintf(out, "  %s %s: %d\n", ui.WarnIcon(), k, counts[k])
			}
			fmt.Fprintf(out, "  kept %s\n", summary)

			if strict {
				return fmt.Errorf("%d issues, %d elements dropped", len(issues), dropped)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any issue is found")
	return cmd
}
