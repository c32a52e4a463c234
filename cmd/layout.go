package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"semgraph/viewer"

	"github.com/spf13/cobra"
)

type positionRecord struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

type layoutResult struct {
	Ticks  int              `json:"ticks"`
	Alpha  float64          `json:"alpha"`
	AtRest bool             `json:"at_rest"`
	Nodes  []positionRecord `json:"nodes"`
	Edges  int              `json:"edges"`
	Issues int              `json:"issues"`
}

func layoutCmd(e *env) *cobra.Command {
	var (
		maxTicks int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "layout <snapshot.json>",
		Short: "Settle a snapshot and print node positions as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSnapshot(cmd, args[0])
			if err != nil {
				return err
			}

			v := viewer.New(e.cfg.Viewer(), viewer.Events{}, e.logger)
			issues := v.LoadGraph(s)
			ticks := v.Settle(maxTicks)
			eng := v.Engine()

			res := layoutResult{
				Ticks:  ticks,
				Alpha:  eng.Alpha(),
				AtRest: eng.AtRest(),
				Edges:  len(eng.Edges()),
				Issues: len(issues),
				Nodes:  make([]positionRecord, 0, eng.Len()),
			}
			for _, b := range eng.Bodies() {
				res.Nodes = append(res.Nodes, positionRecord{ID: b.ID, X: b.Position.X, Y: b.Position.Y, Radius: b.Radius})
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("write positions: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "stop after this many ticks (default: until rest)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
