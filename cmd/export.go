package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"semgraph/export"
	"semgraph/graph"
	"semgraph/ui"
	"semgraph/viewer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type exportResult struct {
	Input   string
	Output  string
	Ticks   int
	Err     error
	Elapsed time.Duration
}

func exportCmd(e *env) *cobra.Command {
	var (
		format string
		outDir string
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "export <snapshot.json>...",
		Short: "Settle snapshots and write them as SVG or JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = e.cfg.Export.Format
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("jobs") {
				jobs = e.cfg.Export.Jobs
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			results := runExports(cmd.Context(), e, args, f, outDir, jobs)

			out := cmd.OutOrStdout()
			ui.Banner(out, "export "+string(f))
			rows := make([][]string, 0, len(results))
			failed := 0
			for _, r := range results {
				status := ui.StatusIcon(r.Err == nil)
				detail := fmt.Sprintf("%s (%d ticks, %.1fs)", r.Output, r.Ticks, r.Elapsed.Seconds())
				if r.Err != nil {
					failed++
					detail = ui.Bad.Sprint(r.Err.Error())
				}
				rows = append(rows, []string{status, r.Input, detail})
			}
			ui.Table(out, []string{"", "INPUT", "OUTPUT"}, rows)

			if failed > 0 {
				return fmt.Errorf("%d of %d exports failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg or json")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory for the exported files")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "snapshots laid out in parallel")
	return cmd
}

// runExports lays out and writes every input concurrently, each with its own viewer.
// Results keep the order of inputs; one failure does not stop the others.
func runExports(ctx context.Context, e *env, inputs []string, format export.Format, outDir string, jobs int) []exportResult {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]exportResult, len(inputs))
	var mu sync.Mutex

	ext := "." + string(format)
	if exp, err := export.NewExporter(format); err == nil {
		ext = exp.Extension()
	}
	outputs := outputPaths(inputs, outDir, ext)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			start := time.Now()
			r := exportOne(ctx, e, in, format, outputs[i])
			r.Elapsed = time.Since(start)

			mu.Lock()
			results[i] = r
			mu.Unlock()
			if r.Err != nil {
				e.logger.Warn("export failed", zap.String("input", in), zap.Error(r.Err))
			} else {
				e.logger.Info("exported", zap.String("input", in), zap.String("output", r.Output), zap.Int("ticks", r.Ticks))
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// outputPaths names one file per input in outDir. Inputs sharing a base name get a
// numeric suffix so that no two workers write the same file.
func outputPaths(inputs []string, outDir, ext string) []string {
	used := make(map[string]bool, len(inputs))
	paths := make([]string, len(inputs))
	for i, in := range inputs {
		base := baseName(in)
		name := base
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		used[name] = true
		paths[i] = filepath.Join(outDir, name+ext)
	}
	return paths
}

func exportOne(ctx context.Context, e *env, input string, format export.Format, output string) exportResult {
	res := exportResult{Input: input}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if input == "-" {
		res.Err = errors.New("export reads files only")
		return res
	}

	exp, err := export.NewExporter(format)
	if err != nil {
		res.Err = err
		return res
	}
	s, err := graph.LoadFile(input)
	if err != nil {
		res.Err = err
		return res
	}

	v := viewer.New(e.cfg.Viewer(), viewer.Events{}, e.logger.With(zap.String("input", input)))
	v.LoadGraph(s)
	res.Ticks = v.Settle(e.cfg.Export.MaxTicks)

	res.Output = output
	f, err := os.Create(res.Output)
	if err != nil {
		res.Err = err
		return res
	}
	if err := exp.Export(v.Current(), f); err != nil {
		f.Close()
		res.Err = err
		return res
	}
	res.Err = f.Close()
	return res
}
