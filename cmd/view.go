package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"semgraph/terminal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func viewCmd(e *env) *cobra.Command {
	var (
		mode string
		fps  int
	)

	cmd := &cobra.Command{
		Use:         "view <snapshot.json>",
		Short:       "Explore a snapshot in the terminal",
		Long:        "Open an interactive force layout of the snapshot. Drag nodes with the mouse, scroll to zoom,\npress / to search, 1-9 to highlight a cluster and q to quit.",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{interactiveAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSnapshot(cmd, args[0])
			if err != nil {
				return err
			}

			tcfg := e.cfg.Terminal
			if cmd.Flags().Changed("mode") {
				tcfg.Mode = mode
			}
			if cmd.Flags().Changed("fps") {
				tcfg.FPS = fps
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			app, err := terminal.New(screen, tcfg, e.cfg.Viewer(), e.logger)
			if err != nil {
				return err
			}
			if issues := app.Load(s); len(issues) > 0 {
				e.logger.Warn("snapshot sanitized", zap.Int("issues", len(issues)))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "glyph set: ascii or unicode (default: detect)")
	cmd.Flags().IntVar(&fps, "fps", 0, "frames per second")
	return cmd
}
