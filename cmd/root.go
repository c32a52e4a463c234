// Package cmd implements the semgraph command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"semgraph/config"
	"semgraph/graph"
	"semgraph/logging"
	"semgraph/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.3.0"

const (
	// interactiveAnnotation marks commands that own the terminal; their logs never go to stderr.
	interactiveAnnotation = "interactive"
	// optionalConfigAnnotation marks commands that run on defaults when --config names a missing file.
	optionalConfigAnnotation = "optional-config"
)

// env is the state every command shares once the persistent flags are applied.
type env struct {
	configPath string
	logLevel   string
	logFile    string

	cfg    *config.Config
	logger *zap.Logger
	flush  func()
}

func (e *env) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if e.configPath != "" {
		cfg, err = config.LoadFile(e.configPath)
		if _, ok := cmd.Annotations[optionalConfigAnnotation]; ok && errors.Is(err, os.ErrNotExist) {
			cfg, err = config.Default(), nil
		}
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = e.logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = e.logFile
	}

	var fallback io.Writer = cmd.ErrOrStderr()
	if _, ok := cmd.Annotations[interactiveAnnotation]; ok {
		fallback = nil
	}
	logger, flush, err := logging.New(cfg.Log, fallback)
	if err != nil {
		return err
	}
	e.cfg, e.logger, e.flush = cfg, logger.Named(cmd.Name()), flush
	return nil
}

func (e *env) close() {
	if e.flush != nil {
		e.flush()
		e.flush = nil
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root, _ := newRootCmd()
	return root
}

func newRootCmd() (*cobra.Command, *env) {
	e := &env{}
	root := &cobra.Command{
		Use:   "semgraph",
		Short: "Lay out and explore semantic file graphs",
		Long: ui.Brand.Sprint("semgraph") + ": force-directed layout for file similarity graphs\n" +
			ui.Subtle.Sprint("View snapshots interactively in the terminal, or settle and export them"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.close()
		},
	}
	root.SetVersionTemplate("semgraph {{ .Version }}\n")
	root.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (default "+config.Path()+")")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&e.logFile, "log-file", "", "append logs to this file")

	root.AddCommand(
		viewCmd(e),
		layoutCmd(e),
		exportCmd(e),
		validateCmd(e),
		configCmd(e),
	)
	return root, e
}

// Execute runs the root command.
func Execute() error {
	root, e := newRootCmd()
	defer e.close()
	err := root.Execute()
	if err != nil {
		ui.Bad.Fprintf(os.Stderr, "semgraph: %v\n", err)
	}
	return err
}

// loadSnapshot reads a snapshot file, or standard input for "-".
func loadSnapshot(cmd *cobra.Command, path string) (graph.Snapshot, error) {
	if path == "-" {
		s, err := graph.Decode(cmd.InOrStdin())
		if err != nil {
			return graph.Snapshot{}, fmt.Errorf("stdin: %w", err)
		}
		return s, nil
	}
	return graph.LoadFile(path)
}

// baseName strips the directory and extension from a snapshot path.
func baseName(path string) string {
	if path == "-" {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
