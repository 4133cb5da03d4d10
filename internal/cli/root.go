// Package cli is the command-line front end: it owns every prompt and all
// user-facing text, and drives the snapshot engine and workspace helper.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"merkle-snap/internal/compare"
	"merkle-snap/internal/config"
	"merkle-snap/internal/fsys"
	"merkle-snap/internal/hash"
	"merkle-snap/internal/logging"
	"merkle-snap/internal/snapshot"
	"merkle-snap/internal/workspace"
)

type app struct {
	in  io.Reader
	out io.Writer

	cfg     *config.Config
	logger  *logging.Logger
	ws      *workspace.Workspace
	engine  *snapshot.Engine
	palette compare.Palette
	errorf  func(format string, a ...any) string
}

type rootOptions struct {
	configPath string
	dir        string
	logLevel   string
	files      int
}

// NewRootCommand builds the command tree reading from in and writing to out.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "merkle-snap",
		Short: "Snapshot a directory as a Merkle tree and report what changed",
		Long: `merkle-snap hashes every file of a flat directory, arranges the digests
into a Merkle tree and keeps that tree in memory as the last known state.
Checking status rescans the directory and reports new and modified files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInteractive()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "merkle-snap.yaml", "Config file path")
	flags.StringVarP(&opts.dir, "dir", "d", "", "Tracked directory (overrides config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flags.IntVarP(&opts.files, "files", "n", 0, "Number of tracked demo files (overrides config)")

	rootCmd.SetIn(in)
	rootCmd.SetOut(out)

	rootCmd.AddCommand(
		newRunCommand(a),
		newTreeCommand(a),
		newShowCommand(a),
		newWriteCommand(a),
		newWatchCommand(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir = opts.dir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("files") {
		cfg.FileCount = opts.files
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	digest, err := hash.New(cfg.Algorithm)
	if err != nil {
		return err
	}

	fs := fsys.NewOSFS()
	a.cfg = cfg
	a.logger = logger.WithDir(cfg.Dir)
	a.ws = workspace.New(fs, cfg.Dir, cfg.FileCount)
	a.engine = snapshot.New(fs, cfg.Dir,
		snapshot.WithHasher(digest),
		snapshot.WithExclusions(cfg.Exclude),
		snapshot.WithRemovals(cfg.ReportRemoved),
	)
	a.palette = compare.Palette{
		New:      color.New(color.FgGreen).SprintFunc(),
		Modified: color.New(color.FgYellow).SprintFunc(),
		Removed:  color.New(color.FgRed).SprintFunc(),
		Header:   color.New(color.FgCyan, color.Bold).SprintFunc(),
	}
	a.errorf = color.New(color.FgRed).SprintfFunc()

	a.logger.Debug("configuration loaded",
		zap.String("config", opts.configPath),
		zap.String("algorithm", cfg.Algorithm),
		zap.Int("files", cfg.FileCount),
		zap.Strings("exclude", cfg.Exclude),
		zap.Bool("report_removed", cfg.ReportRemoved),
	)
	return nil
}

// Execute runs the command tree against the process's standard streams.
// Cancelling ctx stops long-running commands such as watch.
func Execute(ctx context.Context) int {
	rootCmd := NewRootCommand(os.Stdin, os.Stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
