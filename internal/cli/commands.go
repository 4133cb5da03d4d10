package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"merkle-snap/internal/compare"
	"merkle-snap/internal/hash"
	"merkle-snap/internal/snapshot"
	"merkle-snap/internal/tree"
	"merkle-snap/internal/workspace"
)

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Seed the demo files and start the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInteractive()
		},
	}
}

func newTreeCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Snapshot the tracked directory and print its Merkle tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.build(); err != nil {
				return err
			}
			root, _ := a.engine.Snapshot()

			if asJSON {
				data, err := tree.Marshal(root, a.cfg.Algorithm, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, string(data))
				return nil
			}

			fmt.Fprintf(a.out, "Root hash: %s\n", root.Digest)
			fmt.Fprintf(a.out, "Files: %d\n\n", len(root.Children))
			fmt.Fprint(a.out, tree.Render(root))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the snapshot as JSON")
	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the content of every tracked file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showContents()
		},
	}
}

func newWriteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "write <index> <content...>",
		Short: "Overwrite tracked file <index> with new content",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", workspace.ErrInvalidIndex, args[0])
			}
			return a.modify(index, strings.Join(args[1:], " "))
		},
	}
}

func (a *app) build() error {
	if err := a.engine.Build(); err != nil {
		a.logger.Error("build failed", zap.Error(err))
		return fmt.Errorf("failed to build snapshot: %w", err)
	}
	root, _ := a.engine.Snapshot()
	a.logger.Debug("snapshot stored",
		zap.String("root", root.Digest),
		zap.Int("files", len(root.Children)),
	)
	return nil
}

// status diffs the directory against the stored snapshot and prints the report.
func (a *app) status() error {
	report, err := a.engine.Diff()
	if errors.Is(err, snapshot.ErrNoSnapshotAvailable) {
		fmt.Fprintln(a.out, "No previous state found. Build the project first.")
		return nil
	}
	if err != nil {
		a.logger.Error("diff failed", zap.Error(err))
		return fmt.Errorf("failed to check status: %w", err)
	}

	a.logger.Debug("diff complete",
		zap.Int("changes", len(report.Changes)),
		zap.String("stored_root", report.StoredRoot),
		zap.String("current_root", report.CurrentRoot),
	)
	fmt.Fprint(a.out, compare.FormatReportWith(report, a.palette))
	return nil
}

func (a *app) modify(index int, content string) error {
	if err := a.ws.WriteFile(index, content); err != nil {
		a.logger.Warn("write failed", zap.Int("index", index), zap.Error(err))
		return err
	}
	fmt.Fprintf(a.out, "File %s has been modified with new content: %s\n", workspace.FileName(index), content)
	return nil
}

func (a *app) showContents() error {
	contents, err := a.ws.Contents()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "\nCurrent file contents:")
	for i, content := range contents {
		fmt.Fprintf(a.out, "File %d: %s\n", i+1, content)
	}
	return nil
}

func shortRoot(digest string) string {
	return hash.Short(digest, tree.ShortDigestLen)
}
