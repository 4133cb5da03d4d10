package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"merkle-snap/internal/compare"
	"merkle-snap/internal/walker"
)

func newWatchCommand(a *app) *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Snapshot once, then report changes whenever the directory changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd.Context(), rebuild)
		},
	}
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Take a new snapshot after every report that found changes")
	return cmd
}

// watch runs two goroutines: one forwards filesystem events, the other
// debounces them and diffs. Only the second touches the engine.
func (a *app) watch(ctx context.Context, rebuild bool) error {
	if err := a.build(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(a.cfg.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", a.cfg.Dir, err)
	}

	root, _ := a.engine.Snapshot()
	fmt.Fprintf(a.out, "Watching %s (root %s)\n", a.cfg.Dir, shortRoot(root.Digest))

	g, ctx := errgroup.WithContext(ctx)
	pending := make(chan struct{}, 1)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if walker.Excluded(filepath.Base(event.Name), a.cfg.Exclude) {
					continue
				}
				a.logger.Debug("filesystem event", zap.String("event", event.String()))
				select {
				case pending <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return fmt.Errorf("watcher error: %w", err)
			}
		}
	})

	g.Go(func() error {
		var timer *time.Timer
		var fire <-chan time.Time
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-pending:
				if timer == nil {
					timer = time.NewTimer(a.cfg.WatchDebounce)
				} else {
					timer.Reset(a.cfg.WatchDebounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				if err := a.watchTick(rebuild); err != nil {
					a.logger.Warn("status check failed", zap.Error(err))
					fmt.Fprintln(a.out, a.errorf("Error: %v", err))
				}
			}
		}
	})

	return g.Wait()
}

func (a *app) watchTick(rebuild bool) error {
	report, err := a.engine.Diff()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n[%s] ", time.Now().Format("15:04:05"))
	if !report.HasChanges() {
		fmt.Fprintln(a.out, "No changes detected")
		return nil
	}

	fmt.Fprintf(a.out, "%d change(s): %d new, %d modified, %d removed\n",
		len(report.Changes),
		report.Count(compare.NewFile),
		report.Count(compare.Modified),
		report.Count(compare.Removed),
	)
	for _, change := range report.Changes {
		fmt.Fprintln(a.out, change.Label())
	}

	if rebuild {
		if err := a.build(); err != nil {
			return err
		}
		root, _ := a.engine.Snapshot()
		fmt.Fprintf(a.out, "Snapshot updated (root %s)\n", shortRoot(root.Digest))
	}
	return nil
}
