package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skelly-dev/docmenu/internal/ignore"
	"github.com/skelly-dev/docmenu/internal/persist"
)

const defaultDebounce = 500 * time.Millisecond

func RunWatch(cmd *cobra.Command, args []string) error {
	delay, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	if delay <= 0 {
		delay = defaultDebounce
	}

	p, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = p.log.Sync() }()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	w := &treeWatcher{watcher: watcher, project: p}
	if err := w.addRoots(); err != nil {
		return err
	}

	rebuild := func() error {
		start := time.Now()
		out, err := p.build(ctx, buildOptions{})
		if err != nil {
			return err
		}
		return PrintRunSummary(p.summarize("watch", out, start), false)
	}
	if err := rebuild(); err != nil {
		return err
	}

	fmt.Printf("Watching %d input root(s), press Ctrl+C to stop\n", len(p.roots.Roots()))
	return watchLoop(ctx, w.events(ctx), watcher.Errors, delay, rebuild, p.log)
}

// treeWatcher registers every non-ignored directory below the input roots
// plus the menu directory, and follows directories created later.
type treeWatcher struct {
	watcher *fsnotify.Watcher
	project *project
}

func (w *treeWatcher) addRoots() error {
	for _, r := range w.project.roots.Roots() {
		if err := w.addTree(r.Path); err != nil {
			return err
		}
	}
	dir := w.project.store.Paths().Dir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return w.watcher.Add(dir)
}

func (w *treeWatcher) addTree(root string) error {
	rules, err := ignore.ReadRules(filepath.Join(root, w.project.cfg.Scan.IgnoreFile))
	if err != nil {
		return err
	}
	matcher := ignore.NewMatcher(rules)

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && rel != "." && matcher.ShouldIgnore(filepath.ToSlash(rel), true) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// events forwards the watcher's events that can change the menu.
func (w *treeWatcher) events(ctx context.Context) <-chan fsnotify.Event {
	out := make(chan fsnotify.Event)
	paths := w.project.store.Paths()
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Create) {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						if err := w.addTree(ev.Name); err != nil {
							w.project.log.Warn("failed to watch new directory", zap.String("path", ev.Name), zap.Error(err))
						}
					}
				}
				if !relevantEvent(ev, paths) {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// relevantEvent drops chmod-only events and anything docmenu writes into its
// own directory. Menu file events count only when the menu is newer than
// the snapshot; a save writes the snapshot last, so its own rename of the
// menu file is skipped.
func relevantEvent(ev fsnotify.Event, paths persist.Paths) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if filepath.Clean(ev.Name) == filepath.Clean(paths.Menu) {
		return menuEditedSinceSave(paths)
	}
	rel, err := filepath.Rel(paths.Dir, ev.Name)
	if err != nil {
		return true
	}
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func menuEditedSinceSave(paths persist.Paths) bool {
	menuInfo, err := os.Stat(paths.Menu)
	if err != nil {
		return true
	}
	snapInfo, err := os.Stat(paths.Snapshot)
	if err != nil {
		return true
	}
	return menuInfo.ModTime().After(snapInfo.ModTime())
}

// watchLoop waits for a quiet period of delay after the last event and then
// runs rebuild. Rebuilds never overlap. A failed rebuild is logged and the
// loop keeps watching.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, delay time.Duration, rebuild func() error, log *zap.Logger) error {
	timer := time.NewTimer(delay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			log.Debug("change detected", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(delay)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			log.Warn("file watcher error", zap.Error(err))

		case <-timer.C:
			if err := rebuild(); err != nil {
				log.Error("rebuild failed", zap.Error(err))
			}
		}
	}
}
