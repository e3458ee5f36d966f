package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skelly-dev/docmenu/internal/config"
	"github.com/skelly-dev/docmenu/internal/languages"
	"github.com/skelly-dev/docmenu/internal/logger"
	"github.com/skelly-dev/docmenu/internal/persist"
	"github.com/skelly-dev/docmenu/internal/reconcile"
	"github.com/skelly-dev/docmenu/internal/roots"
	"github.com/skelly-dev/docmenu/internal/scan"
	"github.com/skelly-dev/docmenu/internal/state"
	"github.com/skelly-dev/docmenu/internal/topics"
)

// project is one docmenu project with its configuration loaded.
type project struct {
	dir    string
	cfg    *config.Config
	log    *zap.Logger
	roots  *roots.Set
	topics *topics.Registry
	store  *persist.Persistor
}

// buildOptions control a single build.
type buildOptions struct {
	// Force rewrites the menu file even when nothing changed.
	Force bool
	// DryRun reconciles without writing anything.
	DryRun bool
	// Progress reports scanned files, may be nil.
	Progress func(file string, count int)
}

// buildOutcome is what one build produced.
type buildOutcome struct {
	Loaded  *persist.Loaded
	Scanner *scan.Scanner
	Result  *reconcile.Result
	Written bool
}

func openProject(cmd *cobra.Command) (*project, error) {
	dir, err := resolveProjectDirectory(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	level, err := OptionalStringFlag(cmd, "log-level")
	if err != nil {
		return nil, err
	}
	if level != "" {
		cfg.Log.Level = level
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return newProject(dir, cfg, log)
}

func newProject(dir string, cfg *config.Config, log *zap.Logger) (*project, error) {
	set, err := roots.Parse(cfg.Scan.Inputs, dir)
	if err != nil {
		return nil, err
	}

	reg := topics.NewDefaultRegistry()
	for _, name := range cfg.Scan.DisableIndexes {
		if !reg.SetIndex(name, false) {
			return nil, fmt.Errorf("scan.disable_indexes: unknown topic type %q", name)
		}
	}

	return &project{
		dir:    dir,
		cfg:    cfg,
		log:    log,
		roots:  set,
		topics: reg,
		store:  persist.New(cfg.Project.Paths(dir), reg, log),
	}, nil
}

// build runs load, scan, reconcile and save in that order.
func (p *project) build(ctx context.Context, opts buildOptions) (*buildOutcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	loaded, err := p.store.Load()
	if err != nil {
		return nil, err
	}

	cachePath := p.store.Paths().Cache
	cache, err := state.Load(cachePath)
	if err != nil {
		p.log.Warn("ignoring unreadable title cache", zap.String("path", cachePath), zap.Error(err))
		cache = state.NewState()
	}

	p.topics.ResetObservations()
	scanner := scan.New(p.cfg.Scan, p.roots, languages.NewDefaultRegistry(), p.topics, cache, p.log)
	scanner.Progress = opts.Progress
	if err := scanner.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to scan source files: %w", err)
	}

	in := loaded.Input()
	in.Scanner = scanner
	in.Topics = p.topics
	in.Resolver = p.roots
	if opts.Force {
		in.MenuDirty = true
	}

	res, err := reconcile.New(p.cfg.Menu.Options(), p.log).Run(in)
	if err != nil {
		return nil, err
	}

	outcome := &buildOutcome{Loaded: loaded, Scanner: scanner, Result: res}
	if opts.DryRun {
		return outcome, nil
	}

	outcome.Written, err = p.store.Save(res, p.roots.Roots())
	if err != nil {
		return nil, fmt.Errorf("failed to save menu: %w", err)
	}
	if err := scanner.Commit().Save(cachePath); err != nil {
		return nil, fmt.Errorf("failed to save title cache: %w", err)
	}
	return outcome, nil
}

// summarize turns a build outcome into the printed run summary.
func (p *project) summarize(mode string, out *buildOutcome, start time.Time) RunSummary {
	res := out.Result
	summary := RunSummary{
		Mode:          mode,
		RootPath:      p.dir,
		MenuFile:      p.store.Paths().Menu,
		Scanned:       len(out.Scanner.Files()),
		Issues:        len(out.Scanner.Issues()),
		Changed:       res.HasChanged(),
		Written:       out.Written,
		Menu:          res.Summary,
		ActiveIndexes: res.ActiveIndexes(),
		BannedIndexes: res.BannedIndexes(),
		DurationMS:    time.Since(start).Milliseconds(),
	}
	if res.MassRemoval != nil {
		summary.MassRemoval = res.MassRemoval.Error()
	}
	if out.Loaded.SnapshotErr != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("snapshot ignored: %v", out.Loaded.SnapshotErr))
	}
	return summary
}
