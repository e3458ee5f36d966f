// Package persist loads the menu file and snapshot before a build and
// writes them back afterwards when the build changed something.
package persist

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/skelly-dev/docmenu/internal/fileutil"
	"github.com/skelly-dev/docmenu/internal/menufile"
	"github.com/skelly-dev/docmenu/internal/reconcile"
	"github.com/skelly-dev/docmenu/internal/roots"
	"github.com/skelly-dev/docmenu/internal/snapshot"
	"github.com/skelly-dev/docmenu/internal/topics"
)

// Config holds the locations of the files docmenu maintains, relative to
// the project root.
type Config struct {
	Dir          string `mapstructure:"dir" default:".docmenu"`
	MenuFile     string `mapstructure:"menu_file" default:"menu.txt"`
	SnapshotFile string `mapstructure:"snapshot_file" default:"menu.state"`
	CacheFile    string `mapstructure:"cache_file" default:"titles.db"`
}

// Paths are the absolute file locations for one project.
type Paths struct {
	Dir      string
	Menu     string
	Snapshot string
	Cache    string
}

// Paths resolves the configured names against the project root.
func (c Config) Paths(root string) Paths {
	dir := c.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return Paths{
		Dir:      dir,
		Menu:     filepath.Join(dir, c.MenuFile),
		Snapshot: filepath.Join(dir, c.SnapshotFile),
		Cache:    filepath.Join(dir, c.CacheFile),
	}
}

// Topics is what both codecs need to resolve topic types.
type Topics interface {
	Lookup(name string) (topics.Type, bool)
	FromLegacyCode(code int) (topics.Type, bool)
}

// Loaded is the on-disk state before a build.
type Loaded struct {
	Document    *menufile.Document
	MenuExists  bool
	MenuModTime time.Time

	Previous        *snapshot.Snapshot
	PreviousModTime time.Time
	// SnapshotErr is set when a snapshot existed but could not be used.
	SnapshotErr error
}

// Input returns the reconciliation input for the loaded state. The caller
// fills in the scanner, topics and resolver.
func (l *Loaded) Input() reconcile.Input {
	return reconcile.Input{
		Menu:            l.Document.Menu,
		MenuExists:      l.MenuExists,
		MenuDirty:       l.Document.Dirty,
		MenuModTime:     l.MenuModTime,
		Banned:          l.Document.Banned,
		DataRoots:       l.Document.Roots,
		Previous:        l.Previous,
		PreviousModTime: l.PreviousModTime,
	}
}

// Persistor reads and writes the menu file and snapshot of one project.
type Persistor struct {
	paths  Paths
	topics Topics
	log    *zap.Logger
}

func New(paths Paths, t Topics, log *zap.Logger) *Persistor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Persistor{paths: paths, topics: t, log: log}
}

func (p *Persistor) Paths() Paths { return p.paths }

// Load reads both files. A missing menu file yields an empty document. A
// missing or unreadable snapshot yields no previous state; only a menu
// file that cannot be read or parsed is an error.
func (p *Persistor) Load() (*Loaded, error) {
	loaded := &Loaded{}

	data, modTime, err := readFile(p.paths.Menu)
	switch {
	case errors.Is(err, os.ErrNotExist):
		loaded.Document = menufile.NewDocument()
	case err != nil:
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	default:
		doc, err := menufile.Parse(bytes.NewReader(data), p.topics)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", p.paths.Menu, err)
		}
		loaded.Document = doc
		loaded.MenuExists = true
		loaded.MenuModTime = modTime
	}

	data, modTime, err = readFile(p.paths.Snapshot)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		loaded.SnapshotErr = err
	default:
		snap, err := snapshot.Decode(data, p.topics)
		if err != nil {
			loaded.SnapshotErr = err
		} else {
			loaded.Previous = snap
			loaded.PreviousModTime = modTime
		}
	}
	if loaded.SnapshotErr != nil {
		p.log.Warn("ignoring unreadable snapshot; rebuilding menu state",
			zap.String("path", p.paths.Snapshot),
			zap.Error(loaded.SnapshotErr),
		)
	}
	return loaded, nil
}

func readFile(path string) ([]byte, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	return data, info.ModTime(), nil
}

// Save writes the menu file and then the snapshot if res reports a change.
// It returns whether anything was written.
func (p *Persistor) Save(res *reconcile.Result, dataRoots []roots.Root) (bool, error) {
	if !res.HasChanged() {
		p.log.Debug("menu unchanged; skipping save")
		return false, nil
	}

	doc := &menufile.Document{
		Menu:    res.Menu(),
		Version: menufile.CurrentVersion,
		Banned:  res.BannedIndexes(),
	}
	text, err := menufile.Marshal(doc, p.topics, dataRoots)
	if err != nil {
		return false, fmt.Errorf("failed to render menu file: %w", err)
	}
	state, err := snapshot.Encode(res.Menu().Root, p.topics)
	if err != nil {
		return false, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := fileutil.WriteAtomic(p.paths.Menu, text, 0644); err != nil {
		return false, err
	}
	if err := fileutil.WriteAtomic(p.paths.Snapshot, state, 0644); err != nil {
		return false, err
	}
	p.log.Debug("saved menu",
		zap.String("menu", p.paths.Menu),
		zap.String("snapshot", p.paths.Snapshot),
		zap.Int("menu_bytes", len(text)),
		zap.Int("snapshot_bytes", len(state)),
	)
	return true, nil
}
