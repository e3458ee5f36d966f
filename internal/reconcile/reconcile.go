// Package reconcile brings a menu tree up to date with the files found by
// the scanner.
//
// A run starts from the tree parsed from the menu file and the tree stored
// in the previous snapshot. It applies a fixed sequence of passes that add
// new files, drop deleted ones, maintain generated indexes, regroup and
// resort where the existing order allows it, and regenerate titles the
// user has not taken ownership of. The result reports whether anything
// observable changed so callers can skip writing when nothing did.
package reconcile

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/skelly-dev/docmenu/internal/indexes"
	"github.com/skelly-dev/docmenu/internal/menu"
	"github.com/skelly-dev/docmenu/internal/roots"
	"github.com/skelly-dev/docmenu/internal/snapshot"
	"github.com/skelly-dev/docmenu/internal/topics"
)

// Scanner reports the source files of the current build.
type Scanner interface {
	// Files returns the identity of every documented file.
	Files() []string
	// DefaultTitle returns the title derived from the file's content.
	DefaultTitle(target string) string
	// DefaultTitleChanged reports whether DefaultTitle differs from the
	// previous build.
	DefaultTitleChanged(target string) bool
}

// Topics decides which topic types exist and which get an index.
type Topics interface {
	Lookup(name string) (topics.Type, bool)
	IsValidType(name string) bool
	IsIndexable(name string) bool
	AllIndexableTypes() []string
}

// Resolver converts file targets to their current identity.
type Resolver interface {
	Canonical(target string, previous []roots.Root) (string, bool)
}

// Options are the policy constants of a run.
type Options struct {
	// MinFilesInNewGroup is how many new files from one directory it takes
	// to create a group for them. Zero never creates one.
	MinFilesInNewGroup int
	// MaxFilesInGroup is the number of direct files above which a group that
	// received new files is split by directory. Zero disables splitting.
	MaxFilesInGroup int
	// RemovalRatio and RemovalMinimum define a mass removal: at least
	// RemovalMinimum files removed and more than RemovalRatio of the
	// previously tracked files.
	RemovalRatio   float64
	RemovalMinimum int
	// FailOnMassRemoval turns the mass removal warning into an error.
	FailOnMassRemoval bool

	Now      func() time.Time
	Location *time.Location
}

func DefaultOptions() Options {
	return Options{
		MinFilesInNewGroup: 3,
		MaxFilesInGroup:    10,
		RemovalRatio:       0.5,
		RemovalMinimum:     10,
		Now:                time.Now,
		Location:           time.Local,
	}
}

// Input is everything a run reads.
type Input struct {
	// Menu is the tree parsed from the menu file. It is modified in place.
	// Nil means an empty menu.
	Menu *menu.Menu
	// MenuExists is false when there was no menu file to parse.
	MenuExists bool
	// MenuDirty forces a rewrite of the menu file.
	MenuDirty   bool
	MenuModTime time.Time
	// Banned are the topic types listed in "Don't Index".
	Banned []string
	// DataRoots is the root layout the menu file was written with.
	DataRoots []roots.Root

	// Previous is the decoded snapshot, nil when there is none or it was
	// unreadable.
	Previous        *snapshot.Snapshot
	PreviousModTime time.Time

	Scanner  Scanner
	Topics   Topics
	Resolver Resolver
}

// Reconciler runs reconciliation passes with fixed options.
type Reconciler struct {
	opts Options
	log  *zap.Logger
}

func New(opts Options, log *zap.Logger) *Reconciler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{opts: opts, log: log}
}

// run is the state of one reconciliation.
type run struct {
	opts Options
	log  *zap.Logger
	in   Input

	menu     *menu.Menu
	root     *menu.Entry
	registry *indexes.Registry

	scanned   map[string]bool
	prevFiles map[string]*menu.Entry

	collate *collator

	changed bool
	summary Summary

	trackedBefore int
	massRemoval   *MassRemovalError

	indexGroup  *menu.Entry
	indexParent *menu.Entry
	created     map[*menu.Entry]bool
}

type pass struct {
	name string
	fn   func(*run) error
}

// passes run in this order; each relies on the state left by the ones
// before it.
var passes = []pass{
	{"resolve targets", (*run).resolveTargets},
	{"timestamp rollover", (*run).detectDayRollover},
	{"lock edited titles", (*run).lockEditedTitles},
	{"flag titles", (*run).flagTitles},
	{"place new files", (*run).placeNewFiles},
	{"remove dead files", (*run).removeDeadFiles},
	{"removal safety", (*run).checkRemovalSafety},
	{"ban indexes", (*run).banIndexes},
	{"detect index groups", (*run).detectIndexGroups},
	{"update indexes", (*run).updateIndexes},
	{"prune groups", (*run).pruneEmptyGroups},
	{"split groups", (*run).splitOversizedGroups},
	{"detect sort order", (*run).detectSortOrder},
	{"generate titles", (*run).generateTitles},
	{"sort groups", (*run).sortGroups},
}

// Run reconciles in.Menu against the scan. The only error it returns is a
// *MassRemovalError when Options.FailOnMassRemoval is set.
func (r *Reconciler) Run(in Input) (*Result, error) {
	st := r.newRun(in)
	for _, p := range passes {
		before := st.changed
		if err := p.fn(st); err != nil {
			return nil, err
		}
		st.log.Debug("pass complete",
			zap.String("pass", p.name),
			zap.Bool("changed", st.changed && !before),
		)
	}
	st.finish()

	return &Result{
		menu:        st.menu,
		registry:    st.registry,
		changed:     st.changed,
		Summary:     st.summary,
		MassRemoval: st.massRemoval,
	}, nil
}

func (r *Reconciler) newRun(in Input) *run {
	m := in.Menu
	if m == nil {
		m = menu.New()
	}
	st := &run{
		opts:     r.opts,
		log:      r.log,
		in:       in,
		menu:     m,
		root:     m.Root,
		registry: indexes.New(),
		collate:  newCollator(),
		scanned:  make(map[string]bool),
		created:  make(map[*menu.Entry]bool),
	}
	if in.Scanner != nil {
		for _, f := range in.Scanner.Files() {
			st.scanned[f] = true
		}
	}
	for _, topic := range in.Banned {
		st.registry.Ban(topic)
	}

	st.prevFiles = make(map[string]*menu.Entry)
	if in.Previous != nil {
		st.registry.SetPrevious(in.Previous.Indexes)
		for target, e := range in.Previous.Files {
			st.prevFiles[st.canonical(target)] = e
		}
	}

	switch {
	case in.Previous == nil:
		st.markChanged("no previous state")
	case in.MenuDirty:
		st.markChanged("menu file needs rewriting")
	case !in.MenuExists:
		st.markChanged("menu file missing")
	}
	return st
}

func (st *run) markChanged(reason string) {
	if !st.changed {
		st.log.Debug("menu changed", zap.String("reason", reason))
	}
	st.changed = true
}

func (st *run) canonical(target string) string {
	if st.in.Resolver == nil {
		return target
	}
	if id, ok := st.in.Resolver.Canonical(target, st.in.DataRoots); ok {
		return id
	}
	return target
}

func (st *run) finish() {
	if st.in.Previous != nil && !menu.Equal(st.root, st.in.Previous.Root) {
		st.markChanged("tree differs from snapshot")
	}
	menu.ClearTransient(st.root)

	active := make([]string, 0)
	for topic := range menu.IndexTopics(st.root) {
		active = append(active, topic)
	}
	sort.Strings(active)
	st.registry.SetActive(active)
}

// removeWhere deletes every entry below group for which drop returns true,
// visiting entries depth first in menu order. Children of a dropped group
// are not visited.
func removeWhere(group *menu.Entry, drop func(e, parent *menu.Entry) bool) int {
	removed := 0
	kept := group.Children[:0]
	for _, child := range group.Children {
		if drop(child, group) {
			removed++
			continue
		}
		if child.IsGroup() {
			removed += removeWhere(child, drop)
		}
		kept = append(kept, child)
	}
	for i := len(kept); i < len(group.Children); i++ {
		group.Children[i] = nil
	}
	group.Children = kept
	return removed
}

// Config is the menu policy section of the configuration file.
type Config struct {
	MinFilesInNewGroup int     `mapstructure:"min_files_in_new_group" default:"3"`
	MaxFilesInGroup    int     `mapstructure:"max_files_in_group" default:"10"`
	RemovalRatio       float64 `mapstructure:"removal_ratio" default:"0.5"`
	RemovalMinimum     int     `mapstructure:"removal_minimum" default:"10"`
	FailOnMassRemoval  bool    `mapstructure:"fail_on_mass_removal" default:"false"`
}

// Options converts the configuration into run options.
func (c Config) Options() Options {
	opts := DefaultOptions()
	opts.MinFilesInNewGroup = c.MinFilesInNewGroup
	opts.MaxFilesInGroup = c.MaxFilesInGroup
	opts.RemovalRatio = c.RemovalRatio
	opts.RemovalMinimum = c.RemovalMinimum
	opts.FailOnMassRemoval = c.FailOnMassRemoval
	return opts
}
