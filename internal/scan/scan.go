// Package scan discovers the documented source files of every input root
// and derives their default menu titles and topic types.
package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/skelly-dev/docmenu/internal/fileutil"
	"github.com/skelly-dev/docmenu/internal/ignore"
	"github.com/skelly-dev/docmenu/internal/parser"
	"github.com/skelly-dev/docmenu/internal/roots"
	"github.com/skelly-dev/docmenu/internal/state"
)

// FileTopic is reported for every documented file.
const FileTopic = "file"

// Config holds the input directories and scanner settings.
type Config struct {
	// Inputs are "name=path" or bare "path" input roots.
	Inputs []string `mapstructure:"inputs" default:"."`
	// IgnoreFile is read from the top of every input root.
	IgnoreFile string `mapstructure:"ignore_file" default:".docmenuignore"`
	// DisableIndexes lists topic types that never get an index.
	DisableIndexes []string `mapstructure:"disable_indexes" default:""`
}

// Observer receives the topic types found in scanned files.
type Observer interface {
	Observe(name string)
}

// File is one scanned source file.
type File struct {
	Identity     string   `json:"identity"`
	Root         string   `json:"root"`
	Language     string   `json:"language"`
	Hash         string   `json:"hash"`
	Title        string   `json:"title"`
	Topics       []string `json:"topics,omitempty"`
	TitleChanged bool     `json:"title_changed,omitempty"`
}

// Scanner walks the input roots once per build. It satisfies the scanner
// interface of the reconciler.
type Scanner struct {
	cfg      Config
	roots    *roots.Set
	registry *parser.Registry
	topics   Observer
	cache    *state.State
	log      *zap.Logger

	// Progress, when set, is called after each scanned file with the
	// running count.
	Progress func(file string, count int)

	files  map[string]*File
	issues []parser.ParseIssue
}

func New(cfg Config, set *roots.Set, registry *parser.Registry, topics Observer, cache *state.State, log *zap.Logger) *Scanner {
	if cache == nil {
		cache = state.NewState()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{
		cfg:      cfg,
		roots:    set,
		registry: registry,
		topics:   topics,
		cache:    cache,
		log:      log,
		files:    make(map[string]*File),
	}
}

// Scan walks every root and replaces the results of any earlier scan.
func (s *Scanner) Scan(ctx context.Context) error {
	s.files = make(map[string]*File)
	s.issues = nil

	for _, root := range s.roots.Roots() {
		if err := ctx.Err(); err != nil {
			return err
		}

		var rules []string
		if s.cfg.IgnoreFile != "" {
			var err error
			rules, err = ignore.ReadRules(filepath.Join(root.Path, s.cfg.IgnoreFile))
			if err != nil {
				return err
			}
		}

		result, err := s.registry.ParseDirectory(root.Path, rules)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", root.Path, err)
		}
		for _, issue := range result.Issues {
			issue.File = s.roots.Identity(root, issue.File)
			s.issues = append(s.issues, issue)
			s.log.Warn("Scan issue", zap.String("file", issue.File), zap.String("message", issue.Message))
		}
		for i := range result.Files {
			s.add(root, &result.Files[i])
		}
		s.log.Debug("Scanned input root",
			zap.String("root", root.Name),
			zap.String("path", root.Path),
			zap.Int("files", len(result.Files)))
	}
	return nil
}

func (s *Scanner) add(root roots.Root, doc *parser.FileDoc) {
	id := s.roots.Identity(root, doc.Path)

	title := parser.FirstSentence(doc.Doc)
	if title == "" {
		title = fileutil.StemTitle(doc.Path)
	}

	kinds := []string{FileTopic}
	for _, k := range doc.Kinds() {
		kinds = append(kinds, k.String())
	}
	for _, k := range kinds {
		s.topics.Observe(k)
	}

	s.files[id] = &File{
		Identity:     id,
		Root:         root.Name,
		Language:     doc.Language,
		Hash:         doc.Hash,
		Title:        title,
		Topics:       kinds,
		TitleChanged: s.cache.TitleChanged(id, title),
	}
	if s.Progress != nil {
		s.Progress(id, len(s.files))
	}
}

// Files returns the identity of every scanned file, sorted.
func (s *Scanner) Files() []string {
	out := make([]string, 0, len(s.files))
	for id := range s.files {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// File returns the scan result for an identity.
func (s *Scanner) File(target string) (*File, bool) {
	f, ok := s.files[target]
	return f, ok
}

// DefaultTitle returns the title derived from the file: the first sentence
// of its leading doc comment, or its humanized file name.
func (s *Scanner) DefaultTitle(target string) string {
	if f, ok := s.files[target]; ok {
		return f.Title
	}
	return fileutil.StemTitle(target)
}

// DefaultTitleChanged reports whether the default title differs from the
// one cached by the last committed scan. Files new to the cache count as
// changed.
func (s *Scanner) DefaultTitleChanged(target string) bool {
	f, ok := s.files[target]
	return !ok || f.TitleChanged
}

// Issues returns the non-fatal problems of the last scan.
func (s *Scanner) Issues() []parser.ParseIssue {
	return s.issues
}

// Commit records the last scan in the title cache and forgets files that
// are gone. The caller saves the cache.
func (s *Scanner) Commit() *state.State {
	current := make(map[string]bool, len(s.files))
	for id, f := range s.files {
		current[id] = true
		s.cache.SetFile(id, state.FileState{
			Hash:     f.Hash,
			Language: f.Language,
			Title:    f.Title,
			Topics:   f.Topics,
		})
	}
	for _, id := range s.cache.DeletedFiles(current) {
		s.cache.RemoveFile(id)
	}
	return s.cache
}
