package reconcile

import (
	"bytes"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skelly-dev/docmenu/internal/fileutil"
	"github.com/skelly-dev/docmenu/internal/menu"
	"github.com/skelly-dev/docmenu/internal/menufile"
	"github.com/skelly-dev/docmenu/internal/snapshot"
	"github.com/skelly-dev/docmenu/internal/topics"
)

var testNow = time.Date(2026, time.May, 14, 12, 0, 0, 0, time.UTC)

type fakeScanner struct {
	titles  map[string]string
	changed map[string]bool
}

// scanOf returns a scanner for files whose default title is the humanized
// file name.
func scanOf(files ...string) *fakeScanner {
	s := &fakeScanner{titles: make(map[string]string), changed: make(map[string]bool)}
	for _, f := range files {
		s.titles[f] = fileutil.StemTitle(f)
	}
	return s
}

func (s *fakeScanner) withTitle(file, title string) *fakeScanner {
	s.titles[file] = title
	s.changed[file] = true
	return s
}

func (s *fakeScanner) Files() []string {
	files := make([]string, 0, len(s.titles))
	for f := range s.titles {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

func (s *fakeScanner) DefaultTitle(target string) string { return s.titles[target] }

func (s *fakeScanner) DefaultTitleChanged(target string) bool { return s.changed[target] }

func topicsWith(kinds ...string) *topics.Registry {
	reg := topics.NewDefaultRegistry()
	for _, k := range kinds {
		reg.Observe(k)
	}
	return reg
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return testNow }
	opts.Location = time.UTC
	return opts
}

func mustRun(t *testing.T, opts Options, in Input) *Result {
	t.Helper()
	res, err := New(opts, zap.NewNop()).Run(in)
	require.NoError(t, err)
	return res
}

func snapshotOf(t *testing.T, root *menu.Entry, reg *topics.Registry) *snapshot.Snapshot {
	t.Helper()
	data, err := snapshot.Encode(root, reg)
	require.NoError(t, err)
	snap, err := snapshot.Decode(data, reg)
	require.NoError(t, err)
	return snap
}

// saved simulates writing a result to disk at time at and loading it back
// for the next build.
func saved(t *testing.T, res *Result, reg *topics.Registry, at time.Time) Input {
	t.Helper()
	doc := &menufile.Document{Menu: res.Menu(), Version: menufile.CurrentVersion, Banned: res.BannedIndexes()}
	text, err := menufile.Marshal(doc, reg, nil)
	require.NoError(t, err)
	parsed, err := menufile.Parse(bytes.NewReader(text), reg)
	require.NoError(t, err)

	return Input{
		Menu:            parsed.Menu,
		MenuExists:      true,
		MenuDirty:       parsed.Dirty,
		MenuModTime:     at,
		Banned:          parsed.Banned,
		Previous:        snapshotOf(t, res.Menu().Root, reg),
		PreviousModTime: at,
		Topics:          reg,
	}
}

// existing returns an input for a menu file holding root that was also the
// state of the previous build.
func existing(t *testing.T, root *menu.Entry, reg *topics.Registry) Input {
	t.Helper()
	m := menu.New()
	m.Root = root
	return Input{
		Menu:            m,
		MenuExists:      true,
		MenuModTime:     testNow.Add(-time.Hour),
		Previous:        snapshotOf(t, menu.Clone(root), reg),
		PreviousModTime: testNow.Add(-time.Hour),
		Topics:          reg,
	}
}

func targets(entries []*menu.Entry) []string {
	var out []string
	for _, e := range entries {
		switch {
		case e.IsFile():
			out = append(out, e.Target)
		case e.IsGroup():
			out = append(out, "group:"+e.Title)
		case e.IsIndex():
			out = append(out, "index:"+e.Topic)
		default:
			out = append(out, e.Kind.String()+":"+e.Title)
		}
	}
	return out
}
