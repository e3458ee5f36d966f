package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skelly-dev/docmenu/internal/menu"
	"github.com/skelly-dev/docmenu/internal/reconcile"
	"github.com/skelly-dev/docmenu/internal/roots"
	"github.com/skelly-dev/docmenu/internal/snapshot"
	"github.com/skelly-dev/docmenu/internal/topics"
)

type stubScanner map[string]string

func (s stubScanner) Files() []string {
	out := make([]string, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	return out
}

func (s stubScanner) DefaultTitle(target string) string   { return s[target] }
func (s stubScanner) DefaultTitleChanged(string) bool    { return false }

func newPersistor(t *testing.T) (*Persistor, *topics.Registry) {
	t.Helper()
	reg := topics.NewDefaultRegistry()
	reg.Observe("function")
	paths := Config{Dir: ".docmenu", MenuFile: "menu.txt", SnapshotFile: "menu.state", CacheFile: "titles.db"}.Paths(t.TempDir())
	return New(paths, reg, zap.NewNop()), reg
}

func build(t *testing.T, p *Persistor, reg *topics.Registry, scan stubScanner) *reconcile.Result {
	t.Helper()
	loaded, err := p.Load()
	require.NoError(t, err)
	in := loaded.Input()
	in.Scanner = scan
	in.Topics = reg
	res, err := reconcile.New(reconcile.DefaultOptions(), zap.NewNop()).Run(in)
	require.NoError(t, err)
	return res
}

func TestLoadWithoutFiles(t *testing.T) {
	p, _ := newPersistor(t)
	loaded, err := p.Load()
	require.NoError(t, err)

	assert.False(t, loaded.MenuExists)
	assert.Nil(t, loaded.Previous)
	assert.NoError(t, loaded.SnapshotErr)
	assert.Empty(t, loaded.Document.Menu.Content())
}

func TestSaveThenBuildAgainWritesNothing(t *testing.T) {
	p, reg := newPersistor(t)
	scan := stubScanner{"main.go": "Entry point", "util.go": "Helpers"}

	first := build(t, p, reg, scan)
	wrote, err := p.Save(first, nil)
	require.NoError(t, err)
	require.True(t, wrote)

	menuInfo, err := os.Stat(p.Paths().Menu)
	require.NoError(t, err)
	stateInfo, err := os.Stat(p.Paths().Snapshot)
	require.NoError(t, err)

	second := build(t, p, reg, scan)
	assert.False(t, second.HasChanged())
	wrote, err = p.Save(second, nil)
	require.NoError(t, err)
	assert.False(t, wrote)

	menuAfter, err := os.Stat(p.Paths().Menu)
	require.NoError(t, err)
	stateAfter, err := os.Stat(p.Paths().Snapshot)
	require.NoError(t, err)
	assert.Equal(t, menuInfo.ModTime(), menuAfter.ModTime())
	assert.Equal(t, stateInfo.ModTime(), stateAfter.ModTime())
}

func TestLoadRoundTripsSavedState(t *testing.T) {
	p, reg := newPersistor(t)
	res := build(t, p, reg, stubScanner{"a.go": "Alpha"})
	res.Menu().Title = "Project"

	dataRoots := []roots.Root{{Name: "app", Path: "/src/app"}}
	_, err := p.Save(res, dataRoots)
	require.NoError(t, err)

	loaded, err := p.Load()
	require.NoError(t, err)
	assert.True(t, loaded.MenuExists)
	require.NotNil(t, loaded.Previous)
	assert.True(t, menu.Equal(res.Menu().Root, loaded.Document.Menu.Root))
	assert.True(t, menu.Equal(res.Menu().Root, loaded.Previous.Root))
	assert.Equal(t, "Project", loaded.Document.Menu.Title)
	assert.Equal(t, dataRoots, loaded.Document.Roots)
	assert.False(t, loaded.MenuModTime.After(loaded.PreviousModTime))

	in := loaded.Input()
	assert.Equal(t, dataRoots, in.DataRoots)
	assert.True(t, in.MenuExists)
}

func TestUnreadableSnapshotMeansNoPreviousState(t *testing.T) {
	p, reg := newPersistor(t)
	require.NoError(t, os.MkdirAll(p.Paths().Dir, 0755))
	require.NoError(t, os.WriteFile(p.Paths().Snapshot, []byte("garbage"), 0644))

	loaded, err := p.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded.Previous)
	assert.ErrorIs(t, loaded.SnapshotErr, snapshot.ErrBadFormat)

	in := loaded.Input()
	in.Scanner = stubScanner{}
	in.Topics = reg
	res, err := reconcile.New(reconcile.DefaultOptions(), zap.NewNop()).Run(in)
	require.NoError(t, err)
	assert.True(t, res.HasChanged())
}

func TestMenuParseErrorsFailLoad(t *testing.T) {
	p, _ := newPersistor(t)
	require.NoError(t, os.MkdirAll(p.Paths().Dir, 0755))
	require.NoError(t, os.WriteFile(p.Paths().Menu, []byte("Group: A {\nBogus: x\n"), 0644))

	_, err := p.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "missing its closing }")
}

func TestSaveFailsWhenDirectoryIsAFile(t *testing.T) {
	p, reg := newPersistor(t)
	res := build(t, p, reg, stubScanner{"a.go": "Alpha"})
	require.NoError(t, os.WriteFile(p.Paths().Dir, []byte("not a dir"), 0644))

	_, err := p.Save(res, nil)
	require.Error(t, err)
}

func TestConfigPaths(t *testing.T) {
	paths := Config{Dir: "/abs/state", MenuFile: "m.txt", SnapshotFile: "m.bin", CacheFile: "c.db"}.Paths("/project")
	assert.Equal(t, filepath.Join("/abs/state", "m.txt"), paths.Menu)

	paths = Config{Dir: ".docmenu", MenuFile: "m.txt", SnapshotFile: "m.bin", CacheFile: "c.db"}.Paths("/project")
	assert.Equal(t, filepath.Join("/project", ".docmenu", "m.bin"), paths.Snapshot)
	assert.Equal(t, filepath.Join("/project", ".docmenu", "c.db"), paths.Cache)
}
