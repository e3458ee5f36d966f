package roots

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleRootGetsDefaultName(t *testing.T) {
	base := t.TempDir()
	set, err := Parse(nil, base)
	require.NoError(t, err)

	require.Len(t, set.Roots(), 1)
	assert.Equal(t, DefaultName, set.Roots()[0].Name)
	assert.False(t, set.Multi())
	assert.False(t, set.NeedsData())
}

func TestParseNamedAndBareRoots(t *testing.T) {
	base := t.TempDir()
	set, err := Parse([]string{"api=services/api", "web"}, base)
	require.NoError(t, err)

	assert.True(t, set.Multi())
	assert.True(t, set.NeedsData())
	dir, ok := set.Resolve("api")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(base, "services", "api"), dir)
	_, ok = set.Resolve("web")
	assert.True(t, ok)
}

func TestParseRejectsDuplicateNames(t *testing.T) {
	_, err := Parse([]string{"a=x", "a=y"}, t.TempDir())
	require.Error(t, err)
}

func TestLocateAndAbsolute(t *testing.T) {
	base := t.TempDir()
	set, err := New(Root{Name: "api", Path: filepath.Join(base, "api")}, Root{Name: "web", Path: filepath.Join(base, "web")})
	require.NoError(t, err)

	id, ok := set.Locate(filepath.Join(base, "web", "src", "app.ts"))
	require.True(t, ok)
	assert.Equal(t, "web/src/app.ts", id)

	abs, ok := set.Absolute(id)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(base, "web", "src", "app.ts"), abs)

	_, ok = set.Locate(filepath.Join(base, "other", "x.go"))
	assert.False(t, ok)
}

func TestCanonicalNormalizesTargets(t *testing.T) {
	base := t.TempDir()
	set, err := New(Root{Path: base})
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"./pkg/a.go", "pkg/a.go"},
		{`pkg\b.go`, "pkg/b.go"},
		{"pkg//c.go", "pkg/c.go"},
		{filepath.Join(base, "pkg", "d.go"), "pkg/d.go"},
	}
	for _, tt := range tests {
		got, ok := set.Canonical(tt.in, nil)
		require.True(t, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCanonicalFollowsRenamedRoot(t *testing.T) {
	base := t.TempDir()
	apiDir := filepath.Join(base, "api")
	webDir := filepath.Join(base, "web")
	set, err := New(Root{Name: "backend", Path: apiDir}, Root{Name: "web", Path: webDir})
	require.NoError(t, err)

	previous := []Root{{Name: "api", Path: apiDir}, {Name: "web", Path: webDir}}
	got, ok := set.Canonical("api/main.go", previous)
	require.True(t, ok)
	assert.Equal(t, "backend/main.go", got)
}

func TestCanonicalSingleToMulti(t *testing.T) {
	base := t.TempDir()
	apiDir := filepath.Join(base, "api")
	set, err := New(Root{Name: "api", Path: apiDir}, Root{Name: "web", Path: filepath.Join(base, "web")})
	require.NoError(t, err)

	got, ok := set.Canonical("main.go", []Root{{Name: DefaultName, Path: apiDir}})
	require.True(t, ok)
	assert.Equal(t, "api/main.go", got)

	_, ok = set.Canonical("unknown/main.go", nil)
	assert.False(t, ok)
}
