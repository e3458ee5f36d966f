package fileutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"user_store":   "User Store",
		"http-client":  "Http Client",
		"README":       "README",
		"api":          "Api",
		"  spaced  ":   "Spaced",
		"parseJSONDoc": "ParseJSONDoc",
	}
	for in, want := range tests {
		assert.Equal(t, want, Humanize(in), in)
	}
}

func TestHumanizeConcurrentCalls(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "User Store", Humanize("user_store"))
			}
		}()
	}
	wg.Wait()
}

func TestStemTitle(t *testing.T) {
	assert.Equal(t, "User Store", StemTitle("internal/store/user_store.go"))
	assert.Equal(t, "Main", StemTitle(`cmd\main.py`))
	assert.Equal(t, "Gitignore", StemTitle(".gitignore"))
}

func TestWriteAtomicReplacesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "menu.txt")

	require.NoError(t, WriteAtomic(path, []byte("one"), 0644))
	require.NoError(t, WriteAtomic(path, []byte("two"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestDedupeStrings(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, DedupeStrings([]string{"b", "a", "b"}))
}
