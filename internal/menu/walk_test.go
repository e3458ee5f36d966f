package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Entry {
	return NewGroup("",
		NewFile("Readme", "readme.txt", false),
		NewGroup("Core",
			NewFile("Tree", "core/tree.go", true),
			NewGroup("Nested",
				NewFile("Walk", "core/nested/walk.go", false),
			),
			NewText("notes"),
		),
		NewLink("Home", "https://example.com"),
		NewGroup("Index",
			NewIndex("Everything", "general"),
			NewIndex("Functions", "function"),
		),
	)
}

func TestFilesYieldsOwningPath(t *testing.T) {
	root := sampleTree()

	visits := Files(root)
	require.Len(t, visits, 3)

	assert.Equal(t, "readme.txt", visits[0].Entry.Target)
	assert.Same(t, root, visits[0].Parent())

	walkVisit := visits[2]
	assert.Equal(t, "core/nested/walk.go", walkVisit.Entry.Target)
	require.Len(t, walkVisit.Path, 3)
	assert.Equal(t, "Core", walkVisit.Path[1].Title)
	assert.Equal(t, "Nested", walkVisit.Parent().Title)
}

func TestFileMapAndCounts(t *testing.T) {
	root := sampleTree()

	files := FileMap(root)
	assert.Len(t, files, 3)
	assert.True(t, files["core/tree.go"].NoAutoTitle())
	assert.Equal(t, 3, CountFiles(root))
	assert.Equal(t, map[string]bool{"general": true, "function": true}, IndexTopics(root))
}

func TestGroupsArePostOrder(t *testing.T) {
	groups := Groups(sampleTree())

	titles := make([]string, 0, len(groups))
	for _, g := range groups {
		titles = append(titles, g.Title)
	}
	assert.Equal(t, []string{"Nested", "Core", "Index"}, titles)
}

func TestEqualIgnoresTransientState(t *testing.T) {
	a := sampleTree()
	b := Clone(a)
	require.True(t, Equal(a, b))

	b.Children[1].Set(FlagNew | FlagUpdateOrder)
	b.Children[1].Tier = FilesSorted
	assert.True(t, Equal(a, b))

	b.Children[1].Children[0].Clear(FlagNoAutoTitle)
	assert.False(t, Equal(a, b))
}

func TestEqualDetectsReorder(t *testing.T) {
	a := sampleTree()
	b := Clone(a)
	b.Children[0], b.Children[2] = b.Children[2], b.Children[0]
	assert.False(t, Equal(a, b))
}

func TestInsertAndRemove(t *testing.T) {
	g := NewGroup("g", NewText("a"), NewText("c"))
	g.Insert(1, NewText("b"))
	g.Insert(10, NewText("d"))
	g.Insert(-1, NewText("start"))

	titles := func() []string {
		out := []string{}
		for _, c := range g.Children {
			out = append(out, c.Title)
		}
		return out
	}
	assert.Equal(t, []string{"start", "a", "b", "c", "d"}, titles())

	g.RemoveAt(0)
	g.RemoveAt(3)
	assert.Equal(t, []string{"a", "b", "c"}, titles())
	assert.Equal(t, 1, g.IndexOf(g.Children[1]))
}

func TestClearTransient(t *testing.T) {
	root := sampleTree()
	root.Children[1].Set(FlagNew | FlagBraceless)
	root.Children[1].Children[0].Set(FlagUpdateTitles)

	ClearTransient(root)

	assert.False(t, root.Children[1].Has(FlagNew|FlagBraceless))
	assert.True(t, root.Children[1].Children[0].NoAutoTitle())
	assert.False(t, root.Children[1].Children[0].Has(FlagUpdateTitles))
}
