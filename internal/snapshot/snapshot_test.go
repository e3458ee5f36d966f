package snapshot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skelly-dev/docmenu/internal/menu"
	"github.com/skelly-dev/docmenu/internal/menufile"
	"github.com/skelly-dev/docmenu/internal/topics"
)

func sampleTree() *menu.Entry {
	return menu.NewGroup("",
		menu.NewFile("Readme", "README.md", false),
		menu.NewGroup("Server",
			menu.NewFile("Main", "server/main.go", true),
			menu.NewText("Handlers"),
			menu.NewGroup("Empty"),
		),
		menu.NewLink("Site", "https://example.com"),
		menu.NewGroup("Index",
			menu.NewIndex("Everything", topics.General),
			menu.NewIndex("Functions", "function"),
			menu.NewIndex("Variables", "variable"),
		),
	)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	reg := topics.NewDefaultRegistry()
	tree := sampleTree()

	data, err := Encode(tree, reg)
	require.NoError(t, err)
	assert.Equal(t, []byte{Marker, 1, 4}, data[:3])

	snap, err := Decode(data, reg)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, snap.Version)
	assert.True(t, menu.Equal(tree, snap.Root))
	assert.Equal(t, []string{"function", "general", "variable"}, snap.Indexes)
	require.Contains(t, snap.Files, "server/main.go")
	assert.True(t, snap.Files["server/main.go"].NoAutoTitle())
	assert.Len(t, snap.Files, 2)
}

func TestLegacyTopicCodesDecodeToSameTypes(t *testing.T) {
	reg := topics.NewDefaultRegistry()
	tree := sampleTree()

	legacy, err := encode(tree, Version{Major: 1, Minor: 2}, reg)
	require.NoError(t, err)
	current, err := Encode(tree, reg)
	require.NoError(t, err)
	assert.NotEqual(t, legacy[3:], current[3:])

	fromLegacy, err := Decode(legacy, reg)
	require.NoError(t, err)
	fromCurrent, err := Decode(current, reg)
	require.NoError(t, err)

	assert.Equal(t, Version{Major: 1, Minor: 2}, fromLegacy.Version)
	assert.True(t, menu.Equal(fromCurrent.Root, fromLegacy.Root))
	assert.Equal(t, fromCurrent.Indexes, fromLegacy.Indexes)
}

func TestLegacyEncodingRejectsTopicsWithoutCode(t *testing.T) {
	tree := menu.NewGroup("", menu.NewIndex("Methods", "method"))
	_, err := encode(tree, Version{Major: 1, Minor: 1}, topics.NewDefaultRegistry())
	require.Error(t, err)
}

func TestDecodeNormalizesTitlesLikeMenuFile(t *testing.T) {
	reg := topics.NewDefaultRegistry()
	tree := menu.NewGroup("",
		menu.NewLink("", "https://example.com"),
		menu.NewIndex("", "function"),
		menu.NewText("  padded  "),
		menu.NewText(" "),
		menu.NewLink("Nowhere", ""),
		menu.NewGroup(" Server ", menu.NewFile(" Main ", "main.go", false)),
	)
	want := menu.NewGroup("",
		menu.NewLink("https://example.com", "https://example.com"),
		menu.NewIndex("Functions", "function"),
		menu.NewText("padded"),
		menu.NewGroup("Server", menu.NewFile("Main", "main.go", false)),
	)

	data, err := Encode(tree, reg)
	require.NoError(t, err)
	snap, err := Decode(data, reg)
	require.NoError(t, err)
	assert.True(t, menu.Equal(want, snap.Root), snap.Root.String())

	doc := menufile.NewDocument()
	doc.Menu.Root = snap.Root
	text, err := menufile.Marshal(doc, reg, nil)
	require.NoError(t, err)
	back, err := menufile.Parse(bytes.NewReader(text), reg)
	require.NoError(t, err, string(text))
	assert.True(t, menu.Equal(snap.Root, back.Menu.Root), string(text))
}

func TestDecodeDropsUnknownTopics(t *testing.T) {
	reg := topics.NewDefaultRegistry()

	w := &writer{}
	w.u8(Marker)
	w.u8(1)
	w.u8(4)
	w.u8(tagIndex)
	require.NoError(t, w.str("Widgets"))
	require.NoError(t, w.str("widget"))
	w.u8(tagIndex)
	require.NoError(t, w.str("Classes"))
	require.NoError(t, w.str("Classes"))

	snap, err := Decode(w.buf.Bytes(), reg)
	require.NoError(t, err)
	require.Len(t, snap.Root.Children, 1)
	assert.Equal(t, "class", snap.Root.Children[0].Topic)

	legacy := []byte{Marker, 1, 0, tagIndex, 0, 1, 'X', 99, tagIndex, 0, 1, 'Y', 1}
	snap, err = Decode(legacy, reg)
	require.NoError(t, err)
	require.Len(t, snap.Root.Children, 1)
	assert.Equal(t, "class", snap.Root.Children[0].Topic)
}

func TestDecodeErrors(t *testing.T) {
	reg := topics.NewDefaultRegistry()
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"bad marker", []byte{'N', 1, 4}, ErrBadFormat},
		{"missing version", []byte{Marker, 1}, ErrTruncated},
		{"newer minor", []byte{Marker, 1, 9}, ErrUnsupportedVersion},
		{"newer major", []byte{Marker, 2, 0}, ErrUnsupportedVersion},
		{"unknown tag", []byte{Marker, 1, 4, 42}, ErrBadFormat},
		{"unbalanced end", []byte{Marker, 1, 4, tagEndGroup}, ErrBadFormat},
		{"short string", []byte{Marker, 1, 4, tagText, 0, 5, 'a'}, ErrTruncated},
		{"open group", []byte{Marker, 1, 4, tagGroup, 0, 1, 'G'}, ErrTruncated},
		{"file without target", []byte{Marker, 1, 4, tagFile, 0, 0, 1, 'T'}, ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, reg)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLayoutFor(t *testing.T) {
	l, err := layoutFor(Version{Major: 1, Minor: 2})
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 1, Minor: 0}, l.since)

	l, err = layoutFor(Version{Major: 1, Minor: 3})
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 1, Minor: 3}, l.since)

	l, err = layoutFor(CurrentVersion)
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 1, Minor: 3}, l.since)
}
