package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupAcceptsNameDisplayAndPlural(t *testing.T) {
	r := NewDefaultRegistry()

	for _, name := range []string{"function", "Function", "FUNCTIONS", "  functions "} {
		got, ok := r.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, "function", got.Name)
	}

	got, ok := r.Lookup("Everything")
	require.True(t, ok)
	assert.Equal(t, General, got.Name)

	assert.False(t, r.IsValidType("widget"))
}

func TestLegacyCodes(t *testing.T) {
	r := NewDefaultRegistry()

	cases := map[int]string{0: General, 1: "class", 5: "function", 9: "constant", 10: "property"}
	for code, want := range cases {
		got, ok := r.FromLegacyCode(code)
		require.True(t, ok, "code %d", code)
		assert.Equal(t, want, got.Name)
	}

	_, ok := r.FromLegacyCode(42)
	assert.False(t, ok)
}

func TestIndexableFollowsObservations(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Empty(t, r.AllIndexableTypes())
	assert.False(t, r.IsIndexable(General))

	r.Observe("function")
	r.Observe("class")
	r.Observe("section")

	assert.Equal(t, []string{General, "class", "function"}, r.AllIndexableTypes())
	assert.True(t, r.IsIndexable("Functions"))
	assert.False(t, r.IsIndexable("section"))

	require.True(t, r.SetIndex("class", false))
	assert.False(t, r.IsIndexable("class"))
	assert.False(t, r.IndexEnabled("class"))
	assert.True(t, r.IsValidType("class"))

	r.ResetObservations()
	assert.Empty(t, r.AllIndexableTypes())
}

func TestRegisterReplacesExistingType(t *testing.T) {
	r := NewDefaultRegistry()
	before := len(r.Types())

	r.Register(Type{Name: "Function", Display: "Routine", Plural: "Routines", Index: false, LegacyCode: 5})

	assert.Len(t, r.Types(), before)
	got, ok := r.Lookup("routines")
	require.True(t, ok)
	assert.Equal(t, "function", got.Name)
	assert.False(t, got.Index)
}

func TestCanonical(t *testing.T) {
	r := NewDefaultRegistry()

	name, ok := r.Canonical("Properties")
	require.True(t, ok)
	assert.Equal(t, "property", name)

	_, ok = r.Canonical("widgets")
	assert.False(t, ok)
}
