package indexes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBanAndUnban(t *testing.T) {
	r := New()

	assert.True(t, r.Ban("function"))
	assert.False(t, r.Ban("function"))
	assert.True(t, r.IsBanned("function"))
	assert.Equal(t, []string{"function"}, r.Banned())

	assert.True(t, r.Unban("function"))
	assert.False(t, r.Unban("function"))
	assert.Empty(t, r.Banned())
}

func TestSetsAreIndependentAndSorted(t *testing.T) {
	r := New()
	r.SetPrevious([]string{"variable", "general"})
	r.SetActive([]string{"function", "class", "general"})

	assert.Equal(t, []string{"class", "function", "general"}, r.Active())
	assert.Equal(t, []string{"general", "variable"}, r.Previous())
	assert.True(t, r.WasActive("variable"))
	assert.False(t, r.IsActive("variable"))
	assert.True(t, r.IsActive("class"))

	r.SetActive(nil)
	assert.Empty(t, r.Active())
	assert.Len(t, r.Previous(), 2)
}
