package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	date := time.Date(2026, time.March, 2, 15, 4, 0, 0, time.UTC)
	tests := []struct {
		pattern string
		want    string
	}{
		{"Generated on month day, year", "Generated on March 2nd, 2026"},
		{"Updated mm/dd/yyyy", "Updated 03/02/2026"},
		{"Last updated mon d", "Last updated Mar 2"},
		{"m-d-yy", "3-2-26"},
		{"modified yesterday", "modified yesterday"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Expand(tt.pattern, date), tt.pattern)
	}
}

func TestOrdinal(t *testing.T) {
	for day, want := range map[int]string{1: "st", 2: "nd", 3: "rd", 4: "th", 11: "th", 12: "th", 13: "th", 21: "st", 22: "nd", 23: "rd", 31: "st"} {
		assert.Equal(t, want, ordinal(day), day)
	}
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Validate("  "), ErrEmpty)
	assert.NoError(t, Validate("yyyy"))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC)
	assert.True(t, SameDay(a, a.Add(30*time.Minute), time.UTC))
	assert.False(t, SameDay(a, a.Add(2*time.Hour), time.UTC))
}
