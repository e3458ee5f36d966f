// Package timestamp validates and expands the footer timestamp pattern.
//
// Recognized codes are m, mm, mon, month, d, dd, day, yy, yyyy and year.
// A code is only replaced when it forms a whole run of letters, so the
// "m" in "modified" is left alone. Everything else is copied literally.
package timestamp

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var ErrEmpty = errors.New("timestamp pattern is empty")

// Validate checks that a pattern can be stored.
func Validate(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return ErrEmpty
	}
	return nil
}

// Expand renders pattern for the date t.
func Expand(pattern string, t time.Time) string {
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		if !unicode.IsLetter(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}
		j := i
		for j < len(runes) && unicode.IsLetter(runes[j]) {
			j++
		}
		word := string(runes[i:j])
		if v, ok := expandCode(word, t); ok {
			b.WriteString(v)
		} else {
			b.WriteString(word)
		}
		i = j
	}
	return b.String()
}

func expandCode(code string, t time.Time) (string, bool) {
	switch code {
	case "m":
		return strconv.Itoa(int(t.Month())), true
	case "mm":
		return t.Format("01"), true
	case "mon":
		return t.Format("Jan"), true
	case "month":
		return t.Format("January"), true
	case "d":
		return strconv.Itoa(t.Day()), true
	case "dd":
		return t.Format("02"), true
	case "day":
		return strconv.Itoa(t.Day()) + ordinal(t.Day()), true
	case "yy":
		return t.Format("06"), true
	case "yyyy", "year":
		return t.Format("2006"), true
	}
	return "", false
}

func ordinal(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
