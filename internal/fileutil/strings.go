package fileutil

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func DedupeStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// Humanize turns a file or directory name into a title: separators become
// spaces and each word is capitalized. "user_store" becomes "User Store".
func Humanize(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.':
			return ' '
		}
		return r
	}, name)
	// Casers keep state between calls, so each call gets its own.
	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(strings.Join(strings.Fields(name), " "))
}

// StemTitle humanizes the base name of p without its extension.
func StemTitle(p string) string {
	base := path.Base(strings.ReplaceAll(p, `\`, "/"))
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return Humanize(base)
}
