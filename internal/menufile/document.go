// Package menufile reads and writes the hand-editable menu file.
//
// The file is line oriented. Each line holds one or more tags of the form
// "Keyword: value", optionally separated by the group braces "{" and "}".
// Keywords are case-insensitive and "#" starts a comment ("##" is a literal
// "#"). Free text escapes "&", parentheses and braces as HTML-style
// entities so they cannot be mistaken for syntax.
package menufile

import (
	"fmt"

	"github.com/skelly-dev/docmenu/internal/menu"
	"github.com/skelly-dev/docmenu/internal/roots"
	"github.com/skelly-dev/docmenu/internal/topics"
)

// Version is the format version written on the first line of the file.
type Version struct {
	Major int
	Minor int
}

// CurrentVersion is the format written by this package.
var CurrentVersion = Version{Major: 1, Minor: 4}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// IsZero reports whether the file carried no Format line.
func (v Version) IsZero() bool { return v.Major == 0 && v.Minor == 0 }

// Topics resolves topic type names used by index lines.
type Topics interface {
	Lookup(name string) (topics.Type, bool)
}

// Document is a parsed menu file.
type Document struct {
	Menu    *menu.Menu
	Version Version
	// Banned lists the canonical topic types from "Don't Index" lines.
	Banned []string
	// Roots is the input root layout recorded in Data lines, if any.
	Roots []roots.Root
	// Dirty reports that the file must be rewritten even if the tree does
	// not change: entries were dropped while parsing or the format is old.
	Dirty bool
}

// NewDocument returns an empty document in the current format.
func NewDocument() *Document {
	return &Document{Menu: menu.New(), Version: CurrentVersion}
}

// ParseError is one problem found while parsing, tied to its source line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
