package menufile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/skelly-dev/docmenu/internal/menu"
	"github.com/skelly-dev/docmenu/internal/roots"
	"github.com/skelly-dev/docmenu/internal/topics"
)

const indentStep = "   "

const headerComment = `# You can add a title and sub-title to your menu like this:
# Title: [project name]
# SubTitle: [subtitle]
`

const footerComment = `# You can add a footer to your documentation like this:
# Footer: [text]
# A copyright notice usually goes here.
`

const timestampComment = `# You can add a timestamp to your documentation like one of these:
# Timestamp: Generated on month day, year
# Timestamp: Updated mm/dd/yyyy
# Timestamp: Last updated mon day
#
#   m     - One or two digit month.  January is "1"
#   mm    - Always two digit month.  January is "01"
#   mon   - Short month word.  January is "Jan"
#   month - Long month word.  January is "January"
#   d     - One or two digit day.  1 is "1"
#   dd    - Always two digit day.  1 is "01"
#   day   - Day with letter extension.  1 is "1st"
#   yy    - Two digit year.  2006 is "06"
#   yyyy  - Four digit year.  2006 is "2006"
#   year  - Four digit year.  2006 is "2006"
`

const syntaxComment = `# --------------------------------------------------------------------------
#
# Reorder the lines below to change the menu.  New source files are added
# and deleted ones removed on every build, so only the order and titles
# need your attention.
#
# File: [title] ([file path])
# File: [title] (no auto-title, [file path])
#    "no auto-title" keeps your title when the file's own title changes.
# Group: [name] { ... }
# Text: [text]
# Link: [URL]
# Link: [title] ([URL])
# Index: [name]
# [topic type] Index: [name]
# Don't Index: [topic type plural], [topic type plural], ...
#
# Write &lparen; &rparen; &lbrace; &rbrace; and &amp; for ( ) { } and & in titles,
# and ## for a literal #.
#
# --------------------------------------------------------------------------
`

const dataComment = `# Do not change or remove these lines.
`

// Marshal renders doc in the current format. Data lines describing roots
// are written only when dataRoots has more than one root or a single root
// with a non-default name.
func Marshal(doc *Document, t Topics, dataRoots []roots.Root) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc, t, dataRoots); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders doc to w. Groups are always written with braces.
func Write(w io.Writer, doc *Document, t Topics, dataRoots []roots.Root) error {
	bw := bufio.NewWriter(w)
	wr := &writer{w: bw, topics: t}
	m := doc.Menu

	wr.printf("Format: %s\n\n", CurrentVersion)

	wr.raw(headerComment)
	wr.raw("\n")
	if m.Title != "" {
		wr.printf("Title: %s\n", escape(m.Title))
		if m.SubTitle != "" {
			wr.printf("SubTitle: %s\n", escape(m.SubTitle))
		}
		wr.raw("\n")
	}

	wr.raw(footerComment)
	wr.raw("\n")
	if m.Footer != "" {
		wr.printf("Footer: %s\n\n", escape(m.Footer))
	}

	wr.raw(timestampComment)
	wr.raw("\n")
	if m.Timestamp != "" {
		wr.printf("Timestamp: %s\n\n", escape(m.Timestamp))
	}

	wr.raw(syntaxComment)
	wr.raw("\n\n")

	wr.entries(m.Root.Children, "")

	if len(doc.Banned) > 0 {
		plurals := make([]string, 0, len(doc.Banned))
		for _, name := range doc.Banned {
			plurals = append(plurals, escape(wr.plural(name)))
		}
		wr.printf("\nDon't Index: %s\n", strings.Join(plurals, ", "))
	}

	if needsData(dataRoots) {
		wr.raw("\n\n")
		wr.raw(dataComment)
		for _, r := range dataRoots {
			wr.printf("%s\n", formatData(dataRootPath, r.Path))
			wr.printf("%s\n", formatData(dataRootName, r.Name))
		}
	}

	if wr.err != nil {
		return wr.err
	}
	return bw.Flush()
}

func needsData(rs []roots.Root) bool {
	return len(rs) > 1 || (len(rs) == 1 && rs[0].Name != roots.DefaultName)
}

type writer struct {
	w      *bufio.Writer
	topics Topics
	err    error
}

func (wr *writer) raw(s string) {
	if wr.err != nil {
		return
	}
	_, wr.err = wr.w.WriteString(s)
}

func (wr *writer) printf(format string, args ...any) {
	if wr.err != nil {
		return
	}
	_, wr.err = fmt.Fprintf(wr.w, format, args...)
}

func (wr *writer) entries(children []*menu.Entry, indent string) {
	for _, e := range children {
		switch e.Kind {
		case menu.KindGroup:
			wr.printf("%sGroup: %s  {\n\n", indent, escape(e.Title))
			wr.entries(e.Children, indent+indentStep)
			wr.printf("%s%s}  # Group: %s\n\n", indent, indentStep, escape(e.Title))
		case menu.KindFile:
			option := ""
			if e.NoAutoTitle() {
				option = "no auto-title, "
			}
			wr.printf("%sFile: %s  (%s%s)\n", indent, escape(e.Title), option, escape(e.Target))
		case menu.KindText:
			wr.printf("%sText: %s\n", indent, escape(e.Title))
		case menu.KindLink:
			if e.Title == "" || e.Title == e.URL {
				wr.printf("%sLink: %s\n", indent, escape(e.URL))
			} else {
				wr.printf("%sLink: %s  (%s)\n", indent, escape(e.Title), escape(e.URL))
			}
		case menu.KindIndex:
			if e.Topic == topics.General {
				wr.printf("%sIndex: %s\n", indent, escape(e.Title))
			} else {
				wr.printf("%s%s Index: %s\n", indent, wr.display(e.Topic), escape(e.Title))
			}
		}
	}
}

func (wr *writer) display(name string) string {
	if t, ok := wr.topics.Lookup(name); ok {
		return t.Display
	}
	return name
}

func (wr *writer) plural(name string) string {
	if t, ok := wr.topics.Lookup(name); ok {
		return t.Plural
	}
	return name
}
