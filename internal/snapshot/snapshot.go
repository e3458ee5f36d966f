// Package snapshot reads and writes the binary record of the menu tree as
// it stood after the previous build.
//
// Layout (big-endian):
//
//	marker   uint8 (0x4D)
//	version  uint8 major, uint8 minor
//	records  repeated until end of data, each starting with a uint8 tag
//
// Tags: 0 closes the innermost open group, 1 group (title), 2 file (flags
// uint8, title, target), 3 text (title), 4 link (title, url), 5 index
// (title, topic). Strings are a uint16 byte count followed by UTF-8 bytes.
// The root group is implicit and ends with the data.
package snapshot

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/skelly-dev/docmenu/internal/menu"
	"github.com/skelly-dev/docmenu/internal/topics"
)

// Marker is the first byte of every snapshot.
const Marker byte = 0x4D

const (
	tagEndGroup byte = iota
	tagGroup
	tagFile
	tagText
	tagLink
	tagIndex
)

const fileNoAutoTitle byte = 1 << 0

var (
	ErrBadFormat          = errors.New("snapshot: bad format")
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")
	ErrTruncated          = errors.New("snapshot: truncated")
)

// Version is the format revision stored after the marker.
type Version struct {
	Major uint8
	Minor uint8
}

// CurrentVersion is the revision written by Encode.
var CurrentVersion = Version{Major: 1, Minor: 4}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// Less reports whether v is an older revision than o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

// Topics resolves topic types stored in index records.
type Topics interface {
	Lookup(name string) (topics.Type, bool)
	FromLegacyCode(code int) (topics.Type, bool)
}

// Snapshot is a decoded previous-state file.
type Snapshot struct {
	Version Version
	Root    *menu.Entry
	// Files maps each file target to its entry.
	Files map[string]*menu.Entry
	// Indexes lists the topic types that had an index entry, sorted.
	Indexes []string
}

// New builds a Snapshot around an existing tree.
func New(root *menu.Entry) *Snapshot {
	s := &Snapshot{Version: CurrentVersion, Root: root, Files: menu.FileMap(root)}
	for topic := range menu.IndexTopics(root) {
		s.Indexes = append(s.Indexes, topic)
	}
	sort.Strings(s.Indexes)
	return s
}

// Decode parses a snapshot. Index records naming a topic type that is no
// longer known are skipped. Titles are normalized the way the menu file
// reads them back: trimmed, empty texts and URL-less links dropped, an
// untitled link named by its URL and an untitled index by its topic. Any structural problem returns one of
// ErrBadFormat, ErrUnsupportedVersion or ErrTruncated.
func Decode(data []byte, t Topics) (*Snapshot, error) {
	r := &reader{data: data}
	marker, err := r.u8()
	if err != nil {
		return nil, err
	}
	if marker != Marker {
		return nil, fmt.Errorf("%w: marker 0x%02X", ErrBadFormat, marker)
	}
	var v Version
	if v.Major, err = r.u8(); err != nil {
		return nil, err
	}
	if v.Minor, err = r.u8(); err != nil {
		return nil, err
	}
	l, err := layoutFor(v)
	if err != nil {
		return nil, err
	}

	root := menu.NewGroup("")
	stack := []*menu.Entry{root}
	for !r.done() {
		tag, _ := r.u8()
		top := stack[len(stack)-1]
		switch tag {
		case tagEndGroup:
			if len(stack) == 1 {
				return nil, fmt.Errorf("%w: group end without group at offset %d", ErrBadFormat, r.pos-1)
			}
			stack = stack[:len(stack)-1]
		case tagGroup:
			title, err := r.str()
			if err != nil {
				return nil, err
			}
			g := menu.NewGroup(strings.TrimSpace(title))
			top.Append(g)
			stack = append(stack, g)
		case tagFile:
			flags, err := r.u8()
			if err != nil {
				return nil, err
			}
			title, err := r.str()
			if err != nil {
				return nil, err
			}
			target, err := r.str()
			if err != nil {
				return nil, err
			}
			top.Append(menu.NewFile(strings.TrimSpace(title), target, flags&fileNoAutoTitle != 0))
		case tagText:
			title, err := r.str()
			if err != nil {
				return nil, err
			}
			if title = strings.TrimSpace(title); title != "" {
				top.Append(menu.NewText(title))
			}
		case tagLink:
			title, err := r.str()
			if err != nil {
				return nil, err
			}
			url, err := r.str()
			if err != nil {
				return nil, err
			}
			if url == "" {
				continue
			}
			title = strings.TrimSpace(title)
			if title == "" {
				title = url
			}
			top.Append(menu.NewLink(title, url))
		case tagIndex:
			title, err := r.str()
			if err != nil {
				return nil, err
			}
			topic, ok, err := l.readTopic(r, t)
			if err != nil {
				return nil, err
			}
			if ok {
				top.Append(menu.NewIndex(indexTitle(title, topic, t), topic))
			}
		default:
			return nil, fmt.Errorf("%w: unknown record tag %d at offset %d", ErrBadFormat, tag, r.pos-1)
		}
	}
	if len(stack) > 1 {
		return nil, fmt.Errorf("%w: %d groups left open", ErrTruncated, len(stack)-1)
	}

	s := New(root)
	s.Version = v
	return s, nil
}

// indexTitle gives an untitled index the plural of its topic, the title a
// menu file line without a name reads back as.
func indexTitle(title, topic string, t Topics) string {
	title = strings.TrimSpace(title)
	if title != "" {
		return title
	}
	if tt, ok := t.Lookup(topic); ok {
		return tt.Plural
	}
	return topic
}

// Encode writes root in the current format.
func Encode(root *menu.Entry, t Topics) ([]byte, error) {
	return encode(root, CurrentVersion, t)
}

func encode(root *menu.Entry, v Version, t Topics) ([]byte, error) {
	l, err := layoutFor(v)
	if err != nil {
		return nil, err
	}
	w := &writer{}
	w.u8(Marker)
	w.u8(v.Major)
	w.u8(v.Minor)
	if err := encodeChildren(w, root, l, t); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

func encodeChildren(w *writer, group *menu.Entry, l layout, t Topics) error {
	for _, e := range group.Children {
		var err error
		switch e.Kind {
		case menu.KindGroup:
			w.u8(tagGroup)
			if err = w.str(e.Title); err != nil {
				return err
			}
			if err = encodeChildren(w, e, l, t); err != nil {
				return err
			}
			w.u8(tagEndGroup)
		case menu.KindFile:
			var flags byte
			if e.NoAutoTitle() {
				flags |= fileNoAutoTitle
			}
			w.u8(tagFile)
			w.u8(flags)
			if err = w.str(e.Title); err == nil {
				err = w.str(e.Target)
			}
		case menu.KindText:
			w.u8(tagText)
			err = w.str(e.Title)
		case menu.KindLink:
			w.u8(tagLink)
			if err = w.str(e.Title); err == nil {
				err = w.str(e.URL)
			}
		case menu.KindIndex:
			w.u8(tagIndex)
			if err = w.str(e.Title); err == nil {
				err = l.writeTopic(w, e.Topic, t)
			}
		}
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", e, err)
		}
	}
	return nil
}
