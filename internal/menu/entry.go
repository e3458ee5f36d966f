package menu

import "strings"

// Kind identifies which variant of menu entry an Entry holds.
type Kind uint8

const (
	KindGroup Kind = iota + 1
	KindFile
	KindText
	KindLink
	KindIndex
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindFile:
		return "file"
	case KindText:
		return "text"
	case KindLink:
		return "link"
	case KindIndex:
		return "index"
	default:
		return "unknown"
	}
}

// Flags carries per-entry markers. Only FlagNoAutoTitle is persisted; the
// rest are bookkeeping for a single reconciliation run.
type Flags uint16

const (
	// FlagNoAutoTitle marks a file title as user-owned.
	FlagNoAutoTitle Flags = 1 << iota
	// FlagNew marks an entry created during the current run.
	FlagNew
	FlagUpdateTitles
	FlagUpdateStructure
	FlagUpdateOrder
	FlagIndexGroup
	// FlagBraceless marks a group that was written without braces in the menu file.
	FlagBraceless
)

// transientFlags are cleared before a tree is persisted or compared.
const transientFlags = FlagNew | FlagUpdateTitles | FlagUpdateStructure | FlagUpdateOrder | FlagIndexGroup | FlagBraceless

// SortTier classifies how much of a group's content is kept in title order.
type SortTier uint8

const (
	Unsorted SortTier = iota
	FilesSorted
	FilesAndGroupsSorted
)

func (t SortTier) String() string {
	switch t {
	case FilesSorted:
		return "files"
	case FilesAndGroupsSorted:
		return "files+groups"
	default:
		return "unsorted"
	}
}

// Entry is one node of the menu tree. Which fields are meaningful depends on Kind:
//
//	KindGroup: Title, Children, Tier
//	KindFile:  Title, Target (menu path identity), FlagNoAutoTitle
//	KindText:  Title
//	KindLink:  Title, URL
//	KindIndex: Title, Topic (canonical topic type)
type Entry struct {
	Kind     Kind
	Title    string
	Target   string
	URL      string
	Topic    string
	Flags    Flags
	Tier     SortTier
	Children []*Entry
}

func NewGroup(title string, children ...*Entry) *Entry {
	return &Entry{Kind: KindGroup, Title: title, Children: children}
}

func NewFile(title, target string, noAutoTitle bool) *Entry {
	e := &Entry{Kind: KindFile, Title: title, Target: target}
	if noAutoTitle {
		e.Flags |= FlagNoAutoTitle
	}
	return e
}

func NewText(text string) *Entry {
	return &Entry{Kind: KindText, Title: text}
}

func NewLink(title, url string) *Entry {
	return &Entry{Kind: KindLink, Title: title, URL: url}
}

func NewIndex(title, topic string) *Entry {
	return &Entry{Kind: KindIndex, Title: title, Topic: topic}
}

func (e *Entry) IsGroup() bool { return e.Kind == KindGroup }
func (e *Entry) IsFile() bool  { return e.Kind == KindFile }
func (e *Entry) IsIndex() bool { return e.Kind == KindIndex }

func (e *Entry) Has(f Flags) bool { return e.Flags&f != 0 }
func (e *Entry) Set(f Flags)      { e.Flags |= f }
func (e *Entry) Clear(f Flags)    { e.Flags &^= f }

// NoAutoTitle reports whether the title must survive automatic regeneration.
func (e *Entry) NoAutoTitle() bool { return e.Has(FlagNoAutoTitle) }

// Append adds children to the end of a group.
func (e *Entry) Append(children ...*Entry) {
	e.Children = append(e.Children, children...)
}

// Insert places child at position i, clamping i to the valid range.
func (e *Entry) Insert(i int, child *Entry) {
	if i < 0 {
		i = 0
	}
	if i >= len(e.Children) {
		e.Children = append(e.Children, child)
		return
	}
	e.Children = append(e.Children, nil)
	copy(e.Children[i+1:], e.Children[i:])
	e.Children[i] = child
}

// RemoveAt deletes the child at position i.
func (e *Entry) RemoveAt(i int) {
	copy(e.Children[i:], e.Children[i+1:])
	e.Children[len(e.Children)-1] = nil
	e.Children = e.Children[:len(e.Children)-1]
}

// IndexOf returns the position of child within e, or -1.
func (e *Entry) IndexOf(child *Entry) int {
	for i, c := range e.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func (e *Entry) String() string {
	switch e.Kind {
	case KindFile:
		return "File: " + e.Title + " (" + e.Target + ")"
	case KindLink:
		return "Link: " + e.Title + " (" + e.URL + ")"
	case KindIndex:
		return "Index: " + e.Title + " [" + e.Topic + "]"
	case KindGroup:
		return "Group: " + e.Title
	default:
		return strings.ToUpper(e.Kind.String()[:1]) + e.Kind.String()[1:] + ": " + e.Title
	}
}
