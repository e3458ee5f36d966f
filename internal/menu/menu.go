package menu

// Menu is a reconciled menu tree plus the metadata stored alongside it in
// the menu file. The root is a group whose children are the top level.
type Menu struct {
	Root      *Entry
	Title     string
	SubTitle  string
	Footer    string
	Timestamp string
}

// New returns an empty menu.
func New() *Menu {
	return &Menu{Root: NewGroup("")}
}

// Content returns the top-level entries.
func (m *Menu) Content() []*Entry {
	if m == nil || m.Root == nil {
		return nil
	}
	return m.Root.Children
}
