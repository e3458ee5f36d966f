package menu

// Visit is a file entry together with the chain of groups that owns it,
// outermost first. The root group is always Path[0].
type Visit struct {
	Entry *Entry
	Path  []*Entry
}

// Parent returns the group that directly holds the visited entry.
func (v Visit) Parent() *Entry {
	return v.Path[len(v.Path)-1]
}

// Walk visits every entry below root depth first, in menu order. parents
// holds the owning groups, outermost first, and must not be retained.
// Returning false from fn skips the children of a group.
func Walk(root *Entry, fn func(e *Entry, parents []*Entry) bool) {
	parents := []*Entry{root}
	walk(root, parents, fn)
}

func walk(group *Entry, parents []*Entry, fn func(e *Entry, parents []*Entry) bool) {
	for _, child := range group.Children {
		descend := fn(child, parents)
		if descend && child.IsGroup() {
			walk(child, append(parents, child), fn)
		}
	}
}

// Files returns every file entry with its owning path, in menu order.
func Files(root *Entry) []Visit {
	var visits []Visit
	Walk(root, func(e *Entry, parents []*Entry) bool {
		if e.IsFile() {
			path := make([]*Entry, len(parents))
			copy(path, parents)
			visits = append(visits, Visit{Entry: e, Path: path})
		}
		return true
	})
	return visits
}

// FileMap maps each file target to its entry. When a target appears more
// than once the first occurrence wins.
func FileMap(root *Entry) map[string]*Entry {
	files := make(map[string]*Entry)
	Walk(root, func(e *Entry, _ []*Entry) bool {
		if e.IsFile() {
			if _, exists := files[e.Target]; !exists {
				files[e.Target] = e
			}
		}
		return true
	})
	return files
}

// Groups returns every group below root in depth-first post order, so
// nested groups come before the groups that contain them.
func Groups(root *Entry) []*Entry {
	var groups []*Entry
	var collect func(g *Entry)
	collect = func(g *Entry) {
		for _, child := range g.Children {
			if child.IsGroup() {
				collect(child)
				groups = append(groups, child)
			}
		}
	}
	collect(root)
	return groups
}

// IndexTopics returns the topic types of all index entries below root.
func IndexTopics(root *Entry) map[string]bool {
	topics := make(map[string]bool)
	Walk(root, func(e *Entry, _ []*Entry) bool {
		if e.IsIndex() {
			topics[e.Topic] = true
		}
		return true
	})
	return topics
}

// CountFiles returns the number of file entries below root.
func CountFiles(root *Entry) int {
	n := 0
	Walk(root, func(e *Entry, _ []*Entry) bool {
		if e.IsFile() {
			n++
		}
		return true
	})
	return n
}

// ClearTransient drops run-local flags from every entry below root.
func ClearTransient(root *Entry) {
	root.Clear(transientFlags)
	Walk(root, func(e *Entry, _ []*Entry) bool {
		e.Clear(transientFlags)
		return true
	})
}

// Equal reports whether two trees hold the same entries in the same order.
// Transient flags and sort tiers are ignored.
func Equal(a, b *Entry) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Title != b.Title || a.Target != b.Target || a.URL != b.URL || a.Topic != b.Topic {
		return false
	}
	if a.NoAutoTitle() != b.NoAutoTitle() {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of e.
func Clone(e *Entry) *Entry {
	if e == nil {
		return nil
	}
	c := *e
	if e.Children != nil {
		c.Children = make([]*Entry, len(e.Children))
		for i, child := range e.Children {
			c.Children[i] = Clone(child)
		}
	}
	return &c
}
