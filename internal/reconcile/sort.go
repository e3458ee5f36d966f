package reconcile

import (
	"path"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/skelly-dev/docmenu/internal/menu"
)

// collator orders entries by case-folded title, then by raw title.
type collator struct {
	fold cases.Caser
}

func newCollator() *collator {
	return &collator{fold: cases.Fold()}
}

func (c *collator) key(e *menu.Entry) string {
	title := e.Title
	if title == "" && e.IsFile() {
		title = path.Base(e.Target)
	}
	return c.fold.String(title)
}

func (c *collator) less(a, b *menu.Entry) bool {
	ka, kb := c.key(a), c.key(b)
	if ka != kb {
		return ka < kb
	}
	return a.Title < b.Title
}

// sortable reports whether e takes part in ordering. Everything else
// (text, links, indexes, index groups, and other groups when withGroups is
// false) splits a group into runs that are ordered independently.
func sortable(e *menu.Entry, withGroups bool) bool {
	if e.IsGroup() {
		return withGroups && !e.Has(menu.FlagIndexGroup)
	}
	return e.IsFile()
}

// runsSorted reports whether every run of sortable entries is in order.
func (c *collator) runsSorted(entries []*menu.Entry, withGroups bool) bool {
	var prev *menu.Entry
	for _, e := range entries {
		if !sortable(e, withGroups) {
			prev = nil
			continue
		}
		if prev != nil && c.less(e, prev) {
			return false
		}
		prev = e
	}
	return true
}

// sortRuns stable-sorts each run of sortable entries in place and reports
// whether anything moved.
func (c *collator) sortRuns(entries []*menu.Entry, withGroups bool) bool {
	moved := false
	start := 0
	for i := 0; i <= len(entries); i++ {
		if i < len(entries) && sortable(entries[i], withGroups) {
			continue
		}
		if i-start > 1 {
			run := entries[start:i]
			before := append([]*menu.Entry(nil), run...)
			keys := make(map[*menu.Entry]string, len(run))
			for _, e := range run {
				keys[e] = c.key(e)
			}
			sort.SliceStable(run, func(a, b int) bool {
				ka, kb := keys[run[a]], keys[run[b]]
				if ka != kb {
					return ka < kb
				}
				return run[a].Title < run[b].Title
			})
			for j := range run {
				if run[j] != before[j] {
					moved = true
					break
				}
			}
		}
		start = i + 1
	}
	return moved
}

// detectSortOrder classifies each group by how much of its existing
// content is in title order. Entries added by this run are ignored, so an
// addition never makes a group look sorted or unsorted. Groups created by
// this run are fully sorted.
func (st *run) detectSortOrder() error {
	for _, g := range append(menu.Groups(st.root), st.root) {
		if st.created[g] {
			g.Tier = menu.FilesAndGroupsSorted
			continue
		}
		existing := make([]*menu.Entry, 0, len(g.Children))
		for _, c := range g.Children {
			if !c.Has(menu.FlagNew) {
				existing = append(existing, c)
			}
		}
		switch {
		case st.collate.runsSorted(existing, true):
			g.Tier = menu.FilesAndGroupsSorted
		case st.collate.runsSorted(existing, false):
			g.Tier = menu.FilesSorted
		default:
			g.Tier = menu.Unsorted
		}
	}
	return nil
}

// sortGroups reorders groups whose content changed, within the scope
// their sort tier allows.
func (st *run) sortGroups() error {
	for _, g := range append(menu.Groups(st.root), st.root) {
		if g.Tier == menu.Unsorted || !g.Has(menu.FlagUpdateOrder) {
			continue
		}
		if st.collate.sortRuns(g.Children, g.Tier == menu.FilesAndGroupsSorted) {
			st.summary.Resorted++
			st.log.Debug("resorted group", zap.String("group", g.Title), zap.Stringer("tier", g.Tier))
			st.markChanged("group resorted")
		}
	}
	return nil
}
