package reconcile

import (
	"go.uber.org/zap"

	"github.com/skelly-dev/docmenu/internal/menu"
	"github.com/skelly-dev/docmenu/internal/topics"
)

// banIndexes records indexes the user deleted from the menu file so they
// are not added back, and lifts bans on indexes present in the tree. A
// missing menu file bans nothing.
func (st *run) banIndexes() error {
	present := menu.IndexTopics(st.root)

	if st.in.MenuExists {
		for _, topic := range st.registry.Previous() {
			if present[topic] || st.in.Topics == nil || !st.in.Topics.IsIndexable(topic) {
				continue
			}
			if st.registry.Ban(topic) {
				st.summary.Banned++
				st.log.Debug("banned index", zap.String("topic", topic))
				st.markChanged("index banned")
			}
		}
	}
	for topic := range present {
		if st.registry.Unban(topic) {
			st.summary.Unbanned++
			st.log.Debug("unbanned index", zap.String("topic", topic))
			st.markChanged("index unbanned")
		}
	}
	return nil
}

// detectIndexGroups finds where generated indexes live. A group holding
// nothing but indexes is an index group and the first one receives new
// indexes; otherwise they go next to the first existing index.
func (st *run) detectIndexGroups() error {
	st.indexGroup, st.indexParent = nil, nil
	menu.Walk(st.root, func(e *menu.Entry, parents []*menu.Entry) bool {
		if e.IsIndex() && st.indexParent == nil {
			st.indexParent = parents[len(parents)-1]
		}
		if e.IsGroup() && isIndexGroup(e) {
			e.Set(menu.FlagIndexGroup)
			if st.indexGroup == nil {
				st.indexGroup = e
			}
		}
		return true
	})
	return nil
}

func isIndexGroup(g *menu.Entry) bool {
	if len(g.Children) == 0 {
		return false
	}
	for _, c := range g.Children {
		if !c.IsIndex() {
			return false
		}
	}
	return true
}

// updateIndexes removes indexes whose topic no longer has content and
// duplicates, then adds an index for every indexable topic that is neither
// present nor banned.
func (st *run) updateIndexes() error {
	if st.in.Topics == nil {
		return nil
	}
	seen := make(map[string]bool)
	removed := removeWhere(st.root, func(e, _ *menu.Entry) bool {
		if !e.IsIndex() {
			return false
		}
		if seen[e.Topic] || !st.in.Topics.IsIndexable(e.Topic) {
			return true
		}
		seen[e.Topic] = true
		return false
	})
	if removed > 0 {
		st.summary.IndexesRemoved = removed
		st.log.Debug("removed indexes", zap.Int("indexes", removed))
		st.markChanged("indexes removed")
	}

	for _, topic := range st.in.Topics.AllIndexableTypes() {
		if seen[topic] || st.registry.IsBanned(topic) {
			continue
		}
		title := topic
		if t, ok := st.in.Topics.Lookup(topic); ok {
			title = t.Plural
		}
		e := menu.NewIndex(title, topic)
		e.Set(menu.FlagNew)

		dest := st.indexDestination()
		if first := firstIndex(dest); topic == topics.General && first >= 0 {
			dest.Insert(first, e)
		} else {
			dest.Append(e)
		}
		dest.Set(menu.FlagUpdateOrder)
		seen[topic] = true
		st.summary.IndexesAdded++
		st.log.Debug("added index", zap.String("topic", topic))
		st.markChanged("index added")
	}
	return nil
}

// firstIndex returns the position of the first index entry in g, or -1.
func firstIndex(g *menu.Entry) int {
	for i, c := range g.Children {
		if c.IsIndex() {
			return i
		}
	}
	return -1
}

func (st *run) indexDestination() *menu.Entry {
	switch {
	case st.indexGroup != nil:
		return st.indexGroup
	case st.indexParent != nil:
		return st.indexParent
	}
	g := st.newGroup(st.root, "Index")
	g.Set(menu.FlagIndexGroup)
	st.indexGroup = g
	return g
}
