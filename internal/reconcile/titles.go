package reconcile

import (
	"go.uber.org/zap"

	"github.com/skelly-dev/docmenu/internal/menu"
	"github.com/skelly-dev/docmenu/internal/timestamp"
)

// detectDayRollover forces a rewrite when a timestamp is shown and the
// previous build was on another day.
func (st *run) detectDayRollover() error {
	if st.menu.Timestamp == "" || st.in.Previous == nil || st.in.PreviousModTime.IsZero() {
		return nil
	}
	if !timestamp.SameDay(st.in.PreviousModTime, st.opts.Now(), st.opts.Location) {
		st.markChanged("timestamp day rollover")
	}
	return nil
}

// lockEditedTitles treats a title that differs from the previous build as
// a user edit and protects it from regeneration.
func (st *run) lockEditedTitles() error {
	for _, v := range menu.Files(st.root) {
		e := v.Entry
		if e.NoAutoTitle() || e.Title == "" {
			continue
		}
		prev, ok := st.prevFiles[e.Target]
		if !ok || prev.Title == e.Title {
			continue
		}
		e.Set(menu.FlagNoAutoTitle)
		st.summary.Locked++
		st.log.Debug("locked edited title", zap.String("target", e.Target), zap.String("title", e.Title))
		st.markChanged("title edited")
	}
	return nil
}

// flagTitles marks the files whose titles should be regenerated: all of
// them when the menu file was edited since the last build or there is no
// previous build, otherwise those whose default title changed.
func (st *run) flagTitles() error {
	all := st.in.Previous == nil
	if !all && st.in.MenuExists && st.in.MenuModTime.After(st.in.PreviousModTime) {
		all = true
		st.markChanged("menu file edited")
	}
	for _, v := range menu.Files(st.root) {
		e := v.Entry
		if all || e.Title == "" || (st.in.Scanner != nil && st.in.Scanner.DefaultTitleChanged(e.Target)) {
			e.Set(menu.FlagUpdateTitles)
		}
	}
	return nil
}

// generateTitles applies default titles to flagged files the user has not
// locked.
func (st *run) generateTitles() error {
	if st.in.Scanner == nil {
		return nil
	}
	for _, v := range menu.Files(st.root) {
		e := v.Entry
		if !e.Has(menu.FlagUpdateTitles) {
			continue
		}
		if e.NoAutoTitle() && e.Title != "" {
			continue
		}
		title := st.in.Scanner.DefaultTitle(e.Target)
		if title == "" || title == e.Title {
			continue
		}
		e.Title = title
		v.Parent().Set(menu.FlagUpdateOrder)
		st.summary.Retitled++
		st.markChanged("title regenerated")
	}
	return nil
}
