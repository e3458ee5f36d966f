package reconcile

import (
	"github.com/skelly-dev/docmenu/internal/indexes"
	"github.com/skelly-dev/docmenu/internal/menu"
)

// Summary counts what a run did.
type Summary struct {
	Added          int `json:"added"`
	Removed        int `json:"removed"`
	Retitled       int `json:"retitled"`
	Locked         int `json:"locked_titles"`
	GroupsCreated  int `json:"groups_created"`
	GroupsPruned   int `json:"groups_pruned"`
	IndexesAdded   int `json:"indexes_added"`
	IndexesRemoved int `json:"indexes_removed"`
	Banned         int `json:"indexes_banned"`
	Unbanned       int `json:"indexes_unbanned"`
	Resorted       int `json:"groups_resorted"`
}

// Result is the reconciled menu and its index bookkeeping. The accessors
// are read-only views for renderers.
type Result struct {
	menu     *menu.Menu
	registry *indexes.Registry
	changed  bool

	Summary Summary
	// MassRemoval is set when the run removed a suspicious share of the
	// menu but was allowed to continue.
	MassRemoval *MassRemovalError
}

// Menu returns the reconciled menu.
func (r *Result) Menu() *menu.Menu { return r.menu }

// Content returns the top-level entries.
func (r *Result) Content() []*menu.Entry { return r.menu.Content() }

func (r *Result) Title() (string, bool) {
	return r.menu.Title, r.menu.Title != ""
}

// SubTitle is only reported alongside a title.
func (r *Result) SubTitle() (string, bool) {
	if r.menu.Title == "" || r.menu.SubTitle == "" {
		return "", false
	}
	return r.menu.SubTitle, true
}

func (r *Result) Footer() (string, bool) {
	return r.menu.Footer, r.menu.Footer != ""
}

func (r *Result) TimestampPattern() (string, bool) {
	return r.menu.Timestamp, r.menu.Timestamp != ""
}

func (r *Result) ActiveIndexes() []string   { return r.registry.Active() }
func (r *Result) PreviousIndexes() []string { return r.registry.Previous() }
func (r *Result) BannedIndexes() []string   { return r.registry.Banned() }

// HasChanged reports whether the menu file and snapshot need writing.
func (r *Result) HasChanged() bool { return r.changed }
