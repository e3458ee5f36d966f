package reconcile

import (
	"go.uber.org/zap"

	"github.com/skelly-dev/docmenu/internal/menu"
)

// resolveTargets rewrites file targets into their current identity and
// drops entries that resolve to a target already in the tree.
func (st *run) resolveTargets() error {
	if st.in.Resolver == nil {
		return nil
	}
	seen := make(map[string]bool)
	rewritten := 0
	dropped := removeWhere(st.root, func(e, _ *menu.Entry) bool {
		if !e.IsFile() {
			return false
		}
		if id, ok := st.in.Resolver.Canonical(e.Target, st.in.DataRoots); ok && id != e.Target {
			e.Target = id
			rewritten++
		}
		if seen[e.Target] {
			return true
		}
		seen[e.Target] = true
		return false
	})
	if rewritten > 0 || dropped > 0 {
		st.log.Debug("resolved targets", zap.Int("rewritten", rewritten), zap.Int("duplicates", dropped))
		st.markChanged("file targets resolved")
	}
	return nil
}
