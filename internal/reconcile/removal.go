package reconcile

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/skelly-dev/docmenu/internal/menu"
)

// MassRemovalError reports that a build would drop a large share of the
// menu at once, which usually means the inputs are misconfigured.
type MassRemovalError struct {
	Removed int
	Tracked int
	Ratio   float64
}

func (e *MassRemovalError) Error() string {
	return fmt.Sprintf("build would remove %d of %d tracked files (%.0f%%); check the input directories",
		e.Removed, e.Tracked, e.Ratio*100)
}

// removeDeadFiles drops file entries whose target was not scanned.
func (st *run) removeDeadFiles() error {
	st.trackedBefore = menu.CountFiles(st.root)
	removed := removeWhere(st.root, func(e, _ *menu.Entry) bool {
		return e.IsFile() && !st.scanned[e.Target]
	})
	if removed > 0 {
		st.summary.Removed = removed
		st.log.Debug("removed dead files", zap.Int("removed", removed))
		st.markChanged("files removed")
	}
	return nil
}

// checkRemovalSafety compares the removals against the number of files the
// previous build tracked.
func (st *run) checkRemovalSafety() error {
	removed := st.summary.Removed
	tracked := st.trackedBefore
	if st.in.Previous != nil {
		tracked = len(st.in.Previous.Files)
	}
	if removed == 0 || tracked == 0 || removed < st.opts.RemovalMinimum {
		return nil
	}
	ratio := float64(removed) / float64(tracked)
	if ratio <= st.opts.RemovalRatio {
		return nil
	}

	err := &MassRemovalError{Removed: removed, Tracked: tracked, Ratio: ratio}
	fields := []zap.Field{zap.Int("removed", removed), zap.Int("tracked", tracked), zap.Float64("ratio", ratio)}
	if st.opts.FailOnMassRemoval {
		st.log.Error("refusing mass removal", fields...)
		return err
	}
	st.log.Warn("mass removal", fields...)
	st.massRemoval = err
	return nil
}

// pruneEmptyGroups removes groups without entries, innermost first, so a
// group holding only empty groups goes too.
func (st *run) pruneEmptyGroups() error {
	pruned := pruneEmpty(st.root)
	if pruned > 0 {
		st.summary.GroupsPruned = pruned
		st.log.Debug("pruned empty groups", zap.Int("groups", pruned))
		st.markChanged("groups pruned")
	}
	if st.indexGroup != nil && len(st.indexGroup.Children) == 0 {
		st.indexGroup = nil
	}
	return nil
}

func pruneEmpty(group *menu.Entry) int {
	pruned := 0
	kept := group.Children[:0]
	for _, child := range group.Children {
		if child.IsGroup() {
			pruned += pruneEmpty(child)
			if len(child.Children) == 0 {
				pruned++
				continue
			}
		}
		kept = append(kept, child)
	}
	for i := len(kept); i < len(group.Children); i++ {
		group.Children[i] = nil
	}
	group.Children = kept
	return pruned
}
