package reconcile

import (
	"path"
	"sort"

	"go.uber.org/zap"

	"github.com/skelly-dev/docmenu/internal/fileutil"
	"github.com/skelly-dev/docmenu/internal/menu"
)

// DirectoryTitle is the title given to a group created for the files of dir.
func DirectoryTitle(dir string) string {
	return fileutil.Humanize(path.Base(dir))
}

// owner counts how many files of one directory a group holds.
type owner struct {
	group *menu.Entry
	files int
}

// placeNewFiles adds scanned files that are not in the tree yet. Files go
// next to the most siblings from the same directory. Without siblings,
// enough files from one directory get a new group, and the rest are
// appended to the top level.
func (st *run) placeNewFiles() error {
	existing := menu.FileMap(st.root)
	byDir := make(map[string][]string)
	for target := range st.scanned {
		if _, ok := existing[target]; ok {
			continue
		}
		dir := path.Dir(target)
		byDir[dir] = append(byDir[dir], target)
	}
	if len(byDir) == 0 {
		return nil
	}

	owners := make(map[string][]owner)
	for _, v := range menu.Files(st.root) {
		dir := path.Dir(v.Entry.Target)
		parent := v.Parent()
		found := false
		for i := range owners[dir] {
			if owners[dir][i].group == parent {
				owners[dir][i].files++
				found = true
				break
			}
		}
		if !found {
			owners[dir] = append(owners[dir], owner{group: parent, files: 1})
		}
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		files := byDir[dir]
		sort.Strings(files)

		dest := mostSiblings(owners[dir])
		switch {
		case dest != nil:
		case dir != "." && st.opts.MinFilesInNewGroup > 0 && len(files) >= st.opts.MinFilesInNewGroup:
			dest = st.newGroup(st.root, DirectoryTitle(dir))
		default:
			dest = st.root
		}

		for _, target := range files {
			e := menu.NewFile("", target, false)
			e.Set(menu.FlagNew | menu.FlagUpdateTitles)
			dest.Append(e)
		}
		dest.Set(menu.FlagUpdateStructure | menu.FlagUpdateOrder)
		st.summary.Added += len(files)
		st.log.Debug("placed new files", zap.String("dir", dir), zap.Int("files", len(files)), zap.String("group", dest.Title))
	}
	st.markChanged("files added")
	return nil
}

func mostSiblings(owners []owner) *menu.Entry {
	var best *menu.Entry
	most := 0
	for _, o := range owners {
		if o.files > most {
			best, most = o.group, o.files
		}
	}
	return best
}

// newGroup appends a group created by this run to parent.
func (st *run) newGroup(parent *menu.Entry, title string) *menu.Entry {
	g := menu.NewGroup(title)
	g.Set(menu.FlagNew | menu.FlagUpdateStructure | menu.FlagUpdateOrder)
	parent.Append(g)
	parent.Set(menu.FlagUpdateOrder)
	st.created[g] = true
	st.summary.GroupsCreated++
	return g
}

// splitOversizedGroups moves files out of groups that received new files
// and now hold more than MaxFilesInGroup files directly. Files are bucketed
// by directory; the largest bucket stays and every other bucket big enough
// becomes a subgroup.
func (st *run) splitOversizedGroups() error {
	limit := st.opts.MaxFilesInGroup
	if limit <= 0 {
		return nil
	}
	minBucket := max(st.opts.MinFilesInNewGroup, 2)
	groups := append(menu.Groups(st.root), st.root)
	for _, g := range groups {
		if g.Has(menu.FlagUpdateStructure) {
			st.splitGroup(g, limit, minBucket)
		}
	}
	return nil
}

func (st *run) splitGroup(g *menu.Entry, limit, minBucket int) {
	buckets := make(map[string]int)
	var order []string
	files := 0
	for _, c := range g.Children {
		if !c.IsFile() {
			continue
		}
		files++
		dir := path.Dir(c.Target)
		if _, ok := buckets[dir]; !ok {
			order = append(order, dir)
		}
		buckets[dir]++
	}
	if files <= limit || len(order) < 2 {
		return
	}

	keep := order[0]
	for _, dir := range order[1:] {
		if buckets[dir] > buckets[keep] {
			keep = dir
		}
	}

	subs := make(map[string]*menu.Entry)
	fresh := make(map[*menu.Entry]bool)
	for _, dir := range order {
		if dir == keep || buckets[dir] < minBucket {
			continue
		}
		title := DirectoryTitle(dir)
		sub := childGroup(g, title)
		if sub == nil {
			sub = menu.NewGroup(title)
			sub.Set(menu.FlagNew)
			fresh[sub] = true
			st.created[sub] = true
			st.summary.GroupsCreated++
		}
		subs[dir] = sub
	}
	if len(subs) == 0 {
		return
	}

	children := make([]*menu.Entry, 0, len(g.Children))
	for _, c := range g.Children {
		if c.IsFile() {
			if sub, ok := subs[path.Dir(c.Target)]; ok {
				if fresh[sub] {
					children = append(children, sub)
					delete(fresh, sub)
				}
				sub.Append(c)
				sub.Set(menu.FlagUpdateOrder)
				continue
			}
		}
		children = append(children, c)
	}
	g.Children = children
	g.Set(menu.FlagUpdateOrder)
	st.log.Debug("split oversized group", zap.String("group", g.Title), zap.Int("files", files), zap.Int("subgroups", len(subs)))
	st.markChanged("group split")
}

func childGroup(g *menu.Entry, title string) *menu.Entry {
	for _, c := range g.Children {
		if c.IsGroup() && c.Title == title {
			return c
		}
	}
	return nil
}
