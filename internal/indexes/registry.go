// Package indexes tracks which generated indexes are active in the menu,
// which were active after the previous build, and which the user banned.
package indexes

import "sort"

type set map[string]struct{}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Registry is the index bookkeeping for one build. Topic types are stored
// in canonical form.
type Registry struct {
	active   set
	previous set
	banned   set
}

func New() *Registry {
	return &Registry{
		active:   make(set),
		previous: make(set),
		banned:   make(set),
	}
}

// SetActive replaces the active set.
func (r *Registry) SetActive(topics []string) {
	r.active = make(set, len(topics))
	for _, t := range topics {
		r.active[t] = struct{}{}
	}
}

// SetPrevious replaces the set of indexes that existed after the last build.
func (r *Registry) SetPrevious(topics []string) {
	r.previous = make(set, len(topics))
	for _, t := range topics {
		r.previous[t] = struct{}{}
	}
}

// Ban records that the user does not want an index for topic. It returns
// false if the topic was already banned.
func (r *Registry) Ban(topic string) bool {
	if _, ok := r.banned[topic]; ok {
		return false
	}
	r.banned[topic] = struct{}{}
	return true
}

// Unban lifts a ban. It returns false if the topic was not banned.
func (r *Registry) Unban(topic string) bool {
	if _, ok := r.banned[topic]; !ok {
		return false
	}
	delete(r.banned, topic)
	return true
}

func (r *Registry) IsActive(topic string) bool {
	_, ok := r.active[topic]
	return ok
}

func (r *Registry) WasActive(topic string) bool {
	_, ok := r.previous[topic]
	return ok
}

func (r *Registry) IsBanned(topic string) bool {
	_, ok := r.banned[topic]
	return ok
}

func (r *Registry) Active() []string   { return r.active.sorted() }
func (r *Registry) Previous() []string { return r.previous.sorted() }
func (r *Registry) Banned() []string   { return r.banned.sorted() }
