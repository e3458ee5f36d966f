// Package topics is the registry of topic types the scanner can classify
// source documentation into, and of which of them get a generated index.
package topics

import (
	"sort"
	"strings"
)

// General is the topic type of the index that lists everything.
const General = "general"

// NoLegacyCode marks types that did not exist when snapshots stored topic
// types as numbers.
const NoLegacyCode = -1

// Type describes one topic type.
type Type struct {
	Name       string // canonical, lower case
	Display    string // singular form used in "<Display> Index:" lines
	Plural     string // used for index titles and "Don't Index:" lists
	Index      bool   // whether an index may be generated for it
	LegacyCode int
}

// Registry resolves topic type names and tracks which types have content in
// the current scan.
type Registry struct {
	types   []Type
	byName  map[string]int
	byCode  map[int]int
	present map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]int),
		byCode:  make(map[int]int),
		present: make(map[string]bool),
	}
}

// NewDefaultRegistry returns a registry with the built-in topic types.
// Legacy codes follow the numeric encoding of snapshot formats before 1.3.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Type{Name: General, Display: "General", Plural: "Everything", Index: true, LegacyCode: 0})
	r.Register(Type{Name: "class", Display: "Class", Plural: "Classes", Index: true, LegacyCode: 1})
	r.Register(Type{Name: "section", Display: "Section", Plural: "Sections", Index: false, LegacyCode: 2})
	r.Register(Type{Name: "file", Display: "File", Plural: "Files", Index: true, LegacyCode: 3})
	r.Register(Type{Name: "group", Display: "Group", Plural: "Groups", Index: false, LegacyCode: 4})
	r.Register(Type{Name: "function", Display: "Function", Plural: "Functions", Index: true, LegacyCode: 5})
	r.Register(Type{Name: "variable", Display: "Variable", Plural: "Variables", Index: true, LegacyCode: 6})
	r.Register(Type{Name: "generic", Display: "Generic", Plural: "Generics", Index: false, LegacyCode: 7})
	r.Register(Type{Name: "type", Display: "Type", Plural: "Types", Index: true, LegacyCode: 8})
	r.Register(Type{Name: "constant", Display: "Constant", Plural: "Constants", Index: true, LegacyCode: 9})
	r.Register(Type{Name: "property", Display: "Property", Plural: "Properties", Index: true, LegacyCode: 10})
	r.Register(Type{Name: "method", Display: "Method", Plural: "Methods", Index: true, LegacyCode: NoLegacyCode})
	r.Register(Type{Name: "interface", Display: "Interface", Plural: "Interfaces", Index: true, LegacyCode: NoLegacyCode})
	r.Register(Type{Name: "struct", Display: "Struct", Plural: "Structs", Index: true, LegacyCode: NoLegacyCode})
	r.Register(Type{Name: "module", Display: "Module", Plural: "Modules", Index: true, LegacyCode: NoLegacyCode})
	return r
}

// Register adds or replaces a topic type.
func (r *Registry) Register(t Type) {
	t.Name = normalize(t.Name)
	if t.Display == "" {
		t.Display = t.Name
	}
	if t.Plural == "" {
		t.Plural = t.Display + "s"
	}

	i, exists := r.byName[t.Name]
	if exists && r.types[i].Name == t.Name {
		r.types[i] = t
	} else {
		r.types = append(r.types, t)
		i = len(r.types) - 1
	}
	for _, alias := range []string{t.Name, normalize(t.Display), normalize(t.Plural)} {
		r.byName[alias] = i
	}
	if t.LegacyCode != NoLegacyCode {
		r.byCode[t.LegacyCode] = i
	}
}

// Lookup resolves a name, display name or plural, ignoring case and
// repeated whitespace.
func (r *Registry) Lookup(name string) (Type, bool) {
	i, ok := r.byName[normalize(name)]
	if !ok {
		return Type{}, false
	}
	return r.types[i], true
}

// Canonical returns the canonical name of a type given any accepted
// spelling.
func (r *Registry) Canonical(name string) (string, bool) {
	t, ok := r.Lookup(name)
	return t.Name, ok
}

func (r *Registry) IsValidType(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// FromLegacyCode translates the numeric topic codes of old snapshots.
func (r *Registry) FromLegacyCode(code int) (Type, bool) {
	i, ok := r.byCode[code]
	if !ok {
		return Type{}, false
	}
	return r.types[i], true
}

// IndexEnabled reports whether the type may have an index at all.
func (r *Registry) IndexEnabled(name string) bool {
	t, ok := r.Lookup(name)
	return ok && t.Index
}

// SetIndex turns index generation for a type on or off.
func (r *Registry) SetIndex(name string, enabled bool) bool {
	i, ok := r.byName[normalize(name)]
	if !ok {
		return false
	}
	r.types[i].Index = enabled
	return true
}

// Observe records that the scan produced at least one topic of the type.
func (r *Registry) Observe(name string) {
	if t, ok := r.Lookup(name); ok {
		r.present[t.Name] = true
	}
}

// ResetObservations forgets everything recorded by Observe.
func (r *Registry) ResetObservations() {
	r.present = make(map[string]bool)
}

// IsIndexable reports whether an index for the type should exist right now:
// indexing is enabled for it and the scan found content of that type. The
// general index is indexable whenever any content was found.
func (r *Registry) IsIndexable(name string) bool {
	t, ok := r.Lookup(name)
	if !ok || !t.Index {
		return false
	}
	if t.Name == General {
		return len(r.present) > 0
	}
	return r.present[t.Name]
}

// AllIndexableTypes returns every indexable type, general first and the
// rest by name.
func (r *Registry) AllIndexableTypes() []string {
	out := make([]string, 0, len(r.types))
	for _, t := range r.types {
		if r.IsIndexable(t.Name) {
			out = append(out, t.Name)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i] == General || out[j] == General {
			return out[i] == General && out[j] != General
		}
		return out[i] < out[j]
	})
	return out
}

// Types returns all registered types in registration order.
func (r *Registry) Types() []Type {
	return append([]Type(nil), r.types...)
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
