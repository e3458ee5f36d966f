// Package roots resolves the input directories a menu is built from and
// converts between absolute file paths and the path identities stored in
// the menu.
//
// An identity is the slash-separated path of a file relative to its input
// root. When more than one root is configured the identity is prefixed with
// the root name, e.g. "api/handlers/user.go".
package roots

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// DefaultName is the name given to a single root that was not named.
const DefaultName = "default"

// Root is one named input directory.
type Root struct {
	Name string
	Path string
}

// Set is the ordered collection of configured input roots.
type Set struct {
	roots []Root
}

// New validates roots and returns them as a Set. Paths are made absolute.
func New(roots ...Root) (*Set, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("at least one input root is required")
	}
	seen := make(map[string]bool, len(roots))
	out := make([]Root, 0, len(roots))
	for _, r := range roots {
		if r.Name == "" {
			r.Name = DefaultName
		}
		if strings.ContainsAny(r.Name, `/\`) {
			return nil, fmt.Errorf("invalid input root name %q", r.Name)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("duplicate input root name %q", r.Name)
		}
		seen[r.Name] = true
		abs, err := filepath.Abs(r.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve input root %q: %w", r.Path, err)
		}
		out = append(out, Root{Name: r.Name, Path: abs})
	}
	return &Set{roots: out}, nil
}

// Parse builds a Set from "name=path" or bare "path" specs. Relative paths
// are resolved against base. Bare paths get DefaultName when they are the
// only root and their directory name otherwise.
func Parse(specs []string, base string) (*Set, error) {
	if len(specs) == 0 {
		specs = []string{"."}
	}
	roots := make([]Root, 0, len(specs))
	for _, spec := range specs {
		name, p, named := strings.Cut(spec, "=")
		if !named {
			p, name = name, ""
		}
		p = strings.TrimSpace(p)
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		name = strings.TrimSpace(name)
		if name == "" && len(specs) > 1 {
			name = filepath.Base(filepath.Clean(p))
		}
		roots = append(roots, Root{Name: name, Path: p})
	}
	return New(roots...)
}

// Roots returns the configured roots in order.
func (s *Set) Roots() []Root {
	return append([]Root(nil), s.roots...)
}

// Resolve returns the directory configured for the named root.
func (s *Set) Resolve(name string) (string, bool) {
	for _, r := range s.roots {
		if r.Name == name {
			return r.Path, true
		}
	}
	return "", false
}

// Multi reports whether identities carry a root-name prefix.
func (s *Set) Multi() bool { return len(s.roots) > 1 }

// NeedsData reports whether the root layout must be recorded in the menu
// file: more than one root, or a single root with a non-default name.
func (s *Set) NeedsData() bool {
	return len(s.roots) > 1 || s.roots[0].Name != DefaultName
}

// Identity returns the menu identity of rel, a path relative to root.
func (s *Set) Identity(root Root, rel string) string {
	rel = cleanSlash(rel)
	if s.Multi() {
		return root.Name + "/" + rel
	}
	return rel
}

// Locate returns the identity of an absolute file path, or false when the
// path is outside every root.
func (s *Set) Locate(abs string) (string, bool) {
	for _, r := range s.roots {
		rel, err := filepath.Rel(r.Path, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return s.Identity(r, filepath.ToSlash(rel)), true
	}
	return "", false
}

// Absolute returns the file path of an identity.
func (s *Set) Absolute(identity string) (string, bool) {
	if !s.Multi() {
		return filepath.Join(s.roots[0].Path, filepath.FromSlash(identity)), true
	}
	name, rest, ok := strings.Cut(identity, "/")
	if !ok {
		return "", false
	}
	dir, ok := s.Resolve(name)
	if !ok {
		return "", false
	}
	return filepath.Join(dir, filepath.FromSlash(rest)), true
}

// Canonical converts a target read from a menu file into the current
// identity form. previous is the root layout recorded when the menu was
// written; it lets targets follow a root that was renamed, or a switch
// between single and multiple roots. Absolute targets, "./" prefixes and
// backslash separators are normalized. It returns false for targets that
// cannot belong to any current root.
func (s *Set) Canonical(target string, previous []Root) (string, bool) {
	if target == "" {
		return "", false
	}
	if filepath.IsAbs(target) || isWindowsAbs(target) {
		return s.Locate(filepath.Clean(target))
	}
	target = cleanSlash(target)

	if len(previous) > 0 {
		if id, ok := s.remap(target, previous); ok {
			return id, true
		}
	}
	if !s.Multi() {
		return target, true
	}
	name, _, _ := strings.Cut(target, "/")
	if _, ok := s.Resolve(name); ok {
		return target, true
	}
	return "", false
}

func (s *Set) remap(target string, previous []Root) (string, bool) {
	var old Root
	rest := target
	if len(previous) == 1 {
		old = previous[0]
	} else {
		name, r, ok := strings.Cut(target, "/")
		if !ok {
			return "", false
		}
		found := false
		for _, p := range previous {
			if p.Name == name {
				old, found = p, true
				break
			}
		}
		if !found {
			return "", false
		}
		rest = r
	}
	if old.Path == "" {
		return "", false
	}
	for _, r := range s.roots {
		if samePath(r.Path, old.Path) {
			return s.Identity(r, rest), true
		}
	}
	return "", false
}

func cleanSlash(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = path.Clean(p)
	return strings.TrimPrefix(p, "./")
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func isWindowsAbs(p string) bool {
	return len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/')
}
