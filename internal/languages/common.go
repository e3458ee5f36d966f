package languages

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

// leadingComment returns the text of the comment block at the top of a
// file. With adjacent set, only the block directly above the first
// declaration counts, which skips license headers separated by a blank line.
func leadingComment(root *sitter.Node, content []byte, adjacent bool) string {
	var block []*sitter.Node
	var first *sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "comment" {
			first = child
			break
		}
		if len(block) > 0 && child.StartPoint().Row > block[len(block)-1].EndPoint().Row+1 {
			if !adjacent {
				break
			}
			block = block[:0]
		}
		block = append(block, child)
	}
	if len(block) == 0 {
		return ""
	}
	if adjacent {
		last := block[len(block)-1]
		if first == nil || first.StartPoint().Row != last.EndPoint().Row+1 {
			return ""
		}
	}

	lines := make([]string, 0, len(block))
	for _, c := range block {
		lines = append(lines, cleanComment(c.Content(content))...)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// cleanComment strips comment markers from one comment node and drops
// interpreter and encoding directives.
func cleanComment(raw string) []string {
	raw = strings.TrimSpace(raw)
	block := false
	switch {
	case strings.HasPrefix(raw, "/*"):
		raw = strings.TrimSuffix(strings.TrimLeft(raw[2:], "*"), "*/")
		block = true
	case strings.HasPrefix(raw, "=begin"):
		raw = strings.TrimSuffix(strings.TrimPrefix(raw, "=begin"), "=end")
		block = true
	}

	out := make([]string, 0)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if block {
			line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		} else {
			switch {
			case strings.HasPrefix(line, "//"):
				line = strings.TrimLeft(line, "/")
			case strings.HasPrefix(line, "#"):
				if strings.HasPrefix(line, "#!") {
					continue
				}
				line = strings.TrimLeft(line, "#")
			}
			line = strings.TrimSpace(line)
		}
		if isDirective(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func isDirective(line string) bool {
	lower := strings.ToLower(line)
	return strings.HasPrefix(lower, "frozen_string_literal:") ||
		strings.HasPrefix(lower, "-*-") ||
		strings.HasPrefix(lower, "eslint-") ||
		strings.HasPrefix(lower, "@ts-") ||
		strings.HasPrefix(lower, "go:build") ||
		strings.HasPrefix(lower, "+build")
}

// trimQuotes removes Python string prefixes and quotes.
func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return strings.ContainsRune("rRuUbBfF", r)
	})
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(s) >= 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

// dedentLines trims the common indentation of docstring continuation lines.
func dedentLines(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func isUpperName(name string) bool {
	hasLetter := false
	for _, r := range name {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}
