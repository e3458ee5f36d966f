package menufile

import "strings"

var (
	escaper = strings.NewReplacer(
		"&", "&amp;",
		"(", "&lparen;",
		")", "&rparen;",
		"{", "&lbrace;",
		"}", "&rbrace;",
		"#", "##",
	)
	unescaper = strings.NewReplacer(
		"&amp;", "&",
		"&lparen;", "(",
		"&rparen;", ")",
		"&lbrace;", "{",
		"&rbrace;", "}",
	)
)

// escape prepares free text for writing. Comment markers are doubled.
func escape(s string) string { return escaper.Replace(s) }

// unescape reverses escape for text that already had its comments removed.
func unescape(s string) string { return unescaper.Replace(s) }

// stripComment removes a trailing comment from line, turning "##" into a
// literal "#".
func stripComment(line string) string {
	if !strings.Contains(line, "#") {
		return line
	}
	var b strings.Builder
	for i := 0; i < len(line); i++ {
		if line[i] != '#' {
			b.WriteByte(line[i])
			continue
		}
		if i+1 < len(line) && line[i+1] == '#' {
			b.WriteByte('#')
			i++
			continue
		}
		break
	}
	return b.String()
}

// segment is a piece of a line: a tag, or one of the braces.
type segment struct {
	text  string
	brace byte
}

// splitSegments breaks a comment-free line on unescaped braces.
func splitSegments(line string) []segment {
	var out []segment
	start := 0
	flush := func(end int) {
		if t := strings.TrimSpace(line[start:end]); t != "" {
			out = append(out, segment{text: t})
		}
	}
	for i := 0; i < len(line); i++ {
		if line[i] == '{' || line[i] == '}' {
			flush(i)
			out = append(out, segment{brace: line[i]})
			start = i + 1
		}
	}
	flush(len(line))
	return out
}
