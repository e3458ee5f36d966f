package menufile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/skelly-dev/docmenu/internal/menu"
	"github.com/skelly-dev/docmenu/internal/roots"
	"github.com/skelly-dev/docmenu/internal/topics"
)

// frame is an open group on the parse stack.
type frame struct {
	group  *menu.Entry
	braced bool
	line   int
}

type parser struct {
	doc    *Document
	topics Topics

	stack   []frame
	pending *frame

	targets     map[string]bool
	indexTopics map[string]bool
	banned      map[string]bool
	seenHeader  map[string]bool
	pendingPath *string

	line int
	errs error
}

// Parse reads a menu file. Every problem is collected; the returned error
// combines them and can be split with multierr.Errors. The document is
// returned even when there are errors.
func Parse(r io.Reader, t Topics) (*Document, error) {
	doc := &Document{Menu: menu.New()}
	p := &parser{
		doc:         doc,
		topics:      t,
		stack:       []frame{{group: doc.Menu.Root, braced: true}},
		targets:     make(map[string]bool),
		indexTopics: make(map[string]bool),
		banned:      make(map[string]bool),
		seenHeader:  make(map[string]bool),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		p.line++
		p.parseLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return doc, fmt.Errorf("failed to read menu file: %w", err)
	}
	p.finish()

	if doc.Version != CurrentVersion {
		doc.Dirty = true
	}
	return doc, p.errs
}

func (p *parser) errorf(format string, args ...any) {
	p.errs = multierr.Append(p.errs, &ParseError{Line: p.line, Message: fmt.Sprintf(format, args...)})
}

func (p *parser) parseLine(raw string) {
	line := strings.TrimSpace(stripComment(raw))
	if line == "" {
		return
	}
	for _, seg := range splitSegments(line) {
		switch seg.brace {
		case '{':
			p.openBrace()
		case '}':
			p.closeBrace()
		default:
			p.parseTag(seg.text)
		}
	}
}

func (p *parser) top() *menu.Entry {
	return p.stack[len(p.stack)-1].group
}

// settle turns a group that was never followed by "{" into a braceless group.
func (p *parser) settle() {
	if p.pending == nil {
		return
	}
	p.pending.group.Set(menu.FlagBraceless)
	p.stack = append(p.stack, *p.pending)
	p.pending = nil
}

// closeBraceless ends braceless groups at the top of the stack.
func (p *parser) closeBraceless() {
	for len(p.stack) > 1 && !p.stack[len(p.stack)-1].braced {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *parser) openBrace() {
	if p.pending == nil {
		p.errorf("{ must follow a Group line")
		return
	}
	p.pending.braced = true
	p.stack = append(p.stack, *p.pending)
	p.pending = nil
}

func (p *parser) closeBrace() {
	p.settle()
	p.closeBraceless()
	if len(p.stack) == 1 {
		p.errorf("unmatched }")
		return
	}
	p.stack = p.stack[:len(p.stack)-1]
}

func (p *parser) finish() {
	p.settle()
	p.closeBraceless()
	for _, f := range p.stack[1:] {
		p.errs = multierr.Append(p.errs, &ParseError{
			Line:    f.line,
			Message: fmt.Sprintf("group %q is missing its closing }", f.group.Title),
		})
	}
	p.stack = p.stack[:1]
}

func (p *parser) addEntry(e *menu.Entry) {
	p.settle()
	p.top().Append(e)
}

func normalizeKeyword(k string) string {
	k = strings.ReplaceAll(k, "’", "'")
	return strings.ToLower(strings.Join(strings.Fields(k), " "))
}

func (p *parser) parseTag(tag string) {
	keyword, value, ok := strings.Cut(tag, ":")
	if !ok {
		p.errorf("unrecognized line %q", tag)
		return
	}
	keyword = normalizeKeyword(keyword)
	value = strings.TrimSpace(value)

	switch keyword {
	case "format":
		p.parseFormat(value)
	case "title", "subtitle", "sub title", "footer", "copyright", "timestamp":
		p.parseHeader(keyword, value)
	case "file":
		p.parseFile(value)
	case "group":
		p.parseGroup(value)
	case "text":
		if value == "" {
			p.errorf("Text line has no text")
			return
		}
		p.addEntry(menu.NewText(unescape(value)))
	case "link", "url":
		p.parseLink(value)
	case "index":
		p.parseIndex(topics.General, value)
	case "don't index", "dont index":
		p.parseDontIndex(value)
	case "data":
		p.parseDataLine(value)
	default:
		if name, found := strings.CutSuffix(keyword, " index"); found {
			p.parseIndex(name, value)
			return
		}
		p.errorf("unknown keyword %q", keyword)
	}
}

func (p *parser) parseFormat(value string) {
	if !p.doc.Version.IsZero() {
		p.errorf("duplicate Format line")
		return
	}
	major, minor, ok := strings.Cut(value, ".")
	ma, err1 := strconv.Atoi(strings.TrimSpace(major))
	mi, err2 := strconv.Atoi(strings.TrimSpace(minor))
	if !ok || err1 != nil || err2 != nil {
		p.errorf("invalid format version %q", value)
		return
	}
	p.doc.Version = Version{Major: ma, Minor: mi}
}

func (p *parser) parseHeader(keyword, value string) {
	switch keyword {
	case "sub title":
		keyword = "subtitle"
	case "copyright":
		keyword = "footer"
	}
	if p.seenHeader[keyword] {
		p.errorf("duplicate %s line", headerName(keyword))
		return
	}
	p.seenHeader[keyword] = true

	value = unescape(value)
	m := p.doc.Menu
	switch keyword {
	case "title":
		m.Title = value
	case "subtitle":
		if !p.seenHeader["title"] {
			p.errorf("SubTitle must come after Title")
			return
		}
		m.SubTitle = value
	case "footer":
		m.Footer = value
	case "timestamp":
		m.Timestamp = value
	}
}

func headerName(keyword string) string {
	switch keyword {
	case "subtitle":
		return "SubTitle"
	default:
		return strings.ToUpper(keyword[:1]) + keyword[1:]
	}
}

// splitParens splits "title (inner)" on its last parenthesised part.
func splitParens(value string) (title, inner string, ok bool) {
	if !strings.HasSuffix(value, ")") {
		return "", "", false
	}
	open := strings.LastIndexByte(value, '(')
	if open < 0 {
		return "", "", false
	}
	return strings.TrimSpace(value[:open]), strings.TrimSpace(value[open+1 : len(value)-1]), true
}

func (p *parser) parseFile(value string) {
	title, inner, ok := splitParens(value)
	if !ok {
		p.errorf("File line must end with a path in parentheses")
		return
	}
	noAutoTitle := false
	if option, rest, found := strings.Cut(inner, ","); found {
		switch normalizeKeyword(option) {
		case "no auto-title", "no autotitle", "no auto title":
			noAutoTitle = true
			inner = strings.TrimSpace(rest)
		case "auto-title", "autotitle", "auto title":
			inner = strings.TrimSpace(rest)
		}
	}
	target := unescape(inner)
	if target == "" {
		p.errorf("File line has no path")
		return
	}
	if p.targets[target] {
		p.doc.Dirty = true
		return
	}
	p.targets[target] = true
	p.addEntry(menu.NewFile(unescape(title), target, noAutoTitle))
}

func (p *parser) parseGroup(value string) {
	p.settle()
	p.closeBraceless()
	g := menu.NewGroup(unescape(value))
	p.top().Append(g)
	p.pending = &frame{group: g, line: p.line}
}

func (p *parser) parseLink(value string) {
	if value == "" {
		p.errorf("Link line has no URL")
		return
	}
	title, url, ok := splitParens(value)
	if !ok {
		url = value
	}
	if url == "" {
		p.errorf("Link line has no URL")
		return
	}
	if title == "" {
		title = url
	}
	p.addEntry(menu.NewLink(unescape(title), unescape(url)))
}

func (p *parser) parseIndex(name, value string) {
	t, ok := p.topics.Lookup(name)
	if !ok {
		p.errorf("%q is not a valid topic type", name)
		return
	}
	if !t.Index || p.indexTopics[t.Name] {
		p.doc.Dirty = true
		return
	}
	p.indexTopics[t.Name] = true
	title := unescape(value)
	if title == "" {
		title = t.Plural
	}
	p.addEntry(menu.NewIndex(title, t.Name))
}

func (p *parser) parseDontIndex(value string) {
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		t, ok := p.topics.Lookup(name)
		if !ok {
			p.errorf("%q is not a valid topic type", name)
			continue
		}
		if p.banned[t.Name] {
			continue
		}
		p.banned[t.Name] = true
		p.doc.Banned = append(p.doc.Banned, t.Name)
	}
}

// parseDataLine records root layout pairs. Unknown or damaged lines are
// ignored so newer files stay readable.
func (p *parser) parseDataLine(value string) {
	n, payload, err := parseData(value)
	if err != nil {
		return
	}
	switch n {
	case dataRootPath:
		p.pendingPath = &payload
	case dataRootName:
		if p.pendingPath == nil {
			return
		}
		p.doc.Roots = append(p.doc.Roots, roots.Root{Name: payload, Path: *p.pendingPath})
		p.pendingPath = nil
	}
}
