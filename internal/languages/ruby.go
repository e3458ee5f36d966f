package languages

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/skelly-dev/docmenu/internal/parser"
)

// RubyParser implements parsing for Ruby source files
type RubyParser struct {
	parser *sitter.Parser
}

// NewRubyParser creates a new Ruby parser
func NewRubyParser() *RubyParser {
	p := sitter.NewParser()
	p.SetLanguage(ruby.GetLanguage())
	return &RubyParser{parser: p}
}

func (r *RubyParser) Language() string {
	return "ruby"
}

func (r *RubyParser) Extensions() []string {
	return []string{".rb", ".rake", ".gemspec"}
}

func (r *RubyParser) Parse(filename string, content []byte) (*parser.FileDoc, error) {
	tree, err := r.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	result := &parser.FileDoc{
		Path:     filename,
		Language: "ruby",
		Doc:      leadingComment(root, content, false),
		Symbols:  make([]parser.Symbol, 0),
	}

	r.extractSymbols(root, content, result)

	return result, nil
}

func (r *RubyParser) extractSymbols(node *sitter.Node, content []byte, result *parser.FileDoc) {
	switch node.Type() {
	case "method", "singleton_method":
		addNamed(result, node, content, parser.SymbolMethod)
		return

	case "class":
		addNamed(result, node, content, parser.SymbolClass)

	case "module":
		addNamed(result, node, content, parser.SymbolModule)

	case "assignment":
		if left := node.ChildByFieldName("left"); left != nil && left.Type() == "constant" {
			result.Symbols = append(result.Symbols, parser.Symbol{
				Name: left.Content(content),
				Kind: parser.SymbolConstant,
				Line: line(node),
			})
		}
		return
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		r.extractSymbols(node.NamedChild(i), content, result)
	}
}
