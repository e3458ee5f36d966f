package languages

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/skelly-dev/docmenu/internal/parser"
)

// GoParser implements parsing for Go source files
type GoParser struct {
	parser *sitter.Parser
}

// NewGoParser creates a new Go parser
func NewGoParser() *GoParser {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	return &GoParser{parser: p}
}

func (g *GoParser) Language() string {
	return "go"
}

func (g *GoParser) Extensions() []string {
	return []string{".go"}
}

func (g *GoParser) Parse(filename string, content []byte) (*parser.FileDoc, error) {
	tree, err := g.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	result := &parser.FileDoc{
		Path:     filename,
		Language: "go",
		Doc:      leadingComment(root, content, true),
		Symbols:  make([]parser.Symbol, 0),
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		g.extractSymbols(root.NamedChild(i), content, result)
	}

	return result, nil
}

func (g *GoParser) extractSymbols(node *sitter.Node, content []byte, result *parser.FileDoc) {
	switch node.Type() {
	case "function_declaration":
		g.add(result, node, content, parser.SymbolFunction)

	case "method_declaration":
		g.add(result, node, content, parser.SymbolMethod)

	case "type_declaration":
		for _, spec := range specs(node, "type_spec", "type_alias") {
			kind := parser.SymbolType
			if typeNode := spec.ChildByFieldName("type"); typeNode != nil {
				switch typeNode.Type() {
				case "struct_type":
					kind = parser.SymbolStruct
				case "interface_type":
					kind = parser.SymbolInterface
				}
			}
			g.add(result, spec, content, kind)
		}

	case "const_declaration":
		for _, spec := range specs(node, "const_spec") {
			g.add(result, spec, content, parser.SymbolConstant)
		}

	case "var_declaration":
		for _, spec := range specs(node, "var_spec") {
			g.add(result, spec, content, parser.SymbolVariable)
		}
	}
}

func (g *GoParser) add(result *parser.FileDoc, node *sitter.Node, content []byte, kind parser.SymbolKind) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	result.Symbols = append(result.Symbols, parser.Symbol{
		Name: nameNode.Content(content),
		Kind: kind,
		Line: line(node),
	})
}

// specs collects the spec nodes of a declaration, looking through the
// parenthesized list forms.
func specs(node *sitter.Node, types ...string) []*sitter.Node {
	out := make([]*sitter.Node, 0)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		matched := false
		for _, t := range types {
			if child.Type() == t {
				matched = true
				break
			}
		}
		if matched {
			out = append(out, child)
			continue
		}
		out = append(out, specs(child, types...)...)
	}
	return out
}
