package languages

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/skelly-dev/docmenu/internal/parser"
)

// PythonParser implements parsing for Python source files
type PythonParser struct {
	parser *sitter.Parser
}

// NewPythonParser creates a new Python parser
func NewPythonParser() *PythonParser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &PythonParser{parser: p}
}

func (p *PythonParser) Language() string {
	return "python"
}

func (p *PythonParser) Extensions() []string {
	return []string{".py", ".pyw"}
}

func (p *PythonParser) Parse(filename string, content []byte) (*parser.FileDoc, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	result := &parser.FileDoc{
		Path:     filename,
		Language: "python",
		Doc:      moduleDocstring(root, content),
		Symbols:  make([]parser.Symbol, 0),
	}
	if result.Doc == "" {
		result.Doc = leadingComment(root, content, false)
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		p.extractSymbols(root.NamedChild(i), content, result, false)
	}

	return result, nil
}

func (p *PythonParser) extractSymbols(node *sitter.Node, content []byte, result *parser.FileDoc, inClass bool) {
	switch node.Type() {
	case "decorated_definition":
		if def := node.ChildByFieldName("definition"); def != nil {
			p.extractSymbols(def, content, result, inClass)
		}

	case "function_definition":
		kind := parser.SymbolFunction
		if inClass {
			kind = parser.SymbolMethod
		}
		addNamed(result, node, content, kind)

	case "class_definition":
		addNamed(result, node, content, parser.SymbolClass)
		if body := node.ChildByFieldName("body"); body != nil {
			for i := 0; i < int(body.NamedChildCount()); i++ {
				p.extractSymbols(body.NamedChild(i), content, result, true)
			}
		}

	case "expression_statement":
		if inClass {
			return
		}
		assign := node.NamedChild(0)
		if assign == nil || assign.Type() != "assignment" {
			return
		}
		left := assign.ChildByFieldName("left")
		if left == nil || left.Type() != "identifier" {
			return
		}
		name := left.Content(content)
		kind := parser.SymbolVariable
		if isUpperName(name) {
			kind = parser.SymbolConstant
		}
		result.Symbols = append(result.Symbols, parser.Symbol{Name: name, Kind: kind, Line: line(node)})
	}
}

func moduleDocstring(root *sitter.Node, content []byte) string {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		if child.Type() != "expression_statement" {
			return ""
		}
		str := child.NamedChild(0)
		if str == nil || str.Type() != "string" {
			return ""
		}
		return dedentLines(trimQuotes(str.Content(content)))
	}
	return ""
}

func addNamed(result *parser.FileDoc, node *sitter.Node, content []byte, kind parser.SymbolKind) {
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
