package languages

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/skelly-dev/docmenu/internal/parser"
)

// TypeScriptParser implements parsing for TypeScript/JavaScript source files
type TypeScriptParser struct {
	tsParser *sitter.Parser
	jsParser *sitter.Parser
}

// NewTypeScriptParser creates a new TypeScript/JavaScript parser
func NewTypeScriptParser() *TypeScriptParser {
	ts := sitter.NewParser()
	ts.SetLanguage(typescript.GetLanguage())

	js := sitter.NewParser()
	js.SetLanguage(javascript.GetLanguage())

	return &TypeScriptParser{
		tsParser: ts,
		jsParser: js,
	}
}

func (t *TypeScriptParser) Language() string {
	return "typescript"
}

func (t *TypeScriptParser) Extensions() []string {
	return []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}
}

func (t *TypeScriptParser) Parse(filename string, content []byte) (*parser.FileDoc, error) {
	// Choose parser based on extension
	p := t.tsParser
	lang := "typescript"
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		p = t.jsParser
		lang = "javascript"
	}

	tree, err := p.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	result := &parser.FileDoc{
		Path:     filename,
		Language: lang,
		Doc:      leadingComment(root, content, false),
		Symbols:  make([]parser.Symbol, 0),
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		t.extractSymbols(root.NamedChild(i), content, result)
	}

	return result, nil
}

func (t *TypeScriptParser) extractSymbols(node *sitter.Node, content []byte, result *parser.FileDoc) {
	switch node.Type() {
	case "function_declaration", "generator_function_declaration":
		addNamed(result, node, content, parser.SymbolFunction)

	case "method_definition":
		addNamed(result, node, content, parser.SymbolMethod)

	case "class_declaration", "abstract_class_declaration":
		addNamed(result, node, content, parser.SymbolClass)
		if body := node.ChildByFieldName("body"); body != nil {
			for i := 0; i < int(body.NamedChildCount()); i++ {
				t.extractSymbols(body.NamedChild(i), content, result)
			}
		}

	case "interface_declaration":
		addNamed(result, node, content, parser.SymbolInterface)

	case "type_alias_declaration", "enum_declaration":
		addNamed(result, node, content, parser.SymbolType)

	case "internal_module", "module":
		addNamed(result, node, content, parser.SymbolModule)

	case "lexical_declaration", "variable_declaration":
		t.extractVariables(node, content, result)

	case "export_statement":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			t.extractSymbols(node.NamedChild(i), content, result)
		}
	}
}

func (t *TypeScriptParser) extractVariables(node *sitter.Node, content []byte, result *parser.FileDoc) {
	constant := node.Type() == "lexical_declaration" && node.ChildCount() > 0 &&
		node.Child(0).Content(content) == "const"

	for i := 0; i < int(node.NamedChildCount()); i++ {
		decl := node.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil || nameNode.Type() != "identifier" {
			continue
		}

		kind := parser.SymbolVariable
		if constant {
			kind = parser.SymbolConstant
		}
		if value := decl.ChildByFieldName("value"); value != nil {
			switch value.Type() {
			case "arrow_function", "function", "function_expression":
				kind = parser.SymbolFunction
			}
		}
		result.Symbols = append(result.Symbols, parser.Symbol{
			Name: nameNode.Content(content),
			Kind: kind,
			Line: line(decl),
		})
	}
}
