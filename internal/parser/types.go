package parser

// SymbolKind is the kind of a documented symbol. Its String form is the
// topic type name the scanner reports to the topic registry.
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolMethod
	SymbolClass
	SymbolStruct
	SymbolInterface
	SymbolModule
	SymbolConstant
	SymbolVariable
	SymbolType
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolMethod:
		return "method"
	case SymbolClass:
		return "class"
	case SymbolStruct:
		return "struct"
	case SymbolInterface:
		return "interface"
	case SymbolModule:
		return "module"
	case SymbolConstant:
		return "constant"
	case SymbolVariable:
		return "variable"
	case SymbolType:
		return "type"
	default:
		return "unknown"
	}
}

// Symbol is a named declaration found in a source file.
type Symbol struct {
	Name string
	Kind SymbolKind
	Line int
}

// FileDoc is what a language parser extracts from one file: the leading
// documentation comment and the declared symbols.
type FileDoc struct {
	Path     string // slash-separated, relative to the walked root
	Language string
	Hash     string
	Doc      string // leading comment with comment markers removed
	Symbols  []Symbol
}

// Kinds returns the distinct symbol kinds of the file in declaration order.
func (f *FileDoc) Kinds() []SymbolKind {
	seen := make(map[SymbolKind]bool)
	out := make([]SymbolKind, 0)
	for _, s := range f.Symbols {
		if seen[s.Kind] {
			continue
		}
		seen[s.Kind] = true
		out = append(out, s.Kind)
	}
	return out
}

// ParseIssue is a non-fatal problem met while parsing a directory.
type ParseIssue struct {
	File     string `json:"file"`
	Language string `json:"language,omitempty"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ParseResult holds the files of one walked directory.
type ParseResult struct {
	RootPath string
	Files    []FileDoc
	Issues   []ParseIssue
}
