package parser

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

type mockParser struct {
	lang string
	exts []string
}

func (m mockParser) Language() string {
	return m.lang
}

func (m mockParser) Extensions() []string {
	return m.exts
}

func (m mockParser) Parse(filename string, content []byte) (*FileDoc, error) {
	return &FileDoc{
		Path:     filename,
		Language: m.lang,
		Doc:      "  " + string(content) + "\n",
		Symbols: []Symbol{
			{Name: "mock", Kind: SymbolFunction, Line: 2},
			{Name: "mock", Kind: SymbolFunction, Line: 2},
			{Name: "Thing", Kind: SymbolType, Line: 1},
			{Name: " ", Kind: SymbolVariable, Line: 3},
		},
	}, nil
}

func TestRegistryGetParserForFile(t *testing.T) {
	r := NewRegistry()
	r.Register(mockParser{lang: "mock", exts: []string{".mock"}})

	p, ok := r.GetParserForFile("demo.MOCK")
	if !ok {
		t.Fatalf("expected parser for .MOCK extension")
	}
	if p.Language() != "mock" {
		t.Fatalf("expected language mock, got %s", p.Language())
	}
	if _, ok := r.GetParserForFile("demo.txt"); ok {
		t.Fatalf("expected no parser for .txt")
	}
}

func TestParseFileNormalizes(t *testing.T) {
	root := t.TempDir()
	r := NewRegistry()
	r.Register(mockParser{lang: "mock", exts: []string{".mock"}})

	path := filepath.Join(root, "a.mock")
	mustWriteFile(t, path, "Package a.")

	doc, err := r.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if doc.Doc != "Package a." {
		t.Fatalf("expected trimmed doc, got %q", doc.Doc)
	}
	if len(doc.Symbols) != 2 || doc.Symbols[0].Name != "Thing" || doc.Symbols[1].Name != "mock" {
		t.Fatalf("unexpected symbols %+v", doc.Symbols)
	}
	if doc.Hash == "" {
		t.Fatalf("expected content hash")
	}
	kinds := doc.Kinds()
	if len(kinds) != 2 || kinds[0] != SymbolType || kinds[1] != SymbolFunction {
		t.Fatalf("unexpected kinds %v", kinds)
	}

	unsupported, err := r.ParseFile(filepath.Join(root, "missing.txt"))
	if err != nil || unsupported != nil {
		t.Fatalf("expected nil, nil for unsupported file, got %v, %v", unsupported, err)
	}
}

func TestParseDirectoryRespectsIgnoreRules(t *testing.T) {
	root := t.TempDir()
	r := NewRegistry()
	r.Register(mockParser{lang: "mock", exts: []string{".mock"}})

	mustWriteFile(t, filepath.Join(root, "keep.mock"), "ok")
	mustWriteFile(t, filepath.Join(root, "notes.txt"), "skip")
	mustWriteFile(t, filepath.Join(root, "skip", "ignored.mock"), "x")
	mustWriteFile(t, filepath.Join(root, "skip", "include.mock"), "y")
	mustWriteFile(t, filepath.Join(root, ".docmenu", "hidden.mock"), "z")

	result, err := r.ParseDirectory(root, []string{
		"skip/*",
		"!skip/include.mock",
	})
	if err != nil {
		t.Fatalf("ParseDirectory failed: %v", err)
	}

	got := make([]string, 0, len(result.Files))
	for _, file := range result.Files {
		got = append(got, file.Path)
	}
	sort.Strings(got)

	want := []string{"keep.mock", "skip/include.mock"}
	if len(got) != len(want) {
		t.Fatalf("expected %d parsed files, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFirstSentence(t *testing.T) {
	cases := map[string]string{
		"":                                     "",
		"Package store keeps records.":         "Package store keeps records",
		"Parses the\nmenu file. Then more.":    "Parses the menu file",
		"No period here":                       "No period here",
		"Version 1.4 format.\n\nDetails.":      "Version 1.4 format",
		"First paragraph\n\nsecond paragraph.": "First paragraph",
	}
	for in, want := range cases {
		if got := FirstSentence(in); got != want {
			t.Fatalf("FirstSentence(%q) = %q, want %q", in, got, want)
		}
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
