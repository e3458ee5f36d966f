package cli

import (
	"strings"
	"testing"
)

func TestBuildDocmenuHookBlock(t *testing.T) {
	block := BuildDocmenuHookBlock("/repo/path", ".docmenu")

	for _, expected := range []string{
		HookStart,
		`project_dir="/repo/path"`,
		`docmenu build) || exit 1`,
		`git add -- ".docmenu"`,
		HookEnd,
	} {
		if !strings.Contains(block, expected) {
			t.Fatalf("expected hook block to contain %q, got:\n%s", expected, block)
		}
	}
}

func TestUpsertDocmenuHookCreatesScript(t *testing.T) {
	updated := UpsertDocmenuHook("", "/repo/path", ".docmenu")
	if !strings.HasPrefix(updated, "#!/bin/sh\n") {
		t.Fatalf("expected shebang, got:\n%s", updated)
	}
}

func TestUpsertDocmenuHookReplacesExistingBlock(t *testing.T) {
	existing := "#!/bin/sh\n\necho before\n" + HookStart + "\nold block\n" + HookEnd + "\n\necho after\n"
	updated := UpsertDocmenuHook(existing, "/repo/path", ".docmenu")

	if strings.Contains(updated, "old block") {
		t.Fatalf("expected old hook block to be replaced, got:\n%s", updated)
	}
	if strings.Count(updated, HookStart) != 1 || strings.Count(updated, HookEnd) != 1 {
		t.Fatalf("expected exactly one hook block after update, got:\n%s", updated)
	}
	if !strings.Contains(updated, "echo before") || !strings.Contains(updated, "echo after") {
		t.Fatalf("expected non-docmenu hook content to be preserved, got:\n%s", updated)
	}
}

func TestUpsertDocmenuHookAppendsToForeignHook(t *testing.T) {
	updated := UpsertDocmenuHook("echo lint", "/repo/path", ".docmenu")
	if !strings.HasPrefix(updated, "#!/bin/sh\necho lint\n") {
		t.Fatalf("expected shebang before existing content, got:\n%s", updated)
	}
	if strings.Count(updated, HookStart) != 1 {
		t.Fatalf("expected appended hook block, got:\n%s", updated)
	}
}
