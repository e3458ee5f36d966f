package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/skelly-dev/docmenu/internal/config"
	"github.com/skelly-dev/docmenu/internal/fileutil"
	"github.com/skelly-dev/docmenu/internal/menufile"
	"github.com/skelly-dev/docmenu/internal/state"
)

func RunDoctor(cmd *cobra.Command, args []string) error {
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	p, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = p.log.Sync() }()

	paths := p.store.Paths()
	summary := DoctorSummary{
		Mode:     "doctor",
		RootPath: p.dir,
		MenuDir:  paths.Dir,
	}

	if _, err := os.Stat(filepath.Join(p.dir, config.FileName)); err != nil {
		summary.Missing = append(summary.Missing, config.FileName)
	}
	for _, r := range p.roots.Roots() {
		summary.Inputs = append(summary.Inputs, r.Name+"="+r.Path)
		if info, err := os.Stat(r.Path); err != nil || !info.IsDir() {
			summary.Problems = append(summary.Problems, fmt.Sprintf("input %s is not a directory: %s", r.Name, r.Path))
		}
	}

	hasMenu := fileExists(paths.Menu)
	hasSnapshot := fileExists(paths.Snapshot)
	if !hasMenu {
		summary.Missing = append(summary.Missing, relTo(p.dir, paths.Menu))
	}
	if !hasSnapshot {
		summary.Missing = append(summary.Missing, relTo(p.dir, paths.Snapshot))
	}
	if _, err := state.Load(paths.Cache); err != nil {
		summary.Problems = append(summary.Problems, fmt.Sprintf("title cache unreadable: %v", err))
		summary.Suggestions = append(summary.Suggestions, "delete "+relTo(p.dir, paths.Cache))
	}

	out, err := p.build(cmd.Context(), buildOptions{DryRun: true})
	if err != nil {
		summary.Problems = append(summary.Problems, buildProblems(err)...)
		summary.Suggestions = append(summary.Suggestions, "fix the problems above and run docmenu build")
	} else {
		summary.Scanned = len(out.Scanner.Files())
		summary.Issues = len(out.Scanner.Issues())
		summary.Clean = !out.Result.HasChanged()
		if out.Loaded.SnapshotErr != nil {
			summary.Problems = append(summary.Problems, fmt.Sprintf("snapshot unreadable: %v", out.Loaded.SnapshotErr))
		}
		if out.Result.MassRemoval != nil {
			summary.Problems = append(summary.Problems, out.Result.MassRemoval.Error())
		}
		if summary.Scanned == 0 {
			summary.Problems = append(summary.Problems, "no supported source files found in the inputs")
		}
	}

	if !hasMenu || !hasSnapshot {
		summary.Suggestions = append(summary.Suggestions, "run docmenu init")
	}
	if hasMenu && !summary.Clean && err == nil {
		summary.Suggestions = append(summary.Suggestions, "run docmenu build")
	}

	summary.Missing = fileutil.DedupeStrings(summary.Missing)
	sort.Strings(summary.Missing)
	summary.Suggestions = fileutil.DedupeStrings(summary.Suggestions)
	sort.Strings(summary.Suggestions)
	summary.Healthy = summary.Clean && len(summary.Missing) == 0 && len(summary.Problems) == 0

	if asJSON {
		return fileutil.PrintJSON(summary)
	}

	status := "issues"
	if summary.Healthy {
		status = "ok"
	}
	fmt.Printf("doctor: %s\n", status)
	fmt.Printf("menu: clean=%t scanned=%d scan_issues=%d\n", summary.Clean, summary.Scanned, summary.Issues)
	fmt.Printf("inputs: %s\n", strings.Join(summary.Inputs, ", "))
	if len(summary.Missing) > 0 {
		fmt.Printf("missing (%d): %s\n", len(summary.Missing), strings.Join(summary.Missing, ", "))
	}
	for _, problem := range summary.Problems {
		fmt.Printf("problem: %s\n", problem)
	}
	for _, suggestion := range summary.Suggestions {
		fmt.Printf("next: %s\n", suggestion)
	}
	return nil
}

// buildProblems lists every menu file parse error behind err, or err
// itself when it is not a parse failure.
func buildProblems(err error) []string {
	inner := errors.Unwrap(err)
	if inner == nil {
		inner = err
	}
	out := make([]string, 0)
	for _, e := range multierr.Errors(inner) {
		var perr *menufile.ParseError
		if errors.As(e, &perr) {
			out = append(out, fmt.Sprintf("menu file line %d: %s", perr.Line, perr.Message))
		}
	}
	if len(out) == 0 {
		out = append(out, err.Error())
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func relTo(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
