package cli

import (
	"fmt"
	"strings"

	"github.com/skelly-dev/docmenu/internal/fileutil"
	"github.com/skelly-dev/docmenu/internal/reconcile"
)

type RunSummary struct {
	Mode          string            `json:"mode"`
	RootPath      string            `json:"root_path"`
	MenuFile      string            `json:"menu_file"`
	Scanned       int               `json:"scanned"`
	Issues        int               `json:"issues"`
	Changed       bool              `json:"changed"`
	Written       bool              `json:"written"`
	Menu          reconcile.Summary `json:"menu"`
	ActiveIndexes []string          `json:"active_indexes,omitempty"`
	BannedIndexes []string          `json:"banned_indexes,omitempty"`
	MassRemoval   string            `json:"mass_removal,omitempty"`
	Warnings      []string          `json:"warnings,omitempty"`
	DurationMS    int64             `json:"duration_ms"`
}

type DoctorSummary struct {
	Mode        string   `json:"mode"`
	RootPath    string   `json:"root_path"`
	MenuDir     string   `json:"menu_dir"`
	Healthy     bool     `json:"healthy"`
	Clean       bool     `json:"clean"`
	Inputs      []string `json:"inputs"`
	Scanned     int      `json:"scanned"`
	Issues      int      `json:"issues"`
	Missing     []string `json:"missing,omitempty"`
	Problems    []string `json:"problems,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func PrintRunSummary(summary RunSummary, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(summary)
	}

	m := summary.Menu
	verdict := "unchanged"
	switch {
	case summary.Written:
		verdict = "written"
	case summary.Changed:
		verdict = "changed"
	}
	fmt.Printf("%s: %s scanned=%d duration=%dms\n", summary.Mode, verdict, summary.Scanned, summary.DurationMS)
	if summary.Written {
		fmt.Printf("output: %s\n", summary.MenuFile)
	}
	fmt.Printf("files: added=%d removed=%d retitled=%d locked=%d\n", m.Added, m.Removed, m.Retitled, m.Locked)
	fmt.Printf("groups: created=%d pruned=%d resorted=%d\n", m.GroupsCreated, m.GroupsPruned, m.Resorted)
	fmt.Printf("indexes: added=%d removed=%d banned=%d unbanned=%d\n", m.IndexesAdded, m.IndexesRemoved, m.Banned, m.Unbanned)
	if len(summary.ActiveIndexes) > 0 {
		fmt.Printf("active indexes (%d): %s\n", len(summary.ActiveIndexes), SummarizePaths(summary.ActiveIndexes, 8))
	}
	if len(summary.BannedIndexes) > 0 {
		fmt.Printf("banned indexes (%d): %s\n", len(summary.BannedIndexes), SummarizePaths(summary.BannedIndexes, 8))
	}
	if summary.Issues > 0 {
		fmt.Printf("scan issues: %d\n", summary.Issues)
	}
	if summary.MassRemoval != "" {
		fmt.Printf("warning: %s\n", summary.MassRemoval)
	}
	for _, w := range summary.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	return nil
}

func SummarizePaths(paths []string, max int) string {
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(paths[:max], ", "), len(paths)-max)
}
