package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/skelly-dev/docmenu/internal/fileutil"
	"github.com/skelly-dev/docmenu/internal/menu"
	"github.com/skelly-dev/docmenu/internal/reconcile"
	"github.com/skelly-dev/docmenu/internal/timestamp"
)

// ShowEntry is the JSON form of one menu entry.
type ShowEntry struct {
	Kind        string      `json:"kind"`
	Title       string      `json:"title,omitempty"`
	Target      string      `json:"target,omitempty"`
	URL         string      `json:"url,omitempty"`
	Topic       string      `json:"topic,omitempty"`
	NoAutoTitle bool        `json:"no_auto_title,omitempty"`
	Children    []ShowEntry `json:"children,omitempty"`
}

// ShowOutput is the JSON form of a reconciled menu.
type ShowOutput struct {
	Title           string      `json:"title,omitempty"`
	SubTitle        string      `json:"sub_title,omitempty"`
	Footer          string      `json:"footer,omitempty"`
	Timestamp       string      `json:"timestamp,omitempty"`
	ActiveIndexes   []string    `json:"active_indexes"`
	PreviousIndexes []string    `json:"previous_indexes"`
	BannedIndexes   []string    `json:"banned_indexes"`
	Content         []ShowEntry `json:"content"`
}

// RunShow prints the menu as the next build would leave it, without
// saving anything.
func RunShow(cmd *cobra.Command, args []string) error {
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}

	p, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = p.log.Sync() }()

	out, err := p.build(cmd.Context(), buildOptions{DryRun: true})
	if err != nil {
		return err
	}

	view := newShowOutput(out.Result, p.cfg.Menu.Options().Now())
	if asJSON {
		return fileutil.PrintJSON(view)
	}
	fmt.Print(renderShowOutput(view))
	return nil
}

func newShowOutput(res *reconcile.Result, now time.Time) ShowOutput {
	view := ShowOutput{
		ActiveIndexes:   res.ActiveIndexes(),
		PreviousIndexes: res.PreviousIndexes(),
		BannedIndexes:   res.BannedIndexes(),
		Content:         showEntries(res.Content()),
	}
	view.Title, _ = res.Title()
	view.SubTitle, _ = res.SubTitle()
	view.Footer, _ = res.Footer()
	if pattern, ok := res.TimestampPattern(); ok {
		view.Timestamp = timestamp.Expand(pattern, now)
	}
	return view
}

func showEntries(entries []*menu.Entry) []ShowEntry {
	out := make([]ShowEntry, 0, len(entries))
	for _, e := range entries {
		item := ShowEntry{
			Kind:        e.Kind.String(),
			Title:       e.Title,
			Target:      e.Target,
			URL:         e.URL,
			Topic:       e.Topic,
			NoAutoTitle: e.NoAutoTitle(),
		}
		if e.IsGroup() {
			item.Children = showEntries(e.Children)
		}
		out = append(out, item)
	}
	return out
}

func renderShowOutput(view ShowOutput) string {
	var b strings.Builder
	if view.Title != "" {
		fmt.Fprintf(&b, "%s\n", view.Title)
	}
	if view.SubTitle != "" {
		fmt.Fprintf(&b, "%s\n", view.SubTitle)
	}
	if view.Title != "" || view.SubTitle != "" {
		b.WriteString("\n")
	}
	renderShowEntries(&b, view.Content, 0)
	if view.Footer != "" || view.Timestamp != "" {
		b.WriteString("\n")
	}
	if view.Footer != "" {
		fmt.Fprintf(&b, "%s\n", view.Footer)
	}
	if view.Timestamp != "" {
		fmt.Fprintf(&b, "%s\n", view.Timestamp)
	}
	return b.String()
}

func renderShowEntries(b *strings.Builder, entries []ShowEntry, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, e := range entries {
		switch e.Kind {
		case "group":
			fmt.Fprintf(b, "%s%s/\n", indent, e.Title)
			renderShowEntries(b, e.Children, depth+1)
		case "file":
			lock := ""
			if e.NoAutoTitle {
				lock = " [locked]"
			}
			fmt.Fprintf(b, "%s%s  (%s)%s\n", indent, e.Title, e.Target, lock)
		case "link":
			fmt.Fprintf(b, "%s%s  <%s>\n", indent, e.Title, e.URL)
		case "index":
			fmt.Fprintf(b, "%s%s  [%s index]\n", indent, e.Title, e.Topic)
		default:
			fmt.Fprintf(b, "%s%s\n", indent, e.Title)
		}
	}
}
