package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func RunBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()
	force, err := OptionalBoolFlag(cmd, "force", false)
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}

	p, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = p.log.Sync() }()

	progress := newScanProgressReporter("build", asJSON)
	out, err := p.build(cmd.Context(), buildOptions{Force: force, Progress: progress.Update})
	if err != nil {
		return err
	}
	progress.Done(len(out.Scanner.Files()))

	return PrintRunSummary(p.summarize("build", out, start), asJSON)
}

func RunStatus(cmd *cobra.Command, args []string) error {
	start := time.Now()
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
	return PrintRunSummary(p.summarize("status", out, start), asJSON)
}
