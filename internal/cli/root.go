package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skelly-dev/docmenu/internal/logger"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docmenu",
		Short: "Maintain the navigation menu of generated documentation",
		Long: `Docmenu keeps a human-editable documentation menu in sync with your
source tree. Each build adds new files, drops deleted ones, maintains
generated indexes and regenerates titles, while keeping every manual
edit to the menu file.

The menu lives in .docmenu/menu.txt and can be version-controlled.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("dir", ".", "Project directory")
	rootCmd.PersistentFlags().String("log-level", "", "Override log level: debug|info|warn|error")

	// Core Commands
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create docmenu.yaml and .docmenu/ in the project and run a first build",
		RunE:  RunInit,
	}
	initCmd.Flags().Bool("no-build", false, "Create files only, skip the first build")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Reconcile the menu with the source tree and save it if it changed",
		RunE:  RunBuild,
	}
	buildCmd.Flags().Bool("force", false, "Rewrite the menu file even when nothing changed")
	buildCmd.Flags().Bool("json", false, "Print machine-readable run summary")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the menu whenever source files or the menu file change",
		RunE:  RunWatch,
	}
	watchCmd.Flags().Duration("debounce", defaultDebounce, "Quiet period before a rebuild")

	// Inspect Commands
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show what a build would change without saving",
		RunE:  RunStatus,
	}
	statusCmd.Flags().Bool("json", false, "Print machine-readable status output")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the reconciled menu",
		RunE:  RunShow,
	}
	showCmd.Flags().Bool("json", false, "Print the menu as JSON")

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate docmenu setup and menu freshness",
		RunE:  RunDoctor,
	}
	doctorCmd.Flags().Bool("json", false, "Print machine-readable doctor output")

	// Additional Commands
	installHookCmd := &cobra.Command{
		Use:   "install-hook",
		Short: "Install git pre-commit hook that runs docmenu build",
		RunE:  RunInstallHook,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docmenu %s\n", version)
		},
	}

	rootCmd.AddCommand(
		initCmd,
		buildCmd,
		watchCmd,
		statusCmd,
		showCmd,
		doctorCmd,
		installHookCmd,
		versionCmd,
	)

	return rootCmd
}

// Execute runs the command tree and reports a failure through the console
// logger. It returns the process exit code.
func Execute(version string) int {
	if err := NewRootCommand(version).Execute(); err != nil {
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr != nil {
			fmt.Println(err)
			return 1
		}
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
		return 1
	}
	return 0
}
