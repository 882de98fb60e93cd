package ghostscrub

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig          string
	flagVerbose         bool
	flagQuiet           bool
	flagThreads         int
	flagNoColor         bool
	flagNoCache         bool
	flagDefaultExcludes bool
	flagNoUpdateCheck   bool

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the ghost-scrub CLI.
var rootCmd = &cobra.Command{
	Use:           "ghost-scrub",
	Short:         "Find and remove invisible Unicode characters",
	Long:          "ghost-scrub scans your working tree, staged changes, diffs or history for zero-width characters, non-breaking spaces, stray controls and trailing whitespace, and can rewrite files in place.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the ghost-scrub CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file (default: repo-local .ghost-scrub.yml, then global)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "show original/cleaned line pairs with invisible characters made visible")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress per-change output, print the summary line only")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = one per CPU)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable the clean-file cache")
	rootCmd.PersistentFlags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "skip VCS metadata, build output and vendored dependencies")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
}
