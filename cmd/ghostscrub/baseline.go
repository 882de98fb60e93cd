package ghostscrub

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmvrbanac/ghost-scrub/internal/config"
	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	update := &cobra.Command{
		Use:   "update",
		Short: "Snapshot current changes as the accepted baseline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, _ := filepath.Abs(".")
			lcfg, gcfg, err := loadFileConfigs(abs)
			if err != nil {
				return err
			}
			policy, err := pickPolicy(lcfg, gcfg, "")
			if err != nil {
				return err
			}
			includeExts := pickList("", lcfg.IncludeExtensions, gcfg.IncludeExtensions)
			if len(includeExts) == 0 {
				includeExts = config.DefaultIncludeExtensions()
			}
			cfg := engine.Config{
				Root:            abs,
				IncludeGlobs:    pickGlobs("", lcfg.IncludePatterns, gcfg.IncludePatterns),
				ExcludeGlobs:    pickGlobs("", lcfg.ExcludePatterns, gcfg.ExcludePatterns),
				IncludeExts:     includeExts,
				ExcludeExts:     pickList("", lcfg.ExcludeExtensions, gcfg.ExcludeExtensions),
				MaxBytes:        pickInt64Default(false, 1<<20, lcfg.MaxBytes, gcfg.MaxBytes),
				Threads:         pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
				NoCache:         flagNoCache,
				DefaultExcludes: flagDefaultExcludes,
				Policy:          policy,
			}
			changes, err := engine.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := report.SaveBaseline(report.BaselineName, changes); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Baseline updated: %d accepted changes.\n", len(changes))
			return nil
		},
	}

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
