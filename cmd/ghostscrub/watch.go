package ghostscrub

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmvrbanac/ghost-scrub/internal/config"
	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/watch"
)

func init() {
	var (
		include    string
		exclude    string
		includeExt string
		excludeExt string
		chars      string
		maxBytes   int64
		debounce   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Continuously clean files as they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, _ := filepath.Abs(".")
			lcfg, gcfg, err := loadFileConfigs(abs)
			if err != nil {
				return err
			}
			policy, err := pickPolicy(lcfg, gcfg, chars)
			if err != nil {
				return err
			}
			verbosity, err := pickVerbosity(lcfg, gcfg)
			if err != nil {
				return err
			}

			d := debounce
			if !cmd.Flags().Changed("debounce") {
				d, err = pickDebounce(lcfg, gcfg)
				if err != nil {
					return err
				}
			}

			includeExts := pickList(includeExt, lcfg.IncludeExtensions, gcfg.IncludeExtensions)
			if len(includeExts) == 0 {
				includeExts = config.DefaultIncludeExtensions()
			}
			cfg := engine.Config{
				Root:            abs,
				Paths:           args,
				IncludeGlobs:    pickGlobs(include, lcfg.IncludePatterns, gcfg.IncludePatterns),
				ExcludeGlobs:    pickGlobs(exclude, lcfg.ExcludePatterns, gcfg.ExcludePatterns),
				IncludeExts:     includeExts,
				ExcludeExts:     pickList(excludeExt, lcfg.ExcludeExtensions, gcfg.ExcludeExtensions),
				MaxBytes:        pickInt64Default(cmd.Flags().Changed("max-bytes"), maxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
				Threads:         pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
				NoCache:         flagNoCache,
				DefaultExcludes: pickBoolDefault(cmd.Flags().Changed("default-excludes"), flagDefaultExcludes, lcfg.DefaultExcludes, gcfg.DefaultExcludes),
				Apply:           true,
				Policy:          policy,
			}

			level := slog.LevelInfo
			if flagVerbose || verbosity == "verbose" {
				level = slog.LevelDebug
			} else if flagQuiet || verbosity == "silent" {
				level = slog.LevelWarn
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			w, err := watch.New(cfg, watch.Options{
				Debounce: d,
				Logger:   logger,
				OnPass: func(path string, res engine.Result, err error) {
					if err != nil {
						logger.Error("clean pass failed", "path", path, "error", err)
						return
					}
					if res.Stats.TotalChanges > 0 {
						fmt.Fprintf(os.Stdout, "Auto-cleaned %d invisible characters from: %s\n", res.Stats.TotalChanges, path)
					}
				},
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := w.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			w.Stop()
			return nil
		},
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&include, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&exclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().StringVar(&includeExt, "include-ext", "", "comma-separated extensions to clean (default: common source and text files)")
	cmd.Flags().StringVar(&excludeExt, "exclude-ext", "", "comma-separated extensions to skip")
	cmd.Flags().StringVar(&chars, "chars", "", "extra code points to strip (comma-separated, e.g. U+200B,U+FEFF)")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 1<<20, "skip files larger than this")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "settle time before cleaning a changed file")
}
