package ghostscrub

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmvrbanac/ghost-scrub/internal/audit"
	"github.com/jmvrbanac/ghost-scrub/internal/cache"
	"github.com/jmvrbanac/ghost-scrub/internal/config"
	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/files"
	"github.com/jmvrbanac/ghost-scrub/internal/git"
	"github.com/jmvrbanac/ghost-scrub/internal/report"
)

func init() {
	var (
		include    string
		exclude    string
		includeExt string
		excludeExt string
		chars      string
		maxBytes   int64
		output     string
		dryRun     bool
		backup     bool
		summary    string
	)
	cmd := &cobra.Command{
		Use:   "clean [paths...]",
		Short: "Remove invisible characters in place",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case "text", "table", "json":
			default:
				return fmt.Errorf("unknown --output %q (want text, table, or json)", output)
			}

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
			verbose := flagVerbose || (!flagQuiet && verbosity == "verbose")
			quiet := !verbose && (flagQuiet || verbosity == "silent")

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
				Apply:           !dryRun,
				Backup:          backup,
				Policy:          policy,
			}

			if backup && !dryRun && git.IsRepo(abs) {
				// keep .bak copies and bookkeeping files out of the next commit
				for _, pat := range files.DefaultScrubIgnores() {
					if err := files.AppendIgnore(abs, pat); err != nil {
						_, _ = fmt.Fprintln(os.Stderr, "gitignore warning:", err)
						break
					}
				}
			}

			machine := output == "json"
			total, _ := engine.CountTargets(cfg)
			progressed := 0
			showProgress := total > 0 && !machine && !quiet && isTerminal(os.Stderr)
			if showProgress {
				cfg.Progress = func() {
					progressed++
					if progressed%10 == 0 || progressed == total {
						pct := float64(progressed) / float64(total) * 100
						_, _ = fmt.Fprintf(os.Stderr, "\r[%d/%d] %.0f%%", progressed, total, pct)
					}
				}
			}
			res, err := engine.RunWithStats(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("clean error: %w", err)
			}
			if showProgress {
				_, _ = fmt.Fprintln(os.Stderr)
			}

			noColor := pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor) || !isTerminal(os.Stdout)
			opts := report.PrintOptions{NoColor: noColor, Verbose: verbose, Apply: !dryRun, Stats: res.Stats}
			switch {
			case machine:
				if err := report.WriteJSON(os.Stdout, res.Changes, res.Stats); err != nil {
					return err
				}
			case quiet:
				fmt.Fprintln(os.Stdout, report.Summary(res.Stats))
			case output == "table":
				report.PrintTable(os.Stdout, res.Changes, opts)
			default:
				report.PrintText(os.Stdout, res.Changes, opts)
			}

			if summary != "" {
				_ = writeRunSummary(summary, map[string]any{
					"action":         "clean",
					"root":           abs,
					"dry_run":        dryRun,
					"files_scanned":  res.Stats.FilesScanned,
					"files_modified": res.Stats.FilesModified,
					"total_changes":  res.Stats.TotalChanges,
					"errors":         len(res.Stats.Errors),
					"duration":       res.Stats.Duration.String(),
					"timestamp":      time.Now().Format(time.RFC3339),
				})
			}

			mode := "clean"
			if dryRun {
				mode = "dry-run"
			}
			alog := audit.NewAuditLog(abs)
			_ = alog.LogRun(audit.CreateRunRecord(abs, mode, res.Changes, res.Changes, res.Stats, ""))
			if !flagNoCache {
				_ = cache.SaveResults(abs, res.Changes)
			}

			if report.ShouldFail(nil, res.Stats.Errors, "errors") {
				os.Exit(1)
			}
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
	cmd.Flags().StringVar(&output, "output", "text", "output format: text | table | json")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report what would be cleaned without writing")
	cmd.Flags().BoolVar(&backup, "backup", false, "write <path>.bak before rewriting each file")
	cmd.Flags().StringVar(&summary, "summary", "", "write a JSON run summary to this path")
}

// writeRunSummary writes a JSON summary file for apply-mode runs.
func writeRunSummary(path string, data map[string]any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
