package ghostscrub

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmvrbanac/ghost-scrub/internal/audit"
	"github.com/jmvrbanac/ghost-scrub/internal/cache"
	"github.com/jmvrbanac/ghost-scrub/internal/config"
	"github.com/jmvrbanac/ghost-scrub/internal/engine"
	"github.com/jmvrbanac/ghost-scrub/internal/report"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
	"github.com/jmvrbanac/ghost-scrub/internal/tui"
	"github.com/jmvrbanac/ghost-scrub/internal/update"
)

var (
	flagInclude      string
	flagExclude      string
	flagIncludeExt   string
	flagExcludeExt   string
	flagChars        string
	flagMaxBytes     int64
	flagOutput       string
	flagFailOn       string
	flagBaseline     string
	flagStaged       bool
	flagDiffBase     string
	flagHistory      int
	flagInteractive  bool
	flagUploadURL    string
	flagUploadToken  string
	flagNoUploadMeta bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Report invisible characters without writing",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().StringVar(&flagIncludeExt, "include-ext", "", "comma-separated extensions to scan (default: common source and text files)")
	cmd.Flags().StringVar(&flagExcludeExt, "exclude-ext", "", "comma-separated extensions to skip")
	cmd.Flags().StringVar(&flagChars, "chars", "", "extra code points to strip (comma-separated, e.g. U+200B,U+FEFF)")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 1<<20, "skip files larger than this")
	cmd.Flags().StringVar(&flagOutput, "output", "text", "output format: text | table | json | sarif")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "changes", "exit 1 on changes|errors|none")
	cmd.Flags().StringVar(&flagBaseline, "baseline", "", "baseline file of accepted changes (default "+report.BaselineName+")")
	cmd.Flags().BoolVar(&flagStaged, "staged", false, "scan staged changes instead of the working tree")
	cmd.Flags().StringVar(&flagDiffBase, "diff-base", "", "scan lines added since this ref (e.g. main)")
	cmd.Flags().IntVar(&flagHistory, "history", 0, "scan the last N commits (0=off)")
	cmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "browse results in the terminal UI")
	cmd.Flags().StringVar(&flagUploadURL, "upload-url", "", "POST results (JSON) to this URL after the scan")
	cmd.Flags().StringVar(&flagUploadToken, "upload-token", "", "Bearer token for upload auth")
	cmd.Flags().BoolVar(&flagNoUploadMeta, "no-upload-meta", false, "do not include repo/commit/branch in the upload envelope")
}

func runScan(cmd *cobra.Command, args []string) error {
	switch flagOutput {
	case "text", "table", "json", "sarif":
	default:
		return fmt.Errorf("unknown --output %q (want text, table, json, or sarif)", flagOutput)
	}

	modes := 0
	if flagStaged {
		modes++
	}
	if flagDiffBase != "" {
		modes++
	}
	if flagHistory > 0 {
		modes++
	}
	if modes > 1 {
		return errors.New("--staged, --diff-base and --history are mutually exclusive")
	}

	abs, _ := filepath.Abs(".")
	// Load configs: CLI > local > global
	lcfg, gcfg, err := loadFileConfigs(abs)
	if err != nil {
		return err
	}
	policy, err := pickPolicy(lcfg, gcfg, flagChars)
	if err != nil {
		return err
	}
	verbosity, err := pickVerbosity(lcfg, gcfg)
	if err != nil {
		return err
	}
	verbose := flagVerbose || (!flagQuiet && verbosity == "verbose")
	quiet := !verbose && (flagQuiet || verbosity == "silent")

	includeExts := pickList(flagIncludeExt, lcfg.IncludeExtensions, gcfg.IncludeExtensions)
	if len(includeExts) == 0 {
		includeExts = config.DefaultIncludeExtensions()
	}
	cfg := engine.Config{
		Root:            abs,
		Paths:           args,
		IncludeGlobs:    pickGlobs(flagInclude, lcfg.IncludePatterns, gcfg.IncludePatterns),
		ExcludeGlobs:    pickGlobs(flagExclude, lcfg.ExcludePatterns, gcfg.ExcludePatterns),
		IncludeExts:     includeExts,
		ExcludeExts:     pickList(flagExcludeExt, lcfg.ExcludeExtensions, gcfg.ExcludeExtensions),
		MaxBytes:        pickInt64Default(cmd.Flags().Changed("max-bytes"), flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
		Threads:         pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		NoCache:         flagNoCache,
		DefaultExcludes: pickBoolDefault(cmd.Flags().Changed("default-excludes"), flagDefaultExcludes, lcfg.DefaultExcludes, gcfg.DefaultExcludes),
		ScanStaged:      flagStaged,
		HistoryCommits:  flagHistory,
		BaseBranch:      flagDiffBase,
		Policy:          policy,
	}

	if flagInteractive {
		if flagOutput == "json" || flagOutput == "sarif" {
			return errors.New("--interactive cannot be combined with --output json or sarif")
		}
		return runScanInteractive(cmd, cfg, abs)
	}

	machine := flagOutput == "json" || flagOutput == "sarif"

	// Friendly banner before scanning
	if !machine && !quiet {
		if !flagNoUpdateCheck {
			if latest, newer, _ := update.Check(version, false); newer && latest != "" {
				_, _ = fmt.Fprintf(os.Stderr, "(new version available: v%s)  run 'ghost-scrub update' to upgrade\n", latest)
			}
		}
		enabled := 0
		for _, cl := range scrub.Classes(policy) {
			if cl.Enabled {
				enabled++
			}
		}
		_, _ = fmt.Fprintf(os.Stderr, "Scanning %s with %d character classes...\n", abs, enabled)
	}

	// Optional progress bar: simple textual bar
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
		return fmt.Errorf("scan error: %w", err)
	}
	if showProgress {
		_, _ = fmt.Fprintln(os.Stderr)
	}

	baselinePath := flagBaseline
	if baselinePath == "" {
		baselinePath = report.BaselineName
	}
	baseline, _ := report.LoadBaseline(baselinePath)
	newChanges := report.FilterNewChanges(res.Changes, baseline)
	if newChanges == nil {
		newChanges = []scrub.Change{}
	} // no `null` in JSON

	noColor := pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor) || !isTerminal(os.Stdout)
	opts := report.PrintOptions{NoColor: noColor, Verbose: verbose, Stats: res.Stats}
	switch {
	case flagOutput == "sarif":
		if err := report.WriteSARIFWithStats(os.Stdout, newChanges, res.Stats); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagOutput == "json":
		if err := report.WriteJSON(os.Stdout, newChanges, res.Stats); err != nil {
			return err
		}
	case quiet:
		fmt.Fprintln(os.Stdout, report.Summary(res.Stats))
	case flagOutput == "table":
		report.PrintTable(os.Stdout, newChanges, opts)
	default:
		report.PrintText(os.Stdout, newChanges, opts)
	}

	// Optional upload step: do not fail the scan on upload errors
	if flagUploadURL != "" {
		if err := uploadChanges(abs, flagUploadURL, flagUploadToken, flagNoUploadMeta, convertChanges(newChanges), res.Stats); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "upload warning:", err)
		}
	}

	baselineUsed := ""
	if len(baseline.Items) > 0 {
		baselineUsed = baselinePath
	}
	alog := audit.NewAuditLog(abs)
	_ = alog.LogRun(audit.CreateRunRecord(abs, "scan", res.Changes, newChanges, res.Stats, baselineUsed))
	if !flagNoCache {
		_ = cache.SaveResults(abs, res.Changes)
	}

	if report.ShouldFail(newChanges, res.Stats.Errors, flagFailOn) {
		os.Exit(1)
	}
	return nil
}

// runScanInteractive opens the results browser, preferring the saved last
// run so it appears without rescanning.
func runScanInteractive(cmd *cobra.Command, cfg engine.Config, root string) error {
	rescan := func() (engine.Result, error) {
		res, err := engine.RunWithStats(cmd.Context(), cfg)
		if err == nil && !cfg.NoCache {
			_ = cache.SaveResults(root, res.Changes)
		}
		return res, err
	}
	if !cfg.NoCache {
		if saved, err := cache.LoadResults(root); err == nil && !saved.Timestamp.IsZero() {
			res := engine.Result{Changes: saved.Changes, Stats: engine.Stats{TotalChanges: saved.Count}}
			return tui.RunCached(res, rescan, saved.Timestamp)
		}
	}
	res, err := rescan()
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	return tui.Run(res, rescan)
}
