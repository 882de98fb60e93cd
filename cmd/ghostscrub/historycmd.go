package ghostscrub

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmvrbanac/ghost-scrub/internal/audit"
)

func init() {
	var (
		limit  int
		asJSON bool
	)
	histCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs, newest first",
		RunE: func(_ *cobra.Command, _ []string) error {
			abs, _ := filepath.Abs(".")
			// LoadHistory is newest-first; a repo with no log yet is just empty.
			records, err := audit.NewAuditLog(abs).LoadHistory()
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			if len(records) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}
			for _, r := range records {
				fmt.Printf("%s  %-7s  %d changes (%d new), %d files scanned, %d modified, %s\n",
					r.Timestamp.Format("2006-01-02 15:04:05"), r.Mode,
					r.TotalChanges, r.NewChanges, r.FilesScanned, r.FilesModified, r.Duration)
			}
			return nil
		},
	}
	histCmd.Flags().IntVar(&limit, "limit", 10, "show at most N runs (0 = all)")
	histCmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(histCmd)

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the run history",
		RunE: func(_ *cobra.Command, _ []string) error {
			abs, _ := filepath.Abs(".")
			if err := audit.NewAuditLog(abs).Clear(); err != nil {
				return err
			}
			fmt.Println("History cleared.")
			return nil
		},
	}
	histCmd.AddCommand(clearCmd)
}
