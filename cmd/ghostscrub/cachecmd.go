package ghostscrub

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmvrbanac/ghost-scrub/internal/cache"
)

func init() {
	cacheCmd := &cobra.Command{Use: "cache", Short: "Manage the clean-file cache"}
	rootCmd.AddCommand(cacheCmd)

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the cache and saved last run for this repository",
		RunE: func(_ *cobra.Command, _ []string) error {
			abs, _ := filepath.Abs(".")
			if err := cache.Clear(abs); err != nil {
				return err
			}
			if err := cache.ClearResults(abs); err != nil {
				return err
			}
			fmt.Println("Cache cleared.")
			return nil
		},
	}
	cacheCmd.AddCommand(clearCmd)

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show cache location, size and last run",
		RunE: func(_ *cobra.Command, _ []string) error {
			abs, _ := filepath.Abs(".")
			p := cache.Path(abs)
			fmt.Println("Path:", p)
			if st, err := os.Stat(p); err == nil {
				fmt.Printf("Size: %d bytes\n", st.Size())
				fmt.Printf("Updated: %s\n", st.ModTime().Format(time.RFC1123))
			} else {
				fmt.Println("No cache on disk.")
			}
			if rr, err := cache.LoadResults(abs); err == nil {
				fmt.Printf("Last run: %s (%d changes)\n", rr.Timestamp.Format(time.RFC1123), rr.Count)
			}
			return nil
		},
	}
	cacheCmd.AddCommand(infoCmd)
}
