package ghostscrub

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update ghost-scrub to the latest GitHub release",
		RunE: func(_ *cobra.Command, _ []string) error {
			latest, updated, err := selfUpdate()
			if err != nil {
				return fmt.Errorf("self-update failed: %w", err)
			}
			if updated {
				fmt.Printf("Updated ghost-scrub to v%s.\n", latest)
				return nil
			}
			fmt.Println("ghost-scrub is already up to date.")
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
