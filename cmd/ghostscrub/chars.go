package ghostscrub

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chars",
		Short: "List character classes and whether each is enabled",
		RunE: func(_ *cobra.Command, _ []string) error {
			abs, _ := filepath.Abs(".")
			lcfg, gcfg, err := loadFileConfigs(abs)
			if err != nil {
				return err
			}
			policy, err := pickPolicy(lcfg, gcfg, "")
			if err != nil {
				return err
			}
			for _, cl := range scrub.Classes(policy) {
				state := "on "
				if !cl.Enabled {
					state = "off"
				}
				fmt.Printf("%-22s %s  %s (%s)\n", cl.ID, state, cl.Desc, cl.Members)
			}
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
