package ghostscrub

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmvrbanac/ghost-scrub/internal/report"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

func init() {
	var chars string
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Scrub stdin or one file and show what would change, without writing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := "stdin"
			var data []byte
			var err error
			if len(args) == 1 {
				name = args[0]
				data, err = os.ReadFile(name)
			} else {
				data, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return err
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

			res, err := scrub.Scrub(data, policy)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			// Scrub works on a bare buffer; stamp the source onto each change.
			for i := range res.Changes {
				res.Changes[i].Path = name
			}
			noColor := pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor) || !isTerminal(os.Stdout)
			report.PrintText(os.Stdout, res.Changes, report.PrintOptions{NoColor: noColor, Verbose: true})
			return nil
		},
	}
	cmd.Flags().StringVar(&chars, "chars", "", "extra code points to strip (comma-separated, e.g. U+200B,U+FEFF)")
	rootCmd.AddCommand(cmd)
}
