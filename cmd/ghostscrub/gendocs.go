package ghostscrub

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
)

// gendocs regenerates the character class section in README.md between the
// markers <!-- BEGIN:CHAR_CLASSES --> and <!-- END:CHAR_CLASSES -->.
func init() {
	cmd := &cobra.Command{
		Use:   "gendocs",
		Short: "Regenerate the README character class table",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := "README.md"
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			start := []byte("<!-- BEGIN:CHAR_CLASSES -->")
			end := []byte("<!-- END:CHAR_CLASSES -->")
			i := bytes.Index(b, start)
			j := bytes.Index(b, end)
			if i < 0 || j < 0 || j <= i {
				return fmt.Errorf("markers not found in README.md")
			}

			var out strings.Builder
			out.WriteString("\nEvery class is on by default; `target_characters` toggles in the config turn them off (run `ghost-scrub chars` for the active set):\n\n")
			out.WriteString("| Class | Strips | Code points |\n")
			out.WriteString("| --- | --- | --- |\n")
			for _, cl := range scrub.Classes(scrub.DefaultPolicy()) {
				out.WriteString(fmt.Sprintf("| `%s` | %s | %s |\n", cl.ID, cl.Desc, cl.Members))
			}

			var nb bytes.Buffer
			nb.Write(b[:i])
			nb.Write(start)
			nb.WriteString("\n")
			nb.WriteString(out.String())
			nb.Write(end)
			nb.Write(b[j+len(end):])
			return os.WriteFile(path, nb.Bytes(), 0644)
		},
	}
	rootCmd.AddCommand(cmd)
}
