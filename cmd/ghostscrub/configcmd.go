package ghostscrub

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmvrbanac/ghost-scrub/internal/config"
)

var (
	cfgForce  bool
	cfgOutput string
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config file with the default policy",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing config file")
	initCmd.Flags().StringVar(&cfgOutput, "output", ".ghost-scrub.yml", "output file path")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration as YAML",
		RunE:  runConfigShow,
	}
	cfgCmd.AddCommand(showCmd)
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	if !cfgForce {
		if _, err := os.Stat(cfgOutput); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
		}
	}
	b, err := config.DefaultYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Println("Wrote", cfgOutput)
	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	abs, _ := filepath.Abs(".")
	lcfg, gcfg, err := loadFileConfigs(abs)
	if err != nil {
		return err
	}
	merged := overlayConfig(overlayConfig(config.Default(), gcfg), lcfg)
	b, err := yaml.Marshal(&merged)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(b)
	return err
}

// overlayConfig returns base with every field the overlay sets layered on
// top. Slices and the target_characters section replace as whole values, the
// same granularity the flag helpers use.
func overlayConfig(base, over config.FileConfig) config.FileConfig {
	out := base
	if len(over.IncludeExtensions) > 0 {
		out.IncludeExtensions = over.IncludeExtensions
	}
	if len(over.ExcludeExtensions) > 0 {
		out.ExcludeExtensions = over.ExcludeExtensions
	}
	if len(over.IncludePatterns) > 0 {
		out.IncludePatterns = over.IncludePatterns
	}
	if len(over.ExcludePatterns) > 0 {
		out.ExcludePatterns = over.ExcludePatterns
	}
	if over.MaxBytes != nil {
		out.MaxBytes = over.MaxBytes
	}
	if over.Threads != nil {
		out.Threads = over.Threads
	}
	if over.NoColor != nil {
		out.NoColor = over.NoColor
	}
	if over.DefaultExcludes != nil {
		out.DefaultExcludes = over.DefaultExcludes
	}
	if over.Verbosity != nil {
		out.Verbosity = over.Verbosity
	}
	if over.Debounce != nil {
		out.Debounce = over.Debounce
	}
	if over.Chars != nil {
		out.Chars = over.Chars
	}
	return out
}
