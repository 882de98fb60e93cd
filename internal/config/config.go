package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
	"github.com/jmvrbanac/ghost-scrub/internal/validate"
)

// FileConfig is the on-disk YAML configuration shape for ghost-scrub.
type FileConfig struct {
	IncludeExtensions []string `yaml:"include_extensions"`
	ExcludeExtensions []string `yaml:"exclude_extensions"`
	IncludePatterns   []string `yaml:"include_patterns"`
	ExcludePatterns   []string `yaml:"exclude_patterns"`
	MaxBytes          *int64   `yaml:"max_bytes"`
	Threads           *int     `yaml:"threads"`
	NoColor           *bool    `yaml:"no_color"`
	DefaultExcludes   *bool    `yaml:"default_excludes"`
	Verbosity         *string  `yaml:"verbosity"`
	Debounce          *string  `yaml:"debounce"`

	// Chars selects the character classes the engine strips.
	Chars *CharsConfig `yaml:"target_characters"`
}

// CharsConfig holds the per-class toggles. Nil fields mean "use the default",
// which is on for every class.
type CharsConfig struct {
	ZeroWidthSpaces    *bool    `yaml:"zero_width_spaces"`
	NonBreakingSpaces  *bool    `yaml:"non_breaking_spaces"`
	ControlCharacters  *bool    `yaml:"control_characters"`
	UnicodeWhitespace  *bool    `yaml:"unicode_whitespace"`
	TrailingWhitespace *bool    `yaml:"trailing_whitespace"`
	CustomChars        []string `yaml:"custom_chars"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
// It supports .ghost-scrub.yml/.yaml and ghost-scrub.yml/.yaml.
func LoadLocal(repoRoot string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range LocalNames() {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LocalNames lists the repo-local file names in search order.
func LocalNames() []string {
	return []string{".ghost-scrub.yml", ".ghost-scrub.yaml", "ghost-scrub.yml", "ghost-scrub.yaml"}
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "ghost-scrub", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// GetChars returns the character-class section, zero-valued when absent.
func (fc FileConfig) GetChars() CharsConfig {
	if fc.Chars == nil {
		return CharsConfig{}
	}
	return *fc.Chars
}

// Policy converts the file configuration into an engine policy. Omitted
// toggles default to on; custom_chars entries must parse as code points.
func (fc FileConfig) Policy() (scrub.Policy, error) {
	p := scrub.DefaultPolicy()
	c := fc.GetChars()
	if c.ZeroWidthSpaces != nil {
		p.StripZeroWidth = *c.ZeroWidthSpaces
	}
	if c.NonBreakingSpaces != nil {
		p.StripNonBreakingSpace = *c.NonBreakingSpaces
	}
	if c.ControlCharacters != nil {
		p.StripControlChars = *c.ControlCharacters
	}
	if c.UnicodeWhitespace != nil {
		p.StripUnicodeWhitespace = *c.UnicodeWhitespace
	}
	if c.TrailingWhitespace != nil {
		p.StripTrailingWhitespace = *c.TrailingWhitespace
	}
	if len(c.CustomChars) > 0 {
		set, err := validate.ParseCodepointSet(c.CustomChars)
		if err != nil {
			return p, fmt.Errorf("custom_chars: %w", err)
		}
		p.CustomChars = set
	}
	return p, nil
}

// GetVerbosity returns the configured verbosity or "normal". Unknown levels
// are an error so a typo does not silently mute output.
func (fc FileConfig) GetVerbosity() (string, error) {
	if fc.Verbosity == nil {
		return "normal", nil
	}
	if !validate.IsVerbosity(*fc.Verbosity) {
		return "", fmt.Errorf("verbosity: unknown level %q", *fc.Verbosity)
	}
	return *fc.Verbosity, nil
}

// GetDebounce returns the watch debounce interval, defaulting to 500ms.
func (fc FileConfig) GetDebounce() (time.Duration, error) {
	if fc.Debounce == nil {
		return 500 * time.Millisecond, nil
	}
	d, err := time.ParseDuration(*fc.Debounce)
	if err != nil {
		return 0, fmt.Errorf("debounce: %w", err)
	}
	return d, nil
}

// DefaultIncludeExtensions lists the extensions scrubbed when the config
// omits include_extensions. Files without any extension always pass the
// extension filter.
func DefaultIncludeExtensions() []string {
	return []string{
		"rs", "py", "js", "ts", "jsx", "tsx", "go", "java", "c", "cpp",
		"h", "hpp", "cs", "php", "rb", "swift", "kt", "scala", "clj",
		"hs", "ml", "txt", "md", "json", "xml", "yaml", "yml", "toml",
		"ini", "cfg", "conf",
	}
}

// DefaultIncludePatterns matches everything under the scan root.
func DefaultIncludePatterns() []string {
	return []string{"**/*"}
}

// DefaultExcludePatterns covers version control metadata, build output,
// dependency trees, editor droppings, and logs.
func DefaultExcludePatterns() []string {
	return []string{
		"**/.git/**", "**/.svn/**", "**/.hg/**", "**/.bzr/**",
		"**/target/**", "**/node_modules/**", "**/build/**", "**/dist/**",
		"**/out/**", "**/bin/**", "**/obj/**",
		"**/__pycache__/**", "**/.pytest_cache/**", "**/venv/**",
		"**/.venv/**", "**/*.egg-info/**",
		"**/.idea/**", "**/.vscode/**", "**/.vs/**",
		"**/*.swp", "**/*.swo", "**/*~", "**/.#*",
		"**/.DS_Store", "**/Thumbs.db", "**/desktop.ini",
		"**/*.tmp", "**/*.temp", "**/*.bak", "**/*.orig",
		"**/*.log", "**/logs/**",
	}
}

// Default returns a fully-populated FileConfig matching the built-in
// behavior, suitable for `config init` and `config show`.
func Default() FileConfig {
	on := true
	verbosity := "normal"
	debounce := "500ms"
	return FileConfig{
		IncludeExtensions: DefaultIncludeExtensions(),
		IncludePatterns:   DefaultIncludePatterns(),
		ExcludePatterns:   DefaultExcludePatterns(),
		Verbosity:         &verbosity,
		Debounce:          &debounce,
		Chars: &CharsConfig{
			ZeroWidthSpaces:    &on,
			NonBreakingSpaces:  &on,
			ControlCharacters:  &on,
			UnicodeWhitespace:  &on,
			TrailingWhitespace: &on,
		},
	}
}

// DefaultYAML renders the default configuration as a commented YAML
// document for `config init`.
func DefaultYAML() ([]byte, error) {
	body, err := yaml.Marshal(Default())
	if err != nil {
		return nil, err
	}
	header := "# ghost-scrub configuration.\n" +
		"# Omitted keys fall back to these defaults; target_characters\n" +
		"# toggles default to true, custom_chars take U+XXXX code points.\n"
	return append([]byte(header), body...), nil
}
