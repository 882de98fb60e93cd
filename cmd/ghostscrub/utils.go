package ghostscrub

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	semver3 "github.com/blang/semver"
	semver "github.com/blang/semver/v4"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"golang.org/x/term"

	"github.com/jmvrbanac/ghost-scrub/internal/config"
	"github.com/jmvrbanac/ghost-scrub/internal/scrub"
	"github.com/jmvrbanac/ghost-scrub/internal/validate"
)

// selfUpdate replaces the running binary with the newest GitHub release.
// It reports the release it landed on and whether an update actually ran.
func selfUpdate() (string, bool, error) {
	v := version
	// Use build info if tag overridden at build-time
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(v) == 0 {
				v = s.Value
			}
		}
	}
	// parse semantic version (strip leading v)
	ver, err := semver.ParseTolerant(v)
	if err != nil {
		ver = semver.MustParse("0.0.0")
	}
	cur := semver3.MustParse(ver.String())
	latest, err := selfupdate.UpdateSelf(cur, "jmvrbanac/ghost-scrub")
	if err != nil {
		return "", false, err
	}
	return latest.Version.String(), latest.Version.GT(cur), nil
}

// loadFileConfigs resolves the layered file configuration. An explicit
// --config path must load cleanly; a repo-local file that exists but fails to
// parse is also an error, while a missing or unreadable global file is
// treated as absent.
func loadFileConfigs(root string) (local, global config.FileConfig, err error) {
	if flagConfig != "" {
		local, err = config.LoadFile(flagConfig)
		if err != nil {
			return local, global, fmt.Errorf("config %s: %w", flagConfig, err)
		}
		return local, global, nil
	}
	for _, name := range config.LocalNames() {
		p := filepath.Join(root, name)
		if _, statErr := os.Stat(p); statErr == nil {
			local, err = config.LoadFile(p)
			if err != nil {
				return local, global, fmt.Errorf("config %s: %w", name, err)
			}
			break
		}
	}
	if c, gerr := config.LoadGlobal(); gerr == nil {
		global = c
	}
	return local, global, nil
}

// pickPolicy resolves the character policy. The target_characters section is
// one config key: a local section shadows the global one entirely. Code
// points from the --chars flag are added on top.
func pickPolicy(local, global config.FileConfig, extra string) (scrub.Policy, error) {
	src := global
	if local.Chars != nil {
		src = local
	}
	p, err := src.Policy()
	if err != nil {
		return p, err
	}
	if extra != "" {
		set, err := validate.ParseCodepointSet(validate.SplitCodepointFlag(extra))
		if err != nil {
			return p, fmt.Errorf("--chars: %w", err)
		}
		if p.CustomChars == nil {
			p.CustomChars = map[rune]bool{}
		}
		for r, on := range set {
			if on {
				p.CustomChars[r] = true
			}
		}
	}
	return p, nil
}

func pickVerbosity(local, global config.FileConfig) (string, error) {
	if local.Verbosity != nil {
		return local.GetVerbosity()
	}
	return global.GetVerbosity()
}

func pickDebounce(local, global config.FileConfig) (time.Duration, error) {
	if local.Debounce != nil {
		return local.GetDebounce()
	}
	return global.GetDebounce()
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}

// pickInt64Default resolves an int64 flag with a nonzero default: only an
// explicitly set flag beats the config files.
func pickInt64Default(flagSet bool, cli int64, local, global *int64) int64 {
	if flagSet {
		return cli
	}
	if v := pickInt64(0, local, global); v != 0 {
		return v
	}
	return cli
}

// pickBoolDefault resolves a bool flag whose default is true: only an
// explicitly set flag beats the config files.
func pickBoolDefault(flagSet, cli bool, local, global *bool) bool {
	if flagSet {
		return cli
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return cli
}

// pickGlobs resolves comma-separated glob lists against config pattern
// slices.
func pickGlobs(cli string, local, global []string) string {
	if cli != "" {
		return cli
	}
	if len(local) > 0 {
		return strings.Join(local, ",")
	}
	if len(global) > 0 {
		return strings.Join(global, ",")
	}
	return ""
}

// pickList resolves a comma-separated flag against config string slices.
func pickList(cli string, local, global []string) []string {
	if cli != "" {
		return splitList(cli)
	}
	if len(local) > 0 {
		return local
	}
	return global
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// isTerminal reports whether f is an interactive terminal, so progress bars
// and color degrade cleanly under redirection.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
