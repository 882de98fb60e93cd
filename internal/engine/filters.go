package engine

import "strings"

var defaultExcludeDirs = map[string]bool{
	".git":          true,
	".svn":          true,
	".hg":           true,
	".bzr":          true,
	"node_modules":  true,
	"target":        true,
	"vendor":        true,
	"dist":          true,
	"build":         true,
	"out":           true,
	".venv":         true,
	"venv":          true,
	"__pycache__":   true,
	".pytest_cache": true,
	"coverage":      true,
	"bin":           true,
	"obj":           true,
	".idea":         true,
	".vscode":       true,
	".vs":           true,
	"logs":          true,
}

// suffixes for binary, generated, or transient files skipped when default
// excludes are enabled
var defaultExcludeFileSuffixes = []string{
	".min.js", ".map",
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico",
	".pdf", ".zip", ".gz", ".tar", ".tgz", ".7z",
	".jar", ".class", ".exe", ".dll", ".so",
	".wasm", ".pyc",
	".swp", ".swo", "~",
	".tmp", ".temp", ".bak", ".orig",
	".log",
}

// exact filenames skipped when default excludes are enabled, including the
// tool's own bookkeeping files when they fall back outside .git
var defaultExcludeFileNames = map[string]bool{
	".ds_store":                 true,
	"thumbs.db":                 true,
	"desktop.ini":               true,
	".ghostscrubcache.json":     true,
	".ghostscrub_last_run.json": true,
	".ghostscrub_audit.jsonl":   true,
}

// IsDefaultDirExcluded reports whether a directory name is in the built-in
// skip set (version control metadata, dependency trees, build outputs). The
// watcher uses it to avoid registering those trees.
func IsDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name]
}

func isDefaultFileExcluded(lowerRel string) bool {
	for _, s := range defaultExcludeFileSuffixes {
		if strings.HasSuffix(lowerRel, s) {
			return true
		}
	}
	// emacs autosave droppings
	base := lowerRel
	if i := strings.LastIndex(lowerRel, "/"); i >= 0 {
		base = lowerRel[i+1:]
	}
	if strings.HasPrefix(base, ".#") {
		return true
	}
	return defaultExcludeFileNames[base]
}
