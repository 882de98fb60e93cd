// Package config reads the YAML files that tune scanning: a repo-local file
// (.ghost-scrub.yaml and friends, see LocalNames) and a global one under the
// XDG config directory. Every field is a pointer or slice so the CLI can tell
// "unset" from "set to zero" when it layers flags over local over global.
// Character-class toggles live in the chars block; file selection in the
// include/exclude lists. The package only parses and defaults; mapping the
// merged result onto an engine run stays in the command layer.
package config
