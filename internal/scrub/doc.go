// Package scrub implements the character-scrubbing engine: a per-code-point
// classifier, a per-line processor, and a whole-file orchestrator producing
// cleaned bytes plus a structured change report. The engine is pure; it never
// touches the filesystem and never prints. This package is internal; external
// consumers should use the stable facade in pkg/core.
package scrub
