// Package engine contains the run orchestration for ghost-scrub. It selects
// target files, fans them out to a scrub worker pool, rewrites modified files
// atomically in apply mode, and returns structured changes with statistics.
// This package is internal; external consumers should use the stable facade
// in pkg/core.
package engine
