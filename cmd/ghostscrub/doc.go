// Package ghostscrub provides the command-line interface for the ghost-scrub
// tool. It configures subcommands (scan, clean, watch, etc.), parses flags,
// and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/jmvrbanac/ghost-scrub/cmd/ghostscrub"
//	func main() { ghostscrub.Execute() }
package ghostscrub
