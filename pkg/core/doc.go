// Package core is the public entry point for embedding ghost-scrub: a thin,
// stable facade over the internal engine and scrub packages. Editor plugins
// and pipeline tooling should import this package only; the internals behind
// it may change shape between releases without notice.
//
// Example:
//
//	cfg := core.Config{Root: ".", DefaultExcludes: true, Policy: core.DefaultPolicy()}
//	changes, err := core.Run(context.Background(), cfg)
//	if err != nil { /* handle */ }
//	_ = core.MarshalChanges(os.Stdout, changes)
package core
