// Package checks gates the debug-only invariant validation performed by the
// data structures in this module.
//
// Checks are enabled by default. Building with the coopsync_nochecks tag
// compiles them out, e.g. `go build -tags coopsync_nochecks`.
package checks
