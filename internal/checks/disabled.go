//go:build coopsync_nochecks

package checks

// Enabled reports whether debug-only validation is compiled in.
const Enabled = false
