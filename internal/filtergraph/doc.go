// Package filtergraph models an ffmpeg render job as data.
//
// A Graph is an immutable value: every operation returns a new Graph and
// leaves the receiver untouched, so composition functions can be tested in
// isolation and branches never leak state into each other. Inputs, filter
// statements and typed filter arguments are only rendered to ffmpeg's
// textual syntax by Job.Args, right before a process is spawned.
//
// # Key Types
//
// Handle: a stream label, either an input pad such as 0:v or an allocated
// intermediate label.
//
// Input: an asset path with typed per-input options (loop, duration, seek,
// format).
//
// Filter/Chain/Statement: a filter invocation, a comma-joined chain, and a
// labelled statement of the filter_complex program.
//
// Job: a Graph plus mapped outputs and encoding settings.
package filtergraph
