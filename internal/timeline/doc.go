// Package timeline resolves durations and offsets from a segment's event
// stream.
//
// All functions are pure over the structure model except for the duration
// probe, which is only consulted for extra clips of record-less segments.
// Times are returned in seconds; event times stay in milliseconds.
package timeline
