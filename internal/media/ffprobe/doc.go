// Package ffprobe provides typed wrappers around ffprobe.
//
// Key types:
//   - Prober: duration and frame-size probes used while composing jobs
//   - Result: parsed `-show_format -show_streams` output for diagnostics
//   - Stream: individual audio/video/subtitle stream properties
//   - Format: container-level metadata (duration, size, bitrate)
//
// Recorded webm files frequently lack a duration in their header. When the
// duration probe fails, Prober remuxes the asset once into a scratch file
// and probes the copy before giving up.
package ffprobe
