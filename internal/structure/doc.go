// Package structure defines the typed capsule document consumed by the
// production pipeline.
//
// A capsule arrives on stdin as JSON. Parse decodes it into strongly typed
// values and runs Capsule.Validate once, so every later stage can rely on
// the structural invariants (bounded event streams, slide/step agreement,
// known webcam variants) without re-checking field presence.
//
// # Key Types
//
// Capsule: the root document with its ordered segments, optional soundtrack
// and the last produced hash.
//
// Segment: one group of slides sharing a recording, its event stream and
// webcam settings.
//
// Event: a timestamped marker (start, end, next_slide, next_sentence, play,
// pause). Unknown types fail decoding.
//
// Webcam: sealed variant over Disabled, Pip and Fullscreen, carried on the
// wire by WebcamSettings.
//
// # Entry Points
//
// Parse/Decode: load and validate a document.
// Capsule.Encode: write the document back, including refreshed hashes.
package structure
