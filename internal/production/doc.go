// Package production drives capsule builds end to end.
//
// A Producer ties the pieces together for one capsule directory: it decides
// per segment whether the stored produced_hash still matches, composes and
// renders the segments that changed, joins them into the capsule file and
// writes the fresh hashes back into the structure document. Progress for the
// whole build flows through a single ffmpeg.Tracker so the stdout stream
// reads as one monotonic run even when most segments are served from cache.
//
// Plan performs the same cache decisions without rendering anything and is
// used by the CLI to show what a build would do.
package production
