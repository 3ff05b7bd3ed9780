// Package ffmpeg runs render jobs and reports their progress.
//
// Runner executes a filtergraph.Job with `ffmpeg -progress -`, parses the
// frame counter from the progress stream and feeds it to a Tracker shared
// by every job of one capsule build. The Tracker turns frame counts into a
// completion fraction that never decreases and prints it, one value per
// line with two decimals, to the supervisor's channel (stdout).
//
// Jobs render into a staging file that is moved onto the final path only
// after ffmpeg exits successfully, so a failed or interrupted run never
// leaves a partial output behind. Scratch files registered on the graph are
// removed whatever the outcome.
package ffmpeg
