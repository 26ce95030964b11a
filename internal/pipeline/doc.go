// Package pipeline orchestrates file discovery, per-file conversion, and
// batch summary reporting.
//
// [Discover] walks the source tree for WAV and AIFF files. [Run] converts
// each one sequentially into the mirrored location under the target root
// and reports every step through a [Reporter]. [LogReporter] is the
// console implementation; [Discard] drops everything.
package pipeline
