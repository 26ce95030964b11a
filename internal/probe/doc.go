// Package probe provides ffprobe-based audio stream inspection and typed
// result structures. Only the first audio stream of a file is requested;
// the JSON document ffprobe prints is parsed by [ParseJSON], which is
// exported so tests can exercise it without a real ffprobe binary.
package probe
