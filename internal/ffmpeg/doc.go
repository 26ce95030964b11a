// Package ffmpeg is the boundary to the external media tools. It builds
// ffmpeg/ffprobe argument vectors, runs them as child processes, decodes
// their diagnostic output permissively and reports failures as typed errors.
//
// The [Tool] interface is the seam the rest of the program depends on:
//   - Probe(ctx, path) → *probe.Result | *ProbeError
//   - RunFilter(ctx, path, filter) → diagnostic text | *ToolError
//   - Transcode(ctx, src, dst, args) → ExecResult (Err is *TranscodeError)
//
// [Exec] implements Tool with os/exec; tests substitute fakes returning
// canned JSON and astats text.
package ffmpeg
