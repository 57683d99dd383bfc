// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties and tags
//   - Format: container-level metadata and tags
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - Parse: decodes an ffprobe JSON payload
//
// Result.CreationTime walks the container and video stream tags that cameras
// and phones use for the recording timestamp.
package ffprobe
