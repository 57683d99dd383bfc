// Package captioner produces raw, human-readable captions for media files.
//
// Two providers exist. FilenameCaptioner works offline and derives words from
// the original filename, splitting camelCase and letter/digit boundaries.
// VisionCaptioner grabs a still frame with ffmpeg and asks an OpenAI-compatible
// vision model to describe it. Both return free text; turning it into a
// filename token belongs to the caption package.
package captioner
