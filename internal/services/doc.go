// Package services defines shared utilities consumed by the rename pipeline's
// external integrations.
//
// Structured error markers plus the Wrap helper tag collaborator failures
// (ffprobe, ffmpeg, the vision model) so logs can report a consistent error
// kind. Subpackages hold the integrations themselves.
package services
