// Package metadata supplies capture dates for media files.
//
// ProbeDateProvider reads recording timestamps from container and stream tags
// through ffprobe and, when allowed, falls back to the file modification time.
// The ordered fallback chain is internal to the provider; callers only see a
// date or ErrNoDate.
package metadata
