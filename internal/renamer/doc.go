// Package renamer drives the per-file rename pipeline.
//
// For each path the Renamer walks a fixed sequence: skip files whose names are
// already canonical, fetch the capture date, fetch and normalize a caption,
// synthesize the target name, check that nothing would be overwritten,
// optionally ask for confirmation, then rename with a create-only primitive.
// Every path ends in exactly one Outcome recorded in a Result; failures stay
// inside the file that produced them so a batch always runs to completion.
//
// Collaborators (date provider, caption provider, confirmer, reporter) are
// injected so the pipeline can be exercised without ffprobe, ffmpeg, a model
// endpoint, or a terminal.
package renamer
