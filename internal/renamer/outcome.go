package renamer

import (
	"time"

	"aivideorename/internal/naming"
)

// Outcome is the terminal state of one file.
type Outcome int

const (
	Renamed Outcome = iota
	WouldRename
	SkippedAlreadyCanonical
	SkippedUserDeclined
	FailedMissingDate
	FailedMissingCaption
	FailedTargetExists
	FailedFilesystemError
)

var outcomeNames = map[Outcome]string{
	Renamed:                 "renamed",
	WouldRename:             "would_rename",
	SkippedAlreadyCanonical: "skipped_already_canonical",
	SkippedUserDeclined:     "skipped_user_declined",
	FailedMissingDate:       "failed_missing_date",
	FailedMissingCaption:    "failed_missing_caption",
	FailedTargetExists:      "failed_target_exists",
	FailedFilesystemError:   "failed_filesystem_error",
}

// Outcomes lists every outcome in display order.
func Outcomes() []Outcome {
	return []Outcome{
		Renamed,
		WouldRename,
		SkippedAlreadyCanonical,
		SkippedUserDeclined,
		FailedMissingDate,
		FailedMissingCaption,
		FailedTargetExists,
		FailedFilesystemError,
	}
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Success reports whether the outcome counts as a success in batch totals.
func (o Outcome) Success() bool {
	switch o {
	case Renamed, WouldRename, SkippedAlreadyCanonical, SkippedUserDeclined:
		return true
	default:
		return false
	}
}

// Failed reports whether the outcome counts as a failure in batch totals.
func (o Outcome) Failed() bool {
	return !o.Success()
}

// Result records how one file was handled.
type Result struct {
	Source            string
	Target            string
	Date              naming.CaptureDate
	RawCaption        string
	NormalizedCaption string
	Outcome           Outcome
	// Err is set only for failed outcomes.
	Err      error
	Duration time.Duration
}

// Summary aggregates a batch run in processing order.
type Summary struct {
	Results   []Result
	Succeeded int
	Failed    int
	counts    map[Outcome]int
}

func (s *Summary) add(result Result) {
	if s.counts == nil {
		s.counts = make(map[Outcome]int)
	}
	s.Results = append(s.Results, result)
	s.counts[result.Outcome]++
	if result.Outcome.Success() {
		s.Succeeded++
	} else {
		s.Failed++
	}
}

// Count returns how many files ended in outcome.
func (s Summary) Count(outcome Outcome) int {
	return s.counts[outcome]
}

// Total returns the number of files processed.
func (s Summary) Total() int {
	return len(s.Results)
}
