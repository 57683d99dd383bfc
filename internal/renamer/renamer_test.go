package renamer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"aivideorename/internal/caption"
	"aivideorename/internal/captioner"
	"aivideorename/internal/guard"
	"aivideorename/internal/metadata"
	"aivideorename/internal/naming"
)

type fakeDates struct {
	date  naming.CaptureDate
	err   error
	delay time.Duration
	calls int
}

func (f *fakeDates) CaptureDate(ctx context.Context, _ string) (naming.CaptureDate, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.date, f.err
}

type fakeCaptions struct {
	caption string
	err     error
	calls   int
}

func (f *fakeCaptions) Caption(context.Context, string) (string, error) {
	f.calls++
	return f.caption, f.err
}

type recordingReporter struct {
	results []Result
}

func (r *recordingReporter) Report(result Result) {
	r.results = append(r.results, result)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

func newTestRenamer(dates *fakeDates, captions *fakeCaptions, opts Options, extra ...Option) (*Renamer, *recordingReporter) {
	reporter := &recordingReporter{}
	options := append([]Option{WithReporter(reporter)}, extra...)
	return New(dates, captions, caption.NewNormalizer(), opts, options...), reporter
}

func TestProcessFileRenamesWithNormalizedCaption(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "vacation_clip.mp4")
	writeFile(t, source, "payload")

	dates := &fakeDates{date: "20240704"}
	captions := &fakeCaptions{caption: "a dog running on the beach"}
	r, reporter := newTestRenamer(dates, captions, Options{})

	result := r.ProcessFile(context.Background(), source)
	if result.Outcome != Renamed {
		t.Fatalf("expected Renamed, got %s (err=%v)", result.Outcome, result.Err)
	}
	if result.NormalizedCaption != "DogRunningBeach" {
		t.Fatalf("unexpected caption %q", result.NormalizedCaption)
	}
	want := filepath.Join(dir, "vacation_clip_20240704_DogRunningBeach.mp4")
	if result.Target != want {
		t.Fatalf("unexpected target %q", result.Target)
	}
	if got := listDir(t, dir); len(got) != 1 || got[0] != "vacation_clip_20240704_DogRunningBeach.mp4" {
		t.Fatalf("unexpected directory contents %v", got)
	}
	data, err := os.ReadFile(want)
	if err != nil || string(data) != "payload" {
		t.Fatalf("renamed file content mismatch: %q %v", data, err)
	}
	if len(reporter.results) != 1 || reporter.results[0].Outcome != Renamed {
		t.Fatalf("expected one reported result, got %+v", reporter.results)
	}
	if result.Err != nil {
		t.Fatalf("successful result should carry no error, got %v", result.Err)
	}
}

func TestProcessFileSkipsCanonicalRegardlessOfFlags(t *testing.T) {
	for _, opts := range []Options{{}, {DryRun: true}, {Confirm: true}, {DryRun: true, Confirm: true}} {
		dir := t.TempDir()
		source := filepath.Join(dir, "trip_20230101_SunsetView.mp4")
		writeFile(t, source, "x")

		dates := &fakeDates{date: "20240101"}
		captions := &fakeCaptions{caption: "anything"}
		confirms := 0
		r, _ := newTestRenamer(dates, captions, opts, WithConfirmer(ConfirmFunc(func(context.Context, string, string) (bool, error) {
			confirms++
			return true, nil
		})))

		result := r.ProcessFile(context.Background(), source)
		if result.Outcome != SkippedAlreadyCanonical {
			t.Fatalf("opts %+v: expected SkippedAlreadyCanonical, got %s", opts, result.Outcome)
		}
		if dates.calls != 0 || captions.calls != 0 || confirms != 0 {
			t.Fatalf("opts %+v: collaborators should not be called", opts)
		}
		if got := listDir(t, dir); len(got) != 1 || got[0] != "trip_20230101_SunsetView.mp4" {
			t.Fatalf("opts %+v: filesystem changed: %v", opts, got)
		}
	}
}

func TestProcessFileStopWordCaptionUsesSentinel(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mov")
	writeFile(t, source, "x")

	r, _ := newTestRenamer(&fakeDates{date: "20220202"}, &fakeCaptions{caption: "in the on"}, Options{})
	result := r.ProcessFile(context.Background(), source)
	if result.Outcome != Renamed {
		t.Fatalf("expected Renamed, got %s", result.Outcome)
	}
	if result.NormalizedCaption != caption.DefaultSentinel {
		t.Fatalf("expected sentinel caption, got %q", result.NormalizedCaption)
	}
	if filepath.Base(result.Target) != "clip_20220202_Video.mov" {
		t.Fatalf("unexpected target %q", result.Target)
	}
}

func TestProcessFileTargetExists(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mp4")
	occupant := filepath.Join(dir, "clip_20240115_Dog.mp4")
	writeFile(t, source, "source")
	writeFile(t, occupant, "occupant")

	r, _ := newTestRenamer(&fakeDates{date: "20240115"}, &fakeCaptions{caption: "dog"}, Options{})
	result := r.ProcessFile(context.Background(), source)
	if result.Outcome != FailedTargetExists {
		t.Fatalf("expected FailedTargetExists, got %s", result.Outcome)
	}
	if !errors.Is(result.Err, guard.ErrTargetExists) {
		t.Fatalf("expected ErrTargetExists, got %v", result.Err)
	}
	if data, _ := os.ReadFile(source); string(data) != "source" {
		t.Fatal("source file changed")
	}
	if data, _ := os.ReadFile(occupant); string(data) != "occupant" {
		t.Fatal("occupant file changed")
	}
}

func TestProcessFileRacingTargetMapsToTargetExists(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mp4")
	writeFile(t, source, "x")

	racing := func(string, string) error {
		return &os.LinkError{Op: "renameat2", Err: guard.ErrTargetExists}
	}
	r, _ := newTestRenamer(&fakeDates{date: "20240115"}, &fakeCaptions{caption: "dog"}, Options{}, WithRenameFunc(racing))
	result := r.ProcessFile(context.Background(), source)
	if result.Outcome != FailedTargetExists {
		t.Fatalf("expected FailedTargetExists, got %s", result.Outcome)
	}
}

func TestProcessFileFilesystemError(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mp4")
	writeFile(t, source, "x")

	boom := errors.New("read-only file system")
	r, _ := newTestRenamer(&fakeDates{date: "20240115"}, &fakeCaptions{caption: "dog"}, Options{},
		WithRenameFunc(func(string, string) error { return boom }))
	result := r.ProcessFile(context.Background(), source)
	if result.Outcome != FailedFilesystemError {
		t.Fatalf("expected FailedFilesystemError, got %s", result.Outcome)
	}
	if !errors.Is(result.Err, boom) {
		t.Fatalf("expected underlying error, got %v", result.Err)
	}
}

func TestProcessFileMissingDateSkipsCaption(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mp4")
	writeFile(t, source, "x")

	dates := &fakeDates{err: metadata.ErrNoDate}
	captions := &fakeCaptions{caption: "dog"}
	r, _ := newTestRenamer(dates, captions, Options{})
	result := r.ProcessFile(context.Background(), source)
	if result.Outcome != FailedMissingDate {
		t.Fatalf("expected FailedMissingDate, got %s", result.Outcome)
	}
	if captions.calls != 0 {
		t.Fatalf("caption provider should not be called, got %d calls", captions.calls)
	}
	if got := listDir(t, dir); len(got) != 1 || got[0] != "clip.mp4" {
		t.Fatalf("filesystem changed: %v", got)
	}
}

func TestProcessFileInvalidDateIsMissing(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mp4")
	writeFile(t, source, "x")

	captions := &fakeCaptions{caption: "dog"}
	r, _ := newTestRenamer(&fakeDates{date: "20241345"}, captions, Options{})
	result := r.ProcessFile(context.Background(), source)
	if result.Outcome != FailedMissingDate {
		t.Fatalf("expected FailedMissingDate, got %s", result.Outcome)
	}
	if captions.calls != 0 {
		t.Fatal("caption provider should not be called")
	}
}

func TestProcessFileDateTimeoutIsMissing(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mp4")
	writeFile(t, source, "x")

	dates := &fakeDates{date: "20240101", delay: time.Second}
	r, _ := newTestRenamer(dates, &fakeCaptions{caption: "dog"}, Options{DateTimeout: 10 * time.Millisecond})
	result := r.ProcessFile(context.Background(), source)
	if result.Outcome != FailedMissingDate {
		t.Fatalf("expected FailedMissingDate, got %s", result.Outcome)
	}
	if !errors.Is(result.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", result.Err)
	}
}

func TestProcessFileMissingCaption(t *testing.T) {
	tests := []struct {
		name     string
		captions *fakeCaptions
	}{
		{name: "error", captions: &fakeCaptions{err: errors.New("model down")}},
		{name: "empty", captions: &fakeCaptions{caption: "   "}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			source := filepath.Join(dir, "clip.mp4")
			writeFile(t, source, "x")

			r, _ := newTestRenamer(&fakeDates{date: "20240101"}, tc.captions, Options{})
			result := r.ProcessFile(context.Background(), source)
			if result.Outcome != FailedMissingCaption {
				t.Fatalf("expected FailedMissingCaption, got %s", result.Outcome)
			}
			if result.Err == nil {
				t.Fatal("expected error on failed result")
			}
			if tc.name == "empty" && !errors.Is(result.Err, captioner.ErrNoCaption) {
				t.Fatalf("expected ErrNoCaption, got %v", result.Err)
			}
		})
	}
}

func TestProcessFileDryRunThenRealRun(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "party.mkv")
	writeFile(t, source, "x")

	dates := &fakeDates{date: "20191231"}
	captions := &fakeCaptions{caption: "Fireworks over the river"}

	dry, _ := newTestRenamer(dates, captions, Options{DryRun: true},
		WithRenameFunc(func(string, string) error {
			t.Fatal("dry run must not rename")
			return nil
		}))
	planned := dry.ProcessFile(context.Background(), source)
	if planned.Outcome != WouldRename {
		t.Fatalf("expected WouldRename, got %s", planned.Outcome)
	}
	if got := listDir(t, dir); len(got) != 1 || got[0] != "party.mkv" {
		t.Fatalf("dry run changed filesystem: %v", got)
	}

	live, _ := newTestRenamer(dates, captions, Options{})
	done := live.ProcessFile(context.Background(), source)
	if done.Outcome != Renamed {
		t.Fatalf("expected Renamed, got %s", done.Outcome)
	}
	if done.Target != planned.Target {
		t.Fatalf("dry run planned %q, real run produced %q", planned.Target, done.Target)
	}
	if filepath.Base(done.Target) != "party_20191231_FireworksRiver.mkv" {
		t.Fatalf("unexpected target %q", done.Target)
	}
}

func TestProcessFileDryRunReportsCollision(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mp4")
	writeFile(t, source, "x")
	writeFile(t, filepath.Join(dir, "clip_20240115_Dog.mp4"), "y")

	r, _ := newTestRenamer(&fakeDates{date: "20240115"}, &fakeCaptions{caption: "dog"}, Options{DryRun: true})
	if result := r.ProcessFile(context.Background(), source); result.Outcome != FailedTargetExists {
		t.Fatalf("expected FailedTargetExists, got %s", result.Outcome)
	}
}

func TestProcessFileConfirmation(t *testing.T) {
	tests := []struct {
		name    string
		answer  bool
		err     error
		want    Outcome
		renamed bool
	}{
		{name: "accepted", answer: true, want: Renamed, renamed: true},
		{name: "declined", answer: false, want: SkippedUserDeclined},
		{name: "read error", answer: true, err: errors.New("eof"), want: SkippedUserDeclined},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			source := filepath.Join(dir, "clip.mp4")
			writeFile(t, source, "x")

			var asked []string
			confirmer := ConfirmFunc(func(_ context.Context, src, dst string) (bool, error) {
				asked = append(asked, src, dst)
				return tc.answer, tc.err
			})
			r, _ := newTestRenamer(&fakeDates{date: "20240115"}, &fakeCaptions{caption: "dog"}, Options{Confirm: true}, WithConfirmer(confirmer))
			result := r.ProcessFile(context.Background(), source)
			if result.Outcome != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, result.Outcome)
			}
			if len(asked) != 2 || asked[0] != source {
				t.Fatalf("unexpected confirmation call %v", asked)
			}
			_, statErr := os.Stat(source)
			if tc.renamed != (statErr != nil) {
				t.Fatalf("renamed=%v but source stat err=%v", tc.renamed, statErr)
			}
		})
	}
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.mp4")
	canonical := filepath.Join(dir, "b_20200101_Beach.mp4")
	blocked := filepath.Join(dir, "c.mp4")
	writeFile(t, good, "a")
	writeFile(t, canonical, "b")
	writeFile(t, blocked, "c")
	writeFile(t, filepath.Join(dir, "c_20240115_Dog.mp4"), "occupant")

	r, reporter := newTestRenamer(&fakeDates{date: "20240115"}, &fakeCaptions{caption: "dog"}, Options{})
	summary := r.ProcessBatch(context.Background(), []string{good, canonical, blocked})

	if summary.Total() != 3 || len(reporter.results) != 3 {
		t.Fatalf("expected 3 results, got %d reported %d", summary.Total(), len(reporter.results))
	}
	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected counts: succeeded=%d failed=%d", summary.Succeeded, summary.Failed)
	}
	if summary.Count(Renamed) != 1 || summary.Count(SkippedAlreadyCanonical) != 1 || summary.Count(FailedTargetExists) != 1 {
		t.Fatalf("unexpected outcome counts %+v", summary.Results)
	}
	if summary.Results[2].Source != blocked {
		t.Fatalf("results out of order: %+v", summary.Results)
	}
}

func TestProcessBatchStopsBetweenFilesOnCancel(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.mp4")
	second := filepath.Join(dir, "b.mp4")
	writeFile(t, first, "a")
	writeFile(t, second, "b")

	ctx, cancel := context.WithCancel(context.Background())
	captions := &fakeCaptions{caption: "dog"}
	r, _ := newTestRenamer(&fakeDates{date: "20240115"}, captions, Options{DryRun: true},
		WithReporter(reporterFunc(func(Result) { cancel() })))

	summary := r.ProcessBatch(ctx, []string{first, second})
	if summary.Total() != 1 {
		t.Fatalf("expected batch to stop after first file, got %d results", summary.Total())
	}
	if summary.Results[0].Outcome != WouldRename {
		t.Fatalf("in-flight file should complete, got %s", summary.Results[0].Outcome)
	}
}

type reporterFunc func(Result)

func (f reporterFunc) Report(result Result) { f(result) }

func TestOutcomeClassification(t *testing.T) {
	for _, outcome := range Outcomes() {
		if outcome.Success() == outcome.Failed() {
			t.Fatalf("%s must be exactly one of success or failure", outcome)
		}
		if outcome.String() == "unknown" {
			t.Fatalf("outcome %d has no name", int(outcome))
		}
	}
	if !SkippedUserDeclined.Success() || !WouldRename.Success() {
		t.Fatal("declined and dry-run outcomes count as success")
	}
	if !FailedFilesystemError.Failed() {
		t.Fatal("filesystem errors count as failure")
	}
}

func TestProcessFileRenamesOnlyOnce(t *testing.T) {
	names := []string{"vacation_clip.mp4", "Clip.Final.v2.mov", "12345.mkv", "trip_20230101.mp4", "old_20230101_sunset.mp4", "café été.webm"}
	if runtime.GOOS != "windows" {
		names = append(names, "a\nb.mp4", "line1\nline2\n.mp4")
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			source := filepath.Join(dir, name)
			writeFile(t, source, "x")

			dates := &fakeDates{date: "20240704"}
			captions := &fakeCaptions{caption: "dog"}
			r, _ := newTestRenamer(dates, captions, Options{})

			first := r.ProcessFile(context.Background(), source)
			if first.Outcome != Renamed {
				t.Fatalf("first run: expected Renamed, got %s (err=%v)", first.Outcome, first.Err)
			}
			second := r.ProcessFile(context.Background(), first.Target)
			if second.Outcome != SkippedAlreadyCanonical {
				t.Fatalf("second run on %q: expected SkippedAlreadyCanonical, got %s (target %q)", first.Target, second.Outcome, second.Target)
			}
			if dates.calls != 1 || captions.calls != 1 {
				t.Fatalf("second run should not consult collaborators: dates=%d captions=%d", dates.calls, captions.calls)
			}
			if got := listDir(t, dir); len(got) != 1 || got[0] != filepath.Base(first.Target) {
				t.Fatalf("unexpected directory contents %q", got)
			}
		})
	}
}

func TestProcessFileLogsSuccessBelowInfo(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mp4")
	writeFile(t, source, "x")
	taken := filepath.Join(dir, "other.mp4")
	writeFile(t, taken, "x")
	writeFile(t, filepath.Join(dir, "other_20240704_Dog.mp4"), "y")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	r, _ := newTestRenamer(&fakeDates{date: "20240704"}, &fakeCaptions{caption: "dog"}, Options{}, WithLogger(logger))

	if result := r.ProcessFile(context.Background(), source); result.Outcome != Renamed {
		t.Fatalf("expected Renamed, got %s", result.Outcome)
	}
	if buf.Len() != 0 {
		t.Fatalf("successful file should not log at info, got %q", buf.String())
	}

	if result := r.ProcessFile(context.Background(), taken); result.Outcome != FailedTargetExists {
		t.Fatalf("expected FailedTargetExists, got %s", result.Outcome)
	}
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "outcome=failed_target_exists") {
		t.Fatalf("expected warning for failed file, got %q", buf.String())
	}
}
