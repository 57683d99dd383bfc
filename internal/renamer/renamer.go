package renamer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"aivideorename/internal/captioner"
	"aivideorename/internal/guard"
	"aivideorename/internal/logging"
	"aivideorename/internal/metadata"
	"aivideorename/internal/naming"
	"aivideorename/internal/services"
)

// CaptionNormalizer turns raw caption text into a filename token.
type CaptionNormalizer interface {
	Normalize(raw string) string
}

// Reporter receives every terminal result.
type Reporter interface {
	Report(result Result)
}

// Options holds per-run policy.
type Options struct {
	DryRun         bool
	Confirm        bool
	DateTimeout    time.Duration
	CaptionTimeout time.Duration
}

// Renamer runs the rename pipeline for single files and batches.
type Renamer struct {
	dates      metadata.DateProvider
	captions   captioner.Provider
	normalizer CaptionNormalizer
	opts       Options

	confirmer Confirmer
	reporter  Reporter
	logger    *slog.Logger

	checkSafe func(source, target string) (guard.Verdict, error)
	rename    func(source, target string) error
	now       func() time.Time
}

// Option customizes a Renamer.
type Option func(*Renamer)

// WithConfirmer sets the confirmation source used when Options.Confirm is true.
func WithConfirmer(confirmer Confirmer) Option {
	return func(r *Renamer) {
		if confirmer != nil {
			r.confirmer = confirmer
		}
	}
}

// WithReporter sets where terminal results are reported.
func WithReporter(reporter Reporter) Option {
	return func(r *Renamer) {
		if reporter != nil {
			r.reporter = reporter
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renamer) {
		r.logger = logging.NewComponentLogger(logger, "renamer")
	}
}

// WithRenameFunc overrides the create-only rename primitive (useful for tests).
func WithRenameFunc(fn func(source, target string) error) Option {
	return func(r *Renamer) {
		if fn != nil {
			r.rename = fn
		}
	}
}

// New constructs a Renamer.
func New(dates metadata.DateProvider, captions captioner.Provider, normalizer CaptionNormalizer, opts Options, options ...Option) *Renamer {
	r := &Renamer{
		dates:      dates,
		captions:   captions,
		normalizer: normalizer,
		opts:       opts,
		confirmer:  ConfirmFunc(declineAll),
		reporter:   discardReporter{},
		logger:     logging.NewNop(),
		checkSafe:  guard.CheckSafe,
		rename:     guard.RenameNoReplace,
		now:        time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// ProcessBatch runs ProcessFile for each path in order. Cancellation of ctx
// stops the batch before the next file; the file in progress completes.
func (r *Renamer) ProcessBatch(ctx context.Context, paths []string) Summary {
	var summary Summary
	fileCtx := context.WithoutCancel(ctx)
	for _, path := range paths {
		if ctx.Err() != nil {
			r.logger.Info("batch interrupted",
				logging.Int("processed", summary.Total()),
				logging.Int("remaining", len(paths)-summary.Total()),
			)
			break
		}
		summary.add(r.ProcessFile(fileCtx, path))
	}
	return summary
}

// ProcessFile runs the pipeline for one file and returns its terminal result.
func (r *Renamer) ProcessFile(ctx context.Context, path string) Result {
	started := r.now()
	ctx = logging.WithSourcePath(ctx, path)
	result := r.process(ctx, path)
	result.Duration = r.now().Sub(started)

	r.log(ctx, result)
	r.reporter.Report(result)
	return result
}

func (r *Renamer) process(ctx context.Context, path string) Result {
	result := Result{Source: path}

	if naming.IsCanonical(filepath.Base(path)) {
		result.Outcome = SkippedAlreadyCanonical
		return result
	}

	date, err := r.fetchDate(ctx, path)
	if err != nil {
		return failed(result, FailedMissingDate, err)
	}
	result.Date = date

	raw, err := r.fetchCaption(ctx, path)
	if err != nil {
		return failed(result, FailedMissingCaption, err)
	}
	result.RawCaption = raw
	result.NormalizedCaption = r.normalizer.Normalize(raw)
	result.Target = naming.TargetPath(path, date, result.NormalizedCaption)

	verdict, err := r.checkSafe(path, result.Target)
	if err != nil {
		return failed(result, FailedFilesystemError, err)
	}
	if verdict == guard.AlreadyExists {
		return failed(result, FailedTargetExists, fmt.Errorf("%s: %w", result.Target, guard.ErrTargetExists))
	}

	if r.opts.DryRun {
		result.Outcome = WouldRename
		return result
	}

	if r.opts.Confirm {
		ok, err := r.confirmer.Confirm(ctx, path, result.Target)
		if err != nil {
			logging.WithContext(ctx, r.logger).Debug("confirmation read failed", logging.Error(err))
		}
		if err != nil || !ok {
			result.Outcome = SkippedUserDeclined
			return result
		}
	}

	if err := r.rename(path, result.Target); err != nil {
		if errors.Is(err, guard.ErrTargetExists) {
			return failed(result, FailedTargetExists, err)
		}
		return failed(result, FailedFilesystemError, err)
	}
	result.Outcome = Renamed
	return result
}

func (r *Renamer) fetchDate(ctx context.Context, path string) (naming.CaptureDate, error) {
	if r.dates == nil {
		return "", metadata.ErrNoDate
	}
	ctx, cancel := withOptionalTimeout(ctx, r.opts.DateTimeout)
	defer cancel()

	date, err := r.dates.CaptureDate(ctx, path)
	if err != nil {
		return "", err
	}
	if _, err := naming.ParseCaptureDate(date.String()); err != nil {
		return "", fmt.Errorf("%w: %v", metadata.ErrNoDate, err)
	}
	return date, nil
}

func (r *Renamer) fetchCaption(ctx context.Context, path string) (string, error) {
	if r.captions == nil {
		return "", captioner.ErrNoCaption
	}
	ctx, cancel := withOptionalTimeout(ctx, r.opts.CaptionTimeout)
	defer cancel()

	raw, err := r.captions.Caption(ctx, path)
	if err != nil {
		return "", err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", captioner.ErrNoCaption
	}
	return raw, nil
}

func (r *Renamer) log(ctx context.Context, result Result) {
	logger := logging.WithContext(ctx, r.logger)
	attrs := []logging.Attr{
		logging.String(logging.FieldOutcome, result.Outcome.String()),
		logging.Duration("elapsed", result.Duration),
	}
	if result.Target != "" {
		attrs = append(attrs, logging.String("target", result.Target))
	}
	if result.Date != "" {
		attrs = append(attrs, logging.String("capture_date", result.Date.String()))
	}
	if result.NormalizedCaption != "" {
		attrs = append(attrs, logging.String("caption", result.NormalizedCaption))
	}
	if result.Err != nil {
		attrs = append(attrs,
			logging.Error(result.Err),
			logging.String("error_kind", services.Kind(result.Err)),
		)
		logger.Warn("file not renamed", logging.Args(attrs...)...)
		return
	}
	// The reporter already shows successes to the user.
	logger.Debug("file processed", logging.Args(attrs...)...)
}

func failed(result Result, outcome Outcome, err error) Result {
	result.Outcome = outcome
	result.Err = err
	return result
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func declineAll(context.Context, string, string) (bool, error) {
	return false, nil
}

type discardReporter struct{}

func (discardReporter) Report(Result) {}
