package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"aivideorename/internal/logging"
	"aivideorename/internal/media/ffprobe"
	"aivideorename/internal/naming"
)

// ErrNoDate reports that no capture date could be determined.
var ErrNoDate = errors.New("no capture date")

// DateProvider resolves the capture date of a media file.
type DateProvider interface {
	CaptureDate(ctx context.Context, path string) (naming.CaptureDate, error)
}

// InspectFunc matches ffprobe.Inspect.
type InspectFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// ProbeDateProvider extracts capture dates via ffprobe.
type ProbeDateProvider struct {
	binary        string
	fallbackMtime bool
	location      *time.Location
	inspect       InspectFunc
	stat          func(string) (os.FileInfo, error)
	logger        *slog.Logger
}

// ProbeOption customizes a ProbeDateProvider.
type ProbeOption func(*ProbeDateProvider)

// WithFallbackMtime enables the modification-time fallback.
func WithFallbackMtime(enabled bool) ProbeOption {
	return func(p *ProbeDateProvider) { p.fallbackMtime = enabled }
}

// WithLocation sets the zone UTC timestamps are converted into before the
// calendar date is taken. Defaults to time.Local.
func WithLocation(loc *time.Location) ProbeOption {
	return func(p *ProbeDateProvider) {
		if loc != nil {
			p.location = loc
		}
	}
}

// WithInspector overrides how ffprobe is invoked (useful for tests).
func WithInspector(fn InspectFunc) ProbeOption {
	return func(p *ProbeDateProvider) {
		if fn != nil {
			p.inspect = fn
		}
	}
}

// WithLogger attaches a logger for fallback decisions.
func WithLogger(logger *slog.Logger) ProbeOption {
	return func(p *ProbeDateProvider) {
		p.logger = logging.NewComponentLogger(logger, "metadata")
	}
}

// NewProbeDateProvider constructs a provider that runs binary (ffprobe).
func NewProbeDateProvider(binary string, opts ...ProbeOption) *ProbeDateProvider {
	p := &ProbeDateProvider{
		binary:   binary,
		location: time.Local,
		inspect:  ffprobe.Inspect,
		stat:     os.Stat,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CaptureDate implements DateProvider.
func (p *ProbeDateProvider) CaptureDate(ctx context.Context, path string) (naming.CaptureDate, error) {
	result, err := p.inspect(ctx, p.binary, path)
	if err == nil {
		if ts, ok := result.CreationTime(p.location); ok {
			return naming.DateFromTime(p.localize(ts)), nil
		}
		p.logger.Debug("no creation tag found", logging.String("path", path))
	} else {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("probe %s: %w", path, ctxErr)
		}
		p.logger.Debug("ffprobe failed", logging.String("path", path), logging.Error(err))
	}

	if !p.fallbackMtime {
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoDate, err)
		}
		return "", ErrNoDate
	}

	info, statErr := p.stat(path)
	if statErr != nil {
		return "", fmt.Errorf("%w: stat %s: %v", ErrNoDate, path, statErr)
	}
	p.logger.Debug("using modification time",
		logging.String("path", path),
		logging.String("mtime", info.ModTime().Format(time.RFC3339)),
	)
	return naming.DateFromTime(info.ModTime().In(p.location)), nil
}

// localize moves UTC stamps into the provider's zone. Zone-less stamps
// were already read in that zone and offset stamps keep their own date.
func (p *ProbeDateProvider) localize(ts time.Time) time.Time {
	if ts.Location() == time.UTC {
		return ts.In(p.location)
	}
	return ts
}
